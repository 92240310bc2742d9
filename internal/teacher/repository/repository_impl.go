package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/teacher/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, teacher *domain.Teacher) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO teachers
		 (id, school_id, first_name, last_name, email, phone, subject, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		teacher.ID,
		teacher.SchoolID,
		teacher.FirstName,
		teacher.LastName,
		teacher.Email,
		teacher.Phone,
		teacher.Subject,
		teacher.Status,
		teacher.CreatedAt,
		teacher.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (*domain.Teacher, error) {
	var teacher domain.Teacher
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM teachers WHERE school_id = ? AND id = ?`,
		schoolID,
		id,
	).Scan(&teacher).Error
	if err != nil {
		return nil, err
	}
	if teacher.ID == 0 {
		return nil, nil
	}
	return &teacher, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Teacher, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Teacher{}).
		Where("school_id = ?", schoolID)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}
	if filter.Subject != "" {
		stmt = stmt.Where("subject = ?", filter.Subject)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var teachers []*domain.Teacher
	err := page.Apply(stmt).
		Order("last_name asc, first_name asc, id asc").
		Find(&teachers).Error
	if err != nil {
		return nil, 0, err
	}
	return teachers, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, teacher *domain.Teacher) error {
	return db.WithContext(ctx).Exec(
		`UPDATE teachers SET
		   first_name = ?, last_name = ?, email = ?, phone = ?, subject = ?, status = ?, updated_at = ?
		 WHERE school_id = ? AND id = ?`,
		teacher.FirstName,
		teacher.LastName,
		teacher.Email,
		teacher.Phone,
		teacher.Subject,
		teacher.Status,
		teacher.UpdatedAt,
		teacher.SchoolID,
		teacher.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM teachers WHERE school_id = ? AND id = ?`,
		schoolID,
		id,
	).Error
}

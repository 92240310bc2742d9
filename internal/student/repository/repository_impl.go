package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/student/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, student *domain.Student) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO students
		 (id, school_id, first_name, last_name, email, admission_no, class_id, guardian_id, date_of_birth, gender, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		student.ID,
		student.SchoolID,
		student.FirstName,
		student.LastName,
		student.Email,
		student.AdmissionNo,
		student.ClassID,
		student.GuardianID,
		student.DateOfBirth,
		student.Gender,
		student.Status,
		student.CreatedAt,
		student.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (*domain.Student, error) {
	var student domain.Student
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM students WHERE school_id = ? AND id = ?`,
		schoolID,
		id,
	).Scan(&student).Error
	if err != nil {
		return nil, err
	}
	if student.ID == 0 {
		return nil, nil
	}
	return &student, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Student, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Student{}).
		Where("school_id = ?", schoolID)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("first_name LIKE ? OR last_name LIKE ? OR admission_no LIKE ?", like, like, like)
	}
	if filter.ClassID != 0 {
		stmt = stmt.Where("class_id = ?", filter.ClassID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var students []*domain.Student
	err := page.Apply(stmt).
		Order("last_name asc, first_name asc, id asc").
		Find(&students).Error
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, student *domain.Student) error {
	return db.WithContext(ctx).Exec(
		`UPDATE students SET
		   first_name = ?, last_name = ?, email = ?, admission_no = ?, class_id = ?,
		   guardian_id = ?, date_of_birth = ?, gender = ?, status = ?, updated_at = ?
		 WHERE school_id = ? AND id = ?`,
		student.FirstName,
		student.LastName,
		student.Email,
		student.AdmissionNo,
		student.ClassID,
		student.GuardianID,
		student.DateOfBirth,
		student.Gender,
		student.Status,
		student.UpdatedAt,
		student.SchoolID,
		student.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM students WHERE school_id = ? AND id = ?`,
		schoolID,
		id,
	).Error
}

package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/guardian/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, guardian *domain.Guardian) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO guardians
		 (id, school_id, first_name, last_name, email, phone, relationship, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		guardian.ID,
		guardian.SchoolID,
		guardian.FirstName,
		guardian.LastName,
		guardian.Email,
		guardian.Phone,
		guardian.Relationship,
		guardian.CreatedAt,
		guardian.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (*domain.Guardian, error) {
	var guardian domain.Guardian
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM guardians WHERE school_id = ? AND id = ?`,
		schoolID,
		id,
	).Scan(&guardian).Error
	if err != nil {
		return nil, err
	}
	if guardian.ID == 0 {
		return nil, nil
	}
	return &guardian, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, search string, page pagination.Pagination) ([]*domain.Guardian, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Guardian{}).
		Where("school_id = ?", schoolID)
	if search != "" {
		like := "%" + search + "%"
		stmt = stmt.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var guardians []*domain.Guardian
	err := page.Apply(stmt).
		Order("last_name asc, first_name asc, id asc").
		Find(&guardians).Error
	if err != nil {
		return nil, 0, err
	}
	return guardians, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, guardian *domain.Guardian) error {
	return db.WithContext(ctx).Exec(
		`UPDATE guardians SET
		   first_name = ?, last_name = ?, email = ?, phone = ?, relationship = ?, updated_at = ?
		 WHERE school_id = ? AND id = ?`,
		guardian.FirstName,
		guardian.LastName,
		guardian.Email,
		guardian.Phone,
		guardian.Relationship,
		guardian.UpdatedAt,
		guardian.SchoolID,
		guardian.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM guardians WHERE school_id = ? AND id = ?`,
		schoolID,
		id,
	).Error
}

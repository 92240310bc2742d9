package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolclass/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, class *domain.Class) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO classes (id, school_id, name, level, teacher_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		class.ID,
		class.SchoolID,
		class.Name,
		class.Level,
		class.TeacherID,
		class.CreatedAt,
		class.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (*domain.Class, error) {
	var class domain.Class
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM classes WHERE school_id = ? AND id = ?`,
		schoolID,
		id,
	).Scan(&class).Error
	if err != nil {
		return nil, err
	}
	if class.ID == 0 {
		return nil, nil
	}
	return &class, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, search string, page pagination.Pagination) ([]*domain.Class, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Class{}).
		Where("school_id = ?", schoolID)
	if search != "" {
		like := "%" + search + "%"
		stmt = stmt.Where("name LIKE ? OR level LIKE ?", like, like)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var classes []*domain.Class
	err := page.Apply(stmt).
		Order("name asc, id asc").
		Find(&classes).Error
	if err != nil {
		return nil, 0, err
	}
	return classes, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, class *domain.Class) error {
	return db.WithContext(ctx).Exec(
		`UPDATE classes SET name = ?, level = ?, teacher_id = ?, updated_at = ?
		 WHERE school_id = ? AND id = ?`,
		class.Name,
		class.Level,
		class.TeacherID,
		class.UpdatedAt,
		class.SchoolID,
		class.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM classes WHERE school_id = ? AND id = ?`,
		schoolID,
		id,
	).Error
}

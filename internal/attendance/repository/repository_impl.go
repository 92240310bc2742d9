package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/attendance/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO attendance_records
		 (id, school_id, student_id, class_id, attendance_date, status, marked_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (school_id, student_id, attendance_date)
		 DO UPDATE SET status = excluded.status, marked_by = excluded.marked_by, updated_at = excluded.updated_at`,
		record.ID,
		record.SchoolID,
		record.StudentID,
		record.ClassID,
		record.Date,
		record.Status,
		record.MarkedBy,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

func (r *repo) InsertIgnore(ctx context.Context, db *gorm.DB, record *domain.Record) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO attendance_records
		 (id, school_id, student_id, class_id, attendance_date, status, marked_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (school_id, student_id, attendance_date) DO NOTHING`,
		record.ID,
		record.SchoolID,
		record.StudentID,
		record.ClassID,
		record.Date,
		record.Status,
		record.MarkedBy,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, schoolID, studentID snowflake.ID, date string) (*domain.Record, error) {
	var record domain.Record
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM attendance_records WHERE school_id = ? AND student_id = ? AND attendance_date = ?`,
		schoolID,
		studentID,
		date,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Record, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("school_id = ?", schoolID)
	if filter.StudentID != 0 {
		stmt = stmt.Where("student_id = ?", filter.StudentID)
	}
	if filter.ClassID != 0 {
		stmt = stmt.Where("class_id = ?", filter.ClassID)
	}
	if filter.Date != "" {
		stmt = stmt.Where("attendance_date = ?", filter.Date)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*domain.Record
	err := page.Apply(stmt).
		Order("attendance_date desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *repo) TotalsByClass(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, from, to string) ([]domain.ClassTotals, error) {
	stmt := db.WithContext(ctx).
		Table("attendance_records AS ar").
		Select(`ar.class_id,
			c.name AS class_name,
			SUM(CASE WHEN ar.status = 'present' THEN 1 ELSE 0 END) AS total_present,
			SUM(CASE WHEN ar.status = 'absent' THEN 1 ELSE 0 END) AS total_absent,
			SUM(CASE WHEN ar.status = 'late' THEN 1 ELSE 0 END) AS total_late,
			SUM(CASE WHEN ar.status = 'excused' THEN 1 ELSE 0 END) AS total_excused,
			COUNT(*) AS total_records`).
		Joins("JOIN classes c ON c.id = ar.class_id").
		Where("ar.school_id = ?", schoolID)
	if from != "" {
		stmt = stmt.Where("ar.attendance_date >= ?", from)
	}
	if to != "" {
		stmt = stmt.Where("ar.attendance_date <= ?", to)
	}

	var totals []domain.ClassTotals
	err := stmt.Group("ar.class_id, c.name").Find(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

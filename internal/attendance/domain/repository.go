package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	StudentID snowflake.ID
	ClassID   snowflake.ID
	Date      string
}

// ClassTotals is the per-class aggregate over a date range.
type ClassTotals struct {
	ClassID      snowflake.ID `gorm:"column:class_id" json:"class_id"`
	ClassName    string       `gorm:"column:class_name" json:"class_name"`
	TotalPresent int64        `gorm:"column:total_present" json:"total_present"`
	TotalAbsent  int64        `gorm:"column:total_absent" json:"total_absent"`
	TotalLate    int64        `gorm:"column:total_late" json:"total_late"`
	TotalExcused int64        `gorm:"column:total_excused" json:"total_excused"`
	TotalRecords int64        `gorm:"column:total_records" json:"total_records"`
}

type Repository interface {
	// Upsert writes the record, replacing status and marked_by when the
	// student already has a record for the day.
	Upsert(ctx context.Context, db *gorm.DB, record *Record) error
	// InsertIgnore writes the record unless one already exists for the
	// student and day, reporting whether a row was inserted.
	InsertIgnore(ctx context.Context, db *gorm.DB, record *Record) (bool, error)
	Find(ctx context.Context, db *gorm.DB, schoolID, studentID snowflake.ID, date string) (*Record, error)
	List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*Record, int64, error)
	TotalsByClass(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, from, to string) ([]ClassTotals, error)
}

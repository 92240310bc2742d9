package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/report/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Counts(ctx context.Context, db *gorm.DB, schoolID snowflake.ID) (domain.Overview, error) {
	var overview domain.Overview
	err := db.WithContext(ctx).Raw(
		`SELECT
			(SELECT COUNT(*) FROM students WHERE school_id = ?) AS students,
			(SELECT COUNT(*) FROM teachers WHERE school_id = ?) AS teachers,
			(SELECT COUNT(*) FROM guardians WHERE school_id = ?) AS guardians,
			(SELECT COUNT(*) FROM classes WHERE school_id = ?) AS classes`,
		schoolID,
		schoolID,
		schoolID,
		schoolID,
	).Scan(&overview).Error
	return overview, err
}

func (r *repo) RecentEnrollments(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM students WHERE school_id = ? AND created_at >= ?`,
		schoolID,
		since,
	).Scan(&count).Error
	return count, err
}

func (r *repo) PaymentTotals(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, overview *domain.Overview) error {
	var row struct {
		Completed int64 `gorm:"column:completed"`
		Pending   int64 `gorm:"column:pending"`
		Failed    int64 `gorm:"column:failed"`
		Revenue   int64 `gorm:"column:revenue"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed,
			COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0) AS revenue
		 FROM payments
		 WHERE school_id = ?`,
		schoolID,
	).Scan(&row).Error
	if err != nil {
		return err
	}
	overview.PaymentsCompleted = row.Completed
	overview.PaymentsPending = row.Pending
	overview.PaymentsFailed = row.Failed
	overview.RevenueCollected = row.Revenue
	return nil
}

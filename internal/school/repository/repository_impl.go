package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/school/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, school *domain.School) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO schools
		 (id, name, slug, email, phone, address, subscription_status, subscription_plan_id,
		  subscription_start_at, subscription_end_at, last_payment_at, account_frozen, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		school.ID,
		school.Name,
		school.Slug,
		school.Email,
		school.Phone,
		school.Address,
		school.SubscriptionStatus,
		school.SubscriptionPlanID,
		school.SubscriptionStartAt,
		school.SubscriptionEndAt,
		school.LastPaymentAt,
		school.AccountFrozen,
		school.CreatedAt,
		school.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.School, error) {
	var school domain.School
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM schools WHERE id = ?`,
		id,
	).Scan(&school).Error
	if err != nil {
		return nil, err
	}
	if school.ID == 0 {
		return nil, nil
	}
	return &school, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.School, error) {
	var school domain.School
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM schools WHERE slug = ?`,
		slug,
	).Scan(&school).Error
	if err != nil {
		return nil, err
	}
	if school.ID == 0 {
		return nil, nil
	}
	return &school, nil
}

func (r *repo) UpdateSettings(ctx context.Context, db *gorm.DB, school *domain.School) error {
	return db.WithContext(ctx).Exec(
		`UPDATE schools SET name = ?, email = ?, phone = ?, address = ?, updated_at = ? WHERE id = ?`,
		school.Name,
		school.Email,
		school.Phone,
		school.Address,
		school.UpdatedAt,
		school.ID,
	).Error
}

func (r *repo) ApplySubscription(ctx context.Context, db *gorm.DB, id snowflake.ID, update domain.SubscriptionUpdate, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE schools SET
		   subscription_status = ?,
		   subscription_plan_id = ?,
		   subscription_start_at = ?,
		   subscription_end_at = ?,
		   last_payment_at = ?,
		   account_frozen = ?,
		   updated_at = ?
		 WHERE id = ?`,
		update.Status,
		update.PlanID,
		update.StartAt,
		update.EndAt,
		update.LastPaymentAt,
		false,
		now,
		id,
	).Error
}

func (r *repo) MarkLapsed(ctx context.Context, db *gorm.DB, cutoff, now time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE schools SET subscription_status = ?, account_frozen = ?, updated_at = ?
		 WHERE subscription_status = ? AND subscription_end_at IS NOT NULL AND subscription_end_at < ?`,
		domain.SubscriptionExpired,
		true,
		now,
		domain.SubscriptionActive,
		cutoff,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repo) SubscriptionUsage(ctx context.Context, db *gorm.DB, id snowflake.ID) (domain.Usage, error) {
	var usage domain.Usage
	err := db.WithContext(ctx).Raw(
		`SELECT
		   (SELECT COUNT(1) FROM students WHERE school_id = ?) AS students,
		   (SELECT COUNT(1) FROM teachers WHERE school_id = ?) AS teachers,
		   (SELECT COUNT(1) FROM guardians WHERE school_id = ?) AS guardians,
		   (SELECT COUNT(1) FROM classes WHERE school_id = ?) AS classes`,
		id, id, id, id,
	).Scan(&usage).Error
	if err != nil {
		return domain.Usage{}, err
	}
	return usage, nil
}

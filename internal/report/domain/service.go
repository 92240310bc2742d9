package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrInvalidSchool = errors.New("invalid_school")

// Overview is the dashboard snapshot for one school.
type Overview struct {
	Students          int64 `json:"students"`
	Teachers          int64 `json:"teachers"`
	Guardians         int64 `json:"guardians"`
	Classes           int64 `json:"classes"`
	RecentEnrollments int64 `json:"recent_enrollments"`

	PaymentsCompleted int64 `json:"payments_completed"`
	PaymentsPending   int64 `json:"payments_pending"`
	PaymentsFailed    int64 `json:"payments_failed"`
	RevenueCollected  int64 `json:"revenue_collected"`
}

type Repository interface {
	Counts(ctx context.Context, db *gorm.DB, schoolID snowflake.ID) (Overview, error)
	RecentEnrollments(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, since time.Time) (int64, error)
	PaymentTotals(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, overview *Overview) error
}

type Service interface {
	Overview(ctx context.Context) (Overview, error)
}

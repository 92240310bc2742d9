package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, school *School) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*School, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*School, error)
	UpdateSettings(ctx context.Context, db *gorm.DB, school *School) error
	ApplySubscription(ctx context.Context, db *gorm.DB, id snowflake.ID, update SubscriptionUpdate, now time.Time) error
	MarkLapsed(ctx context.Context, db *gorm.DB, cutoff, now time.Time) (int64, error)
	SubscriptionUsage(ctx context.Context, db *gorm.DB, id snowflake.ID) (Usage, error)
}

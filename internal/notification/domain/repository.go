package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, notification *Notification) error
	List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, recipientID string, unreadOnly bool, page pagination.Pagination) ([]*Notification, int64, error)
	MarkRead(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, recipientID string, ids []snowflake.ID, readAt time.Time) (int64, error)
}

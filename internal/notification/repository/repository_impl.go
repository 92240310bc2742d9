package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/notification/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, notification *domain.Notification) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO notifications
		 (id, school_id, recipient_id, title, message, type, read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		notification.ID,
		notification.SchoolID,
		notification.RecipientID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.Read,
		notification.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, recipientID string, unreadOnly bool, page pagination.Pagination) ([]*domain.Notification, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("school_id = ? AND recipient_id = ?", schoolID, recipientID)
	if unreadOnly {
		stmt = stmt.Where("read = ?", false)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []*domain.Notification
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *repo) MarkRead(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, recipientID string, ids []snowflake.ID, readAt time.Time) (int64, error) {
	query := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("school_id = ? AND recipient_id = ? AND read = ?", schoolID, recipientID, false)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}

	result := query.Updates(map[string]interface{}{
		"read":    true,
		"read_at": readAt,
	})
	return result.RowsAffected, result.Error
}

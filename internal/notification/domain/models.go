package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Notification struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID    snowflake.ID `gorm:"not null;index" json:"school_id"`
	RecipientID string       `gorm:"not null;index" json:"recipient_id"`
	Title       string       `gorm:"not null" json:"title"`
	Message     string       `gorm:"not null" json:"message"`
	Type        string       `gorm:"not null;default:'general'" json:"type"`
	Read        bool         `gorm:"not null;default:false" json:"read"`
	ReadAt      *time.Time   `json:"read_at,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

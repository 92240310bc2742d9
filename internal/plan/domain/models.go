package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Plan struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	Code           string         `gorm:"not null;uniqueIndex" json:"code"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `gorm:"not null;default:''" json:"description,omitempty"`
	Price          int64          `gorm:"not null" json:"price"`
	Currency       string         `gorm:"not null;default:'USD'" json:"currency"`
	DurationMonths int            `gorm:"not null" json:"duration_months"`
	MaxStudents    int            `gorm:"not null;default:0" json:"max_students"`
	MaxTeachers    int            `gorm:"not null;default:0" json:"max_teachers"`
	Features       datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"features"`
	Active         bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Plan) TableName() string {
	return "subscription_plans"
}

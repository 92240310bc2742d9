package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Class struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	SchoolID  snowflake.ID  `gorm:"not null;index" json:"school_id"`
	Name      string        `gorm:"not null" json:"name"`
	Level     string        `gorm:"not null;default:''" json:"level,omitempty"`
	TeacherID *snowflake.ID `json:"teacher_id,omitempty"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Class) TableName() string {
	return "classes"
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Teacher struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID  snowflake.ID `gorm:"not null;index" json:"school_id"`
	FirstName string       `gorm:"not null" json:"first_name"`
	LastName  string       `gorm:"not null" json:"last_name"`
	Email     string       `gorm:"not null" json:"email"`
	Phone     string       `gorm:"not null;default:''" json:"phone,omitempty"`
	Subject   string       `gorm:"not null;default:''" json:"subject,omitempty"`
	Status    string       `gorm:"not null;default:'active'" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Teacher) TableName() string {
	return "teachers"
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Guardian struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID     snowflake.ID `gorm:"not null;index" json:"school_id"`
	FirstName    string       `gorm:"not null" json:"first_name"`
	LastName     string       `gorm:"not null" json:"last_name"`
	Email        string       `gorm:"not null" json:"email"`
	Phone        string       `gorm:"not null;default:''" json:"phone,omitempty"`
	Relationship string       `gorm:"not null;default:''" json:"relationship,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Guardian) TableName() string {
	return "guardians"
}

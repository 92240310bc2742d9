package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Student struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	SchoolID    snowflake.ID  `gorm:"not null;index" json:"school_id"`
	FirstName   string        `gorm:"not null" json:"first_name"`
	LastName    string        `gorm:"not null" json:"last_name"`
	Email       string        `gorm:"not null;default:''" json:"email,omitempty"`
	AdmissionNo string        `gorm:"not null" json:"admission_no"`
	ClassID     *snowflake.ID `json:"class_id,omitempty"`
	GuardianID  *snowflake.ID `json:"guardian_id,omitempty"`
	DateOfBirth *time.Time    `json:"date_of_birth,omitempty"`
	Gender      string        `gorm:"not null;default:''" json:"gender,omitempty"`
	Status      string        `gorm:"not null;default:'active'" json:"status"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

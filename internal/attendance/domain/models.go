package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

// ValidStatus reports whether status is one of the recognised
// attendance states.
func ValidStatus(status string) bool {
	switch status {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// Record is one student's attendance for one calendar day. A student
// has at most one record per day; re-marking replaces the status.
type Record struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID  snowflake.ID `gorm:"not null;index" json:"school_id"`
	StudentID snowflake.ID `gorm:"not null" json:"student_id"`
	ClassID   snowflake.ID `gorm:"not null" json:"class_id"`
	Date      string       `gorm:"not null;column:attendance_date" json:"date"`
	Status    string       `gorm:"not null" json:"status"`
	MarkedBy  string       `gorm:"not null;default:''" json:"marked_by"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Record) TableName() string {
	return "attendance_records"
}

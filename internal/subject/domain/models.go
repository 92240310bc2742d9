package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Subject struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID  snowflake.ID `gorm:"not null;index" json:"school_id"`
	Name      string       `gorm:"not null" json:"name"`
	Code      string       `gorm:"not null;default:''" json:"code,omitempty"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Subject) TableName() string {
	return "subjects"
}

// TeacherAssignment links a teacher to a subject taught in a class.
type TeacherAssignment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID  snowflake.ID `gorm:"not null;index" json:"school_id"`
	TeacherID snowflake.ID `gorm:"not null;index" json:"teacher_id"`
	SubjectID snowflake.ID `gorm:"not null" json:"subject_id"`
	ClassID   snowflake.ID `gorm:"not null" json:"class_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (TeacherAssignment) TableName() string {
	return "teacher_assignments"
}

// AssignmentDetail is an assignment joined with the names a client
// renders in the timetable view.
type AssignmentDetail struct {
	TeacherAssignment
	SubjectName string `json:"subject_name"`
	ClassName   string `json:"class_name"`
	TeacherName string `json:"teacher_name"`
}

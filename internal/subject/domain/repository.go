package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertSubject(ctx context.Context, db *gorm.DB, subject *Subject) error
	FindSubjectByID(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (*Subject, error)
	ListSubjects(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, activeOnly bool) ([]*Subject, error)

	InsertAssignment(ctx context.Context, db *gorm.DB, assignment *TeacherAssignment) error
	ListAssignments(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, teacherID snowflake.ID) ([]*AssignmentDetail, error)

	// TeacherName and ClassName return "" when the row does not exist
	// in the school.
	TeacherName(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (string, error)
	ClassName(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (string, error)
}

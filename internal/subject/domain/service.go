package domain

import (
	"context"
	"errors"
)

type CreateSubjectRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type ListSubjectsRequest struct {
	ActiveOnly bool
}

type ListSubjectsResponse struct {
	Subjects []Subject `json:"subjects"`
}

type AssignTeacherRequest struct {
	TeacherID string `json:"teacher_id"`
	SubjectID string `json:"subject_id"`
	ClassID   string `json:"class_id"`
}

// ListAssignmentsRequest scopes the listing to one teacher. An empty
// TeacherID lists the whole school.
type ListAssignmentsRequest struct {
	TeacherID string
}

type ListAssignmentsResponse struct {
	Assignments []AssignmentDetail `json:"assignments"`
}

type Service interface {
	CreateSubject(context.Context, CreateSubjectRequest) (Subject, error)
	ListSubjects(context.Context, ListSubjectsRequest) (ListSubjectsResponse, error)
	AssignTeacher(context.Context, AssignTeacherRequest) (AssignmentDetail, error)
	ListAssignments(context.Context, ListAssignmentsRequest) (ListAssignmentsResponse, error)
}

var (
	ErrInvalidSchool       = errors.New("invalid_school")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidID           = errors.New("invalid_id")
	ErrDuplicateSubject    = errors.New("duplicate_subject")
	ErrDuplicateAssignment = errors.New("duplicate_assignment")
	ErrNotFound            = errors.New("subject_not_found")
	ErrTeacherNotFound     = errors.New("teacher_not_found")
	ErrClassNotFound       = errors.New("class_not_found")
)

package domain

import (
	"context"
	"errors"

	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

type CreateStudentRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	AdmissionNo string `json:"admission_no"`
	ClassID     string `json:"class_id"`
	GuardianID  string `json:"guardian_id"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
}

type UpdateStudentRequest struct {
	ID          string `json:"-"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	AdmissionNo string `json:"admission_no"`
	ClassID     string `json:"class_id"`
	GuardianID  string `json:"guardian_id"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Status      string `json:"status"`
}

type ListStudentsRequest struct {
	Search  string
	ClassID string
	Status  string
	Page    pagination.Pagination
}

type ListStudentsResponse struct {
	pagination.PageInfo
	Students []Student `json:"students"`
}

type Service interface {
	Create(context.Context, CreateStudentRequest) (Student, error)
	List(context.Context, ListStudentsRequest) (ListStudentsResponse, error)
	GetByID(ctx context.Context, id string) (Student, error)
	Update(context.Context, UpdateStudentRequest) (Student, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidSchool      = errors.New("invalid_school")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidAdmissionNo = errors.New("invalid_admission_no")
	ErrInvalidDateOfBirth = errors.New("invalid_date_of_birth")
	ErrInvalidID          = errors.New("invalid_id")
	ErrDuplicateAdmission = errors.New("duplicate_admission_no")
	ErrNotFound           = errors.New("student_not_found")
)

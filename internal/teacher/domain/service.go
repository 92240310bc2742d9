package domain

import (
	"context"
	"errors"

	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

type CreateTeacherRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
}

type UpdateTeacherRequest struct {
	ID        string `json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
}

type ListTeachersRequest struct {
	Search  string
	Subject string
	Status  string
	Page    pagination.Pagination
}

type ListTeachersResponse struct {
	pagination.PageInfo
	Teachers []Teacher `json:"teachers"`
}

type Service interface {
	Create(context.Context, CreateTeacherRequest) (Teacher, error)
	List(context.Context, ListTeachersRequest) (ListTeachersResponse, error)
	GetByID(ctx context.Context, id string) (Teacher, error)
	Update(context.Context, UpdateTeacherRequest) (Teacher, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidSchool  = errors.New("invalid_school")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidID      = errors.New("invalid_id")
	ErrDuplicateEmail = errors.New("duplicate_email")
	ErrNotFound       = errors.New("teacher_not_found")
)

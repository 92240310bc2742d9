package domain

import (
	"context"
	"errors"

	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

type CreateClassRequest struct {
	Name      string `json:"name"`
	Level     string `json:"level"`
	TeacherID string `json:"teacher_id"`
}

type UpdateClassRequest struct {
	ID        string `json:"-"`
	Name      string `json:"name"`
	Level     string `json:"level"`
	TeacherID string `json:"teacher_id"`
}

type ListClassesRequest struct {
	Search string
	Page   pagination.Pagination
}

type ListClassesResponse struct {
	pagination.PageInfo
	Classes []Class `json:"classes"`
}

type Service interface {
	Create(context.Context, CreateClassRequest) (Class, error)
	List(context.Context, ListClassesRequest) (ListClassesResponse, error)
	GetByID(ctx context.Context, id string) (Class, error)
	Update(context.Context, UpdateClassRequest) (Class, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidSchool = errors.New("invalid_school")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrDuplicateName = errors.New("duplicate_class_name")
	ErrNotFound      = errors.New("class_not_found")
)

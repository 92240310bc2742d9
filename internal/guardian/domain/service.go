package domain

import (
	"context"
	"errors"

	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

type CreateGuardianRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type UpdateGuardianRequest struct {
	ID           string `json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type ListGuardiansRequest struct {
	Search string
	Page   pagination.Pagination
}

type ListGuardiansResponse struct {
	pagination.PageInfo
	Guardians []Guardian `json:"guardians"`
}

type Service interface {
	Create(context.Context, CreateGuardianRequest) (Guardian, error)
	List(context.Context, ListGuardiansRequest) (ListGuardiansResponse, error)
	GetByID(ctx context.Context, id string) (Guardian, error)
	Update(context.Context, UpdateGuardianRequest) (Guardian, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidSchool  = errors.New("invalid_school")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidID      = errors.New("invalid_id")
	ErrDuplicateEmail = errors.New("duplicate_email")
	ErrNotFound       = errors.New("guardian_not_found")
)

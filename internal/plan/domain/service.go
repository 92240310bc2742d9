package domain

import (
	"context"
	"errors"
)

type CreatePlanRequest struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          int64    `json:"price"`
	Currency       string   `json:"currency"`
	DurationMonths int      `json:"duration_months"`
	MaxStudents    int      `json:"max_students"`
	MaxTeachers    int      `json:"max_teachers"`
	Features       []string `json:"features"`
}

type GetPlanRequest struct {
	ID string
}

type ListPlansResponse struct {
	Plans []Plan `json:"plans"`
}

type Service interface {
	Create(context.Context, CreatePlanRequest) (Plan, error)
	ListActive(context.Context) (ListPlansResponse, error)
	GetByID(context.Context, GetPlanRequest) (Plan, error)
}

var (
	ErrInvalidCode     = errors.New("invalid_code")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidDuration = errors.New("invalid_duration")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("plan_not_found")
)

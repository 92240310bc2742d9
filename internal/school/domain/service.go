package domain

import (
	"context"
	"errors"
	"time"
)

type UpdateSchoolRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// SubscriptionSummary joins the school's subscription window with plan
// details and current usage against caps.
type SubscriptionSummary struct {
	Status        SubscriptionStatus `json:"status"`
	PlanID        string             `json:"plan_id,omitempty"`
	PlanName      string             `json:"plan_name,omitempty"`
	Price         int64              `json:"price,omitempty"`
	Currency      string             `json:"currency,omitempty"`
	StartAt       *time.Time         `json:"start_at,omitempty"`
	EndAt         *time.Time         `json:"end_at,omitempty"`
	LastPaymentAt *time.Time         `json:"last_payment_at,omitempty"`
	AccountFrozen bool               `json:"account_frozen"`
	DaysRemaining int                `json:"days_remaining"`
	MaxStudents   int                `json:"max_students,omitempty"`
	MaxTeachers   int                `json:"max_teachers,omitempty"`
	Usage         Usage              `json:"usage"`
}

type Service interface {
	Get(ctx context.Context) (School, error)
	UpdateSettings(ctx context.Context, req UpdateSchoolRequest) (School, error)
	SubscriptionSummary(ctx context.Context) (SubscriptionSummary, error)
}

var (
	ErrInvalidSchool = errors.New("invalid_school")
	ErrInvalidName   = errors.New("invalid_name")
	ErrNotFound      = errors.New("school_not_found")
)

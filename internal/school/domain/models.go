package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type SubscriptionStatus string

const (
	SubscriptionTrial   SubscriptionStatus = "trial"
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

type School struct {
	ID                  snowflake.ID       `gorm:"primaryKey" json:"id"`
	Name                string             `gorm:"not null" json:"name"`
	Slug                string             `gorm:"not null;uniqueIndex" json:"slug"`
	Email               string             `gorm:"not null;default:''" json:"email,omitempty"`
	Phone               string             `gorm:"not null;default:''" json:"phone,omitempty"`
	Address             string             `gorm:"not null;default:''" json:"address,omitempty"`
	SubscriptionStatus  SubscriptionStatus `gorm:"not null;default:'trial'" json:"subscription_status"`
	SubscriptionPlanID  *snowflake.ID      `json:"subscription_plan_id,omitempty"`
	SubscriptionStartAt *time.Time         `json:"subscription_start_at,omitempty"`
	SubscriptionEndAt   *time.Time         `json:"subscription_end_at,omitempty"`
	LastPaymentAt       *time.Time         `json:"last_payment_at,omitempty"`
	AccountFrozen       bool               `gorm:"not null;default:false" json:"account_frozen"`
	CreatedAt           time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (School) TableName() string {
	return "schools"
}

// SubscriptionUpdate is the full replacement of the embedded subscription
// window applied after a successful payment.
type SubscriptionUpdate struct {
	Status        SubscriptionStatus
	PlanID        snowflake.ID
	StartAt       time.Time
	EndAt         time.Time
	LastPaymentAt time.Time
}

// Usage captures current headcounts against plan caps.
type Usage struct {
	Students  int64 `json:"students"`
	Teachers  int64 `json:"teachers"`
	Guardians int64 `json:"guardians"`
	Classes   int64 `json:"classes"`
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

const (
	EventTypePaymentSucceeded = "payment.succeeded"
	EventTypePaymentFailed    = "payment.failed"
)

// Payment is one attempt to purchase a subscription plan for a school.
// Amount is in the currency's minor unit.
type Payment struct {
	ID                    snowflake.ID  `gorm:"primaryKey" json:"id"`
	SchoolID              snowflake.ID  `gorm:"not null" json:"school_id"`
	UserID                snowflake.ID  `gorm:"not null;default:0" json:"user_id"`
	PlanID                *snowflake.ID `json:"plan_id,omitempty"`
	Provider              string        `gorm:"not null" json:"provider"`
	Status                Status        `gorm:"not null;default:'pending'" json:"status"`
	Amount                int64         `gorm:"not null" json:"amount"`
	Currency              string        `gorm:"not null" json:"currency"`
	ProviderReference     string        `gorm:"not null;uniqueIndex" json:"provider_reference"`
	ProviderSessionID     string        `gorm:"not null;default:''" json:"provider_session_id,omitempty"`
	ProviderTransactionID string        `gorm:"not null;default:''" json:"provider_transaction_id,omitempty"`
	AuthorizationURL      string        `gorm:"not null;default:''" json:"authorization_url,omitempty"`
	FailureReason         string        `gorm:"not null;default:''" json:"failure_reason,omitempty"`
	CompletedAt           *time.Time    `json:"completed_at,omitempty"`
	FailedAt              *time.Time    `json:"failed_at,omitempty"`
	CreatedAt             time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// EventRecord is the durable copy of a provider webhook delivery. The
// (provider, provider_event_id) pair is unique so redelivered events are
// detected at insert time.
type EventRecord struct {
	ID              snowflake.ID   `gorm:"primaryKey" json:"id"`
	Provider        string         `gorm:"not null" json:"provider"`
	ProviderEventID string         `gorm:"not null" json:"provider_event_id"`
	EventType       string         `gorm:"not null" json:"event_type"`
	PaymentID       *snowflake.ID  `json:"payment_id,omitempty"`
	Payload         datatypes.JSON `json:"payload,omitempty"`
	ReceivedAt      time.Time      `gorm:"not null" json:"received_at"`
	ProcessedAt     *time.Time     `json:"processed_at,omitempty"`
}

func (EventRecord) TableName() string {
	return "payment_events"
}

// PaymentEvent is the provider-neutral shape adapters produce from a raw
// webhook payload.
type PaymentEvent struct {
	Provider        string
	ProviderEventID string
	Type            string

	// Identifiers recovered from the checkout metadata.
	PaymentID snowflake.ID
	SchoolID  snowflake.ID
	PlanID    snowflake.ID

	ProviderTransactionID string
	Amount                int64
	Currency              string
	FailureReason         string
	OccurredAt            time.Time
	RawPayload            []byte
}

package domain

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

var (
	ErrInvalidProvider       = errors.New("invalid_provider")
	ErrProviderNotFound      = errors.New("provider_not_found")
	ErrInvalidSignature      = errors.New("invalid_signature")
	ErrInvalidPayload        = errors.New("invalid_payload")
	ErrInvalidEvent          = errors.New("invalid_event")
	ErrInvalidConfig         = errors.New("invalid_provider_config")
	ErrInvalidMetadata       = errors.New("invalid_event_metadata")
	ErrEventIgnored          = errors.New("event_ignored")
	ErrEventAlreadyProcessed = errors.New("event_already_processed")
	ErrInvalidAmount         = errors.New("invalid_amount")
	ErrInvalidPlan           = errors.New("invalid_plan")
	ErrPaymentNotFound       = errors.New("payment_not_found")
	ErrCheckoutFailed        = errors.New("checkout_initialization_failed")
	ErrVerificationFailed    = errors.New("payment_verification_failed")
	ErrInvalidSchool         = errors.New("invalid_school")
	ErrInvalidID             = errors.New("invalid_id")
	ErrRateLimited           = errors.New("rate_limited")
)

// AdapterConfig carries the provider credentials an adapter needs to verify
// and parse webhook deliveries.
type AdapterConfig struct {
	Provider string
	Config   map[string]any
}

// PaymentAdapter verifies a webhook delivery against the provider's signing
// scheme and converts the payload into a provider-neutral PaymentEvent.
type PaymentAdapter interface {
	Verify(ctx context.Context, payload []byte, headers http.Header) error
	Parse(ctx context.Context, payload []byte) (*PaymentEvent, error)
}

// AdapterFactory builds adapters for a single provider.
type AdapterFactory interface {
	Provider() string
	NewAdapter(cfg AdapterConfig) (PaymentAdapter, error)
}

// CheckoutRequest is the provider-neutral input to a hosted checkout
// initialization. Amount is in minor units.
type CheckoutRequest struct {
	Reference   string
	Email       string
	Amount      int64
	Currency    string
	PlanName    string
	Description string
	Metadata    CheckoutMetadata
	SuccessURL  string
	CancelURL   string
}

// CheckoutMetadata rides along with the provider session and comes back on
// webhook events so deliveries can be tied to local records.
type CheckoutMetadata struct {
	PaymentID snowflake.ID
	SchoolID  snowflake.ID
	PlanID    snowflake.ID
}

type CheckoutSession struct {
	SessionID        string
	Reference        string
	AuthorizationURL string
}

// TransactionResult is the outcome of a direct provider-side lookup.
type TransactionResult struct {
	Succeeded     bool
	TransactionID string
	Amount        int64
	Currency      string
}

// Gateway is the outbound API client for one provider: hosted checkout
// initialization and transaction verification.
type Gateway interface {
	Provider() string
	InitializeCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error)
	VerifyTransaction(ctx context.Context, reference string) (*TransactionResult, error)
}

type Repository interface {
	InsertEvent(ctx context.Context, db *gorm.DB, event *EventRecord) (bool, error)
	FindEvent(ctx context.Context, db *gorm.DB, provider string, providerEventID string) (*EventRecord, error)
	MarkEventProcessed(ctx context.Context, db *gorm.DB, id snowflake.ID, processedAt time.Time) error

	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, id snowflake.ID) (*Payment, error)
	FindAnyByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	FindByReference(ctx context.Context, db *gorm.DB, reference string) (*Payment, error)
	FindBySessionID(ctx context.Context, db *gorm.DB, sessionID string) (*Payment, error)
	List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, p pagination.Pagination) ([]*Payment, int64, error)
	AttachSession(ctx context.Context, db *gorm.DB, id snowflake.ID, sessionID, authorizationURL string, now time.Time) error
	MarkCompleted(ctx context.Context, db *gorm.DB, id snowflake.ID, transactionID string, now time.Time) error
	MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, reason string, now time.Time) error
}

// CheckoutInput is the tenant-scoped request to begin a plan purchase.
type CheckoutInput struct {
	PlanID   string `json:"plan_id"`
	Provider string `json:"provider"`
	Email    string `json:"email"`
}

type ListPaymentsRequest struct {
	Page pagination.Pagination
}

type ListPaymentsResponse struct {
	pagination.PageInfo
	Payments []Payment `json:"payments"`
}

// Service ingests provider webhook deliveries.
type Service interface {
	IngestWebhook(ctx context.Context, provider string, payload []byte, headers http.Header) error
}

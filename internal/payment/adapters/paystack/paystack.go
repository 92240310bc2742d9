package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "paystack"
}

func (f *Factory) NewAdapter(cfg paymentdomain.AdapterConfig) (paymentdomain.PaymentAdapter, error) {
	secretKey, ok := readString(cfg.Config, "secret_key")
	if !ok || strings.TrimSpace(secretKey) == "" {
		return nil, paymentdomain.ErrInvalidConfig
	}

	return &Adapter{
		secretKey: strings.TrimSpace(secretKey),
	}, nil
}

type Adapter struct {
	secretKey string
}

// Verify checks the x-paystack-signature header: a hex HMAC-SHA512 of the
// raw request body keyed with the account secret key.
// Reference: https://paystack.com/docs/payments/webhooks/#verify-event-origin
func (a *Adapter) Verify(ctx context.Context, payload []byte, headers http.Header) error {
	signature := strings.TrimSpace(headers.Get("x-paystack-signature"))
	if signature == "" {
		return paymentdomain.ErrInvalidSignature
	}

	mac := hmac.New(sha512.New, []byte(a.secretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return paymentdomain.ErrInvalidSignature
	}
	return nil
}

func (a *Adapter) Parse(ctx context.Context, payload []byte) (*paymentdomain.PaymentEvent, error) {
	var event paystackEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}

	var eventType string
	switch event.Event {
	case "charge.success":
		eventType = paymentdomain.EventTypePaymentSucceeded
	case "charge.failed":
		eventType = paymentdomain.EventTypePaymentFailed
	default:
		return nil, paymentdomain.ErrEventIgnored
	}

	data := event.Data
	if strings.TrimSpace(data.Reference) == "" {
		return nil, paymentdomain.ErrInvalidEvent
	}

	paymentID, err := readMetadataID(data.Metadata, "paymentId")
	if err != nil {
		return nil, err
	}
	schoolID, err := readMetadataID(data.Metadata, "schoolId")
	if err != nil {
		return nil, err
	}
	planID, err := readMetadataID(data.Metadata, "planId")
	if err != nil {
		return nil, err
	}

	failureReason := ""
	if eventType == paymentdomain.EventTypePaymentFailed {
		failureReason = strings.TrimSpace(data.GatewayResponse)
		if failureReason == "" {
			failureReason = "Payment failed"
		}
	}

	return &paymentdomain.PaymentEvent{
		Provider: "paystack",
		// Paystack does not carry a webhook delivery id, so the
		// transaction reference plus event name stands in for one.
		ProviderEventID:       data.Reference + "_" + event.Event,
		Type:                  eventType,
		PaymentID:             paymentID,
		SchoolID:              schoolID,
		PlanID:                planID,
		ProviderTransactionID: fmt.Sprintf("%d", data.ID),
		Amount:                data.Amount,
		Currency:              strings.ToUpper(strings.TrimSpace(data.Currency)),
		FailureReason:         failureReason,
		OccurredAt:            occurredAt(data),
		RawPayload:            payload,
	}, nil
}

func occurredAt(data paystackData) time.Time {
	for _, raw := range []string{data.PaidAt, data.CreatedAt} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

func readMetadataID(metadata map[string]any, key string) (snowflake.ID, error) {
	if metadata == nil {
		return 0, paymentdomain.ErrInvalidMetadata
	}
	value, ok := metadata[key]
	if !ok {
		return 0, paymentdomain.ErrInvalidMetadata
	}
	switch typed := value.(type) {
	case string:
		id, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err != nil {
			return 0, paymentdomain.ErrInvalidMetadata
		}
		return id, nil
	case float64:
		return snowflake.ID(int64(typed)), nil
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return 0, paymentdomain.ErrInvalidMetadata
		}
		return snowflake.ID(parsed), nil
	}
	return 0, paymentdomain.ErrInvalidMetadata
}

func readString(config map[string]any, key string) (string, bool) {
	val, ok := config[key]
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

type paystackEvent struct {
	Event string       `json:"event"`
	Data  paystackData `json:"data"`
}

type paystackData struct {
	ID              int64          `json:"id"`
	Reference       string         `json:"reference"`
	Amount          int64          `json:"amount"`
	Currency        string         `json:"currency"`
	GatewayResponse string         `json:"gateway_response"`
	PaidAt          string         `json:"paid_at"`
	CreatedAt       string         `json:"created_at"`
	Metadata        map[string]any `json:"metadata"`
}

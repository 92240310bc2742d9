package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
)

// Signed timestamps older than this are rejected to blunt replayed deliveries.
const signatureTolerance = 5 * time.Minute

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "stripe"
}

func (f *Factory) NewAdapter(cfg paymentdomain.AdapterConfig) (paymentdomain.PaymentAdapter, error) {
	secret, ok := readString(cfg.Config, "webhook_secret")
	if !ok {
		return nil, paymentdomain.ErrInvalidConfig
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, paymentdomain.ErrInvalidConfig
	}

	return &Adapter{
		webhookSecret: secret,
		now:           time.Now,
	}, nil
}

type Adapter struct {
	webhookSecret string
	now           func() time.Time
}

func (a *Adapter) Verify(ctx context.Context, payload []byte, headers http.Header) error {
	sigHeader := strings.TrimSpace(headers.Get("Stripe-Signature"))
	if sigHeader == "" {
		return paymentdomain.ErrInvalidSignature
	}

	signedAt, signatures, err := parseStripeSignature(sigHeader)
	if err != nil {
		return paymentdomain.ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(signedAt, 10, 64)
	if err != nil {
		return paymentdomain.ErrInvalidSignature
	}
	age := a.now().UTC().Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return paymentdomain.ErrInvalidSignature
	}

	signedPayload := fmt.Sprintf("%s.%s", signedAt, string(payload))
	mac := hmac.New(sha256.New, []byte(a.webhookSecret))
	_, _ = mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}

	return paymentdomain.ErrInvalidSignature
}

func (a *Adapter) Parse(ctx context.Context, payload []byte) (*paymentdomain.PaymentEvent, error) {
	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}
	if strings.TrimSpace(event.ID) == "" {
		return nil, paymentdomain.ErrInvalidEvent
	}

	switch strings.TrimSpace(event.Type) {
	case "payment_intent.succeeded":
		return a.parsePaymentIntent(event, payload, paymentdomain.EventTypePaymentSucceeded)
	case "payment_intent.payment_failed":
		return a.parsePaymentIntent(event, payload, paymentdomain.EventTypePaymentFailed)
	default:
		return nil, paymentdomain.ErrEventIgnored
	}
}

type stripeEvent struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Created int64           `json:"created"`
	Data    stripeEventData `json:"data"`
}

type stripeEventData struct {
	Object json.RawMessage `json:"object"`
}

type stripePaymentIntent struct {
	ID               string           `json:"id"`
	Amount           int64            `json:"amount"`
	AmountReceived   int64            `json:"amount_received"`
	Currency         string           `json:"currency"`
	Created          int64            `json:"created"`
	Metadata         map[string]any   `json:"metadata"`
	LastPaymentError *stripeLastError `json:"last_payment_error"`
}

type stripeLastError struct {
	Message string `json:"message"`
}

func (a *Adapter) parsePaymentIntent(event stripeEvent, payload []byte, eventType string) (*paymentdomain.PaymentEvent, error) {
	var intent stripePaymentIntent
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}

	paymentID, schoolID, planID, err := parseMetadataIDs(intent.Metadata)
	if err != nil {
		return nil, err
	}

	amount := intent.Amount
	failureReason := ""
	if eventType == paymentdomain.EventTypePaymentSucceeded {
		if intent.AmountReceived > 0 {
			amount = intent.AmountReceived
		}
	} else {
		failureReason = "Payment failed"
		if intent.LastPaymentError != nil && strings.TrimSpace(intent.LastPaymentError.Message) != "" {
			failureReason = strings.TrimSpace(intent.LastPaymentError.Message)
		}
	}

	return &paymentdomain.PaymentEvent{
		Provider:              "stripe",
		ProviderEventID:       event.ID,
		Type:                  eventType,
		PaymentID:             paymentID,
		SchoolID:              schoolID,
		PlanID:                planID,
		ProviderTransactionID: intent.ID,
		Amount:                amount,
		Currency:              strings.ToUpper(strings.TrimSpace(intent.Currency)),
		FailureReason:         failureReason,
		OccurredAt:            timestamp(intent.Created, event.Created),
		RawPayload:            payload,
	}, nil
}

func parseStripeSignature(header string) (string, []string, error) {
	parts := strings.Split(header, ",")
	var signedAt string
	signatures := []string{}
	for _, part := range parts {
		piece := strings.TrimSpace(part)
		if piece == "" {
			continue
		}
		keyValue := strings.SplitN(piece, "=", 2)
		if len(keyValue) != 2 {
			continue
		}
		key := strings.TrimSpace(keyValue[0])
		value := strings.TrimSpace(keyValue[1])
		if key == "t" {
			signedAt = value
		}
		if key == "v1" {
			signatures = append(signatures, value)
		}
	}
	if signedAt == "" || len(signatures) == 0 {
		return "", nil, errors.New("invalid_signature")
	}
	return signedAt, signatures, nil
}

func timestamp(primary int64, fallback int64) time.Time {
	value := primary
	if value == 0 {
		value = fallback
	}
	if value == 0 {
		return time.Now().UTC()
	}
	return time.Unix(value, 0).UTC()
}

func parseMetadataIDs(metadata map[string]any) (snowflake.ID, snowflake.ID, snowflake.ID, error) {
	paymentID, err := parseMetadataID(metadata, "paymentId")
	if err != nil {
		return 0, 0, 0, err
	}
	schoolID, err := parseMetadataID(metadata, "schoolId")
	if err != nil {
		return 0, 0, 0, err
	}
	planID, err := parseMetadataID(metadata, "planId")
	if err != nil {
		return 0, 0, 0, err
	}
	return paymentID, schoolID, planID, nil
}

func parseMetadataID(metadata map[string]any, key string) (snowflake.ID, error) {
	raw := readMetadataValue(metadata, key)
	if raw == "" {
		return 0, paymentdomain.ErrInvalidMetadata
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, paymentdomain.ErrInvalidMetadata
	}
	return id, nil
}

func readMetadataValue(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	value, ok := metadata[key]
	if !ok {
		return ""
	}
	switch cast := value.(type) {
	case string:
		return strings.TrimSpace(cast)
	case float64:
		if cast == 0 {
			return ""
		}
		return strconv.FormatInt(int64(cast), 10)
	case json.Number:
		return cast.String()
	case int64:
		return strconv.FormatInt(cast, 10)
	case int:
		return strconv.Itoa(cast)
	}
	return ""
}

func readString(config map[string]any, key string) (string, bool) {
	value, ok := config[key]
	if !ok {
		return "", false
	}
	switch cast := value.(type) {
	case string:
		return cast, true
	default:
		return "", false
	}
}

package paystack_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/yaseeradam/school-ms-sub002/internal/payment/adapters/paystack"
	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
)

const testSecret = "sk_test_9f2c1ab"

func newAdapter(t *testing.T) paymentdomain.PaymentAdapter {
	t.Helper()
	adapter, err := paystack.NewFactory().NewAdapter(paymentdomain.AdapterConfig{
		Provider: "paystack",
		Config:   map[string]any{"secret_key": testSecret},
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return adapter
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func signedHeaders(secret string, payload []byte) http.Header {
	headers := http.Header{}
	headers.Set("x-paystack-signature", sign(secret, payload))
	return headers
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{"event":"charge.success"}`)

	if err := adapter.Verify(context.Background(), payload, signedHeaders(testSecret, payload)); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{"event":"charge.success"}`)

	err := adapter.Verify(context.Background(), payload, signedHeaders("sk_test_other", payload))
	if !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{"event":"charge.success","data":{"amount":100}}`)
	headers := signedHeaders(testSecret, payload)

	tampered := []byte(`{"event":"charge.success","data":{"amount":999}}`)
	err := adapter.Verify(context.Background(), tampered, headers)
	if !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyRejectsMissingHeader(t *testing.T) {
	adapter := newAdapter(t)

	err := adapter.Verify(context.Background(), []byte(`{}`), http.Header{})
	if !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestParseChargeSuccess(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{
		"event": "charge.success",
		"data": {
			"id": 4091738,
			"reference": "01J9XW3H3V8Q3R6T5Y2K7N4M1P",
			"amount": 650000,
			"currency": "ngn",
			"paid_at": "2026-03-10T12:00:00Z",
			"metadata": {
				"paymentId": "1834098338553856001",
				"schoolId": "1834098338553856002",
				"planId": "1834098338553856003"
			}
		}
	}`)

	event, err := adapter.Parse(context.Background(), payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != paymentdomain.EventTypePaymentSucceeded {
		t.Fatalf("type = %s", event.Type)
	}
	if event.PaymentID.String() != "1834098338553856001" {
		t.Fatalf("payment id = %s", event.PaymentID)
	}
	if event.SchoolID.String() != "1834098338553856002" {
		t.Fatalf("school id = %s", event.SchoolID)
	}
	if event.PlanID.String() != "1834098338553856003" {
		t.Fatalf("plan id = %s", event.PlanID)
	}
	if event.ProviderEventID != "01J9XW3H3V8Q3R6T5Y2K7N4M1P_charge.success" {
		t.Fatalf("provider event id = %s", event.ProviderEventID)
	}
	if event.ProviderTransactionID != "4091738" {
		t.Fatalf("transaction id = %s", event.ProviderTransactionID)
	}
	if event.Amount != 650000 {
		t.Fatalf("amount = %d", event.Amount)
	}
	if event.Currency != "NGN" {
		t.Fatalf("currency = %s", event.Currency)
	}
	want := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	if !event.OccurredAt.Equal(want) {
		t.Fatalf("occurred at = %v", event.OccurredAt)
	}
}

func TestParseChargeFailedCarriesGatewayResponse(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{
		"event": "charge.failed",
		"data": {
			"id": 4091739,
			"reference": "01J9XW3H3V8Q3R6T5Y2K7N4M1Q",
			"amount": 650000,
			"currency": "NGN",
			"gateway_response": "Insufficient funds",
			"created_at": "2026-03-10T12:05:00Z",
			"metadata": {
				"paymentId": "1834098338553856001",
				"schoolId": "1834098338553856002",
				"planId": "1834098338553856003"
			}
		}
	}`)

	event, err := adapter.Parse(context.Background(), payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != paymentdomain.EventTypePaymentFailed {
		t.Fatalf("type = %s", event.Type)
	}
	if event.FailureReason != "Insufficient funds" {
		t.Fatalf("failure reason = %q", event.FailureReason)
	}
}

func TestParseUnknownEventIsIgnored(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{"event":"transfer.success","data":{"reference":"abc"}}`)

	_, err := adapter.Parse(context.Background(), payload)
	if !errors.Is(err, paymentdomain.ErrEventIgnored) {
		t.Fatalf("err = %v, want ErrEventIgnored", err)
	}
}

func TestParseMissingMetadata(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{
		"event": "charge.success",
		"data": {"reference": "no-meta", "amount": 100, "currency": "NGN"}
	}`)

	_, err := adapter.Parse(context.Background(), payload)
	if !errors.Is(err, paymentdomain.ErrInvalidMetadata) {
		t.Fatalf("err = %v, want ErrInvalidMetadata", err)
	}
}

func TestNewAdapterRequiresSecret(t *testing.T) {
	_, err := paystack.NewFactory().NewAdapter(paymentdomain.AdapterConfig{
		Provider: "paystack",
		Config:   map[string]any{},
	})
	if !errors.Is(err, paymentdomain.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

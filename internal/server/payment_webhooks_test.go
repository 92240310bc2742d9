package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
)

type stubWebhookService struct {
	err          error
	gotProvider  string
	gotPayload   []byte
	gotSignature string
}

func (s *stubWebhookService) IngestWebhook(ctx context.Context, provider string, payload []byte, headers http.Header) error {
	s.gotProvider = provider
	s.gotPayload = payload
	s.gotSignature = headers.Get("x-paystack-signature")
	return s.err
}

func newWebhookTestServer(stub *stubWebhookService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())

	s := &Server{engine: r, webhookSvc: stub}
	r.POST("/api/payments/webhooks/:provider", s.HandlePaymentWebhook)
	return r
}

func postWebhook(t *testing.T, r *gin.Engine, provider string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhooks/"+provider, bytes.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlePaymentWebhookAcksProcessedEvent(t *testing.T) {
	stub := &stubWebhookService{}
	r := newWebhookTestServer(stub)

	body := []byte(`{"event":"charge.success"}`)
	w := postWebhook(t, r, "paystack", body, map[string]string{"x-paystack-signature": "sig"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if stub.gotProvider != "paystack" {
		t.Fatalf("provider = %q", stub.gotProvider)
	}
	if !bytes.Equal(stub.gotPayload, body) {
		t.Fatalf("payload = %s", stub.gotPayload)
	}
	if stub.gotSignature != "sig" {
		t.Fatalf("signature header not forwarded")
	}
}

func TestHandlePaymentWebhookAcksDuplicateDelivery(t *testing.T) {
	stub := &stubWebhookService{err: paymentdomain.ErrEventAlreadyProcessed}
	r := newWebhookTestServer(stub)

	w := postWebhook(t, r, "paystack", []byte(`{}`), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for replayed delivery", w.Code)
	}
}

func TestHandlePaymentWebhookRejectsBadSignature(t *testing.T) {
	stub := &stubWebhookService{err: paymentdomain.ErrInvalidSignature}
	r := newWebhookTestServer(stub)

	w := postWebhook(t, r, "paystack", []byte(`{}`), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Error.Type != "validation_error" {
		t.Fatalf("error type = %q", resp.Error.Type)
	}
	if len(resp.Error.Errors) != 1 || resp.Error.Errors[0].Code != "invalid_signature" {
		t.Fatalf("error detail = %+v", resp.Error.Errors)
	}
}

func TestHandlePaymentWebhookUnknownProvider(t *testing.T) {
	stub := &stubWebhookService{err: paymentdomain.ErrProviderNotFound}
	r := newWebhookTestServer(stub)

	w := postWebhook(t, r, "flutterwave", []byte(`{}`), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

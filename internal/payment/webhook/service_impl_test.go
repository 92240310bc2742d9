package webhook_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/config"
	"github.com/yaseeradam/school-ms-sub002/internal/payment/adapters"
	adapterpaystack "github.com/yaseeradam/school-ms-sub002/internal/payment/adapters/paystack"
	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
	paymentrepo "github.com/yaseeradam/school-ms-sub002/internal/payment/repository"
	paymentservice "github.com/yaseeradam/school-ms-sub002/internal/payment/service"
	"github.com/yaseeradam/school-ms-sub002/internal/payment/webhook"
	plandomain "github.com/yaseeradam/school-ms-sub002/internal/plan/domain"
	planrepo "github.com/yaseeradam/school-ms-sub002/internal/plan/repository"
	schooldomain "github.com/yaseeradam/school-ms-sub002/internal/school/domain"
	schoolrepo "github.com/yaseeradam/school-ms-sub002/internal/school/repository"
	subscriptionservice "github.com/yaseeradam/school-ms-sub002/internal/subscription/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const paystackSecret = "sk_test_webhook"

type stack struct {
	db       *gorm.DB
	clock    *clock.FakeClock
	node     *snowflake.Node
	webhook  paymentdomain.Service
	payments paymentdomain.Repository
	schools  schooldomain.Repository
	plans    plandomain.Repository
}

func newStack(t *testing.T) *stack {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(11)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	clk := clock.NewFakeClock(time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC))

	payments := paymentrepo.Provide()
	plans := planrepo.Provide()
	schools := schoolrepo.Provide()

	recon := subscriptionservice.NewService(subscriptionservice.Params{
		DB:          db,
		Log:         zap.NewNop(),
		Clock:       clk,
		PaymentRepo: payments,
		PlanRepo:    plans,
		SchoolRepo:  schools,
	})

	cfg := config.Config{
		AppBaseURL:        "http://localhost:3000",
		PaystackSecretKey: paystackSecret,
	}
	paymentSvc := paymentservice.NewService(paymentservice.Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clk,
		Cfg:        cfg,
		Repo:       payments,
		PlanRepo:   plans,
		Reconciler: recon,
	})

	webhookSvc := webhook.NewService(webhook.Params{
		Log:        zap.NewNop(),
		PaymentSvc: paymentSvc,
		Adapters:   adapters.NewRegistry(adapterpaystack.NewFactory()),
		Cfg:        cfg,
	})

	return &stack{
		db:       db,
		clock:    clk,
		node:     node,
		webhook:  webhookSvc,
		payments: payments,
		schools:  schools,
		plans:    plans,
	}
}

func (s *stack) seedWorld(t *testing.T) (*schooldomain.School, *plandomain.Plan, *paymentdomain.Payment) {
	t.Helper()
	ctx := context.Background()
	now := s.clock.Now()

	school := &schooldomain.School{
		ID:                 s.node.Generate(),
		Name:               "Crescent College",
		Slug:               fmt.Sprintf("crescent-%d", s.node.Generate()),
		SubscriptionStatus: schooldomain.SubscriptionTrial,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.schools.Insert(ctx, s.db, school); err != nil {
		t.Fatalf("insert school: %v", err)
	}

	plan := &plandomain.Plan{
		ID:             s.node.Generate(),
		Code:           fmt.Sprintf("standard-%d", s.node.Generate()),
		Name:           "Standard",
		Price:          650000,
		Currency:       "NGN",
		DurationMonths: 1,
		Features:       []byte(`[]`),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.plans.Insert(ctx, s.db, plan); err != nil {
		t.Fatalf("insert plan: %v", err)
	}

	payment := &paymentdomain.Payment{
		ID:                s.node.Generate(),
		SchoolID:          school.ID,
		PlanID:            &plan.ID,
		Provider:          "paystack",
		Status:            paymentdomain.StatusPending,
		Amount:            650000,
		Currency:          "NGN",
		ProviderReference: fmt.Sprintf("ref-%d", s.node.Generate()),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.payments.Insert(ctx, s.db, payment); err != nil {
		t.Fatalf("insert payment: %v", err)
	}

	return school, plan, payment
}

func chargePayload(event string, payment *paymentdomain.Payment, plan *plandomain.Plan, extra string) []byte {
	return []byte(fmt.Sprintf(`{
		"event": %q,
		"data": {
			"id": 4091738,
			"reference": %q,
			"amount": %d,
			"currency": "NGN",
			"paid_at": "2026-03-10T12:00:00Z",
			%s
			"metadata": {
				"paymentId": %q,
				"schoolId": %q,
				"planId": %q
			}
		}
	}`, event, payment.ProviderReference, payment.Amount, extra,
		payment.ID.String(), payment.SchoolID.String(), plan.ID.String()))
}

func signedHeaders(payload []byte) http.Header {
	mac := hmac.New(sha512.New, []byte(paystackSecret))
	mac.Write(payload)
	headers := http.Header{}
	headers.Set("x-paystack-signature", hex.EncodeToString(mac.Sum(nil)))
	return headers
}

func TestIngestWebhookSuccessActivatesSubscription(t *testing.T) {
	s := newStack(t)
	school, plan, payment := s.seedWorld(t)
	ctx := context.Background()

	payload := chargePayload("charge.success", payment, plan, "")
	if err := s.webhook.IngestWebhook(ctx, "paystack", payload, signedHeaders(payload)); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	got, err := s.payments.FindAnyByID(ctx, s.db, payment.ID)
	if err != nil || got == nil {
		t.Fatalf("reload payment: %v", err)
	}
	if got.Status != paymentdomain.StatusCompleted {
		t.Fatalf("payment status = %s, want completed", got.Status)
	}

	updated, err := s.schools.FindByID(ctx, s.db, school.ID)
	if err != nil || updated == nil {
		t.Fatalf("reload school: %v", err)
	}
	if updated.SubscriptionStatus != schooldomain.SubscriptionActive {
		t.Fatalf("subscription status = %s, want active", updated.SubscriptionStatus)
	}
	wantEnd := time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC)
	if updated.SubscriptionEndAt == nil || !updated.SubscriptionEndAt.Equal(wantEnd) {
		t.Fatalf("subscription end = %v, want %v", updated.SubscriptionEndAt, wantEnd)
	}
}

func TestIngestWebhookDuplicateDeliveryIsIdempotent(t *testing.T) {
	s := newStack(t)
	school, plan, payment := s.seedWorld(t)
	ctx := context.Background()

	payload := chargePayload("charge.success", payment, plan, "")
	if err := s.webhook.IngestWebhook(ctx, "paystack", payload, signedHeaders(payload)); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	first, err := s.schools.FindByID(ctx, s.db, school.ID)
	if err != nil || first == nil {
		t.Fatalf("reload school: %v", err)
	}

	s.clock.Advance(48 * time.Hour)
	err = s.webhook.IngestWebhook(ctx, "paystack", payload, signedHeaders(payload))
	if !errors.Is(err, paymentdomain.ErrEventAlreadyProcessed) {
		t.Fatalf("err = %v, want ErrEventAlreadyProcessed", err)
	}

	second, err := s.schools.FindByID(ctx, s.db, school.ID)
	if err != nil || second == nil {
		t.Fatalf("reload school: %v", err)
	}
	if !second.SubscriptionEndAt.Equal(*first.SubscriptionEndAt) {
		t.Fatalf("replay moved subscription end from %v to %v", first.SubscriptionEndAt, second.SubscriptionEndAt)
	}
}

func TestIngestWebhookRejectsBadSignature(t *testing.T) {
	s := newStack(t)
	school, plan, payment := s.seedWorld(t)
	ctx := context.Background()

	payload := chargePayload("charge.success", payment, plan, "")
	headers := http.Header{}
	headers.Set("x-paystack-signature", "deadbeef")

	err := s.webhook.IngestWebhook(ctx, "paystack", payload, headers)
	if !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}

	got, err := s.payments.FindAnyByID(ctx, s.db, payment.ID)
	if err != nil || got == nil {
		t.Fatalf("reload payment: %v", err)
	}
	if got.Status != paymentdomain.StatusPending {
		t.Fatalf("payment status = %s, want pending", got.Status)
	}

	updated, err := s.schools.FindByID(ctx, s.db, school.ID)
	if err != nil || updated == nil {
		t.Fatalf("reload school: %v", err)
	}
	if updated.SubscriptionStatus != schooldomain.SubscriptionTrial {
		t.Fatalf("subscription status = %s, want untouched trial", updated.SubscriptionStatus)
	}
}

func TestIngestWebhookIgnoresUnknownEventType(t *testing.T) {
	s := newStack(t)
	_, plan, payment := s.seedWorld(t)
	ctx := context.Background()

	payload := chargePayload("transfer.success", payment, plan, "")
	if err := s.webhook.IngestWebhook(ctx, "paystack", payload, signedHeaders(payload)); err != nil {
		t.Fatalf("ignored event should ack cleanly: %v", err)
	}

	got, err := s.payments.FindAnyByID(ctx, s.db, payment.ID)
	if err != nil || got == nil {
		t.Fatalf("reload payment: %v", err)
	}
	if got.Status != paymentdomain.StatusPending {
		t.Fatalf("payment status = %s, want pending", got.Status)
	}
}

func TestIngestWebhookFailureMarksPaymentOnly(t *testing.T) {
	s := newStack(t)
	school, plan, payment := s.seedWorld(t)
	ctx := context.Background()

	payload := chargePayload("charge.failed", payment, plan, `"gateway_response": "Declined by issuer",`)
	if err := s.webhook.IngestWebhook(ctx, "paystack", payload, signedHeaders(payload)); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	got, err := s.payments.FindAnyByID(ctx, s.db, payment.ID)
	if err != nil || got == nil {
		t.Fatalf("reload payment: %v", err)
	}
	if got.Status != paymentdomain.StatusFailed {
		t.Fatalf("payment status = %s, want failed", got.Status)
	}
	if got.FailureReason != "Declined by issuer" {
		t.Fatalf("failure reason = %q", got.FailureReason)
	}

	updated, err := s.schools.FindByID(ctx, s.db, school.ID)
	if err != nil || updated == nil {
		t.Fatalf("reload school: %v", err)
	}
	if updated.SubscriptionStatus != schooldomain.SubscriptionTrial {
		t.Fatalf("subscription status = %s, want untouched trial", updated.SubscriptionStatus)
	}
}

func TestIngestWebhookUnknownProvider(t *testing.T) {
	s := newStack(t)

	err := s.webhook.IngestWebhook(context.Background(), "flutterwave", []byte(`{}`), http.Header{})
	if !errors.Is(err, paymentdomain.ErrProviderNotFound) {
		t.Fatalf("err = %v, want ErrProviderNotFound", err)
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_webhook_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE schools (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			subscription_status TEXT NOT NULL DEFAULT 'trial',
			subscription_plan_id BIGINT,
			subscription_start_at TIMESTAMPTZ,
			subscription_end_at TIMESTAMPTZ,
			last_payment_at TIMESTAMPTZ,
			account_frozen BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE subscription_plans (
			id BIGINT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL,
			currency TEXT NOT NULL DEFAULT 'USD',
			duration_months INTEGER NOT NULL,
			max_students INTEGER NOT NULL DEFAULT 0,
			max_teachers INTEGER NOT NULL DEFAULT 0,
			features TEXT NOT NULL DEFAULT '[]',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE payments (
			id BIGINT PRIMARY KEY,
			school_id BIGINT NOT NULL,
			user_id BIGINT,
			plan_id BIGINT,
			provider TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			amount BIGINT NOT NULL,
			currency TEXT NOT NULL,
			provider_reference TEXT NOT NULL UNIQUE,
			provider_session_id TEXT NOT NULL DEFAULT '',
			provider_transaction_id TEXT NOT NULL DEFAULT '',
			authorization_url TEXT NOT NULL DEFAULT '',
			failure_reason TEXT NOT NULL DEFAULT '',
			completed_at TIMESTAMPTZ,
			failed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE payment_events (
			id BIGINT PRIMARY KEY,
			provider TEXT NOT NULL,
			provider_event_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			payment_id BIGINT,
			payload TEXT NOT NULL,
			received_at TIMESTAMPTZ NOT NULL,
			processed_at TIMESTAMPTZ
		)`,
		`CREATE UNIQUE INDEX ux_payment_events_provider_event ON payment_events(provider, provider_event_id)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db
}

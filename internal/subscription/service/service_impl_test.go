package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
	paymentrepo "github.com/yaseeradam/school-ms-sub002/internal/payment/repository"
	plandomain "github.com/yaseeradam/school-ms-sub002/internal/plan/domain"
	planrepo "github.com/yaseeradam/school-ms-sub002/internal/plan/repository"
	schooldomain "github.com/yaseeradam/school-ms-sub002/internal/school/domain"
	schoolrepo "github.com/yaseeradam/school-ms-sub002/internal/school/repository"
	subscriptiondomain "github.com/yaseeradam/school-ms-sub002/internal/subscription/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/subscription/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	clock    *clock.FakeClock
	node     *snowflake.Node
	recon    subscriptiondomain.Reconciler
	payments paymentdomain.Repository
	plans    plandomain.Repository
	schools  schooldomain.Repository
}

func newFixture(t *testing.T, at time.Time) *fixture {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(7)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	clk := clock.NewFakeClock(at)
	payments := paymentrepo.Provide()
	plans := planrepo.Provide()
	schools := schoolrepo.Provide()

	recon := service.NewService(service.Params{
		DB:          db,
		Log:         zap.NewNop(),
		Clock:       clk,
		PaymentRepo: payments,
		PlanRepo:    plans,
		SchoolRepo:  schools,
	})

	return &fixture{
		db:       db,
		clock:    clk,
		node:     node,
		recon:    recon,
		payments: payments,
		plans:    plans,
		schools:  schools,
	}
}

func (f *fixture) seedSchool(t *testing.T) *schooldomain.School {
	t.Helper()
	now := f.clock.Now()
	school := &schooldomain.School{
		ID:                 f.node.Generate(),
		Name:               "Hillcrest Academy",
		Slug:               fmt.Sprintf("hillcrest-%d", f.node.Generate()),
		SubscriptionStatus: schooldomain.SubscriptionTrial,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := f.schools.Insert(context.Background(), f.db, school); err != nil {
		t.Fatalf("insert school: %v", err)
	}
	return school
}

func (f *fixture) seedPlan(t *testing.T, months int) *plandomain.Plan {
	t.Helper()
	now := f.clock.Now()
	plan := &plandomain.Plan{
		ID:             f.node.Generate(),
		Code:           fmt.Sprintf("plan-%d", f.node.Generate()),
		Name:           "Standard",
		Price:          6500_00,
		Currency:       "USD",
		DurationMonths: months,
		Features:       []byte(`[]`),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := f.plans.Insert(context.Background(), f.db, plan); err != nil {
		t.Fatalf("insert plan: %v", err)
	}
	return plan
}

func (f *fixture) seedPayment(t *testing.T, school *schooldomain.School, plan *plandomain.Plan) *paymentdomain.Payment {
	t.Helper()
	now := f.clock.Now()
	payment := &paymentdomain.Payment{
		ID:                f.node.Generate(),
		SchoolID:          school.ID,
		Provider:          "paystack",
		Status:            paymentdomain.StatusPending,
		Amount:            6500_00,
		Currency:          "USD",
		ProviderReference: fmt.Sprintf("ref-%d", f.node.Generate()),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if plan != nil {
		payment.PlanID = &plan.ID
	}
	if err := f.payments.Insert(context.Background(), f.db, payment); err != nil {
		t.Fatalf("insert payment: %v", err)
	}
	return payment
}

func (f *fixture) reloadSchool(t *testing.T, id snowflake.ID) *schooldomain.School {
	t.Helper()
	school, err := f.schools.FindByID(context.Background(), f.db, id)
	if err != nil {
		t.Fatalf("reload school: %v", err)
	}
	if school == nil {
		t.Fatalf("school %s disappeared", id)
	}
	return school
}

func (f *fixture) reloadPayment(t *testing.T, id snowflake.ID) *paymentdomain.Payment {
	t.Helper()
	payment, err := f.payments.FindAnyByID(context.Background(), f.db, id)
	if err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if payment == nil {
		t.Fatalf("payment %s disappeared", id)
	}
	return payment
}

func successEvent(payment *paymentdomain.Payment, plan *plandomain.Plan, at time.Time) *paymentdomain.PaymentEvent {
	event := &paymentdomain.PaymentEvent{
		Provider:              payment.Provider,
		ProviderEventID:       payment.ProviderReference + "_charge.success",
		Type:                  paymentdomain.EventTypePaymentSucceeded,
		PaymentID:             payment.ID,
		SchoolID:              payment.SchoolID,
		ProviderTransactionID: "4091738",
		Amount:                payment.Amount,
		Currency:              payment.Currency,
		OccurredAt:            at,
	}
	if plan != nil {
		event.PlanID = plan.ID
	}
	return event
}

func TestHandlePaymentSucceededActivatesSubscription(t *testing.T) {
	start := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, start)
	school := f.seedSchool(t)
	plan := f.seedPlan(t, 1)
	payment := f.seedPayment(t, school, plan)

	err := f.recon.HandlePaymentSucceeded(context.Background(), successEvent(payment, plan, start))
	if err != nil {
		t.Fatalf("handle success: %v", err)
	}

	got := f.reloadPayment(t, payment.ID)
	if got.Status != paymentdomain.StatusCompleted {
		t.Fatalf("payment status = %s, want completed", got.Status)
	}
	if got.ProviderTransactionID != "4091738" {
		t.Fatalf("transaction id = %q", got.ProviderTransactionID)
	}
	if got.CompletedAt == nil {
		t.Fatal("completed_at not set")
	}

	updated := f.reloadSchool(t, school.ID)
	if updated.SubscriptionStatus != schooldomain.SubscriptionActive {
		t.Fatalf("subscription status = %s, want active", updated.SubscriptionStatus)
	}
	if updated.SubscriptionPlanID == nil || *updated.SubscriptionPlanID != plan.ID {
		t.Fatalf("subscription plan id = %v, want %s", updated.SubscriptionPlanID, plan.ID)
	}
	if updated.AccountFrozen {
		t.Fatal("account still frozen after successful payment")
	}

	wantEnd := time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC)
	if updated.SubscriptionEndAt == nil || !updated.SubscriptionEndAt.Equal(wantEnd) {
		t.Fatalf("subscription end = %v, want %v", updated.SubscriptionEndAt, wantEnd)
	}
}

func TestHandlePaymentSucceededClampsMonthEnd(t *testing.T) {
	start := time.Date(2026, time.January, 31, 9, 30, 0, 0, time.UTC)
	f := newFixture(t, start)
	school := f.seedSchool(t)
	plan := f.seedPlan(t, 1)
	payment := f.seedPayment(t, school, plan)

	if err := f.recon.HandlePaymentSucceeded(context.Background(), successEvent(payment, plan, start)); err != nil {
		t.Fatalf("handle success: %v", err)
	}

	updated := f.reloadSchool(t, school.ID)
	wantEnd := time.Date(2026, time.February, 28, 9, 30, 0, 0, time.UTC)
	if updated.SubscriptionEndAt == nil || !updated.SubscriptionEndAt.Equal(wantEnd) {
		t.Fatalf("subscription end = %v, want %v", updated.SubscriptionEndAt, wantEnd)
	}
}

func TestHandlePaymentSucceededThreeMonthPlan(t *testing.T) {
	start := time.Date(2026, time.November, 30, 8, 0, 0, 0, time.UTC)
	f := newFixture(t, start)
	school := f.seedSchool(t)
	plan := f.seedPlan(t, 3)
	payment := f.seedPayment(t, school, plan)

	if err := f.recon.HandlePaymentSucceeded(context.Background(), successEvent(payment, plan, start)); err != nil {
		t.Fatalf("handle success: %v", err)
	}

	updated := f.reloadSchool(t, school.ID)
	wantEnd := time.Date(2027, time.February, 28, 8, 0, 0, 0, time.UTC)
	if updated.SubscriptionEndAt == nil || !updated.SubscriptionEndAt.Equal(wantEnd) {
		t.Fatalf("subscription end = %v, want %v", updated.SubscriptionEndAt, wantEnd)
	}
}

func TestHandlePaymentSucceededUnknownPaymentIsNoOp(t *testing.T) {
	start := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, start)
	school := f.seedSchool(t)
	plan := f.seedPlan(t, 1)

	event := &paymentdomain.PaymentEvent{
		Provider:        "paystack",
		ProviderEventID: "ghost_charge.success",
		Type:            paymentdomain.EventTypePaymentSucceeded,
		PaymentID:       f.node.Generate(),
		SchoolID:        school.ID,
		PlanID:          plan.ID,
		Amount:          100,
		Currency:        "USD",
		OccurredAt:      start,
	}
	if err := f.recon.HandlePaymentSucceeded(context.Background(), event); err != nil {
		t.Fatalf("unknown payment should not error: %v", err)
	}

	updated := f.reloadSchool(t, school.ID)
	if updated.SubscriptionStatus != schooldomain.SubscriptionTrial {
		t.Fatalf("subscription status = %s, want untouched trial", updated.SubscriptionStatus)
	}
	if updated.SubscriptionEndAt != nil {
		t.Fatalf("subscription end = %v, want nil", updated.SubscriptionEndAt)
	}
}

func TestHandlePaymentSucceededMissingPlanLeavesSubscription(t *testing.T) {
	start := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, start)
	school := f.seedSchool(t)
	payment := f.seedPayment(t, school, nil)

	event := successEvent(payment, nil, start)
	event.PlanID = f.node.Generate()

	if err := f.recon.HandlePaymentSucceeded(context.Background(), event); err != nil {
		t.Fatalf("missing plan should not error: %v", err)
	}

	got := f.reloadPayment(t, payment.ID)
	if got.Status != paymentdomain.StatusCompleted {
		t.Fatalf("payment status = %s, want completed even without plan", got.Status)
	}

	updated := f.reloadSchool(t, school.ID)
	if updated.SubscriptionStatus != schooldomain.SubscriptionTrial {
		t.Fatalf("subscription status = %s, want untouched trial", updated.SubscriptionStatus)
	}
}

func TestHandlePaymentSucceededZeroDurationPlanLeavesSubscription(t *testing.T) {
	start := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, start)
	school := f.seedSchool(t)
	plan := f.seedPlan(t, 0)
	payment := f.seedPayment(t, school, plan)

	if err := f.recon.HandlePaymentSucceeded(context.Background(), successEvent(payment, plan, start)); err != nil {
		t.Fatalf("zero-duration plan should not error: %v", err)
	}

	got := f.reloadPayment(t, payment.ID)
	if got.Status != paymentdomain.StatusCompleted {
		t.Fatalf("payment status = %s, want completed", got.Status)
	}

	updated := f.reloadSchool(t, school.ID)
	if updated.SubscriptionStatus != schooldomain.SubscriptionTrial {
		t.Fatalf("subscription status = %s, want untouched trial for bad plan row", updated.SubscriptionStatus)
	}
	if updated.SubscriptionEndAt != nil {
		t.Fatalf("subscription end = %v, want unset", updated.SubscriptionEndAt)
	}
}

func TestHandlePaymentFailedNeverTouchesSubscription(t *testing.T) {
	start := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, start)
	school := f.seedSchool(t)
	plan := f.seedPlan(t, 1)
	payment := f.seedPayment(t, school, plan)

	event := successEvent(payment, plan, start)
	event.Type = paymentdomain.EventTypePaymentFailed
	event.FailureReason = "Insufficient funds"

	if err := f.recon.HandlePaymentFailed(context.Background(), event); err != nil {
		t.Fatalf("handle failure: %v", err)
	}

	got := f.reloadPayment(t, payment.ID)
	if got.Status != paymentdomain.StatusFailed {
		t.Fatalf("payment status = %s, want failed", got.Status)
	}
	if got.FailureReason != "Insufficient funds" {
		t.Fatalf("failure reason = %q", got.FailureReason)
	}
	if got.FailedAt == nil {
		t.Fatal("failed_at not set")
	}

	updated := f.reloadSchool(t, school.ID)
	if updated.SubscriptionStatus != schooldomain.SubscriptionTrial {
		t.Fatalf("subscription status = %s, want untouched trial", updated.SubscriptionStatus)
	}
	if updated.SubscriptionEndAt != nil {
		t.Fatalf("subscription end = %v, want nil", updated.SubscriptionEndAt)
	}
}

func TestRepeatedSuccessOverwritesWindow(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, start)
	school := f.seedSchool(t)
	plan := f.seedPlan(t, 1)
	payment := f.seedPayment(t, school, plan)

	if err := f.recon.HandlePaymentSucceeded(context.Background(), successEvent(payment, plan, start)); err != nil {
		t.Fatalf("first success: %v", err)
	}
	first := f.reloadSchool(t, school.ID)

	f.clock.Advance(10 * 24 * time.Hour)
	if err := f.recon.HandlePaymentSucceeded(context.Background(), successEvent(payment, plan, f.clock.Now())); err != nil {
		t.Fatalf("second success: %v", err)
	}
	second := f.reloadSchool(t, school.ID)

	if !second.SubscriptionEndAt.After(*first.SubscriptionEndAt) {
		t.Fatalf("second end %v not after first end %v", second.SubscriptionEndAt, first.SubscriptionEndAt)
	}
	wantEnd := time.Date(2026, time.April, 11, 0, 0, 0, 0, time.UTC)
	if !second.SubscriptionEndAt.Equal(wantEnd) {
		t.Fatalf("subscription end = %v, want %v", second.SubscriptionEndAt, wantEnd)
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db
}

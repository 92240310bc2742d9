package service

import (
	"context"
	"strings"
	"time"

	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	obsmetrics "github.com/yaseeradam/school-ms-sub002/internal/observability/metrics"
	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
	plandomain "github.com/yaseeradam/school-ms-sub002/internal/plan/domain"
	schooldomain "github.com/yaseeradam/school-ms-sub002/internal/school/domain"
	subscriptiondomain "github.com/yaseeradam/school-ms-sub002/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	PaymentRepo paymentdomain.Repository
	PlanRepo    plandomain.Repository
	SchoolRepo  schooldomain.Repository
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	paymentRepo paymentdomain.Repository
	planRepo    plandomain.Repository
	schoolRepo  schooldomain.Repository
	obsMetrics  *obsmetrics.Metrics
}

func NewService(p Params) subscriptiondomain.Reconciler {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("subscription.reconciler"),
		clock:       p.Clock,
		paymentRepo: p.PaymentRepo,
		planRepo:    p.PlanRepo,
		schoolRepo:  p.SchoolRepo,
		obsMetrics:  p.ObsMetrics,
	}
}

// HandlePaymentSucceeded marks the payment completed and replaces the
// school's subscription window. The window is anchored at the processing
// time, not the provider's event time, so a late replayed success still
// grants a full period from now.
func (s *Service) HandlePaymentSucceeded(ctx context.Context, event *paymentdomain.PaymentEvent) error {
	if event == nil {
		return paymentdomain.ErrInvalidEvent
	}

	payment, err := s.paymentRepo.FindAnyByID(ctx, s.db, event.PaymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		s.log.Warn("payment success for unknown payment",
			zap.String("provider", event.Provider),
			zap.String("provider_event_id", event.ProviderEventID),
			zap.String("payment_id", event.PaymentID.String()),
		)
		s.recordOutcome(ctx, "payment_missing")
		return nil
	}

	now := s.clock.Now()
	if err := s.paymentRepo.MarkCompleted(ctx, s.db, payment.ID, event.ProviderTransactionID, now); err != nil {
		return err
	}

	planID := event.PlanID
	if planID == 0 && payment.PlanID != nil {
		planID = *payment.PlanID
	}
	plan, err := s.planRepo.FindByID(ctx, s.db, planID)
	if err != nil {
		return err
	}
	if plan == nil {
		s.log.Warn("payment completed but plan is gone, subscription untouched",
			zap.String("payment_id", payment.ID.String()),
			zap.String("plan_id", planID.String()),
		)
		s.recordOutcome(ctx, "plan_missing")
		return nil
	}
	if plan.DurationMonths <= 0 {
		s.log.Error("plan has a non-positive duration, subscription untouched",
			zap.String("payment_id", payment.ID.String()),
			zap.String("plan_id", plan.ID.String()),
			zap.Int("duration_months", plan.DurationMonths),
		)
		s.recordOutcome(ctx, "plan_invalid")
		return nil
	}

	endAt := addMonths(now, plan.DurationMonths)
	update := schooldomain.SubscriptionUpdate{
		Status:        schooldomain.SubscriptionActive,
		PlanID:        plan.ID,
		StartAt:       now,
		EndAt:         endAt,
		LastPaymentAt: now,
	}
	if err := s.schoolRepo.ApplySubscription(ctx, s.db, payment.SchoolID, update, now); err != nil {
		return err
	}

	s.log.Info("subscription activated",
		zap.String("school_id", payment.SchoolID.String()),
		zap.String("plan_id", plan.ID.String()),
		zap.Time("subscription_end_at", endAt),
	)
	s.recordOutcome(ctx, "activated")
	return nil
}

// HandlePaymentFailed records the failure on the payment row only.
func (s *Service) HandlePaymentFailed(ctx context.Context, event *paymentdomain.PaymentEvent) error {
	if event == nil {
		return paymentdomain.ErrInvalidEvent
	}

	payment, err := s.paymentRepo.FindAnyByID(ctx, s.db, event.PaymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		s.log.Warn("payment failure for unknown payment",
			zap.String("provider", event.Provider),
			zap.String("provider_event_id", event.ProviderEventID),
			zap.String("payment_id", event.PaymentID.String()),
		)
		s.recordOutcome(ctx, "payment_missing")
		return nil
	}

	reason := strings.TrimSpace(event.FailureReason)
	if reason == "" {
		reason = "Payment failed"
	}
	if err := s.paymentRepo.MarkFailed(ctx, s.db, payment.ID, reason, s.clock.Now()); err != nil {
		return err
	}

	s.log.Info("payment marked failed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("reason", reason),
	)
	s.recordOutcome(ctx, "payment_failed")
	return nil
}

func (s *Service) recordOutcome(ctx context.Context, outcome string) {
	if s.obsMetrics == nil {
		return
	}
	s.obsMetrics.RecordReconciliation(ctx, outcome)
}

// addMonths advances the calendar month and clamps the day to the end of
// the target month, so Jan 31 plus one month lands on Feb 28 (or 29).
// Callers must pass months >= 1.
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

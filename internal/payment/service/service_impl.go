package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/config"
	obscontext "github.com/yaseeradam/school-ms-sub002/internal/observability/context"
	obsmetrics "github.com/yaseeradam/school-ms-sub002/internal/observability/metrics"
	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
	plandomain "github.com/yaseeradam/school-ms-sub002/internal/plan/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/ratelimit"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolctx"
	subscriptiondomain "github.com/yaseeradam/school-ms-sub002/internal/subscription/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Cfg        config.Config
	Repo       paymentdomain.Repository
	PlanRepo   plandomain.Repository
	Reconciler subscriptiondomain.Reconciler
	Gateways   []paymentdomain.Gateway    `group:"payment.gateways"`
	Limiter    *ratelimit.CheckoutLimiter `optional:"true"`
	ObsMetrics *obsmetrics.Metrics        `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	baseURL    string
	repo       paymentdomain.Repository
	planRepo   plandomain.Repository
	reconciler subscriptiondomain.Reconciler
	gateways   map[string]paymentdomain.Gateway
	limiter    *ratelimit.CheckoutLimiter
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) *Service {
	gateways := map[string]paymentdomain.Gateway{}
	for _, gateway := range p.Gateways {
		if gateway == nil {
			continue
		}
		provider := strings.ToLower(strings.TrimSpace(gateway.Provider()))
		if provider == "" {
			continue
		}
		gateways[provider] = gateway
	}

	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		baseURL:    p.Cfg.AppBaseURL,
		repo:       p.Repo,
		planRepo:   p.PlanRepo,
		reconciler: p.Reconciler,
		gateways:   gateways,
		limiter:    p.Limiter,
		obsMetrics: p.ObsMetrics,
	}
}

// ProcessEvent records a verified provider event and dispatches it to the
// subscription reconciler exactly once per (provider, provider_event_id).
func (s *Service) ProcessEvent(ctx context.Context, event *paymentdomain.PaymentEvent, payload []byte) error {
	if event == nil {
		return paymentdomain.ErrInvalidEvent
	}
	event.Provider = strings.ToLower(strings.TrimSpace(event.Provider))
	if event.Provider == "" {
		return paymentdomain.ErrInvalidProvider
	}
	if !json.Valid(payload) {
		return paymentdomain.ErrInvalidPayload
	}
	if err := validateEvent(event); err != nil {
		return err
	}

	now := s.clock.Now()
	paymentID := event.PaymentID
	received := paymentdomain.EventRecord{
		ID:              s.genID.Generate(),
		Provider:        event.Provider,
		ProviderEventID: event.ProviderEventID,
		EventType:       event.Type,
		PaymentID:       &paymentID,
		Payload:         datatypes.JSON(payload),
		ReceivedAt:      now,
	}

	inserted, err := s.repo.InsertEvent(ctx, s.db, &received)
	if err != nil {
		return err
	}
	stored := &received
	if !inserted {
		stored, err = s.repo.FindEvent(ctx, s.db, event.Provider, event.ProviderEventID)
		if err != nil {
			return err
		}
		if stored == nil {
			return paymentdomain.ErrInvalidEvent
		}
		if stored.ProcessedAt != nil {
			return paymentdomain.ErrEventAlreadyProcessed
		}
	}

	if err := s.dispatchEvent(ctx, event); err != nil {
		return err
	}

	if err := s.repo.MarkEventProcessed(ctx, s.db, stored.ID, now); err != nil {
		return err
	}

	if inserted && s.obsMetrics != nil {
		s.obsMetrics.RecordWebhookEvent(ctx, event.Provider, event.Type, "processed")
	}

	return nil
}

func (s *Service) dispatchEvent(ctx context.Context, event *paymentdomain.PaymentEvent) error {
	switch event.Type {
	case paymentdomain.EventTypePaymentSucceeded:
		return s.reconciler.HandlePaymentSucceeded(ctx, event)
	case paymentdomain.EventTypePaymentFailed:
		return s.reconciler.HandlePaymentFailed(ctx, event)
	default:
		return paymentdomain.ErrInvalidEvent
	}
}

func validateEvent(event *paymentdomain.PaymentEvent) error {
	event.ProviderEventID = strings.TrimSpace(event.ProviderEventID)
	if event.ProviderEventID == "" {
		return paymentdomain.ErrInvalidEvent
	}
	event.Type = strings.TrimSpace(event.Type)
	if event.Type == "" {
		return paymentdomain.ErrInvalidEvent
	}
	if event.PaymentID == 0 {
		return paymentdomain.ErrInvalidMetadata
	}
	if event.OccurredAt.IsZero() {
		return paymentdomain.ErrInvalidEvent
	}
	switch event.Type {
	case paymentdomain.EventTypePaymentSucceeded:
		if event.Amount <= 0 {
			return paymentdomain.ErrInvalidAmount
		}
	case paymentdomain.EventTypePaymentFailed:
	default:
		return paymentdomain.ErrInvalidEvent
	}
	return nil
}

// CreateCheckout records a pending payment for the current school and opens
// a hosted checkout session with the chosen provider.
func (s *Service) CreateCheckout(ctx context.Context, input paymentdomain.CheckoutInput) (*paymentdomain.Payment, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return nil, paymentdomain.ErrInvalidSchool
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, schoolID.String())
		if err != nil {
			s.log.Warn("checkout rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			return nil, paymentdomain.ErrRateLimited
		}
	}

	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	if provider == "" {
		provider = "stripe"
	}
	gateway, ok := s.gateways[provider]
	if !ok {
		return nil, paymentdomain.ErrInvalidProvider
	}

	planID, err := snowflake.ParseString(strings.TrimSpace(input.PlanID))
	if err != nil || planID == 0 {
		return nil, paymentdomain.ErrInvalidPlan
	}
	plan, err := s.planRepo.FindByID(ctx, s.db, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.Active {
		return nil, paymentdomain.ErrInvalidPlan
	}

	now := s.clock.Now()
	payment := &paymentdomain.Payment{
		ID:                s.genID.Generate(),
		SchoolID:          schoolID,
		UserID:            actorID(ctx),
		PlanID:            &plan.ID,
		Provider:          provider,
		Status:            paymentdomain.StatusPending,
		Amount:            plan.Price,
		Currency:          plan.Currency,
		ProviderReference: ulid.Make().String(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Insert(ctx, s.db, payment); err != nil {
		return nil, err
	}

	session, err := gateway.InitializeCheckout(ctx, &paymentdomain.CheckoutRequest{
		Reference:   payment.ProviderReference,
		Email:       strings.TrimSpace(input.Email),
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		PlanName:    plan.Name,
		Description: plan.Description,
		Metadata: paymentdomain.CheckoutMetadata{
			PaymentID: payment.ID,
			SchoolID:  schoolID,
			PlanID:    plan.ID,
		},
		SuccessURL: s.baseURL + "/payment/success?reference=" + payment.ProviderReference,
		CancelURL:  s.baseURL + "/billing",
	})
	if err != nil {
		s.log.Warn("checkout initialization failed",
			zap.String("provider", provider),
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return nil, paymentdomain.ErrCheckoutFailed
	}

	if err := s.repo.AttachSession(ctx, s.db, payment.ID, session.SessionID, session.AuthorizationURL, s.clock.Now()); err != nil {
		return nil, err
	}
	payment.ProviderSessionID = session.SessionID
	payment.AuthorizationURL = session.AuthorizationURL

	if s.obsMetrics != nil {
		s.obsMetrics.RecordCheckoutSession(ctx, provider)
	}
	s.log.Info("checkout session created",
		zap.String("provider", provider),
		zap.String("payment_id", payment.ID.String()),
		zap.String("plan_id", plan.ID.String()),
	)
	return payment, nil
}

func (s *Service) List(ctx context.Context, req paymentdomain.ListPaymentsRequest) (paymentdomain.ListPaymentsResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return paymentdomain.ListPaymentsResponse{}, paymentdomain.ErrInvalidSchool
	}

	page := req.Page.Normalize()
	items, total, err := s.repo.List(ctx, s.db, schoolID, page)
	if err != nil {
		return paymentdomain.ListPaymentsResponse{}, err
	}

	payments := make([]paymentdomain.Payment, 0, len(items))
	for _, item := range items {
		payments = append(payments, *item)
	}
	return paymentdomain.ListPaymentsResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Payments: payments,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*paymentdomain.Payment, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return nil, paymentdomain.ErrInvalidSchool
	}

	paymentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || paymentID == 0 {
		return nil, paymentdomain.ErrInvalidID
	}
	payment, err := s.repo.FindByID(ctx, s.db, schoolID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, paymentdomain.ErrPaymentNotFound
	}
	return payment, nil
}

// VerifyCheckout is the caller-driven fallback for a missed webhook: it asks
// the provider directly for the transaction outcome and, on success, pushes
// the result through the same reconciliation path a webhook would take.
func (s *Service) VerifyCheckout(ctx context.Context, provider, reference string) (*paymentdomain.Payment, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return nil, paymentdomain.ErrInvalidSchool
	}

	provider = strings.ToLower(strings.TrimSpace(provider))
	gateway, found := s.gateways[provider]
	if !found {
		return nil, paymentdomain.ErrInvalidProvider
	}

	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, paymentdomain.ErrInvalidID
	}

	var payment *paymentdomain.Payment
	var err error
	if provider == "stripe" {
		payment, err = s.repo.FindBySessionID(ctx, s.db, reference)
	} else {
		payment, err = s.repo.FindByReference(ctx, s.db, reference)
	}
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.SchoolID != schoolID {
		return nil, paymentdomain.ErrPaymentNotFound
	}
	if payment.Status == paymentdomain.StatusCompleted {
		return payment, nil
	}

	result, err := gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !result.Succeeded {
		return nil, paymentdomain.ErrVerificationFailed
	}

	planID := snowflake.ID(0)
	if payment.PlanID != nil {
		planID = *payment.PlanID
	}
	event := &paymentdomain.PaymentEvent{
		Provider:              provider,
		ProviderEventID:       "verify_" + reference,
		Type:                  paymentdomain.EventTypePaymentSucceeded,
		PaymentID:             payment.ID,
		SchoolID:              payment.SchoolID,
		PlanID:                planID,
		ProviderTransactionID: result.TransactionID,
		Amount:                result.Amount,
		Currency:              result.Currency,
		OccurredAt:            s.clock.Now(),
	}
	if err := s.reconciler.HandlePaymentSucceeded(ctx, event); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, s.db, schoolID, payment.ID)
}

func actorID(ctx context.Context) snowflake.ID {
	_, rawID := obscontext.ActorFromContext(ctx)
	if rawID == "" {
		return 0
	}
	id, err := snowflake.ParseString(rawID)
	if err != nil {
		return 0
	}
	return id
}

package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/yaseeradam/school-ms-sub002/internal/config"
	obsmetrics "github.com/yaseeradam/school-ms-sub002/internal/observability/metrics"
	"github.com/yaseeradam/school-ms-sub002/internal/payment/adapters"
	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
	paymentservice "github.com/yaseeradam/school-ms-sub002/internal/payment/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	PaymentSvc *paymentservice.Service
	Adapters   *adapters.Registry
	Cfg        config.Config
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	paymentSvc *paymentservice.Service
	adapters   *adapters.Registry
	configs    map[string]map[string]any
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) paymentdomain.Service {
	configs := map[string]map[string]any{}
	if secret := strings.TrimSpace(p.Cfg.StripeWebhookSecret); secret != "" {
		configs["stripe"] = map[string]any{"webhook_secret": secret}
	}
	if secret := strings.TrimSpace(p.Cfg.PaystackSecretKey); secret != "" {
		configs["paystack"] = map[string]any{"secret_key": secret}
	}

	return &Service{
		log:        p.Log.Named("payment.webhook"),
		paymentSvc: p.PaymentSvc,
		adapters:   p.Adapters,
		configs:    configs,
		obsMetrics: p.ObsMetrics,
	}
}

// IngestWebhook verifies a delivery against the provider's signing scheme,
// parses it into a neutral event, and hands it to the payment pipeline.
// Event types the adapters do not recognize are acknowledged and dropped.
func (s *Service) IngestWebhook(ctx context.Context, provider string, payload []byte, headers http.Header) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return paymentdomain.ErrInvalidProvider
	}
	if s.adapters == nil || !s.adapters.ProviderExists(provider) {
		return paymentdomain.ErrProviderNotFound
	}
	if !json.Valid(payload) {
		return paymentdomain.ErrInvalidPayload
	}

	cfg, ok := s.configs[provider]
	if !ok {
		s.log.Warn("webhook received for unconfigured provider", zap.String("provider", provider))
		return paymentdomain.ErrProviderNotFound
	}

	adapter, err := s.adapters.NewAdapter(provider, paymentdomain.AdapterConfig{
		Provider: provider,
		Config:   cfg,
	})
	if err != nil {
		return err
	}

	if err := adapter.Verify(ctx, payload, headers); err != nil {
		s.recordOutcome(ctx, provider, "unknown", "invalid_signature")
		return err
	}

	event, err := adapter.Parse(ctx, payload)
	if err != nil {
		if errors.Is(err, paymentdomain.ErrEventIgnored) {
			s.log.Debug("ignoring unhandled webhook event", zap.String("provider", provider))
			s.recordOutcome(ctx, provider, "unknown", "ignored")
			return nil
		}
		return err
	}
	if event == nil {
		return paymentdomain.ErrInvalidEvent
	}

	event.Provider = provider
	if event.RawPayload == nil {
		event.RawPayload = payload
	}
	return s.paymentSvc.ProcessEvent(ctx, event, payload)
}

func (s *Service) recordOutcome(ctx context.Context, provider, eventType, outcome string) {
	if s.obsMetrics == nil {
		return
	}
	s.obsMetrics.RecordWebhookEvent(ctx, provider, eventType, outcome)
}

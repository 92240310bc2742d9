package payment

import (
	"net/http"
	"time"

	"github.com/yaseeradam/school-ms-sub002/internal/config"
	"github.com/yaseeradam/school-ms-sub002/internal/payment/adapters"
	adapterpaystack "github.com/yaseeradam/school-ms-sub002/internal/payment/adapters/paystack"
	adapterstripe "github.com/yaseeradam/school-ms-sub002/internal/payment/adapters/stripe"
	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
	gatewaypaystack "github.com/yaseeradam/school-ms-sub002/internal/payment/gateway/paystack"
	gatewaystripe "github.com/yaseeradam/school-ms-sub002/internal/payment/gateway/stripe"
	"github.com/yaseeradam/school-ms-sub002/internal/payment/repository"
	paymentservice "github.com/yaseeradam/school-ms-sub002/internal/payment/service"
	"github.com/yaseeradam/school-ms-sub002/internal/payment/webhook"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(func() *adapters.Registry {
		return adapters.NewRegistry(
			adapterstripe.NewFactory(),
			adapterpaystack.NewFactory(),
		)
	}),
	fx.Provide(fx.Annotate(
		func(cfg config.Config, log *zap.Logger) paymentdomain.Gateway {
			return gatewaystripe.NewClient(cfg.StripeAPIBaseURL, cfg.StripeSecretKey, gatewayHTTPClient(), log)
		},
		fx.ResultTags(`group:"payment.gateways"`),
	)),
	fx.Provide(fx.Annotate(
		func(cfg config.Config, log *zap.Logger) paymentdomain.Gateway {
			return gatewaypaystack.NewClient(cfg.PaystackAPIBaseURL, cfg.PaystackSecretKey, gatewayHTTPClient(), log)
		},
		fx.ResultTags(`group:"payment.gateways"`),
	)),
	fx.Provide(paymentservice.NewService),
	fx.Provide(webhook.NewService),
)

func gatewayHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

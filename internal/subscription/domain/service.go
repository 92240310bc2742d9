package domain

import (
	"context"

	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
)

// Reconciler applies verified payment outcomes to the payment record and,
// on success, to the school's subscription window. A failed payment never
// touches the subscription.
type Reconciler interface {
	HandlePaymentSucceeded(ctx context.Context, event *paymentdomain.PaymentEvent) error
	HandlePaymentFailed(ctx context.Context, event *paymentdomain.PaymentEvent) error
}

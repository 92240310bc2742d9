package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/yaseeradam/school-ms-sub002/internal/config"
	obsmetrics "github.com/yaseeradam/school-ms-sub002/internal/observability/metrics"
)

const keyCheckoutSchool = "payments:checkout:school:%s"

const (
	checkoutRate  = 0.2
	checkoutBurst = 5
)

// CheckoutLimiter throttles checkout session creation per school. It is
// disabled (always allow) when no redis address is configured.
type CheckoutLimiter struct {
	bucket  *TokenBucket
	metrics *obsmetrics.Metrics
}

func NewCheckoutLimiter(cfg config.Config, metrics *obsmetrics.Metrics) *CheckoutLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return &CheckoutLimiter{metrics: metrics}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
	})

	return &CheckoutLimiter{
		bucket:  NewTokenBucket(client),
		metrics: metrics,
	}
}

func (l *CheckoutLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *CheckoutLimiter) Allow(ctx context.Context, schoolID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyCheckoutSchool, strings.TrimSpace(schoolID)), checkoutRate, checkoutBurst)
	if err != nil {
		return false, err
	}
	if l.metrics != nil {
		if res.Allowed {
			l.metrics.RecordRateLimitAllowed(ctx, schoolID, "checkout")
		} else {
			l.metrics.RecordRateLimitDenied(ctx, schoolID, "checkout", "token_bucket")
		}
	}
	return res.Allowed, nil
}

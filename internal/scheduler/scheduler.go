package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/config"
	obsmetrics "github.com/yaseeradam/school-ms-sub002/internal/observability/metrics"
	schooldomain "github.com/yaseeradam/school-ms-sub002/internal/school/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	SchoolRepo schooldomain.Repository
	Billing    *config.BillingSettingsHolder
	Config     Config `optional:"true"`
}

// Scheduler runs the subscription expiry sweep: active schools whose paid
// window ended before the grace cutoff are marked expired and frozen.
type Scheduler struct {
	db         *gorm.DB
	log        *zap.Logger
	cfg        Config
	clock      clock.Clock
	schoolRepo schooldomain.Repository
	billing    *config.BillingSettingsHolder
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.SchoolRepo == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:         p.DB,
		log:        p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:        p.Config.withDefaults(),
		clock:      p.Clock,
		schoolRepo: p.SchoolRepo,
		billing:    p.Billing,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	schedMetrics.IncJobError(name, err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	return s.runJob(parent, "expire_subscriptions", s.cfg.JobTimeout, s.ExpireSubscriptionsJob)
}

// ExpireSubscriptionsJob lapses active subscriptions whose end date has
// passed the grace window. The sweep is a single UPDATE so a crashed run
// leaves nothing half-done.
func (s *Scheduler) ExpireSubscriptionsJob(ctx context.Context) error {
	now := s.clock.Now()
	cutoff := now.AddDate(0, 0, -s.graceDays())

	affected, err := s.schoolRepo.MarkLapsed(ctx, s.db, cutoff, now)
	if err != nil {
		return err
	}
	if affected > 0 {
		schedMetrics := obsmetrics.Scheduler()
		schedMetrics.AddSubscriptionsExpired(int(affected))
		schedMetrics.AddSchoolsFrozen(int(affected))
		s.log.Info("subscriptions expired",
			zap.Int64("schools", affected),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}

func (s *Scheduler) graceDays() int {
	if s.billing == nil {
		return config.DefaultBillingSettings().GraceDays
	}
	return s.billing.Get().GraceDays
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

package service

import (
	"context"

	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/report/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Students created inside this window count as recent enrollments.
const recentEnrollmentDays = 30

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("report.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Overview(ctx context.Context) (domain.Overview, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Overview{}, domain.ErrInvalidSchool
	}

	overview, err := s.repo.Counts(ctx, s.db, schoolID)
	if err != nil {
		return domain.Overview{}, err
	}

	since := s.clock.Now().AddDate(0, 0, -recentEnrollmentDays)
	recent, err := s.repo.RecentEnrollments(ctx, s.db, schoolID, since)
	if err != nil {
		return domain.Overview{}, err
	}
	overview.RecentEnrollments = recent

	if err := s.repo.PaymentTotals(ctx, s.db, schoolID, &overview); err != nil {
		return domain.Overview{}, err
	}
	return overview, nil
}

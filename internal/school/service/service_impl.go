package service

import (
	"context"
	"strings"

	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	plandomain "github.com/yaseeradam/school-ms-sub002/internal/plan/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/school/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     domain.Repository
	PlanRepo plandomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	planRepo plandomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("school.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		planRepo: p.PlanRepo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.School, error) {
	school, err := s.current(ctx)
	if err != nil {
		return domain.School{}, err
	}
	return *school, nil
}

func (s *Service) UpdateSettings(ctx context.Context, req domain.UpdateSchoolRequest) (domain.School, error) {
	school, err := s.current(ctx)
	if err != nil {
		return domain.School{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.School{}, domain.ErrInvalidName
	}

	school.Name = name
	school.Email = strings.TrimSpace(req.Email)
	school.Phone = strings.TrimSpace(req.Phone)
	school.Address = strings.TrimSpace(req.Address)
	school.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.UpdateSettings(ctx, s.db, school); err != nil {
		return domain.School{}, err
	}
	return *school, nil
}

func (s *Service) SubscriptionSummary(ctx context.Context) (domain.SubscriptionSummary, error) {
	school, err := s.current(ctx)
	if err != nil {
		return domain.SubscriptionSummary{}, err
	}

	summary := domain.SubscriptionSummary{
		Status:        school.SubscriptionStatus,
		StartAt:       school.SubscriptionStartAt,
		EndAt:         school.SubscriptionEndAt,
		LastPaymentAt: school.LastPaymentAt,
		AccountFrozen: school.AccountFrozen,
	}

	if school.SubscriptionEndAt != nil {
		remaining := school.SubscriptionEndAt.Sub(s.clock.Now())
		if remaining > 0 {
			summary.DaysRemaining = int(remaining.Hours() / 24)
		}
	}

	if school.SubscriptionPlanID != nil && *school.SubscriptionPlanID != 0 {
		plan, err := s.planRepo.FindByID(ctx, s.db, *school.SubscriptionPlanID)
		if err != nil {
			return domain.SubscriptionSummary{}, err
		}
		if plan != nil {
			summary.PlanID = plan.ID.String()
			summary.PlanName = plan.Name
			summary.Price = plan.Price
			summary.Currency = plan.Currency
			summary.MaxStudents = plan.MaxStudents
			summary.MaxTeachers = plan.MaxTeachers
		}
	}

	usage, err := s.repo.SubscriptionUsage(ctx, s.db, school.ID)
	if err != nil {
		return domain.SubscriptionSummary{}, err
	}
	summary.Usage = usage

	return summary, nil
}

func (s *Service) current(ctx context.Context) (*domain.School, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return nil, domain.ErrInvalidSchool
	}

	school, err := s.repo.FindByID(ctx, s.db, schoolID)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, domain.ErrNotFound
	}
	return school, nil
}

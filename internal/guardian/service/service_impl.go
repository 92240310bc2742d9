package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/guardian/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolctx"
	"github.com/yaseeradam/school-ms-sub002/pkg/db"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("guardian.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateGuardianRequest) (domain.Guardian, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Guardian{}, domain.ErrInvalidSchool
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return domain.Guardian{}, domain.ErrInvalidName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Guardian{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now().UTC()
	guardian := domain.Guardian{
		ID:           s.genID.Generate(),
		SchoolID:     schoolID,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Relationship: strings.TrimSpace(req.Relationship),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &guardian); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Guardian{}, domain.ErrDuplicateEmail
		}
		return domain.Guardian{}, err
	}
	return guardian, nil
}

func (s *Service) List(ctx context.Context, req domain.ListGuardiansRequest) (domain.ListGuardiansResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.ListGuardiansResponse{}, domain.ErrInvalidSchool
	}

	page := req.Page.Normalize()
	items, total, err := s.repo.List(ctx, s.db, schoolID, strings.TrimSpace(req.Search), page)
	if err != nil {
		return domain.ListGuardiansResponse{}, err
	}

	guardians := make([]domain.Guardian, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		guardians = append(guardians, *item)
	}

	return domain.ListGuardiansResponse{
		PageInfo:  pagination.BuildPageInfo(page, total),
		Guardians: guardians,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Guardian, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Guardian{}, domain.ErrInvalidSchool
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.Guardian{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, schoolID, parsed)
	if err != nil {
		return domain.Guardian{}, err
	}
	if item == nil {
		return domain.Guardian{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateGuardianRequest) (domain.Guardian, error) {
	current, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Guardian{}, err
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return domain.Guardian{}, domain.ErrInvalidName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Guardian{}, domain.ErrInvalidEmail
	}

	current.FirstName = firstName
	current.LastName = lastName
	current.Email = email
	current.Phone = strings.TrimSpace(req.Phone)
	current.Relationship = strings.TrimSpace(req.Relationship)
	current.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &current); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Guardian{}, domain.ErrDuplicateEmail
		}
		return domain.Guardian{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, current.SchoolID, current.ID)
}

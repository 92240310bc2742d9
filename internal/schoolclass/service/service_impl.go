package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolclass/domain"
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
		log:   p.Log.Named("class.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClassRequest) (domain.Class, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Class{}, domain.ErrInvalidSchool
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Class{}, domain.ErrInvalidName
	}
	teacherID, err := parseOptionalID(req.TeacherID)
	if err != nil {
		return domain.Class{}, domain.ErrInvalidID
	}

	now := s.clock.Now().UTC()
	class := domain.Class{
		ID:        s.genID.Generate(),
		SchoolID:  schoolID,
		Name:      name,
		Level:     strings.TrimSpace(req.Level),
		TeacherID: teacherID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &class); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Class{}, domain.ErrDuplicateName
		}
		return domain.Class{}, err
	}
	return class, nil
}

func (s *Service) List(ctx context.Context, req domain.ListClassesRequest) (domain.ListClassesResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.ListClassesResponse{}, domain.ErrInvalidSchool
	}

	page := req.Page.Normalize()
	items, total, err := s.repo.List(ctx, s.db, schoolID, strings.TrimSpace(req.Search), page)
	if err != nil {
		return domain.ListClassesResponse{}, err
	}

	classes := make([]domain.Class, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		classes = append(classes, *item)
	}

	return domain.ListClassesResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Classes:  classes,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Class, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Class{}, domain.ErrInvalidSchool
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.Class{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, schoolID, parsed)
	if err != nil {
		return domain.Class{}, err
	}
	if item == nil {
		return domain.Class{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateClassRequest) (domain.Class, error) {
	current, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Class{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Class{}, domain.ErrInvalidName
	}
	teacherID, err := parseOptionalID(req.TeacherID)
	if err != nil {
		return domain.Class{}, domain.ErrInvalidID
	}

	current.Name = name
	current.Level = strings.TrimSpace(req.Level)
	current.TeacherID = teacherID
	current.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &current); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Class{}, domain.ErrDuplicateName
		}
		return domain.Class{}, err
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

func parseOptionalID(value string) (*snowflake.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(value)
	if err != nil || parsed == 0 {
		return nil, domain.ErrInvalidID
	}
	return &parsed, nil
}

package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolctx"
	"github.com/yaseeradam/school-ms-sub002/internal/teacher/domain"
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
		log:   p.Log.Named("teacher.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTeacherRequest) (domain.Teacher, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Teacher{}, domain.ErrInvalidSchool
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return domain.Teacher{}, domain.ErrInvalidName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Teacher{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now().UTC()
	teacher := domain.Teacher{
		ID:        s.genID.Generate(),
		SchoolID:  schoolID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Subject:   strings.TrimSpace(req.Subject),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &teacher); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Teacher{}, domain.ErrDuplicateEmail
		}
		return domain.Teacher{}, err
	}
	return teacher, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTeachersRequest) (domain.ListTeachersResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.ListTeachersResponse{}, domain.ErrInvalidSchool
	}

	filter := domain.ListFilter{
		Search:  strings.TrimSpace(req.Search),
		Subject: strings.TrimSpace(req.Subject),
		Status:  strings.TrimSpace(req.Status),
	}

	page := req.Page.Normalize()
	items, total, err := s.repo.List(ctx, s.db, schoolID, filter, page)
	if err != nil {
		return domain.ListTeachersResponse{}, err
	}

	teachers := make([]domain.Teacher, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		teachers = append(teachers, *item)
	}

	return domain.ListTeachersResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Teachers: teachers,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Teacher, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Teacher{}, domain.ErrInvalidSchool
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.Teacher{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, schoolID, parsed)
	if err != nil {
		return domain.Teacher{}, err
	}
	if item == nil {
		return domain.Teacher{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateTeacherRequest) (domain.Teacher, error) {
	current, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Teacher{}, err
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return domain.Teacher{}, domain.ErrInvalidName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Teacher{}, domain.ErrInvalidEmail
	}

	current.FirstName = firstName
	current.LastName = lastName
	current.Email = email
	current.Phone = strings.TrimSpace(req.Phone)
	current.Subject = strings.TrimSpace(req.Subject)
	if status := strings.TrimSpace(req.Status); status != "" {
		current.Status = status
	}
	current.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &current); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Teacher{}, domain.ErrDuplicateEmail
		}
		return domain.Teacher{}, err
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

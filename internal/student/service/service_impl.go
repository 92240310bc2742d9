package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolctx"
	"github.com/yaseeradam/school-ms-sub002/internal/student/domain"
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
		log:   p.Log.Named("student.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateStudentRequest) (domain.Student, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Student{}, domain.ErrInvalidSchool
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return domain.Student{}, domain.ErrInvalidName
	}
	admissionNo := strings.TrimSpace(req.AdmissionNo)
	if admissionNo == "" {
		return domain.Student{}, domain.ErrInvalidAdmissionNo
	}

	classID, err := parseOptionalID(req.ClassID)
	if err != nil {
		return domain.Student{}, domain.ErrInvalidID
	}
	guardianID, err := parseOptionalID(req.GuardianID)
	if err != nil {
		return domain.Student{}, domain.ErrInvalidID
	}
	dateOfBirth, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return domain.Student{}, domain.ErrInvalidDateOfBirth
	}

	now := s.clock.Now().UTC()
	student := domain.Student{
		ID:          s.genID.Generate(),
		SchoolID:    schoolID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       strings.TrimSpace(req.Email),
		AdmissionNo: admissionNo,
		ClassID:     classID,
		GuardianID:  guardianID,
		DateOfBirth: dateOfBirth,
		Gender:      strings.TrimSpace(req.Gender),
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &student); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Student{}, domain.ErrDuplicateAdmission
		}
		return domain.Student{}, err
	}
	return student, nil
}

func (s *Service) List(ctx context.Context, req domain.ListStudentsRequest) (domain.ListStudentsResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.ListStudentsResponse{}, domain.ErrInvalidSchool
	}

	filter := domain.ListFilter{
		Search: strings.TrimSpace(req.Search),
		Status: strings.TrimSpace(req.Status),
	}
	if classID := strings.TrimSpace(req.ClassID); classID != "" {
		parsed, err := snowflake.ParseString(classID)
		if err != nil {
			return domain.ListStudentsResponse{}, domain.ErrInvalidID
		}
		filter.ClassID = parsed
	}

	page := req.Page.Normalize()
	items, total, err := s.repo.List(ctx, s.db, schoolID, filter, page)
	if err != nil {
		return domain.ListStudentsResponse{}, err
	}

	students := make([]domain.Student, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		students = append(students, *item)
	}

	return domain.ListStudentsResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Students: students,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Student, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Student{}, domain.ErrInvalidSchool
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.Student{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, schoolID, parsed)
	if err != nil {
		return domain.Student{}, err
	}
	if item == nil {
		return domain.Student{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateStudentRequest) (domain.Student, error) {
	current, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Student{}, err
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return domain.Student{}, domain.ErrInvalidName
	}
	admissionNo := strings.TrimSpace(req.AdmissionNo)
	if admissionNo == "" {
		return domain.Student{}, domain.ErrInvalidAdmissionNo
	}

	classID, err := parseOptionalID(req.ClassID)
	if err != nil {
		return domain.Student{}, domain.ErrInvalidID
	}
	guardianID, err := parseOptionalID(req.GuardianID)
	if err != nil {
		return domain.Student{}, domain.ErrInvalidID
	}
	dateOfBirth, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return domain.Student{}, domain.ErrInvalidDateOfBirth
	}

	current.FirstName = firstName
	current.LastName = lastName
	current.Email = strings.TrimSpace(req.Email)
	current.AdmissionNo = admissionNo
	current.ClassID = classID
	current.GuardianID = guardianID
	current.DateOfBirth = dateOfBirth
	current.Gender = strings.TrimSpace(req.Gender)
	if status := strings.TrimSpace(req.Status); status != "" {
		current.Status = status
	}
	current.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &current); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Student{}, domain.ErrDuplicateAdmission
		}
		return domain.Student{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.ErrInvalidSchool
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, schoolID, parsed)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, schoolID, parsed)
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

func parseOptionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

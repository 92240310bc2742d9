package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	notificationdomain "github.com/yaseeradam/school-ms-sub002/internal/notification/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolctx"
	"github.com/yaseeradam/school-ms-sub002/internal/subject/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Repo          domain.Repository
	Notifications notificationdomain.Service
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	repo          domain.Repository
	notifications notificationdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("subject.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		repo:          p.Repo,
		notifications: p.Notifications,
	}
}

func (s *Service) CreateSubject(ctx context.Context, req domain.CreateSubjectRequest) (domain.Subject, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Subject{}, domain.ErrInvalidSchool
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Subject{}, domain.ErrInvalidName
	}

	now := s.clock.Now().UTC()
	subject := domain.Subject{
		ID:        s.genID.Generate(),
		SchoolID:  schoolID,
		Name:      name,
		Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.InsertSubject(ctx, s.db, &subject); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Subject{}, domain.ErrDuplicateSubject
		}
		return domain.Subject{}, err
	}
	return subject, nil
}

func (s *Service) ListSubjects(ctx context.Context, req domain.ListSubjectsRequest) (domain.ListSubjectsResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.ListSubjectsResponse{}, domain.ErrInvalidSchool
	}

	items, err := s.repo.ListSubjects(ctx, s.db, schoolID, req.ActiveOnly)
	if err != nil {
		return domain.ListSubjectsResponse{}, err
	}

	subjects := make([]domain.Subject, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		subjects = append(subjects, *item)
	}
	return domain.ListSubjectsResponse{Subjects: subjects}, nil
}

func (s *Service) AssignTeacher(ctx context.Context, req domain.AssignTeacherRequest) (domain.AssignmentDetail, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.AssignmentDetail{}, domain.ErrInvalidSchool
	}

	teacherID, err := parseID(req.TeacherID)
	if err != nil {
		return domain.AssignmentDetail{}, err
	}
	subjectID, err := parseID(req.SubjectID)
	if err != nil {
		return domain.AssignmentDetail{}, err
	}
	classID, err := parseID(req.ClassID)
	if err != nil {
		return domain.AssignmentDetail{}, err
	}

	subject, err := s.repo.FindSubjectByID(ctx, s.db, schoolID, subjectID)
	if err != nil {
		return domain.AssignmentDetail{}, err
	}
	if subject == nil {
		return domain.AssignmentDetail{}, domain.ErrNotFound
	}
	teacherName, err := s.repo.TeacherName(ctx, s.db, schoolID, teacherID)
	if err != nil {
		return domain.AssignmentDetail{}, err
	}
	if teacherName == "" {
		return domain.AssignmentDetail{}, domain.ErrTeacherNotFound
	}
	className, err := s.repo.ClassName(ctx, s.db, schoolID, classID)
	if err != nil {
		return domain.AssignmentDetail{}, err
	}
	if className == "" {
		return domain.AssignmentDetail{}, domain.ErrClassNotFound
	}

	assignment := domain.TeacherAssignment{
		ID:        s.genID.Generate(),
		SchoolID:  schoolID,
		TeacherID: teacherID,
		SubjectID: subjectID,
		ClassID:   classID,
		CreatedAt: s.clock.Now().UTC(),
	}

	if err := s.repo.InsertAssignment(ctx, s.db, &assignment); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.AssignmentDetail{}, domain.ErrDuplicateAssignment
		}
		return domain.AssignmentDetail{}, err
	}

	// Notification failure does not roll back the assignment.
	_, err = s.notifications.Create(ctx, notificationdomain.CreateNotificationRequest{
		RecipientID: teacherID.String(),
		Title:       "New Subject Assignment",
		Message:     fmt.Sprintf("You have been assigned to teach %s for %s", subject.Name, className),
		Type:        "assignment",
	})
	if err != nil {
		s.log.Warn("assignment notification failed",
			zap.String("assignment_id", assignment.ID.String()),
			zap.String("teacher_id", teacherID.String()),
			zap.Error(err),
		)
	}

	return domain.AssignmentDetail{
		TeacherAssignment: assignment,
		SubjectName:       subject.Name,
		ClassName:         className,
		TeacherName:       teacherName,
	}, nil
}

func (s *Service) ListAssignments(ctx context.Context, req domain.ListAssignmentsRequest) (domain.ListAssignmentsResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.ListAssignmentsResponse{}, domain.ErrInvalidSchool
	}

	var teacherID snowflake.ID
	if raw := strings.TrimSpace(req.TeacherID); raw != "" {
		parsed, err := parseID(raw)
		if err != nil {
			return domain.ListAssignmentsResponse{}, err
		}
		teacherID = parsed
	}

	items, err := s.repo.ListAssignments(ctx, s.db, schoolID, teacherID)
	if err != nil {
		return domain.ListAssignmentsResponse{}, err
	}

	assignments := make([]domain.AssignmentDetail, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		assignments = append(assignments, *item)
	}
	return domain.ListAssignmentsResponse{Assignments: assignments}, nil
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || parsed == 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}

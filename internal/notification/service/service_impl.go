package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/notification/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolctx"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultType = "general"

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
		log:   p.Log.Named("notification.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateNotificationRequest) (domain.Notification, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Notification{}, domain.ErrInvalidSchool
	}

	recipientID := strings.TrimSpace(req.RecipientID)
	if recipientID == "" {
		return domain.Notification{}, domain.ErrInvalidRecipient
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Notification{}, domain.ErrInvalidTitle
	}
	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		kind = defaultType
	}

	notification := domain.Notification{
		ID:          s.genID.Generate(),
		SchoolID:    schoolID,
		RecipientID: recipientID,
		Title:       title,
		Message:     strings.TrimSpace(req.Message),
		Type:        kind,
		Read:        false,
		CreatedAt:   s.clock.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &notification); err != nil {
		return domain.Notification{}, err
	}
	return notification, nil
}

func (s *Service) List(ctx context.Context, req domain.ListNotificationsRequest) (domain.ListNotificationsResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.ListNotificationsResponse{}, domain.ErrInvalidSchool
	}

	recipientID := strings.TrimSpace(req.RecipientID)
	if recipientID == "" {
		return domain.ListNotificationsResponse{}, domain.ErrInvalidRecipient
	}

	page := req.Page.Normalize()
	items, total, err := s.repo.List(ctx, s.db, schoolID, recipientID, req.UnreadOnly, page)
	if err != nil {
		return domain.ListNotificationsResponse{}, err
	}

	notifications := make([]domain.Notification, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		notifications = append(notifications, *item)
	}

	return domain.ListNotificationsResponse{
		PageInfo:      pagination.BuildPageInfo(page, total),
		Notifications: notifications,
	}, nil
}

func (s *Service) MarkRead(ctx context.Context, req domain.MarkReadRequest) (domain.MarkReadResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.MarkReadResponse{}, domain.ErrInvalidSchool
	}

	recipientID := strings.TrimSpace(req.RecipientID)
	if recipientID == "" {
		return domain.MarkReadResponse{}, domain.ErrInvalidRecipient
	}

	ids := make([]snowflake.ID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		parsed, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil || parsed == 0 {
			return domain.MarkReadResponse{}, domain.ErrInvalidID
		}
		ids = append(ids, parsed)
	}

	updated, err := s.repo.MarkRead(ctx, s.db, schoolID, recipientID, ids, s.clock.Now().UTC())
	if err != nil {
		return domain.MarkReadResponse{}, err
	}
	return domain.MarkReadResponse{Updated: updated}, nil
}

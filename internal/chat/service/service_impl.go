package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/chat/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
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
		log:   p.Log.Named("chat.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) StartConversation(ctx context.Context, req domain.StartConversationRequest) (domain.Conversation, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Conversation{}, domain.ErrInvalidSchool
	}

	userID, err := parseID(req.UserID)
	if err != nil {
		return domain.Conversation{}, domain.ErrInvalidParticipant
	}
	peerID, err := parseID(req.PeerID)
	if err != nil {
		return domain.Conversation{}, domain.ErrInvalidParticipant
	}
	if userID == peerID {
		return domain.Conversation{}, domain.ErrInvalidParticipant
	}

	// Pair ordering is canonical so the unique constraint catches both directions.
	participantA, participantB := userID, peerID
	if participantB < participantA {
		participantA, participantB = participantB, participantA
	}

	existing, err := s.repo.FindConversationByPair(ctx, s.db, schoolID, participantA, participantB)
	if err != nil {
		return domain.Conversation{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	now := s.clock.Now().UTC()
	conversation := domain.Conversation{
		ID:           s.genID.Generate(),
		SchoolID:     schoolID,
		ParticipantA: participantA,
		ParticipantB: participantB,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.InsertConversation(ctx, s.db, &conversation); err != nil {
		if db.IsDuplicateKeyErr(err) {
			existing, findErr := s.repo.FindConversationByPair(ctx, s.db, schoolID, participantA, participantB)
			if findErr == nil && existing != nil {
				return *existing, nil
			}
		}
		return domain.Conversation{}, err
	}
	return conversation, nil
}

func (s *Service) ListConversations(ctx context.Context, req domain.ListConversationsRequest) (domain.ListConversationsResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.ListConversationsResponse{}, domain.ErrInvalidSchool
	}

	userID, err := parseID(req.UserID)
	if err != nil {
		return domain.ListConversationsResponse{}, domain.ErrInvalidParticipant
	}

	page := req.Page.Normalize()
	items, total, err := s.repo.ListConversations(ctx, s.db, schoolID, userID, page)
	if err != nil {
		return domain.ListConversationsResponse{}, err
	}

	conversations := make([]domain.Conversation, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		conversations = append(conversations, *item)
	}

	return domain.ListConversationsResponse{
		PageInfo:      pagination.BuildPageInfo(page, total),
		Conversations: conversations,
	}, nil
}

func (s *Service) ListMessages(ctx context.Context, req domain.ListMessagesRequest) (domain.ListMessagesResponse, error) {
	conversation, userID, err := s.memberConversation(ctx, req.ConversationID, req.UserID)
	if err != nil {
		return domain.ListMessagesResponse{}, err
	}

	page := req.Page.Normalize()
	items, total, err := s.repo.ListMessages(ctx, s.db, conversation.ID, page)
	if err != nil {
		return domain.ListMessagesResponse{}, err
	}

	if err := s.repo.MarkRead(ctx, s.db, conversation.ID, userID); err != nil {
		s.log.Warn("mark read failed",
			zap.String("conversation_id", conversation.ID.String()),
			zap.Error(err),
		)
	}

	messages := make([]domain.Message, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		messages = append(messages, *item)
	}

	return domain.ListMessagesResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Messages: messages,
	}, nil
}

func (s *Service) SendMessage(ctx context.Context, req domain.SendMessageRequest) (domain.Message, error) {
	conversation, userID, err := s.memberConversation(ctx, req.ConversationID, req.UserID)
	if err != nil {
		return domain.Message{}, err
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return domain.Message{}, domain.ErrInvalidBody
	}

	now := s.clock.Now().UTC()
	message := domain.Message{
		ID:             s.genID.Generate(),
		ConversationID: conversation.ID,
		SchoolID:       conversation.SchoolID,
		SenderID:       userID,
		Body:           body,
		SentAt:         now,
	}

	if err := s.repo.InsertMessage(ctx, s.db, &message); err != nil {
		return domain.Message{}, err
	}
	if err := s.repo.TouchConversation(ctx, s.db, conversation.ID, now); err != nil {
		s.log.Warn("touch conversation failed",
			zap.String("conversation_id", conversation.ID.String()),
			zap.Error(err),
		)
	}
	return message, nil
}

func (s *Service) memberConversation(ctx context.Context, conversationID, userID string) (*domain.Conversation, snowflake.ID, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return nil, 0, domain.ErrInvalidSchool
	}

	convID, err := parseID(conversationID)
	if err != nil {
		return nil, 0, domain.ErrInvalidID
	}
	uid, err := parseID(userID)
	if err != nil {
		return nil, 0, domain.ErrInvalidParticipant
	}

	conversation, err := s.repo.FindConversation(ctx, s.db, schoolID, convID)
	if err != nil {
		return nil, 0, err
	}
	if conversation == nil {
		return nil, 0, domain.ErrNotFound
	}
	if conversation.ParticipantA != uid && conversation.ParticipantB != uid {
		return nil, 0, domain.ErrNotParticipant
	}
	return conversation, uid, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

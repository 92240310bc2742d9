package domain

import (
	"context"
	"errors"

	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

type StartConversationRequest struct {
	UserID string `json:"-"`
	PeerID string `json:"peer_id"`
}

type ListConversationsRequest struct {
	UserID string
	Page   pagination.Pagination
}

type ListConversationsResponse struct {
	pagination.PageInfo
	Conversations []Conversation `json:"conversations"`
}

type ListMessagesRequest struct {
	ConversationID string
	UserID         string
	Page           pagination.Pagination
}

type ListMessagesResponse struct {
	pagination.PageInfo
	Messages []Message `json:"messages"`
}

type SendMessageRequest struct {
	ConversationID string `json:"-"`
	UserID         string `json:"-"`
	Body           string `json:"body"`
}

type Service interface {
	StartConversation(context.Context, StartConversationRequest) (Conversation, error)
	ListConversations(context.Context, ListConversationsRequest) (ListConversationsResponse, error)
	ListMessages(context.Context, ListMessagesRequest) (ListMessagesResponse, error)
	SendMessage(context.Context, SendMessageRequest) (Message, error)
}

var (
	ErrInvalidSchool      = errors.New("invalid_school")
	ErrInvalidParticipant = errors.New("invalid_participant")
	ErrInvalidBody        = errors.New("invalid_body")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotParticipant     = errors.New("not_a_participant")
	ErrNotFound           = errors.New("conversation_not_found")
)

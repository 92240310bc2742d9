package domain

import (
	"context"
	"errors"

	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

type CreateNotificationRequest struct {
	RecipientID string `json:"recipient_id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Type        string `json:"type"`
}

type ListNotificationsRequest struct {
	RecipientID string
	UnreadOnly  bool
	Page        pagination.Pagination
}

type ListNotificationsResponse struct {
	pagination.PageInfo
	Notifications []Notification `json:"notifications"`
}

// MarkReadRequest marks the listed notifications as read. An empty ID
// list marks everything unread for the recipient.
type MarkReadRequest struct {
	RecipientID string   `json:"-"`
	IDs         []string `json:"ids"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

type Service interface {
	Create(context.Context, CreateNotificationRequest) (Notification, error)
	List(context.Context, ListNotificationsRequest) (ListNotificationsResponse, error)
	MarkRead(context.Context, MarkReadRequest) (MarkReadResponse, error)
}

var (
	ErrInvalidSchool    = errors.New("invalid_school")
	ErrInvalidRecipient = errors.New("invalid_recipient")
	ErrInvalidTitle     = errors.New("invalid_title")
	ErrInvalidID        = errors.New("invalid_id")
)

package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	InsertConversation(ctx context.Context, db *gorm.DB, conversation *Conversation) error
	FindConversation(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (*Conversation, error)
	FindConversationByPair(ctx context.Context, db *gorm.DB, schoolID, participantA, participantB snowflake.ID) (*Conversation, error)
	ListConversations(ctx context.Context, db *gorm.DB, schoolID, userID snowflake.ID, page pagination.Pagination) ([]*Conversation, int64, error)
	TouchConversation(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	InsertMessage(ctx context.Context, db *gorm.DB, message *Message) error
	ListMessages(ctx context.Context, db *gorm.DB, conversationID snowflake.ID, page pagination.Pagination) ([]*Message, int64, error)
	MarkRead(ctx context.Context, db *gorm.DB, conversationID, readerID snowflake.ID) error
}

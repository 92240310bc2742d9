package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/chat/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertConversation(ctx context.Context, db *gorm.DB, conversation *domain.Conversation) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO chat_conversations (id, school_id, participant_a, participant_b, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		conversation.ID,
		conversation.SchoolID,
		conversation.ParticipantA,
		conversation.ParticipantB,
		conversation.CreatedAt,
		conversation.UpdatedAt,
	).Error
}

func (r *repo) FindConversation(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (*domain.Conversation, error) {
	var conversation domain.Conversation
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM chat_conversations WHERE school_id = ? AND id = ?`,
		schoolID,
		id,
	).Scan(&conversation).Error
	if err != nil {
		return nil, err
	}
	if conversation.ID == 0 {
		return nil, nil
	}
	return &conversation, nil
}

func (r *repo) FindConversationByPair(ctx context.Context, db *gorm.DB, schoolID, participantA, participantB snowflake.ID) (*domain.Conversation, error) {
	var conversation domain.Conversation
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM chat_conversations
		 WHERE school_id = ? AND participant_a = ? AND participant_b = ?`,
		schoolID,
		participantA,
		participantB,
	).Scan(&conversation).Error
	if err != nil {
		return nil, err
	}
	if conversation.ID == 0 {
		return nil, nil
	}
	return &conversation, nil
}

func (r *repo) ListConversations(ctx context.Context, db *gorm.DB, schoolID, userID snowflake.ID, page pagination.Pagination) ([]*domain.Conversation, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("school_id = ?", schoolID).
		Where("participant_a = ? OR participant_b = ?", userID, userID)

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var conversations []*domain.Conversation
	err := page.Apply(stmt).
		Order("updated_at desc, id desc").
		Find(&conversations).Error
	if err != nil {
		return nil, 0, err
	}
	return conversations, total, nil
}

func (r *repo) TouchConversation(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE chat_conversations SET updated_at = ? WHERE id = ?`,
		at,
		id,
	).Error
}

func (r *repo) InsertMessage(ctx context.Context, db *gorm.DB, message *domain.Message) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO chat_messages (id, conversation_id, school_id, sender_id, body, read, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		message.ID,
		message.ConversationID,
		message.SchoolID,
		message.SenderID,
		message.Body,
		message.Read,
		message.SentAt,
	).Error
}

func (r *repo) ListMessages(ctx context.Context, db *gorm.DB, conversationID snowflake.ID, page pagination.Pagination) ([]*domain.Message, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ?", conversationID)

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*domain.Message
	err := page.Apply(stmt).
		Order("sent_at asc, id asc").
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *repo) MarkRead(ctx context.Context, db *gorm.DB, conversationID, readerID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE chat_messages SET read = ? WHERE conversation_id = ? AND sender_id <> ? AND read = ?`,
		true,
		conversationID,
		readerID,
		false,
	).Error
}

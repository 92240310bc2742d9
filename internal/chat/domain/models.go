package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Conversation struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID     snowflake.ID `gorm:"not null;index" json:"school_id"`
	ParticipantA snowflake.ID `gorm:"not null" json:"participant_a"`
	ParticipantB snowflake.ID `gorm:"not null" json:"participant_b"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Conversation) TableName() string {
	return "chat_conversations"
}

type Message struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	ConversationID snowflake.ID `gorm:"not null;index" json:"conversation_id"`
	SchoolID       snowflake.ID `gorm:"not null" json:"school_id"`
	SenderID       snowflake.ID `gorm:"not null" json:"sender_id"`
	Body           string       `gorm:"not null" json:"body"`
	Read           bool         `gorm:"not null;default:false" json:"read"`
	SentAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"sent_at"`
}

func (Message) TableName() string {
	return "chat_messages"
}

package entities

import (
	"time"

	"ecoeats-server/internal/domain/conversation"
)

// ChatMessage represents the database schema for chat messages. Rows are
// insert-only; deletion happens through the conversation cascade.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	PublicID       string `gorm:"type:varchar(50);uniqueIndex;not null"`
	ConversationID string `gorm:"type:varchar(50);index:idx_chat_messages_conversation_created,priority:1;not null"`
	UserID         string `gorm:"type:varchar(64);index;not null"`
	Role           string `gorm:"type:varchar(20);not null"`
	Content        string `gorm:"type:text;not null"`
}

// TableName specifies the table name for ChatMessage.
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// EtoD converts database entity to domain model
func (m *ChatMessage) EtoD() *conversation.Message {
	return &conversation.Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		UserID:         m.UserID,
		Role:           conversation.Role(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

// NewSchemaChatMessage creates a database entity from domain model
func NewSchemaChatMessage(m *conversation.Message) *ChatMessage {
	return &ChatMessage{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		UserID:         m.UserID,
		Role:           string(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

package entities

import (
	"time"

	"ecoeats-server/internal/domain/conversation"
)

// Conversation represents the database schema for conversations
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID   string `gorm:"type:varchar(64);index:idx_conversations_user_updated,priority:1;not null"`
	Title    string `gorm:"type:varchar(256);not null;default:'New Chat'"`

	Messages []ChatMessage `gorm:"foreignKey:ConversationID;references:PublicID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// EtoD converts database entity to domain model
func (c *Conversation) EtoD() *conversation.Conversation {
	return &conversation.Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewSchemaConversation creates a database entity from domain model
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

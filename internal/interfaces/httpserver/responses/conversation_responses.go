package responses

import (
	"time"

	"ecoeats-server/internal/domain/conversation"
)

// ConversationPayload is returned to clients for conversation records.
type ConversationPayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessagePayload is returned to clients for chat message records.
type MessagePayload struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationListResponse wraps conversation listings.
type ConversationListResponse struct {
	Data []ConversationPayload `json:"data"`
}

// MessageListResponse wraps message listings.
type MessageListResponse struct {
	Data []MessagePayload `json:"data"`
}

// MessageCountResponse reports how many messages a conversation holds.
type MessageCountResponse struct {
	Count int64 `json:"count"`
}

// ConversationFromDomain maps the domain conversation to DTO.
func ConversationFromDomain(c *conversation.Conversation) ConversationPayload {
	return ConversationPayload{
		ID:        c.PublicID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// MessageFromDomain maps the domain message to DTO.
func MessageFromDomain(m *conversation.Message) MessagePayload {
	return MessagePayload{
		ID:             m.PublicID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

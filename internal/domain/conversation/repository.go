package conversation

import (
	"context"
	"time"
)

// Repository persists conversations and their messages. All reads and writes
// are scoped to the owning user; implementations must never return another
// user's records.
type Repository interface {
	CreateConversation(ctx context.Context, conv *Conversation) error
	// ListConversations returns the user's conversations ordered by
	// updated_at descending.
	ListConversations(ctx context.Context, userID string) ([]*Conversation, error)
	FindConversation(ctx context.Context, userID, publicID string) (*Conversation, error)
	UpdateConversationTitle(ctx context.Context, userID, publicID, title string) error
	// TouchConversation bumps updated_at so recency ordering reflects new
	// activity.
	TouchConversation(ctx context.Context, userID, publicID string, at time.Time) error
	// DeleteConversation removes the conversation and, by cascade, its
	// messages.
	DeleteConversation(ctx context.Context, userID, publicID string) error

	CreateMessage(ctx context.Context, msg *Message) error
	// ListMessages returns the conversation's messages ordered by created_at
	// ascending.
	ListMessages(ctx context.Context, userID, conversationPublicID string) ([]*Message, error)
	CountMessages(ctx context.Context, userID, conversationPublicID string) (int64, error)
}

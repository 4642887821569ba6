package conversation

import (
	"time"
)

// DefaultTitle is assigned to a conversation created before its first message
// has been sent.
const DefaultTitle = "New Chat"

// TitleMaxRunes is the cut-off applied when deriving a title from the first
// user message of a conversation.
const TitleMaxRunes = 50

// Conversation is a titled, user-owned thread grouping an ordered sequence of
// chat messages.
type Conversation struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation creates a conversation owned by userID with the default
// title.
func NewConversation(publicID, userID string) *Conversation {
	now := time.Now()
	return &Conversation{
		PublicID:  publicID,
		UserID:    userID,
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DeriveTitle produces a conversation title from its first user message: the
// message verbatim when it fits, otherwise the first TitleMaxRunes runes
// followed by an ellipsis marker.
func DeriveTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) <= TitleMaxRunes {
		return firstMessage
	}
	return string(runes[:TitleMaxRunes]) + "..."
}

package conversation

import (
	"fmt"
	"time"
)

// Role is the closed two-value tag carried by every chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the two accepted values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ParseRole converts a raw string into a Role, rejecting anything outside the
// closed set so that invalid roles are never persisted or sent upstream.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("invalid message role: %q", raw)
	}
	return role, nil
}

// Message is one immutable entry in a conversation. Messages are never
// updated after creation; they disappear only when the parent conversation is
// deleted.
type Message struct {
	ID             uint      `json:"-"`
	PublicID       string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"-"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

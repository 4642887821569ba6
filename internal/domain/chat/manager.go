// Package chat implements the client-side conversation session: an in-memory
// mirror of the durable store plus the send-turn protocol against the relay.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"ecoeats-server/internal/domain/attachment"
	"ecoeats-server/internal/domain/conversation"
)

// User-facing notification texts.
const (
	NoticeCreateFailed    = "Failed to create conversation"
	NoticeDeleteFailed    = "Failed to delete conversation"
	NoticeDeleted         = "Conversation deleted"
	NoticeRateLimited     = "Rate limit exceeded. Please try again later."
	NoticePaymentRequired = "Please add funds to continue using the AI."
	NoticeRelayFailed     = "Failed to get response. Please try again."
)

// ErrTurnInFlight rejects a send while a prior turn is still awaiting the
// relay. The composer stays disabled until the active turn settles.
var ErrTurnInFlight = errors.New("a turn is already in flight")

// Message is one entry of the in-memory transcript mirror.
type Message struct {
	Role    conversation.Role
	Content string
}

// Store is the durable conversation backend as seen by a session. All calls
// are implicitly scoped to the session's user.
type Store interface {
	CreateConversation(ctx context.Context) (*conversation.Conversation, error)
	ListConversations(ctx context.Context) ([]*conversation.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]*conversation.Message, error)
	RenameConversation(ctx context.Context, conversationID, title string) error
	DeleteConversation(ctx context.Context, conversationID string) error
	AppendMessage(ctx context.Context, conversationID string, role conversation.Role, content string) (*conversation.Message, error)
}

// Relay forwards a transcript and returns the assistant's reply text.
type Relay interface {
	Send(ctx context.Context, messages []Message) (string, error)
}

// Notifier surfaces transient user-visible notifications.
type Notifier interface {
	Error(message string)
	Success(message string)
}

// Manager orchestrates one chat session: conversation selection, the pending
// attachment set, and the send-turn protocol. Sends are serialized; all other
// operations are safe to interleave with an in-flight turn.
type Manager struct {
	store   Store
	relay   Relay
	notify  Notifier
	log     zerolog.Logger
	pending *attachment.PendingSet

	mu            sync.Mutex
	inFlight      bool
	activeID      string
	messages      []Message
	conversations []*conversation.Conversation
}

// NewManager creates a session manager over a store and relay.
func NewManager(store Store, relay Relay, notify Notifier, log zerolog.Logger) *Manager {
	return &Manager{
		store:   store,
		relay:   relay,
		notify:  notify,
		log:     log,
		pending: attachment.NewPendingSet(),
	}
}

// Pending exposes the attachment staging area.
func (m *Manager) Pending() *attachment.PendingSet {
	return m.pending
}

// ActiveConversationID returns the selected conversation, or "" when the
// session is on an unsaved new chat.
func (m *Manager) ActiveConversationID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// Messages returns a copy of the in-memory transcript.
func (m *Manager) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Conversations returns the cached sidebar listing, most recent first.
func (m *Manager) Conversations() []*conversation.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*conversation.Conversation, len(m.conversations))
	copy(out, m.conversations)
	return out
}

// RefreshConversations reloads the sidebar listing from the store. On failure
// the previous listing is kept.
func (m *Manager) RefreshConversations(ctx context.Context) error {
	conversations, err := m.store.ListConversations(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to load conversations")
		return err
	}
	m.mu.Lock()
	m.conversations = conversations
	m.mu.Unlock()
	return nil
}

// SelectConversation makes the conversation active and replaces the in-memory
// transcript with its stored messages. On load failure the session keeps its
// current transcript and active pointer untouched.
func (m *Manager) SelectConversation(ctx context.Context, conversationID string) error {
	stored, err := m.store.ListMessages(ctx, conversationID)
	if err != nil {
		m.log.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to load messages")
		return err
	}

	messages := make([]Message, len(stored))
	for i, msg := range stored {
		messages[i] = Message{Role: msg.Role, Content: msg.Content}
	}

	m.mu.Lock()
	m.activeID = conversationID
	m.messages = messages
	m.mu.Unlock()
	return nil
}

// StartNewChat clears the transcript and the active-conversation pointer. No
// store record is created; that happens lazily on the first send.
func (m *Manager) StartNewChat() {
	m.mu.Lock()
	m.activeID = ""
	m.messages = nil
	m.mu.Unlock()
}

// SendTurn runs the central protocol for one turn: lazy conversation
// creation, optimistic user-message append, persistence, relay round-trip,
// and assistant persistence. Empty input with no pending attachments is a
// no-op.
func (m *Manager) SendTurn(ctx context.Context, typed string) error {
	content := m.pending.MessageText(strings.TrimSpace(typed))
	if content == "" {
		return nil
	}

	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return ErrTurnInFlight
	}
	m.inFlight = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	conversationID, firstTurn, err := m.ensureConversation(ctx)
	if err != nil {
		return err
	}

	// Optimistic append: shown immediately, never rolled back even if the
	// store write below fails.
	m.mu.Lock()
	m.messages = append(m.messages, Message{Role: conversation.RoleUser, Content: content})
	history := make([]Message, len(m.messages))
	copy(history, m.messages)
	m.mu.Unlock()
	m.pending.Clear()

	if _, err := m.store.AppendMessage(ctx, conversationID, conversation.RoleUser, content); err != nil {
		m.log.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to persist user message")
	}

	if firstTurn {
		m.persistTitle(ctx, conversationID, content)
	}

	reply, err := m.relay.Send(ctx, history)
	if err != nil {
		m.notify.Error(classifyRelayError(err))
		return nil
	}

	m.mu.Lock()
	m.messages = append(m.messages, Message{Role: conversation.RoleAssistant, Content: reply})
	m.mu.Unlock()

	if _, err := m.store.AppendMessage(ctx, conversationID, conversation.RoleAssistant, reply); err != nil {
		m.log.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to persist assistant message")
	}

	if err := m.RefreshConversations(ctx); err != nil {
		m.log.Warn().Err(err).Msg("conversation list refresh failed after turn")
	}
	return nil
}

// DeleteConversation removes the conversation from the store. Local state is
// only touched after confirmed success; deleting the active conversation also
// resets the transcript.
func (m *Manager) DeleteConversation(ctx context.Context, conversationID string) error {
	if err := m.store.DeleteConversation(ctx, conversationID); err != nil {
		m.log.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to delete conversation")
		m.notify.Error(NoticeDeleteFailed)
		return err
	}

	m.mu.Lock()
	kept := m.conversations[:0]
	for _, conv := range m.conversations {
		if conv.PublicID != conversationID {
			kept = append(kept, conv)
		}
	}
	m.conversations = kept
	if m.activeID == conversationID {
		m.activeID = ""
		m.messages = nil
	}
	m.mu.Unlock()

	m.notify.Success(NoticeDeleted)
	return nil
}

// ensureConversation resolves the active conversation, creating one lazily
// for a fresh chat. A failed creation aborts the turn and leaves no partial
// state behind.
func (m *Manager) ensureConversation(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	activeID := m.activeID
	firstTurn := len(m.messages) == 0
	m.mu.Unlock()

	if activeID != "" {
		return activeID, firstTurn, nil
	}

	conv, err := m.store.CreateConversation(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to create conversation")
		m.notify.Error(NoticeCreateFailed)
		return "", false, err
	}

	m.mu.Lock()
	m.activeID = conv.PublicID
	m.conversations = append([]*conversation.Conversation{conv}, m.conversations...)
	m.mu.Unlock()
	return conv.PublicID, true, nil
}

// persistTitle derives the auto-title from the first message and stores it.
// The cached listing is only updated when the store write succeeds.
func (m *Manager) persistTitle(ctx context.Context, conversationID, firstMessage string) {
	title := conversation.DeriveTitle(firstMessage)
	if err := m.store.RenameConversation(ctx, conversationID, title); err != nil {
		m.log.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to set conversation title")
		return
	}

	m.mu.Lock()
	for _, conv := range m.conversations {
		if conv.PublicID == conversationID {
			conv.Title = title
			break
		}
	}
	m.mu.Unlock()
}

// classifyRelayError maps a relay failure onto the user-facing notification.
// Classification is by embedded status substring: the relay surfaces upstream
// 429/402 through error text, everything else is generic.
func classifyRelayError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"):
		return NoticeRateLimited
	case strings.Contains(msg, "402"):
		return NoticePaymentRequired
	default:
		return NoticeRelayFailed
	}
}

package conversation

import (
	"context"
	"strings"
	"time"

	"ecoeats-server/internal/utils/idgen"
	"ecoeats-server/internal/utils/platformerrors"
)

// Service handles business logic for conversations and messages.
type Service struct {
	repo Repository
}

// NewService creates a new conversation service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateConversation creates a conversation for userID with the default
// title.
func (s *Service) CreateConversation(ctx context.Context, userID string) (*Conversation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "user id is required", nil, "9f2c1a84-3b5d-4e6f-8a7b-0c1d2e3f4a5b")
	}

	publicID, err := idgen.GenerateSecureID("conv", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate conversation ID")
	}

	conv := NewConversation(publicID, userID)
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
	}
	return conv, nil
}

// ListConversations returns the user's conversations, most recently updated
// first.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]*Conversation, error) {
	conversations, err := s.repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}
	return conversations, nil
}

// GetConversation retrieves a conversation and validates ownership. A
// conversation owned by someone else is reported as not found.
func (s *Service) GetConversation(ctx context.Context, userID, publicID string) (*Conversation, error) {
	conv, err := s.repo.FindConversation(ctx, userID, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "conversation not found")
	}
	return conv, nil
}

// RenameConversation sets the display title. The title is stored as given;
// callers derive it with DeriveTitle when renaming from a first message.
func (s *Service) RenameConversation(ctx context.Context, userID, publicID, title string) error {
	if strings.TrimSpace(title) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "title must not be empty", nil, "4d8e2f6a-1b3c-4d5e-9f0a-2b4c6d8e0f1a")
	}
	if _, err := s.GetConversation(ctx, userID, publicID); err != nil {
		return err
	}
	if err := s.repo.UpdateConversationTitle(ctx, userID, publicID, title); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to rename conversation")
	}
	return nil
}

// DeleteConversation removes the conversation and all of its messages.
func (s *Service) DeleteConversation(ctx context.Context, userID, publicID string) error {
	if _, err := s.GetConversation(ctx, userID, publicID); err != nil {
		return err
	}
	if err := s.repo.DeleteConversation(ctx, userID, publicID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete conversation")
	}
	return nil
}

// AppendMessage records one immutable message in the conversation and bumps
// the conversation's updated_at so list ordering reflects the activity.
func (s *Service) AppendMessage(ctx context.Context, userID, conversationPublicID string, role Role, content string) (*Message, error) {
	if !role.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid message role", nil, "7a1b3c5d-9e0f-4a2b-8c6d-1e3f5a7b9c0d")
	}

	if _, err := s.GetConversation(ctx, userID, conversationPublicID); err != nil {
		return nil, err
	}

	publicID, err := idgen.GenerateSecureID("msg", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate message ID")
	}

	msg := &Message{
		PublicID:       publicID,
		ConversationID: conversationPublicID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create message")
	}

	if err := s.repo.TouchConversation(ctx, userID, conversationPublicID, msg.CreatedAt); err != nil {
		// The message is already durable; a failed bump only degrades list
		// ordering until the next successful write.
		return msg, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to touch conversation")
	}

	return msg, nil
}

// ListMessages returns the conversation's messages in ascending creation
// order.
func (s *Service) ListMessages(ctx context.Context, userID, conversationPublicID string) ([]*Message, error) {
	if _, err := s.GetConversation(ctx, userID, conversationPublicID); err != nil {
		return nil, err
	}
	messages, err := s.repo.ListMessages(ctx, userID, conversationPublicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list messages")
	}
	return messages, nil
}

// CountMessages reports how many messages the conversation holds. The send
// protocol uses it to decide whether a turn is the conversation's first.
func (s *Service) CountMessages(ctx context.Context, userID, conversationPublicID string) (int64, error) {
	count, err := s.repo.CountMessages(ctx, userID, conversationPublicID)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count messages")
	}
	return count, nil
}

package handlers

import (
	"github.com/rs/zerolog"

	"ecoeats-server/internal/domain/conversation"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat         *ChatHandler
	Conversation *ConversationHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(gw ChatCompleter, model string, conversationService *conversation.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Chat:         NewChatHandler(gw, model, log),
		Conversation: NewConversationHandler(conversationService, log),
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"ecoeats-server/internal/domain/conversation"
	"ecoeats-server/internal/infrastructure/auth"
	"ecoeats-server/internal/infrastructure/metrics"
	"ecoeats-server/internal/interfaces/httpserver/requests"
	"ecoeats-server/internal/interfaces/httpserver/responses"
	"ecoeats-server/internal/utils/platformerrors"
)

// ConversationHandler serves the durable conversation store API.
type ConversationHandler struct {
	service *conversation.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the conversation handler.
func NewConversationHandler(service *conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{service: service, log: log}
}

// Create handles POST /v1/conversations.
func (h *ConversationHandler) Create(c *gin.Context) {
	conv, err := h.service.CreateConversation(c.Request.Context(), auth.UserID(c))
	if err != nil {
		responses.HandleError(c, err, "failed to create conversation")
		return
	}
	metrics.ConversationsTotal.WithLabelValues("created").Inc()
	c.JSON(http.StatusCreated, responses.ConversationFromDomain(conv))
}

// List handles GET /v1/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	conversations, err := h.service.ListConversations(c.Request.Context(), auth.UserID(c))
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}

	payload := responses.ConversationListResponse{
		Data: make([]responses.ConversationPayload, len(conversations)),
	}
	for i, conv := range conversations {
		payload.Data[i] = responses.ConversationFromDomain(conv)
	}
	c.JSON(http.StatusOK, payload)
}

// Get handles GET /v1/conversations/:id.
func (h *ConversationHandler) Get(c *gin.Context) {
	conv, err := h.service.GetConversation(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "conversation not found")
		return
	}
	c.JSON(http.StatusOK, responses.ConversationFromDomain(conv))
}

// Rename handles PATCH /v1/conversations/:id.
func (h *ConversationHandler) Rename(c *gin.Context) {
	var req requests.RenameConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid rename request", "3a7c9e1b-5d2f-4a8b-9c0d-6e4f2a8b0c3d")
		return
	}

	if err := h.service.RenameConversation(c.Request.Context(), auth.UserID(c), c.Param("id"), req.Title); err != nil {
		responses.HandleError(c, err, "failed to rename conversation")
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /v1/conversations/:id.
func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteConversation(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		responses.HandleError(c, err, "failed to delete conversation")
		return
	}
	metrics.ConversationsTotal.WithLabelValues("deleted").Inc()
	c.Status(http.StatusNoContent)
}

// ListMessages handles GET /v1/conversations/:id/messages.
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	messages, err := h.service.ListMessages(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to list messages")
		return
	}

	payload := responses.MessageListResponse{
		Data: make([]responses.MessagePayload, len(messages)),
	}
	for i, msg := range messages {
		payload.Data[i] = responses.MessageFromDomain(msg)
	}
	c.JSON(http.StatusOK, payload)
}

// CountMessages handles GET /v1/conversations/:id/messages/count. Clients use
// it to decide whether a turn is the conversation's first.
func (h *ConversationHandler) CountMessages(c *gin.Context) {
	if _, err := h.service.GetConversation(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		responses.HandleError(c, err, "conversation not found")
		return
	}

	count, err := h.service.CountMessages(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to count messages")
		return
	}
	c.JSON(http.StatusOK, responses.MessageCountResponse{Count: count})
}

// CreateMessage handles POST /v1/conversations/:id/messages.
func (h *ConversationHandler) CreateMessage(c *gin.Context) {
	var req requests.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid message request", "8e2d4f6a-0b1c-4d3e-9f5a-7b9c1d3e5f0a")
		return
	}

	role, err := conversation.ParseRole(req.Role)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid message role", "1c3e5a7b-9d0f-4a2b-8c4d-6e8f0a2b4c6d")
		return
	}

	msg, err := h.service.AppendMessage(c.Request.Context(), auth.UserID(c), c.Param("id"), role, req.Content)
	if err != nil && msg == nil {
		responses.HandleError(c, err, "failed to create message")
		return
	}
	if err != nil {
		// Message persisted but the recency bump failed; log and serve it.
		h.log.Warn().Err(err).Str("conversation_id", c.Param("id")).Msg("conversation touch failed after message insert")
	}

	metrics.MessagesTotal.WithLabelValues(string(role)).Inc()
	c.JSON(http.StatusCreated, responses.MessageFromDomain(msg))
}

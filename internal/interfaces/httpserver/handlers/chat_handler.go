package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"ecoeats-server/internal/infrastructure/gateway"
	"ecoeats-server/internal/infrastructure/metrics"
	"ecoeats-server/internal/infrastructure/observability"
	"ecoeats-server/internal/interfaces/httpserver/requests"
)

// Caller-visible relay messages. The generic one deliberately carries no
// upstream detail; status and body go to server logs only.
const (
	msgRateLimited     = "Rate limit exceeded. Please try again later."
	msgPaymentRequired = "Payment required. Please add funds."
	msgGenericFailure  = "An error occurred"
)

// ChatHandler relays conversation turns to the AI gateway.
type ChatHandler struct {
	gateway ChatCompleter
	model   string
	log     zerolog.Logger
}

// ChatCompleter abstracts the AI gateway round-trip.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// NewChatHandler constructs the relay handler.
func NewChatHandler(gw ChatCompleter, model string, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{gateway: gw, model: model, log: log}
}

// Chat handles POST /v1/chat. The relay is stateless: the caller supplies the
// full transcript and receives a single completed reply.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error().Err(err).Msg("chat request parse failed")
		metrics.RelayRequestsTotal.WithLabelValues(metrics.RelayOutcomeError).Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgGenericFailure})
		return
	}

	h.log.Info().Int("messages", len(req.Messages)).Msg("relaying chat request to AI gateway")

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	ctx, span := observability.StartRelaySpan(c.Request.Context(), h.model, len(messages))
	defer span.End()

	start := time.Now()
	reply, err := h.gateway.Complete(ctx, messages)
	metrics.RelayDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		observability.RecordError(span, err)
		switch {
		case errors.Is(err, gateway.ErrRateLimited):
			metrics.RelayRequestsTotal.WithLabelValues(metrics.RelayOutcomeRateLimited).Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{"error": msgRateLimited})
		case errors.Is(err, gateway.ErrPaymentRequired):
			metrics.RelayRequestsTotal.WithLabelValues(metrics.RelayOutcomePaymentRequired).Inc()
			c.JSON(http.StatusPaymentRequired, gin.H{"error": msgPaymentRequired})
		default:
			h.log.Error().Err(err).Msg("chat relay failed")
			metrics.RelayRequestsTotal.WithLabelValues(metrics.RelayOutcomeError).Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgGenericFailure})
		}
		return
	}

	metrics.RelayRequestsTotal.WithLabelValues(metrics.RelayOutcomeSuccess).Inc()
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

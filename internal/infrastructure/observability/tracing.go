package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "ecoeats-server"
)

// GetTracer returns the tracer for the EcoEats server.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartRelaySpan starts a span covering one relay round-trip to the AI
// gateway.
func StartRelaySpan(ctx context.Context, model string, messageCount int) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "relay.complete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("relay.model", model),
			attribute.Int("relay.message_count", messageCount),
		),
	)
}

// StartConversationSpan starts a span for a conversation store operation.
func StartConversationSpan(ctx context.Context, operation, conversationID string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "conversation."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
		),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

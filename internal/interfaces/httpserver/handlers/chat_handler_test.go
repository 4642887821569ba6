package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"ecoeats-server/internal/infrastructure/gateway"
	"ecoeats-server/internal/interfaces/httpserver/handlers"
)

// MockCompleter is a mock implementation of the gateway round-trip.
type MockCompleter struct {
	CompleteFunc func(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

func (m *MockCompleter) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages)
	}
	return "", nil
}

func newChatRouter(completer *MockCompleter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := handlers.NewChatHandler(completer, "google/gemini-2.5-flash", zerolog.Nop())
	engine.POST("/v1/chat", handler.Chat)
	return engine
}

func postChat(t *testing.T, engine *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func TestChatSuccess(t *testing.T) {
	var gotMessages []openai.ChatCompletionMessage
	completer := &MockCompleter{
		CompleteFunc: func(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
			gotMessages = messages
			return "Plan for 20 kg of waste.", nil
		},
	}

	rec := postChat(t, newChatRouter(completer), `{"messages":[{"role":"user","content":"wedding, 150 guests"}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["response"] != "Plan for 20 kg of waste." {
		t.Errorf("response = %q", body["response"])
	}
	if len(gotMessages) != 1 || gotMessages[0].Content != "wedding, 150 guests" {
		t.Errorf("forwarded messages = %+v", gotMessages)
	}
}

func TestChatMalformedBody(t *testing.T) {
	rec := postChat(t, newChatRouter(&MockCompleter{}), `{"messages":`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "An error occurred" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestChatRateLimited(t *testing.T) {
	completer := &MockCompleter{
		CompleteFunc: func(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
			return "", gateway.ErrRateLimited
		},
	}

	rec := postChat(t, newChatRouter(completer), `{"messages":[]}`)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Rate limit exceeded. Please try again later." {
		t.Errorf("error = %q", body["error"])
	}
}

func TestChatPaymentRequired(t *testing.T) {
	completer := &MockCompleter{
		CompleteFunc: func(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
			return "", gateway.ErrPaymentRequired
		},
	}

	rec := postChat(t, newChatRouter(completer), `{"messages":[]}`)

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Payment required. Please add funds." {
		t.Errorf("error = %q", body["error"])
	}
}

func TestChatMissingKeyHiddenFromCaller(t *testing.T) {
	completer := &MockCompleter{
		CompleteFunc: func(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
			return "", gateway.ErrNotConfigured
		},
	}

	rec := postChat(t, newChatRouter(completer), `{"messages":[]}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "An error occurred" {
		t.Errorf("config detail must not leak, got %q", body["error"])
	}
}

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"ecoeats-server/internal/domain/conversation"
	"ecoeats-server/internal/infrastructure/auth"
	"ecoeats-server/internal/interfaces/httpserver/handlers"
	"ecoeats-server/internal/utils/platformerrors"
)

// memoryRepository is an in-memory conversation.Repository for handler tests.
type memoryRepository struct {
	mu            sync.Mutex
	conversations map[string]*conversation.Conversation
	messages      map[string][]*conversation.Message
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		conversations: make(map[string]*conversation.Conversation),
		messages:      make(map[string][]*conversation.Message),
	}
}

func (r *memoryRepository) CreateConversation(ctx context.Context, conv *conversation.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *conv
	r.conversations[conv.PublicID] = &stored
	return nil
}

func (r *memoryRepository) ListConversations(ctx context.Context, userID string) ([]*conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*conversation.Conversation
	for _, conv := range r.conversations {
		if conv.UserID == userID {
			copied := *conv
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *memoryRepository) FindConversation(ctx context.Context, userID, publicID string) (*conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[publicID]
	if !ok || conv.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "00000000-0000-0000-0000-000000000001")
	}
	copied := *conv
	return &copied, nil
}

func (r *memoryRepository) UpdateConversationTitle(ctx context.Context, userID, publicID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[publicID]
	if !ok || conv.UserID != userID {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "00000000-0000-0000-0000-000000000002")
	}
	conv.Title = title
	return nil
}

func (r *memoryRepository) TouchConversation(ctx context.Context, userID, publicID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[publicID]
	if !ok || conv.UserID != userID {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "00000000-0000-0000-0000-000000000003")
	}
	conv.UpdatedAt = at
	return nil
}

func (r *memoryRepository) DeleteConversation(ctx context.Context, userID, publicID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[publicID]
	if !ok || conv.UserID != userID {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "00000000-0000-0000-0000-000000000004")
	}
	delete(r.conversations, publicID)
	delete(r.messages, publicID)
	return nil
}

func (r *memoryRepository) CreateMessage(ctx context.Context, msg *conversation.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *msg
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], &stored)
	return nil
}

func (r *memoryRepository) ListMessages(ctx context.Context, userID, conversationPublicID string) ([]*conversation.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*conversation.Message
	for _, msg := range r.messages[conversationPublicID] {
		if msg.UserID == userID {
			copied := *msg
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memoryRepository) CountMessages(ctx context.Context, userID, conversationPublicID string) (int64, error) {
	msgs, err := r.ListMessages(ctx, userID, conversationPublicID)
	if err != nil {
		return 0, err
	}
	return int64(len(msgs)), nil
}

func newConversationRouter(userID string) (*gin.Engine, *memoryRepository) {
	gin.SetMode(gin.TestMode)
	repo := newMemoryRepository()
	service := conversation.NewService(repo)
	handler := handlers.NewConversationHandler(service, zerolog.Nop())

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(auth.UserIDKey, userID)
		c.Next()
	})

	group := engine.Group("/v1/conversations")
	group.POST("", handler.Create)
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.PATCH("/:id", handler.Rename)
	group.DELETE("/:id", handler.Delete)
	group.GET("/:id/messages", handler.ListMessages)
	group.GET("/:id/messages/count", handler.CountMessages)
	group.POST("/:id/messages", handler.CreateMessage)
	return engine, repo
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func createConversation(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, engine, http.MethodPost, "/v1/conversations", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create conversation status = %d", rec.Code)
	}
	var payload struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if payload.Title != "New Chat" {
		t.Errorf("new conversation title = %q, want New Chat", payload.Title)
	}
	return payload.ID
}

func TestConversationLifecycle(t *testing.T) {
	engine, _ := newConversationRouter("user-1")

	id := createConversation(t, engine)

	// append a user message
	rec := doJSON(t, engine, http.MethodPost, "/v1/conversations/"+id+"/messages", `{"role":"user","content":"How much rice for 100 guests?"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create message status = %d, body %s", rec.Code, rec.Body.String())
	}

	// rename to the derived title
	rec = doJSON(t, engine, http.MethodPatch, "/v1/conversations/"+id, `{"title":"How much rice for 100 guests?"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("rename status = %d", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodGet, "/v1/conversations/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var conv struct {
		Title string `json:"title"`
	}
	json.Unmarshal(rec.Body.Bytes(), &conv)
	if conv.Title != "How much rice for 100 guests?" {
		t.Errorf("title = %q", conv.Title)
	}

	// count reflects the appended message
	rec = doJSON(t, engine, http.MethodGet, "/v1/conversations/"+id+"/messages/count", "")
	var count struct {
		Count int64 `json:"count"`
	}
	json.Unmarshal(rec.Body.Bytes(), &count)
	if count.Count != 1 {
		t.Errorf("count = %d, want 1", count.Count)
	}

	// delete removes conversation and messages
	rec = doJSON(t, engine, http.MethodDelete, "/v1/conversations/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, engine, http.MethodGet, "/v1/conversations/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestConversationListOrdering(t *testing.T) {
	engine, repo := newConversationRouter("user-1")

	first := createConversation(t, engine)
	second := createConversation(t, engine)

	// push the first conversation ahead by touching it later
	repo.TouchConversation(context.Background(), "user-1", second, time.Now().Add(-time.Hour))
	repo.TouchConversation(context.Background(), "user-1", first, time.Now())

	rec := doJSON(t, engine, http.MethodGet, "/v1/conversations", "")
	var payload struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &payload)
	if len(payload.Data) != 2 {
		t.Fatalf("list returned %d conversations", len(payload.Data))
	}
	if payload.Data[0].ID != first {
		t.Errorf("most recently updated should come first, got %q", payload.Data[0].ID)
	}
}

func TestConversationUserScoping(t *testing.T) {
	owner, repo := newConversationRouter("user-1")
	id := createConversation(t, owner)

	// build a second router over the same repo but another user
	gin.SetMode(gin.TestMode)
	service := conversation.NewService(repo)
	handler := handlers.NewConversationHandler(service, zerolog.Nop())
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(auth.UserIDKey, "user-2")
		c.Next()
	})
	engine.GET("/v1/conversations/:id", handler.Get)
	engine.DELETE("/v1/conversations/:id", handler.Delete)

	rec := doJSON(t, engine, http.MethodGet, "/v1/conversations/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign get status = %d, want 404", rec.Code)
	}
	rec = doJSON(t, engine, http.MethodDelete, "/v1/conversations/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign delete status = %d, want 404", rec.Code)
	}
}

func TestCreateMessageInvalidRole(t *testing.T) {
	engine, _ := newConversationRouter("user-1")
	id := createConversation(t, engine)

	rec := doJSON(t, engine, http.MethodPost, "/v1/conversations/"+id+"/messages", `{"role":"system","content":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid role status = %d, want 400", rec.Code)
	}
}

func TestMessagesOrderedByCreation(t *testing.T) {
	engine, _ := newConversationRouter("user-1")
	id := createConversation(t, engine)

	for _, body := range []string{
		`{"role":"user","content":"first"}`,
		`{"role":"assistant","content":"second"}`,
		`{"role":"user","content":"third"}`,
	} {
		rec := doJSON(t, engine, http.MethodPost, "/v1/conversations/"+id+"/messages", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create message status = %d", rec.Code)
		}
	}

	rec := doJSON(t, engine, http.MethodGet, "/v1/conversations/"+id+"/messages", "")
	var payload struct {
		Data []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &payload)
	if len(payload.Data) != 3 {
		t.Fatalf("message count = %d", len(payload.Data))
	}
	want := []string{"first", "second", "third"}
	for i, msg := range payload.Data {
		if msg.Content != want[i] {
			t.Errorf("message %d = %q, want %q", i, msg.Content, want[i])
		}
	}
}

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ecoeats-server/internal/domain/chat"
	"ecoeats-server/internal/domain/conversation"
)

func TestConversationEndpoints(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/conversations":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "conv_abc", "title": "New Chat"})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/conversations":
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{
				{"id": "conv_b", "title": "Later"},
				{"id": "conv_a", "title": "Earlier"},
			}})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/conversations/conv_abc/messages":
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{
				{"id": "msg_1", "role": "user", "content": "hi"},
				{"id": "msg_2", "role": "assistant", "content": "hello"},
			}})
		case r.Method == http.MethodPatch && r.URL.Path == "/v1/conversations/conv_abc":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete && r.URL.Path == "/v1/conversations/conv_abc":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/conversations/conv_abc/messages":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "msg_3", "role": "user", "content": "stored"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := New(server.URL, WithUserID("user-1"))
	ctx := context.Background()

	conv, err := c.CreateConversation(ctx)
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if conv.PublicID != "conv_abc" || conv.Title != "New Chat" {
		t.Errorf("created = %+v", conv)
	}

	listing, err := c.ListConversations(ctx)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(listing) != 2 || listing[0].PublicID != "conv_b" {
		t.Errorf("listing = %+v", listing)
	}

	messages, err := c.ListMessages(ctx, "conv_abc")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 2 || messages[1].Role != conversation.RoleAssistant {
		t.Errorf("messages = %+v", messages)
	}

	if err := c.RenameConversation(ctx, "conv_abc", "Buffet math"); err != nil {
		t.Fatalf("RenameConversation: %v", err)
	}
	if err := c.DeleteConversation(ctx, "conv_abc"); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}

	msg, err := c.AppendMessage(ctx, "conv_abc", conversation.RoleUser, "stored")
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if msg.PublicID != "msg_3" {
		t.Errorf("appended = %+v", msg)
	}

	want := []string{
		"POST /v1/conversations",
		"GET /v1/conversations",
		"GET /v1/conversations/conv_abc/messages",
		"PATCH /v1/conversations/conv_abc",
		"DELETE /v1/conversations/conv_abc",
		"POST /v1/conversations/conv_abc/messages",
	}
	if len(seen) != len(want) {
		t.Fatalf("requests = %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestSendCarriesStatusInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "Rate limit exceeded. Please try again later."})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Send(context.Background(), []chat.Message{{Role: conversation.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error %q must embed the upstream status for classification", err)
	}
}

func TestSendSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) != 2 {
			t.Errorf("forwarded %d messages, want 2", len(body.Messages))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"response": "Plan for 12 kg."})
	}))
	defer server.Close()

	c := New(server.URL)
	reply, err := c.Send(context.Background(), []chat.Message{
		{Role: conversation.RoleUser, Content: "hi"},
		{Role: conversation.RoleAssistant, Content: "hello"},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "Plan for 12 kg." {
		t.Errorf("reply = %q", reply)
	}
}

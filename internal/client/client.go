// Package client is the HTTP client for the EcoEats server: it backs the
// chat.Manager's Store and Relay interfaces with the /v1 API.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"ecoeats-server/internal/domain/chat"
	"ecoeats-server/internal/domain/conversation"
)

// Client talks to the EcoEats server.
type Client struct {
	httpClient *resty.Client
}

// Option configures the client.
type Option func(*Client)

// WithAuthToken attaches a bearer token to every request.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.httpClient.SetAuthToken(token)
	}
}

// WithUserID sets the X-User-ID header used when the server runs with auth
// disabled.
func WithUserID(userID string) Option {
	return func(c *Client) {
		c.httpClient.SetHeader("X-User-ID", userID)
	}
}

// New creates a client for the given server base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(90 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ chat.Store = (*Client)(nil)
	_ chat.Relay = (*Client)(nil)
)

type conversationPayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type messagePayload struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p conversationPayload) toDomain() *conversation.Conversation {
	return &conversation.Conversation{
		PublicID:  p.ID,
		Title:     p.Title,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (p messagePayload) toDomain() *conversation.Message {
	return &conversation.Message{
		PublicID:       p.ID,
		ConversationID: p.ConversationID,
		Role:           conversation.Role(p.Role),
		Content:        p.Content,
		CreatedAt:      p.CreatedAt,
	}
}

// CreateConversation creates a fresh conversation with the default title.
func (c *Client) CreateConversation(ctx context.Context) (*conversation.Conversation, error) {
	var payload conversationPayload
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&payload).
		Post("/v1/conversations")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create conversation: status %d", resp.StatusCode())
	}
	return payload.toDomain(), nil
}

// ListConversations fetches the user's conversations, most recent first.
func (c *Client) ListConversations(ctx context.Context) ([]*conversation.Conversation, error) {
	var payload struct {
		Data []conversationPayload `json:"data"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&payload).
		Get("/v1/conversations")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list conversations: status %d", resp.StatusCode())
	}

	conversations := make([]*conversation.Conversation, len(payload.Data))
	for i, p := range payload.Data {
		conversations[i] = p.toDomain()
	}
	return conversations, nil
}

// ListMessages fetches a conversation's messages in creation order.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]*conversation.Message, error) {
	var payload struct {
		Data []messagePayload `json:"data"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&payload).
		Get("/v1/conversations/" + conversationID + "/messages")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list messages: status %d", resp.StatusCode())
	}

	messages := make([]*conversation.Message, len(payload.Data))
	for i, p := range payload.Data {
		messages[i] = p.toDomain()
	}
	return messages, nil
}

// RenameConversation sets the display title.
func (c *Client) RenameConversation(ctx context.Context, conversationID, title string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"title": title}).
		Patch("/v1/conversations/" + conversationID)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("rename conversation: status %d", resp.StatusCode())
	}
	return nil
}

// DeleteConversation removes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Delete("/v1/conversations/" + conversationID)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("delete conversation: status %d", resp.StatusCode())
	}
	return nil
}

// AppendMessage records one message in a conversation.
func (c *Client) AppendMessage(ctx context.Context, conversationID string, role conversation.Role, content string) (*conversation.Message, error) {
	var payload messagePayload
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"role": string(role), "content": content}).
		SetResult(&payload).
		Post("/v1/conversations/" + conversationID + "/messages")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("append message: status %d", resp.StatusCode())
	}
	return payload.toDomain(), nil
}

// Send relays the transcript and returns the assistant's reply. Failures
// carry the HTTP status in their text so the session layer can classify
// rate-limit and billing conditions.
func (c *Client) Send(ctx context.Context, messages []chat.Message) (string, error) {
	type wireMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	body := struct {
		Messages []wireMessage `json:"messages"`
	}{Messages: make([]wireMessage, len(messages))}
	for i, m := range messages {
		body.Messages[i] = wireMessage{Role: string(m.Role), Content: m.Content}
	}

	var payload struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&payload).
		SetError(&payload).
		Post("/v1/chat")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("chat relay: status %d: %s", resp.StatusCode(), payload.Error)
	}
	return payload.Response, nil
}

package requests

// RenameConversationRequest updates a conversation's display title.
type RenameConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

// CreateMessageRequest appends one message to a conversation.
type CreateMessageRequest struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

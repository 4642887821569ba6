package requests

// ChatMessage is one conversation turn relayed to the AI gateway.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the relay request body. Callers send the full visible
// transcript; the server never reads stored history for the relay.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

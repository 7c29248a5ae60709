// Package llm provides shared data models for LLM providers.
package llm

import "encoding/json"

// ChatMessage represents a chat message with role and content.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserMessage creates a user message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    "user",
		Content: content,
	}
}

// Request is a single chat call. An empty Model means the provider default.
type Request struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
}

// TotalTokens returns prompt plus completion tokens.
func (u TokenUsage) TotalTokens() int {
	return u.PromptTokens + u.CompletionTokens
}

// NormalizedResponse is a provider reply reduced to a uniform shape.
// Content is "" when no recognized field carried text. Usage is nil when
// the body had no usage object.
type NormalizedResponse struct {
	Content string
	Usage   *TokenUsage
	Raw     json.RawMessage
}

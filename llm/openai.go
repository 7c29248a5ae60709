// OpenAI wire support using the go-openai library.
//
// Information Hiding:
// - Chat-completions and responses request bodies
// - Structured error body parsing
// - Model listing and key pings against OpenAI-compatible hosts

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// buildChatCompletionsBody encodes req as an OpenAI chat-completions body.
func buildChatCompletionsBody(req Request) ([]byte, error) {
	return json.Marshal(openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    convertToOpenAIMessages(req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
}

// responsesRequest is the subset of the OpenAI responses body we send.
type responsesRequest struct {
	Model           string        `json:"model"`
	Input           []ChatMessage `json:"input"`
	MaxOutputTokens int           `json:"max_output_tokens,omitempty"`
	Temperature     float64       `json:"temperature"`
}

// buildResponsesBody encodes req as an OpenAI responses body.
func buildResponsesBody(req Request) ([]byte, error) {
	return json.Marshal(responsesRequest{
		Model:           req.Model,
		Input:           req.Messages,
		MaxOutputTokens: req.MaxTokens,
		Temperature:     req.Temperature,
	})
}

// convertToOpenAIMessages converts our ChatMessage to openai.ChatCompletionMessage
func convertToOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		result[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	return result
}

// parseErrorMessage pulls error.message out of a provider error body.
// OpenAI, Anthropic and Gemini all nest it the same way. Returns "" when
// the body has no such field.
func parseErrorMessage(body []byte) string {
	var resp openai.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == nil {
		return ""
	}
	return strings.TrimSpace(resp.Error.Message)
}

// newOpenAIClient returns a go-openai client pointed at an OpenAI-compatible host.
func newOpenAIClient(kind ProviderKind, key, baseURL string) *openai.Client {
	config := openai.DefaultConfig(key)
	if baseURL == "" {
		baseURL = DefaultBaseURL(kind)
	}
	config.BaseURL = baseURL
	return openai.NewClientWithConfig(config)
}

// fromOpenAIError maps a go-openai failure onto an APIError.
func fromOpenAIError(kind ProviderKind, err error) *APIError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		e := newStatusError(kind, apiErr.HTTPStatusCode, apiErr.Message, nil)
		e.Cause = err
		return e
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		e := newStatusError(kind, reqErr.HTTPStatusCode, parseErrorMessage(reqErr.Body), reqErr.Body)
		e.Cause = err
		return e
	}
	return newTransportError(kind, err)
}

// listOpenAIModels lists model ids from GET {base}/models.
func listOpenAIModels(ctx context.Context, kind ProviderKind, key, baseURL string) ([]string, error) {
	models, err := newOpenAIClient(kind, key, baseURL).ListModels(ctx)
	if err != nil {
		return nil, fromOpenAIError(kind, err)
	}
	ids := make([]string, 0, len(models.Models))
	for _, m := range models.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// pingOpenAI sends a minimal chat completion to check a key.
func pingOpenAI(ctx context.Context, kind ProviderKind, key, model, baseURL string) error {
	_, err := newOpenAIClient(kind, key, baseURL).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		Messages:  []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "Hi"}},
		MaxTokens: pingMaxTokens,
	})
	if err != nil {
		return fromOpenAIError(kind, err)
	}
	return nil
}

// Anthropic wire support using the official anthropic-sdk-go.
//
// Information Hiding:
// - Messages request body via MessageNewParams
// - Key pings through the SDK client

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// buildMessagesBody encodes req as an Anthropic messages body. System
// messages move to the top-level system field.
func buildMessagesBody(req Request) ([]byte, error) {
	anthropicMessages, systemPrompt := convertToAnthropicMessages(req.Messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Messages:    anthropicMessages,
		Temperature: anthropic.Float(req.Temperature),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}
	return json.Marshal(params)
}

// convertToAnthropicMessages splits out system content and converts the rest.
func convertToAnthropicMessages(messages []ChatMessage) ([]anthropic.MessageParam, string) {
	var system []string
	result := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = append(system, msg.Content)
		case "assistant":
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return result, strings.Join(system, "\n\n")
}

// pingAnthropic sends a minimal message to check a key.
func pingAnthropic(ctx context.Context, key, model, baseURL string) error {
	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		// The SDK adds the version prefix itself.
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(baseURL, "/v1")+"/"))
	}
	client := anthropic.NewClient(opts...)

	_, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: pingMaxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("Hi"))},
	})
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		e := newStatusError(ProviderClaude, apiErr.StatusCode, parseErrorMessage([]byte(apiErr.RawJSON())), []byte(apiErr.RawJSON()))
		e.Cause = err
		return e
	}
	return newTransportError(ProviderClaude, err)
}

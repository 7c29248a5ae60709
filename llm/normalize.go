// Response normalization - reduces heterogeneous provider bodies to {content, usage}.
//
// Information Hiding:
// - The set of known response dialects and their priority
// - JSON path lookups (gjson)

package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// contentPaths are tried in order; the first non-blank string wins.
// Adding a dialect is one entry.
var contentPaths = []string{
	`choices.0.message.content`,
	`choices.0.message.reasoning_content`,
	`choices.0.message.content.#(type=="text").text`,
	`choices.0.content.#(type=="text").text`,
	`choices.0.content.0.text`,
	`content.#(type=="text").text`,
	`content.0.text`,
	`choices.0.delta.content`,
	`output.text`,
	`text`,
	`completion`,
	`message.content`,
	`output.#(type=="message").content.#(type=="output_text").text`,
	`candidates.0.content.parts.0.text`,
}

// Usage counters, first present wins.
var (
	usageObjectPaths     = []string{`usage`, `usageMetadata`}
	promptTokenPaths     = []string{`usage.prompt_tokens`, `usage.input_tokens`, `usageMetadata.promptTokenCount`}
	completionTokenPaths = []string{`usage.completion_tokens`, `usage.output_tokens`, `usageMetadata.candidatesTokenCount`}
)

// ParseResponse normalizes a successful response body.
func ParseResponse(body []byte) (NormalizedResponse, error) {
	if !gjson.ValidBytes(body) {
		return NormalizedResponse{}, fmt.Errorf("invalid JSON in response body: %s", truncate(string(body), maxErrorBody))
	}
	return NormalizedResponse{
		Content: ExtractContent(body),
		Usage:   ExtractUsage(body),
		Raw:     json.RawMessage(body),
	}, nil
}

// ExtractContent returns the reply text, or "" when no known field has any.
func ExtractContent(body []byte) string {
	for _, path := range contentPaths {
		r := gjson.GetBytes(body, path)
		if r.Type == gjson.String && strings.TrimSpace(r.Str) != "" {
			return r.Str
		}
	}
	return ""
}

// ExtractUsage returns token counts, or nil when the body carries no usage
// object. Zero counts are kept.
func ExtractUsage(body []byte) *TokenUsage {
	if !firstResult(body, usageObjectPaths).IsObject() {
		return nil
	}
	return &TokenUsage{
		PromptTokens:     int(firstResult(body, promptTokenPaths).Int()),
		CompletionTokens: int(firstResult(body, completionTokenPaths).Int()),
	}
}

func firstResult(body []byte, paths []string) gjson.Result {
	for _, path := range paths {
		if r := gjson.GetBytes(body, path); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

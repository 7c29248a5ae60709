// Google Gemini Provider implementation using official google.golang.org/genai SDK.
//
// Information Hiding:
// - API authentication and client creation
// - Request/response format for Gemini API
// - generateContent bodies for the Zen gateway's Gemini route

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider implements the Provider interface for Google Gemini.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	initErr error // Stores client initialization error for deferred reporting
}

// NewGeminiProvider creates a new Gemini provider. An empty baseURL uses
// the SDK default host. If client initialization fails, the error is
// stored and returned on first use.
func NewGeminiProvider(apiKey, model, baseURL string) *GeminiProvider {
	config := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		config.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(context.Background(), config)
	if err != nil {
		return &GeminiProvider{
			model:   model,
			initErr: fmt.Errorf("failed to initialize Gemini client: %w", err),
		}
	}
	return &GeminiProvider{client: client, model: model}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return ProviderGemini.String()
}

// Model returns the current model.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Chat sends a generateContent request. The SDK response is re-encoded and
// passed through the shared normalizer.
func (p *GeminiProvider) Chat(ctx context.Context, req Request) (NormalizedResponse, error) {
	if p.initErr != nil {
		return NormalizedResponse{}, p.initErr
	}

	model := req.Model
	if model == "" {
		model = p.model
	}

	contents, systemInstruction := convertToGeminiMessages(req.Messages)
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if systemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	response, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return NormalizedResponse{}, fromGeminiError(err)
	}

	raw, err := json.Marshal(response)
	if err != nil {
		return NormalizedResponse{}, fmt.Errorf("failed to encode Gemini response: %w", err)
	}
	return ParseResponse(raw)
}

// fromGeminiError maps an SDK failure onto an APIError.
func fromGeminiError(err error) *APIError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		e := newStatusError(ProviderGemini, apiErr.Code, apiErr.Message, nil)
		e.Cause = err
		return e
	}
	return newTransportError(ProviderGemini, err)
}

// convertToGeminiMessages maps roles onto Gemini's user/model pair and
// returns system content separately.
func convertToGeminiMessages(messages []ChatMessage) ([]*genai.Content, string) {
	var system string
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
		case "assistant":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return contents, system
}

// generateContentRequest is the generateContent body sent over plain HTTP.
type generateContentRequest struct {
	Model             string                  `json:"model"`
	Contents          []*genai.Content        `json:"contents"`
	SystemInstruction *genai.Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *genai.GenerationConfig `json:"generationConfig,omitempty"`
}

// buildGenerateContentBody encodes req as a Gemini generateContent body.
func buildGenerateContentBody(req Request) ([]byte, error) {
	contents, systemInstruction := convertToGeminiMessages(req.Messages)
	body := generateContentRequest{
		Model:    req.Model,
		Contents: contents,
		GenerationConfig: &genai.GenerationConfig{
			MaxOutputTokens: int32(req.MaxTokens),
			Temperature:     genai.Ptr(float32(req.Temperature)),
		},
	}
	if systemInstruction != "" {
		body.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}
	return json.Marshal(body)
}

var _ Provider = (*GeminiProvider)(nil)

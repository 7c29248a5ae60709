// HTTP Provider implementation for OpenAI, Anthropic and OpenCode Zen endpoints.
//
// Information Hiding:
// - Endpoint selection through ResolveEndpoint
// - Body serialization per wire format
// - Structured error parsing with a status-table fallback

package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPProvider talks to JSON-over-HTTP chat endpoints directly so that one
// normalizer covers every dialect the Zen gateway can return.
type HTTPProvider struct {
	kind    ProviderKind
	key     string
	model   string
	baseURL string
	client  *http.Client
}

func newHTTPProvider(kind ProviderKind, key, model, baseURL string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{
		kind:    kind,
		key:     key,
		model:   model,
		baseURL: baseURL,
		client:  client,
	}
}

// Name returns the provider name.
func (p *HTTPProvider) Name() string {
	return p.kind.String()
}

// Model returns the current model.
func (p *HTTPProvider) Model() string {
	return p.model
}

// Endpoint returns the resolved target for model.
func (p *HTTPProvider) Endpoint(model string) Endpoint {
	return ResolveEndpoint(p.kind, model, p.baseURL)
}

// Chat sends a chat request to the endpoint the provider/model pair routes to.
func (p *HTTPProvider) Chat(ctx context.Context, req Request) (NormalizedResponse, error) {
	if req.Model == "" {
		req.Model = p.model
	}
	endpoint := p.Endpoint(req.Model)

	body, err := buildRequestBody(endpoint.Wire, req)
	if err != nil {
		return NormalizedResponse{}, fmt.Errorf("failed to encode %s request: %w", endpoint.Wire, err)
	}

	respBody, err := p.post(ctx, endpoint.URL, body)
	if err != nil {
		return NormalizedResponse{}, err
	}
	return ParseResponse(respBody)
}

// post sends body and returns the response body of a 2xx reply.
func (p *HTTPProvider) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	setAuthHeaders(httpReq.Header, p.kind, p.key)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, newTransportError(p.kind, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(p.kind, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(p.kind, resp.StatusCode, parseErrorMessage(respBody), respBody)
	}
	return respBody, nil
}

// buildRequestBody serializes req in the shape the wire format expects.
func buildRequestBody(wire Wire, req Request) ([]byte, error) {
	switch wire {
	case WireMessages:
		return buildMessagesBody(req)
	case WireResponses:
		return buildResponsesBody(req)
	case WireGenerateContent:
		return buildGenerateContentBody(req)
	default:
		return buildChatCompletionsBody(req)
	}
}

var _ Provider = (*HTTPProvider)(nil)

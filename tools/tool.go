// Package tools provides the tool system for the agent.
//
// Information Hiding:
// - Tool execution details hidden behind interface
// - Payload field aliases resolved inside each tool
// - Registry implementation details hidden from consumers
// - Result shapes are plain JSON-serializable structs
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ToolParameter defines a parameter schema for a tool.
type ToolParameter struct {
	Name        string `json:"name"`
	ParamType   string `json:"param_type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// ToolMetadata describes what a tool does and how to use it.
type ToolMetadata struct {
	Name        string          `json:"name"`
	Aliases     []string        `json:"aliases,omitempty"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters"`
}

// String returns a string representation of the tool metadata.
func (m ToolMetadata) String() string {
	return fmt.Sprintf("%s: %s", m.Name, m.Description)
}

// Tool is the interface that all tools must implement.
//
// Execute returns a JSON-serializable result. A returned error means the
// tool could not run at all (bad payload, missing file); outcomes such as a
// non-zero exit status are reported in the result instead.
type Tool interface {
	// Metadata returns tool metadata (name, aliases, description, parameters).
	Metadata() ToolMetadata

	// Execute runs the tool with the resolved plan payload.
	Execute(ctx context.Context, payload json.RawMessage) (any, error)

	// Validate validates the payload before execution.
	Validate(payload json.RawMessage) error
}

// BaseTool provides a default implementation for Validate.
type BaseTool struct{}

// Validate provides a default no-op validation.
func (BaseTool) Validate(payload json.RawMessage) error {
	return nil
}

// CommandResult is the outcome of running a process.
type CommandResult struct {
	Output   string `json:"output"`
	Error    string `json:"error"`
	ExitCode int    `json:"exitCode"`
}

// FileResult is the outcome of a file mutation.
type FileResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReadResult carries file content.
type ReadResult struct {
	Content string `json:"content"`
}

// GlobResult lists matched paths.
type GlobResult struct {
	Files []string `json:"files"`
}

// SearchResult lists matched file names.
type SearchResult struct {
	Matches []string `json:"matches"`
}

// payloadFields gives alias-aware access to a payload object.
type payloadFields map[string]json.RawMessage

// decodePayload reads a payload object. null decodes to an empty object.
func decodePayload(payload json.RawMessage) (payloadFields, error) {
	fields := payloadFields{}
	if len(strings.TrimSpace(string(payload))) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("invalid arguments: payload must be an object: %w", err)
	}
	if fields == nil {
		fields = payloadFields{}
	}
	return fields, nil
}

// lookup returns the first key among keys holding a string. Null and
// non-string values count as absent.
func (f payloadFields) lookup(keys ...string) (string, bool) {
	for _, key := range keys {
		raw, ok := f[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && string(raw) != "null" {
			return s, true
		}
	}
	return "", false
}

// nonEmpty returns the first key among keys holding a non-empty string.
func (f payloadFields) nonEmpty(keys ...string) string {
	for _, key := range keys {
		if s, ok := f.lookup(key); ok && s != "" {
			return s
		}
	}
	return ""
}

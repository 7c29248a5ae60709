// Package tools provides tool management and registration.
//
// Information Hiding:
// - Tool storage, alias table and lookup implementation hidden
// - Validation before execution internalized in Dispatch
// - Registration and discovery mechanisms abstracted

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownTool is returned by Dispatch for names that match no tool or alias.
var ErrUnknownTool = errors.New("unknown tool")

// Registry manages available tools with dynamic registration.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	aliases map[string]string
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		aliases: make(map[string]string),
	}
}

// Register adds a new tool and its aliases to the registry.
// Returns error if the name or an alias is already taken.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := tool.Metadata()
	for _, name := range append([]string{meta.Name}, meta.Aliases...) {
		if r.taken(name) {
			return fmt.Errorf("tool '%s' already registered", name)
		}
	}

	r.tools[meta.Name] = tool
	for _, alias := range meta.Aliases {
		r.aliases[alias] = meta.Name
	}
	return nil
}

func (r *Registry) taken(name string) bool {
	_, isTool := r.tools[name]
	_, isAlias := r.aliases[name]
	return isTool || isAlias
}

// Get returns a tool by name or alias.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	tool, exists := r.tools[name]
	return tool, exists
}

// Has checks if a tool or alias exists in the registry.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns metadata for all registered tools, sorted by name.
func (r *Registry) List() []ToolMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata := make([]ToolMetadata, 0, len(r.tools))
	for _, tool := range r.tools {
		metadata = append(metadata, tool.Metadata())
	}
	sort.Slice(metadata, func(i, j int) bool { return metadata[i].Name < metadata[j].Name })
	return metadata
}

// Description returns a formatted description of all tools for LLM prompts.
func (r *Registry) Description() string {
	var descriptions []string
	for _, meta := range r.List() {
		var params []string
		for _, p := range meta.Parameters {
			required := "optional"
			if p.Required {
				required = "required"
			}
			params = append(params, fmt.Sprintf("  - %s (%s): %s [%s]",
				p.Name, p.ParamType, p.Description, required))
		}

		name := meta.Name
		if len(meta.Aliases) > 0 {
			name = fmt.Sprintf("%s (aliases: %s)", meta.Name, strings.Join(meta.Aliases, ", "))
		}
		descriptions = append(descriptions, fmt.Sprintf(
			"Tool: %s\nDescription: %s\nParameters:\n%s",
			name, meta.Description, strings.Join(params, "\n")))
	}

	return strings.Join(descriptions, "\n\n")
}

// Dispatch validates payload and runs the named tool once. Handlers only
// ever see the payload. Unknown names wrap ErrUnknownTool.
func (r *Registry) Dispatch(ctx context.Context, name string, payload json.RawMessage) (any, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	if err := tool.Validate(payload); err != nil {
		return nil, fmt.Errorf("%s: validation failed: %w", tool.Metadata().Name, err)
	}
	return tool.Execute(ctx, payload)
}

// Default file size limit for tools.
const DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB

// WithDefaults creates a registry with the built-in tools.
// Returns error if any tool registration fails.
func WithDefaults() (*Registry, error) {
	registry := NewRegistry()

	tools := []Tool{
		NewShellTool(),
		NewExecTool(),
		NewGenerateTool(),
		NewWriteFileTool(),
		NewEditFileTool(),
		NewReadFileTool(DefaultMaxFileSize),
		NewGlobTool(0),
		NewSearchTool(),
	}

	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register default tools: %w", err)
		}
	}

	return registry, nil
}

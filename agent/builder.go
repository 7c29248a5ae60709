// Agent builder for fluent configuration.
//
// Information Hiding:
// - Builder state management hidden
// - Default value application hidden

package agent

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/richinex/craft/llm"
	"github.com/richinex/craft/storage"
	"github.com/richinex/craft/tools"
)

// Builder provides fluent configuration for creating agents.
type Builder struct {
	config     Config
	newClient  ClientFactory
	registry   *tools.Registry
	pricing    *llm.PricingTable
	out        io.Writer
	logger     *slog.Logger
	transcript storage.Transcript
}

// NewBuilder creates a builder with the default configuration.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// Config sets the loop limits.
func (b *Builder) Config(config Config) *Builder {
	b.config = config
	return b
}

// ClientFactory sets how chat clients are created.
func (b *Builder) ClientFactory(factory ClientFactory) *Builder {
	b.newClient = factory
	return b
}

// Registry sets the tools available to the agent.
func (b *Builder) Registry(registry *tools.Registry) *Builder {
	b.registry = registry
	return b
}

// Pricing sets the table used for cost lines.
func (b *Builder) Pricing(pricing *llm.PricingTable) *Builder {
	b.pricing = pricing
	return b
}

// Output sets where progress is printed.
func (b *Builder) Output(w io.Writer) *Builder {
	b.out = w
	return b
}

// Logger sets the diagnostic logger.
func (b *Builder) Logger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Transcript enables run recording.
func (b *Builder) Transcript(t storage.Transcript) *Builder {
	b.transcript = t
	return b
}

// Build creates the agent, filling unset collaborators with defaults.
func (b *Builder) Build() (*Agent, error) {
	registry := b.registry
	if registry == nil {
		var err error
		registry, err = tools.WithDefaults()
		if err != nil {
			return nil, fmt.Errorf("build agent: %w", err)
		}
	}

	a := &Agent{
		config:     b.config.withDefaults(),
		newClient:  b.newClient,
		registry:   registry,
		pricing:    b.pricing,
		out:        b.out,
		logger:     b.logger,
		transcript: b.transcript,
	}
	if a.newClient == nil {
		a.newClient = DefaultClientFactory
	}
	if a.pricing == nil {
		a.pricing = llm.DefaultPricing()
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a, nil
}

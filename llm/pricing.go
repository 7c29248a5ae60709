package llm

import (
	"fmt"
	"os"

	"github.com/armon/go-radix"
	"gopkg.in/yaml.v3"
)

// PricingEntry is the per-million-token price of a model in USD.
// Both rates zero means the model is free.
type PricingEntry struct {
	InputPerMillion  float64 `yaml:"input_per_million"`
	OutputPerMillion float64 `yaml:"output_per_million"`
}

// Cost is the estimated price of one call.
type Cost struct {
	Input  float64
	Output float64
}

// Total returns input plus output cost.
func (c Cost) Total() float64 {
	return c.Input + c.Output
}

var defaultPricing = map[string]PricingEntry{
	ModelZenBigPickle:   {0, 0},
	ModelZenGrokCode:    {0, 0},
	ModelZenMinimaxFree: {0, 0},
	ModelZenGLMFree:     {0, 0},
	ModelOpenAIGPT5Nano: {0, 0},
	ModelZenQwen3Coder:  {0.45, 1.50},
	ModelClaudeHaiku45:  {1, 5},
	ModelClaudeSonnet45: {3, 15},
	ModelClaudeOpus45:   {5, 25},
	ModelClaudeOpus41:   {15, 75},
	ModelClaude35Haiku:  {0.80, 4},
	ModelOpenAIGPT4o:    {2.50, 10},
}

// PricingTable maps model ids to prices. Lookup is by exact id; the radix
// tree keeps ids in order for listing.
type PricingTable struct {
	tree *radix.Tree
}

// DefaultPricing returns a table with the built-in prices.
func DefaultPricing() *PricingTable {
	t := &PricingTable{tree: radix.New()}
	for model, entry := range defaultPricing {
		t.tree.Insert(model, entry)
	}
	return t
}

// Lookup returns the price of model. ok is false when the price is unknown,
// which is not the same as free.
func (t *PricingTable) Lookup(model string) (PricingEntry, bool) {
	v, ok := t.tree.Get(model)
	if !ok {
		return PricingEntry{}, false
	}
	return v.(PricingEntry), true
}

// IsFree reports whether model has known pricing with both rates zero.
func (t *PricingTable) IsFree(model string) bool {
	entry, ok := t.Lookup(model)
	return ok && entry.InputPerMillion == 0 && entry.OutputPerMillion == 0
}

// Cost estimates the price of a call. ok is false when pricing is unknown.
func (t *PricingTable) Cost(model string, usage TokenUsage) (Cost, bool) {
	entry, ok := t.Lookup(model)
	if !ok {
		return Cost{}, false
	}
	return Cost{
		Input:  float64(usage.PromptTokens) / 1e6 * entry.InputPerMillion,
		Output: float64(usage.CompletionTokens) / 1e6 * entry.OutputPerMillion,
	}, true
}

// Models returns the priced model ids, free first then alphabetical.
func (t *PricingTable) Models() []string {
	models := make([]string, 0, t.tree.Len())
	t.tree.Walk(func(model string, _ interface{}) bool {
		models = append(models, model)
		return false
	})
	return SortModels(models, t)
}

// Set adds or replaces the price of model.
func (t *PricingTable) Set(model string, entry PricingEntry) {
	t.tree.Insert(model, entry)
}

// pricingFile is the YAML layout of a pricing override file:
//
//	models:
//	  qwen3-coder:
//	    input_per_million: 0.45
//	    output_per_million: 1.50
type pricingFile struct {
	Models map[string]PricingEntry `yaml:"models"`
}

// LoadOverrides merges prices from a YAML file into the table.
func (t *PricingTable) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pricing file: %w", err)
	}
	return t.MergeYAML(data)
}

// MergeYAML merges prices from YAML data into the table.
func (t *PricingTable) MergeYAML(data []byte) error {
	var f pricingFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse pricing file: %w", err)
	}
	for model, entry := range f.Models {
		if entry.InputPerMillion < 0 || entry.OutputPerMillion < 0 {
			return fmt.Errorf("pricing for %s: rates must not be negative", model)
		}
		t.Set(model, entry)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/richinex/craft/config"
	"github.com/richinex/craft/llm"
)

// ModelLister returns the models a Zen key may use, in display order.
type ModelLister func(ctx context.Context, key string) []string

// zenModels lists the live free Zen models.
func zenModels(pricing *llm.PricingTable) ModelLister {
	return func(ctx context.Context, key string) []string {
		return llm.ListZenModels(ctx, key, "", pricing)
	}
}

// PickProvider chooses the provider for a run. A single credential is used
// directly, with a model prompt for Zen. With several, defaultProvider
// (any name llm.ParseProviderKind accepts) selects one by kind and otherwise
// the first detected wins.
func PickProvider(ctx context.Context, creds []config.Credential, defaultProvider string, reader *LineReader, out io.Writer, listModels ModelLister) (llm.ProviderChoice, error) {
	if len(creds) == 0 {
		return llm.ProviderChoice{}, config.ErrNoCredentials
	}

	fmt.Fprintln(out, "Detected LLM keys:")
	for i, c := range creds {
		fmt.Fprintf(out, "  %d. %s\n", i+1, c.Label)
	}

	if len(creds) == 1 {
		choice := creds[0].Choice()
		if choice.Kind == llm.ProviderZen && listModels != nil {
			choice.Model = pickZenModel(ctx, choice.Key, reader, out, listModels)
		}
		fmt.Fprintf(out, "Using %s\n", choice.Label)
		return choice, nil
	}

	if kind, err := llm.ParseProviderKind(defaultProvider); err == nil {
		for _, c := range creds {
			if c.Kind == kind {
				fmt.Fprintf(out, "Using %s (from DEFAULT_PROVIDER)\n", c.Label)
				return c.Choice(), nil
			}
		}
	}

	fmt.Fprintf(out, "Using %s\n", creds[0].Label)
	return creds[0].Choice(), nil
}

// pickZenModel shows the free models and reads a 1-based selection. Empty or
// out-of-range input keeps the first model.
func pickZenModel(ctx context.Context, key string, reader *LineReader, out io.Writer, listModels ModelLister) string {
	models := listModels(ctx, key)
	if len(models) == 0 {
		return ""
	}

	fmt.Fprintln(out, "\nAvailable Zen models (free):")
	for i, m := range models {
		fmt.Fprintf(out, "  %d. %s\n", i+1, m)
	}
	if len(models) == 1 || reader == nil {
		return models[0]
	}

	fmt.Fprintf(out, "\nSelect model (1-%d): ", len(models))
	n, err := strconv.Atoi(reader.ReadLine(""))
	if err != nil || n < 1 || n > len(models) {
		return models[0]
	}
	return models[n-1]
}

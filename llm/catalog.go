package llm

import (
	"context"
	"log/slog"
	"slices"
	"sort"
)

// FreeZenModels are the Zen models offered at no cost.
var FreeZenModels = []string{
	ModelZenGrokCode,
	ModelZenBigPickle,
	ModelZenMinimaxFree,
	ModelZenGLMFree,
	ModelOpenAIGPT5Nano,
}

// SortModels orders models free first, then alphabetically within each group.
func SortModels(models []string, pricing *PricingTable) []string {
	sorted := slices.Clone(models)
	sort.SliceStable(sorted, func(i, j int) bool {
		fi, fj := pricing.IsFree(sorted[i]), pricing.IsFree(sorted[j])
		if fi != fj {
			return fi
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// ListZenModels returns the free models the Zen gateway currently serves,
// sorted for display. baseURL may be empty for the production host. If the
// listing call fails the static free list is returned instead.
func ListZenModels(ctx context.Context, key, baseURL string, pricing *PricingTable) []string {
	ids, err := listOpenAIModels(ctx, ProviderZen, key, baseURL)
	if err != nil {
		slog.Warn("zen model listing failed, using built-in list", "error", err)
		return SortModels(FreeZenModels, pricing)
	}

	var free []string
	for _, id := range ids {
		if slices.Contains(FreeZenModels, id) {
			free = append(free, id)
		}
	}
	return SortModels(free, pricing)
}

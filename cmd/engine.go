package main

import (
	"context"

	"github.com/sells-group/roster-cli/internal/registry"
	"github.com/sells-group/roster-cli/internal/resolve"
)

// openRegistry loads the configured roster.
func openRegistry(ctx context.Context) (*registry.Registry, error) {
	return registry.New(ctx, registry.SourceFromConfig(cfg.Registry))
}

// newEngine builds the verification engine over reg with the matching and
// batch settings from config. concurrency overrides the config when > 0.
func newEngine(reg *registry.Registry, concurrency int) *resolve.Engine {
	if concurrency <= 0 {
		concurrency = cfg.Batch.MaxConcurrency
	}
	return resolve.NewEngine(reg, resolve.Options{
		MinSimilarity:      cfg.Matching.MinSimilarity,
		ExactConfidence:    cfg.Matching.ExactConfidence,
		MultipleConfidence: cfg.Matching.MultipleConfidence,
		MaxConcurrency:     concurrency,
	})
}

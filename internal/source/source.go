package source

import (
	"context"
	"fmt"

	"github.com/ceirr/sample-dashboard/internal/config"
)

// New returns the Fetcher selected by cfg.Type.
func New(ctx context.Context, cfg config.SourceConfig) (Fetcher, error) {
	switch cfg.Type {
	case config.SourceSheet, "":
		return NewSheetFetcher(ctx, cfg)
	case config.SourceS3:
		return NewS3Fetcher(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Type)
	}
}

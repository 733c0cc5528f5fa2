// Package pipeline runs one fetch → normalize → assemble pass. Every call
// starts from scratch; nothing is kept between runs.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ceirr/sample-dashboard/internal/datanorm"
	"github.com/ceirr/sample-dashboard/internal/pkg/logger"
	"github.com/ceirr/sample-dashboard/internal/report"
	"github.com/ceirr/sample-dashboard/internal/source"
)

// EmptyNotice is shown instead of a table or download when nothing was
// collected today.
const EmptyNotice = "No sample collections found for today."

// Result is the outcome of one run.
type Result struct {
	RunID       string
	GeneratedAt time.Time
	Rows        []datanorm.ReportRow
	// Artifact is nil when Rows is empty.
	Artifact *report.Artifact
	Stats    datanorm.Stats
}

// Empty reports whether nothing was collected on the run date.
func (r *Result) Empty() bool { return len(r.Rows) == 0 }

// Pipeline wires a source to the normalizer and the workbook assembler.
type Pipeline struct {
	fetcher source.Fetcher
	opts    report.Options
}

// New returns a Pipeline reading from fetcher.
func New(fetcher source.Fetcher, opts report.Options) *Pipeline {
	return &Pipeline{fetcher: fetcher, opts: opts}
}

// Run executes the pipeline for now's calendar date. Fetch failures and
// missing columns are returned as errors; an empty day is not an error.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (*Result, error) {
	runID := uuid.NewString()
	start := time.Now()

	raw, err := p.fetcher.Fetch(ctx)
	if err != nil {
		logger.Error("pipeline: fetch failed", "run_id", runID, "error", err)
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if raw.SkippedLines > 0 {
		logger.Warn("pipeline: skipped malformed lines", "run_id", runID, "lines", raw.SkippedLines)
	}

	rows, stats, err := datanorm.NormalizeWithStats(raw, now)
	if err != nil {
		logger.Error("pipeline: normalize failed", "run_id", runID, "error", err)
		return nil, fmt.Errorf("normalize: %w", err)
	}

	artifact, err := report.AssembleWithOptions(rows, now, p.opts)
	if err != nil {
		logger.Error("pipeline: assemble failed", "run_id", runID, "error", err)
		return nil, fmt.Errorf("assemble: %w", err)
	}

	logger.Info("pipeline: run complete",
		"run_id", runID,
		"date", now.Format("2006-01-02"),
		"rows_read", stats.RowsRead,
		"rows_today", stats.RowsToday,
		"bad_timestamps", stats.BadTimestamps,
		"unmapped_sample_types", stats.UnmappedSampleTypes,
		"unmapped_cohorts", stats.UnmappedCohorts,
		"duration", time.Since(start),
	)

	return &Result{
		RunID:       runID,
		GeneratedAt: now,
		Rows:        rows,
		Artifact:    artifact,
		Stats:       stats,
	}, nil
}

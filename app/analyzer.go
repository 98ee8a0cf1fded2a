// Package app orchestrates the analysis pipeline behind the CLI and the
// HTTP server: sample, profile, detect, aggregate.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"dataquality/domain/core"
	"dataquality/domain/dataset"
	"dataquality/domain/issue"
	"dataquality/domain/profile"
	"dataquality/domain/report"
	"dataquality/ports"
)

// Deps holds the analyzer's dependencies
type Deps struct {
	Profiler ports.ColumnProfiler
	Logger   *slog.Logger
}

// Options configures one analysis run. The zero SampleSize means no
// sampling; a negative one is rejected at the sampler boundary.
type Options struct {
	SampleSize int
	Seed       int64
	Profile    profile.Config
	Thresholds issue.Thresholds
}

// DefaultOptions returns the built-in analysis options
func DefaultOptions() Options {
	return Options{
		Seed:       42,
		Profile:    profile.DefaultConfig(),
		Thresholds: issue.DefaultThresholds(),
	}
}

// Analyzer runs the full analysis pipeline and assembles the result.
// Each call owns its own result graph, so one analyzer is safe to share
// across goroutines analyzing independent datasets.
type Analyzer struct {
	profiler ports.ColumnProfiler
	logger   *slog.Logger
}

// NewAnalyzer creates an analyzer, validating its dependencies.
func NewAnalyzer(deps Deps) (*Analyzer, error) {
	if deps.Profiler == nil {
		return nil, fmt.Errorf("analyzer requires a column profiler")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{profiler: deps.Profiler, logger: logger}, nil
}

// Analyze profiles the dataset and returns the complete result. The run
// either completes fully or fails with a taxonomy error; data-quality
// problems are reported as issues, never as errors. Identical dataset and
// options yield value-equal results.
func (a *Analyzer) Analyze(ctx context.Context, ds dataset.Dataset, name string, opts Options) (*report.AnalysisResult, error) {
	if ds.IsEmpty() {
		return nil, core.ErrEmptyDataset
	}

	totalRows := ds.Rows()
	analyzed := ds
	sample := report.SampleInfo{
		Requested:    opts.SampleSize,
		Seed:         opts.Seed,
		TotalRows:    totalRows,
		RowsAnalyzed: totalRows,
	}
	if opts.SampleSize != 0 {
		sampled, err := dataset.Sample(ds, opts.SampleSize, opts.Seed)
		if err != nil {
			return nil, err
		}
		analyzed = sampled
		sample.Applied = sampled.Rows() < totalRows
		sample.RowsAnalyzed = sampled.Rows()
	}

	a.logger.Debug("profiling dataset", "name", name, "rows", sample.RowsAnalyzed, "columns", analyzed.Cols())
	profiles, err := a.profiler.Profile(ctx, analyzed, opts.Profile)
	if err != nil {
		return nil, fmt.Errorf("profiling failed: %w", err)
	}

	issues := issue.NewDetector(opts.Thresholds).Detect(analyzed, profiles)

	summary, err := report.Aggregate(name, analyzed, profiles, issues)
	if err != nil {
		return nil, err
	}

	rows, cols := analyzed.Shape()
	result := &report.AnalysisResult{
		Name:        name,
		Shape:       report.Shape{Rows: rows, Columns: cols},
		Sample:      sample,
		Profiles:    profiles,
		Issues:      issues,
		Summary:     summary,
		Fingerprint: fingerprint(name, analyzed, opts),
	}

	a.logger.Info("analysis complete", "name", name, "issues", len(issues),
		"critical", summary.Count(issue.SeverityCritical), "missing_pct", summary.MissingData.TotalMissingPercentage)
	return result, nil
}

// fingerprint covers everything that determines the result: dataset shape
// and column names plus the effective run options.
func fingerprint(name string, ds dataset.Dataset, opts Options) core.Fingerprint {
	rows, cols := ds.Shape()
	digest := fmt.Sprintf("%s|%s|sample=%d;seed=%d",
		opts.Profile.Digest(), opts.Thresholds.Digest(), opts.SampleSize, opts.Seed)
	return core.ComputeFingerprint(name, rows, cols, ds.ColumnNames(), digest)
}

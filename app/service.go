package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"dataquality/domain/core"
	"dataquality/domain/report"
	"dataquality/internal/errors"
	"dataquality/ports"
)

// ServiceDeps holds the service's collaborators. Store is optional; the
// rest are required.
type ServiceDeps struct {
	Loader   ports.DatasetLoader
	Analyzer *Analyzer
	Renderer ports.ReportRenderer
	Store    ports.ReportStore
	Logger   *slog.Logger
}

// Service wires the loader, analyzer, renderer, and history store into the
// operations the CLI and HTTP server expose.
type Service struct {
	loader   ports.DatasetLoader
	analyzer *Analyzer
	renderer ports.ReportRenderer
	store    ports.ReportStore
	logger   *slog.Logger
}

// NewService creates the application service, validating dependencies.
func NewService(deps ServiceDeps) (*Service, error) {
	if deps.Loader == nil {
		return nil, fmt.Errorf("service requires a dataset loader")
	}
	if deps.Analyzer == nil {
		return nil, fmt.Errorf("service requires an analyzer")
	}
	if deps.Renderer == nil {
		return nil, fmt.Errorf("service requires a report renderer")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		loader:   deps.Loader,
		analyzer: deps.Analyzer,
		renderer: deps.Renderer,
		store:    deps.Store,
		logger:   logger,
	}, nil
}

// AnalyzeFile loads the file at path and analyzes it. An empty name
// defaults to the file's base name without extension.
func (s *Service) AnalyzeFile(ctx context.Context, path, name string, opts Options) (*report.AnalysisResult, error) {
	ds, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, errors.LoadFailed(path, err)
	}
	if name == "" {
		name = DatasetNameFromPath(path)
	}

	result, err := s.analyzer.Analyze(ctx, ds, name, opts)
	if err != nil {
		return nil, errors.WithCode(errors.CodeAnalysisError, err)
	}
	return result, nil
}

// Render renders a result in the given format.
func (s *Service) Render(result *report.AnalysisResult, format ports.Format) ([]byte, error) {
	doc, err := s.renderer.Render(result, format)
	if err != nil {
		return nil, errors.RenderError(string(format), err)
	}
	return doc, nil
}

// Save persists a result in the history store.
func (s *Service) Save(ctx context.Context, result *report.AnalysisResult) (core.ReportID, error) {
	if s.store == nil {
		return "", errors.InvalidInput("no history store configured")
	}
	id, err := s.store.Save(ctx, result)
	if err != nil {
		return "", errors.StoreError("failed to save report", err)
	}
	s.logger.Info("report saved", "id", id.String(), "name", result.Name)
	return id, nil
}

// History lists persisted runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]ports.StoredReportSummary, error) {
	if s.store == nil {
		return nil, errors.InvalidInput("no history store configured")
	}
	summaries, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, errors.StoreError("failed to list reports", err)
	}
	return summaries, nil
}

// Report retrieves one persisted run by ID.
func (s *Service) Report(ctx context.Context, id core.ReportID) (*ports.StoredReport, error) {
	if s.store == nil {
		return nil, errors.InvalidInput("no history store configured")
	}
	stored, err := s.store.Get(ctx, id)
	if err != nil {
		if core.IsReportNotFound(err) {
			return nil, errors.NotFound(fmt.Sprintf("report %s", id.String()))
		}
		return nil, errors.StoreError("failed to load report", err)
	}
	return stored, nil
}

// DatasetNameFromPath derives a dataset name from a file path.
func DatasetNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReportFileName builds the default report file name for a dataset.
func ReportFileName(name string, format ports.Format) string {
	return fmt.Sprintf("%s_quality_report.%s", strings.ReplaceAll(name, " ", "_"), format.Extension())
}

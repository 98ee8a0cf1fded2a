package ports

import (
	"context"

	"dataquality/domain/core"
	"dataquality/domain/report"
)

// StoredReportSummary is the listing view of a persisted run. Creation time
// belongs to the store row, not the analysis result, which stays
// deterministic.
type StoredReportSummary struct {
	ID                core.ReportID    `json:"id"`
	Name              string           `json:"name"`
	Fingerprint       core.Fingerprint `json:"fingerprint"`
	Rows              int              `json:"rows"`
	Columns           int              `json:"columns"`
	Critical          int              `json:"critical"`
	Warning           int              `json:"warning"`
	Info              int              `json:"info"`
	MissingPercentage float64          `json:"missing_percentage"`
	CreatedAt         core.Timestamp   `json:"created_at"`
}

// StoredReport is the full persisted run, including the result payload.
type StoredReport struct {
	StoredReportSummary
	Result *report.AnalysisResult `json:"result"`
}

// ReportStore persists completed analysis runs for later retrieval and
// re-rendering.
type ReportStore interface {
	Save(ctx context.Context, result *report.AnalysisResult) (core.ReportID, error)
	List(ctx context.Context, limit int) ([]StoredReportSummary, error)
	Get(ctx context.Context, id core.ReportID) (*StoredReport, error)
	Close() error
}

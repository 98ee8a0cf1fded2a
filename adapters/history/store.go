// Package history persists completed analysis runs in SQLite or
// PostgreSQL for later listing, retrieval, and re-rendering.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"dataquality/domain/core"
	"dataquality/domain/issue"
	"dataquality/domain/report"
	"dataquality/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	fingerprint        TEXT NOT NULL,
	row_count          INTEGER NOT NULL,
	column_count       INTEGER NOT NULL,
	critical_count     INTEGER NOT NULL,
	warning_count      INTEGER NOT NULL,
	info_count         INTEGER NOT NULL,
	missing_percentage REAL NOT NULL,
	result             TEXT NOT NULL,
	created_at         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at);
`

// Store implements the ReportStore port over sqlx
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ ports.ReportStore = (*Store)(nil)

// Open connects to the history database and ensures the schema exists.
// Driver is "sqlite" (DSN is a file path) or "postgres" (DSN is a
// connection string).
func Open(driver, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported history driver %q (expected sqlite or postgres)", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	logger.Debug("history store opened", "driver", driver)
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// reportRow maps the reports table
type reportRow struct {
	ID                string  `db:"id"`
	Name              string  `db:"name"`
	Fingerprint       string  `db:"fingerprint"`
	RowCount          int     `db:"row_count"`
	ColumnCount       int     `db:"column_count"`
	CriticalCount     int     `db:"critical_count"`
	WarningCount      int     `db:"warning_count"`
	InfoCount         int     `db:"info_count"`
	MissingPercentage float64 `db:"missing_percentage"`
	Result            string  `db:"result"`

	// RFC3339 text so SQLite and PostgreSQL round-trip it identically.
	CreatedAt string `db:"created_at"`
}

func (r reportRow) summary() ports.StoredReportSummary {
	createdAt, _ := time.Parse(time.RFC3339Nano, r.CreatedAt)
	return ports.StoredReportSummary{
		ID:                core.ReportID(r.ID),
		Name:              r.Name,
		Fingerprint:       core.Fingerprint(r.Fingerprint),
		Rows:              r.RowCount,
		Columns:           r.ColumnCount,
		Critical:          r.CriticalCount,
		Warning:           r.WarningCount,
		Info:              r.InfoCount,
		MissingPercentage: r.MissingPercentage,
		CreatedAt:         core.NewTimestamp(createdAt),
	}
}

// Save persists a completed run and returns its store-assigned ID.
func (s *Store) Save(ctx context.Context, result *report.AnalysisResult) (core.ReportID, error) {
	if result == nil {
		return "", fmt.Errorf("cannot save a nil result")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	id := core.NewReportID()
	query := s.db.Rebind(`INSERT INTO reports (
		id, name, fingerprint, row_count, column_count,
		critical_count, warning_count, info_count, missing_percentage, result, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = s.db.ExecContext(ctx, query,
		id.String(), result.Name, result.Fingerprint.String(),
		result.Shape.Rows, result.Shape.Columns,
		result.Summary.Count(issue.SeverityCritical),
		result.Summary.Count(issue.SeverityWarning),
		result.Summary.Count(issue.SeverityInfo),
		result.Summary.MissingData.TotalMissingPercentage,
		string(payload), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

const summaryColumns = `id, name, fingerprint, row_count, column_count,
	critical_count, warning_count, info_count, missing_percentage, created_at`

// List returns persisted run summaries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]ports.StoredReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []reportRow
	query := s.db.Rebind(fmt.Sprintf(
		`SELECT %s FROM reports ORDER BY created_at DESC, id DESC LIMIT ?`, summaryColumns))
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	summaries := make([]ports.StoredReportSummary, len(rows))
	for i, row := range rows {
		summaries[i] = row.summary()
	}
	return summaries, nil
}

// Get retrieves one persisted run with its full result payload.
func (s *Store) Get(ctx context.Context, id core.ReportID) (*ports.StoredReport, error) {
	var row reportRow
	query := s.db.Rebind(`SELECT * FROM reports WHERE id = ?`)
	if err := s.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrReportNotFound, id.String())
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var result report.AnalysisResult
	if err := json.Unmarshal([]byte(row.Result), &result); err != nil {
		return nil, fmt.Errorf("failed to decode stored result: %w", err)
	}

	return &ports.StoredReport{
		StoredReportSummary: row.summary(),
		Result:              &result,
	}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

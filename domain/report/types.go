package report

import (
	"fmt"

	"dataquality/domain/core"
	"dataquality/domain/issue"
	"dataquality/domain/profile"
)

// Shape is the dataset dimensions
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// ColumnMissing is the per-column slice of the missing-data overview.
// Kept as an ordered list (column order) rather than a map so text reports
// and diffs are stable.
type ColumnMissing struct {
	Column         string  `json:"column"`
	MissingCount   int     `json:"missing_count"`
	MissingPercent float64 `json:"missing_percent"`
}

// MissingOverview is the global missing-data rollup
type MissingOverview struct {
	TotalMissingCells      int             `json:"total_missing_cells"`
	TotalMissingPercentage float64         `json:"total_missing_percentage"`
	PerColumn              []ColumnMissing `json:"per_column"`
}

// Summary is the aggregate view over all issues and profiles for one run.
// Derived and read-only; recomputable idempotently from the same inputs.
type Summary struct {
	DatasetName      string                       `json:"dataset_name"`
	Shape            Shape                        `json:"shape"`
	IssuesBySeverity map[issue.Severity]int       `json:"issues_by_severity"`
	ColumnTypes      map[profile.InferredType]int `json:"column_types"`
	MissingData      MissingOverview              `json:"missing_data_overview"`
}

// Count returns the issue count for one severity.
func (s Summary) Count(severity issue.Severity) int {
	return s.IssuesBySeverity[severity]
}

// TotalIssues returns the total number of issues across severities.
func (s Summary) TotalIssues() int {
	total := 0
	for _, count := range s.IssuesBySeverity {
		total += count
	}
	return total
}

// SampleInfo describes how sampling shaped the analyzed dataset.
type SampleInfo struct {
	Requested    int   `json:"requested"` // 0 when no sampling was requested
	Seed         int64 `json:"seed"`
	Applied      bool  `json:"applied"`
	TotalRows    int   `json:"total_rows"`
	RowsAnalyzed int   `json:"rows_analyzed"`
}

// AnalysisResult is the complete, queryable output of one analysis run.
// Built once by the analyzer, read-only afterwards. It carries no
// timestamps and no random identifiers: re-analyzing the same dataset with
// the same configuration produces a value-equal result.
type AnalysisResult struct {
	Name        string                  `json:"name"`
	Shape       Shape                   `json:"shape"`
	Sample      SampleInfo              `json:"sample"`
	Profiles    []profile.ColumnProfile `json:"profiles"`
	Issues      []issue.Issue           `json:"issues"`
	Summary     Summary                 `json:"summary"`
	Fingerprint core.Fingerprint        `json:"fingerprint"`
}

// IssuesForColumn returns the issues affecting one column, in detection order.
func (r *AnalysisResult) IssuesForColumn(name string) []issue.Issue {
	matched := make([]issue.Issue, 0)
	for _, iss := range r.Issues {
		if iss.Column == name {
			matched = append(matched, iss)
		}
	}
	return matched
}

// DatasetIssues returns the dataset-level issues, in detection order.
func (r *AnalysisResult) DatasetIssues() []issue.Issue {
	matched := make([]issue.Issue, 0)
	for _, iss := range r.Issues {
		if iss.DatasetLevel() {
			matched = append(matched, iss)
		}
	}
	return matched
}

// IssuesWithSeverity returns the issues of one severity, in detection order.
func (r *AnalysisResult) IssuesWithSeverity(severity issue.Severity) []issue.Issue {
	matched := make([]issue.Issue, 0)
	for _, iss := range r.Issues {
		if iss.Severity == severity {
			matched = append(matched, iss)
		}
	}
	return matched
}

// ProfileFor returns the profile of the named column.
func (r *AnalysisResult) ProfileFor(name string) (profile.ColumnProfile, error) {
	for _, p := range r.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return profile.ColumnProfile{}, core.NewUnknownColumnError(name)
}

// Digest returns a one-line description of the run for logs and CLI output.
func (r *AnalysisResult) Digest() string {
	return fmt.Sprintf("%s: %d rows x %d columns, %d issues (%d critical, %d warning, %d info), %.1f%% cells missing",
		r.Name, r.Shape.Rows, r.Shape.Columns,
		len(r.Issues),
		r.Summary.Count(issue.SeverityCritical),
		r.Summary.Count(issue.SeverityWarning),
		r.Summary.Count(issue.SeverityInfo),
		r.Summary.MissingData.TotalMissingPercentage)
}

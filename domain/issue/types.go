package issue

import (
	"fmt"
	"sort"
	"strings"
)

// Severity ranks the urgency of an issue
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank orders severities for display, most urgent first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 3
}

// Severities lists all severities in rank order.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityWarning, SeverityInfo}
}

// Kind identifies an issue in the fixed rule taxonomy
type Kind string

const (
	KindHighMissing            Kind = "high_missing"
	KindModerateMissing        Kind = "moderate_missing"
	KindConstantColumn         Kind = "constant_column"
	KindHighCardinality        Kind = "high_cardinality_categorical"
	KindNumericOutliers        Kind = "numeric_outliers"
	KindDuplicateRows          Kind = "duplicate_rows"
	KindMixedTypeColumn        Kind = "mixed_type_column"
	KindInconsistentCategories Kind = "inconsistent_categories"
)

// Issue is a single detected data-quality problem. Issues are independent
// facts: no issue references or mutates another.
type Issue struct {
	Column   string    `json:"column,omitempty"` // empty for dataset-level issues
	Kind     Kind      `json:"kind"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Evidence *Evidence `json:"evidence,omitempty"`
}

// Evidence carries the quantitative backing for an issue.
type Evidence struct {
	Count      int     `json:"count,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
	Threshold  float64 `json:"threshold,omitempty"`
}

// DatasetLevel reports whether the issue applies to the whole dataset
// rather than one column.
func (i Issue) DatasetLevel() bool {
	return i.Column == ""
}

// Scope returns the display name for the issue's target.
func (i Issue) Scope() string {
	if i.DatasetLevel() {
		return "dataset"
	}
	return i.Column
}

// defaultSeverities is the table behind SeverityFor. Severity assignment is
// table-driven so runs can override it without touching rule code.
var defaultSeverities = map[Kind]Severity{
	KindHighMissing:            SeverityCritical,
	KindModerateMissing:        SeverityWarning,
	KindConstantColumn:         SeverityWarning,
	KindHighCardinality:        SeverityInfo,
	KindNumericOutliers:        SeverityWarning,
	KindDuplicateRows:          SeverityWarning,
	KindMixedTypeColumn:        SeverityCritical,
	KindInconsistentCategories: SeverityInfo,
}

// Thresholds defines the detection thresholds and severity overrides
type Thresholds struct {
	MissingWarning  float64 `json:"missing_warning"`  // percent, moderate_missing fires above this
	MissingCritical float64 `json:"missing_critical"` // percent, high_missing fires above this
	HighCardinality float64 `json:"high_cardinality"` // unique ratio for categorical columns

	// Severities overrides the default kind -> severity table per entry.
	Severities map[Kind]Severity `json:"severities,omitempty"`
}

// DefaultThresholds returns sensible defaults
func DefaultThresholds() Thresholds {
	return Thresholds{
		MissingWarning:  5.0,
		MissingCritical: 50.0,
		HighCardinality: 0.50,
	}
}

// SeverityFor resolves the severity of a kind, preferring overrides.
func (t Thresholds) SeverityFor(kind Kind) Severity {
	if s, ok := t.Severities[kind]; ok {
		return s
	}
	return defaultSeverities[kind]
}

// Digest returns a canonical string of the thresholds, used in run
// fingerprints. Overrides are serialized in sorted kind order so the digest
// never depends on map iteration.
func (t Thresholds) Digest() string {
	var b strings.Builder
	fmt.Fprintf(&b, "warn=%g;crit=%g;highcard=%g", t.MissingWarning, t.MissingCritical, t.HighCardinality)
	if len(t.Severities) > 0 {
		kinds := make([]string, 0, len(t.Severities))
		for k := range t.Severities {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(&b, ";%s=%s", k, t.Severities[Kind(k)])
		}
	}
	return b.String()
}

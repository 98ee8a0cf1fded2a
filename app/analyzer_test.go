package app

import (
	"context"
	"reflect"
	"testing"

	"dataquality/adapters/profiler"
	"dataquality/domain/core"
	"dataquality/domain/dataset"
	"dataquality/domain/issue"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(Deps{Profiler: profiler.New(2)})
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	return a
}

func buildDataset(t *testing.T, names []string, values [][]string) dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromColumns(names, values)
	if err != nil {
		t.Fatalf("building dataset: %v", err)
	}
	return ds
}

// TestAnalyzeSeveritySumInvariant tests that severity counts sum to the issue count
func TestAnalyzeSeveritySumInvariant(t *testing.T) {
	a := newAnalyzer(t)
	ds := buildDataset(t, []string{"a", "b", "c"}, [][]string{
		{"1", "2", "3", "4", "1000", "", "", ""},
		{"x", "x", "x", "x", "x", "x", "x", "x"},
		{"red", "Red", "blue", "blue ", "green", "green", "red", "red"},
	})

	result, err := a.Analyze(context.Background(), ds, "invariants", DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	total := 0
	for _, severity := range issue.Severities() {
		total += result.Summary.Count(severity)
	}
	if total != len(result.Issues) {
		t.Errorf("severity counts sum to %d, issue count is %d", total, len(result.Issues))
	}

	for _, iss := range result.Issues {
		if iss.DatasetLevel() {
			continue
		}
		if _, err := result.ProfileFor(iss.Column); err != nil {
			t.Errorf("issue references unknown column %q", iss.Column)
		}
	}
	if len(result.Profiles) != ds.Cols() {
		t.Errorf("profile count = %d, want %d", len(result.Profiles), ds.Cols())
	}
}

// TestAnalyzeDeterminism tests value-equality across reruns
func TestAnalyzeDeterminism(t *testing.T) {
	a := newAnalyzer(t)
	ds := buildDataset(t, []string{"num", "cat"}, [][]string{
		{"5", "9", "", "12", "7", "7", "200"},
		{"a", "b", "a", "A", "b", "c", "c"},
	})

	first, err := a.Analyze(context.Background(), ds, "rerun", DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := a.Analyze(context.Background(), ds, "rerun", DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze rerun: %v", err)
	}

	if first == second {
		t.Fatal("reruns must build new result values")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("reruns with identical input and options must be value-equal")
	}
	if first.Fingerprint != second.Fingerprint {
		t.Error("fingerprints must match across reruns")
	}
}

// TestAnalyzeSampling tests the sampler integration and its error boundary
func TestAnalyzeSampling(t *testing.T) {
	a := newAnalyzer(t)
	values := make([]string, 100)
	for i := range values {
		values[i] = "x"
	}
	ds := buildDataset(t, []string{"v"}, [][]string{values})

	opts := DefaultOptions()
	opts.SampleSize = 10
	result, err := a.Analyze(context.Background(), ds, "sampled", opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Shape.Rows != 10 {
		t.Errorf("rows analyzed = %d, want 10", result.Shape.Rows)
	}
	if !result.Sample.Applied || result.Sample.TotalRows != 100 {
		t.Errorf("sample info = %+v, want applied with 100 total rows", result.Sample)
	}

	opts.SampleSize = 500
	result, err = a.Analyze(context.Background(), ds, "oversized", opts)
	if err != nil {
		t.Fatalf("Analyze with oversized sample: %v", err)
	}
	if result.Sample.Applied || result.Shape.Rows != 100 {
		t.Errorf("oversized sample must be a no-op, got %+v", result.Sample)
	}

	opts.SampleSize = -1
	if _, err := a.Analyze(context.Background(), ds, "bad", opts); !core.IsInvalidSampleSize(err) {
		t.Errorf("expected ErrInvalidSampleSize, got %v", err)
	}
}

// TestAnalyzeEmptyDataset tests the empty-input error boundary
func TestAnalyzeEmptyDataset(t *testing.T) {
	a := newAnalyzer(t)

	empty, err := dataset.New(nil)
	if err != nil {
		t.Fatalf("building empty dataset: %v", err)
	}
	if _, err := a.Analyze(context.Background(), empty, "empty", DefaultOptions()); !core.IsEmptyDataset(err) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}

	// Zero rows with named columns is a valid analysis.
	headless := buildDataset(t, []string{"a", "b"}, [][]string{{}, {}})
	result, err := a.Analyze(context.Background(), headless, "no rows", DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze zero-row dataset: %v", err)
	}
	if result.Summary.MissingData.TotalMissingPercentage != 0 {
		t.Errorf("missing percentage = %g, want 0", result.Summary.MissingData.TotalMissingPercentage)
	}
	if len(result.Profiles) != 2 {
		t.Errorf("profile count = %d, want 2", len(result.Profiles))
	}
}

// TestAnalyzeMissingArithmetic tests the 4x2, one-missing-cell example
func TestAnalyzeMissingArithmetic(t *testing.T) {
	a := newAnalyzer(t)
	ds := buildDataset(t, []string{"a", "b"}, [][]string{
		{"1", "2", "3", "4"},
		{"w", "", "y", "z"},
	})

	result, err := a.Analyze(context.Background(), ds, "missing", DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	md := result.Summary.MissingData
	if md.TotalMissingCells != 1 {
		t.Errorf("total missing cells = %d, want 1", md.TotalMissingCells)
	}
	if md.TotalMissingPercentage != 12.5 {
		t.Errorf("total missing percentage = %g, want 12.5", md.TotalMissingPercentage)
	}
}

// TestAnalyzeDuplicateRows tests the single dataset-level duplicate issue
func TestAnalyzeDuplicateRows(t *testing.T) {
	a := newAnalyzer(t)
	ds := buildDataset(t, []string{"a", "b"}, [][]string{
		{"1", "1", "1", "2"},
		{"x", "x", "x", "y"},
	})

	result, err := a.Analyze(context.Background(), ds, "dupes", DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	dupes := 0
	for _, iss := range result.Issues {
		if iss.Kind == issue.KindDuplicateRows {
			dupes++
			if !iss.DatasetLevel() {
				t.Error("duplicate_rows must be dataset-level")
			}
			if iss.Evidence == nil || iss.Evidence.Count != 2 {
				t.Errorf("duplicate evidence = %+v, want count 2", iss.Evidence)
			}
		}
	}
	if dupes != 1 {
		t.Errorf("duplicate_rows issues = %d, want exactly 1", dupes)
	}
}

// TestAnalyzeConstantColumn tests the constant warning without outliers
func TestAnalyzeConstantColumn(t *testing.T) {
	a := newAnalyzer(t)
	ds := buildDataset(t, []string{"c"}, [][]string{{"5", "5", "5", "5"}})

	result, err := a.Analyze(context.Background(), ds, "constant", DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var constant *issue.Issue
	for i, iss := range result.Issues {
		if iss.Kind == issue.KindNumericOutliers {
			t.Error("constant column must not report outliers")
		}
		if iss.Kind == issue.KindConstantColumn {
			constant = &result.Issues[i]
		}
	}
	if constant == nil {
		t.Fatal("expected a constant_column issue")
	}
	if constant.Severity != issue.SeverityWarning {
		t.Errorf("constant severity = %s, want warning", constant.Severity)
	}
}

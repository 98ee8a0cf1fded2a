package issue

import (
	"reflect"
	"testing"

	"dataquality/domain/dataset"
	"dataquality/domain/profile"
)

func columnOf(t *testing.T, name string, values []string) dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromColumns([]string{name}, [][]string{values})
	if err != nil {
		t.Fatalf("building dataset: %v", err)
	}
	return ds
}

func kinds(issues []Issue) []Kind {
	out := make([]Kind, len(issues))
	for i, iss := range issues {
		out[i] = iss.Kind
	}
	return out
}

// TestMissingTiers tests the exclusive warning/critical missing rules
func TestMissingTiers(t *testing.T) {
	d := NewDetector(DefaultThresholds())

	tests := []struct {
		name       string
		missingPct float64
		want       Kind
	}{
		{"below warning", 5.0, ""},
		{"moderate", 12.5, KindModerateMissing},
		{"at critical boundary", 50.0, KindModerateMissing},
		{"above critical", 50.1, KindHighMissing},
		{"fully missing", 100.0, KindHighMissing},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := profile.ColumnProfile{
				Name:           "v",
				InferredType:   profile.TypeNumeric,
				RowCount:       100,
				MissingCount:   int(test.missingPct),
				MissingPercent: test.missingPct,
				UniqueCount:    30,
			}
			iss := d.checkMissing(p)
			if test.want == "" {
				if iss != nil {
					t.Fatalf("expected no issue, got %+v", iss)
				}
				return
			}
			if iss == nil {
				t.Fatal("expected an issue")
			}
			if iss.Kind != test.want {
				t.Errorf("Kind = %s, want %s", iss.Kind, test.want)
			}
			if iss.Evidence == nil || iss.Evidence.Percentage != test.missingPct {
				t.Errorf("evidence percentage = %+v, want %v", iss.Evidence, test.missingPct)
			}
		})
	}
}

// TestConstantColumn tests the single-value rule and its outlier exclusion
func TestConstantColumn(t *testing.T) {
	d := NewDetector(DefaultThresholds())
	ds := columnOf(t, "v", []string{"5", "5", "5", "5"})
	p := profile.ColumnProfile{
		Name:         "v",
		InferredType: profile.TypeNumeric,
		RowCount:     4,
		UniqueCount:  1,
		UniqueRatio:  0.25,
		TypeCounts:   profile.TypeCounts{NonMissing: 4, Numeric: 4},
		Numeric:      &profile.NumericStats{Min: 5, Max: 5, Mean: 5, Median: 5, OutlierCount: 0},
	}

	issues := d.Detect(ds, []profile.ColumnProfile{p})
	// All rows being equal also makes them duplicates; column issues come
	// first, dataset-level ones last.
	if !reflect.DeepEqual(kinds(issues), []Kind{KindConstantColumn, KindDuplicateRows}) {
		t.Fatalf("kinds = %v, want [constant_column duplicate_rows]", kinds(issues))
	}
	iss := issues[0]
	if iss.Severity != SeverityWarning {
		t.Errorf("Severity = %s, want warning", iss.Severity)
	}
	if iss.Message != `Column contains a single constant value "5"` {
		t.Errorf("unexpected message %q", iss.Message)
	}
	for _, got := range issues {
		if got.Kind == KindNumericOutliers {
			t.Error("constant column must not produce numeric_outliers")
		}
	}
}

// TestNumericOutliers tests that a positive outlier count emits one issue
func TestNumericOutliers(t *testing.T) {
	d := NewDetector(DefaultThresholds())
	ds := columnOf(t, "v", []string{"1", "2", "3", "4", "1000"})
	p := profile.ColumnProfile{
		Name:         "v",
		InferredType: profile.TypeNumeric,
		RowCount:     5,
		UniqueCount:  5,
		UniqueRatio:  1.0,
		TypeCounts:   profile.TypeCounts{NonMissing: 5, Numeric: 5},
		Numeric: &profile.NumericStats{
			Min: 1, Max: 1000, Q1: 1.5, Q3: 3.5,
			LowerBound: -1.5, UpperBound: 6.5, HasOutlierBounds: true,
			OutlierCount: 1,
		},
	}

	issues := d.Detect(ds, []profile.ColumnProfile{p})
	var outlierIssues []Issue
	for _, iss := range issues {
		if iss.Kind == KindNumericOutliers {
			outlierIssues = append(outlierIssues, iss)
		}
	}
	if len(outlierIssues) != 1 {
		t.Fatalf("expected exactly one numeric_outliers issue, got %d", len(outlierIssues))
	}
	if outlierIssues[0].Evidence.Count != 1 {
		t.Errorf("evidence count = %d, want 1", outlierIssues[0].Evidence.Count)
	}
	if outlierIssues[0].Evidence.Percentage != 20.0 {
		t.Errorf("evidence percentage = %v, want 20", outlierIssues[0].Evidence.Percentage)
	}
}

// TestDuplicateRows tests the single dataset-level duplicate issue
func TestDuplicateRows(t *testing.T) {
	d := NewDetector(DefaultThresholds())

	tests := []struct {
		name      string
		values    [][]string
		wantCount int
	}{
		{"one pair", [][]string{{"1", "1", "3"}, {"a", "a", "c"}}, 1},
		{"triple repeat", [][]string{{"1", "1", "1"}, {"a", "a", "a"}}, 2},
		{"no duplicates", [][]string{{"1", "2", "3"}, {"a", "b", "c"}}, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ds, err := dataset.FromColumns([]string{"x", "y"}, test.values)
			if err != nil {
				t.Fatalf("building dataset: %v", err)
			}
			iss := d.detectDuplicateRows(ds)
			if test.wantCount == 0 {
				if iss != nil {
					t.Fatalf("expected no issue, got %+v", iss)
				}
				return
			}
			if iss == nil {
				t.Fatal("expected a duplicate_rows issue")
			}
			if !iss.DatasetLevel() {
				t.Error("duplicate_rows should be dataset-level")
			}
			if iss.Evidence.Count != test.wantCount {
				t.Errorf("evidence count = %d, want %d", iss.Evidence.Count, test.wantCount)
			}
		})
	}
}

// TestHighCardinality tests the categorical uniqueness rule
func TestHighCardinality(t *testing.T) {
	d := NewDetector(DefaultThresholds())
	ds := columnOf(t, "code", []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "a"})
	p := profile.ColumnProfile{
		Name:         "code",
		InferredType: profile.TypeCategorical,
		RowCount:     10,
		UniqueCount:  9,
		UniqueRatio:  0.9,
		TypeCounts:   profile.TypeCounts{NonMissing: 10, Other: 10},
	}

	issues := d.Detect(ds, []profile.ColumnProfile{p})
	found := false
	for _, iss := range issues {
		if iss.Kind == KindHighCardinality {
			found = true
			if iss.Severity != SeverityInfo {
				t.Errorf("Severity = %s, want info", iss.Severity)
			}
		}
	}
	if !found {
		t.Error("expected high_cardinality_categorical issue")
	}

	// Same column below the threshold stays quiet.
	p.UniqueCount, p.UniqueRatio = 3, 0.3
	for _, iss := range d.Detect(ds, []profile.ColumnProfile{p}) {
		if iss.Kind == KindHighCardinality {
			t.Error("unexpected high_cardinality_categorical below threshold")
		}
	}
}

// TestMixedTypeColumn tests the coercion-ambiguity rule
func TestMixedTypeColumn(t *testing.T) {
	d := NewDetector(DefaultThresholds())
	ds := columnOf(t, "v", []string{"1", "2", "3", "4", "oops"})
	p := profile.ColumnProfile{
		Name:         "v",
		InferredType: profile.TypeText,
		RowCount:     5,
		UniqueCount:  5,
		UniqueRatio:  1.0,
		TypeCounts:   profile.TypeCounts{NonMissing: 5, Numeric: 4, Other: 1},
		MixedType:    true,
		Text:         &profile.TextStats{MinLength: 1, AvgLength: 1.6, MaxLength: 4},
	}

	issues := d.Detect(ds, []profile.ColumnProfile{p})
	found := false
	for _, iss := range issues {
		if iss.Kind == KindMixedTypeColumn {
			found = true
			if iss.Severity != SeverityCritical {
				t.Errorf("Severity = %s, want critical", iss.Severity)
			}
			if iss.Evidence.Count != 1 {
				t.Errorf("non-conforming count = %d, want 1", iss.Evidence.Count)
			}
		}
	}
	if !found {
		t.Error("expected mixed_type_column issue")
	}
}

// TestInconsistentCategories tests case/whitespace variant detection
func TestInconsistentCategories(t *testing.T) {
	d := NewDetector(DefaultThresholds())
	ds := columnOf(t, "status", []string{"Active", "active", "inactive", " inactive", "closed"})
	p := profile.ColumnProfile{
		Name:         "status",
		InferredType: profile.TypeCategorical,
		RowCount:     5,
		UniqueCount:  5,
		UniqueRatio:  1.0,
	}

	iss := d.checkInconsistentCategories(ds, p)
	if iss == nil {
		t.Fatal("expected inconsistent_categories issue")
	}
	if iss.Evidence.Count != 2 {
		t.Errorf("variant groups = %d, want 2", iss.Evidence.Count)
	}
	if iss.Severity != SeverityInfo {
		t.Errorf("Severity = %s, want info", iss.Severity)
	}

	// Numeric columns are never checked.
	p.InferredType = profile.TypeNumeric
	if d.checkInconsistentCategories(ds, p) != nil {
		t.Error("numeric column should not produce category issues")
	}
}

// TestSeverityOverrides tests the table-driven severity resolution
func TestSeverityOverrides(t *testing.T) {
	thresholds := DefaultThresholds()
	thresholds.Severities = map[Kind]Severity{KindDuplicateRows: SeverityCritical}
	d := NewDetector(thresholds)

	ds, _ := dataset.FromColumns([]string{"x"}, [][]string{{"1", "1"}})
	iss := d.detectDuplicateRows(ds)
	if iss == nil {
		t.Fatal("expected duplicate_rows issue")
	}
	if iss.Severity != SeverityCritical {
		t.Errorf("Severity = %s, want overridden critical", iss.Severity)
	}
	if thresholds.SeverityFor(KindHighMissing) != SeverityCritical {
		t.Errorf("non-overridden kind should keep its default severity")
	}
}

// TestDetectDeterministicOrder tests stable output across repeated runs
func TestDetectDeterministicOrder(t *testing.T) {
	d := NewDetector(DefaultThresholds())
	ds, err := dataset.FromColumns([]string{"a", "b"}, [][]string{
		{"5", "5", "5", "5"},
		{"x", "X", "y", "y"},
	})
	if err != nil {
		t.Fatalf("building dataset: %v", err)
	}
	profiles := []profile.ColumnProfile{
		{Name: "a", InferredType: profile.TypeNumeric, RowCount: 4, UniqueCount: 1,
			TypeCounts: profile.TypeCounts{NonMissing: 4, Numeric: 4}},
		{Name: "b", InferredType: profile.TypeCategorical, RowCount: 4, UniqueCount: 3, UniqueRatio: 0.75,
			TypeCounts: profile.TypeCounts{NonMissing: 4, Other: 4}},
	}

	first := d.Detect(ds, profiles)
	second := d.Detect(ds, profiles)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated detection should be value-equal")
	}
	if len(first) < 2 {
		t.Fatalf("expected issues from both columns, got %v", kinds(first))
	}
	// Column a's issues come before column b's.
	if first[0].Column != "a" {
		t.Errorf("first issue column = %s, want a", first[0].Column)
	}
}

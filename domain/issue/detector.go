package issue

import (
	"fmt"
	"strings"

	"dataquality/domain/dataset"
	"dataquality/domain/profile"
)

// Detector applies the fixed rule taxonomy over profiles and raw data.
// Every applicable rule runs independently per column; nothing
// short-circuits. Output order is stable: column order, rule order, then
// dataset-level rules, so identical input and thresholds produce identical
// issue lists.
type Detector struct {
	thresholds Thresholds
}

// NewDetector creates a detector with thresholds
func NewDetector(thresholds Thresholds) *Detector {
	return &Detector{thresholds: thresholds}
}

// Detect evaluates all rules and returns the detected issues.
func (d *Detector) Detect(ds dataset.Dataset, profiles []profile.ColumnProfile) []Issue {
	issues := make([]Issue, 0)

	for _, p := range profiles {
		issues = append(issues, d.evaluateColumn(ds, p)...)
	}
	if dup := d.detectDuplicateRows(ds); dup != nil {
		issues = append(issues, *dup)
	}

	return issues
}

// evaluateColumn runs the per-column rules in fixed order.
func (d *Detector) evaluateColumn(ds dataset.Dataset, p profile.ColumnProfile) []Issue {
	issues := make([]Issue, 0)

	if iss := d.checkMissing(p); iss != nil {
		issues = append(issues, *iss)
	}
	if p.IsConstant() {
		issues = append(issues, d.constantColumn(ds, p))
	}
	if p.InferredType == profile.TypeCategorical && p.UniqueRatio > d.thresholds.HighCardinality {
		issues = append(issues, Issue{
			Column:   p.Name,
			Kind:     KindHighCardinality,
			Severity: d.thresholds.SeverityFor(KindHighCardinality),
			Message: fmt.Sprintf("Categorical column has %d unique values (%.1f%% of rows > %.1f%% threshold)",
				p.UniqueCount, p.UniqueRatio*100, d.thresholds.HighCardinality*100),
			Evidence: &Evidence{Count: p.UniqueCount, Percentage: p.UniqueRatio * 100, Threshold: d.thresholds.HighCardinality * 100},
		})
	}
	if p.Numeric != nil && p.Numeric.OutlierCount > 0 {
		pct := 0.0
		if n := p.NonMissingCount(); n > 0 {
			pct = float64(p.Numeric.OutlierCount) / float64(n) * 100
		}
		issues = append(issues, Issue{
			Column:   p.Name,
			Kind:     KindNumericOutliers,
			Severity: d.thresholds.SeverityFor(KindNumericOutliers),
			Message: fmt.Sprintf("Found %d outliers outside IQR bounds [%.2f, %.2f]",
				p.Numeric.OutlierCount, p.Numeric.LowerBound, p.Numeric.UpperBound),
			Evidence: &Evidence{Count: p.Numeric.OutlierCount, Percentage: pct},
		})
	}
	if p.MixedType {
		class, share := p.TypeCounts.DominantClass()
		dominant := p.TypeCounts.Numeric
		if p.TypeCounts.Boolean > dominant {
			dominant = p.TypeCounts.Boolean
		}
		if p.TypeCounts.Datetime > dominant {
			dominant = p.TypeCounts.Datetime
		}
		nonConforming := p.TypeCounts.NonMissing - dominant
		issues = append(issues, Issue{
			Column:   p.Name,
			Kind:     KindMixedTypeColumn,
			Severity: d.thresholds.SeverityFor(KindMixedTypeColumn),
			Message: fmt.Sprintf("Values are mostly %s (%.1f%%) but do not coerce uniformly; treated as text",
				class, share*100),
			Evidence: &Evidence{Count: nonConforming, Percentage: share * 100},
		})
	}
	if iss := d.checkInconsistentCategories(ds, p); iss != nil {
		issues = append(issues, *iss)
	}

	return issues
}

// checkMissing applies the two-tier missing-rate rule. The tiers are
// exclusive: a column above the critical threshold reports only high_missing.
func (d *Detector) checkMissing(p profile.ColumnProfile) *Issue {
	switch {
	case p.MissingPercent > d.thresholds.MissingCritical:
		return &Issue{
			Column:   p.Name,
			Kind:     KindHighMissing,
			Severity: d.thresholds.SeverityFor(KindHighMissing),
			Message: fmt.Sprintf("Missing rate %.1f%% exceeds critical threshold %.1f%%",
				p.MissingPercent, d.thresholds.MissingCritical),
			Evidence: &Evidence{Count: p.MissingCount, Percentage: p.MissingPercent, Threshold: d.thresholds.MissingCritical},
		}
	case p.MissingPercent > d.thresholds.MissingWarning:
		return &Issue{
			Column:   p.Name,
			Kind:     KindModerateMissing,
			Severity: d.thresholds.SeverityFor(KindModerateMissing),
			Message: fmt.Sprintf("Missing rate %.1f%% exceeds warning threshold %.1f%%",
				p.MissingPercent, d.thresholds.MissingWarning),
			Evidence: &Evidence{Count: p.MissingCount, Percentage: p.MissingPercent, Threshold: d.thresholds.MissingWarning},
		}
	}
	return nil
}

func (d *Detector) constantColumn(ds dataset.Dataset, p profile.ColumnProfile) Issue {
	value := ""
	if col, err := ds.Column(p.Name); err == nil {
		if present := col.Present(); len(present) > 0 {
			value = present[0]
		}
	}
	return Issue{
		Column:   p.Name,
		Kind:     KindConstantColumn,
		Severity: d.thresholds.SeverityFor(KindConstantColumn),
		Message:  fmt.Sprintf("Column contains a single constant value %q", value),
		Evidence: &Evidence{Count: p.NonMissingCount()},
	}
}

// checkInconsistentCategories looks for distinct raw values that normalize
// to the same category (case or whitespace variants). Applies to columns
// whose values are read as labels, i.e. categorical and text types.
func (d *Detector) checkInconsistentCategories(ds dataset.Dataset, p profile.ColumnProfile) *Issue {
	if p.InferredType != profile.TypeCategorical && p.InferredType != profile.TypeText {
		return nil
	}
	col, err := ds.Column(p.Name)
	if err != nil {
		return nil
	}

	// First-seen ordering keeps the example message deterministic.
	variants := make(map[string][]string)
	order := make([]string, 0)
	seen := make(map[string]bool)
	for _, raw := range col.Present() {
		if seen[raw] {
			continue
		}
		seen[raw] = true
		key := normalizeCategory(raw)
		if len(variants[key]) == 0 {
			order = append(order, key)
		}
		variants[key] = append(variants[key], raw)
	}

	groups := 0
	example := ""
	for _, key := range order {
		if len(variants[key]) > 1 {
			groups++
			if example == "" {
				example = fmt.Sprintf("%q vs %q", variants[key][0], variants[key][1])
			}
		}
	}
	if groups == 0 {
		return nil
	}

	return &Issue{
		Column:   p.Name,
		Kind:     KindInconsistentCategories,
		Severity: d.thresholds.SeverityFor(KindInconsistentCategories),
		Message:  fmt.Sprintf("Found %d categories with case or whitespace variants (e.g. %s)", groups, example),
		Evidence: &Evidence{Count: groups},
	}
}

// detectDuplicateRows emits at most one dataset-level issue; the duplicate
// row count is evidence, never one issue per pair.
func (d *Detector) detectDuplicateRows(ds dataset.Dataset) *Issue {
	rows := ds.Rows()
	if rows < 2 {
		return nil
	}

	distinct := make(map[string]bool, rows)
	for i := 0; i < rows; i++ {
		distinct[ds.RowKey(i)] = true
	}
	duplicates := rows - len(distinct)
	if duplicates == 0 {
		return nil
	}

	return &Issue{
		Kind:     KindDuplicateRows,
		Severity: d.thresholds.SeverityFor(KindDuplicateRows),
		Message: fmt.Sprintf("Found %d duplicate rows (%.1f%% of dataset)",
			duplicates, float64(duplicates)/float64(rows)*100),
		Evidence: &Evidence{Count: duplicates, Percentage: float64(duplicates) / float64(rows) * 100},
	}
}

// normalizeCategory collapses the variations the inconsistent-category rule
// treats as equal: case and leading/trailing/internal whitespace runs.
func normalizeCategory(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

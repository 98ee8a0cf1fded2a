// Package profiler implements the ColumnProfiler port: per-column type
// inference and statistics over an in-memory dataset.
package profiler

import (
	"context"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"dataquality/adapters/coerce"
	"dataquality/domain/dataset"
	"dataquality/domain/profile"
	"dataquality/ports"
)

// Profiler implements ports.ColumnProfiler. Columns are independent, so
// profiling runs them through a bounded worker group writing into
// pre-sized slots; output order and values never depend on scheduling.
type Profiler struct {
	coercer *coerce.Coercer
	workers int
}

// New creates a profiler with the given worker cap (minimum 1).
func New(workers int) *Profiler {
	if workers < 1 {
		workers = 1
	}
	return &Profiler{coercer: coerce.New(), workers: workers}
}

var _ ports.ColumnProfiler = (*Profiler)(nil)

// Profile computes one ColumnProfile per dataset column, order-preserving.
// Pure with respect to dataset and configuration: identical inputs produce
// value-equal profiles.
func (p *Profiler) Profile(ctx context.Context, ds dataset.Dataset, config profile.Config) ([]profile.ColumnProfile, error) {
	profiles := make([]profile.ColumnProfile, ds.Cols())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, col := range ds.Columns {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			profiles[i] = p.profileColumn(col, config)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// profileColumn builds the complete profile of one column: missingness,
// uniqueness, inferred type, and the matching type-specific stats block.
func (p *Profiler) profileColumn(col dataset.Column, config profile.Config) profile.ColumnProfile {
	rows := col.Len()
	present := col.Present()
	missing := rows - len(present)

	prof := profile.ColumnProfile{
		Name:         col.Name,
		RowCount:     rows,
		MissingCount: missing,
		UniqueCount:  countUnique(present),
		TypeCounts:   p.coercer.Tally(present),
	}
	if rows > 0 {
		prof.MissingPercent = float64(missing) / float64(rows) * 100
		prof.UniqueRatio = float64(prof.UniqueCount) / float64(rows)
	}

	prof.InferredType, prof.MixedType = p.inferType(prof, config)

	switch prof.InferredType {
	case profile.TypeNumeric:
		prof.Numeric = p.computeNumericStats(present, config)
	case profile.TypeCategorical:
		prof.Categorical = p.computeCategoricalStats(present, config.TopValues)
	case profile.TypeBoolean:
		prof.Boolean = p.computeBooleanStats(present)
	case profile.TypeDatetime:
		prof.Datetime = p.computeDatetimeStats(present)
	case profile.TypeText:
		prof.Text = p.computeTextStats(present)
	}

	return prof
}

// inferType resolves the column's logical type from the coercion tallies,
// in fixed rule order. The second return marks the mixed-type fallback: a
// single class dominates the column without covering it, so the column
// reads as text and the detector flags it.
func (p *Profiler) inferType(prof profile.ColumnProfile, config profile.Config) (profile.InferredType, bool) {
	tc := prof.TypeCounts
	if tc.NonMissing == 0 {
		return profile.TypeText, false
	}

	switch {
	case tc.Numeric == tc.NonMissing:
		// All-numeric columns with very few distinct values read as
		// categorical codes rather than measurements.
		if prof.UniqueRatio < config.CardinalityThreshold {
			return profile.TypeCategorical, false
		}
		return profile.TypeNumeric, false
	case tc.Boolean == tc.NonMissing:
		return profile.TypeBoolean, false
	case tc.Datetime == tc.NonMissing:
		return profile.TypeDatetime, false
	}

	if tc.Ambiguous(config.MixedTypeDominance) {
		return profile.TypeText, true
	}

	if prof.UniqueRatio < config.CardinalityThreshold || prof.UniqueCount <= config.MaxCategories {
		return profile.TypeCategorical, false
	}
	return profile.TypeText, false
}

func (p *Profiler) computeNumericStats(present []string, config profile.Config) *profile.NumericStats {
	data := make([]float64, 0, len(present))
	zeros, negatives := 0, 0
	for _, raw := range present {
		val, ok := p.coercer.ParseNumeric(raw)
		if !ok {
			continue
		}
		data = append(data, val)
		if val == 0 {
			zeros++
		}
		if val < 0 {
			negatives++
		}
	}
	if len(data) == 0 {
		return nil
	}

	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviation(data)
	minVal, _ := stats.Min(data)
	maxVal, _ := stats.Max(data)
	median, _ := stats.Median(data)

	ns := &profile.NumericStats{
		Min:           minVal,
		Max:           maxVal,
		Mean:          mean,
		Median:        median,
		StdDev:        stdDev,
		ZeroCount:     zeros,
		NegativeCount: negatives,
		Skewness:      skewness(data, mean, stdDev),
		Kurtosis:      excessKurtosis(data, mean, stdDev),
	}

	// Quartiles need at least 4 values; smaller columns carry no outlier
	// analysis.
	if len(data) >= 4 {
		q1, _ := stats.Percentile(data, 25)
		q3, _ := stats.Percentile(data, 75)
		iqr := q3 - q1
		ns.Q1 = q1
		ns.Q3 = q3
		ns.LowerBound = q1 - config.OutlierIQRMultiplier*iqr
		ns.UpperBound = q3 + config.OutlierIQRMultiplier*iqr
		ns.HasOutlierBounds = true
		for _, val := range data {
			if val < ns.LowerBound || val > ns.UpperBound {
				ns.OutlierCount++
			}
		}
	}

	if pv, ok := jarqueBera(data, ns.Skewness, ns.Kurtosis); ok {
		ns.JarqueBeraP = &pv
	}

	return ns
}

func (p *Profiler) computeCategoricalStats(present []string, topN int) *profile.CategoricalStats {
	if len(present) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, raw := range present {
		counts[raw]++
	}

	// Frequency order, ties broken by value, so top lists are stable.
	values := make([]profile.ValueCount, 0, len(counts))
	total := float64(len(present))
	for value, count := range counts {
		values = append(values, profile.ValueCount{
			Value: value,
			Count: count,
			Ratio: float64(count) / total,
		})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Value < values[j].Value
	})

	entropy := 0.0
	gini := 1.0
	for _, vc := range values {
		entropy -= vc.Ratio * math.Log2(vc.Ratio)
		gini -= vc.Ratio * vc.Ratio
	}

	cs := &profile.CategoricalStats{
		Mode:      values[0].Value,
		ModeCount: values[0].Count,
		TopValues: values,
		Entropy:   entropy,
		GiniIndex: gini,
	}
	if len(cs.TopValues) > topN {
		cs.TopValues = cs.TopValues[:topN]
	}
	return cs
}

func (p *Profiler) computeBooleanStats(present []string) *profile.BooleanStats {
	if len(present) == 0 {
		return nil
	}
	bs := &profile.BooleanStats{}
	for _, raw := range present {
		if val, ok := p.coercer.ParseBoolean(raw); ok {
			if val {
				bs.TrueCount++
			} else {
				bs.FalseCount++
			}
		}
	}
	return bs
}

func (p *Profiler) computeDatetimeStats(present []string) *profile.DatetimeStats {
	ds := &profile.DatetimeStats{}
	found := false
	for _, raw := range present {
		t, ok := p.coercer.ParseDatetime(raw)
		if !ok {
			continue
		}
		if !found {
			ds.Min, ds.Max = t, t
			found = true
			continue
		}
		if t.Before(ds.Min) {
			ds.Min = t
		}
		if t.After(ds.Max) {
			ds.Max = t
		}
	}
	if !found {
		return nil
	}
	ds.SpanDays = ds.Max.Sub(ds.Min).Hours() / 24
	return ds
}

func (p *Profiler) computeTextStats(present []string) *profile.TextStats {
	if len(present) == 0 {
		return nil
	}
	ts := &profile.TextStats{MinLength: math.MaxInt}
	totalLength := 0
	for _, raw := range present {
		length := utf8.RuneCountInString(raw)
		totalLength += length
		if length < ts.MinLength {
			ts.MinLength = length
		}
		if length > ts.MaxLength {
			ts.MaxLength = length
		}
	}
	ts.AvgLength = float64(totalLength) / float64(len(present))
	return ts
}

func countUnique(present []string) int {
	seen := make(map[string]bool, len(present))
	for _, raw := range present {
		seen[raw] = true
	}
	return len(seen)
}

// skewness computes the adjusted Fisher-Pearson coefficient.
func skewness(data []float64, mean, stdDev float64) float64 {
	n := float64(len(data))
	if len(data) < 3 || stdDev == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return sum / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// excessKurtosis computes bias-corrected sample excess kurtosis.
func excessKurtosis(data []float64, mean, stdDev float64) float64 {
	n := float64(len(data))
	if len(data) < 4 || stdDev == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}
	kurtosis := sum / n
	correction := (n - 1) / ((n - 2) * (n - 3))
	return kurtosis*correction + 6/(n+1) - 3
}

// jarqueBera tests normality from skewness and excess kurtosis. The test
// statistic is chi-squared with 2 degrees of freedom; samples under 8
// values are too small to say anything.
func jarqueBera(data []float64, skew, excess float64) (float64, bool) {
	n := float64(len(data))
	if len(data) < 8 {
		return 0, false
	}
	jb := n / 6 * (skew*skew + excess*excess/4)
	chi2 := distuv.ChiSquared{K: 2}
	return 1 - chi2.CDF(jb), true
}

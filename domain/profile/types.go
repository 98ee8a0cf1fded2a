package profile

import (
	"fmt"
	"time"
)

// ColumnProfile contains the complete statistical profile of one column.
// Profiles are built once per analysis run and never mutated afterwards;
// they carry no timestamps or identifiers so reruns over the same input
// produce value-equal profiles.
type ColumnProfile struct {
	Name           string       `json:"name"`
	InferredType   InferredType `json:"inferred_type"`
	RowCount       int          `json:"row_count"`
	MissingCount   int          `json:"missing_count"`
	MissingPercent float64      `json:"missing_percent"`
	UniqueCount    int          `json:"unique_count"`
	UniqueRatio    float64      `json:"unique_ratio"`
	TypeCounts     TypeCounts   `json:"type_counts"`

	// MixedType records the inference fallback: one class dominated the
	// column without covering it, so InferredType is text. Decided once
	// during profiling, consumed by the detector.
	MixedType bool `json:"mixed_type"`

	// Type-specific stats; only the block matching InferredType is set,
	// except Text, which is also set for ambiguous columns that fell back.
	Numeric     *NumericStats     `json:"numeric_stats,omitempty"`
	Categorical *CategoricalStats `json:"categorical_stats,omitempty"`
	Boolean     *BooleanStats     `json:"boolean_stats,omitempty"`
	Datetime    *DatetimeStats    `json:"datetime_stats,omitempty"`
	Text        *TextStats        `json:"text_stats,omitempty"`
}

// InferredType represents the automatically detected logical type
type InferredType string

const (
	TypeNumeric     InferredType = "numeric"
	TypeCategorical InferredType = "categorical"
	TypeBoolean     InferredType = "boolean"
	TypeDatetime    InferredType = "datetime"
	TypeText        InferredType = "text"
)

// TypeCounts tallies how many non-missing cells parse under each class.
// A cell can count toward several classes ("1" is numeric and boolean), so
// the tallies are independent, not a partition. Ambiguity detection and the
// mixed-type rule read these tallies instead of re-parsing the column.
type TypeCounts struct {
	NonMissing int `json:"non_missing"`
	Numeric    int `json:"numeric"`
	Boolean    int `json:"boolean"`
	Datetime   int `json:"datetime"`
	Other      int `json:"other"` // parses under no class
}

// DominantClass returns the best-covered parse class and its share of
// non-missing cells. Share is 0 when the column has no non-missing cells.
func (tc TypeCounts) DominantClass() (InferredType, float64) {
	if tc.NonMissing == 0 {
		return TypeText, 0
	}
	best, count := TypeNumeric, tc.Numeric
	if tc.Boolean > count {
		best, count = TypeBoolean, tc.Boolean
	}
	if tc.Datetime > count {
		best, count = TypeDatetime, tc.Datetime
	}
	return best, float64(count) / float64(tc.NonMissing)
}

// Ambiguous reports whether a single class dominates the tallied cells
// without covering them completely, the mixed-type condition. Such columns
// fall back to text and are flagged by the detector instead of failing the
// run.
func (tc TypeCounts) Ambiguous(dominanceThreshold float64) bool {
	if tc.NonMissing == 0 {
		return false
	}
	_, share := tc.DominantClass()
	return share >= dominanceThreshold && share < 1.0
}

// NonMissingCount returns the number of present cells.
func (p ColumnProfile) NonMissingCount() int {
	return p.RowCount - p.MissingCount
}

// IsConstant reports whether every present cell holds the same value.
func (p ColumnProfile) IsConstant() bool {
	return p.UniqueCount == 1 && p.NonMissingCount() > 0
}

// NumericStats contains statistics for numeric columns. Outlier bounds use
// the IQR rule [Q1 - k*IQR, Q3 + k*IQR]; quartiles need at least four
// values, so small columns carry no outlier analysis (HasOutlierBounds).
type NumericStats struct {
	Min              float64  `json:"min"`
	Max              float64  `json:"max"`
	Mean             float64  `json:"mean"`
	Median           float64  `json:"median"`
	StdDev           float64  `json:"std_dev"`
	Q1               float64  `json:"q1"`
	Q3               float64  `json:"q3"`
	LowerBound       float64  `json:"lower_bound"`
	UpperBound       float64  `json:"upper_bound"`
	HasOutlierBounds bool     `json:"has_outlier_bounds"`
	OutlierCount     int      `json:"outlier_count"`
	ZeroCount        int      `json:"zero_count"`
	NegativeCount    int      `json:"negative_count"`
	Skewness         float64  `json:"skewness"`
	Kurtosis         float64  `json:"kurtosis"`
	JarqueBeraP      *float64 `json:"jarque_bera_p,omitempty"`
}

// ValueCount represents a value and its frequency
type ValueCount struct {
	Value string  `json:"value"`
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

// CategoricalStats contains statistics for categorical columns
type CategoricalStats struct {
	Mode      string       `json:"mode"`
	ModeCount int          `json:"mode_count"`
	TopValues []ValueCount `json:"top_values"`
	Entropy   float64      `json:"entropy"`
	GiniIndex float64      `json:"gini_index"`
}

// BooleanStats contains statistics for boolean columns
type BooleanStats struct {
	TrueCount  int `json:"true_count"`
	FalseCount int `json:"false_count"`
}

// DatetimeStats contains statistics for datetime columns
type DatetimeStats struct {
	Min      time.Time `json:"min"`
	Max      time.Time `json:"max"`
	SpanDays float64   `json:"span_days"`
}

// TextStats contains statistics for text columns
type TextStats struct {
	MinLength int     `json:"min_length"`
	AvgLength float64 `json:"avg_length"`
	MaxLength int     `json:"max_length"`
}

// Config defines the profiling parameters
type Config struct {
	CardinalityThreshold float64 `json:"cardinality_threshold"` // unique/rows below this reads as categorical codes
	MaxCategories        int     `json:"max_categories"`        // distinct-value cap for categorical text
	TopValues            int     `json:"top_values"`            // frequencies kept per categorical column
	MixedTypeDominance   float64 `json:"mixed_type_dominance"`  // dominant-share floor for the text fallback
	OutlierIQRMultiplier float64 `json:"outlier_iqr_multiplier"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		CardinalityThreshold: 0.05,
		MaxCategories:        50,
		TopValues:            10,
		MixedTypeDominance:   0.80,
		OutlierIQRMultiplier: 1.5,
	}
}

// Digest returns a canonical string of the configuration, used in run
// fingerprints.
func (c Config) Digest() string {
	return fmt.Sprintf("card=%g;maxcat=%d;top=%d;mixed=%g;iqr=%g",
		c.CardinalityThreshold, c.MaxCategories, c.TopValues, c.MixedTypeDominance, c.OutlierIQRMultiplier)
}

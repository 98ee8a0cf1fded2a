package ports

import (
	"context"

	"dataquality/domain/dataset"
	"dataquality/domain/profile"
)

// ColumnProfiler computes per-column statistical profiles. Implementations
// must be pure with respect to the dataset and configuration: identical
// inputs produce value-equal profiles in column order.
type ColumnProfiler interface {
	Profile(ctx context.Context, ds dataset.Dataset, config profile.Config) ([]profile.ColumnProfile, error)
}

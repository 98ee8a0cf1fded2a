package ports

import (
	"context"

	"dataquality/domain/dataset"
)

// DatasetLoader reads a tabular file into a Dataset. Format detection is
// the loader's concern; the engine only sees column names, cell values, and
// a consistent row count.
type DatasetLoader interface {
	// Load reads the file at path, detecting the format from its extension.
	Load(ctx context.Context, path string) (dataset.Dataset, error)

	// Supports reports whether the loader recognizes the path's extension.
	Supports(path string) bool
}

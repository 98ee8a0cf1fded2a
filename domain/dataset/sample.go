package dataset

import (
	"math/rand"
	"sort"

	"dataquality/domain/core"
)

// Sample returns a uniform random subset of n rows without replacement,
// preserving column structure and relative row order. The same seed always
// selects the same rows. Returns the dataset unchanged when n covers every
// row, and ErrInvalidSampleSize when n is not positive.
func Sample(d Dataset, n int, seed int64) (Dataset, error) {
	if n <= 0 {
		return Dataset{}, core.NewInvalidSampleSizeError(n)
	}
	rows := d.Rows()
	if n >= rows {
		return d, nil
	}

	rng := rand.New(rand.NewSource(seed))
	selected := rng.Perm(rows)[:n]
	sort.Ints(selected)

	columns := make([]Column, len(d.Columns))
	for i, col := range d.Columns {
		cells := make([]Cell, n)
		for j, idx := range selected {
			cells[j] = col.Cells[idx]
		}
		columns[i] = Column{Name: col.Name, Cells: cells}
	}
	return Dataset{Columns: columns}, nil
}

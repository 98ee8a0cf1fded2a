package dataset

import (
	"strings"

	"dataquality/domain/core"
)

// Cell is a single value in a column. The raw textual form is kept exactly
// as loaded so downstream checks can see case and whitespace variants; only
// the missing flag is derived at construction.
type Cell struct {
	Raw     string `json:"raw"`
	Missing bool   `json:"missing"`
}

// Tokens treated as missing regardless of case, after trimming.
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

// NewCell creates a cell from a raw loaded value, detecting missing markers.
func NewCell(raw string) Cell {
	if missingTokens[strings.ToLower(strings.TrimSpace(raw))] {
		return Cell{Raw: raw, Missing: true}
	}
	return Cell{Raw: raw}
}

// MissingCell creates an explicitly missing cell.
func MissingCell() Cell {
	return Cell{Missing: true}
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string `json:"name"`
	Cells []Cell `json:"cells"`
}

// Len returns the number of cells in the column.
func (c Column) Len() int {
	return len(c.Cells)
}

// MissingCount returns the number of missing cells.
func (c Column) MissingCount() int {
	count := 0
	for _, cell := range c.Cells {
		if cell.Missing {
			count++
		}
	}
	return count
}

// Present returns the raw values of all non-missing cells, in order.
func (c Column) Present() []string {
	values := make([]string, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if !cell.Missing {
			values = append(values, cell.Raw)
		}
	}
	return values
}

// Dataset is an immutable, rectangular table: an ordered sequence of named
// columns of equal length. Sampling and analysis never mutate a dataset;
// they build new values.
type Dataset struct {
	Columns []Column `json:"columns"`
}

// New builds a dataset from columns, validating that all columns have the
// same length. A dataset with zero columns is valid here; emptiness is
// rejected at analysis time, not construction time.
func New(columns []Column) (Dataset, error) {
	if len(columns) == 0 {
		return Dataset{}, nil
	}
	want := len(columns[0].Cells)
	for _, col := range columns[1:] {
		if len(col.Cells) != want {
			return Dataset{}, core.NewColumnLengthError(col.Name, len(col.Cells), want)
		}
	}
	return Dataset{Columns: columns}, nil
}

// FromRows builds a dataset from a header row and data rows, the shape every
// file loader produces. Rows shorter than the header are padded with missing
// cells; rows longer than the header are rejected.
func FromRows(headers []string, rows [][]string) (Dataset, error) {
	columns := make([]Column, len(headers))
	for i, name := range headers {
		columns[i] = Column{Name: name, Cells: make([]Cell, 0, len(rows))}
	}
	for _, row := range rows {
		if len(row) > len(headers) {
			return Dataset{}, core.NewColumnLengthError("row", len(row), len(headers))
		}
		for i := range headers {
			if i < len(row) {
				columns[i].Cells = append(columns[i].Cells, NewCell(row[i]))
			} else {
				columns[i].Cells = append(columns[i].Cells, MissingCell())
			}
		}
	}
	return Dataset{Columns: columns}, nil
}

// FromColumns builds a dataset from column names and raw string values,
// convenient for tests and programmatic construction.
func FromColumns(names []string, values [][]string) (Dataset, error) {
	columns := make([]Column, len(names))
	for i, name := range names {
		cells := make([]Cell, len(values[i]))
		for j, raw := range values[i] {
			cells[j] = NewCell(raw)
		}
		columns[i] = Column{Name: name, Cells: cells}
	}
	return New(columns)
}

// Rows returns the row count.
func (d Dataset) Rows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Cells)
}

// Cols returns the column count.
func (d Dataset) Cols() int {
	return len(d.Columns)
}

// Shape returns (rows, columns).
func (d Dataset) Shape() (int, int) {
	return d.Rows(), d.Cols()
}

// IsEmpty reports whether the dataset has neither rows nor columns.
func (d Dataset) IsEmpty() bool {
	return d.Rows() == 0 && d.Cols() == 0
}

// ColumnNames returns the ordered column names.
func (d Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the named column, or an ErrUnknownColumn error.
func (d Dataset) Column(name string) (Column, error) {
	for _, col := range d.Columns {
		if col.Name == name {
			return col, nil
		}
	}
	return Column{}, core.NewUnknownColumnError(name)
}

// Row returns the cells of row i across all columns, in column order.
func (d Dataset) Row(i int) []Cell {
	row := make([]Cell, len(d.Columns))
	for j, col := range d.Columns {
		row[j] = col.Cells[i]
	}
	return row
}

// RowKey returns a canonical string for row i, used for exact-duplicate
// detection. Missing cells and raw values cannot collide because cell
// boundaries and the missing marker use control characters that never
// survive loading.
func (d Dataset) RowKey(i int) string {
	var key strings.Builder
	for j, col := range d.Columns {
		if j > 0 {
			key.WriteByte('\x1f')
		}
		cell := col.Cells[i]
		if cell.Missing {
			key.WriteByte('\x00')
		} else {
			key.WriteString(cell.Raw)
		}
	}
	return key.String()
}

// MissingCells returns the total number of missing cells across all columns.
func (d Dataset) MissingCells() int {
	total := 0
	for _, col := range d.Columns {
		total += col.MissingCount()
	}
	return total
}

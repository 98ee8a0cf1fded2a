// Package loader implements the DatasetLoader port: reading CSV, Excel,
// and JSON files into datasets. Format detection is extension-based.
package loader

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"dataquality/domain/core"
	"dataquality/domain/dataset"
	"dataquality/ports"
)

// FileLoader reads tabular files into datasets
type FileLoader struct {
	logger *slog.Logger
}

// New creates a file loader
func New(logger *slog.Logger) *FileLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileLoader{logger: logger}
}

var _ ports.DatasetLoader = (*FileLoader)(nil)

// Supports reports whether the loader recognizes the path's extension.
func (l *FileLoader) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".json":
		return true
	}
	return false
}

// Load reads the file at path into a dataset, detecting the format from the
// extension. Parquet is recognized but not readable here, so it gets the
// same unsupported-format error as unknown extensions.
func (l *FileLoader) Load(ctx context.Context, path string) (dataset.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return dataset.Dataset{}, fmt.Errorf("dataset file not accessible: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	l.logger.Info("loading dataset", "path", path, "format", strings.TrimPrefix(ext, "."))

	var (
		ds  dataset.Dataset
		err error
	)
	switch ext {
	case ".csv":
		ds, err = l.loadCSV(path)
	case ".xlsx":
		ds, err = l.loadExcel(path)
	case ".json":
		ds, err = l.loadJSON(path)
	default:
		return dataset.Dataset{}, core.NewUnsupportedFormatError(strings.TrimPrefix(ext, "."))
	}
	if err != nil {
		return dataset.Dataset{}, err
	}

	rows, cols := ds.Shape()
	l.logger.Info("dataset loaded", "path", path, "rows", rows, "columns", cols)
	return ds, nil
}

// loadCSV reads a CSV file with a header row. Ragged records are rejected
// by the reader's field-count check.
func (l *FileLoader) loadCSV(path string) (dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	if len(records) == 0 {
		return dataset.New(nil)
	}

	return dataset.FromRows(records[0], records[1:])
}

// loadExcel reads the first sheet of an .xlsx workbook. Excel trims
// trailing empty cells per row, so short rows are padded by FromRows.
func (l *FileLoader) loadExcel(path string) (dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataset.New(nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return dataset.New(nil)
	}

	return dataset.FromRows(rows[0], rows[1:])
}

// loadJSON reads a records-oriented JSON array. Column order follows the
// key order of the first record, which is why this walks tokens instead of
// unmarshaling into maps.
func (l *FileLoader) loadJSON(path string) (dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("failed to open JSON file: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return dataset.Dataset{}, fmt.Errorf("JSON dataset must be an array of records: %w", err)
	}

	var (
		order   []string
		known   = make(map[string]int)
		records []map[string]dataset.Cell
	)
	for dec.More() {
		record, keys, err := decodeRecord(dec)
		if err != nil {
			return dataset.Dataset{}, fmt.Errorf("failed to parse JSON record %d: %w", len(records), err)
		}
		for _, key := range keys {
			if _, ok := known[key]; !ok {
				known[key] = len(order)
				order = append(order, key)
			}
		}
		records = append(records, record)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return dataset.Dataset{}, fmt.Errorf("failed to parse JSON array: %w", err)
	}

	columns := make([]dataset.Column, len(order))
	for i, name := range order {
		cells := make([]dataset.Cell, len(records))
		for j, record := range records {
			if cell, ok := record[name]; ok {
				cells[j] = cell
			} else {
				cells[j] = dataset.MissingCell()
			}
		}
		columns[i] = dataset.Column{Name: name, Cells: cells}
	}
	return dataset.New(columns)
}

// decodeRecord consumes one JSON object, returning its cells and the keys
// in document order.
func decodeRecord(dec *json.Decoder) (map[string]dataset.Cell, []string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}

	record := make(map[string]dataset.Cell)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		record[key] = cellFromJSON(value)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return record, keys, nil
}

// cellFromJSON normalizes a decoded JSON scalar into a cell. Nulls are
// explicit missing; everything else goes through the usual missing-token
// detection on its string form.
func cellFromJSON(value interface{}) dataset.Cell {
	if value == nil {
		return dataset.MissingCell()
	}
	switch v := value.(type) {
	case string:
		return dataset.NewCell(v)
	case json.Number:
		return dataset.NewCell(v.String())
	default:
		return dataset.NewCell(cast.ToString(v))
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Dataset construction and lookup errors
	ErrEmptyDataset  = errors.New("dataset has no rows and no columns")
	ErrColumnLength  = errors.New("column length mismatch")
	ErrUnknownColumn = errors.New("unknown column")

	// Sampling errors
	ErrInvalidSampleSize = errors.New("invalid sample size")

	// Loader errors
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// Store errors
	ErrReportNotFound = errors.New("report not found")
)

// Error constructors with context
func NewColumnLengthError(column string, got, want int) error {
	return fmt.Errorf("%w: column %q has %d values, expected %d", ErrColumnLength, column, got, want)
}

func NewUnknownColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
}

func NewInvalidSampleSizeError(n int) error {
	return fmt.Errorf("%w: %d (must be positive)", ErrInvalidSampleSize, n)
}

func NewUnsupportedFormatError(format string) error {
	return fmt.Errorf("%w: %q (supported: csv, xlsx, json)", ErrUnsupportedFormat, format)
}

// Error checking helpers
func IsEmptyDataset(err error) bool {
	return errors.Is(err, ErrEmptyDataset)
}

func IsInvalidSampleSize(err error) bool {
	return errors.Is(err, ErrInvalidSampleSize)
}

func IsUnsupportedFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}

func IsReportNotFound(err error) bool {
	return errors.Is(err, ErrReportNotFound)
}

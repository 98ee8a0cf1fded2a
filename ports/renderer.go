package ports

import (
	"fmt"

	"dataquality/domain/report"
)

// Format selects the report output format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name from CLI flags or HTTP queries.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatHTML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown report format %q (expected text, json, or html)", s)
}

// Extension returns the file extension for reports in this format.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// ReportRenderer turns an analysis result into a document.
type ReportRenderer interface {
	Render(result *report.AnalysisResult, format Format) ([]byte, error)
}

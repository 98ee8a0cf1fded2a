// Package render implements the ReportRenderer port: turning an analysis
// result into text, JSON, or HTML documents.
package render

import (
	"encoding/json"
	"fmt"

	"dataquality/domain/report"
	"dataquality/ports"
)

// Renderer renders analysis results
type Renderer struct{}

// New creates a renderer
func New() *Renderer {
	return &Renderer{}
}

var _ ports.ReportRenderer = (*Renderer)(nil)

// Render produces a document in the requested format.
func (r *Renderer) Render(result *report.AnalysisResult, format ports.Format) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("cannot render a nil result")
	}
	switch format {
	case ports.FormatText:
		return r.renderText(result), nil
	case ports.FormatJSON:
		return r.renderJSON(result)
	case ports.FormatHTML:
		return r.renderHTML(result), nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

func (r *Renderer) renderJSON(result *report.AnalysisResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return append(data, '\n'), nil
}

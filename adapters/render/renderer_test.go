package render

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dataquality/adapters/profiler"
	"dataquality/app"
	"dataquality/domain/dataset"
	"dataquality/domain/report"
	"dataquality/ports"
)

func sampleResult(t *testing.T) *report.AnalysisResult {
	t.Helper()
	ds, err := dataset.FromColumns(
		[]string{"amount", "status", "note"},
		[][]string{
			{"10", "20", "30", "40", "5000", ""},
			{"open", "Open", "closed", "open", "closed", "open"},
			{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"},
		},
	)
	require.NoError(t, err)

	analyzer, err := app.NewAnalyzer(app.Deps{Profiler: profiler.New(2)})
	require.NoError(t, err)

	result, err := analyzer.Analyze(context.Background(), ds, "orders sample", app.DefaultOptions())
	require.NoError(t, err)
	return result
}

func TestRenderText(t *testing.T) {
	doc, err := New().Render(sampleResult(t), ports.FormatText)
	require.NoError(t, err)

	text := string(doc)
	require.Contains(t, text, "DATA QUALITY REPORT: orders sample")
	require.Contains(t, text, "ISSUES")
	require.Contains(t, text, "COLUMNS")
	require.Contains(t, text, "amount (numeric)")
	require.Contains(t, text, "status (categorical)")
}

func TestRenderJSONRoundTrip(t *testing.T) {
	result := sampleResult(t)
	doc, err := New().Render(result, ports.FormatJSON)
	require.NoError(t, err)

	var decoded report.AnalysisResult
	require.NoError(t, json.Unmarshal(doc, &decoded))

	require.Equal(t, result.Name, decoded.Name)
	require.Equal(t, result.Shape, decoded.Shape)
	require.Equal(t, result.Fingerprint, decoded.Fingerprint)
	require.Equal(t, result.Issues, decoded.Issues)
	require.Equal(t, result.Profiles, decoded.Profiles)
	require.Equal(t, result.Summary, decoded.Summary)
}

func TestRenderHTML(t *testing.T) {
	doc, err := New().Render(sampleResult(t), ports.FormatHTML)
	require.NoError(t, err)

	html := string(doc)
	require.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	require.Contains(t, html, "<title>Data Quality Report: orders sample</title>")
	require.Contains(t, html, "<table>")
	require.Contains(t, html, "amount")
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := New().Render(sampleResult(t), ports.Format("pdf"))
	require.Error(t, err)

	_, err = New().Render(nil, ports.FormatText)
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"text", "json", "html"} {
		format, err := ports.ParseFormat(valid)
		require.NoError(t, err)
		require.Equal(t, ports.Format(valid), format)
	}
	_, err := ports.ParseFormat("pdf")
	require.Error(t, err)
}

package render

import (
	"fmt"
	"strings"

	"dataquality/domain/issue"
	"dataquality/domain/profile"
	"dataquality/domain/report"
)

const bannerWidth = 64

// renderText builds the plain-text report: a summary banner, the issue
// list grouped by severity, and one section per column.
func (r *Renderer) renderText(result *report.AnalysisResult) []byte {
	var b strings.Builder
	rule := strings.Repeat("=", bannerWidth)

	fmt.Fprintf(&b, "%s\n DATA QUALITY REPORT: %s\n%s\n", rule, result.Name, rule)
	fmt.Fprintf(&b, "Shape:   %d rows x %d columns\n", result.Shape.Rows, result.Shape.Columns)
	if result.Sample.Applied {
		fmt.Fprintf(&b, "Sample:  %d of %d rows (seed %d)\n",
			result.Sample.RowsAnalyzed, result.Sample.TotalRows, result.Sample.Seed)
	}
	fmt.Fprintf(&b, "Issues:  %d total (%d critical, %d warning, %d info)\n",
		result.Summary.TotalIssues(),
		result.Summary.Count(issue.SeverityCritical),
		result.Summary.Count(issue.SeverityWarning),
		result.Summary.Count(issue.SeverityInfo))
	fmt.Fprintf(&b, "Missing: %d cells (%.1f%%)\n",
		result.Summary.MissingData.TotalMissingCells,
		result.Summary.MissingData.TotalMissingPercentage)

	b.WriteString("\nISSUES\n------\n")
	if len(result.Issues) == 0 {
		b.WriteString("No issues detected.\n")
	}
	for _, severity := range issue.Severities() {
		for _, iss := range result.IssuesWithSeverity(severity) {
			fmt.Fprintf(&b, "[%s] %s: %s\n", strings.ToUpper(string(iss.Severity)), iss.Scope(), iss.Message)
		}
	}

	b.WriteString("\nCOLUMNS\n-------\n")
	for _, p := range result.Profiles {
		writeColumnSection(&b, &p)
	}

	return []byte(b.String())
}

func writeColumnSection(b *strings.Builder, p *profile.ColumnProfile) {
	fmt.Fprintf(b, "%s (%s)\n", p.Name, p.InferredType)
	fmt.Fprintf(b, "  missing: %d (%.1f%%)  unique: %d\n", p.MissingCount, p.MissingPercent, p.UniqueCount)

	switch {
	case p.Numeric != nil:
		ns := p.Numeric
		fmt.Fprintf(b, "  min: %g  max: %g  mean: %g  median: %g  std: %g\n",
			ns.Min, ns.Max, ns.Mean, ns.Median, ns.StdDev)
		if ns.HasOutlierBounds {
			fmt.Fprintf(b, "  IQR bounds: [%g, %g]  outliers: %d\n", ns.LowerBound, ns.UpperBound, ns.OutlierCount)
		}
	case p.Categorical != nil:
		cs := p.Categorical
		fmt.Fprintf(b, "  mode: %q (%d)\n", cs.Mode, cs.ModeCount)
		for _, vc := range cs.TopValues {
			fmt.Fprintf(b, "    %-20q %6d (%.1f%%)\n", vc.Value, vc.Count, vc.Ratio*100)
		}
	case p.Boolean != nil:
		fmt.Fprintf(b, "  true: %d  false: %d\n", p.Boolean.TrueCount, p.Boolean.FalseCount)
	case p.Datetime != nil:
		fmt.Fprintf(b, "  range: %s .. %s (%.0f days)\n",
			p.Datetime.Min.Format("2006-01-02"), p.Datetime.Max.Format("2006-01-02"), p.Datetime.SpanDays)
	case p.Text != nil:
		fmt.Fprintf(b, "  length: min %d, avg %.1f, max %d\n", p.Text.MinLength, p.Text.AvgLength, p.Text.MaxLength)
	}
	b.WriteString("\n")
}

package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"dataquality/domain/issue"
	"dataquality/domain/profile"
	"dataquality/domain/report"
)

const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Data Quality Report: %s</title>
<style>
body { font-family: -apple-system, 'Segoe UI', sans-serif; max-width: 960px; margin: 2em auto; color: #1a1a2e; }
table { border-collapse: collapse; width: 100%%; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background: #f0f2f5; }
code { background: #f5f5f5; padding: 1px 4px; border-radius: 3px; }
.severity-critical { color: #c0392b; font-weight: bold; }
.severity-warning { color: #d68910; font-weight: bold; }
.severity-info { color: #2471a3; }
</style>
</head>
<body>
%s
</body>
</html>
`

// renderHTML builds the report body as markdown, converts it with
// gomarkdown, and wraps it in a document shell.
func (r *Renderer) renderHTML(result *report.AnalysisResult) []byte {
	md := r.buildMarkdown(result)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	body := markdown.ToHTML([]byte(md), p, renderer)

	doc := fmt.Sprintf(htmlShell, html.EscapeString(result.Name), body)
	return []byte(doc)
}

func (r *Renderer) buildMarkdown(result *report.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Data Quality Report: %s\n\n", result.Name)
	fmt.Fprintf(&b, "**Shape:** %d rows × %d columns  \n", result.Shape.Rows, result.Shape.Columns)
	if result.Sample.Applied {
		fmt.Fprintf(&b, "**Sample:** %d of %d rows (seed %d)  \n",
			result.Sample.RowsAnalyzed, result.Sample.TotalRows, result.Sample.Seed)
	}
	fmt.Fprintf(&b, "**Issues:** %d (%d critical, %d warning, %d info)  \n",
		result.Summary.TotalIssues(),
		result.Summary.Count(issue.SeverityCritical),
		result.Summary.Count(issue.SeverityWarning),
		result.Summary.Count(issue.SeverityInfo))
	fmt.Fprintf(&b, "**Missing cells:** %d (%.1f%%)\n\n", result.Summary.MissingData.TotalMissingCells,
		result.Summary.MissingData.TotalMissingPercentage)

	b.WriteString("## Issues\n\n")
	if len(result.Issues) == 0 {
		b.WriteString("No issues detected.\n\n")
	} else {
		b.WriteString("| Severity | Scope | Kind | Detail |\n|---|---|---|---|\n")
		for _, severity := range issue.Severities() {
			for _, iss := range result.IssuesWithSeverity(severity) {
				fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n",
					iss.Severity, iss.Scope(), iss.Kind, mdEscape(iss.Message))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Columns\n\n")
	b.WriteString("| Column | Type | Missing | Unique | Detail |\n|---|---|---|---|---|\n")
	for _, p := range result.Profiles {
		fmt.Fprintf(&b, "| `%s` | %s | %d (%.1f%%) | %d | %s |\n",
			p.Name, p.InferredType, p.MissingCount, p.MissingPercent, p.UniqueCount, columnDetail(&p))
	}
	b.WriteString("\n")

	return b.String()
}

func columnDetail(p *profile.ColumnProfile) string {
	switch {
	case p.Numeric != nil:
		return fmt.Sprintf("min %g, max %g, mean %.4g, std %.4g", p.Numeric.Min, p.Numeric.Max, p.Numeric.Mean, p.Numeric.StdDev)
	case p.Categorical != nil:
		return fmt.Sprintf("mode %s (%d)", mdEscape(p.Categorical.Mode), p.Categorical.ModeCount)
	case p.Boolean != nil:
		return fmt.Sprintf("%d true / %d false", p.Boolean.TrueCount, p.Boolean.FalseCount)
	case p.Datetime != nil:
		return fmt.Sprintf("%s to %s", p.Datetime.Min.Format("2006-01-02"), p.Datetime.Max.Format("2006-01-02"))
	case p.Text != nil:
		return fmt.Sprintf("length %d-%d, avg %.1f", p.Text.MinLength, p.Text.MaxLength, p.Text.AvgLength)
	}
	return ""
}

// mdEscape keeps raw cell values from breaking the markdown tables.
func mdEscape(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}

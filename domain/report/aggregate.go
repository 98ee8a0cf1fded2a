package report

import (
	"dataquality/domain/core"
	"dataquality/domain/dataset"
	"dataquality/domain/issue"
	"dataquality/domain/profile"
)

// Aggregate folds issues and profiles into a Summary. Pure and
// deterministic: the same inputs always produce the same summary. Fails
// only when the dataset has neither rows nor columns; zero rows with named
// columns is a valid analysis that yields zero-valued statistics.
func Aggregate(name string, ds dataset.Dataset, profiles []profile.ColumnProfile, issues []issue.Issue) (Summary, error) {
	rows, cols := ds.Shape()
	if rows == 0 && cols == 0 {
		return Summary{}, core.ErrEmptyDataset
	}

	bySeverity := make(map[issue.Severity]int, 3)
	for _, severity := range issue.Severities() {
		bySeverity[severity] = 0
	}
	for _, iss := range issues {
		bySeverity[iss.Severity]++
	}

	columnTypes := make(map[profile.InferredType]int)
	perColumn := make([]ColumnMissing, len(profiles))
	totalMissing := 0
	for i, p := range profiles {
		columnTypes[p.InferredType]++
		perColumn[i] = ColumnMissing{
			Column:         p.Name,
			MissingCount:   p.MissingCount,
			MissingPercent: p.MissingPercent,
		}
		totalMissing += p.MissingCount
	}

	totalPct := 0.0
	if cells := rows * cols; cells > 0 {
		totalPct = float64(totalMissing) / float64(cells) * 100
	}

	return Summary{
		DatasetName:      name,
		Shape:            Shape{Rows: rows, Columns: cols},
		IssuesBySeverity: bySeverity,
		ColumnTypes:      columnTypes,
		MissingData: MissingOverview{
			TotalMissingCells:      totalMissing,
			TotalMissingPercentage: totalPct,
			PerColumn:              perColumn,
		},
	}, nil
}

// Package features sums stat-code combinations over windows of a player's game log.
package features

import (
	"strings"

	"nba-feature-stats/internal/model"
)

// Sum adds every code of the combo present in row. Missing codes count as zero.
func Sum(combo Combo, row model.GameLogRow) float64 {
	total := 0.0
	for _, code := range combo.Codes {
		total += row.Stat(code)
	}
	return total
}

// RecentForm aggregates the first n rows of a most-recent-first log.
// The result has min(len(log), n) entries.
func RecentForm(combo Combo, log []model.GameLogRow, n int) model.AggregatedSeries {
	return aggregate(combo, log, n, nil)
}

// OpponentHistory aggregates the first m rows whose matchup ends with opponent.
// An empty opponent yields an empty series.
func OpponentHistory(combo Combo, log []model.GameLogRow, opponent string, m int) model.AggregatedSeries {
	if opponent == "" {
		return model.NewAggregatedSeries()
	}
	return aggregate(combo, log, m, func(r model.GameLogRow) bool {
		return strings.HasSuffix(r.Matchup, opponent)
	})
}

func aggregate(combo Combo, log []model.GameLogRow, limit int, keep func(model.GameLogRow) bool) model.AggregatedSeries {
	out := model.NewAggregatedSeries()
	if limit <= 0 {
		return out
	}
	for _, row := range log {
		if out.Len() >= limit {
			break
		}
		if keep != nil && !keep(row) {
			continue
		}
		out.Values = append(out.Values, Sum(combo, row))
		out.Dates = append(out.Dates, row.DateString())
		out.Opponents = append(out.Opponents, row.Opponent())
	}
	return out
}

package pipeline

import "nba-feature-stats/internal/model"

// Assemble builds the artifact record for one cheat-sheet entry.
// Name and feature are copied verbatim; absent series encode as empty arrays.
func Assemble(entry model.CheatSheetEntry, recent, history model.AggregatedSeries) model.FeatureRecord {
	recent = orEmpty(recent)
	history = orEmpty(history)
	return model.FeatureRecord{
		PlayerName: entry.PlayerName,
		Feature:    entry.Feature,
		Opponent:   entry.Opponent,
		Threshold:  entry.Threshold,

		Last15Feature:   recent.Values,
		Last15GameDates: recent.Dates,
		Last15Opponents: recent.Opponents,

		Last3VsOpponentFeature: history.Values,
		Last3GameDates:         history.Dates,
		Last3Opponents:         history.Opponents,
	}
}

func orEmpty(s model.AggregatedSeries) model.AggregatedSeries {
	if s.Values == nil {
		s.Values = []float64{}
	}
	if s.Dates == nil {
		s.Dates = []string{}
	}
	if s.Opponents == nil {
		s.Opponents = []string{}
	}
	return s
}

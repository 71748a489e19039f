package model

// AggregatedSeries is an ordered (value, date, opponent) sequence, most recent game first.
// The three slices are always the same length.
type AggregatedSeries struct {
	Values    []float64
	Dates     []string
	Opponents []string
}

// NewAggregatedSeries returns an empty series whose slices encode as [] rather than null.
func NewAggregatedSeries() AggregatedSeries {
	return AggregatedSeries{
		Values:    []float64{},
		Dates:     []string{},
		Opponents: []string{},
	}
}

func (s AggregatedSeries) Len() int { return len(s.Values) }

// FeatureRecord is one object in the feature-stats artifact.
// Exactly one record is produced per cheat-sheet entry.
type FeatureRecord struct {
	PlayerName string   `json:"player_name"`
	Feature    string   `json:"feature"`
	Opponent   string   `json:"opponent,omitempty"`
	Threshold  PropLine `json:"threshold"`

	Last15Feature   []float64 `json:"last15_feature"`
	Last15GameDates []string  `json:"last15_game_dates"`
	Last15Opponents []string  `json:"last15_opponents"`

	Last3VsOpponentFeature []float64 `json:"last3_vs_opponent_feature"`
	Last3GameDates         []string  `json:"last3_game_dates"`
	Last3Opponents         []string  `json:"last3_opponents"`
}

// RecentForm returns the recent-form series carried by the record.
func (r FeatureRecord) RecentForm() AggregatedSeries {
	return AggregatedSeries{Values: r.Last15Feature, Dates: r.Last15GameDates, Opponents: r.Last15Opponents}
}

// OpponentHistory returns the opponent-history series carried by the record.
func (r FeatureRecord) OpponentHistory() AggregatedSeries {
	return AggregatedSeries{Values: r.Last3VsOpponentFeature, Dates: r.Last3GameDates, Opponents: r.Last3Opponents}
}

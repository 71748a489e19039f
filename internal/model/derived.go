package model

import "time"

// DerivedFeatureRow is one game of the widened training matrix.
// Rows are only produced once the player has a full rolling window of prior games.
type DerivedFeatureRow struct {
	GameID   string    `json:"game_id"`
	GameDate time.Time `json:"game_date"`
	Matchup  string    `json:"matchup"`

	PTS float64 `json:"pts"`
	AST float64 `json:"ast"`
	REB float64 `json:"reb"`
	TO  float64 `json:"to"`

	EFGPct float64 `json:"efg_pct"`
	TSPct  float64 `json:"ts_pct"`

	Home       int     `json:"home"`
	DaysRest   float64 `json:"days_rest"`
	BackToBack int     `json:"b2b"`

	PtsLast5Avg float64 `json:"pts_last5_avg"`
	TSLast5Avg  float64 `json:"ts_last5_avg"`

	OffRating    float64 `json:"off_rating"`
	DefRating    float64 `json:"def_rating"`
	NetRating    float64 `json:"net_rating"`
	Pace         float64 `json:"pace"`
	OppOffRating float64 `json:"opp_off_rating"`
	OppDefRating float64 `json:"opp_def_rating"`
	OppNetRating float64 `json:"opp_net_rating"`
	OppPace      float64 `json:"opp_pace"`

	RealPlusMinus float64 `json:"real_plus_minus"`
	InjuryRisk    float64 `json:"injury_risk"`
	ProjMinutes   float64 `json:"proj_minutes"`

	FourInFive   int     `json:"four_in_five"`
	ShrunkPtsAvg float64 `json:"shrunk_pts_avg"`
}

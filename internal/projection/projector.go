// Package projection predicts a game's points from a derived feature row and scores
// those predictions against what actually happened.
package projection

import "nba-feature-stats/internal/model"

// Projector predicts points for one derived row.
type Projector interface {
	Name() string
	Project(row model.DerivedFeatureRow) float64
}

// RollingAverage projects the mean of the previous five games.
type RollingAverage struct{}

func (RollingAverage) Name() string { return "rolling_avg" }

func (RollingAverage) Project(row model.DerivedFeatureRow) float64 { return row.PtsLast5Avg }

// ShrunkAverage projects the rolling average pulled toward the season mean.
type ShrunkAverage struct{}

func (ShrunkAverage) Name() string { return "shrunk_avg" }

func (ShrunkAverage) Project(row model.DerivedFeatureRow) float64 { return row.ShrunkPtsAvg }

// Column names one regression input.
type Column struct {
	Name  string
	Value func(model.DerivedFeatureRow) float64
}

// TrainingColumns are the inputs the points model is trained on. PTS is the target and
// never an input.
var TrainingColumns = []Column{
	{"ast", func(r model.DerivedFeatureRow) float64 { return r.AST }},
	{"reb", func(r model.DerivedFeatureRow) float64 { return r.REB }},
	{"to", func(r model.DerivedFeatureRow) float64 { return r.TO }},
	{"efg_pct", func(r model.DerivedFeatureRow) float64 { return r.EFGPct }},
	{"ts_pct", func(r model.DerivedFeatureRow) float64 { return r.TSPct }},
	{"home", func(r model.DerivedFeatureRow) float64 { return float64(r.Home) }},
	{"days_rest", func(r model.DerivedFeatureRow) float64 { return r.DaysRest }},
	{"b2b", func(r model.DerivedFeatureRow) float64 { return float64(r.BackToBack) }},
	{"pts_last5_avg", func(r model.DerivedFeatureRow) float64 { return r.PtsLast5Avg }},
	{"ts_last5_avg", func(r model.DerivedFeatureRow) float64 { return r.TSLast5Avg }},
	{"off_rating", func(r model.DerivedFeatureRow) float64 { return r.OffRating }},
	{"def_rating", func(r model.DerivedFeatureRow) float64 { return r.DefRating }},
	{"net_rating", func(r model.DerivedFeatureRow) float64 { return r.NetRating }},
	{"pace", func(r model.DerivedFeatureRow) float64 { return r.Pace }},
	{"opp_off_rating", func(r model.DerivedFeatureRow) float64 { return r.OppOffRating }},
	{"opp_def_rating", func(r model.DerivedFeatureRow) float64 { return r.OppDefRating }},
	{"real_plus_minus", func(r model.DerivedFeatureRow) float64 { return r.RealPlusMinus }},
	{"injury_risk", func(r model.DerivedFeatureRow) float64 { return r.InjuryRisk }},
	{"proj_minutes", func(r model.DerivedFeatureRow) float64 { return r.ProjMinutes }},
	{"four_in_five", func(r model.DerivedFeatureRow) float64 { return float64(r.FourInFive) }},
	{"shrunk_pts_avg", func(r model.DerivedFeatureRow) float64 { return r.ShrunkPtsAvg }},
}

// ByName returns the built-in projector called name. Regression needs training first and
// is not returned here.
func ByName(name string) (Projector, bool) {
	switch name {
	case RollingAverage{}.Name():
		return RollingAverage{}, true
	case ShrunkAverage{}.Name():
		return ShrunkAverage{}, true
	default:
		return nil, false
	}
}

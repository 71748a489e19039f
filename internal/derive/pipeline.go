// Package derive widens a player's game log into a per-game training matrix.
package derive

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"nba-feature-stats/internal/logger"
	"nba-feature-stats/internal/model"
)

// ErrMissingContext is returned when the team or opponent identifier is absent.
var ErrMissingContext = errors.New("missing team or opponent context")

const (
	// RollingWindow is the number of prior games every rolling feature needs.
	RollingWindow = 5
	// DefaultDaysRest is assigned to the first game of a log.
	DefaultDaysRest = 2.0
	// InjuryRiskPlaceholder stands in for an injury model.
	InjuryRiskPlaceholder = 0.1
)

// MetricsSource supplies the season-level context broadcast onto every row.
type MetricsSource interface {
	TeamMetrics(ctx context.Context, teamID int64, season string) (model.TeamMetrics, error)
	PlayerImpact(ctx context.Context, playerID int64, season string) (model.PlayerImpact, error)
}

// Request identifies one derivation call.
type Request struct {
	PlayerID   int64
	TeamID     int64
	OpponentID int64
	Season     string
}

type Pipeline struct {
	metrics MetricsSource
	log     *logrus.Entry
}

func NewPipeline(metrics MetricsSource, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		metrics: metrics,
		log:     logger.WithComponent(log, "derive"),
	}
}

// Run derives features for a chronologically ascending log.
// Missing team/opponent ids, or any failed metrics lookup, fail the whole call.
func (p *Pipeline) Run(ctx context.Context, req Request, log []model.GameLogRow) ([]model.DerivedFeatureRow, error) {
	if req.TeamID == 0 || req.OpponentID == 0 {
		return nil, ErrMissingContext
	}

	team, err := p.metrics.TeamMetrics(ctx, req.TeamID, req.Season)
	if err != nil {
		return nil, fmt.Errorf("team metrics for %d: %w", req.TeamID, err)
	}
	opp, err := p.metrics.TeamMetrics(ctx, req.OpponentID, req.Season)
	if err != nil {
		return nil, fmt.Errorf("opponent metrics for %d: %w", req.OpponentID, err)
	}
	impact, err := p.metrics.PlayerImpact(ctx, req.PlayerID, req.Season)
	if err != nil {
		return nil, fmt.Errorf("player impact for %d: %w", req.PlayerID, err)
	}

	rows := Derive(log, Context{Team: team, Opponent: opp, Impact: impact})
	p.log.WithFields(logrus.Fields{
		"player_id": req.PlayerID,
		"games":     len(log),
		"rows":      len(rows),
	}).Info("Derived feature table")
	return rows, nil
}

// Context is the constant, season-level data attached to every row.
type Context struct {
	Team     model.TeamMetrics
	Opponent model.TeamMetrics
	Impact   model.PlayerImpact
}

// Derive computes the feature table for an ascending log. Rows without a full
// rolling window, or without logged minutes, are dropped.
func Derive(log []model.GameLogRow, c Context) []model.DerivedFeatureRow {
	n := len(log)
	if n == 0 {
		return []model.DerivedFeatureRow{}
	}

	pts := make([]float64, n)
	ts := make([]float64, n)
	efg := make([]float64, n)
	for i, g := range log {
		pts[i] = g.Stat("PTS")
		ts[i] = TrueShooting(g)
		efg[i] = EffectiveFieldGoal(g)
	}
	rest := RestDays(log)

	ptsAvg := ShiftedRollingMean(pts, RollingWindow)
	tsAvg := ShiftedRollingMean(ts, RollingWindow)
	fourInFive := FourInFive(rest, RollingWindow)
	rank := GameIDRank(log)
	seasonMean := mean(pts)

	out := make([]model.DerivedFeatureRow, 0, n)
	for i, g := range log {
		if math.IsNaN(ptsAvg[i]) || math.IsNaN(tsAvg[i]) || math.IsNaN(fourInFive[i]) {
			continue
		}
		// Undefined shooting ratios drop the row rather than being imputed.
		if math.IsNaN(ts[i]) || math.IsNaN(efg[i]) || !g.HasStat("MIN") {
			continue
		}

		row := model.DerivedFeatureRow{
			GameID:   g.GameID,
			GameDate: g.GameDate,
			Matchup:  g.Matchup,

			PTS: pts[i],
			AST: g.Stat("AST"),
			REB: g.Stat("REB"),
			TO:  g.Stat("TOV"),

			EFGPct: efg[i],
			TSPct:  ts[i],

			DaysRest: rest[i],

			PtsLast5Avg: ptsAvg[i],
			TSLast5Avg:  tsAvg[i],

			OffRating:    c.Team.OffRating,
			DefRating:    c.Team.DefRating,
			NetRating:    c.Team.NetRating,
			Pace:         c.Team.Pace,
			OppOffRating: c.Opponent.OffRating,
			OppDefRating: c.Opponent.DefRating,
			OppNetRating: c.Opponent.NetRating,
			OppPace:      c.Opponent.Pace,

			RealPlusMinus: c.Impact.PlusMinus,
			InjuryRisk:    InjuryRiskPlaceholder,
			ProjMinutes:   g.Stat("MIN"),

			FourInFive:   int(fourInFive[i]),
			ShrunkPtsAvg: Shrink(ptsAvg[i], seasonMean, rank[i]),
		}
		if g.IsHome() {
			row.Home = 1
		}
		row.BackToBack = BackToBack(rest[i])
		out = append(out, row)
	}
	return out
}

// EffectiveFieldGoal is (FGM + 0.5*FG3M) / FGA. Zero attempts leave it undefined (NaN).
func EffectiveFieldGoal(g model.GameLogRow) float64 {
	fga := g.Stat("FGA")
	if fga == 0 {
		return math.NaN()
	}
	return (g.Stat("FGM") + 0.5*g.Stat("FG3M")) / fga
}

// TrueShooting is PTS / (2 * (FGA + 0.44*FTA)). Zero attempts leave it undefined (NaN).
func TrueShooting(g model.GameLogRow) float64 {
	denom := 2 * (g.Stat("FGA") + 0.44*g.Stat("FTA"))
	if denom == 0 {
		return math.NaN()
	}
	return g.Stat("PTS") / denom
}

// RestDays returns the calendar-day gap before each game of an ascending log.
// The first game has no predecessor and gets DefaultDaysRest.
func RestDays(log []model.GameLogRow) []float64 {
	rest := make([]float64, len(log))
	for i, g := range log {
		if i == 0 {
			rest[i] = DefaultDaysRest
			continue
		}
		rest[i] = DaysBetween(log[i-1].GameDate, g.GameDate)
	}
	return rest
}

// BackToBack is 1 when the game follows the previous one by exactly one day.
func BackToBack(daysRest float64) int {
	if daysRest == 1 {
		return 1
	}
	return 0
}

// DaysBetween is the whole calendar-day gap from prev to cur.
func DaysBetween(prev, cur time.Time) float64 {
	return math.Floor(cur.Sub(prev).Hours() / 24)
}

// ShiftedRollingMean returns, for each index i, the mean of the window values strictly
// before i: mean(values[i-window : i]). Indices without a full window are NaN, so a
// game's own value never enters its own average. A NaN inside the window makes the
// mean NaN as well.
func ShiftedRollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if window <= 0 || i < window {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for _, v := range values[i-window : i] {
			sum += v
		}
		out[i] = sum / float64(window)
	}
	return out
}

// FourInFive flags games that are the fourth inside five calendar days. The flag is only
// defined once a full trailing window of rest counts exists; earlier indices are NaN.
func FourInFive(rest []float64, window int) []float64 {
	out := make([]float64, len(rest))
	for i := range rest {
		if i+1 < window || i < 3 {
			out[i] = math.NaN()
			continue
		}
		// rest[i-2] + rest[i-1] + rest[i] is the span from game i-3 to game i.
		if rest[i-2]+rest[i-1]+rest[i] <= 4 {
			out[i] = 1
		}
	}
	return out
}

// GameIDRank returns the 1-based ascending rank of each row's game id within the log.
// Game ids increase through the season, so the rank grows with recency.
func GameIDRank(log []model.GameLogRow) []float64 {
	idx := make([]int, len(log))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return log[idx[a]].GameID < log[idx[b]].GameID })

	rank := make([]float64, len(log))
	for pos := 0; pos < len(idx); {
		end := pos
		for end+1 < len(idx) && log[idx[end+1]].GameID == log[idx[pos]].GameID {
			end++
		}
		// Ties share the average of their positions.
		avg := float64(pos+end)/2 + 1
		for k := pos; k <= end; k++ {
			rank[idx[k]] = avg
		}
		pos = end + 1
	}
	return rank
}

// Shrink blends a rolling average toward the season mean. With rank r the rolling value
// carries weight r and the season mean weight 1, so later games trust recent form more.
func Shrink(rolling, seasonMean, rank float64) float64 {
	return (rolling*rank + seasonMean) / (rank + 1)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

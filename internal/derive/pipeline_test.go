package derive

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-feature-stats/internal/logger"
	"nba-feature-stats/internal/model"
)

var start = time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)

// ascendingLog builds games on the given day offsets from start, scoring 10, 11, 12, ...
func ascendingLog(offsets ...int) []model.GameLogRow {
	rows := make([]model.GameLogRow, len(offsets))
	for i, off := range offsets {
		rows[i] = model.GameLogRow{
			GameID:   fmt.Sprintf("00224%05d", i+1),
			GameDate: start.AddDate(0, 0, off),
			Matchup:  "LAL vs. GSW",
			Stats: map[string]float64{
				"PTS":  float64(10 + i),
				"AST":  5,
				"REB":  7,
				"TOV":  2,
				"FGM":  5,
				"FGA":  10,
				"FG3M": 2,
				"FTA":  5,
				"MIN":  30,
			},
		}
	}
	return rows
}

func everyOtherDay(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = 2 * i
	}
	return out
}

var testContext = Context{
	Team:     model.TeamMetrics{TeamID: 1610612747, OffRating: 115.2, DefRating: 111.8, NetRating: 3.4, Pace: 99.1},
	Opponent: model.TeamMetrics{TeamID: 1610612744, OffRating: 113.0, DefRating: 112.5, NetRating: 0.5, Pace: 101.3},
	Impact:   model.PlayerImpact{PlayerID: 2544, PlusMinus: 187},
}

func TestDerive_NeedsFullWindow(t *testing.T) {
	tests := []struct {
		games int
		want  int
	}{
		{0, 0},
		{4, 0},
		{5, 0},
		{6, 1},
		{10, 5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d games", tt.games), func(t *testing.T) {
			rows := Derive(ascendingLog(everyOtherDay(tt.games)...), testContext)
			assert.NotNil(t, rows)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestDerive_RollingAverageExcludesCurrentGame(t *testing.T) {
	rows := Derive(ascendingLog(everyOtherDay(6)...), testContext)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "0022400006", r.GameID)
	assert.Equal(t, 15.0, r.PTS)
	// Games 1-5 scored 10..14.
	assert.InDelta(t, 12.0, r.PtsLast5Avg, 1e-9)
	assert.InDelta(t, 12.0/24.4, r.TSLast5Avg, 1e-9)
}

func TestDerive_ShootingEfficiency(t *testing.T) {
	rows := Derive(ascendingLog(everyOtherDay(6)...), testContext)
	require.Len(t, rows, 1)

	assert.InDelta(t, 0.6, rows[0].EFGPct, 1e-9)
	assert.InDelta(t, 15.0/24.4, rows[0].TSPct, 1e-9)
}

func TestShootingRatios_ZeroAttemptsAreUndefined(t *testing.T) {
	g := model.GameLogRow{Stats: map[string]float64{"PTS": 0, "FGA": 0, "FTA": 0}}
	assert.True(t, math.IsNaN(EffectiveFieldGoal(g)))
	assert.True(t, math.IsNaN(TrueShooting(g)))

	// Free throws alone still define TS%.
	g = model.GameLogRow{Stats: map[string]float64{"PTS": 2, "FGA": 0, "FTA": 2}}
	assert.True(t, math.IsNaN(EffectiveFieldGoal(g)))
	assert.InDelta(t, 2/(2*0.88), TrueShooting(g), 1e-9)
}

func TestDerive_ZeroAttemptGameDropsItselfAndItsWindow(t *testing.T) {
	log := ascendingLog(everyOtherDay(12)...)
	for _, code := range []string{"PTS", "FGM", "FGA", "FG3M", "FTA"} {
		log[5].Stats[code] = 0
	}

	rows := Derive(log, testContext)
	// Game 6 has no TS%; games 7-11 carry it in their trailing window.
	require.Len(t, rows, 1)
	assert.Equal(t, "0022400012", rows[0].GameID)
	assert.False(t, math.IsNaN(rows[0].TSLast5Avg))
	// Games 7-11 scored 16..20 on the same attempts.
	assert.InDelta(t, 18.0/24.4, rows[0].TSLast5Avg, 1e-9)
}

func TestDerive_UndefinedEFGDropsOnlyThatGame(t *testing.T) {
	log := ascendingLog(everyOtherDay(12)...)
	log[5].Stats["FGA"] = 0
	log[5].Stats["FGM"] = 0
	log[5].Stats["FG3M"] = 0

	rows := Derive(log, testContext)
	require.Len(t, rows, 6)
	assert.Equal(t, "0022400007", rows[0].GameID)
	for _, r := range rows {
		assert.False(t, math.IsNaN(r.EFGPct))
		assert.False(t, math.IsNaN(r.TSLast5Avg))
	}
}

func TestDerive_BroadcastsContext(t *testing.T) {
	rows := Derive(ascendingLog(everyOtherDay(8)...), testContext)
	require.Len(t, rows, 3)

	for _, r := range rows {
		assert.Equal(t, 115.2, r.OffRating)
		assert.Equal(t, 111.8, r.DefRating)
		assert.Equal(t, 3.4, r.NetRating)
		assert.Equal(t, 99.1, r.Pace)
		assert.Equal(t, 113.0, r.OppOffRating)
		assert.Equal(t, 112.5, r.OppDefRating)
		assert.Equal(t, 0.5, r.OppNetRating)
		assert.Equal(t, 101.3, r.OppPace)
		assert.Equal(t, 187.0, r.RealPlusMinus)
		assert.Equal(t, InjuryRiskPlaceholder, r.InjuryRisk)
		assert.Equal(t, 30.0, r.ProjMinutes)
		assert.Equal(t, 1, r.Home)
	}
}

func TestDerive_AwayGame(t *testing.T) {
	log := ascendingLog(everyOtherDay(6)...)
	log[5].Matchup = "LAL @ GSW"

	rows := Derive(log, testContext)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Home)
}

func TestDerive_RestAndBackToBack(t *testing.T) {
	// Rest gaps: 2 (first game), 2, 2, 2, 1, 1, 3.
	rows := Derive(ascendingLog(0, 2, 4, 6, 7, 8, 11), testContext)
	require.Len(t, rows, 2)

	assert.Equal(t, 1.0, rows[0].DaysRest)
	assert.Equal(t, 1, rows[0].BackToBack)
	assert.Equal(t, 3.0, rows[1].DaysRest)
	assert.Equal(t, 0, rows[1].BackToBack)
}

func TestDerive_FourInFive(t *testing.T) {
	// Games 4..7 land on days 6, 7, 8, 9.
	rows := Derive(ascendingLog(0, 2, 4, 6, 7, 8, 9), testContext)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].FourInFive)
	assert.Equal(t, 1, rows[1].FourInFive)

	rows = Derive(ascendingLog(everyOtherDay(7)...), testContext)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].FourInFive)
	assert.Equal(t, 0, rows[1].FourInFive)
}

func TestDerive_ShrunkAverage(t *testing.T) {
	rows := Derive(ascendingLog(everyOtherDay(6)...), testContext)
	require.Len(t, rows, 1)

	// Rolling 12, season mean 12.5, rank 6.
	assert.InDelta(t, (12.0*6+12.5)/7, rows[0].ShrunkPtsAvg, 1e-9)
}

func TestDerive_DropsRowsWithoutMinutes(t *testing.T) {
	log := ascendingLog(everyOtherDay(7)...)
	delete(log[5].Stats, "MIN")

	rows := Derive(log, testContext)
	require.Len(t, rows, 1)
	assert.Equal(t, "0022400007", rows[0].GameID)
}

func TestShiftedRollingMean(t *testing.T) {
	got := ShiftedRollingMean([]float64{1, 2, 3, 4}, 2)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, 1.5, got[2])
	assert.Equal(t, 2.5, got[3])
}

func TestShiftedRollingMean_NaNPoisonsWindow(t *testing.T) {
	got := ShiftedRollingMean([]float64{1, math.NaN(), 3, 4, 5}, 2)
	assert.True(t, math.IsNaN(got[2]))
	assert.True(t, math.IsNaN(got[3]))
	assert.Equal(t, 3.5, got[4])
}

func TestRestDays_FirstGameDefaultIsNotBackToBack(t *testing.T) {
	rest := RestDays(ascendingLog(0, 1, 4))
	assert.Equal(t, []float64{DefaultDaysRest, 1, 3}, rest)

	assert.Equal(t, 0, BackToBack(rest[0]))
	assert.Equal(t, 1, BackToBack(rest[1]))
	assert.Equal(t, 0, BackToBack(rest[2]))
	assert.Empty(t, RestDays(nil))
}

func TestGameIDRank(t *testing.T) {
	log := []model.GameLogRow{{GameID: "0022400003"}, {GameID: "0022400001"}, {GameID: "0022400002"}}
	assert.Equal(t, []float64{3, 1, 2}, GameIDRank(log))
}

type fakeMetrics struct {
	teams     map[int64]model.TeamMetrics
	impact    model.PlayerImpact
	teamErr   error
	impactErr error
}

func (f *fakeMetrics) TeamMetrics(ctx context.Context, teamID int64, season string) (model.TeamMetrics, error) {
	if f.teamErr != nil {
		return model.TeamMetrics{}, f.teamErr
	}
	return f.teams[teamID], nil
}

func (f *fakeMetrics) PlayerImpact(ctx context.Context, playerID int64, season string) (model.PlayerImpact, error) {
	if f.impactErr != nil {
		return model.PlayerImpact{}, f.impactErr
	}
	return f.impact, nil
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		teams: map[int64]model.TeamMetrics{
			testContext.Team.TeamID:     testContext.Team,
			testContext.Opponent.TeamID: testContext.Opponent,
		},
		impact: testContext.Impact,
	}
}

func TestPipeline_Run(t *testing.T) {
	p := NewPipeline(newFakeMetrics(), logger.Discard())

	rows, err := p.Run(context.Background(), Request{
		PlayerID:   2544,
		TeamID:     testContext.Team.TeamID,
		OpponentID: testContext.Opponent.TeamID,
		Season:     "2024-25",
	}, ascendingLog(everyOtherDay(7)...))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 101.3, rows[0].OppPace)
	assert.Equal(t, 187.0, rows[1].RealPlusMinus)
}

func TestPipeline_MissingContext(t *testing.T) {
	p := NewPipeline(newFakeMetrics(), logger.Discard())
	log := ascendingLog(everyOtherDay(7)...)

	_, err := p.Run(context.Background(), Request{PlayerID: 2544, OpponentID: 1610612744}, log)
	assert.True(t, errors.Is(err, ErrMissingContext))

	_, err = p.Run(context.Background(), Request{PlayerID: 2544, TeamID: 1610612747}, log)
	assert.True(t, errors.Is(err, ErrMissingContext))
}

func TestPipeline_MetricsFailureIsFatal(t *testing.T) {
	boom := errors.New("stats api down")
	log := ascendingLog(everyOtherDay(7)...)
	req := Request{PlayerID: 2544, TeamID: 1610612747, OpponentID: 1610612744, Season: "2024-25"}

	m := newFakeMetrics()
	m.teamErr = boom
	rows, err := NewPipeline(m, logger.Discard()).Run(context.Background(), req, log)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, rows)

	m = newFakeMetrics()
	m.impactErr = boom
	rows, err = NewPipeline(m, logger.Discard()).Run(context.Background(), req, log)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, rows)
}

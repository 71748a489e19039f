package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-feature-stats/internal/model"
)

// linearRows scores exactly 2*AST + 3*REB + 1 points per game.
func linearRows(n int) []model.DerivedFeatureRow {
	rows := make([]model.DerivedFeatureRow, n)
	for i := range rows {
		ast := float64(i % 7)
		reb := float64((i * 3) % 11)
		rows[i] = model.DerivedFeatureRow{
			AST:         ast,
			REB:         reb,
			PTS:         2*ast + 3*reb + 1,
			OffRating:   115.2,
			InjuryRisk:  0.1,
			PtsLast5Avg: 20,
		}
	}
	return rows
}

func TestBuiltInProjectors(t *testing.T) {
	row := model.DerivedFeatureRow{PtsLast5Avg: 24.2, ShrunkPtsAvg: 23.9}
	assert.Equal(t, 24.2, RollingAverage{}.Project(row))
	assert.Equal(t, 23.9, ShrunkAverage{}.Project(row))

	p, ok := ByName("shrunk_avg")
	require.True(t, ok)
	assert.Equal(t, "shrunk_avg", p.Name())
	_, ok = ByName("random_forest")
	assert.False(t, ok)
}

func TestTrainingColumnsExcludeTarget(t *testing.T) {
	for _, c := range TrainingColumns {
		assert.NotEqual(t, "pts", c.Name)
	}
	assert.Len(t, TrainingColumns, 21)
}

func TestLinearRegression_RecoversLinearRelation(t *testing.T) {
	rows := linearRows(60)
	m := NewLinearRegression(1e-6)
	require.NoError(t, m.Fit(rows))

	for _, r := range rows[:10] {
		assert.InDelta(t, r.PTS, m.Project(r), 1e-3)
	}
	assert.InDelta(t, 0, RMSE(m, rows), 1e-3)

	coef, err := m.Coefficients()
	require.NoError(t, err)
	// Constant columns carry no weight.
	assert.Equal(t, 0.0, coef["off_rating"])
	assert.Equal(t, 0.0, coef["injury_risk"])
}

func TestLinearRegression_Unfitted(t *testing.T) {
	m := NewLinearRegression(0)
	assert.Equal(t, DefaultLambda, m.Lambda)
	assert.True(t, math.IsNaN(m.Project(model.DerivedFeatureRow{})))
	_, err := m.Coefficients()
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.Error(t, m.Fit(nil))
}

func TestLinearRegression_ConstantTableFallsBackToMean(t *testing.T) {
	rows := []model.DerivedFeatureRow{{PTS: 20}, {PTS: 30}}
	m := NewLinearRegression(1)
	require.NoError(t, m.Fit(rows))
	assert.Equal(t, 25.0, m.Project(model.DerivedFeatureRow{AST: 100}))
}

func TestSplit(t *testing.T) {
	rows := linearRows(10)

	train, test := Split(rows, 0.2, 42)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)

	train2, test2 := Split(rows, 0.2, 42)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	train, test = Split(rows, 0, 42)
	assert.Len(t, train, 10)
	assert.Empty(t, test)

	train, test = Split(rows[:2], 1, 42)
	assert.Len(t, train, 1)
	assert.Len(t, test, 1)
}

func TestEvaluate(t *testing.T) {
	rows := []model.DerivedFeatureRow{
		{PTS: 20, PtsLast5Avg: 22},
		{PTS: 30, PtsLast5Avg: 26},
	}
	ev := Evaluate(RollingAverage{}, rows)
	assert.Equal(t, "rolling_avg", ev.Projector)
	assert.Equal(t, 2, ev.Rows)
	assert.InDelta(t, math.Sqrt(10), ev.RMSE, 1e-9)
	assert.InDelta(t, 3.0, ev.MAE, 1e-9)

	assert.True(t, math.IsNaN(Evaluate(RollingAverage{}, nil).RMSE))
}

package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-feature-stats/internal/model"
)

func TestParseGameDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"APR 13, 2025", "2025-04-13"},
		{"Apr 03, 2025", "2025-04-03"},
		{"2025-01-07", "2025-01-07"},
		{"2025-01-07T00:00:00", "2025-01-07"},
	}
	for _, tt := range tests {
		got, err := ParseGameDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.Format("2006-01-02"), tt.in)
	}

	_, err := ParseGameDate("yesterday")
	assert.Error(t, err)
}

func TestTable_RejectsRaggedRows(t *testing.T) {
	_, err := NewTable(&model.ResultSet{
		Name:    "PlayerGameLog",
		Headers: []string{"A", "B"},
		RowSet:  [][]any{{1.0}},
	})
	assert.Error(t, err)

	_, err = NewTable(nil)
	assert.Error(t, err)
}

func TestTable_CaseInsensitiveColumns(t *testing.T) {
	table, err := NewTable(&model.ResultSet{
		Headers: []string{"Game_ID", "MIN"},
		RowSet:  [][]any{{"0022400001", "34:30"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "0022400001", table.String(0, "GAME_ID"))
	mins, ok := table.Float(0, "min")
	require.True(t, ok)
	assert.InDelta(t, 34.5, mins, 1e-9)

	_, ok = table.Float(0, "PTS")
	assert.False(t, ok)
}

func TestGameLogRows_MissingColumn(t *testing.T) {
	table, err := NewTable(&model.ResultSet{Headers: []string{"GAME_ID", "GAME_DATE"}})
	require.NoError(t, err)

	_, err = GameLogRows(table, model.SeasonTypeRegular)
	assert.ErrorContains(t, err, "MATCHUP")
}

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-feature-stats/internal/config"
	"nba-feature-stats/internal/logger"
	"nba-feature-stats/internal/model"
	"nba-feature-stats/internal/roster"
)

type fakeFetcher struct {
	logs  map[int64][]model.GameLogRow
	calls map[int64]int
}

func (f *fakeFetcher) Fetch(ctx context.Context, playerID int64) []model.GameLogRow {
	if f.calls == nil {
		f.calls = map[int64]int{}
	}
	f.calls[playerID]++
	return f.logs[playerID]
}

func game(date, matchup string, pts, reb float64) model.GameLogRow {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.GameLogRow{
		GameID:   "00224" + date,
		GameDate: d,
		Matchup:  matchup,
		Stats:    map[string]float64{"PTS": pts, "REB": reb},
	}
}

func newEngine(f *fakeFetcher) *Engine {
	r := roster.New([]model.Player{
		{ID: 2544, FullName: "LeBron James"},
		{ID: 201939, FullName: "Stephen Curry"},
	})
	return New(r, f, config.WindowConfig{RecentForm: 15, OpponentHistory: 3}, logger.Discard())
}

func lebronLog() []model.GameLogRow {
	return []model.GameLogRow{
		game("2025-04-10", "LAL vs. GSW", 30, 8),
		game("2025-04-08", "LAL @ BOS", 22, 10),
		game("2025-04-06", "LAL @ GSW", 25, 6),
	}
}

func TestRun_OneRecordPerEntryInOrder(t *testing.T) {
	f := &fakeFetcher{logs: map[int64][]model.GameLogRow{2544: lebronLog()}}
	entries := []model.CheatSheetEntry{
		{PlayerName: "LeBron James", Feature: "pts_reb", Opponent: "GSW"},
		{PlayerName: "Nobody Atall", Feature: "PTS", Opponent: "BOS"},
		{PlayerName: "LeBron James", Feature: "PTS", Opponent: "BOS"},
	}

	res, err := newEngine(f).Run(context.Background(), entries)
	require.NoError(t, err)

	require.Len(t, res.Records, len(entries))
	for i, e := range entries {
		assert.Equal(t, e.PlayerName, res.Records[i].PlayerName)
		assert.Equal(t, e.Feature, res.Records[i].Feature)
	}
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 1, res.Unresolved)

	first := res.Records[0]
	assert.Equal(t, []float64{38, 32, 31}, first.Last15Feature)
	assert.Equal(t, []string{"2025-04-10", "2025-04-08", "2025-04-06"}, first.Last15GameDates)
	assert.Equal(t, []string{"GSW", "BOS", "GSW"}, first.Last15Opponents)
	assert.Equal(t, []float64{38, 31}, first.Last3VsOpponentFeature)
	assert.Equal(t, []string{"2025-04-10", "2025-04-06"}, first.Last3GameDates)

	assert.Equal(t, []float64{22}, res.Records[2].Last3VsOpponentFeature)
	// The second LeBron entry reuses the log fetched for the first.
	assert.Equal(t, 1, f.calls[2544])
}

func TestRun_UnknownPlayerGetsEmptyArrays(t *testing.T) {
	f := &fakeFetcher{}
	res, err := newEngine(f).Run(context.Background(), []model.CheatSheetEntry{
		{PlayerName: "lebron james", Feature: "PTS", Opponent: "GSW"},
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Empty(t, f.calls)

	raw, err := json.Marshal(res.Records[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"player_name": "lebron james",
		"feature": "PTS",
		"opponent": "GSW",
		"threshold": null,
		"last15_feature": [],
		"last15_game_dates": [],
		"last15_opponents": [],
		"last3_vs_opponent_feature": [],
		"last3_game_dates": [],
		"last3_opponents": []
	}`, string(raw))
}

func TestRun_NoHistory(t *testing.T) {
	f := &fakeFetcher{logs: map[int64][]model.GameLogRow{}}
	res, err := newEngine(f).Run(context.Background(), []model.CheatSheetEntry{
		{PlayerName: "Stephen Curry", Feature: "FG3M"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.NoHistory)
	assert.Equal(t, 0, res.Records[0].RecentForm().Len())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine(&fakeFetcher{}).Run(ctx, []model.CheatSheetEntry{{PlayerName: "LeBron James"}})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunAndWrite(t *testing.T) {
	f := &fakeFetcher{logs: map[int64][]model.GameLogRow{2544: lebronLog()}}
	path := filepath.Join(t.TempDir(), "public", "data", "nba_feature_stats.json")
	src := StaticSource{{PlayerName: "LeBron James", Feature: "REB", Threshold: model.PropLine{Value: 7.5, Valid: true}}}

	res, err := newEngine(f).RunAndWrite(context.Background(), src, path)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []model.FeatureRecord
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got, 1)
	assert.Equal(t, []float64{8, 10, 6}, got[0].Last15Feature)
	assert.Equal(t, 7.5, got[0].Threshold.Value)
	assert.Contains(t, string(raw), "\n  {\n    \"player_name\"")
}

type failingSource struct{}

func (failingSource) Entries(ctx context.Context) ([]model.CheatSheetEntry, error) {
	return nil, errors.New("aggregator down")
}

func TestRunAndWrite_SourceError(t *testing.T) {
	_, err := newEngine(&fakeFetcher{}).RunAndWrite(context.Background(), failingSource{}, filepath.Join(t.TempDir(), "out.json"))
	assert.ErrorContains(t, err, "aggregator down")
}

func TestRun_OpponentMatchIgnoresCase(t *testing.T) {
	f := &fakeFetcher{logs: map[int64][]model.GameLogRow{2544: lebronLog()}}
	res, err := newEngine(f).Run(context.Background(), []model.CheatSheetEntry{
		{PlayerName: "LeBron James", Feature: "PTS", Opponent: " gsw "},
		{PlayerName: "LeBron James", Feature: "PTS", Opponent: "GSW"},
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.Equal(t, " gsw ", res.Records[0].Opponent)
	assert.Equal(t, []float64{30, 25}, res.Records[0].Last3VsOpponentFeature)
	assert.Equal(t, res.Records[1].Last3VsOpponentFeature, res.Records[0].Last3VsOpponentFeature)
	assert.Equal(t, []string{"GSW", "GSW"}, res.Records[0].Last3Opponents)
}

func TestRunAndWrite_BadThresholdKeepsEveryRecord(t *testing.T) {
	dir := t.TempDir()
	sheet := filepath.Join(dir, "cheatsheet.json")
	require.NoError(t, os.WriteFile(sheet, []byte(`[
		{"player_name": "LeBron James", "feature": "PTS", "opponent": "GSW", "threshold": 24.5},
		{"player_name": "LeBron James", "feature": "REB", "opponent": "BOS", "threshold": "N/A"},
		{"player_name": "Stephen Curry", "feature": "FG3M", "threshold": "4.5"}
	]`), 0o644))
	out := filepath.Join(dir, "out.json")

	f := &fakeFetcher{logs: map[int64][]model.GameLogRow{2544: lebronLog()}}
	res, err := newEngine(f).RunAndWrite(context.Background(), FileSource(sheet), out)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var got []model.FeatureRecord
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got, 3)

	assert.Equal(t, 24.5, got[0].Threshold.Value)
	assert.Equal(t, "REB", got[1].Feature)
	assert.False(t, got[1].Threshold.Valid)
	assert.Equal(t, []float64{8, 10, 6}, got[1].Last15Feature)
	assert.Equal(t, 4.5, got[2].Threshold.Value)
}

func TestRun_FeatureWithoutCodesSumsToZero(t *testing.T) {
	f := &fakeFetcher{logs: map[int64][]model.GameLogRow{2544: lebronLog()}}
	res, err := newEngine(f).Run(context.Background(), []model.CheatSheetEntry{
		{PlayerName: "LeBron James", Feature: " , _ "},
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, []float64{0, 0, 0}, res.Records[0].Last15Feature)
	assert.Len(t, res.Records[0].Last15GameDates, 3)
}

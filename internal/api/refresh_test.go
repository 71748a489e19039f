package api

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-feature-stats/internal/api/handlers"
	"nba-feature-stats/internal/config"
	"nba-feature-stats/internal/data"
	"nba-feature-stats/internal/logger"
	"nba-feature-stats/internal/model"
	"nba-feature-stats/internal/pipeline"
	"nba-feature-stats/internal/roster"
)

type emptyFetcher struct{}

func (emptyFetcher) Fetch(ctx context.Context, playerID int64) []model.GameLogRow { return nil }

type brokenSource struct{}

func (brokenSource) Entries(ctx context.Context) ([]model.CheatSheetEntry, error) {
	return nil, errors.New("cheat sheet unavailable")
}

func newRefresher(t *testing.T, src pipeline.EntrySource) (*Refresher, *handlers.FeatureStore, string) {
	path := filepath.Join(t.TempDir(), "nba_feature_stats.json")
	store := handlers.NewFeatureStore(path)
	engine := pipeline.New(roster.New(nil), emptyFetcher{}, config.WindowConfig{}, logger.Discard())
	return NewRefresher(engine, src, path, store, logger.Discard()), store, path
}

func TestRefresher_RunOnce(t *testing.T) {
	r, store, path := newRefresher(t, pipeline.StaticSource{
		{PlayerName: "LeBron James", Feature: "PTS"},
		{PlayerName: "Stephen Curry", Feature: "FG3M"},
	})

	require.NoError(t, r.RunOnce(context.Background()))

	records, updated := store.Snapshot()
	assert.Len(t, records, 2)
	assert.False(t, updated.IsZero())

	onDisk, err := data.LoadFeatureStatsJSON(path)
	require.NoError(t, err)
	assert.Len(t, onDisk, 2)

	last, lastErr := r.LastRun()
	assert.False(t, last.IsZero())
	assert.NoError(t, lastErr)
}

func TestRefresher_FailureKeepsPreviousArtifact(t *testing.T) {
	r, store, _ := newRefresher(t, brokenSource{})
	store.Replace([]model.FeatureRecord{{PlayerName: "LeBron James"}})

	err := r.RunOnce(context.Background())
	assert.ErrorContains(t, err, "cheat sheet unavailable")

	records, _ := store.Snapshot()
	assert.Len(t, records, 1)
	_, lastErr := r.LastRun()
	assert.Error(t, lastErr)
}

func TestRefresher_InvalidSchedule(t *testing.T) {
	r, _, _ := newRefresher(t, pipeline.StaticSource{})
	assert.Error(t, r.Start("every tuesday"))
}

func TestRefresher_StartStop(t *testing.T) {
	r, _, _ := newRefresher(t, pipeline.StaticSource{})
	assert.True(t, r.NextRun(time.Now()).IsZero())

	require.NoError(t, r.Start("0 6 * * *"))
	defer r.Stop()

	now := time.Date(2025, 1, 15, 8, 30, 0, 0, time.Local)
	want := time.Date(2025, 1, 16, 6, 0, 0, 0, time.Local)
	assert.True(t, want.Equal(r.NextRun(now)), "next run %s", r.NextRun(now))
	assert.True(t, r.NextRun(time.Now()).After(time.Now()))
}

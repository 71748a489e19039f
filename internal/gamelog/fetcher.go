// Package gamelog retrieves a player's season of boxscores across season types.
package gamelog

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"nba-feature-stats/internal/logger"
	"nba-feature-stats/internal/model"
)

// Source is the external game-log query, one call per (player, season, season type).
type Source interface {
	PlayerGameLog(ctx context.Context, playerID int64, season, seasonType string) ([]model.GameLogRow, error)
}

// SeasonTypes are fetched in this order for every player.
var SeasonTypes = []string{model.SeasonTypeRegular, model.SeasonTypePlayoffs}

// SubFetchResult is the outcome of one sub-fetch: rows on success, Err on failure.
type SubFetchResult struct {
	SeasonType string
	Rows       []model.GameLogRow
	Err        error
}

func (r SubFetchResult) OK() bool { return r.Err == nil }

// Fetcher runs the sub-fetches for one player sequentially with a fixed pause after each.
type Fetcher struct {
	source Source
	season string
	pause  time.Duration
	log    *logrus.Entry

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration)
}

func NewFetcher(source Source, season string, pause time.Duration, log logrus.FieldLogger) *Fetcher {
	return &Fetcher{
		source: source,
		season: season,
		pause:  pause,
		log:    logger.WithComponent(log, "gamelog_fetcher"),
		sleep:  sleepContext,
	}
}

// Fetch returns the player's merged log, most recent game first.
// Sub-fetch failures are logged and contribute no rows; Fetch itself never fails.
func (f *Fetcher) Fetch(ctx context.Context, playerID int64) []model.GameLogRow {
	results := f.FetchAll(ctx, playerID)
	return Merge(results, f.log.WithField("player_id", playerID))
}

// FetchAll runs every sub-fetch and returns their individual results.
func (f *Fetcher) FetchAll(ctx context.Context, playerID int64) []SubFetchResult {
	results := make([]SubFetchResult, 0, len(SeasonTypes))
	for _, st := range SeasonTypes {
		res := SubFetchResult{SeasonType: st}
		if err := ctx.Err(); err != nil {
			res.Err = err
		} else {
			res.Rows, res.Err = f.source.PlayerGameLog(ctx, playerID, f.season, st)
		}
		results = append(results, res)
		f.sleep(ctx, f.pause)
	}
	return results
}

// Merge concatenates the successful sub-results and orders them by game date descending.
// Failed sub-results are logged. No successful rows yields an empty, non-nil log.
func Merge(results []SubFetchResult, log logrus.FieldLogger) []model.GameLogRow {
	total := 0
	for _, r := range results {
		total += len(r.Rows)
	}
	merged := make([]model.GameLogRow, 0, total)
	for _, r := range results {
		if !r.OK() {
			if log != nil {
				log.WithFields(logrus.Fields{
					"season_type": r.SeasonType,
				}).WithError(r.Err).Warn("Game log sub-fetch failed; continuing without it")
			}
			continue
		}
		merged = append(merged, r.Rows...)
	}
	SortDescending(merged)
	return merged
}

// SortDescending orders rows most-recent-first; ties fall back to game id descending.
func SortDescending(rows []model.GameLogRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].GameDate.Equal(rows[j].GameDate) {
			return rows[i].GameDate.After(rows[j].GameDate)
		}
		return rows[i].GameID > rows[j].GameID
	})
}

// Ascending returns a chronologically ascending copy of a most-recent-first log.
func Ascending(rows []model.GameLogRow) []model.GameLogRow {
	out := make([]model.GameLogRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].GameDate.Equal(out[j].GameDate) {
			return out[i].GameDate.Before(out[j].GameDate)
		}
		return out[i].GameID < out[j].GameID
	})
	return out
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Package pipeline runs the feature-stats batch: resolve each cheat-sheet player, fetch the
// game log, aggregate the requested stat combination and write one record per entry.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nba-feature-stats/internal/config"
	"nba-feature-stats/internal/data"
	"nba-feature-stats/internal/features"
	"nba-feature-stats/internal/logger"
	"nba-feature-stats/internal/model"
)

// Resolver maps a display name to a player id.
type Resolver interface {
	Resolve(name string) (int64, bool)
}

// LogFetcher returns a most-recent-first game log. Failures surface as an empty log.
type LogFetcher interface {
	Fetch(ctx context.Context, playerID int64) []model.GameLogRow
}

// EntrySource provides the cheat-sheet entries that seed a run.
type EntrySource interface {
	Entries(ctx context.Context) ([]model.CheatSheetEntry, error)
}

type Engine struct {
	resolver Resolver
	fetcher  LogFetcher
	windows  config.WindowConfig
	log      logrus.FieldLogger
}

func New(resolver Resolver, fetcher LogFetcher, windows config.WindowConfig, log logrus.FieldLogger) *Engine {
	if windows.RecentForm <= 0 {
		windows.RecentForm = 15
	}
	if windows.OpponentHistory <= 0 {
		windows.OpponentHistory = 3
	}
	return &Engine{
		resolver: resolver,
		fetcher:  fetcher,
		windows:  windows,
		log:      logger.WithComponent(log, "pipeline"),
	}
}

// Result summarises one batch run.
type Result struct {
	RunID   string
	Records []model.FeatureRecord

	Unresolved int
	NoHistory  int
	Duration   time.Duration
}

// Run produces exactly one record per entry, in input order. Unknown players and failed
// fetches yield records with empty series; only context cancellation aborts the run.
func (e *Engine) Run(ctx context.Context, entries []model.CheatSheetEntry) (*Result, error) {
	runID := uuid.NewString()
	log := logger.WithRun(e.log, runID)
	start := time.Now()

	res := &Result{
		RunID:   runID,
		Records: make([]model.FeatureRecord, 0, len(entries)),
	}
	// A player listed under several features is fetched once per run.
	logs := make(map[int64][]model.GameLogRow)

	log.WithField("entries", len(entries)).Info("Starting feature stats run")
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run %s cancelled at entry %d: %w", runID, i, err)
		}

		var gameLog []model.GameLogRow
		playerID, ok := e.resolver.Resolve(entry.PlayerName)
		if !ok {
			res.Unresolved++
			log.WithField("player", entry.PlayerName).Warn("Player not found; emitting empty series")
		} else {
			cached, seen := logs[playerID]
			if !seen {
				cached = e.fetcher.Fetch(ctx, playerID)
				logs[playerID] = cached
			}
			gameLog = cached
			if len(gameLog) == 0 {
				res.NoHistory++
				logger.WithPlayer(log, entry.PlayerName, playerID).Info("No game history")
			}
		}

		if entry.Threshold.Malformed() {
			log.WithFields(logrus.Fields{
				"player":    entry.PlayerName,
				"threshold": entry.Threshold.Raw,
			}).Warn("Threshold is not numeric; emitting record without a line")
		}

		combo := features.ParseCombo(entry.Feature)
		if combo.Empty() {
			log.WithFields(logrus.Fields{
				"player":  entry.PlayerName,
				"feature": entry.Feature,
			}).Warn("Feature has no stat codes; every game sums to zero")
		}
		recent := features.RecentForm(combo, gameLog, e.windows.RecentForm)
		// Matchups are upper-case; the record keeps the opponent as sent.
		opponent := strings.ToUpper(strings.TrimSpace(entry.Opponent))
		history := features.OpponentHistory(combo, gameLog, opponent, e.windows.OpponentHistory)
		res.Records = append(res.Records, Assemble(entry, recent, history))
	}

	res.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"records":    len(res.Records),
		"unresolved": res.Unresolved,
		"no_history": res.NoHistory,
		"duration":   res.Duration.String(),
	}).Info("Feature stats run complete")
	return res, nil
}

// RunAndWrite loads entries from src, runs the batch and writes the JSON artifact to path.
func (e *Engine) RunAndWrite(ctx context.Context, src EntrySource, path string) (*Result, error) {
	entries, err := src.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cheat sheet: %w", err)
	}
	res, err := e.Run(ctx, entries)
	if err != nil {
		return nil, err
	}
	if err := data.WriteJSON(path, res.Records); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return res, nil
}

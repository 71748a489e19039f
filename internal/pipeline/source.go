package pipeline

import (
	"context"

	"nba-feature-stats/internal/data"
	"nba-feature-stats/internal/model"
)

// FileSource reads cheat-sheet entries from a local JSON file instead of the aggregator.
type FileSource string

func (f FileSource) Entries(ctx context.Context) ([]model.CheatSheetEntry, error) {
	return data.LoadCheatSheetJSON(string(f))
}

// StaticSource serves a fixed entry list.
type StaticSource []model.CheatSheetEntry

func (s StaticSource) Entries(ctx context.Context) ([]model.CheatSheetEntry, error) {
	return s, nil
}

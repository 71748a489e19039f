package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"nba-feature-stats/internal/model"
)

// LoadCheatSheetJSON reads a saved cheat sheet, for offline runs.
func LoadCheatSheetJSON(path string) ([]model.CheatSheetEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeCheatSheet(raw)
}

// LoadStatsJSON reads a saved stats API response.
func LoadStatsJSON(path string) (*model.StatsResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var resp model.StatsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoadGameLogJSON reads a saved playergamelog response into rows.
func LoadGameLogJSON(path, seasonType string) ([]model.GameLogRow, error) {
	resp, err := LoadStatsJSON(path)
	if err != nil {
		return nil, err
	}
	table, err := NewTable(resp.First())
	if err != nil {
		return nil, err
	}
	return GameLogRows(table, seasonType)
}

// LoadFeatureStatsJSON reads a feature-stats artifact written by a batch run.
func LoadFeatureStatsJSON(path string) ([]model.FeatureRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []model.FeatureRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if records == nil {
		records = []model.FeatureRecord{}
	}
	return records, nil
}

// WriteJSON writes v as two-space indented JSON, creating parent directories.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

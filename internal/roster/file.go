package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"nba-feature-stats/internal/model"
)

// File is the on-disk roster snapshot written by cmd/update-roster.
type File struct {
	Season    string         `json:"season"`
	UpdatedAt string         `json:"updated_at"` // ISO 8601 timestamp
	Players   []model.Player `json:"players"`
	Teams     []model.Team   `json:"teams,omitempty"`
}

// LoadFile loads a roster snapshot from a JSON file.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}

	return &f, nil
}

// SaveFile writes a roster snapshot as indented JSON, creating parent directories.
func SaveFile(f *File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write roster file: %w", err)
	}

	return nil
}

// Load builds the player roster and team lookup from a snapshot file.
// Snapshots without teams fall back to DefaultTeams.
func Load(path string) (*Roster, *Teams, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	teams := f.Teams
	if len(teams) == 0 {
		teams = DefaultTeams
	}
	return New(f.Players), NewTeams(teams), nil
}

// Merge combines a freshly fetched player list with an older snapshot. Fetched players come
// first, in API order, and replace snapshot entries with the same id; snapshot-only players
// follow, marked inactive. Teams carry over from the snapshot, or DefaultTeams without one.
func Merge(seed *File, fetched []model.Player) *File {
	out := &File{Players: make([]model.Player, 0, len(fetched))}

	seen := make(map[int64]bool, len(fetched))
	for _, p := range fetched {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out.Players = append(out.Players, p)
	}

	if seed != nil {
		for _, p := range seed.Players {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			p.IsActive = false
			out.Players = append(out.Players, p)
		}
		out.Teams = seed.Teams
	}
	if len(out.Teams) == 0 {
		out.Teams = DefaultTeams
	}
	return out
}

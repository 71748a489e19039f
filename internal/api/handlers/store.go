package handlers

import (
	"errors"
	"os"
	"sync"
	"time"

	"nba-feature-stats/internal/data"
	"nba-feature-stats/internal/model"
)

// FeatureStore holds the latest feature-stats artifact in memory.
// Readers get a snapshot; Replace swaps it after a refresh.
type FeatureStore struct {
	path string

	mu        sync.RWMutex
	records   []model.FeatureRecord
	updatedAt time.Time
}

func NewFeatureStore(path string) *FeatureStore {
	return &FeatureStore{path: path, records: []model.FeatureRecord{}}
}

// Load reads the artifact from disk. A missing file leaves the store empty.
func (s *FeatureStore) Load() error {
	records, err := data.LoadFeatureStatsJSON(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	updated := time.Now()
	if info, statErr := os.Stat(s.path); statErr == nil {
		updated = info.ModTime()
	}
	s.set(records, updated)
	return nil
}

// Replace installs freshly computed records.
func (s *FeatureStore) Replace(records []model.FeatureRecord) {
	s.set(records, time.Now())
}

func (s *FeatureStore) set(records []model.FeatureRecord, at time.Time) {
	if records == nil {
		records = []model.FeatureRecord{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.updatedAt = at
}

// Snapshot returns the current records and when they were produced.
// The slice must not be modified.
func (s *FeatureStore) Snapshot() ([]model.FeatureRecord, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.updatedAt
}

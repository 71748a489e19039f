package analysis

import (
	"sort"

	"nba-feature-stats/internal/model"
)

type RankedRecord struct {
	PlayerName string  `json:"player_name"`
	Feature    string  `json:"feature"`
	Opponent   string  `json:"opponent,omitempty"`
	Threshold  float64 `json:"threshold"`

	Recent     Summary `json:"recent"`
	VsOpponent Summary `json:"vs_opponent"`

	Lean  string  `json:"lean"`
	Share float64 `json:"share"`
}

// RankByHitRate summarises each record's recent form against its line and sorts by the
// majority side's share, descending. Ties go to player name, then feature.
// Records without a line or without any recent games are skipped.
func RankByHitRate(records []model.FeatureRecord, n int) []RankedRecord {
	out := make([]RankedRecord, 0, len(records))
	for _, r := range records {
		if !r.Threshold.Valid || len(r.Last15Feature) == 0 {
			continue
		}
		line := r.Threshold.Value
		recent := HitRate(r.Last15Feature, line, n)
		lean, share := recent.Lean()
		out = append(out, RankedRecord{
			PlayerName: r.PlayerName,
			Feature:    r.Feature,
			Opponent:   r.Opponent,
			Threshold:  line,
			Recent:     recent,
			VsOpponent: HitRate(r.Last3VsOpponentFeature, line, 0),
			Lean:       lean,
			Share:      share,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Share != out[j].Share {
			return out[i].Share > out[j].Share
		}
		if out[i].PlayerName != out[j].PlayerName {
			return out[i].PlayerName < out[j].PlayerName
		}
		return out[i].Feature < out[j].Feature
	})
	return out
}

// Top returns at most limit entries; limit <= 0 returns everything.
func Top(ranked []RankedRecord, limit int) []RankedRecord {
	if limit <= 0 || limit >= len(ranked) {
		return ranked
	}
	return ranked[:limit]
}

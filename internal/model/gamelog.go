package model

import (
	"strings"
	"time"
)

// Season types accepted by the stats API.
const (
	SeasonTypeRegular  = "Regular Season"
	SeasonTypePlayoffs = "Playoffs"
)

// GameLogRow is one player's boxscore for one game.
// Stats is keyed by upper-case stat code (PTS, REB, AST, TOV, FGM, FGA, FG3M, FTA, MIN, ...).
type GameLogRow struct {
	GameID     string             `json:"game_id"`
	GameDate   time.Time          `json:"game_date"`
	Matchup    string             `json:"matchup"`
	SeasonType string             `json:"season_type,omitempty"`
	Stats      map[string]float64 `json:"stats"`
}

// Stat returns the value for code, or 0 when the row does not carry it.
func (r GameLogRow) Stat(code string) float64 {
	return r.Stats[code]
}

// HasStat reports whether the row carries a value for code.
func (r GameLogRow) HasStat(code string) bool {
	_, ok := r.Stats[code]
	return ok
}

// Opponent extracts the opponent abbreviation from the matchup descriptor:
// the last whitespace-delimited token with trailing punctuation stripped.
//
//	"LAL vs. GSW" -> "GSW"
//	"LAL @ BOS."  -> "BOS"
func (r GameLogRow) Opponent() string {
	return OpponentFromMatchup(r.Matchup)
}

// IsHome reports whether the matchup encodes a home game ("LAL vs. GSW").
// Away games use "@" ("LAL @ GSW").
func (r GameLogRow) IsHome() bool {
	return IsHomeMatchup(r.Matchup)
}

func OpponentFromMatchup(matchup string) string {
	fields := strings.Fields(matchup)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(fields[len(fields)-1], ".,;:!?")
}

func IsHomeMatchup(matchup string) bool {
	for _, f := range strings.Fields(matchup) {
		if strings.EqualFold(strings.TrimRight(f, "."), "vs") {
			return true
		}
	}
	return false
}

// DateString formats the game date the way every artifact does (YYYY-MM-DD).
func (r GameLogRow) DateString() string {
	if r.GameDate.IsZero() {
		return ""
	}
	return r.GameDate.Format("2006-01-02")
}

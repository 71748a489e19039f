package data

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nba-feature-stats/internal/model"
)

// Table is a decoded result set with case-insensitive column lookup.
type Table struct {
	Name    string
	Headers []string
	index   map[string]int
	rows    [][]any
}

// NewTable indexes a raw result set. Header names are matched upper-cased, so
// "Game_ID" and "GAME_ID" address the same column.
func NewTable(rs *model.ResultSet) (*Table, error) {
	if rs == nil {
		return nil, fmt.Errorf("result set is missing")
	}
	t := &Table{
		Name:    rs.Name,
		Headers: make([]string, len(rs.Headers)),
		index:   make(map[string]int, len(rs.Headers)),
		rows:    rs.RowSet,
	}
	for i, h := range rs.Headers {
		key := strings.ToUpper(strings.TrimSpace(h))
		t.Headers[i] = key
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
	for i, row := range rs.RowSet {
		if len(row) != len(rs.Headers) {
			return nil, fmt.Errorf("result set %q row %d has %d values, expected %d", rs.Name, i, len(row), len(rs.Headers))
		}
	}
	return t, nil
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Has(col string) bool {
	_, ok := t.index[strings.ToUpper(col)]
	return ok
}

// Value returns the raw cell, or nil when the column does not exist.
func (t *Table) Value(row int, col string) any {
	i, ok := t.index[strings.ToUpper(col)]
	if !ok {
		return nil
	}
	return t.rows[row][i]
}

// String renders a cell as a string. Numbers are formatted without exponent.
func (t *Table) String(row int, col string) string {
	switch v := t.Value(row, col).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Float returns a numeric cell. ok is false for null or non-numeric cells.
func (t *Table) Float(row int, col string) (float64, bool) {
	return toFloat(t.Value(row, col))
}

// Int returns a numeric cell truncated to int64.
func (t *Table) Int(row int, col string) (int64, bool) {
	f, ok := t.Float(row, col)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		return parseMinutesOrNumber(x)
	default:
		return 0, false
	}
}

// parseMinutesOrNumber accepts plain numbers and "MM:SS" minute strings.
func parseMinutesOrNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if mm, ss, found := strings.Cut(s, ":"); found {
		m, err1 := strconv.ParseFloat(mm, 64)
		sec, err2 := strconv.ParseFloat(ss, 64)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return m + sec/60, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// gameLogIdentityColumns are never treated as stats.
var gameLogIdentityColumns = map[string]bool{
	"SEASON_ID":       true,
	"PLAYER_ID":       true,
	"TEAM_ID":         true,
	"GAME_ID":         true,
	"GAME_DATE":       true,
	"MATCHUP":         true,
	"WL":              true,
	"VIDEO_AVAILABLE": true,
}

// gameDateLayouts covers the formats the stats API has used for GAME_DATE.
var gameDateLayouts = []string{
	"Jan 2, 2006",
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// ParseGameDate parses a GAME_DATE cell such as "APR 13, 2025" or "2025-04-13".
func ParseGameDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised game date %q", s)
}

// GameLogRows converts a PlayerGameLog table into rows. Every numeric column that is not an
// identity column lands in Stats under its upper-case header.
func GameLogRows(t *Table, seasonType string) ([]model.GameLogRow, error) {
	for _, col := range []string{"GAME_ID", "GAME_DATE", "MATCHUP"} {
		if !t.Has(col) {
			return nil, fmt.Errorf("game log is missing column %s", col)
		}
	}
	rows := make([]model.GameLogRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		date, err := ParseGameDate(t.String(i, "GAME_DATE"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		row := model.GameLogRow{
			GameID:     t.String(i, "GAME_ID"),
			GameDate:   date,
			Matchup:    t.String(i, "MATCHUP"),
			SeasonType: seasonType,
			Stats:      make(map[string]float64, len(t.Headers)),
		}
		for _, h := range t.Headers {
			if gameLogIdentityColumns[h] {
				continue
			}
			if v, ok := t.Float(i, h); ok {
				row.Stats[h] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

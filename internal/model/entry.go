package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// CheatSheetEntry is one row of the cheat-sheet aggregator response.
// Only the fields the pipeline uses are decoded; the rest of the payload is ignored.
type CheatSheetEntry struct {
	PlayerName string   `json:"player_name"`
	Feature    string   `json:"feature"`
	Opponent   string   `json:"opponent"`
	Threshold  PropLine `json:"threshold"`
}

// PropLine is a betting line that the aggregator sends either as a number or as a numeric string.
// Anything else decodes as an invalid line with the original text kept in Raw, so one bad
// value never fails the whole sheet.
type PropLine struct {
	Value float64
	Valid bool
	Raw   string
}

// Malformed reports a line that was present but could not be read as a number.
func (p PropLine) Malformed() bool { return !p.Valid && p.Raw != "" }

func (p *PropLine) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = PropLine{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*p = PropLine{Raw: string(b)}
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*p = PropLine{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*p = PropLine{Raw: s}
			return nil
		}
		*p = PropLine{Value: v, Valid: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		*p = PropLine{Raw: string(b)}
		return nil
	}
	*p = PropLine{Value: v, Valid: true}
	return nil
}

func (p PropLine) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

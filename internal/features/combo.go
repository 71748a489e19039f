package features

import "strings"

// Combo is a parsed feature string: the normalised stat codes to sum.
type Combo struct {
	Raw   string
	Codes []string
}

// ParseCombo splits a free-form feature string on commas and underscores, trims and
// upper-cases each token, and drops empties and duplicates. "pts,reb" and "PTS_REB"
// both yield [PTS REB]. A combo without codes is valid and sums to zero for every game.
func ParseCombo(raw string) Combo {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '_' })
	codes := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		code := strings.ToUpper(strings.TrimSpace(p))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return Combo{Raw: raw, Codes: codes}
}

func (s Combo) Empty() bool { return len(s.Codes) == 0 }

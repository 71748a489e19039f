package roster

import (
	"errors"
	"strings"

	"nba-feature-stats/internal/model"
)

// ErrNotFound is returned by lookups that must distinguish "unknown" from a zero id.
var ErrNotFound = errors.New("not found")

// Roster resolves display names to stable player ids.
//
// Matching is case-sensitive and exact on the full display name. When the source list holds
// the same name more than once, the first occurrence wins. A Roster is immutable once built.
type Roster struct {
	byName  map[string]model.Player
	players []model.Player
}

// New builds a roster from players in load order.
func New(players []model.Player) *Roster {
	r := &Roster{
		byName:  make(map[string]model.Player, len(players)),
		players: make([]model.Player, 0, len(players)),
	}
	for _, p := range players {
		if p.FullName == "" {
			continue
		}
		r.players = append(r.players, p)
		if _, exists := r.byName[p.FullName]; exists {
			continue
		}
		r.byName[p.FullName] = p
	}
	return r
}

// Resolve returns the player id for name. ok is false when no player matches.
func (r *Roster) Resolve(name string) (int64, bool) {
	p, ok := r.Lookup(name)
	if !ok {
		return 0, false
	}
	return p.ID, true
}

// Lookup returns the full player entry for name.
func (r *Roster) Lookup(name string) (model.Player, bool) {
	if r == nil {
		return model.Player{}, false
	}
	p, ok := r.byName[name]
	return p, ok
}

// Len returns the number of players loaded, duplicates included.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.players)
}

// Players returns a copy of the players in load order.
func (r *Roster) Players() []model.Player {
	if r == nil {
		return nil
	}
	out := make([]model.Player, len(r.players))
	copy(out, r.players)
	return out
}

// Teams resolves team full names or abbreviations to team ids.
// Full names match case-sensitively; abbreviations are matched upper-cased.
type Teams struct {
	byName map[string]model.Team
	byAbbr map[string]model.Team
	teams  []model.Team
}

func NewTeams(teams []model.Team) *Teams {
	t := &Teams{
		byName: make(map[string]model.Team, len(teams)),
		byAbbr: make(map[string]model.Team, len(teams)),
		teams:  append([]model.Team(nil), teams...),
	}
	for _, tm := range teams {
		if _, exists := t.byName[tm.FullName]; !exists && tm.FullName != "" {
			t.byName[tm.FullName] = tm
		}
		abbr := strings.ToUpper(tm.Abbreviation)
		if _, exists := t.byAbbr[abbr]; !exists && abbr != "" {
			t.byAbbr[abbr] = tm
		}
	}
	return t
}

// Resolve accepts either "Los Angeles Lakers" or "LAL".
func (t *Teams) Resolve(nameOrAbbr string) (model.Team, bool) {
	if t == nil {
		return model.Team{}, false
	}
	if tm, ok := t.byName[nameOrAbbr]; ok {
		return tm, true
	}
	tm, ok := t.byAbbr[strings.ToUpper(strings.TrimSpace(nameOrAbbr))]
	return tm, ok
}

func (t *Teams) All() []model.Team {
	if t == nil {
		return nil
	}
	return append([]model.Team(nil), t.teams...)
}

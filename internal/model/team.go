package model

// Player is one entry of the static roster.
type Player struct {
	ID        int64  `json:"id"`
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsActive  bool   `json:"is_active"`
}

// Team is one entry of the static team list.
type Team struct {
	ID           int64  `json:"id"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city,omitempty"`
	Nickname     string `json:"nickname,omitempty"`
}

// TeamMetrics is a season-to-date snapshot of one team's ratings.
// It is looked up once per (team, season) and treated as constant for a derivation call.
type TeamMetrics struct {
	TeamID    int64   `json:"team_id"`
	OffRating float64 `json:"off_rating"`
	DefRating float64 `json:"def_rating"`
	NetRating float64 `json:"net_rating"`
	Pace      float64 `json:"pace"`
}

// PlayerImpact is the player's season on/off-court impact.
type PlayerImpact struct {
	PlayerID  int64   `json:"player_id"`
	PlusMinus float64 `json:"plus_minus"`
}

package models

// FeaturesRequest filters GET /api/v1/features.
type FeaturesRequest struct {
	Player string `form:"player"`
}

// RankRequest represents GET /api/v1/rank.
type RankRequest struct {
	Limit  int `form:"limit,omitempty"`  // default: 10
	Window int `form:"window,omitempty"` // games of recent form; default: all
}

// PlayersRequest represents GET /api/v1/players.
type PlayersRequest struct {
	Name string `form:"name" binding:"required"`
}

// DeriveRequest is the body of POST /api/v1/derive.
type DeriveRequest struct {
	Player   string `json:"player" binding:"required"`
	Team     string `json:"team"`     // full name or abbreviation
	Opponent string `json:"opponent"` // full name or abbreviation
	Season   string `json:"season,omitempty"`
}

package models

import (
	"time"

	"nba-feature-stats/internal/analysis"
	"nba-feature-stats/internal/model"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Records   int       `json:"records"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type FeaturesResponse struct {
	Records   []model.FeatureRecord `json:"records"`
	Count     int                   `json:"count"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Ranking is one row of the hit-rate leaderboard.
type Ranking struct {
	Rank int `json:"rank"`
	analysis.RankedRecord
}

type RankResponse struct {
	Rankings []Ranking `json:"rankings"`
}

type PlayerInfo struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

type PlayersResponse struct {
	Player PlayerInfo `json:"player"`
}

type TeamInfo struct {
	ID           int64  `json:"id"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
}

type DeriveResponse struct {
	Player   PlayerInfo                `json:"player"`
	Team     TeamInfo                  `json:"team"`
	Opponent TeamInfo                  `json:"opponent"`
	Season   string                    `json:"season"`
	Games    int                       `json:"games"`
	Rows     []model.DerivedFeatureRow `json:"rows"`
}

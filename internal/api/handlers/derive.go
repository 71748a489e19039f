package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"nba-feature-stats/internal/api/models"
	"nba-feature-stats/internal/derive"
	"nba-feature-stats/internal/gamelog"
	"nba-feature-stats/internal/model"
	"nba-feature-stats/internal/roster"
)

// DeriveHandler builds the per-game feature table for one player on demand.
type DeriveHandler struct {
	roster  *roster.Roster
	teams   *roster.Teams
	source  gamelog.Source
	metrics derive.MetricsSource
	season  string
	pause   time.Duration
	log     logrus.FieldLogger
}

func NewDeriveHandler(
	r *roster.Roster,
	teams *roster.Teams,
	source gamelog.Source,
	metrics derive.MetricsSource,
	season string,
	pause time.Duration,
	log logrus.FieldLogger,
) *DeriveHandler {
	return &DeriveHandler{
		roster:  r,
		teams:   teams,
		source:  source,
		metrics: metrics,
		season:  season,
		pause:   pause,
		log:     log,
	}
}

// Derive handles POST /api/v1/derive
func (h *DeriveHandler) Derive(c *gin.Context) {
	var req models.DeriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return
	}
	if req.Team == "" || req.Opponent == "" {
		c.JSON(http.StatusBadRequest, models.NewError("MISSING_CONTEXT", derive.ErrMissingContext.Error()))
		return
	}

	player, ok := h.roster.Lookup(req.Player)
	if !ok {
		c.JSON(http.StatusNotFound, models.NewError("PLAYER_NOT_FOUND", "unknown player: "+req.Player))
		return
	}
	team, ok := h.teams.Resolve(req.Team)
	if !ok {
		c.JSON(http.StatusNotFound, models.NewError("TEAM_NOT_FOUND", "unknown team: "+req.Team))
		return
	}
	opp, ok := h.teams.Resolve(req.Opponent)
	if !ok {
		c.JSON(http.StatusNotFound, models.NewError("TEAM_NOT_FOUND", "unknown team: "+req.Opponent))
		return
	}

	season := req.Season
	if season == "" {
		season = h.season
	}

	ctx := c.Request.Context()
	log := gamelog.Ascending(gamelog.NewFetcher(h.source, season, h.pause, h.log).Fetch(ctx, player.ID))

	rows, err := derive.NewPipeline(h.metrics, h.log).Run(ctx, derive.Request{
		PlayerID:   player.ID,
		TeamID:     team.ID,
		OpponentID: opp.ID,
		Season:     season,
	}, log)
	if err != nil {
		if errors.Is(err, derive.ErrMissingContext) {
			c.JSON(http.StatusBadRequest, models.NewError("MISSING_CONTEXT", err.Error()))
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, models.NewError("UPSTREAM_ERROR", err.Error()))
		return
	}

	c.JSON(http.StatusOK, models.DeriveResponse{
		Player:   models.PlayerInfo{ID: player.ID, FullName: player.FullName, IsActive: player.IsActive},
		Team:     teamInfo(team),
		Opponent: teamInfo(opp),
		Season:   season,
		Games:    len(log),
		Rows:     rows,
	})
}

func teamInfo(t model.Team) models.TeamInfo {
	return models.TeamInfo{ID: t.ID, FullName: t.FullName, Abbreviation: t.Abbreviation}
}

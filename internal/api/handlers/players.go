package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"nba-feature-stats/internal/api/models"
	"nba-feature-stats/internal/roster"
)

type PlayerHandler struct {
	roster *roster.Roster
}

func NewPlayerHandler(r *roster.Roster) *PlayerHandler {
	return &PlayerHandler{roster: r}
}

// GetPlayer handles GET /api/v1/players?name=
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	var req models.PlayersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("MISSING_PARAM", "name query parameter is required"))
		return
	}

	p, ok := h.roster.Lookup(req.Name)
	if !ok {
		c.JSON(http.StatusNotFound, models.NewError("PLAYER_NOT_FOUND", fmt.Sprintf("%s: %v", req.Name, roster.ErrNotFound)))
		return
	}
	c.JSON(http.StatusOK, models.PlayersResponse{Player: models.PlayerInfo{
		ID:       p.ID,
		FullName: p.FullName,
		IsActive: p.IsActive,
	}})
}

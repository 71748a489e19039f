package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nba-feature-stats/internal/analysis"
	"nba-feature-stats/internal/api/models"
)

// RankHandler ranks props by how consistently recent form clears the line.
type RankHandler struct {
	store *FeatureStore
}

func NewRankHandler(store *FeatureStore) *RankHandler {
	return &RankHandler{store: store}
}

// RankFeatures handles GET /api/v1/rank
func (h *RankHandler) RankFeatures(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return
	}
	if req.Limit < 0 || req.Window < 0 {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", "limit and window must be >= 0"))
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = 10
	}

	records, _ := h.store.Snapshot()
	ranked := analysis.Top(analysis.RankByHitRate(records, req.Window), limit)

	rankings := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		rankings[i] = models.Ranking{Rank: i + 1, RankedRecord: r}
	}
	c.JSON(http.StatusOK, models.RankResponse{Rankings: rankings})
}

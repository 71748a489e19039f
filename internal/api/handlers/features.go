package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nba-feature-stats/internal/api/models"
	"nba-feature-stats/internal/model"
)

// FeaturesHandler serves the feature-stats artifact.
type FeaturesHandler struct {
	store *FeatureStore
}

func NewFeaturesHandler(store *FeatureStore) *FeaturesHandler {
	return &FeaturesHandler{store: store}
}

// ListFeatures handles GET /api/v1/features
func (h *FeaturesHandler) ListFeatures(c *gin.Context) {
	var req models.FeaturesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return
	}

	records, updated := h.store.Snapshot()
	if req.Player != "" {
		filtered := make([]model.FeatureRecord, 0)
		for _, r := range records {
			if r.PlayerName == req.Player {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	c.JSON(http.StatusOK, models.FeaturesResponse{
		Records:   records,
		Count:     len(records),
		UpdatedAt: updated,
	})
}

// Health handles GET /health
func (h *FeaturesHandler) Health(c *gin.Context) {
	records, updated := h.store.Snapshot()
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Records:   len(records),
		UpdatedAt: updated,
	})
}

// Package api wires the HTTP handlers into a gin router.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"nba-feature-stats/internal/api/handlers"
	"nba-feature-stats/internal/api/middleware"
	"nba-feature-stats/internal/api/models"
)

// Handlers groups everything the router serves.
type Handlers struct {
	Features *handlers.FeaturesHandler
	Rank     *handlers.RankHandler
	Players  *handlers.PlayerHandler
	Derive   *handlers.DeriveHandler
}

type RouterOptions struct {
	CORSOrigins []string
	// StaticDir holds a built front-end; skipped when it does not exist.
	StaticDir string
}

func NewRouter(h Handlers, opts RouterOptions, log logrus.FieldLogger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", h.Features.Health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/features", h.Features.ListFeatures)
		v1.GET("/rank", h.Rank.RankFeatures)
		v1.GET("/players", h.Players.GetPlayer)
		v1.POST("/derive", h.Derive.Derive)
	}

	serveStatic(router, opts.StaticDir, log)
	return router
}

func serveStatic(router *gin.Engine, staticDir string, log logrus.FieldLogger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.NewError("NOT_FOUND", "Not found"))
	}
	if staticDir == "" {
		router.NoRoute(notFound)
		return
	}
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		log.WithField("static_dir", staticDir).Info("Static directory not found, skipping static file serving")
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(staticDir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))
	// Single-page app routing: every non-API path gets index.html.
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
	log.WithField("static_dir", staticDir).Info("Serving static files")
}

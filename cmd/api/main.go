package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"nba-feature-stats/internal/api"
	"nba-feature-stats/internal/api/handlers"
	"nba-feature-stats/internal/config"
	"nba-feature-stats/internal/data"
	"nba-feature-stats/internal/gamelog"
	"nba-feature-stats/internal/logger"
	"nba-feature-stats/internal/pipeline"
	"nba-feature-stats/internal/roster"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Get().WithError(err).Fatal("Failed to load config")
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Development)

	if cfg.API.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	stats := data.NewStatsClientFromConfig(cfg, log)

	players, teams, err := roster.Load(cfg.Output.RosterPath)
	if err != nil {
		log.WithError(err).WithField("path", cfg.Output.RosterPath).Warn("Roster snapshot unavailable; fetching players from the stats API")
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Fetch.Timeout)
		list, fetchErr := stats.CommonAllPlayers(ctx, cfg.Season, false)
		cancel()
		if fetchErr != nil {
			log.WithError(fetchErr).Fatal("Failed to load players")
		}
		players, teams = roster.New(list), roster.NewTeams(roster.DefaultTeams)
	}
	log.WithField("players", players.Len()).Info("Roster loaded")

	store := handlers.NewFeatureStore(cfg.Output.FeatureStatsPath)
	if err := store.Load(); err != nil {
		log.WithError(err).Warn("Failed to load feature stats artifact; serving an empty set")
	}

	router := api.NewRouter(api.Handlers{
		Features: handlers.NewFeaturesHandler(store),
		Rank:     handlers.NewRankHandler(store),
		Players:  handlers.NewPlayerHandler(players),
		Derive:   handlers.NewDeriveHandler(players, teams, stats, stats, cfg.Season, cfg.Fetch.PauseBetweenRequests, log),
	}, api.RouterOptions{
		CORSOrigins: cfg.API.CORSOrigins,
		StaticDir:   cfg.API.StaticDir,
	}, log)

	var refresher *api.Refresher
	if cfg.API.RefreshSchedule != "" {
		fetcher := gamelog.NewFetcher(stats, cfg.Season, cfg.Fetch.PauseBetweenRequests, log)
		engine := pipeline.New(players, fetcher, cfg.Windows, log)
		source := data.NewCheatSheetClient(cfg.Sources.CheatSheetURL, cfg.Fetch.Timeout, log)
		refresher = api.NewRefresher(engine, source, cfg.Output.FeatureStatsPath, store, log)
		if err := refresher.Start(cfg.API.RefreshSchedule); err != nil {
			log.WithError(err).Fatal("Failed to schedule artifact refresh")
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	if refresher != nil {
		refresher.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	log.Info("Server exited")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"nba-feature-stats/internal/config"
	"nba-feature-stats/internal/data"
	"nba-feature-stats/internal/logger"
	"nba-feature-stats/internal/roster"
)

func main() {
	var (
		cfgPath     = flag.String("config", "", "Path to YAML config")
		outputPath  = flag.String("output", "", "Output file path (default from config)")
		seedFile    = flag.String("seed", "", "Path to an existing roster file to merge with")
		season      = flag.String("season", "", "Season, e.g. 2024-25 (default from config)")
		currentOnly = flag.Bool("current-only", false, "Only fetch players on a current roster")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Get().WithError(err).Fatal("Failed to load config")
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Development)

	if *outputPath == "" {
		*outputPath = cfg.Output.RosterPath
	}
	if *season == "" {
		*season = cfg.Season
	}
	if *seedFile == "" {
		*seedFile = *outputPath
	}

	var seed *roster.File
	if f, err := roster.LoadFile(*seedFile); err == nil {
		seed = f
		fmt.Printf("Loaded %d existing players from %s\n", len(f.Players), *seedFile)
	}

	client := data.NewStatsClientFromConfig(cfg, log)
	ctx, cancel := context.WithTimeout(context.Background(), 4*cfg.Fetch.Timeout)
	defer cancel()

	fmt.Printf("Fetching players for season %s...\n", *season)
	players, err := client.CommonAllPlayers(ctx, *season, *currentOnly)
	if err != nil {
		log.WithError(err).Fatal("Failed to fetch players")
	}
	fmt.Printf("Found %d players\n", len(players))

	snapshot := roster.Merge(seed, players)
	snapshot.Season = *season
	snapshot.UpdatedAt = time.Now().Format(time.RFC3339)

	if err := roster.SaveFile(snapshot, *outputPath); err != nil {
		log.WithError(err).Fatal("Failed to save roster")
	}
	fmt.Printf("Saved %d players and %d teams to %s\n", len(snapshot.Players), len(snapshot.Teams), *outputPath)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"nba-feature-stats/internal/analysis"
	"nba-feature-stats/internal/config"
	"nba-feature-stats/internal/data"
	"nba-feature-stats/internal/derive"
	"nba-feature-stats/internal/gamelog"
	"nba-feature-stats/internal/logger"
	"nba-feature-stats/internal/model"
	"nba-feature-stats/internal/odds"
	"nba-feature-stats/internal/pipeline"
	"nba-feature-stats/internal/projection"
	"nba-feature-stats/internal/roster"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "features":
		err = cmdFeatures(ctx, os.Args[2:])
	case "derive":
		err = cmdDerive(ctx, os.Args[2:])
	case "rank":
		err = cmdRank(os.Args[2:])
	case "odds":
		err = cmdOdds(ctx, os.Args[2:])
	case "train":
		err = cmdTrain(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Get().WithError(err).Error("Command failed")
		if errors.Is(err, derive.ErrMissingContext) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli features --config config.yaml [--cheatsheet saved.json] [--out public/data/nba_feature_stats.json]")
	fmt.Println("  cli derive   --config config.yaml --player \"LeBron James\" --team LAL --opponent GSW [--gamelog saved.json] [--out results/derived_features.csv]")
	fmt.Println("  cli rank     --data public/data/nba_feature_stats.json [--limit 10] [--window 10]")
	fmt.Println("  cli odds     --config config.yaml --market 156:157 --event 26434 [--player-slug james-harden]")
	fmt.Println("  cli train    --data results/derived_features.csv [--test-fraction 0.2] [--seed 42]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - features emits one record per cheat-sheet entry; unknown players get empty series")
	fmt.Println("  - derive drops each player's first five games (no full rolling window)")
}

// setup loads config and initialises logging. An empty path means defaults plus environment.
func setup(cfgPath string) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Development)
	return cfg, log, nil
}

// loadRoster reads the roster snapshot, or asks the stats API when no snapshot exists.
func loadRoster(ctx context.Context, cfg *config.Config, stats *data.StatsClient, log logrus.FieldLogger) (*roster.Roster, *roster.Teams, error) {
	r, teams, err := roster.Load(cfg.Output.RosterPath)
	if err == nil {
		return r, teams, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("load roster: %w", err)
	}

	log.WithField("path", cfg.Output.RosterPath).Info("No roster snapshot; fetching players from the stats API")
	players, err := stats.CommonAllPlayers(ctx, cfg.Season, false)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch players: %w", err)
	}
	return roster.New(players), roster.NewTeams(roster.DefaultTeams), nil
}

func cmdFeatures(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("features", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	sheetPath := fs.String("cheatsheet", "", "Optional: read the cheat sheet from a saved JSON file")
	outPath := fs.String("out", "", "Output JSON path (default from config)")
	_ = fs.Parse(args)

	cfg, log, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	if *outPath == "" {
		*outPath = cfg.Output.FeatureStatsPath
	}

	stats := data.NewStatsClientFromConfig(cfg, log)
	players, _, err := loadRoster(ctx, cfg, stats, log)
	if err != nil {
		return err
	}

	var src pipeline.EntrySource = data.NewCheatSheetClient(cfg.Sources.CheatSheetURL, cfg.Fetch.Timeout, log)
	if *sheetPath != "" {
		src = pipeline.FileSource(*sheetPath)
	}

	fetcher := gamelog.NewFetcher(stats, cfg.Season, cfg.Fetch.PauseBetweenRequests, log)
	engine := pipeline.New(players, fetcher, cfg.Windows, log)
	res, err := engine.RunAndWrite(ctx, src, *outPath)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d records to %s (run %s)\n", len(res.Records), *outPath, res.RunID)
	fmt.Printf("Unresolved players=%d No history=%d Duration=%s\n", res.Unresolved, res.NoHistory, res.Duration.Round(time.Millisecond))
	return nil
}

func cmdDerive(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	player := fs.String("player", "", "Player display name, e.g. \"LeBron James\"")
	team := fs.String("team", "", "Player's team (full name or abbreviation)")
	opponent := fs.String("opponent", "", "Opponent team (full name or abbreviation)")
	season := fs.String("season", "", "Season, e.g. 2024-25 (default from config)")
	outPath := fs.String("out", "", "Output CSV path (default from config)")
	logPath := fs.String("gamelog", "", "Optional: read a saved playergamelog response instead of fetching")
	_ = fs.Parse(args)

	cfg, log, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	if *player == "" {
		return errors.New("--player is required")
	}
	if *team == "" || *opponent == "" {
		return derive.ErrMissingContext
	}
	if *season == "" {
		*season = cfg.Season
	}
	if *outPath == "" {
		*outPath = cfg.Output.DerivedCSVPath
	}

	stats := data.NewStatsClientFromConfig(cfg, log)
	players, teams, err := loadRoster(ctx, cfg, stats, log)
	if err != nil {
		return err
	}

	playerID, ok := players.Resolve(*player)
	if !ok {
		return fmt.Errorf("player %q: %w", *player, roster.ErrNotFound)
	}
	t, ok := teams.Resolve(*team)
	if !ok {
		return fmt.Errorf("team %q: %w", *team, roster.ErrNotFound)
	}
	opp, ok := teams.Resolve(*opponent)
	if !ok {
		return fmt.Errorf("team %q: %w", *opponent, roster.ErrNotFound)
	}

	var recent []model.GameLogRow
	if *logPath != "" {
		rows, err := data.LoadGameLogJSON(*logPath, model.SeasonTypeRegular)
		if err != nil {
			return fmt.Errorf("load game log: %w", err)
		}
		recent = gamelog.Merge([]gamelog.SubFetchResult{{SeasonType: model.SeasonTypeRegular, Rows: rows}}, log)
	} else {
		recent = gamelog.NewFetcher(stats, *season, cfg.Fetch.PauseBetweenRequests, log).Fetch(ctx, playerID)
	}
	gameLog := gamelog.Ascending(recent)
	rows, err := derive.NewPipeline(stats, log).Run(ctx, derive.Request{
		PlayerID:   playerID,
		TeamID:     t.ID,
		OpponentID: opp.ID,
		Season:     *season,
	}, gameLog)
	if err != nil {
		return err
	}

	if err := derive.WriteCSVFile(*outPath, rows); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rows (%d games) to %s\n", len(rows), len(gameLog), *outPath)
	return nil
}

func cmdRank(args []string) error {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	dataPath := fs.String("data", "public/data/nba_feature_stats.json", "Feature stats JSON artifact")
	limit := fs.Int("limit", 10, "Number of rows to print (0=all)")
	window := fs.Int("window", 0, "Optional: only use the most recent N games (0=all)")
	_ = fs.Parse(args)

	records, err := data.LoadFeatureStatsJSON(*dataPath)
	if err != nil {
		return err
	}
	ranked := analysis.Top(analysis.RankByHitRate(records, *window), *limit)

	fmt.Printf("%-4s %-24s %-10s %-5s %-7s %-6s %-7s %-8s %-6s\n", "rank", "player", "feature", "opp", "line", "lean", "share", "o/u/p", "mean")
	for i, r := range ranked {
		fmt.Printf(
			"%-4d %-24s %-10s %-5s %-7.1f %-6s %-7.2f %-8s %-6.1f\n",
			i+1,
			r.PlayerName,
			r.Feature,
			r.Opponent,
			r.Threshold,
			r.Lean,
			r.Share,
			fmt.Sprintf("%d/%d/%d", r.Recent.Over, r.Recent.Under, r.Recent.Push),
			r.Recent.Mean,
		)
	}
	return nil
}

func cmdOdds(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("odds", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	markets := fs.String("market", "", "Colon- or comma-separated market ids")
	event := fs.Int("event", 0, "Event id")
	slug := fs.String("player-slug", "", "Optional: player slug, e.g. james-harden")
	live := fs.Bool("live", false, "Only live offers")
	limit := fs.Int("limit", 5, "Page size")
	page := fs.Int("page", 1, "Page number")
	outPath := fs.String("out", "", "Output JSON path (default from config)")
	_ = fs.Parse(args)

	cfg, log, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	if *outPath == "" {
		*outPath = cfg.Output.OffersPath
	}
	marketIDs, err := parseIDs(*markets)
	if err != nil {
		return err
	}

	client := odds.NewClient(cfg.Odds, cfg.Fetch.Timeout, log)
	resp, err := client.Offers(ctx, odds.OffersQuery{
		MarketIDs:  marketIDs,
		EventID:    *event,
		PlayerSlug: *slug,
		Live:       *live,
		Limit:      *limit,
		Page:       *page,
	})
	if err != nil {
		return err
	}

	snapshot := struct {
		Offers     []odds.Offer    `json:"offers"`
		Pagination odds.Pagination `json:"pagination"`
		Quotes     []odds.Quote    `json:"best_quotes"`
	}{resp.Offers, resp.Pagination, odds.BestQuotes(resp.Offers)}
	if err := data.WriteJSON(*outPath, snapshot); err != nil {
		return err
	}
	fmt.Printf("Wrote %d offers (%d best quotes) to %s\n", len(snapshot.Offers), len(snapshot.Quotes), *outPath)
	return nil
}

func cmdTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	dataPath := fs.String("data", "results/derived_features.csv", "Derived feature CSV")
	testFraction := fs.Float64("test-fraction", 0.2, "Share of rows held out for evaluation")
	seed := fs.Int64("seed", 42, "Shuffle seed")
	lambda := fs.Float64("lambda", projection.DefaultLambda, "Ridge penalty")
	_ = fs.Parse(args)

	rows, err := derive.ReadCSVFile(*dataPath)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("need at least 2 rows to train, have %d", len(rows))
	}

	train, test := projection.Split(rows, *testFraction, *seed)
	reg := projection.NewLinearRegression(*lambda)
	if err := reg.Fit(train); err != nil {
		return err
	}

	fmt.Printf("train=%d test=%d\n", len(train), len(test))
	fmt.Printf("%-20s %-8s %-8s\n", "projector", "rmse", "mae")
	for _, p := range []projection.Projector{projection.RollingAverage{}, projection.ShrunkAverage{}, reg} {
		ev := projection.Evaluate(p, test)
		fmt.Printf("%-20s %-8.2f %-8.2f\n", ev.Projector, ev.RMSE, ev.MAE)
	}
	return nil
}

func parseIDs(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == ',' })
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid market id %q", f)
		}
		out = append(out, id)
	}
	return out, nil
}

package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"nba-feature-stats/internal/config"
	"nba-feature-stats/internal/logger"
	"nba-feature-stats/internal/model"
)

// StatsClient provides methods to fetch data from the NBA stats API.
type StatsClient struct {
	BaseURL string
	Client  *http.Client

	// Optional. A nil cache or breaker is simply skipped.
	Cache   *ResponseCache
	Breaker *Breaker

	log *logrus.Entry
}

// NewStatsClient creates a stats API client.
// If baseURL is empty, defaults to "https://stats.nba.com/stats".
func NewStatsClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *StatsClient {
	if baseURL == "" {
		baseURL = "https://stats.nba.com/stats"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &StatsClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
		log: logger.WithComponent(log, "stats_api"),
	}
}

// NewStatsClientFromConfig builds a client with the cache and circuit breaker the config asks for.
func NewStatsClientFromConfig(cfg *config.Config, log logrus.FieldLogger) *StatsClient {
	c := NewStatsClient(cfg.Sources.StatsBaseURL, cfg.Fetch.Timeout, log)
	if cfg.Cache.Enabled {
		c.Cache = NewResponseCache(cfg.Cache.TTL)
		c.log.WithField("ttl", cfg.Cache.TTL.String()).Info("Stats response cache enabled")
	}
	c.Breaker = NewBreaker("stats_api", cfg.Breaker, log)
	return c
}

// StatsError represents a non-success response from the stats API.
type StatsError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *StatsError) Error() string {
	return e.Message
}

// IsRateLimited reports whether err is a 429 from the stats API.
func IsRateLimited(err error) bool {
	var se *StatsError
	return errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests
}

// Query performs GET {BaseURL}/{endpoint}?{params} and decodes the result sets.
func (c *StatsClient) Query(ctx context.Context, endpoint string, params url.Values) (*model.StatsResponse, error) {
	cacheKey := GenerateCacheKey(endpoint, params)
	if cached, found := c.Cache.Get(cacheKey); found {
		c.log.WithField("endpoint", endpoint).Debug("Cache hit")
		return cached, nil
	}

	out, err := c.Breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, endpoint, params)
	})
	if err != nil {
		return nil, err
	}
	resp := out.(*model.StatsResponse)

	c.Cache.Set(cacheKey, resp)
	return resp, nil
}

func (c *StatsClient) do(ctx context.Context, endpoint string, params url.Values) (*model.StatsResponse, error) {
	u, err := url.Parse(c.BaseURL + "/" + endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// stats.nba.com drops requests that do not look like they come from the website.
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	fields := logrus.Fields{"endpoint": endpoint, "query": u.RawQuery}
	c.log.WithFields(fields).Debug("Request")

	start := time.Now()
	resp, err := c.Client.Do(req)
	fields["duration"] = time.Since(start).String()
	if err != nil {
		c.log.WithFields(fields).WithError(err).Warn("Request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	fields["status"] = resp.StatusCode
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		c.log.WithFields(fields).WithField("retry_after", retryAfter).Warn("Rate limit exceeded")
		return nil, &StatsError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	case http.StatusBadRequest:
		c.log.WithFields(fields).Warn("Bad request")
		return nil, &StatsError{
			StatusCode: resp.StatusCode,
			Code:       "BAD_REQUEST",
			Message:    fmt.Sprintf("stats API rejected %s parameters", endpoint),
		}
	default:
		c.log.WithFields(fields).Warn("Unexpected status")
		return nil, &StatsError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var result model.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.log.WithFields(fields).WithError(err).Warn("Error decoding response")
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	if len(result.ResultSets) == 0 {
		return nil, fmt.Errorf("%s response has no result sets", endpoint)
	}

	c.log.WithFields(fields).Debug("Success")
	return &result, nil
}

// PlayerGameLog fetches one player's boxscores for a season and season type.
func (c *StatsClient) PlayerGameLog(ctx context.Context, playerID int64, season, seasonType string) ([]model.GameLogRow, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.FormatInt(playerID, 10))
	params.Set("Season", season)
	params.Set("SeasonType", seasonType)
	params.Set("LeagueID", "00")

	resp, err := c.Query(ctx, "playergamelog", params)
	if err != nil {
		return nil, err
	}
	table, err := NewTable(resp.First())
	if err != nil {
		return nil, err
	}
	return GameLogRows(table, seasonType)
}

// TeamMetrics returns season-to-date advanced ratings for one team.
func (c *StatsClient) TeamMetrics(ctx context.Context, teamID int64, season string) (model.TeamMetrics, error) {
	params := leagueDashParams(season)
	params.Set("MeasureType", "Advanced")
	params.Set("PerMode", "PerGame")

	resp, err := c.Query(ctx, "leaguedashteamstats", params)
	if err != nil {
		return model.TeamMetrics{}, err
	}
	table, err := NewTable(resp.First())
	if err != nil {
		return model.TeamMetrics{}, err
	}
	for i := 0; i < table.Len(); i++ {
		id, ok := table.Int(i, "TEAM_ID")
		if !ok || id != teamID {
			continue
		}
		m := model.TeamMetrics{TeamID: id}
		m.OffRating, _ = table.Float(i, "OFF_RATING")
		m.DefRating, _ = table.Float(i, "DEF_RATING")
		m.NetRating, _ = table.Float(i, "NET_RATING")
		m.Pace, _ = table.Float(i, "PACE")
		return m, nil
	}
	return model.TeamMetrics{}, fmt.Errorf("team %d not found in league dashboard for %s", teamID, season)
}

// PlayerImpact returns the player's overall plus-minus from the general splits dashboard.
func (c *StatsClient) PlayerImpact(ctx context.Context, playerID int64, season string) (model.PlayerImpact, error) {
	params := leagueDashParams(season)
	params.Set("PlayerID", strconv.FormatInt(playerID, 10))
	params.Set("MeasureType", "Base")
	params.Set("PerMode", "Totals")

	resp, err := c.Query(ctx, "playerdashboardbygeneralsplits", params)
	if err != nil {
		return model.PlayerImpact{}, err
	}
	rs := resp.Find("OverallPlayerDashboard")
	if rs == nil {
		rs = resp.First()
	}
	table, err := NewTable(rs)
	if err != nil {
		return model.PlayerImpact{}, err
	}
	for i := 0; i < table.Len(); i++ {
		if table.Has("GROUP_SET") && table.String(i, "GROUP_SET") != "Overall" {
			continue
		}
		pm, ok := table.Float(i, "PLUS_MINUS")
		if !ok {
			return model.PlayerImpact{}, fmt.Errorf("player %d dashboard has no PLUS_MINUS", playerID)
		}
		return model.PlayerImpact{PlayerID: playerID, PlusMinus: pm}, nil
	}
	return model.PlayerImpact{}, fmt.Errorf("player %d has no overall dashboard row for %s", playerID, season)
}

// CommonAllPlayers lists every player known to the stats API.
func (c *StatsClient) CommonAllPlayers(ctx context.Context, season string, currentOnly bool) ([]model.Player, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	if currentOnly {
		params.Set("IsOnlyCurrentSeason", "1")
	} else {
		params.Set("IsOnlyCurrentSeason", "0")
	}

	resp, err := c.Query(ctx, "commonallplayers", params)
	if err != nil {
		return nil, err
	}
	table, err := NewTable(resp.First())
	if err != nil {
		return nil, err
	}
	players := make([]model.Player, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		id, ok := table.Int(i, "PERSON_ID")
		if !ok {
			continue
		}
		full := table.String(i, "DISPLAY_FIRST_LAST")
		p := model.Player{ID: id, FullName: full}
		if last, first, found := strings.Cut(table.String(i, "DISPLAY_LAST_COMMA_FIRST"), ", "); found {
			p.FirstName, p.LastName = first, last
		}
		if status, ok := table.Float(i, "ROSTERSTATUS"); ok {
			p.IsActive = status == 1
		}
		players = append(players, p)
	}
	return players, nil
}

// leagueDashParams are the filters the dashboard endpoints insist on receiving.
func leagueDashParams(season string) url.Values {
	params := url.Values{}
	params.Set("Season", season)
	params.Set("SeasonType", model.SeasonTypeRegular)
	params.Set("LeagueID", "00")
	for _, zero := range []string{"LastNGames", "Month", "OpponentTeamID", "Period", "PORound", "TeamID"} {
		params.Set(zero, "0")
	}
	for _, no := range []string{"PaceAdjust", "PlusMinus", "Rank"} {
		params.Set(no, "N")
	}
	for _, empty := range []string{"DateFrom", "DateTo", "GameSegment", "Location", "Outcome", "SeasonSegment", "VsConference", "VsDivision"} {
		params.Set(empty, "")
	}
	return params
}

package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"nba-feature-stats/internal/logger"
	"nba-feature-stats/internal/model"
)

// CheatSheetClient loads the prop cheat sheet that seeds a batch run.
type CheatSheetClient struct {
	URL    string
	Client *http.Client
	log    *logrus.Entry
}

func NewCheatSheetClient(url string, timeout time.Duration, log logrus.FieldLogger) *CheatSheetClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CheatSheetClient{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		log:    logger.WithComponent(log, "cheat_sheet"),
	}
}

// Entries fetches and decodes the cheat sheet.
func (c *CheatSheetClient) Entries(ctx context.Context) ([]model.CheatSheetEntry, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("cheat sheet URL is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatsError{
			StatusCode: resp.StatusCode,
			Code:       "CHEAT_SHEET_ERROR",
			Message:    fmt.Sprintf("cheat sheet returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cheat sheet: %w", err)
	}
	entries, err := DecodeCheatSheet(raw)
	if err != nil {
		return nil, err
	}
	c.log.WithField("entries", len(entries)).Info("Loaded cheat sheet")
	return entries, nil
}

// proxyEnvelope is the wrapper CORS proxies put around the upstream body.
type proxyEnvelope struct {
	Contents string `json:"contents"`
}

// DecodeCheatSheet accepts either a bare JSON array or a proxy envelope whose
// "contents" field holds the array as a string.
func DecodeCheatSheet(raw []byte) ([]model.CheatSheetEntry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var env proxyEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("failed to decode cheat sheet envelope: %w", err)
		}
		raw = []byte(env.Contents)
	}
	var entries []model.CheatSheetEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode cheat sheet: %w", err)
	}
	return entries, nil
}

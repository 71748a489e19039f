package odds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"nba-feature-stats/internal/config"
	"nba-feature-stats/internal/logger"
)

// Client talks to the sportsbook offers API.
type Client struct {
	BaseURL  string
	APIKey   string
	Origin   string
	Location string
	Client   *http.Client

	log *logrus.Entry
}

func NewClient(cfg config.OddsConfig, timeout time.Duration, log logrus.FieldLogger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.bettingpros.com/v3"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:   cfg.APIKey,
		Origin:   cfg.Origin,
		Location: cfg.Location,
		Client:   &http.Client{Timeout: timeout},
		log:      logger.WithComponent(log, "odds"),
	}
}

// OffersQuery filters the offers endpoint. Zero values are omitted.
type OffersQuery struct {
	Sport      string
	MarketIDs  []int
	EventID    int
	Location   string
	PlayerSlug string
	Live       bool
	Limit      int
	Page       int
}

func (q OffersQuery) values(defaultLocation string) url.Values {
	v := url.Values{}
	sport := q.Sport
	if sport == "" {
		sport = "NBA"
	}
	v.Set("sport", sport)
	if len(q.MarketIDs) > 0 {
		ids := make([]string, len(q.MarketIDs))
		for i, id := range q.MarketIDs {
			ids[i] = strconv.Itoa(id)
		}
		// The API takes a colon-joined market list.
		v.Set("market_id", strings.Join(ids, ":"))
	}
	if q.EventID != 0 {
		v.Set("event_id", strconv.Itoa(q.EventID))
	}
	loc := q.Location
	if loc == "" {
		loc = defaultLocation
	}
	if loc != "" {
		v.Set("location", loc)
	}
	if q.PlayerSlug != "" {
		v.Set("player_slug", q.PlayerSlug)
	}
	if q.Live {
		v.Set("live", "true")
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

type OffersResponse struct {
	Offers     []Offer    `json:"offers"`
	Pagination Pagination `json:"_pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

type Offer struct {
	OfferID      string        `json:"offer_id"`
	EventID      int           `json:"event_id"`
	MarketID     int           `json:"market_id"`
	Participants []Participant `json:"participants"`
	Selections   []Selection   `json:"selections"`
}

type Participant struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Player *Player `json:"player,omitempty"`
}

type Player struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Slug      string `json:"slug"`
	Team      string `json:"team"`
	Position  string `json:"position"`
}

type Selection struct {
	Selection   string `json:"selection"`
	Label       string `json:"label"`
	Participant string `json:"participant"`
	Books       []Book `json:"books"`
}

type Book struct {
	ID    int    `json:"id"`
	Lines []Line `json:"lines"`
}

type Line struct {
	LineID string          `json:"line_id"`
	Line   decimal.Decimal `json:"line"`
	Cost   decimal.Decimal `json:"cost"`
	Active bool            `json:"active"`
	Best   bool            `json:"best"`
}

// APIError is a non-success response from the offers API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// Offers fetches one page of offers.
func (c *Client) Offers(ctx context.Context, q OffersQuery) (*OffersResponse, error) {
	u, err := url.Parse(c.BaseURL + "/offers")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.RawQuery = q.values(c.Location).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if c.Origin != "" {
		req.Header.Set("Origin", c.Origin)
		req.Header.Set("Referer", c.Origin+"/")
	}
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	fields := logrus.Fields{"query": u.RawQuery}
	start := time.Now()
	resp, err := c.Client.Do(req)
	fields["duration"] = time.Since(start).String()
	if err != nil {
		c.log.WithFields(fields).WithError(err).Warn("Request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	fields["status"] = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		c.log.WithFields(fields).Warn("Unexpected status")
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("offers API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var out OffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}
	if out.Offers == nil {
		out.Offers = []Offer{}
	}
	c.log.WithFields(fields).WithField("offers", len(out.Offers)).Debug("Success")
	return &out, nil
}

// Quote is one priced side of a prop at one book.
type Quote struct {
	EventID     int             `json:"event_id"`
	MarketID    int             `json:"market_id"`
	Player      string          `json:"player"`
	PlayerSlug  string          `json:"player_slug,omitempty"`
	Selection   string          `json:"selection"`
	BookID      int             `json:"book_id"`
	Line        decimal.Decimal `json:"line"`
	Cost        decimal.Decimal `json:"cost"`
	Probability decimal.Decimal `json:"implied_probability"`
}

// BestQuotes flattens offers into the lines each book flags as best. Lines with unusable
// prices are skipped.
func BestQuotes(offers []Offer) []Quote {
	out := make([]Quote, 0)
	for _, o := range offers {
		name, slug := offerPlayer(o)
		for _, s := range o.Selections {
			for _, b := range s.Books {
				for _, l := range b.Lines {
					if !l.Best {
						continue
					}
					p, err := ImpliedProbability(l.Cost)
					if err != nil {
						continue
					}
					out = append(out, Quote{
						EventID:     o.EventID,
						MarketID:    o.MarketID,
						Player:      name,
						PlayerSlug:  slug,
						Selection:   s.Selection,
						BookID:      b.ID,
						Line:        l.Line,
						Cost:        l.Cost,
						Probability: p.Round(6),
					})
				}
			}
		}
	}
	return out
}

func offerPlayer(o Offer) (string, string) {
	for _, p := range o.Participants {
		if p.Player != nil {
			return p.Name, p.Player.Slug
		}
	}
	if len(o.Participants) > 0 {
		return o.Participants[0].Name, ""
	}
	return "", ""
}

/*
Package racing fetches the day's race results from the Racing API.
*/
package racing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/puntingio/racepost/internal/types"
)

const defaultBaseURL = "https://api.theracingapi.com/v1"

// ResultsSource yields the results for one date, filtered to one region.
// A failure here is fatal to the whole run.
type ResultsSource interface {
	Fetch(ctx context.Context, date time.Time, region string) ([]types.RaceResult, error)
}

// Client is the Racing API implementation of ResultsSource using HTTP basic
// auth.
type Client struct {
	baseURL string
	user    string
	pass    string
	http    *http.Client
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(user, pass string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		user:    user,
		pass:    pass,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch requests results for the given date and returns only those matching
// the region code.
func (c *Client) Fetch(ctx context.Context, date time.Time, region string) ([]types.RaceResult, error) {
	day := date.Format("2006-01-02")

	u, err := url.Parse(c.baseURL + "/results")
	if err != nil {
		return nil, fmt.Errorf("build results URL: %w", err)
	}
	q := u.Query()
	q.Set("start_date", day)
	q.Set("end_date", day)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build results request: %w", err)
	}
	req.SetBasicAuth(c.user, c.pass)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch results for %s: %w", day, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("results request for %s returned status %d: %s", day, resp.StatusCode, body)
	}

	var payload struct {
		Results []types.RaceResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode results for %s: %w", day, err)
	}

	matched := make([]types.RaceResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		if r.Region == region {
			matched = append(matched, r)
		}
	}
	c.log.Debug().
		Int("total", len(payload.Results)).
		Int("matched", len(matched)).
		Str("region", region).
		Str("date", day).
		Msg("fetched results")
	return matched, nil
}

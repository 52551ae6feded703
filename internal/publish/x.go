package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const defaultPostURL = "https://api.x.com/2/tweets"

// Credentials holds the OAuth 1.0a user-context keys for the X API.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// XClient publishes announcements as posts on X. Requests pass through a
// local limiter so a burst of candidates cannot trip the service-side rate
// limit before the run cap does its job.
type XClient struct {
	creds   Credentials
	postURL string
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// XOption configures an XClient.
type XOption func(*XClient)

// WithPostURL overrides the post endpoint. Used by tests.
func WithPostURL(u string) XOption {
	return func(c *XClient) { c.postURL = u }
}

// WithXHTTPClient overrides the underlying HTTP client.
func WithXHTTPClient(h *http.Client) XOption {
	return func(c *XClient) { c.http = h }
}

// WithRate overrides the local request limiter.
func WithRate(l *rate.Limiter) XOption {
	return func(c *XClient) { c.limiter = l }
}

func NewXClient(creds Credentials, log zerolog.Logger, opts ...XOption) *XClient {
	c := &XClient{
		creds:   creds,
		postURL: defaultPostURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Publish posts text and classifies the response. The substring checks below
// exist only because the service communicates some failures via unstructured
// message text; nothing outside this adapter inspects message content.
func (c *XClient) Publish(ctx context.Context, text string) Outcome {
	if err := c.limiter.Wait(ctx); err != nil {
		return Outcome{Kind: Other, Message: fmt.Sprintf("rate limiter wait: %v", err)}
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Outcome{Kind: Other, Message: fmt.Sprintf("marshal post body: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.postURL, bytes.NewReader(payload))
	if err != nil {
		return Outcome{Kind: Other, Message: fmt.Sprintf("build post request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", oauth1Header(http.MethodPost, c.postURL, c.creds))

	resp, err := c.http.Do(req)
	if err != nil {
		return Outcome{Kind: Other, Message: fmt.Sprintf("post request: %v", err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	out := classify(resp.StatusCode, body)
	c.log.Debug().Int("status", resp.StatusCode).Str("outcome", out.Kind.String()).Msg("publish attempt")
	return out
}

func classify(status int, body []byte) Outcome {
	lower := strings.ToLower(string(body))

	switch {
	case status == http.StatusCreated || status == http.StatusOK:
		var created struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &created); err != nil || created.Data.ID == "" {
			return Outcome{Kind: Other, Message: fmt.Sprintf("status %d but unreadable response: %s", status, body)}
		}
		return Outcome{Kind: Success, PostID: created.Data.ID}

	case status == http.StatusTooManyRequests || strings.Contains(lower, "too many requests"):
		return Outcome{Kind: RateLimited, Message: string(body)}

	case strings.Contains(lower, "duplicate"):
		return Outcome{Kind: Duplicate, Message: string(body)}

	default:
		return Outcome{Kind: Other, Message: fmt.Sprintf("status %d: %s", status, body)}
	}
}

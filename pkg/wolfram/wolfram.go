package wolfram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseSizeBytes = 1 << 20

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.wolframalpha.com/v1"`
	AppID   string        `envconfig:"APP_ID" split_words:"true"`
	Units   string        `envconfig:"UNITS" split_words:"true" default:"metric"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"15s"`
}

// Client calls the Wolfram Alpha short-answer endpoint. The app id is not
// validated up front: its absence only surfaces when a query is attempted.
type Client struct {
	baseURL    string
	appID      string
	units      string
	httpClient *http.Client
}

// NewClient returns nil when no app id is configured; callers treat a nil
// client as "tool unavailable".
func NewClient(cfg Config) *Client {
	appID := strings.TrimSpace(cfg.AppID)
	if appID == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		appID:      appID,
		units:      strings.TrimSpace(cfg.Units),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Query asks Wolfram Alpha for the short plaintext answer to input.
func (c *Client) Query(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("wolfram query is empty")
	}

	values := url.Values{}
	values.Set("appid", c.appID)
	values.Set("i", input)
	if c.units != "" {
		values.Set("units", c.units)
	}
	endpoint := c.baseURL + "/result?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build wolfram request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute wolfram request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return "", fmt.Errorf("read wolfram response: %w", err)
	}
	body := strings.TrimSpace(string(raw))

	switch resp.StatusCode {
	case http.StatusOK:
		if body == "" {
			return "", fmt.Errorf("wolfram returned an empty answer")
		}
		return body, nil
	case http.StatusNotImplemented:
		// The short-answer API answers 501 when it cannot produce a single
		// line for the query.
		return "", fmt.Errorf("wolfram has no short answer for this query: %s", body)
	case http.StatusForbidden, http.StatusUnauthorized:
		return "", fmt.Errorf("wolfram rejected the app id: %s", body)
	default:
		return "", fmt.Errorf("wolfram returned status %d: %s", resp.StatusCode, body)
	}
}

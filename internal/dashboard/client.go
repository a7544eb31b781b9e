package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrUpstreamUnavailable wraps any transport failure or non-2xx answer
	// from the backend summary endpoint.
	ErrUpstreamUnavailable = errors.New("backend unavailable")
	// ErrInsightsUnavailable means the insights endpoint answered but not
	// with 200.
	ErrInsightsUnavailable = errors.New("insights endpoint not available")
)

const (
	DefaultSummaryTimeout  = 15 * time.Second
	DefaultInsightsTimeout = 30 * time.Second
)

// Filters are the dashboard's sidebar controls. Empty fields are omitted
// from backend requests.
type Filters struct {
	DateFrom string
	DateTo   string
	Category string
	Segment  string
}

func (f Filters) fields() [][2]string {
	return [][2]string{
		{"date_from", f.DateFrom},
		{"date_to", f.DateTo},
		{"category", f.Category},
		{"segment", f.Segment},
	}
}

// Query returns the non-empty filters as URL parameters.
func (f Filters) Query() url.Values {
	q := url.Values{}
	for _, kv := range f.fields() {
		if v := strings.TrimSpace(kv[1]); v != "" {
			q.Set(kv[0], v)
		}
	}
	return q
}

// MarshalJSON encodes unset filters as null.
func (f Filters) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, 4)
	for _, kv := range f.fields() {
		if v := strings.TrimSpace(kv[1]); v != "" {
			out[kv[0]] = &v
		} else {
			out[kv[0]] = nil
		}
	}
	return json.Marshal(out)
}

type KPIs struct {
	TotalEvents int64   `json:"total_events"`
	TotalValue  float64 `json:"total_value"`
	AvgValue    float64 `json:"avg_value"`
}

// EventRow is one event as served inside a summary.
type EventRow struct {
	EventTime string   `json:"event_time"`
	Category  *string  `json:"category,omitempty"`
	Segment   *string  `json:"segment,omitempty"`
	Value     *float64 `json:"value,omitempty"`
}

type Summary struct {
	KPIs   KPIs       `json:"kpis"`
	Events []EventRow `json:"events"`
}

// Client talks to the analytics backend on behalf of the dashboard.
type Client struct {
	baseURL         string
	token           string
	httpClient      *http.Client
	SummaryTimeout  time.Duration
	InsightsTimeout time.Duration
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		token:           token,
		httpClient:      &http.Client{},
		SummaryTimeout:  DefaultSummaryTimeout,
		InsightsTimeout: DefaultInsightsTimeout,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// FetchSummary loads KPIs and events for the filters.
func (c *Client) FetchSummary(ctx context.Context, filters Filters) (*Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, c.SummaryTimeout)
	defer cancel()

	path := "/api/summary"
	if q := filters.Query(); len(q) > 0 {
		path += "?" + q.Encode()
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrUpstreamUnavailable, req.URL.Path, resp.Status)
	}

	var summary Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("%w: decode summary: %v", ErrUpstreamUnavailable, err)
	}
	return &summary, nil
}

// FetchInsights asks the backend for generated commentary on the filters.
func (c *Client) FetchInsights(ctx context.Context, filters Filters) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.InsightsTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]Filters{"filters": filters})
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/ai/insights", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrInsightsUnavailable
	}

	var body struct {
		Insights *string `json:"insights"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Insights == nil {
		return "No insights available.", nil
	}
	return *body.Insights, nil
}

// Package community talks to the shared results service: uploading runs,
// browsing submissions and fetching percentile ranks that place a machine
// within its cohort.
package community

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/johanmcad/workbench/internal/config"
	"github.com/johanmcad/workbench/internal/model"
)

// ErrDisabled is returned by NewClient when no service URL is configured.
var ErrDisabled = errors.New("community: no base URL configured")

// Summary is one community submission as returned by Browse.
type Summary struct {
	ID           string    `json:"id"`
	MachineName  string    `json:"machine_name"`
	DeviceType   string    `json:"device_type"`
	CPUName      string    `json:"cpu_name"`
	OverallScore int       `json:"overall_score"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// BrowseOptions filter the community listing.
type BrowseOptions struct {
	DeviceType string
	Limit      int
}

// Client is an HTTP client for the community service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *slog.Logger
}

// NewClient builds a client from configuration. The API key is resolved
// from the environment; it may be empty for read-only use.
func NewClient(cfg config.CommunityConfig, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrDisabled
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey(),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     logger,
	}, nil
}

// Upload submits a run and returns the service-assigned ID.
func (c *Client) Upload(ctx context.Context, run *model.BenchmarkRun) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("community: upload requires an API key")
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/runs", run, &resp); err != nil {
		return "", err
	}
	c.log.Info("run uploaded", "run_id", run.ID, "remote_id", resp.ID)
	return resp.ID, nil
}

// Browse lists recent community submissions.
func (c *Client) Browse(ctx context.Context, opts BrowseOptions) ([]Summary, error) {
	q := url.Values{}
	if opts.DeviceType != "" {
		q.Set("device_type", opts.DeviceType)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/api/v1/runs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []Summary
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchPercentileRanks asks the service where each of the run's test
// values sits among comparable machines. The result maps test ID to a
// 0–100 percentile rank.
func (c *Client) FetchPercentileRanks(ctx context.Context, run *model.BenchmarkRun) (map[string]float64, error) {
	payload := struct {
		DeviceClass string             `json:"device_class,omitempty"`
		Values      map[string]float64 `json:"values"`
	}{
		Values: make(map[string]float64),
	}
	for _, res := range run.Results.All() {
		payload.Values[res.TestID] = res.Value
	}

	var resp struct {
		Ranks map[string]float64 `json:"ranks"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/percentiles", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Ranks == nil {
		resp.Ranks = map[string]float64{}
	}
	return resp.Ranks, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("community: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("community: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("community: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("community: %s %s: status %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("community: decode response: %w", err)
	}
	return nil
}

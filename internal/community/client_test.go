package community

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/johanmcad/workbench/internal/config"
	"github.com/johanmcad/workbench/internal/model"
)

func newTestClient(t *testing.T, url string, withKey bool) *Client {
	t.Helper()
	cfg := config.CommunityConfig{
		BaseURL:   url,
		APIKeyEnv: "WORKBENCH_TEST_KEY",
		Timeout:   5 * time.Second,
	}
	if withKey {
		t.Setenv("WORKBENCH_TEST_KEY", "sekrit")
	}
	c, err := NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func testRun() *model.BenchmarkRun {
	run := model.NewRun("box", model.SystemInfo{Hostname: "box"})
	run.Results.Append(model.ProjectOperations, model.TestResult{TestID: "file_enumeration", Value: 40_000})
	run.Results.Append(model.Responsiveness, model.TestResult{TestID: "memory_bandwidth", Value: 28.5})
	return run
}

func TestNewClientWithoutURL(t *testing.T) {
	_, err := NewClient(config.CommunityConfig{Timeout: time.Second}, nil)
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/runs" {
			t.Errorf("request = %s %s, want POST /api/v1/runs", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("Authorization = %q", got)
		}
		var run model.BenchmarkRun
		if err := json.NewDecoder(r.Body).Decode(&run); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if run.MachineName != "box" {
			t.Errorf("machine = %q, want box", run.MachineName)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "srv-123"})
	}))
	defer srv.Close()

	id, err := newTestClient(t, srv.URL, true).Upload(context.Background(), testRun())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if id != "srv-123" {
		t.Errorf("remote id = %q, want srv-123", id)
	}
}

func TestUploadRequiresAPIKey(t *testing.T) {
	c := newTestClient(t, "http://localhost:1", false)
	if _, err := c.Upload(context.Background(), testRun()); err == nil {
		t.Error("Upload without key succeeded, want error")
	}
}

func TestBrowsePassesFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("device_type"); got != "laptop" {
			t.Errorf("device_type = %q, want laptop", got)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q, want 5", got)
		}
		json.NewEncoder(w).Encode([]Summary{
			{ID: "a", MachineName: "m1", OverallScore: 4200},
			{ID: "b", MachineName: "m2", OverallScore: 3100},
		})
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv.URL, false).Browse(context.Background(),
		BrowseOptions{DeviceType: "laptop", Limit: 5})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" {
		t.Errorf("summaries = %+v", got)
	}
}

func TestFetchPercentileRanks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Values map[string]float64 `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		if payload.Values["file_enumeration"] != 40_000 {
			t.Errorf("values = %v", payload.Values)
		}
		json.NewEncoder(w).Encode(map[string]map[string]float64{
			"ranks": {"file_enumeration": 62.5, "memory_bandwidth": 48},
		})
	}))
	defer srv.Close()

	ranks, err := newTestClient(t, srv.URL, false).FetchPercentileRanks(context.Background(), testRun())
	if err != nil {
		t.Fatalf("FetchPercentileRanks: %v", err)
	}
	if ranks["file_enumeration"] != 62.5 || ranks["memory_bandwidth"] != 48 {
		t.Errorf("ranks = %v", ranks)
	}
}

func TestFetchPercentileRanksEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ranks, err := newTestClient(t, srv.URL, false).FetchPercentileRanks(context.Background(), testRun())
	if err != nil {
		t.Fatalf("FetchPercentileRanks: %v", err)
	}
	if ranks == nil {
		t.Error("ranks = nil, want empty non-nil map")
	}
	if len(ranks) != 0 {
		t.Errorf("ranks = %v, want empty", ranks)
	}
}

func TestServerErrorSurfacesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, false).Browse(context.Background(), BrowseOptions{})
	if err == nil {
		t.Fatal("Browse on 429 succeeded")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("err = %v, want status and body included", err)
	}
}

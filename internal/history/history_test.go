package history

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/johanmcad/workbench/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func sampleRun(t *testing.T, when time.Time) *model.BenchmarkRun {
	t.Helper()
	run := model.NewRun("box", model.SystemInfo{Hostname: "box"})
	run.Timestamp = when
	run.Results.Append(model.ProjectOperations, model.TestResult{
		TestID: "file_enumeration", Name: "File Enumeration",
		Value: 42_000, Unit: "files/sec", Score: 300, MaxScore: 500,
	})
	return run
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	run := sampleRun(t, time.Now().UTC())

	path, err := s.Save(run)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}

	got, err := s.Load(run.ID.String())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != run.ID || got.MachineName != "box" {
		t.Errorf("loaded run = %v/%s, want %v/box", got.ID, got.MachineName, run.ID)
	}
	res, ok := got.Results.Find("file_enumeration")
	if !ok || res.Score != 300 {
		t.Errorf("loaded result = %+v, ok=%v", res, ok)
	}
}

func TestLoadByIDPrefix(t *testing.T) {
	s := newTestStore(t)
	run := sampleRun(t, time.Now().UTC())
	if _, err := s.Save(run); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(run.ID.String()[:8])
	if err != nil {
		t.Fatalf("Load by prefix: %v", err)
	}
	if got.ID != run.ID {
		t.Errorf("loaded %v, want %v", got.ID, run.ID)
	}
}

func TestLoadAllNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := sampleRun(t, base)
	mid := sampleRun(t, base.Add(24*time.Hour))
	new_ := sampleRun(t, base.Add(48*time.Hour))
	for _, r := range []*model.BenchmarkRun{mid, old, new_} {
		if _, err := s.Save(r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	runs, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("runs = %d, want 3", len(runs))
	}
	if runs[0].ID != new_.ID || runs[2].ID != old.ID {
		t.Errorf("order = [%v %v %v], want newest first", runs[0].ID, runs[1].ID, runs[2].ID)
	}

	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != new_.ID {
		t.Errorf("Latest = %v, want %v", latest.ID, new_.ID)
	}
}

func TestLatestOnEmptyStore(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest on empty store = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	run := sampleRun(t, time.Now().UTC())
	if _, err := s.Save(run); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(run.ID.String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(run.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(run.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("double Delete = %v, want ErrNotFound", err)
	}
}

func TestLoadAllSkipsCorruptFiles(t *testing.T) {
	s := newTestStore(t)
	run := sampleRun(t, time.Now().UTC())
	if _, err := s.Save(run); err != nil {
		t.Fatalf("Save: %v", err)
	}
	corrupt := filepath.Join(s.dir, "20260101T000000_zzz.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	runs, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Errorf("runs = %d, want the one valid run", len(runs))
	}
}

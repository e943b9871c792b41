// Package history persists benchmark runs locally, one JSON file per run,
// so results survive across sessions and feed comparisons and uploads.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/johanmcad/workbench/internal/model"
)

// ErrNotFound is returned when no stored run matches the requested ID.
var ErrNotFound = errors.New("history: run not found")

// Store is a directory of saved runs.
type Store struct {
	dir string
	log *slog.Logger
}

// NewStore opens (creating if needed) the history directory.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}
	return &Store{dir: dir, log: logger}, nil
}

// fileName keys runs by timestamp first so lexical order is age order.
func fileName(run *model.BenchmarkRun) string {
	return fmt.Sprintf("%s_%s.json",
		run.Timestamp.UTC().Format("20060102T150405"), run.ID)
}

// Save writes the run to its own file. Writes go through a temp file and
// rename, so a crash never leaves a half-written run behind.
func (s *Store) Save(run *model.BenchmarkRun) (string, error) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("history: encode run: %w", err)
	}

	path := filepath.Join(s.dir, fileName(run))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("history: write run: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("history: finalize run: %w", err)
	}

	s.log.Info("run saved", "run_id", run.ID, "path", path)
	return path, nil
}

// LoadAll reads every stored run, newest first. Unreadable files are
// logged and skipped rather than failing the listing.
func (s *Store) LoadAll() ([]*model.BenchmarkRun, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("history: read dir: %w", err)
	}

	var runs []*model.BenchmarkRun
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		run, err := s.loadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.log.Warn("skipping unreadable history file", "file", e.Name(), "err", err)
			continue
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// Load returns the stored run whose ID matches id. A unique ID prefix is
// accepted, so CLI users can paste the short form.
func (s *Store) Load(id string) (*model.BenchmarkRun, error) {
	path, err := s.findByID(id)
	if err != nil {
		return nil, err
	}
	return s.loadFile(path)
}

// Latest returns the most recent run, or ErrNotFound for an empty store.
func (s *Store) Latest() (*model.BenchmarkRun, error) {
	runs, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return runs[0], nil
}

// Delete removes the stored run matching id.
func (s *Store) Delete(id string) error {
	path, err := s.findByID(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("history: delete run: %w", err)
	}
	s.log.Info("run deleted", "run_id", id)
	return nil
}

func (s *Store) loadFile(path string) (*model.BenchmarkRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var run model.BenchmarkRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &run, nil
}

// findByID resolves an ID or unique ID prefix to a file path.
func (s *Store) findByID(id string) (string, error) {
	if id == "" {
		return "", ErrNotFound
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("history: read dir: %w", err)
	}

	var matches []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		// <timestamp>_<uuid>.json
		i := strings.IndexByte(name, '_')
		if i < 0 {
			continue
		}
		runID := strings.TrimSuffix(name[i+1:], ".json")
		if strings.HasPrefix(runID, id) {
			matches = append(matches, filepath.Join(s.dir, name))
		}
	}
	switch len(matches) {
	case 0:
		return "", ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("history: id %q is ambiguous (%d matches)", id, len(matches))
	}
}

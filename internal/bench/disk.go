package bench

import (
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/johanmcad/workbench/internal/config"
	"github.com/johanmcad/workbench/internal/model"
	"github.com/johanmcad/workbench/internal/scoring"
)

const mb = 1 << 20

// FileEnumeration creates a wide directory tree and measures how fast it
// can be walked. Approximates IDE project loads and `git status`.
type FileEnumeration struct{}

func (FileEnumeration) ID() string                       { return "file_enumeration" }
func (FileEnumeration) Name() string                     { return "File Enumeration" }
func (FileEnumeration) Category() model.Category         { return model.ProjectOperations }
func (FileEnumeration) EstimatedDuration() time.Duration { return 30 * time.Second }
func (FileEnumeration) Synthetic() bool                  { return true }

func (FileEnumeration) Description() string {
	return "Enumerate a large directory tree - simulates project load and VCS status"
}

func (b FileEnumeration) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	dir, err := unitDir(cfg, b.ID())
	if err != nil {
		return model.TestResult{}, err
	}
	defer os.RemoveAll(dir)

	totalFiles := cfg.EnumDirs * cfg.EnumFilesPerDir
	sink.Update(0, "Creating test files...")

	content := []byte("workbench enumeration test file\n")
	for d := 0; d < cfg.EnumDirs; d++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		sub := filepath.Join(dir, fmt.Sprintf("dir_%04d", d))
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return model.TestResult{}, fmt.Errorf("create dir: %w", err)
		}
		for f := 0; f < cfg.EnumFilesPerDir; f++ {
			name := filepath.Join(sub, fmt.Sprintf("file_%04d.txt", f))
			if err := os.WriteFile(name, content, 0o644); err != nil {
				return model.TestResult{}, fmt.Errorf("create file: %w", err)
			}
		}
		if d%50 == 0 {
			sink.Update(float64(d)/float64(cfg.EnumDirs)*0.5,
				fmt.Sprintf("Creating files... %d/%d", d*cfg.EnumFilesPerDir, totalFiles))
		}
	}

	sink.Update(0.5, "Running enumeration passes...")

	// Warmup pass.
	if _, err := countFiles(dir); err != nil {
		return model.TestResult{}, err
	}

	var counted int
	samples := make([]float64, 0, cfg.EnumRuns)
	for i := 0; i < cfg.EnumRuns; i++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		start := time.Now()
		counted, err = countFiles(dir)
		if err != nil {
			return model.TestResult{}, err
		}
		samples = append(samples, float64(time.Since(start).Nanoseconds())/1e6)
		sink.Update(0.5+float64(i+1)/float64(cfg.EnumRuns)*0.4,
			fmt.Sprintf("Pass %d/%d", i+1, cfg.EnumRuns))
	}

	sink.Update(0.9, "Cleaning up...")
	details := summarize(samples, true)
	details.DurationSecs = sumOf(samples) / 1000
	filesPerSec := float64(counted) / details.Median * 1000

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       filesPerSec,
		Unit:        "files/sec",
		Score:       scoring.FileEnumeration.Score(filesPerSec),
		MaxScore:    scoring.FileEnumeration.Max,
		Details:     details,
	}, nil
}

func countFiles(root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	return count, err
}

// Traversal walks a source-like tree and reads the head of every file.
// Unlike FileEnumeration it touches content, so it approximates
// search-in-files and indexer passes rather than a bare listing.
type Traversal struct{}

func (Traversal) ID() string                       { return "traversal" }
func (Traversal) Name() string                     { return "Directory Traversal" }
func (Traversal) Category() model.Category         { return model.ProjectOperations }
func (Traversal) EstimatedDuration() time.Duration { return 35 * time.Second }
func (Traversal) Synthetic() bool                  { return true }

func (Traversal) Description() string {
	return "Walk a tree reading the first 1 KiB of every file - simulates search in files"
}

func (b Traversal) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	dir, err := unitDir(cfg, b.ID())
	if err != nil {
		return model.TestResult{}, err
	}
	defer os.RemoveAll(dir)

	totalFiles := cfg.TraversalDirs * cfg.TraversalFilesPerDir
	sink.Update(0, "Creating test files...")

	content := []byte("package main\n\nfunc main() {\n\tprintln(\"workbench\")\n}\n")
	for d := 0; d < cfg.TraversalDirs; d++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		sub := filepath.Join(dir, fmt.Sprintf("src_%04d", d))
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return model.TestResult{}, fmt.Errorf("create dir: %w", err)
		}
		for f := 0; f < cfg.TraversalFilesPerDir; f++ {
			name := filepath.Join(sub, fmt.Sprintf("module_%04d.go", f))
			if err := os.WriteFile(name, content, 0o644); err != nil {
				return model.TestResult{}, fmt.Errorf("create file: %w", err)
			}
		}
		if d%50 == 0 {
			sink.Update(float64(d)/float64(cfg.TraversalDirs)*0.4,
				fmt.Sprintf("Creating files... %d/%d", d*cfg.TraversalFilesPerDir, totalFiles))
		}
	}

	sink.Update(0.4, "Running traversal passes...")

	// Warmup pass.
	if _, err := readHeads(dir); err != nil {
		return model.TestResult{}, err
	}

	var visited int
	samples := make([]float64, 0, cfg.TraversalRuns)
	for i := 0; i < cfg.TraversalRuns; i++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		start := time.Now()
		visited, err = readHeads(dir)
		if err != nil {
			return model.TestResult{}, err
		}
		samples = append(samples, float64(time.Since(start).Nanoseconds())/1e6)
		sink.Update(0.4+float64(i+1)/float64(cfg.TraversalRuns)*0.5,
			fmt.Sprintf("Pass %d/%d", i+1, cfg.TraversalRuns))
	}

	sink.Update(0.9, "Cleaning up...")
	details := summarize(samples, true)
	details.DurationSecs = sumOf(samples) / 1000
	filesPerSec := float64(visited) / details.Median * 1000

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       filesPerSec,
		Unit:        "files/sec",
		Score:       scoring.Traversal.Score(filesPerSec),
		MaxScore:    scoring.Traversal.Max,
		Details:     details,
	}, nil
}

// readHeads walks root and reads the first 1 KiB of every regular file.
func readHeads(root string) (int, error) {
	buf := make([]byte, 1024)
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = f.Read(buf)
		f.Close()
		if err != nil && err != io.EOF {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// RandomRead measures 4 KiB random-read latency over a prepared file.
// The headline value is the P99 latency in milliseconds.
type RandomRead struct{}

func (RandomRead) ID() string                       { return "random_read" }
func (RandomRead) Name() string                     { return "Random Read" }
func (RandomRead) Category() model.Category         { return model.ProjectOperations }
func (RandomRead) EstimatedDuration() time.Duration { return 25 * time.Second }
func (RandomRead) Synthetic() bool                  { return true }

func (RandomRead) Description() string {
	return "4 KiB random reads - simulates indexed file access and database lookups"
}

func (b RandomRead) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	dir, err := unitDir(cfg, b.ID())
	if err != nil {
		return model.TestResult{}, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "random_read.dat")
	sink.Update(0, "Preparing test file...")
	if err := writeFilledFile(path, cfg.RandomReadFileMB, sink, 0, 0.4); err != nil {
		return model.TestResult{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return model.TestResult{}, fmt.Errorf("open test file: %w", err)
	}
	defer f.Close()

	fileSize := int64(cfg.RandomReadFileMB) * mb
	const blockSize = 4096
	buf := make([]byte, blockSize)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	sink.Update(0.4, "Reading random blocks...")
	samples := make([]float64, 0, cfg.RandomReadOps)
	for i := 0; i < cfg.RandomReadOps; i++ {
		if i%256 == 0 {
			if err := checkCancel(sink); err != nil {
				return model.TestResult{}, err
			}
			sink.Update(0.4+float64(i)/float64(cfg.RandomReadOps)*0.5,
				fmt.Sprintf("Read %d/%d", i, cfg.RandomReadOps))
		}
		offset := rng.Int63n(fileSize-blockSize) &^ (blockSize - 1)
		start := time.Now()
		if _, err := f.ReadAt(buf, offset); err != nil {
			return model.TestResult{}, fmt.Errorf("read at %d: %w", offset, err)
		}
		samples = append(samples, float64(time.Since(start).Nanoseconds())/1e6)
	}

	details := summarize(samples, true)
	details.DurationSecs = sumOf(samples) / 1000
	p99 := details.Percentiles.P99

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       p99,
		Unit:        "ms (P99)",
		Score:       scoring.StorageLatency.Score(p99),
		MaxScore:    scoring.StorageLatency.Max,
		Details:     details,
	}, nil
}

// LargeFileRead measures sequential read throughput over a prepared file.
type LargeFileRead struct{}

func (LargeFileRead) ID() string                       { return "large_file_read" }
func (LargeFileRead) Name() string                     { return "Large File Read" }
func (LargeFileRead) Category() model.Category         { return model.ProjectOperations }
func (LargeFileRead) EstimatedDuration() time.Duration { return 20 * time.Second }
func (LargeFileRead) Synthetic() bool                  { return true }

func (LargeFileRead) Description() string {
	return "Sequential read of a large file - simulates asset and archive loading"
}

func (b LargeFileRead) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	dir, err := unitDir(cfg, b.ID())
	if err != nil {
		return model.TestResult{}, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "large_read.dat")
	sink.Update(0, "Preparing test file...")
	if err := writeFilledFile(path, cfg.LargeFileMB, sink, 0, 0.4); err != nil {
		return model.TestResult{}, err
	}

	const runs = 3
	buf := make([]byte, 4*mb)
	samples := make([]float64, 0, runs)

	for i := 0; i < runs; i++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		sink.Update(0.4+float64(i)/runs*0.5, fmt.Sprintf("Read pass %d/%d", i+1, runs))

		f, err := os.Open(path)
		if err != nil {
			return model.TestResult{}, fmt.Errorf("open test file: %w", err)
		}
		start := time.Now()
		for {
			if _, err := f.Read(buf); err == io.EOF {
				break
			} else if err != nil {
				f.Close()
				return model.TestResult{}, fmt.Errorf("sequential read: %w", err)
			}
		}
		samples = append(samples, float64(time.Since(start).Nanoseconds())/1e6)
		f.Close()
	}

	details := summarize(samples, false)
	details.DurationSecs = sumOf(samples) / 1000
	mbPerSec := float64(cfg.LargeFileMB) / details.Median * 1000

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       mbPerSec,
		Unit:        "MB/s",
		Score:       scoring.SequentialRead.Score(mbPerSec),
		MaxScore:    scoring.SequentialRead.Max,
		Details:     details,
	}, nil
}

// MetadataOps measures create/stat/rename/delete churn on small files.
type MetadataOps struct{}

func (MetadataOps) ID() string                       { return "metadata_ops" }
func (MetadataOps) Name() string                     { return "Metadata Operations" }
func (MetadataOps) Category() model.Category         { return model.ProjectOperations }
func (MetadataOps) EstimatedDuration() time.Duration { return 20 * time.Second }
func (MetadataOps) Synthetic() bool                  { return true }

func (MetadataOps) Description() string {
	return "Create/stat/rename/delete cycles - simulates build tool bookkeeping"
}

func (b MetadataOps) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	dir, err := unitDir(cfg, b.ID())
	if err != nil {
		return model.TestResult{}, err
	}
	defer os.RemoveAll(dir)

	opsPerRun := 4 * cfg.MetadataFiles
	samples := make([]float64, 0, cfg.MetadataRuns)

	for run := 0; run < cfg.MetadataRuns; run++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		sink.Update(float64(run)/float64(cfg.MetadataRuns)*0.9,
			fmt.Sprintf("Churn pass %d/%d", run+1, cfg.MetadataRuns))

		start := time.Now()
		for i := 0; i < cfg.MetadataFiles; i++ {
			name := filepath.Join(dir, fmt.Sprintf("meta_%05d.tmp", i))
			if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
				return model.TestResult{}, fmt.Errorf("create: %w", err)
			}
			if _, err := os.Stat(name); err != nil {
				return model.TestResult{}, fmt.Errorf("stat: %w", err)
			}
			renamed := name + ".r"
			if err := os.Rename(name, renamed); err != nil {
				return model.TestResult{}, fmt.Errorf("rename: %w", err)
			}
			if err := os.Remove(renamed); err != nil {
				return model.TestResult{}, fmt.Errorf("remove: %w", err)
			}
		}
		samples = append(samples, float64(time.Since(start).Nanoseconds())/1e6)
	}

	details := summarize(samples, false)
	details.DurationSecs = sumOf(samples) / 1000
	opsPerSec := float64(opsPerRun) / details.Median * 1000

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       opsPerSec,
		Unit:        "ops/sec",
		Score:       scoring.MetadataOps.Score(opsPerSec),
		MaxScore:    scoring.MetadataOps.Max,
		Details:     details,
	}, nil
}

// writeFilledFile writes sizeMB of pseudo-random data to path, reporting
// progress within [from, to].
func writeFilledFile(path string, sizeMB int, sink ProgressSink, from, to float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create test file: %w", err)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(42))
	chunk := make([]byte, mb)
	for i := 0; i < sizeMB; i++ {
		if sink.IsCancelled() {
			return ErrCancelled
		}
		rng.Read(chunk)
		if _, err := f.Write(chunk); err != nil {
			return fmt.Errorf("write test file: %w", err)
		}
		if i%32 == 0 {
			sink.Update(from+(to-from)*float64(i)/float64(sizeMB),
				fmt.Sprintf("Writing test data... %d/%d MB", i, sizeMB))
		}
	}
	return f.Sync()
}

func sumOf(samples []float64) float64 {
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum
}

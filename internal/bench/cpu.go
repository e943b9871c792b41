package bench

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/klauspost/compress/s2"
	"golang.org/x/sync/errgroup"

	"github.com/johanmcad/workbench/internal/config"
	"github.com/johanmcad/workbench/internal/model"
	"github.com/johanmcad/workbench/internal/scoring"
)

// compressChunks builds the working set for the compression units. Chunks
// are pseudo-random but compressible enough to exercise the encoder.
func compressChunks(cfg *config.RunConfig, count int) [][]byte {
	rng := rand.New(rand.NewSource(7))
	chunkSize := cfg.CompressChunkKB * 1024
	chunks := make([][]byte, count)
	for i := range chunks {
		chunk := make([]byte, chunkSize)
		// Repeat short runs so the data is not pure noise.
		for j := 0; j < chunkSize; j += 16 {
			b := byte(rng.Intn(64))
			for k := j; k < j+16 && k < chunkSize; k++ {
				chunk[k] = b
			}
		}
		chunks[i] = chunk
	}
	return chunks
}

// SingleThread measures compression throughput on one core.
type SingleThread struct{}

func (SingleThread) ID() string                       { return "single_thread" }
func (SingleThread) Name() string                     { return "Single Thread" }
func (SingleThread) Category() model.Category         { return model.BuildPerformance }
func (SingleThread) EstimatedDuration() time.Duration { return 15 * time.Second }
func (SingleThread) Synthetic() bool                  { return true }

func (SingleThread) Description() string {
	return "Single-core compress and decompress throughput - simulates sequential compile steps"
}

// roundTrip compresses chunk into dst and decompresses the result back.
func roundTrip(dst, back, chunk []byte) {
	enc := s2.Encode(dst, chunk)
	s2.Decode(back, enc)
}

func (b SingleThread) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	sink.Update(0, "Preparing working set...")
	chunkSize := cfg.CompressChunkKB * 1024
	chunks := compressChunks(cfg, cfg.CompressChunksPerCore)
	dst := make([]byte, s2.MaxEncodedLen(chunkSize))
	back := make([]byte, chunkSize)

	const runs = 5
	bytesPerRun := float64(len(chunks) * chunkSize)
	samples := make([]float64, 0, runs)

	for i := 0; i < runs; i++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		sink.Update(float64(i)/runs*0.9, fmt.Sprintf("Compression pass %d/%d", i+1, runs))
		start := time.Now()
		for _, chunk := range chunks {
			roundTrip(dst, back, chunk)
		}
		samples = append(samples, float64(time.Since(start).Nanoseconds())/1e6)
	}

	details := summarize(samples, false)
	details.DurationSecs = sumOf(samples) / 1000
	mbPerSec := bytesPerRun / mb / details.Median * 1000

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       mbPerSec,
		Unit:        "MB/s",
		Score:       scoring.SingleThread.Score(mbPerSec),
		MaxScore:    scoring.SingleThread.Max,
		Details:     details,
	}, nil
}

// MultiThread measures compression throughput across all cores.
type MultiThread struct{}

func (MultiThread) ID() string                       { return "multi_thread" }
func (MultiThread) Name() string                     { return "Multi Thread" }
func (MultiThread) Category() model.Category         { return model.BuildPerformance }
func (MultiThread) EstimatedDuration() time.Duration { return 15 * time.Second }
func (MultiThread) Synthetic() bool                  { return true }

func (MultiThread) Description() string {
	return "All-core compress and decompress throughput - simulates parallel compilation"
}

func (b MultiThread) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	workers := runtime.NumCPU()
	sink.Update(0, "Preparing working set...")
	chunkSize := cfg.CompressChunkKB * 1024
	chunks := compressChunks(cfg, cfg.CompressChunksPerCore)

	const runs = 5
	bytesPerRun := float64(workers * len(chunks) * chunkSize)
	samples := make([]float64, 0, runs)

	for i := 0; i < runs; i++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		sink.Update(float64(i)/runs*0.9, fmt.Sprintf("Compression pass %d/%d", i+1, runs))

		start := time.Now()
		var g errgroup.Group
		for w := 0; w < workers; w++ {
			g.Go(func() error {
				dst := make([]byte, s2.MaxEncodedLen(chunkSize))
				back := make([]byte, chunkSize)
				for _, chunk := range chunks {
					roundTrip(dst, back, chunk)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return model.TestResult{}, err
		}
		samples = append(samples, float64(time.Since(start).Nanoseconds())/1e6)
	}

	details := summarize(samples, false)
	details.DurationSecs = sumOf(samples) / 1000
	mbPerSec := bytesPerRun / mb / details.Median * 1000

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       mbPerSec,
		Unit:        "MB/s",
		Score:       scoring.MultiThread.Score(mbPerSec),
		MaxScore:    scoring.MultiThread.Max,
		Details:     details,
	}, nil
}

// MixedWorkload pushes chunks through a read-compress-write pipeline
// across all cores, so storage and CPU contend like they do in a real
// build. The headline value is MB/s of source data processed.
type MixedWorkload struct{}

func (MixedWorkload) ID() string                       { return "mixed_workload" }
func (MixedWorkload) Name() string                     { return "Mixed Workload" }
func (MixedWorkload) Category() model.Category         { return model.BuildPerformance }
func (MixedWorkload) EstimatedDuration() time.Duration { return 20 * time.Second }
func (MixedWorkload) Synthetic() bool                  { return true }

func (MixedWorkload) Description() string {
	return "Parallel read-compress-write pipeline - simulates a full build"
}

func (b MixedWorkload) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	dir, err := unitDir(cfg, b.ID())
	if err != nil {
		return model.TestResult{}, err
	}
	defer os.RemoveAll(dir)

	workers := runtime.NumCPU()
	chunkSize := cfg.CompressChunkKB * 1024
	chunks := cfg.CompressChunksPerCore

	sink.Update(0, "Preparing source files...")
	source := compressChunks(cfg, chunks)
	for w := 0; w < workers; w++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("src_%02d.dat", w)))
		if err != nil {
			return model.TestResult{}, fmt.Errorf("create source: %w", err)
		}
		for _, chunk := range source {
			if _, err := f.Write(chunk); err != nil {
				f.Close()
				return model.TestResult{}, fmt.Errorf("write source: %w", err)
			}
		}
		f.Close()
	}

	const runs = 3
	samples := make([]float64, 0, runs)

	for i := 0; i < runs; i++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		sink.Update(0.3+float64(i)/runs*0.6, fmt.Sprintf("Pipeline pass %d/%d", i+1, runs))

		start := time.Now()
		var g errgroup.Group
		for w := 0; w < workers; w++ {
			w := w
			g.Go(func() error {
				src, err := os.Open(filepath.Join(dir, fmt.Sprintf("src_%02d.dat", w)))
				if err != nil {
					return fmt.Errorf("open source: %w", err)
				}
				defer src.Close()
				out, err := os.Create(filepath.Join(dir, fmt.Sprintf("out_%02d.s2", w)))
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer out.Close()

				buf := make([]byte, chunkSize)
				dst := make([]byte, s2.MaxEncodedLen(chunkSize))
				for c := 0; c < chunks; c++ {
					if _, err := io.ReadFull(src, buf); err != nil {
						return fmt.Errorf("read chunk: %w", err)
					}
					if _, err := out.Write(s2.Encode(dst, buf)); err != nil {
						return fmt.Errorf("write chunk: %w", err)
					}
				}
				return out.Sync()
			})
		}
		if err := g.Wait(); err != nil {
			return model.TestResult{}, err
		}
		samples = append(samples, float64(time.Since(start).Nanoseconds())/1e6)
	}

	details := summarize(samples, false)
	details.DurationSecs = sumOf(samples) / 1000
	bytesPerRun := float64(workers * chunks * chunkSize)
	mbPerSec := bytesPerRun / mb / details.Median * 1000

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       mbPerSec,
		Unit:        "MB/s",
		Score:       scoring.MixedWorkload.Score(mbPerSec),
		MaxScore:    scoring.MixedWorkload.Max,
		Details:     details,
	}, nil
}

// SustainedWrite streams a large file to disk with periodic syncs, the
// way compilers and linkers emit build output. The headline value is
// write throughput in MB/s.
type SustainedWrite struct{}

func (SustainedWrite) ID() string                       { return "sustained_write" }
func (SustainedWrite) Name() string                     { return "Sustained Write" }
func (SustainedWrite) Category() model.Category         { return model.BuildPerformance }
func (SustainedWrite) EstimatedDuration() time.Duration { return 30 * time.Second }
func (SustainedWrite) Synthetic() bool                  { return true }

func (SustainedWrite) Description() string {
	return "Long sequential write with periodic sync - simulates build output"
}

func (b SustainedWrite) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	dir, err := unitDir(cfg, b.ID())
	if err != nil {
		return model.TestResult{}, err
	}
	defer os.RemoveAll(dir)

	const chunkMB = 4
	const syncEvery = 64 // chunks between sync calls
	chunks := cfg.SustainedWriteMB / chunkMB
	if chunks < 1 {
		chunks = 1
	}

	sink.Update(0, "Preparing write buffer...")
	chunk := make([]byte, chunkMB*mb)
	rand.New(rand.NewSource(11)).Read(chunk)

	const runs = 2
	path := filepath.Join(dir, "sustained_write.dat")
	samples := make([]float64, 0, runs)

	for i := 0; i < runs; i++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		os.Remove(path)

		f, err := os.Create(path)
		if err != nil {
			return model.TestResult{}, fmt.Errorf("create output: %w", err)
		}
		start := time.Now()
		for c := 0; c < chunks; c++ {
			if sink.IsCancelled() {
				f.Close()
				return model.TestResult{}, ErrCancelled
			}
			if _, err := f.Write(chunk); err != nil {
				f.Close()
				return model.TestResult{}, fmt.Errorf("write chunk: %w", err)
			}
			if (c+1)%syncEvery == 0 {
				if err := f.Sync(); err != nil {
					f.Close()
					return model.TestResult{}, fmt.Errorf("sync: %w", err)
				}
			}
			if c%32 == 0 {
				sink.Update(float64(i)/runs*0.9+float64(c)/float64(chunks)*(0.9/runs),
					fmt.Sprintf("Pass %d/%d: %d/%d MB", i+1, runs, c*chunkMB, chunks*chunkMB))
			}
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return model.TestResult{}, fmt.Errorf("sync: %w", err)
		}
		f.Close()

		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6
		samples = append(samples, elapsed)
	}

	sink.Update(0.95, "Cleaning up...")
	details := summarize(samples, false)
	details.DurationSecs = sumOf(samples) / 1000
	mbPerSec := float64(chunks*chunkMB) / details.Median * 1000

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       mbPerSec,
		Unit:        "MB/s",
		Score:       scoring.SustainedWrite.Score(mbPerSec),
		MaxScore:    scoring.SustainedWrite.Max,
		Details:     details,
	}, nil
}

// ScriptSpawn measures how long the shell takes to run a trivial script.
// High times indicate profile bloat or security-tooling interception.
type ScriptSpawn struct{}

func (ScriptSpawn) ID() string                       { return "script_spawn" }
func (ScriptSpawn) Name() string                     { return "Script Spawn" }
func (ScriptSpawn) Category() model.Category         { return model.BuildPerformance }
func (ScriptSpawn) EstimatedDuration() time.Duration { return 20 * time.Second }
func (ScriptSpawn) Synthetic() bool                  { return false }

func (ScriptSpawn) Description() string {
	return "Shell script execution time - simulates build scripts and task runners"
}

func (b ScriptSpawn) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	dir, err := unitDir(cfg, b.ID())
	if err != nil {
		return model.TestResult{}, err
	}
	defer os.RemoveAll(dir)

	script, args, err := writeSpawnScript(dir)
	if err != nil {
		return model.TestResult{}, err
	}

	// Warmup so shell and script land in cache.
	exec.Command(script, args...).Run()

	samples := make([]float64, 0, cfg.ScriptRuns)
	for i := 0; i < cfg.ScriptRuns; i++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		sink.Update(float64(i)/float64(cfg.ScriptRuns)*0.9,
			fmt.Sprintf("Script run %d/%d", i+1, cfg.ScriptRuns))
		start := time.Now()
		if err := exec.Command(script, args...).Run(); err != nil {
			return model.TestResult{}, fmt.Errorf("run script: %w", err)
		}
		samples = append(samples, float64(time.Since(start).Nanoseconds())/1e6)
	}

	details := summarize(samples, true)
	details.DurationSecs = sumOf(samples) / 1000
	median := details.Median

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       median,
		Unit:        "ms",
		Score:       scoring.ScriptSpawn.Score(median),
		MaxScore:    scoring.ScriptSpawn.Max,
		Details:     details,
	}, nil
}

func writeSpawnScript(dir string) (string, []string, error) {
	if runtime.GOOS == "windows" {
		path := filepath.Join(dir, "spawn.cmd")
		body := "@echo off\r\necho workbench\r\n"
		if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
			return "", nil, fmt.Errorf("write script: %w", err)
		}
		return "cmd", []string{"/C", path}, nil
	}
	path := filepath.Join(dir, "spawn.sh")
	body := "#!/bin/sh\necho workbench\n"
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		return "", nil, fmt.Errorf("write script: %w", err)
	}
	return "/bin/sh", []string{path}, nil
}

package bench

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/johanmcad/workbench/internal/config"
	"github.com/johanmcad/workbench/internal/model"
	"github.com/johanmcad/workbench/internal/scoring"
)

// MemoryBandwidth measures large-buffer copy bandwidth in GB/s.
type MemoryBandwidth struct{}

func (MemoryBandwidth) ID() string                       { return "memory_bandwidth" }
func (MemoryBandwidth) Name() string                     { return "Memory Bandwidth" }
func (MemoryBandwidth) Category() model.Category         { return model.Responsiveness }
func (MemoryBandwidth) EstimatedDuration() time.Duration { return 10 * time.Second }
func (MemoryBandwidth) Synthetic() bool                  { return true }

func (MemoryBandwidth) Description() string {
	return "Large buffer copy bandwidth - simulates in-memory data processing"
}

func (b MemoryBandwidth) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	sink.Update(0, "Allocating buffers...")
	size := cfg.MemoryBufferMB * mb
	src := make([]byte, size)
	dst := make([]byte, size)
	rand.New(rand.NewSource(11)).Read(src)

	const runs = 7
	samples := make([]float64, 0, runs)

	// Warmup touches every page once.
	copy(dst, src)

	for i := 0; i < runs; i++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		sink.Update(float64(i)/runs*0.9, fmt.Sprintf("Copy pass %d/%d", i+1, runs))
		start := time.Now()
		copy(dst, src)
		samples = append(samples, float64(time.Since(start).Nanoseconds())/1e6)
	}

	details := summarize(samples, false)
	details.DurationSecs = sumOf(samples) / 1000
	// Copy moves size bytes read plus size bytes written.
	gbPerSec := 2 * float64(size) / (1 << 30) / details.Median * 1000

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       gbPerSec,
		Unit:        "GB/s",
		Score:       scoring.MemoryBandwidth.Score(gbPerSec),
		MaxScore:    scoring.MemoryBandwidth.Max,
		Details:     details,
	}, nil
}

// MemoryLatency measures dependent-load latency with a pointer chase over
// a buffer larger than L3, so every hop misses cache.
type MemoryLatency struct{}

func (MemoryLatency) ID() string                       { return "memory_latency" }
func (MemoryLatency) Name() string                     { return "Memory Latency" }
func (MemoryLatency) Category() model.Category         { return model.Responsiveness }
func (MemoryLatency) EstimatedDuration() time.Duration { return 10 * time.Second }
func (MemoryLatency) Synthetic() bool                  { return true }

func (MemoryLatency) Description() string {
	return "Random pointer-chase latency - simulates linked structures and object graphs"
}

func (b MemoryLatency) Run(sink ProgressSink, cfg *config.RunConfig) (model.TestResult, error) {
	sink.Update(0, "Building chase ring...")
	// One index per cache line so hardware prefetch cannot help.
	const stride = 64 / 8
	entries := cfg.MemoryChaseMB * mb / 64
	ring := make([]uint64, entries*stride)

	perm := rand.New(rand.NewSource(13)).Perm(entries)
	for i := 0; i < entries; i++ {
		ring[uint64(perm[i])*stride] = uint64(perm[(i+1)%entries]) * stride
	}

	const runs = 5
	hops := entries
	samples := make([]float64, 0, runs)
	var idx uint64

	for i := 0; i < runs; i++ {
		if err := checkCancel(sink); err != nil {
			return model.TestResult{}, err
		}
		sink.Update(float64(i)/runs*0.9, fmt.Sprintf("Chase pass %d/%d", i+1, runs))
		start := time.Now()
		for h := 0; h < hops; h++ {
			idx = ring[idx]
		}
		samples = append(samples, float64(time.Since(start).Nanoseconds())/float64(hops))
	}
	// Defeat dead-code elimination of the chase loop.
	_ = ring[idx]

	details := summarize(samples, false)
	details.DurationSecs = sumOf(samples) * float64(hops) / 1e9
	nsPerHop := details.Median

	sink.Update(1, "Complete")
	return model.TestResult{
		TestID:      b.ID(),
		Name:        b.Name(),
		Description: b.Description(),
		Value:       nsPerHop,
		Unit:        "ns",
		Score:       scoring.MemoryLatency.Score(nsPerHop),
		MaxScore:    scoring.MemoryLatency.Max,
		Details:     details,
	}, nil
}

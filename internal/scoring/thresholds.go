package scoring

// Step is one (bound, score) pair in a threshold table.
type Step struct {
	Bound float64
	Score int
}

// Table maps a measurement to a score through ordered steps.
//
// For a higher-is-better table the steps are listed from the highest bound
// down and a measurement scores the first step whose bound it meets or
// exceeds. For a lower-is-better table the steps are listed from the lowest
// bound up and a measurement scores the first step it falls strictly below.
// Floor is the score when no step matches.
type Table struct {
	HigherIsBetter bool
	Max            int
	Floor          int
	Steps          []Step
}

// Score evaluates the table for value. First match wins.
func (t Table) Score(value float64) int {
	for _, s := range t.Steps {
		if t.HigherIsBetter {
			if value >= s.Bound {
				return s.Score
			}
		} else if value < s.Bound {
			return s.Score
		}
	}
	return t.Floor
}

// Threshold tables per metric family. Bounds come from the fixed scoring
// model; they are deliberately not configurable so scores stay comparable
// across machines and versions.
var (
	// FileEnumeration scores files/sec.
	FileEnumeration = Table{
		HigherIsBetter: true,
		Max:            500,
		Floor:          25,
		Steps: []Step{
			{60_000, 500}, {45_000, 400}, {30_000, 300}, {15_000, 150}, {5_000, 50},
		},
	}

	// StorageLatency scores random-read P99 latency in ms.
	StorageLatency = Table{
		HigherIsBetter: false,
		Max:            700,
		Floor:          10,
		Steps: []Step{
			{0.5, 700}, {1, 550}, {2, 400}, {5, 250}, {10, 150}, {25, 75}, {50, 30},
		},
	}

	// MetadataOps scores metadata operations/sec.
	MetadataOps = Table{
		HigherIsBetter: true,
		Max:            500,
		Floor:          25,
		Steps: []Step{
			{5_000, 500}, {3_000, 350}, {1_500, 200}, {500, 100},
		},
	}

	// Traversal scores content-touching tree walks in files/sec.
	Traversal = Table{
		HigherIsBetter: true,
		Max:            400,
		Floor:          25,
		Steps: []Step{
			{20_000, 400}, {10_000, 300}, {5_000, 150}, {1_000, 75},
		},
	}

	// SequentialRead scores large-file read throughput in MB/s.
	SequentialRead = Table{
		HigherIsBetter: true,
		Max:            500,
		Floor:          25,
		Steps: []Step{
			{3_000, 500}, {2_000, 400}, {1_000, 250}, {500, 150}, {200, 75},
		},
	}

	// SingleThread scores single-thread compression throughput in MB/s.
	SingleThread = Table{
		HigherIsBetter: true,
		Max:            600,
		Floor:          50,
		Steps: []Step{
			{500, 600}, {350, 450}, {200, 300}, {100, 150},
		},
	}

	// MultiThread scores all-core compression throughput in MB/s.
	MultiThread = Table{
		HigherIsBetter: true,
		Max:            600,
		Floor:          50,
		Steps: []Step{
			{4_000, 600}, {2_500, 450}, {1_500, 300}, {800, 150},
		},
	}

	// MixedWorkload scores read-compress-write throughput in MB/s.
	MixedWorkload = Table{
		HigherIsBetter: true,
		Max:            700,
		Floor:          50,
		Steps: []Step{
			{1_000, 700}, {600, 500}, {300, 300}, {150, 150},
		},
	}

	// SustainedWrite scores long sequential write throughput in MB/s.
	SustainedWrite = Table{
		HigherIsBetter: true,
		Max:            600,
		Floor:          50,
		Steps: []Step{
			{2_500, 600}, {1_500, 450}, {800, 300}, {400, 150}, {200, 75},
		},
	}

	// ScriptSpawn scores shell-script execution latency in ms.
	ScriptSpawn = Table{
		HigherIsBetter: false,
		Max:            500,
		Floor:          25,
		Steps: []Step{
			{100, 500}, {250, 400}, {500, 250}, {1_000, 100},
		},
	}

	// MemoryBandwidth scores copy bandwidth in GB/s.
	MemoryBandwidth = Table{
		HigherIsBetter: true,
		Max:            500,
		Floor:          50,
		Steps: []Step{
			{50, 500}, {40, 400}, {30, 300}, {20, 200}, {15, 100},
		},
	}

	// MemoryLatency scores dependent-load latency in ns.
	MemoryLatency = Table{
		HigherIsBetter: false,
		Max:            400,
		Floor:          50,
		Steps: []Step{
			{70, 400}, {90, 300}, {120, 200}, {150, 100},
		},
	}

	// ProcessSpawn scores average process creation time in ms.
	ProcessSpawn = Table{
		HigherIsBetter: false,
		Max:            500,
		Floor:          10,
		Steps: []Step{
			{30, 500}, {50, 400}, {100, 250}, {200, 125}, {500, 50},
		},
	}

	// ThreadWake scores thread wake latency in µs.
	ThreadWake = Table{
		HigherIsBetter: false,
		Max:            400,
		Floor:          50,
		Steps: []Step{
			{50, 400}, {100, 300}, {200, 200}, {500, 100},
		},
	}
)

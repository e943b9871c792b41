package bench

// DefaultUnits returns the full suite in execution order: disk units
// first while the page cache is cold, then CPU, then memory and latency.
func DefaultUnits() []Benchmark {
	return []Benchmark{
		FileEnumeration{},
		Traversal{},
		RandomRead{},
		LargeFileRead{},
		MetadataOps{},
		SingleThread{},
		MultiThread{},
		MixedWorkload{},
		SustainedWrite{},
		ScriptSpawn{},
		MemoryBandwidth{},
		MemoryLatency{},
		ProcessSpawn{},
		ThreadWake{},
	}
}

// Filter drops synthetic units when skipSynthetic is set, preserving order.
func Filter(units []Benchmark, skipSynthetic bool) []Benchmark {
	if !skipSynthetic {
		return units
	}
	kept := make([]Benchmark, 0, len(units))
	for _, u := range units {
		if !u.Synthetic() {
			kept = append(kept, u)
		}
	}
	return kept
}

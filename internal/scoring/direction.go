package scoring

// tables maps each test ID to its threshold table.
var tables = map[string]Table{
	"file_enumeration": FileEnumeration,
	"random_read":      StorageLatency,
	"large_file_read":  SequentialRead,
	"traversal":        Traversal,
	"metadata_ops":     MetadataOps,
	"single_thread":    SingleThread,
	"multi_thread":     MultiThread,
	"mixed_workload":   MixedWorkload,
	"sustained_write":  SustainedWrite,
	"script_spawn":     ScriptSpawn,
	"memory_bandwidth": MemoryBandwidth,
	"memory_latency":   MemoryLatency,
	"process_spawn":    ProcessSpawn,
	"thread_wake":      ThreadWake,
}

// HigherIsBetter reports the direction of a test's metric. Unknown tests
// default to higher-is-better, the common case.
func HigherIsBetter(testID string) bool {
	t, ok := tables[testID]
	if !ok {
		return true
	}
	return t.HigherIsBetter
}

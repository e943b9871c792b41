package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
// Sizes and iteration counts are the quick preset: a full battery in a
// few minutes rather than a stress run.
const (
	DefaultCooldown = 500 * time.Millisecond

	DefaultEnumDirs        = 200
	DefaultEnumFilesPerDir = 50
	DefaultEnumRuns        = 5

	DefaultTraversalDirs        = 150
	DefaultTraversalFilesPerDir = 40
	DefaultTraversalRuns        = 3

	DefaultRandomReadFileMB = 256
	DefaultRandomReadOps    = 2000

	DefaultLargeFileMB = 512

	DefaultMetadataFiles = 1000
	DefaultMetadataRuns  = 3

	DefaultCompressChunkKB       = 64
	DefaultCompressChunksPerCore = 400
	DefaultSustainedWriteMB      = 1024

	DefaultMemoryBufferMB = 256
	DefaultMemoryChaseMB  = 64

	DefaultSpawnCount      = 20
	DefaultScriptRuns      = 10
	DefaultThreadWakeCount = 1000
)

// Config is the top-level workbench configuration.
type Config struct {
	Run       RunConfig       `yaml:"run"`
	History   HistoryConfig   `yaml:"history"`
	Community CommunityConfig `yaml:"community"`
}

// RunConfig holds the tunable sizes and iteration counts for one benchmark
// run. It is created once before dispatch and never mutated during a run.
type RunConfig struct {
	// MachineName overrides the hostname stamped onto the run record.
	MachineName string `yaml:"machine_name"`

	// SkipSynthetic skips microbenchmark units and runs only
	// application-style workloads.
	SkipSynthetic bool `yaml:"skip_synthetic"`

	// WorkDir is the root for per-unit temporary subtrees.
	// Defaults to the OS temp directory.
	WorkDir string `yaml:"work_dir"`

	// CooldownBetweenUnits is the pause inserted between units. It exists
	// to keep real-time filesystem scanners from carrying load from one
	// unit into the next; it is a policy knob, not a correctness
	// requirement.
	CooldownBetweenUnits time.Duration `yaml:"cooldown_between_units"`

	// File enumeration: EnumDirs directories × EnumFilesPerDir files,
	// enumerated EnumRuns times.
	EnumDirs        int `yaml:"enum_dirs"`
	EnumFilesPerDir int `yaml:"enum_files_per_dir"`
	EnumRuns        int `yaml:"enum_runs"`

	// Traversal: TraversalDirs directories × TraversalFilesPerDir files,
	// walked with content reads TraversalRuns times.
	TraversalDirs        int `yaml:"traversal_dirs"`
	TraversalFilesPerDir int `yaml:"traversal_files_per_dir"`
	TraversalRuns        int `yaml:"traversal_runs"`

	// Random read: RandomReadOps 4 KiB reads over a RandomReadFileMB file.
	RandomReadFileMB int `yaml:"random_read_file_mb"`
	RandomReadOps    int `yaml:"random_read_ops"`

	// Sequential read file size.
	LargeFileMB int `yaml:"large_file_mb"`

	// Metadata churn: MetadataFiles create/stat/rename/delete cycles,
	// repeated MetadataRuns times.
	MetadataFiles int `yaml:"metadata_files"`
	MetadataRuns  int `yaml:"metadata_runs"`

	// Compression units: chunk size and chunks processed per core.
	CompressChunkKB       int `yaml:"compress_chunk_kb"`
	CompressChunksPerCore int `yaml:"compress_chunks_per_core"`

	// Sustained write volume.
	SustainedWriteMB int `yaml:"sustained_write_mb"`

	// Memory units: copy buffer size and pointer-chase arena size.
	MemoryBufferMB int `yaml:"memory_buffer_mb"`
	MemoryChaseMB  int `yaml:"memory_chase_mb"`

	// Latency units.
	SpawnCount      int `yaml:"spawn_count"`
	ScriptRuns      int `yaml:"script_runs"`
	ThreadWakeCount int `yaml:"thread_wake_count"`
}

// HistoryConfig configures local run-history persistence.
type HistoryConfig struct {
	// Dir is the directory holding one JSON file per saved run.
	// Defaults to the platform data directory.
	Dir string `yaml:"dir"`
}

// CommunityConfig configures the community comparison service client.
type CommunityConfig struct {
	// BaseURL is the service endpoint. Empty disables uploads.
	BaseURL string `yaml:"base_url"`

	// APIKeyEnv is the name of the environment variable holding the API
	// key. The key itself never lives in the config file.
	APIKeyEnv string `yaml:"api_key_env"`

	// Timeout bounds each request to the service.
	Timeout time.Duration `yaml:"timeout"`
}

// APIKey returns the key resolved from the environment, or empty when
// APIKeyEnv is unset or the variable is not defined.
func (c CommunityConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// Load reads and parses the YAML config file at path. Missing optional
// fields are filled with defaults. A missing file is not an error: the
// defaults are returned, so workbench runs without any configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a Config pre-populated with the quick preset.
func Defaults() *Config {
	return &Config{
		Run: RunConfig{
			WorkDir:               os.TempDir(),
			CooldownBetweenUnits:  DefaultCooldown,
			EnumDirs:              DefaultEnumDirs,
			EnumFilesPerDir:       DefaultEnumFilesPerDir,
			EnumRuns:              DefaultEnumRuns,
			TraversalDirs:         DefaultTraversalDirs,
			TraversalFilesPerDir:  DefaultTraversalFilesPerDir,
			TraversalRuns:         DefaultTraversalRuns,
			RandomReadFileMB:      DefaultRandomReadFileMB,
			RandomReadOps:         DefaultRandomReadOps,
			LargeFileMB:           DefaultLargeFileMB,
			MetadataFiles:         DefaultMetadataFiles,
			MetadataRuns:          DefaultMetadataRuns,
			CompressChunkKB:       DefaultCompressChunkKB,
			CompressChunksPerCore: DefaultCompressChunksPerCore,
			SustainedWriteMB:      DefaultSustainedWriteMB,
			MemoryBufferMB:        DefaultMemoryBufferMB,
			MemoryChaseMB:         DefaultMemoryChaseMB,
			SpawnCount:            DefaultSpawnCount,
			ScriptRuns:            DefaultScriptRuns,
			ThreadWakeCount:       DefaultThreadWakeCount,
		},
		History: HistoryConfig{
			Dir: defaultHistoryDir(),
		},
		Community: CommunityConfig{
			APIKeyEnv: "WORKBENCH_API_KEY",
			Timeout:   30 * time.Second,
		},
	}
}

// defaultHistoryDir picks the platform data directory, falling back to the
// temp directory when the home directory cannot be determined.
func defaultHistoryDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "workbench", "history")
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	r := &cfg.Run
	if r.CooldownBetweenUnits < 0 {
		return fmt.Errorf("run.cooldown_between_units must not be negative")
	}
	positive := []struct {
		name  string
		value int
	}{
		{"run.enum_dirs", r.EnumDirs},
		{"run.enum_files_per_dir", r.EnumFilesPerDir},
		{"run.enum_runs", r.EnumRuns},
		{"run.traversal_dirs", r.TraversalDirs},
		{"run.traversal_files_per_dir", r.TraversalFilesPerDir},
		{"run.traversal_runs", r.TraversalRuns},
		{"run.random_read_file_mb", r.RandomReadFileMB},
		{"run.random_read_ops", r.RandomReadOps},
		{"run.large_file_mb", r.LargeFileMB},
		{"run.metadata_files", r.MetadataFiles},
		{"run.metadata_runs", r.MetadataRuns},
		{"run.compress_chunk_kb", r.CompressChunkKB},
		{"run.compress_chunks_per_core", r.CompressChunksPerCore},
		{"run.sustained_write_mb", r.SustainedWriteMB},
		{"run.memory_buffer_mb", r.MemoryBufferMB},
		{"run.memory_chase_mb", r.MemoryChaseMB},
		{"run.spawn_count", r.SpawnCount},
		{"run.script_runs", r.ScriptRuns},
		{"run.thread_wake_count", r.ThreadWakeCount},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive", p.name)
		}
	}
	if cfg.Community.Timeout <= 0 {
		return fmt.Errorf("community.timeout must be positive")
	}
	return nil
}

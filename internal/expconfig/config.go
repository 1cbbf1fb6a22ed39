package expconfig

import (
	"fmt"
	"time"

	"github.com/justapithecus/graphbench/internal/rss"
)

// Config represents a graphbench.yaml configuration file. All values are
// optional. `graphbench run --config` applies only the memory section
// (see MemoryConfig.Thresholds); the other sections are parsed, with
// unknown keys rejected, but no command applies them.
type Config struct {
	CheckpointDir string        `yaml:"checkpoint_dir"`
	Workers       int           `yaml:"workers"`
	Timeout       Duration      `yaml:"timeout"`
	Storage       StorageConfig `yaml:"storage"`
	Adapter       AdapterConfig `yaml:"adapter"`
	Memory        MemoryConfig  `yaml:"memory"`
}

// StorageConfig holds result-archive storage defaults from the config file.
type StorageConfig struct {
	Backend     string `yaml:"backend"` // "local" or "s3"
	Path        string `yaml:"path"`
	Bucket      string `yaml:"bucket"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint,omitempty"`
	S3PathStyle bool   `yaml:"s3_path_style,omitempty"`
}

// AdapterConfig holds run-completion notification defaults from the config
// file.
type AdapterConfig struct {
	Type    string   `yaml:"type"` // "none" or "redis"
	URL     string   `yaml:"url,omitempty"`
	Channel string   `yaml:"channel,omitempty"`
	Timeout Duration `yaml:"timeout,omitempty"`
	Retries *int     `yaml:"retries,omitempty"`
}

// MemoryConfig holds the RSS thresholds that drive worker memory discipline.
type MemoryConfig struct {
	WarningBytes   uint64 `yaml:"warning_bytes,omitempty"`
	CriticalBytes  uint64 `yaml:"critical_bytes,omitempty"`
	EmergencyBytes uint64 `yaml:"emergency_bytes,omitempty"`
}

// Thresholds converts the config file's memory section into rss.Thresholds.
func (m MemoryConfig) Thresholds() rss.Thresholds {
	return rss.Thresholds{
		WarningBytes:   m.WarningBytes,
		CriticalBytes:  m.CriticalBytes,
		EmergencyBytes: m.EmergencyBytes,
	}
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

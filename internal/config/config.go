// Package config loads and validates the optional .provebench YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for runner configuration.
const (
	DefaultGrace     = 10 * time.Second
	DefaultMaxOutput = 1 << 20 // 1 MB
)

// Config holds the parsed .provebench configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int      `yaml:"version"`
	Options      []string `yaml:"options"`    // prover options (e.g. --mode casc)
	Walltime     int      `yaml:"walltime"`   // seconds; 0 = unlimited
	RawMemory    string   `yaml:"memory"`     // e.g. "2GiB", "3000MB", or raw bytes
	RawGrace     string   `yaml:"grace"`      // e.g. "10s", added on top of walltime
	RawMaxOutput int      `yaml:"max_output"` // bytes
}

// Memory returns the configured memory ceiling in bytes, or 0 when
// none is configured. Validity is checked at Load time.
func (c *Config) Memory() int64 {
	if c.RawMemory == "" {
		return 0
	}
	n, err := ParseSize(c.RawMemory)
	if err != nil {
		return 0
	}
	return n
}

// Grace returns the slack added to the runner timeout beyond the
// walltime limit, or the default.
func (c *Config) Grace() time.Duration {
	if c.RawGrace != "" {
		d, err := time.ParseDuration(c.RawGrace)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultGrace
}

// MaxOutputBytes returns the configured max output size or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// Timeout returns the external runner timeout: walltime plus grace,
// or 0 (no timeout) when no walltime is configured.
func (c *Config) Timeout() time.Duration {
	if c.Walltime <= 0 {
		return 0
	}
	return time.Duration(c.Walltime)*time.Second + c.Grace()
}

// Load reads the .provebench file from dir. A missing file yields a
// default Config; a malformed one is an error.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ".provebench")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading .provebench: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing .provebench: %w", err)
	}
	if cfg.RawMemory != "" {
		if _, err := ParseSize(cfg.RawMemory); err != nil {
			return nil, fmt.Errorf("parsing .provebench: %w", err)
		}
	}
	if cfg.RawGrace != "" {
		if _, err := time.ParseDuration(cfg.RawGrace); err != nil {
			return nil, fmt.Errorf("parsing .provebench: %w", err)
		}
	}
	return cfg, nil
}

// sizeUnits maps size suffixes to their byte multipliers.
var sizeUnits = []struct {
	suffix string
	factor int64
}{
	{"TiB", 1 << 40},
	{"GiB", 1 << 30},
	{"MiB", 1 << 20},
	{"KiB", 1 << 10},
	{"TB", 1e12},
	{"GB", 1e9},
	{"MB", 1e6},
	{"KB", 1e3},
	{"B", 1},
}

// ParseSize parses a humanised byte size such as "2GiB", "3000MB", or
// a bare byte count.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	for _, u := range sizeUnits {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		num := strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid size %q", s)
		}
		return n * u.factor, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n, nil
}

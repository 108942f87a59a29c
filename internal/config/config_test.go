package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".provebench"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, "version: 1\nwalltime: 300\nmemory: 2GiB\noptions: [--mode, casc]\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Walltime != 300 {
		t.Errorf("Walltime = %d, want 300", cfg.Walltime)
	}
	if cfg.Memory() != 2<<30 {
		t.Errorf("Memory = %d, want %d", cfg.Memory(), int64(2<<30))
	}
	if len(cfg.Options) != 2 || cfg.Options[0] != "--mode" {
		t.Errorf("Options = %v, want [--mode casc]", cfg.Options)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Walltime != 0 || cfg.Memory() != 0 {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := writeConfig(t, "walltime: [not an int\n")
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoad_InvalidMemory(t *testing.T) {
	dir := writeConfig(t, "memory: lots\n")
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for invalid memory size")
	}
}

func TestLoad_InvalidGrace(t *testing.T) {
	dir := writeConfig(t, "grace: soon\n")
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for invalid grace duration")
	}
}

func TestTimeout(t *testing.T) {
	cfg := &Config{Walltime: 30}
	if got := cfg.Timeout(); got != 30*time.Second+DefaultGrace {
		t.Errorf("Timeout = %v, want %v", got, 30*time.Second+DefaultGrace)
	}

	cfg = &Config{Walltime: 30, RawGrace: "1m"}
	if got := cfg.Timeout(); got != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", got)
	}

	cfg = &Config{}
	if got := cfg.Timeout(); got != 0 {
		t.Errorf("Timeout = %v, want 0 for unlimited", got)
	}
}

func TestMaxOutputBytes(t *testing.T) {
	cfg := &Config{}
	if got := cfg.MaxOutputBytes(); got != DefaultMaxOutput {
		t.Errorf("MaxOutputBytes = %d, want default %d", got, DefaultMaxOutput)
	}
	cfg.RawMaxOutput = 512
	if got := cfg.MaxOutputBytes(); got != 512 {
		t.Errorf("MaxOutputBytes = %d, want 512", got)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"2GiB", 2 << 30, false},
		{"3000MB", 3000 * 1e6, false},
		{"1024", 1024, false},
		{"512KiB", 512 << 10, false},
		{"7B", 7, false},
		{" 1 MiB ", 1 << 20, false},
		{"", 0, true},
		{"-5MB", 0, true},
		{"fast", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSize(%q) = %d, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

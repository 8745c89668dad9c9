package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.SegmentSize != 1<<30 {
		t.Errorf("expected default segment size 1GiB, got %d", cfg.SegmentSize)
	}
	if cfg.ReadSize != 64<<10 {
		t.Errorf("expected default read size 64KiB, got %d", cfg.ReadSize)
	}
	if cfg.Workers != 1 {
		t.Errorf("expected default workers 1, got %d", cfg.Workers)
	}
	if cfg.Format != FormatRows {
		t.Errorf("expected default format %q, got %q", FormatRows, cfg.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestResolveSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"1Gi", 1 << 30},
		{"500M", 500 << 20},
		{"0.5kilo", 512},
		{"65536", 65536},
	}
	for _, tt := range tests {
		n, err := ResolveSize(tt.input)
		if err != nil {
			t.Errorf("ResolveSize(%q): %v", tt.input, err)
			continue
		}
		if n != tt.expected {
			t.Errorf("ResolveSize(%q) = %d, want %d", tt.input, n, tt.expected)
		}
	}

	if _, err := ResolveSize("12 foo"); err == nil {
		t.Error("expected error for unknown unit")
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
segment_size: 512Mi
read_size: 128K
workers: 8
format: tag
verbose: true
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.SegmentSize != 512<<20 {
		t.Errorf("expected segment size 512MiB, got %d", cfg.SegmentSize)
	}
	if cfg.ReadSize != 128<<10 {
		t.Errorf("expected read size 128KiB, got %d", cfg.ReadSize)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected workers 8, got %d", cfg.Workers)
	}
	if cfg.Format != FormatTag {
		t.Errorf("expected format tag, got %q", cfg.Format)
	}
	if !cfg.Verbose {
		t.Error("expected verbose true")
	}
}

func TestLoadFromYAMLBadSize(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("segment_size: 12 foo\n"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, err := LoadFromFile(configPath); err == nil {
		t.Fatal("expected error for bad segment_size")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SWIFT_SUM_SEGMENT_SIZE", "2Gi")
	t.Setenv("SWIFT_SUM_READ_SIZE", "1Mi")
	t.Setenv("SWIFT_SUM_WORKERS", "4")
	t.Setenv("SWIFT_SUM_FORMAT", "tag")
	t.Setenv("SWIFT_SUM_PROGRESS", "1")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.SegmentSize != 2<<30 {
		t.Errorf("expected segment size 2GiB, got %d", cfg.SegmentSize)
	}
	if cfg.ReadSize != 1<<20 {
		t.Errorf("expected read size 1MiB, got %d", cfg.ReadSize)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected workers 4, got %d", cfg.Workers)
	}
	if cfg.Format != FormatTag {
		t.Errorf("expected format tag, got %q", cfg.Format)
	}
	if !cfg.Progress {
		t.Error("expected progress true")
	}
}

func TestMerge(t *testing.T) {
	cfg := Default()
	merged := cfg.Merge(Config{SegmentSize: 1024, Format: FormatTag, Verbose: true})

	if merged.SegmentSize != 1024 {
		t.Errorf("expected segment size 1024, got %d", merged.SegmentSize)
	}
	if merged.ReadSize != cfg.ReadSize {
		t.Errorf("expected read size unchanged, got %d", merged.ReadSize)
	}
	if merged.Format != FormatTag {
		t.Errorf("expected format tag, got %q", merged.Format)
	}
	if !merged.Verbose {
		t.Error("expected verbose true")
	}
}

func TestValidate(t *testing.T) {
	bad := []Config{
		{SegmentSize: 0, ReadSize: 1, Workers: 1, Format: FormatRows},
		{SegmentSize: 1, ReadSize: 0, Workers: 1, Format: FormatRows},
		{SegmentSize: 1, ReadSize: 1, Workers: 0, Format: FormatRows},
		{SegmentSize: 1, ReadSize: 1, Workers: 1, Format: "csv"},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/ports"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults_Valid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Errorf("defaults should be valid: %v", err)
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := writeConfig(t, "imgload.yaml", `
log_level: debug
default_frame_ms: 80
loops: 3
metrics:
  enabled: true
  listen: "127.0.0.1:9100"
sheet:
  columns: 6
  background: "#000000"
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	want := Defaults()
	want.LogLevel = "debug"
	want.DefaultFrameMs = 80
	want.Loops = 3
	want.Metrics = MetricsConfig{Enabled: true, Listen: "127.0.0.1:9100"}
	want.Sheet.Columns = 6
	want.Sheet.Background = "#000000"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromFile_TOML(t *testing.T) {
	path := writeConfig(t, "imgload.toml", `
tick_ms = 5
watch = true

[sheet]
cell_width = 240
format = "jpeg"
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	want := Defaults()
	want.TickMs = 5
	want.Watch = true
	want.Sheet.CellWidth = 240
	want.Sheet.Format = "jpeg"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		path := writeConfig(t, "imgload.ini", "loops=1")
		_, err := LoadFromFile(path)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "bad.yml", "loops: [")
		if _, err := LoadFromFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"frame duration", func(c *Config) { c.DefaultFrameMs = 0 }},
		{"tick", func(c *Config) { c.TickMs = -1 }},
		{"max file bytes", func(c *Config) { c.MaxFileBytes = -1 }},
		{"loops", func(c *Config) { c.Loops = -2 }},
		{"metrics listen", func(c *Config) { c.Metrics = MetricsConfig{Enabled: true} }},
		{"columns", func(c *Config) { c.Sheet.Columns = 0 }},
		{"cell width", func(c *Config) { c.Sheet.CellWidth = 0 }},
		{"format", func(c *Config) { c.Sheet.Format = "gif" }},
		{"quality", func(c *Config) { c.Sheet.Quality = 101 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		hex  string
		want color.Color
	}{
		{"#ff8000", color.RGBA{R: 255, G: 128, B: 0, A: 255}},
		{"00FF00", color.RGBA{G: 255, A: 255}},
		{"#abc", color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 255}},
		{"", color.Black},
		{"#12345", color.Black},
	}

	for _, tt := range tests {
		if got := ParseColor(tt.hex); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}

func TestConversions(t *testing.T) {
	cfg := Defaults()
	cfg.DefaultFrameMs = 50
	cfg.TickMs = 20
	cfg.Loops = 2
	cfg.Sheet.Format = "jpeg"
	cfg.Sheet.Background = "#102030"

	lopts := cfg.ToLoaderOptions(nil)
	if lopts.DefaultFrameDuration != 50*time.Millisecond {
		t.Errorf("expected 50ms default frame, got %v", lopts.DefaultFrameDuration)
	}

	popts := cfg.ToPlayerOptions()
	if popts.TickInterval != 20*time.Millisecond || popts.Loops != 2 {
		t.Errorf("unexpected player options %+v", popts)
	}

	ocfg := cfg.ToOrchestratorConfig(pipeline.PathSource("a.gif"), "sheet.jpg")
	if ocfg.Encoding != ports.EncodeJPEG {
		t.Errorf("expected JPEG encoding, got %v", ocfg.Encoding)
	}
	if ocfg.BackgroundColor != [4]uint8{0x10, 0x20, 0x30, 0xff} {
		t.Errorf("unexpected background %v", ocfg.BackgroundColor)
	}
	if ocfg.Source.ID() != "a.gif" || ocfg.OutputPath != "sheet.jpg" {
		t.Errorf("unexpected source/output %q %q", ocfg.Source.ID(), ocfg.OutputPath)
	}
}

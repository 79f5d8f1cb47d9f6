// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/user/imgload/pkg/loader"
	"github.com/user/imgload/pkg/orchestrator"
	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/player"
	"github.com/user/imgload/pkg/ports"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML
// nor TOML.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// Config represents the full configuration for imgload.
type Config struct {
	// Logging
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// Loading
	DefaultFrameMs int   `yaml:"default_frame_ms" toml:"default_frame_ms"`
	MaxFileBytes   int64 `yaml:"max_file_bytes" toml:"max_file_bytes"`

	// Playback
	TickMs int  `yaml:"tick_ms" toml:"tick_ms"`
	Loops  int  `yaml:"loops" toml:"loops"`
	Watch  bool `yaml:"watch" toml:"watch"`

	// Debug
	Debug    bool   `yaml:"debug" toml:"debug"`
	DebugDir string `yaml:"debug_dir" toml:"debug_dir"`

	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
	Sheet   SheetConfig   `yaml:"sheet" toml:"sheet"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Listen  string `yaml:"listen" toml:"listen"`
}

// SheetConfig controls contact sheets and extracted frames.
type SheetConfig struct {
	Columns    int    `yaml:"columns" toml:"columns"`
	CellWidth  int    `yaml:"cell_width" toml:"cell_width"`
	Gap        int    `yaml:"gap" toml:"gap"`
	Padding    int    `yaml:"padding" toml:"padding"`
	Banner     bool   `yaml:"banner" toml:"banner"`
	Background string `yaml:"background" toml:"background"`
	Border     string `yaml:"border" toml:"border"`
	Format     string `yaml:"format" toml:"format"` // png or jpeg
	Quality    int    `yaml:"quality" toml:"quality"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		LogLevel: "info",

		DefaultFrameMs: 100,
		MaxFileBytes:   256 * 1024 * 1024,

		TickMs: 10,

		DebugDir: "./debug",

		Metrics: MetricsConfig{
			Listen: ":9090",
		},

		Sheet: SheetConfig{
			Columns:    4,
			CellWidth:  160,
			Gap:        12,
			Padding:    16,
			Banner:     true,
			Background: "#ffffff",
			Border:     "#cccccc",
			Format:     "png",
			Quality:    80,
		},
	}
}

// LoadFromFile loads configuration from a YAML or TOML file, chosen by the
// file extension. Values missing from the file keep their defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error", "quiet":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.DefaultFrameMs <= 0 {
		return fmt.Errorf("default_frame_ms must be positive, got %d", c.DefaultFrameMs)
	}
	if c.TickMs <= 0 {
		return fmt.Errorf("tick_ms must be positive, got %d", c.TickMs)
	}
	if c.MaxFileBytes < 0 {
		return fmt.Errorf("max_file_bytes must not be negative, got %d", c.MaxFileBytes)
	}
	if c.Loops < 0 {
		return fmt.Errorf("loops must not be negative, got %d", c.Loops)
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return errors.New("metrics.listen is required when metrics are enabled")
	}
	if c.Sheet.Columns < 1 {
		return fmt.Errorf("sheet.columns must be at least 1, got %d", c.Sheet.Columns)
	}
	if c.Sheet.CellWidth < 1 {
		return fmt.Errorf("sheet.cell_width must be at least 1, got %d", c.Sheet.CellWidth)
	}
	if _, err := ParseEncoding(c.Sheet.Format); err != nil {
		return err
	}
	if c.Sheet.Quality < 1 || c.Sheet.Quality > 100 {
		return fmt.Errorf("sheet.quality must be within 1-100, got %d", c.Sheet.Quality)
	}
	return nil
}

// ParseEncoding maps a format name to an encoding.
func ParseEncoding(format string) (ports.Encoding, error) {
	switch strings.ToLower(format) {
	case "", "png":
		return ports.EncodePNG, nil
	case "jpeg", "jpg":
		return ports.EncodeJPEG, nil
	default:
		return ports.EncodePNG, fmt.Errorf("invalid sheet.format %q", format)
	}
}

// ParseColor parses a hex color string to color.Color.
func ParseColor(hex string) color.Color {
	if len(hex) == 0 {
		return color.Black
	}

	if hex[0] == '#' {
		hex = hex[1:]
	}

	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	if len(hex) != 6 {
		return color.Black
	}

	r := hexValue(hex[0])<<4 | hexValue(hex[1])
	g := hexValue(hex[2])<<4 | hexValue(hex[3])
	b := hexValue(hex[4])<<4 | hexValue(hex[5])

	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// ToLoaderOptions converts Config to loader.Options.
func (c Config) ToLoaderOptions(metrics ports.LoaderMetrics) loader.Options {
	return loader.Options{
		DefaultFrameDuration: time.Duration(c.DefaultFrameMs) * time.Millisecond,
		Metrics:              metrics,
	}
}

// ToPlayerOptions converts Config to player.Options.
func (c Config) ToPlayerOptions() player.Options {
	return player.Options{
		TickInterval: time.Duration(c.TickMs) * time.Millisecond,
		Loops:        c.Loops,
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(src pipeline.Source, outputPath string) orchestrator.Config {
	cfg := orchestrator.DefaultConfig()
	cfg.Source = src
	cfg.OutputPath = outputPath

	cfg.Columns = c.Sheet.Columns
	cfg.CellWidth = c.Sheet.CellWidth
	cfg.Gap = c.Sheet.Gap
	cfg.Padding = c.Sheet.Padding

	cfg.BackgroundColor = colorToArray(ParseColor(c.Sheet.Background))
	cfg.BorderColor = colorToArray(ParseColor(c.Sheet.Border))

	cfg.BannerEnabled = c.Sheet.Banner

	cfg.Encoding, _ = ParseEncoding(c.Sheet.Format)
	cfg.Quality = c.Sheet.Quality
	return cfg
}

// colorToArray converts color.Color to [4]uint8 array.
func colorToArray(c color.Color) [4]uint8 {
	r, g, b, a := c.RGBA()
	return [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

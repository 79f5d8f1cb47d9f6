package config

// QualityPreset represents an output quality preset name.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
)

// QualitySettings contains encoding parameters for sheets and frames.
type QualitySettings struct {
	Format  string // png or jpeg
	Quality int    // JPEG quality (1-100)
}

// GetQualitySettings returns quality settings for the given preset.
func GetQualitySettings(preset QualityPreset) QualitySettings {
	switch preset {
	case QualityLow:
		return QualitySettings{
			Format:  "jpeg",
			Quality: 60,
		}
	case QualityHigh:
		return QualitySettings{
			Format:  "png",
			Quality: 100,
		}
	default: // medium
		return QualitySettings{
			Format:  "jpeg",
			Quality: 85,
		}
	}
}

// Builder provides a fluent interface for layering command-line overrides
// on top of a loaded Config.
type Builder struct {
	config Config
}

// NewBuilder creates a new Builder starting from base.
func NewBuilder(base Config) *Builder {
	return &Builder{
		config: base,
	}
}

// Build returns the final Config, applying constraints.
func (b *Builder) Build() Config {
	cfg := b.config

	// Enforce minimum columns of 1
	if cfg.Sheet.Columns < 1 {
		cfg.Sheet.Columns = 1
	}

	// Enforce a minimum tick of 1ms
	if cfg.TickMs < 1 {
		cfg.TickMs = 1
	}

	return cfg
}

// WithLogLevel sets the log level.
func (b *Builder) WithLogLevel(level string) *Builder {
	b.config.LogLevel = level
	return b
}

// WithDefaultFrameMs sets the duration of frames that report none.
func (b *Builder) WithDefaultFrameMs(ms int) *Builder {
	b.config.DefaultFrameMs = ms
	return b
}

// WithMaxFileBytes sets the largest file that will be read.
func (b *Builder) WithMaxFileBytes(n int64) *Builder {
	b.config.MaxFileBytes = n
	return b
}

// WithTickMs sets the animation clock period.
func (b *Builder) WithTickMs(ms int) *Builder {
	b.config.TickMs = ms
	return b
}

// WithLoops sets how many cycles are played.
func (b *Builder) WithLoops(loops int) *Builder {
	b.config.Loops = loops
	return b
}

// WithWatch enables reloading when the source file changes.
func (b *Builder) WithWatch(watch bool) *Builder {
	b.config.Watch = watch
	return b
}

// WithDebug enables debug output into dir.
func (b *Builder) WithDebug(dir string) *Builder {
	b.config.Debug = true
	if dir != "" {
		b.config.DebugDir = dir
	}
	return b
}

// WithMetrics enables the metrics endpoint on listen.
func (b *Builder) WithMetrics(listen string) *Builder {
	b.config.Metrics.Enabled = true
	if listen != "" {
		b.config.Metrics.Listen = listen
	}
	return b
}

// WithColumns sets the number of sheet columns.
func (b *Builder) WithColumns(columns int) *Builder {
	b.config.Sheet.Columns = columns
	return b
}

// WithCellWidth sets the width frames are scaled to on the sheet.
func (b *Builder) WithCellWidth(width int) *Builder {
	b.config.Sheet.CellWidth = width
	return b
}

// WithBackgroundColor sets the sheet background color (hex).
func (b *Builder) WithBackgroundColor(hex string) *Builder {
	b.config.Sheet.Background = hex
	return b
}

// WithBanner enables or disables the sheet banner.
func (b *Builder) WithBanner(enabled bool) *Builder {
	b.config.Sheet.Banner = enabled
	return b
}

// WithQualityPreset applies the encoding of a quality preset.
func (b *Builder) WithQualityPreset(preset QualityPreset) *Builder {
	settings := GetQualitySettings(preset)
	b.config.Sheet.Format = settings.Format
	b.config.Sheet.Quality = settings.Quality
	return b
}

// WithFormat sets the output image format.
func (b *Builder) WithFormat(format string) *Builder {
	b.config.Sheet.Format = format
	return b
}

package config

import "testing"

func TestBuilder_Overrides(t *testing.T) {
	cfg := NewBuilder(Defaults()).
		WithLogLevel("warn").
		WithLoops(4).
		WithTickMs(0).
		WithColumns(0).
		WithDebug("").
		WithMetrics("").
		WithQualityPreset(QualityLow).
		Build()

	if cfg.LogLevel != "warn" || cfg.Loops != 4 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.TickMs != 1 {
		t.Errorf("expected tick clamped to 1, got %d", cfg.TickMs)
	}
	if cfg.Sheet.Columns != 1 {
		t.Errorf("expected columns clamped to 1, got %d", cfg.Sheet.Columns)
	}
	if !cfg.Debug || cfg.DebugDir != "./debug" {
		t.Errorf("expected debug in default dir, got %v %q", cfg.Debug, cfg.DebugDir)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Listen != ":9090" {
		t.Errorf("expected metrics on default listen, got %+v", cfg.Metrics)
	}
	if cfg.Sheet.Format != "jpeg" || cfg.Sheet.Quality != 60 {
		t.Errorf("expected low quality preset, got %s/%d", cfg.Sheet.Format, cfg.Sheet.Quality)
	}
}

func TestGetQualitySettings(t *testing.T) {
	tests := []struct {
		preset QualityPreset
		want   QualitySettings
	}{
		{QualityLow, QualitySettings{Format: "jpeg", Quality: 60}},
		{QualityMedium, QualitySettings{Format: "jpeg", Quality: 85}},
		{QualityHigh, QualitySettings{Format: "png", Quality: 100}},
		{"unknown", QualitySettings{Format: "jpeg", Quality: 85}},
	}
	for _, tt := range tests {
		if got := GetQualitySettings(tt.preset); got != tt.want {
			t.Errorf("GetQualitySettings(%q) = %+v, want %+v", tt.preset, got, tt.want)
		}
	}
}

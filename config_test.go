package sis

import "testing"

func TestBackgroundModeString(t *testing.T) {
	tests := []struct {
		mode BackgroundMode
		want string
	}{
		{BackgroundNoise, "Noise"},
		{BackgroundTile, "Tile"},
		{BackgroundMode(7), "BackgroundMode(7)"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("BackgroundMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestBackgroundModeIsValid(t *testing.T) {
	if !BackgroundNoise.IsValid() {
		t.Error("BackgroundNoise.IsValid() = false, want true")
	}
	if !BackgroundTile.IsValid() {
		t.Error("BackgroundTile.IsValid() = false, want true")
	}
	// The mode set is strictly two-valued; nothing else is legal.
	for _, m := range []BackgroundMode{backgroundModeCount, BackgroundMode(3), BackgroundMode(255)} {
		if m.IsValid() {
			t.Errorf("BackgroundMode(%d).IsValid() = true, want false", m)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("size = %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
	if cfg.NumStrips >= 0 {
		t.Errorf("NumStrips = %d, want negative (auto)", cfg.NumStrips)
	}
	if cfg.NumSubStrips != 2 {
		t.Errorf("NumSubStrips = %d, want 2", cfg.NumSubStrips)
	}
	if cfg.DepthFactor <= 0 {
		t.Errorf("DepthFactor = %v, want > 0", cfg.DepthFactor)
	}
	if cfg.Background != BackgroundNoise {
		t.Errorf("Background = %v, want BackgroundNoise", cfg.Background)
	}
}

package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateDefaultConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	cfg := Default()
	cfg.Export = ExportConfig{}
	cfg.Preview.OrbitDelay = 0
	cfg.Preview.StillName = ""
	cfg.Timelines.Mode = ""
	cfg.Timelines.Output = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if cfg.Export.Dir != "." {
		t.Errorf("Export.Dir = %q, want .", cfg.Export.Dir)
	}
	if cfg.Export.LightName != "squared_light_pieces.stl" || cfg.Export.DarkName != "squared_dark_pieces.stl" {
		t.Errorf("export names = %q, %q", cfg.Export.LightName, cfg.Export.DarkName)
	}
	if cfg.Preview.OrbitDelay != 4 {
		t.Errorf("OrbitDelay = %d, want 4", cfg.Preview.OrbitDelay)
	}
	if cfg.Preview.StillName != "squared.png" {
		t.Errorf("StillName = %q, want squared.png", cfg.Preview.StillName)
	}
	if cfg.Timelines.Mode != "live" {
		t.Errorf("Timelines.Mode = %q, want live", cfg.Timelines.Mode)
	}
	if cfg.Timelines.Output != "timelines.png" {
		t.Errorf("Timelines.Output = %q, want timelines.png", cfg.Timelines.Output)
	}
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "inverted step range",
			mutate:  func(cfg *Config) { cfg.Sculpture.StepMax = 2 },
			wantErr: "step range must be positive and ordered",
		},
		{
			name:    "max frame below step",
			mutate:  func(cfg *Config) { cfg.Sculpture.MaxFrame = 1 },
			wantErr: "sculpture.max_frame",
		},
		{
			name:    "flat base plate",
			mutate:  func(cfg *Config) { cfg.Sculpture.BaseHeight = 0 },
			wantErr: "base plate dimensions must be positive",
		},
		{
			name:    "empty load threshold",
			mutate:  func(cfg *Config) { cfg.Sculpture.LoadThreshold = ThresholdRange{Min: 0.3, Max: 0.3} },
			wantErr: "load_threshold.min must be below max",
		},
		{
			name:    "inverted reroll threshold",
			mutate:  func(cfg *Config) { cfg.Sculpture.RerollThreshold = ThresholdRange{Min: 0.3, Max: -0.3} },
			wantErr: "reroll_threshold.min must be below max",
		},
		{
			name:    "bad background colour",
			mutate:  func(cfg *Config) { cfg.Render.Background = "2a2a2a" },
			wantErr: "render.background must be a hex RGB value",
		},
		{
			name:    "bad light colour",
			mutate:  func(cfg *Config) { cfg.Render.LightColor = "#ggg000" },
			wantErr: "render.light_color must be a hex RGB value",
		},
		{
			name:    "negative rotation speed",
			mutate:  func(cfg *Config) { cfg.Render.RotateSpeed = -1 },
			wantErr: "render.rotate_speed cannot be negative",
		},
		{
			name:    "flat field of view",
			mutate:  func(cfg *Config) { cfg.Render.FieldOfView = 0 },
			wantErr: "render.field_of_view",
		},
		{
			name:    "camera at origin",
			mutate:  func(cfg *Config) { cfg.Render.Camera = Vector{} },
			wantErr: "render.camera cannot sit at the origin",
		},
		{
			name:    "same export names",
			mutate:  func(cfg *Config) { cfg.Export.DarkName = cfg.Export.LightName },
			wantErr: "must differ",
		},
		{
			name:    "zero preview width",
			mutate:  func(cfg *Config) { cfg.Preview.Width = 0 },
			wantErr: "preview dimensions must be positive",
		},
		{
			name:    "negative orbit frames",
			mutate:  func(cfg *Config) { cfg.Preview.OrbitFrames = -1 },
			wantErr: "preview.orbit_frames cannot be negative",
		},
		{
			name:    "unknown clock mode",
			mutate:  func(cfg *Config) { cfg.Timelines.Mode = "replay" },
			wantErr: "timelines.mode must be either 'live' or 'custom'",
		},
		{
			name:    "hour out of range",
			mutate:  func(cfg *Config) { cfg.Timelines.Hour = 24 },
			wantErr: "timelines.hour must be between 0 and 23",
		},
		{
			name:    "minute out of range",
			mutate:  func(cfg *Config) { cfg.Timelines.Minute = 60 },
			wantErr: "timelines minute and second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadReadsYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "squared.yml")
	if err := os.WriteFile(path, []byte(`
seed: " 0x0000000000000000000000000000000000000000000000000000000000000000 "
render:
  background: "#000000"
  wireframe: true
export:
  dir: "/tmp/stl"
timelines:
  mode: custom
  hour: 0
  minute: 30
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if !strings.HasPrefix(cfg.Seed, "0x") {
		t.Errorf("Seed = %q, want trimmed digest", cfg.Seed)
	}
	if cfg.Render.Background != "#000000" || !cfg.Render.Wireframe {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Render.LightColor != "#f5f5f5" {
		t.Errorf("LightColor = %q, want default", cfg.Render.LightColor)
	}
	if cfg.Sculpture.MaxFrame != 65 {
		t.Errorf("MaxFrame = %d, want 65", cfg.Sculpture.MaxFrame)
	}
	if cfg.Export.Dir != "/tmp/stl" {
		t.Errorf("Export.Dir = %q", cfg.Export.Dir)
	}
	if cfg.Timelines.Mode != "custom" || cfg.Timelines.Hour != 0 || cfg.Timelines.Minute != 30 {
		t.Errorf("timelines = %+v", cfg.Timelines)
	}
}

func TestLoadPropagatesReadErrors(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	if err == nil {
		t.Fatalf("Load() = nil, want error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	if err := os.WriteFile(path, []byte("render: [unterminated"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load() error = %v, want parse error", err)
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "squared.yml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() returned error: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if *cfg != Default() {
		t.Fatalf("loaded config differs from default:\n%+v\n%+v", *cfg, Default())
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "#2a2a2a", want: color.RGBA{R: 0x2a, G: 0x2a, B: 0x2a, A: 0xff}},
		{in: "#8899FF", want: color.RGBA{R: 0x88, G: 0x99, B: 0xff, A: 0xff}},
		{in: "#fff", wantErr: true},
		{in: "f5f5f5", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHexColor(%q) = nil error, want failure", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHexColor(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

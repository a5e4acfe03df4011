package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Seed is a 0x-prefixed 64 digit hex digest. Empty mints a fresh one.
	Seed      string          `yaml:"seed"`
	Sculpture SculptureConfig `yaml:"sculpture"`
	Render    RenderConfig    `yaml:"render"`
	Export    ExportConfig    `yaml:"export"`
	Preview   PreviewConfig   `yaml:"preview"`
	Timelines TimelinesConfig `yaml:"timelines"`
}

type SculptureConfig struct {
	StepMin         int            `yaml:"step_min"`
	StepMax         int            `yaml:"step_max"`
	MaxFrame        int            `yaml:"max_frame"`
	BaseWidth       float64        `yaml:"base_width"`
	BaseDepth       float64        `yaml:"base_depth"`
	BaseHeight      float64        `yaml:"base_height"`
	LoadThreshold   ThresholdRange `yaml:"load_threshold"`
	RerollThreshold ThresholdRange `yaml:"reroll_threshold"`
}

type ThresholdRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type RenderConfig struct {
	LightColor  string  `yaml:"light_color"`
	DarkColor   string  `yaml:"dark_color"`
	Background  string  `yaml:"background"`
	Wireframe   bool    `yaml:"wireframe"`
	AutoRotate  bool    `yaml:"auto_rotate"`
	RotateSpeed float64 `yaml:"rotate_speed"`
	FieldOfView float64 `yaml:"field_of_view"`
	Camera      Vector  `yaml:"camera"`
	Lights      Lights  `yaml:"lights"`
}

type Vector struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type Lights struct {
	Ambient       float64 `yaml:"ambient"`
	MainIntensity float64 `yaml:"main_intensity"`
	MainPosition  Vector  `yaml:"main_position"`
	FillColor     string  `yaml:"fill_color"`
	FillIntensity float64 `yaml:"fill_intensity"`
	FillPosition  Vector  `yaml:"fill_position"`
}

type ExportConfig struct {
	Dir       string `yaml:"dir"`
	LightName string `yaml:"light_name"`
	DarkName  string `yaml:"dark_name"`
}

type PreviewConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	StillName   string `yaml:"still_name"`
	OrbitFrames int    `yaml:"orbit_frames"`
	OrbitName   string `yaml:"orbit_name"`
	// OrbitDelay is the per-frame GIF delay in hundredths of a second.
	OrbitDelay int `yaml:"orbit_delay"`
}

type TimelinesConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Mode   string `yaml:"mode"`
	Hour   int    `yaml:"hour"`
	Minute int    `yaml:"minute"`
	Second int    `yaml:"second"`
	// Steps is how many animation frames are simulated before rendering.
	Steps  int    `yaml:"steps"`
	Output string `yaml:"output"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Seed != "" {
		c.Seed = strings.TrimSpace(c.Seed)
	}
	if err := c.Sculpture.validate(); err != nil {
		return err
	}
	if err := c.Render.validate(); err != nil {
		return err
	}

	if c.Export.Dir == "" {
		c.Export.Dir = "."
	}
	if c.Export.LightName == "" {
		c.Export.LightName = "squared_light_pieces.stl"
	}
	if c.Export.DarkName == "" {
		c.Export.DarkName = "squared_dark_pieces.stl"
	}
	if c.Export.LightName == c.Export.DarkName {
		return fmt.Errorf("export.light_name and export.dark_name must differ")
	}

	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("preview dimensions must be positive")
	}
	if c.Preview.OrbitFrames < 0 {
		return fmt.Errorf("preview.orbit_frames cannot be negative")
	}
	if c.Preview.OrbitDelay <= 0 {
		c.Preview.OrbitDelay = 4
	}
	if c.Preview.StillName == "" {
		c.Preview.StillName = "squared.png"
	}
	if c.Preview.OrbitName == "" {
		c.Preview.OrbitName = "squared_orbit.gif"
	}

	return c.Timelines.validate()
}

func (s *SculptureConfig) validate() error {
	if s.StepMin <= 0 || s.StepMax < s.StepMin {
		return fmt.Errorf("sculpture step range must be positive and ordered")
	}
	if s.MaxFrame < s.StepMin {
		return fmt.Errorf("sculpture.max_frame cannot be smaller than sculpture.step_min")
	}
	if s.BaseWidth <= 0 || s.BaseDepth <= 0 || s.BaseHeight <= 0 {
		return fmt.Errorf("sculpture base plate dimensions must be positive")
	}
	if s.LoadThreshold.Min >= s.LoadThreshold.Max {
		return fmt.Errorf("sculpture.load_threshold.min must be below max")
	}
	if s.RerollThreshold.Min >= s.RerollThreshold.Max {
		return fmt.Errorf("sculpture.reroll_threshold.min must be below max")
	}
	return nil
}

func (r *RenderConfig) validate() error {
	for name, value := range map[string]string{
		"render.light_color":       r.LightColor,
		"render.dark_color":        r.DarkColor,
		"render.background":        r.Background,
		"render.lights.fill_color": r.Lights.FillColor,
	} {
		if !IsValidHexColor(value) {
			return fmt.Errorf("%s must be a hex RGB value", name)
		}
	}
	if r.RotateSpeed < 0 {
		return fmt.Errorf("render.rotate_speed cannot be negative")
	}
	if r.FieldOfView <= 0 || r.FieldOfView >= 180 {
		return fmt.Errorf("render.field_of_view must be between 0 and 180 degrees")
	}
	if r.Camera == (Vector{}) {
		return fmt.Errorf("render.camera cannot sit at the origin")
	}
	if r.Lights.Ambient < 0 || r.Lights.MainIntensity < 0 || r.Lights.FillIntensity < 0 {
		return fmt.Errorf("render light intensities cannot be negative")
	}
	return nil
}

func (t *TimelinesConfig) validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("timelines dimensions must be positive")
	}
	switch t.Mode {
	case "":
		t.Mode = "live"
	case "live", "custom":
	default:
		return fmt.Errorf("timelines.mode must be either 'live' or 'custom'")
	}
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("timelines.hour must be between 0 and 23")
	}
	if t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return fmt.Errorf("timelines minute and second must be between 0 and 59")
	}
	if t.Steps < 0 {
		return fmt.Errorf("timelines.steps cannot be negative")
	}
	if t.Output == "" {
		t.Output = "timelines.png"
	}
	return nil
}

// IsValidHexColor reports whether s has the form #rrggbb.
func IsValidHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, ch := range s[1:] {
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'f':
		case ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}

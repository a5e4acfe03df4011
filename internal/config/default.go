package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default returns the configuration of the reference sculpture and clock so
// that a run works without any prior configuration.
func Default() Config {
	return Config{
		Sculpture: SculptureConfig{
			StepMin:         5,
			StepMax:         9,
			MaxFrame:        65,
			BaseWidth:       300,
			BaseDepth:       300,
			BaseHeight:      1,
			LoadThreshold:   ThresholdRange{Min: -0.8, Max: 0.8},
			RerollThreshold: ThresholdRange{Min: -0.3, Max: 0.3},
		},
		Render: RenderConfig{
			LightColor:  "#f5f5f5",
			DarkColor:   "#141414",
			Background:  "#2a2a2a",
			AutoRotate:  true,
			RotateSpeed: 0.5,
			FieldOfView: 50,
			Camera:      Vector{X: 350, Y: 350, Z: 350},
			Lights: Lights{
				Ambient:       0.6,
				MainIntensity: 1.2,
				MainPosition:  Vector{X: 100, Y: 150, Z: 100},
				FillColor:     "#8899ff",
				FillIntensity: 0.4,
				FillPosition:  Vector{X: -80, Y: 80, Z: -80},
			},
		},
		Export: ExportConfig{
			Dir:       "./out",
			LightName: "squared_light_pieces.stl",
			DarkName:  "squared_dark_pieces.stl",
		},
		Preview: PreviewConfig{
			Enabled:     true,
			Width:       800,
			Height:      800,
			StillName:   "squared.png",
			OrbitFrames: 0,
			OrbitName:   "squared_orbit.gif",
			OrbitDelay:  4,
		},
		Timelines: TimelinesConfig{
			Width:  1920,
			Height: 1080,
			Mode:   "live",
			Hour:   12,
			Steps:  120,
			Output: "timelines.png",
		},
	}
}

// WriteDefault writes the default configuration to the provided path.
func WriteDefault(path string) error {
	cfg := Default()

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

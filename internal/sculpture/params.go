package sculpture

import "squared/internal/random"

// Params are the per-build values rolled from the seeded generator.
type Params struct {
	Start     int     `json:"start" yaml:"start"`
	Increment int     `json:"increment" yaml:"increment"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// Range is a half-open [Min, Max) interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Settings are the fixed shape constraints of the sculpture.
type Settings struct {
	StepMin         int
	StepMax         int // inclusive
	MaxFrame        int
	BaseWidth       float64
	BaseDepth       float64
	BaseHeight      float64
	LoadThreshold   Range
	RerollThreshold Range
}

// DefaultSettings mirrors the reference sculpture.
func DefaultSettings() Settings {
	return Settings{
		StepMin:         5,
		StepMax:         9,
		MaxFrame:        65,
		BaseWidth:       300,
		BaseDepth:       300,
		BaseHeight:      1,
		LoadThreshold:   Range{Min: -0.8, Max: 0.8},
		RerollThreshold: Range{Min: -0.3, Max: 0.3},
	}
}

// Roll draws start, increment and a threshold from window, in that order.
func (s Settings) Roll(r *random.Random, window Range) Params {
	return Params{
		Start:     r.IntRange(s.StepMin, s.StepMax),
		Increment: r.IntRange(s.StepMin, s.StepMax),
		Threshold: r.Range(window.Min, window.Max),
	}
}

// Frames generates the concentric rings for params: frame i has side 4i and
// cell size i, for i = Start, Start+Increment, ... up to MaxFrame.
func (s Settings) Frames(grid Grid, params Params) []Frame {
	step := params.Increment
	if step < 1 {
		step = 1
	}
	var frames []Frame
	for i := params.Start; i <= s.MaxFrame; i += step {
		if i <= 0 {
			continue
		}
		frames = append(frames, grid.GenerateFrame(float64(i*4), float64(i)))
	}
	return frames
}

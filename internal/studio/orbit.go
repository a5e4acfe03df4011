package studio

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"squared/internal/preview"
)

// TurnDuration is how long auto-rotation takes for one full orbit. It is
// zero when the rotation speed is zero.
func (s *Studio) TurnDuration() time.Duration {
	if s.rotateSpeed <= 0 {
		return 0
	}
	return time.Duration(math.Round(float64(time.Second) * 2 * math.Pi / (rotationPerSecond * s.rotateSpeed)))
}

// RenderOrbit renders frames snapshots while ticking the studio through one
// full turn, so that with rotation off every frame shows the same view. It
// stops early when ctx is cancelled.
func (s *Studio) RenderOrbit(ctx context.Context, frames, width, height int) ([]*image.NRGBA, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("orbit needs at least one frame, got %d", frames)
	}
	step := s.TurnDuration() / time.Duration(frames)

	out := make([]*image.NRGBA, 0, frames)
	nextLogPercent := 10
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out = append(out, preview.Render(s.Frame(), width, height))
		s.Tick(step)

		progress := (i + 1) * 100 / frames
		if progress >= nextLogPercent {
			s.logger.Printf("orbit render progress: %d%%", progress)
			nextLogPercent = ((progress / 10) + 1) * 10
		}
	}
	return out, nil
}

// Package sculpture turns noise-classified frames into the two interlocking
// solids of the Squared piece.
package sculpture

import (
	"log"

	"squared/internal/csg"

	"github.com/soypat/geometry/ms3"
)

// Sculpture is the result of one build.
type Sculpture struct {
	Params     Params
	Light      *csg.Brush // nil when no cell classified light
	Dark       *csg.Brush // never nil; at least the base plate
	LightCells int
	DarkCells  int
	LightFold  csg.FoldStats
	DarkFold   csg.FoldStats
	BaseMerged bool
	Subtracted bool
	Overlap    float32 // light ∩ dark volume, zero after a clean subtraction
}

// Solid returns the brush for class.
func (s *Sculpture) Solid(class Class) *csg.Brush {
	if s == nil {
		return nil
	}
	if class == Light {
		return s.Light
	}
	return s.Dark
}

// Dispose releases both solids.
func (s *Sculpture) Dispose() {
	if s == nil {
		return
	}
	s.Light.Dispose()
	s.Dark.Dispose()
}

// Builder runs the merge pipeline.
type Builder struct {
	settings Settings
	op       csg.Operator
	logger   *log.Logger
}

// NewBuilder returns a builder. A nil op uses the exact box evaluator and a
// nil logger uses the standard logger.
func NewBuilder(settings Settings, op csg.Operator, logger *log.Logger) *Builder {
	if op == nil {
		op = csg.NewEvaluator()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{settings: settings, op: op, logger: logger}
}

// Build generates the frames for params and merges them.
func (b *Builder) Build(grid Grid, params Params) *Sculpture {
	s := b.BuildFrames(b.settings.Frames(grid, params))
	s.Params = params
	return s
}

// BuildFrames merges already generated frames:
//
//	dark  = (dark pieces) ∪ base plate
//	light = (light pieces) − dark
//
// Each step falls back instead of failing: a piece that cannot be merged is
// dropped, a failed base merge leaves the base plate alone as the dark solid,
// and a failed subtraction keeps the unsubtracted light solid.
func (b *Builder) BuildFrames(frames []Frame) *Sculpture {
	var lightPieces, darkPieces []*csg.Brush
	for _, f := range frames {
		for _, c := range f.Light {
			lightPieces = append(lightPieces, c.Brush())
		}
		for _, c := range f.Dark {
			darkPieces = append(darkPieces, c.Brush())
		}
	}

	s := &Sculpture{LightCells: len(lightPieces), DarkCells: len(darkPieces)}
	b.logger.Printf("merging %d light pieces and %d dark pieces", len(lightPieces), len(darkPieces))

	light, lightStats := csg.Fold(b.op, lightPieces, csg.Addition, b.logger, "light")
	dark, darkStats := csg.Fold(b.op, darkPieces, csg.Addition, b.logger, "dark")
	s.LightFold = lightStats
	s.DarkFold = darkStats

	base := b.basePlate()
	if dark != nil {
		merged, err := csg.Apply(b.op, dark, base, csg.Addition)
		if err != nil {
			b.logger.Printf("base plate merge failed, using base only: %v", err)
			dark.Dispose()
			dark = base
		} else {
			dark.Dispose()
			base.Dispose()
			dark = merged
			s.BaseMerged = true
		}
	} else {
		dark = base
	}
	dark.SetMaterial(csg.MaterialDark)

	if light != nil {
		cut, err := csg.Apply(b.op, light, dark, csg.Subtraction)
		if err != nil {
			b.logger.Printf("subtraction failed, keeping light pieces unsubtracted: %v", err)
		} else {
			light.Dispose()
			light = cut
			s.Subtracted = true
		}
		s.Overlap = b.overlap(light, dark)
	}

	s.Light = light
	s.Dark = dark
	b.logger.Printf("sculpture complete: light skipped %d, dark skipped %d", lightStats.Skipped, darkStats.Skipped)
	return s
}

// overlap returns the volume the two solids share. An empty intersection
// is reported by the operator as an error and counts as zero.
func (b *Builder) overlap(light, dark *csg.Brush) float32 {
	shared, err := csg.Apply(b.op, light, dark, csg.Intersection)
	if err != nil {
		return 0
	}
	defer shared.Dispose()
	v := shared.Volume()
	b.logger.Printf("light and dark solids overlap by %.3f", v)
	return v
}

func (b *Builder) basePlate() *csg.Brush {
	return csg.NewBoxBrush(ms3.Vec{},
		float32(b.settings.BaseWidth),
		float32(b.settings.BaseDepth),
		float32(b.settings.BaseHeight),
		csg.MaterialBase)
}

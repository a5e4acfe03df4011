package sculpture

import (
	"math"

	"squared/internal/csg"
	"squared/internal/noise"

	"github.com/soypat/geometry/ms3"
)

// Epsilon is the smallest footprint or height a piece may have.
const Epsilon = 0.01

// Class separates the two interlocking solids.
type Class uint8

const (
	Dark Class = iota
	Light
)

func (c Class) String() string {
	if c == Light {
		return "light"
	}
	return "dark"
}

// Material maps the class onto its brush tag.
func (c Class) Material() csg.Material {
	if c == Light {
		return csg.MaterialLight
	}
	return csg.MaterialDark
}

// Cell is one classified lattice point of a frame.
type Cell struct {
	X, Y   float64
	Size   float64
	Noise  float64 // normalised extrusion factor in [0, 1]
	Height float64
	Z      float64 // centre of the extrusion
	Class  Class
}

// Brush builds the cell's box: Size x Size footprint, Height along +Z.
func (c Cell) Brush() *csg.Brush {
	size := float32(math.Max(c.Size, Epsilon))
	height := float32(math.Max(c.Height, Epsilon))
	center := ms3.Vec{X: float32(c.X), Y: float32(c.Y), Z: float32(c.Z)}
	return csg.NewBoxBrush(center, size, size, height, c.Class.Material())
}

// Frame is one concentric ring of cells.
type Frame struct {
	Side  float64
	Size  float64
	Light []Cell
	Dark  []Cell
}

// Cells returns light then dark cells.
func (f Frame) Cells() []Cell {
	out := make([]Cell, 0, len(f.Light)+len(f.Dark))
	out = append(out, f.Light...)
	return append(out, f.Dark...)
}

// Grid classifies lattice cells with a noise field and a light/dark threshold.
type Grid struct {
	Noise     *noise.Generator
	Threshold float64
}

// GenerateFrame walks the square lattice from -side/2 to side/2 in steps of
// size and keeps only the ring on its boundary.
func (g Grid) GenerateFrame(side, size float64) Frame {
	frame := Frame{Side: side, Size: size}
	if size <= 0 || side < 0 {
		return frame
	}

	half := side / 2
	steps := int(math.Floor(side/size + 1e-9))
	for i := 0; i <= steps; i++ {
		x := -half + float64(i)*size
		for j := 0; j <= steps; j++ {
			y := -half + float64(j)*size
			if x != -half && x != half && y != -half && y != half {
				continue
			}
			cell := g.classify(x, y, size)
			if cell.Class == Light {
				frame.Light = append(frame.Light, cell)
			} else {
				frame.Dark = append(frame.Dark, cell)
			}
		}
	}
	return frame
}

// classify samples the noise on |x|, |y| so every frame has 4-way symmetry.
// Light pieces rise three times as high as dark ones.
func (g Grid) classify(x, y, size float64) Cell {
	absX := math.Abs(x)
	absY := math.Abs(y)

	nF := (g.Noise.Noise(absX/10, absY/10, size) + 1) / 2
	noiseVal := g.Noise.Noise2(absX*0.05, absY*0.05)

	cell := Cell{X: x, Y: y, Size: size, Noise: nF}
	unit := size / 30
	if noiseVal > g.Threshold {
		cell.Class = Light
		cell.Z = unit * 15 * nF
		cell.Height = unit * 30 * nF
	} else {
		cell.Class = Dark
		cell.Z = unit * 5 * nF
		cell.Height = unit * 10 * nF
	}
	return cell
}

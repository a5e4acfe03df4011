// Package csg combines axis-aligned solids with boolean operations.
//
// A solid's geometry is a set of disjoint axis-aligned boxes. Union,
// subtraction and intersection are exact on that representation; the
// triangle surface is only extracted when a mesh is requested.
package csg

import (
	"errors"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

var (
	// ErrDisposed is returned when an operand's geometry was released.
	ErrDisposed = errors.New("geometry disposed")
	// ErrDegenerate is returned for operands with non-finite or zero-volume boxes.
	ErrDegenerate = errors.New("degenerate geometry")
	// ErrEmptyResult is returned when an operation leaves no position data.
	ErrEmptyResult = errors.New("operation produced no geometry")
)

// MinExtent is the smallest box side accepted by the evaluator.
const MinExtent float32 = 1e-3

// Geometry holds disjoint boxes in the owner's local space.
type Geometry struct {
	boxes    []ms3.Box
	disposed bool
}

// NewBoxGeometry returns a box of the given size centred on the origin.
func NewBoxGeometry(width, depth, height float32) *Geometry {
	size := ms3.Vec{X: width, Y: depth, Z: height}
	return &Geometry{boxes: []ms3.Box{ms3.NewCenteredBox(ms3.Vec{}, size)}}
}

func newGeometry(boxes []ms3.Box) *Geometry {
	return &Geometry{boxes: boxes}
}

// Boxes returns a copy of the geometry's boxes.
func (g *Geometry) Boxes() []ms3.Box {
	if g == nil {
		return nil
	}
	out := make([]ms3.Box, len(g.boxes))
	copy(out, g.boxes)
	return out
}

// Len returns the number of boxes.
func (g *Geometry) Len() int {
	if g == nil {
		return 0
	}
	return len(g.boxes)
}

// Dispose releases the geometry's buffers.
func (g *Geometry) Dispose() {
	if g == nil {
		return
	}
	g.boxes = nil
	g.disposed = true
}

// Disposed reports whether Dispose has been called.
func (g *Geometry) Disposed() bool {
	return g != nil && g.disposed
}

// Valid reports whether the geometry carries usable position data.
func (g *Geometry) Valid() bool {
	return g.check() == nil
}

// Err reports why the geometry cannot take part in an operation, or nil.
func (g *Geometry) Err() error {
	return g.check()
}

func (g *Geometry) check() error {
	if g == nil {
		return ErrEmptyResult
	}
	if g.disposed {
		return ErrDisposed
	}
	if len(g.boxes) == 0 {
		return ErrEmptyResult
	}
	for _, b := range g.boxes {
		if !finite(b.Min) || !finite(b.Max) {
			return ErrDegenerate
		}
		size := b.Size()
		if size.X < MinExtent || size.Y < MinExtent || size.Z < MinExtent {
			return ErrDegenerate
		}
	}
	return nil
}

// Bounds returns the box enclosing every piece of the geometry.
func (g *Geometry) Bounds() ms3.Box {
	var bb ms3.Box
	if g == nil {
		return bb
	}
	for i, b := range g.boxes {
		if i == 0 {
			bb = b
			continue
		}
		bb = bb.Union(b)
	}
	return bb
}

// Volume returns the enclosed volume.
func (g *Geometry) Volume() float32 {
	if g == nil {
		return 0
	}
	var v float32
	for _, b := range g.boxes {
		v += b.Volume()
	}
	return v
}

// Contains reports whether p lies inside the geometry, boundaries included.
func (g *Geometry) Contains(p ms3.Vec) bool {
	if g == nil {
		return false
	}
	for _, b := range g.boxes {
		if b.Contains(p) {
			return true
		}
	}
	return false
}

func finite(v ms3.Vec) bool {
	for _, c := range v.Array() {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

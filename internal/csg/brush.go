package csg

import "github.com/soypat/geometry/ms3"

// Material tags which surface a solid renders and exports as.
type Material uint8

const (
	MaterialNone Material = iota
	MaterialLight
	MaterialDark
	MaterialBase
)

func (m Material) String() string {
	switch m {
	case MaterialLight:
		return "light"
	case MaterialDark:
		return "dark"
	case MaterialBase:
		return "base"
	default:
		return "none"
	}
}

// Solid is anything the evaluator can combine: geometry in local space, a
// translation placing it in the world, and a material tag.
type Solid interface {
	Geometry() *Geometry
	Position() ms3.Vec
	Material() Material
}

// Brush is the concrete Solid used throughout the pipeline.
type Brush struct {
	geometry *Geometry
	position ms3.Vec
	material Material
}

// NewBrush wraps geometry with a material tag at the origin.
func NewBrush(geometry *Geometry, material Material) *Brush {
	return &Brush{geometry: geometry, material: material}
}

// NewBoxBrush is shorthand for a box of the given size centred at center.
func NewBoxBrush(center ms3.Vec, width, depth, height float32, material Material) *Brush {
	b := NewBrush(NewBoxGeometry(width, depth, height), material)
	b.SetPosition(center)
	return b
}

func (b *Brush) Geometry() *Geometry { return b.geometry }
func (b *Brush) Position() ms3.Vec   { return b.position }
func (b *Brush) Material() Material  { return b.material }

// SetPosition moves the brush.
func (b *Brush) SetPosition(p ms3.Vec) {
	b.position = p
}

// SetMaterial retags the brush.
func (b *Brush) SetMaterial(m Material) {
	b.material = m
}

// Dispose releases the brush's geometry.
func (b *Brush) Dispose() {
	if b == nil {
		return
	}
	b.geometry.Dispose()
}

// Bounds returns the world-space bounding box.
func (b *Brush) Bounds() ms3.Box {
	return b.geometry.Bounds().Add(b.position)
}

// Volume returns the enclosed volume.
func (b *Brush) Volume() float32 {
	return b.geometry.Volume()
}

// Contains reports whether the world-space point p lies inside the brush.
func (b *Brush) Contains(p ms3.Vec) bool {
	return b.geometry.Contains(ms3.Sub(p, b.position))
}

// Mesh extracts the brush's world-space surface.
func (b *Brush) Mesh() *Mesh {
	return buildMesh(worldBoxes(b))
}

func worldBoxes(s Solid) []ms3.Box {
	g := s.Geometry()
	if g == nil {
		return nil
	}
	pos := s.Position()
	out := make([]ms3.Box, len(g.boxes))
	for i, box := range g.boxes {
		out[i] = box.Add(pos)
	}
	return out
}

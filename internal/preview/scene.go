// Package preview renders solids to still images and orbit animations with
// a small z-buffered software rasterizer.
package preview

import (
	"image/color"

	"squared/internal/csg"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Camera is a perspective camera looking at Target. FOV is the vertical
// field of view in degrees.
type Camera struct {
	Position ms3.Vec
	Target   ms3.Vec
	Up       ms3.Vec
	FOV      float32
	Near     float32
}

// DefaultCamera sits at (350, 350, 350) looking at the origin, Y up.
func DefaultCamera() Camera {
	return Camera{
		Position: ms3.Vec{X: 350, Y: 350, Z: 350},
		Up:       ms3.Vec{Y: 1},
		FOV:      50,
		Near:     0.1,
	}
}

// Orbit returns the camera rotated by angle radians around the Up axis
// through Target.
func (c Camera) Orbit(angle float32) Camera {
	axis := ms3.Unit(c.Up)
	offset := ms3.Sub(c.Position, c.Target)
	sin, cos := math.Sincos(angle)

	// Rodrigues rotation of offset about axis.
	rotated := ms3.Add(
		ms3.Add(ms3.Scale(cos, offset), ms3.Scale(sin, ms3.Cross(axis, offset))),
		ms3.Scale(ms3.Dot(axis, offset)*(1-cos), axis),
	)
	c.Position = ms3.Add(c.Target, rotated)
	return c
}

// Light is a directional light shining from Position towards the origin.
type Light struct {
	Position  ms3.Vec
	Color     color.RGBA
	Intensity float32
}

// Object is one mesh with a flat surface colour.
type Object struct {
	Name  string
	Mesh  *csg.Mesh
	Color color.RGBA
}

// Scene is everything one frame needs.
type Scene struct {
	Objects    []Object
	Background color.RGBA
	Ambient    float32
	Lights     []Light
	Camera     Camera
	Wireframe  bool
}

// DefaultLights are a white key light and a dim bluish fill light.
func DefaultLights() []Light {
	return []Light{
		{Position: ms3.Vec{X: 100, Y: 150, Z: 100}, Color: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, Intensity: 1.2},
		{Position: ms3.Vec{X: -80, Y: 80, Z: -80}, Color: color.RGBA{R: 0x88, G: 0x99, B: 0xff, A: 0xff}, Intensity: 0.4},
	}
}

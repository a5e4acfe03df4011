package csg

import (
	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// coplanarTol is the distance under which two faces are treated as touching.
const coplanarTol float32 = 1e-4

// Mesh is a triangle soup with outward-facing winding.
type Mesh struct {
	Triangles []ms3.Triangle
}

// VertexCount returns the number of distinct vertex positions.
func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	seen := make(map[[3]float32]struct{}, len(m.Triangles)*2)
	for _, tri := range m.Triangles {
		for _, v := range tri {
			seen[v.Array()] = struct{}{}
		}
	}
	return len(seen)
}

// Bounds returns the box enclosing every vertex.
func (m *Mesh) Bounds() ms3.Box {
	var bb ms3.Box
	if m == nil || len(m.Triangles) == 0 {
		return bb
	}
	bb = ms3.Box{Min: m.Triangles[0][0], Max: m.Triangles[0][0]}
	for _, tri := range m.Triangles {
		for _, v := range tri {
			bb = bb.IncludePoint(v)
		}
	}
	return bb
}

// Area returns the total surface area.
func (m *Mesh) Area() float32 {
	if m == nil {
		return 0
	}
	var a float32
	for _, tri := range m.Triangles {
		a += tri.Area()
	}
	return a
}

// buildMesh emits every box face minus the parts glued to a neighbouring box.
func buildMesh(boxes []ms3.Box) *Mesh {
	mesh := &Mesh{}
	for i, box := range boxes {
		for axis := 0; axis < 3; axis++ {
			for _, positive := range [2]bool{false, true} {
				plane := component(box.Min, axis)
				if positive {
					plane = component(box.Max, axis)
				}
				rects := []ms2.Box{faceRect(box, axis)}
				for j, other := range boxes {
					if i == j || len(rects) == 0 {
						continue
					}
					// The neighbour's opposite face must sit on the same plane.
					touch := component(other.Max, axis)
					if positive {
						touch = component(other.Min, axis)
					}
					if math.Abs(touch-plane) > coplanarTol {
						continue
					}
					rects = subtractRects(rects, faceRect(other, axis))
				}
				for _, r := range rects {
					mesh.Triangles = appendQuad(mesh.Triangles, r, axis, plane, positive)
				}
			}
		}
	}
	return mesh
}

// faceRect projects box onto the plane orthogonal to axis, using the
// next two axes in cyclic order as (u, v).
func faceRect(box ms3.Box, axis int) ms2.Box {
	u, v := (axis+1)%3, (axis+2)%3
	return ms2.Box{
		Min: ms2.Vec{X: component(box.Min, u), Y: component(box.Min, v)},
		Max: ms2.Vec{X: component(box.Max, u), Y: component(box.Max, v)},
	}
}

func subtractRects(rects []ms2.Box, cutter ms2.Box) []ms2.Box {
	out := rects[:0:0]
	for _, r := range rects {
		i := r.Intersect(cutter)
		if i.Empty() {
			out = append(out, r)
			continue
		}
		for _, piece := range [4]ms2.Box{
			{Min: r.Min, Max: ms2.Vec{X: i.Min.X, Y: r.Max.Y}},
			{Min: ms2.Vec{X: i.Max.X, Y: r.Min.Y}, Max: r.Max},
			{Min: ms2.Vec{X: i.Min.X, Y: r.Min.Y}, Max: ms2.Vec{X: i.Max.X, Y: i.Min.Y}},
			{Min: ms2.Vec{X: i.Min.X, Y: i.Max.Y}, Max: ms2.Vec{X: i.Max.X, Y: r.Max.Y}},
		} {
			if !piece.Empty() {
				out = append(out, piece)
			}
		}
	}
	return out
}

func appendQuad(tris []ms3.Triangle, r ms2.Box, axis int, plane float32, positive bool) []ms3.Triangle {
	u, v := (axis+1)%3, (axis+2)%3
	corner := func(a, b float32) ms3.Vec {
		var c [3]float32
		c[axis] = plane
		c[u] = a
		c[v] = b
		return ms3.Vec{X: c[0], Y: c[1], Z: c[2]}
	}
	p0 := corner(r.Min.X, r.Min.Y)
	p1 := corner(r.Max.X, r.Min.Y)
	p2 := corner(r.Max.X, r.Max.Y)
	p3 := corner(r.Min.X, r.Max.Y)
	// (u, v, axis) is right handed, so p0..p3 winds towards +axis.
	if positive {
		return append(tris, ms3.Triangle{p0, p1, p2}, ms3.Triangle{p0, p2, p3})
	}
	return append(tris, ms3.Triangle{p0, p2, p1}, ms3.Triangle{p0, p3, p2})
}

func component(v ms3.Vec, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

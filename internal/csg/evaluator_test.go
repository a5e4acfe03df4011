package csg

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/geometry/ms3"
)

func vec(x, y, z float32) ms3.Vec {
	return ms3.Vec{X: x, Y: y, Z: z}
}

func cube(x, y, z, side float32, m Material) *Brush {
	return NewBoxBrush(vec(x, y, z), side, side, side, m)
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-3*math.Max(1, math.Abs(float64(b)))
}

func TestEvaluateOperations(t *testing.T) {
	tests := []struct {
		name       string
		op         Operation
		wantVolume float32
		inside     []ms3.Vec
		outside    []ms3.Vec
	}{
		{
			name:       "addition",
			op:         Addition,
			wantVolume: 8 + 8 - 4,
			inside:     []ms3.Vec{vec(-0.5, 0, 0), vec(1.5, 0, 0), vec(0.5, 0.5, 0.5)},
			outside:    []ms3.Vec{vec(2.5, 0, 0), vec(0, 1.5, 0)},
		},
		{
			name:       "subtraction",
			op:         Subtraction,
			wantVolume: 4,
			inside:     []ms3.Vec{vec(-0.5, 0, 0)},
			outside:    []ms3.Vec{vec(0.5, 0, 0), vec(1.5, 0, 0)},
		},
		{
			name:       "intersection",
			op:         Intersection,
			wantVolume: 4,
			inside:     []ms3.Vec{vec(0.5, 0, 0)},
			outside:    []ms3.Vec{vec(-0.5, 0, 0), vec(1.5, 0, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := cube(0, 0, 0, 2, MaterialLight)
			b := cube(1, 0, 0, 2, MaterialDark)

			got, err := NewEvaluator().Evaluate(a, b, tt.op)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if !approx(got.Volume(), tt.wantVolume) {
				t.Fatalf("volume = %v, want %v", got.Volume(), tt.wantVolume)
			}
			if got.Material() != MaterialLight {
				t.Fatalf("material = %v, want light", got.Material())
			}
			for _, p := range tt.inside {
				if !got.Contains(p) {
					t.Fatalf("expected %v inside result", p)
				}
			}
			for _, p := range tt.outside {
				if got.Contains(p) {
					t.Fatalf("expected %v outside result", p)
				}
			}
			if a.Geometry().Disposed() || b.Geometry().Disposed() {
				t.Fatal("Evaluate must not dispose its operands")
			}
		})
	}
}

func TestEvaluateKeepsResultBoxesDisjoint(t *testing.T) {
	acc := cube(0, 0, 0, 4, MaterialLight)
	ev := NewEvaluator()
	for _, c := range []*Brush{
		cube(2, 2, 0, 3, MaterialLight),
		cube(-1, 3, 1, 2, MaterialLight),
		cube(0, 0, 2, 1, MaterialLight),
	} {
		next, err := ev.Evaluate(acc, c, Addition)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		acc = next
	}

	boxes := acc.Geometry().Boxes()
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if overlap := boxes[i].Intersect(boxes[j]); !overlap.Empty() {
				t.Fatalf("boxes %d and %d overlap: %+v", i, j, overlap)
			}
		}
	}
}

func TestEvaluateRejectsInvalidOperands(t *testing.T) {
	ev := NewEvaluator()

	disposed := cube(0, 0, 0, 1, MaterialLight)
	disposed.Dispose()
	if _, err := ev.Evaluate(disposed, cube(0, 0, 0, 1, MaterialLight), Addition); !errors.Is(err, ErrDisposed) {
		t.Fatalf("expected ErrDisposed, got %v", err)
	}

	flat := NewBoxBrush(vec(0, 0, 0), 1, 1, 0, MaterialDark)
	if _, err := ev.Evaluate(cube(0, 0, 0, 1, MaterialLight), flat, Addition); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}

	nan := NewBoxBrush(vec(float32(math.NaN()), 0, 0), 1, 1, 1, MaterialDark)
	if _, err := ev.Evaluate(cube(0, 0, 0, 1, MaterialLight), nan, Addition); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate for NaN position, got %v", err)
	}
}

func TestApplyRejectsEmptyResult(t *testing.T) {
	inner := cube(0, 0, 0, 1, MaterialLight)
	outer := cube(0, 0, 0, 3, MaterialDark)
	if _, err := Apply(NewEvaluator(), inner, outer, Subtraction); !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestBrushMeshSingleBox(t *testing.T) {
	mesh := cube(1, 2, 3, 2, MaterialLight).Mesh()
	if got := len(mesh.Triangles); got != 12 {
		t.Fatalf("triangles = %d, want 12", got)
	}
	if got := mesh.VertexCount(); got != 8 {
		t.Fatalf("vertices = %d, want 8", got)
	}
	if !approx(mesh.Area(), 24) {
		t.Fatalf("area = %v, want 24", mesh.Area())
	}
	bb := mesh.Bounds()
	if bb.Min != vec(0, 1, 2) || bb.Max != vec(2, 3, 4) {
		t.Fatalf("bounds = %+v", bb)
	}

	center := vec(1, 2, 3)
	for i, tri := range mesh.Triangles {
		outward := ms3.Sub(tri.Centroid(), center)
		if ms3.Dot(tri.Normal(), outward) <= 0 {
			t.Fatalf("triangle %d faces inwards", i)
		}
	}
}

func TestBrushMeshHidesGluedFaces(t *testing.T) {
	a := cube(0, 0, 0, 2, MaterialLight)
	b := cube(2, 0, 0, 2, MaterialLight)
	joined, err := NewEvaluator().Evaluate(a, b, Addition)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	// A 4x2x2 bar: the shared face at x=1 must not be emitted.
	if got := joined.Mesh().Area(); !approx(got, 2*(8+8+4)) {
		t.Fatalf("area = %v, want %v", got, 2*(8+8+4))
	}
}

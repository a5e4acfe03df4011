package csg

import (
	"fmt"

	"github.com/soypat/geometry/ms3"
)

// Operation selects the boolean combination applied by an Operator.
type Operation uint8

const (
	Addition Operation = iota
	Subtraction
	Intersection
)

func (op Operation) String() string {
	switch op {
	case Addition:
		return "addition"
	case Subtraction:
		return "subtraction"
	case Intersection:
		return "intersection"
	default:
		return fmt.Sprintf("operation(%d)", uint8(op))
	}
}

// Operator combines two solids into a new brush carrying a's material.
type Operator interface {
	Evaluate(a, b Solid, op Operation) (*Brush, error)
}

// Evaluator is the exact box-set Operator. Result boxes thinner than
// MinExtent along any axis are dropped so every result stays a valid operand.
type Evaluator struct{}

// NewEvaluator returns a ready Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate implements Operator. Inputs are left untouched.
func (e *Evaluator) Evaluate(a, b Solid, op Operation) (*Brush, error) {
	if err := checkSolid(a); err != nil {
		return nil, fmt.Errorf("%s: left operand: %w", op, err)
	}
	if err := checkSolid(b); err != nil {
		return nil, fmt.Errorf("%s: right operand: %w", op, err)
	}

	left := worldBoxes(a)
	right := worldBoxes(b)

	var out []ms3.Box
	switch op {
	case Addition:
		out = append(out, left...)
		for _, box := range right {
			out = append(out, e.subtractAll(box, left)...)
		}
	case Subtraction:
		for _, box := range left {
			out = append(out, e.subtractAll(box, right)...)
		}
	case Intersection:
		for _, la := range left {
			for _, rb := range right {
				if i := la.Intersect(rb); !i.Empty() && e.keep(i) {
					out = append(out, i)
				}
			}
		}
	default:
		return nil, fmt.Errorf("unsupported operation %s", op)
	}

	return NewBrush(newGeometry(out), a.Material()), nil
}

func checkSolid(s Solid) error {
	if err := s.Geometry().check(); err != nil {
		return err
	}
	if !finite(s.Position()) {
		return ErrDegenerate
	}
	return nil
}

// subtractAll removes every cutter from box and returns the disjoint remainder.
func (e *Evaluator) subtractAll(box ms3.Box, cutters []ms3.Box) []ms3.Box {
	pieces := []ms3.Box{box}
	for _, cutter := range cutters {
		if len(pieces) == 0 {
			break
		}
		next := pieces[:0:0]
		for _, piece := range pieces {
			next = append(next, e.subtract(piece, cutter)...)
		}
		pieces = next
	}
	return pieces
}

// subtract splits a around b into at most six slabs.
func (e *Evaluator) subtract(a, b ms3.Box) []ms3.Box {
	i := a.Intersect(b)
	if i.Empty() {
		return []ms3.Box{a}
	}

	out := make([]ms3.Box, 0, 6)
	add := func(box ms3.Box) {
		if !box.Empty() && e.keep(box) {
			out = append(out, box)
		}
	}

	// X slabs span a's full Y and Z.
	add(ms3.Box{Min: a.Min, Max: ms3.Vec{X: i.Min.X, Y: a.Max.Y, Z: a.Max.Z}})
	add(ms3.Box{Min: ms3.Vec{X: i.Max.X, Y: a.Min.Y, Z: a.Min.Z}, Max: a.Max})
	// Y slabs are limited to the intersection's X range.
	add(ms3.Box{
		Min: ms3.Vec{X: i.Min.X, Y: a.Min.Y, Z: a.Min.Z},
		Max: ms3.Vec{X: i.Max.X, Y: i.Min.Y, Z: a.Max.Z},
	})
	add(ms3.Box{
		Min: ms3.Vec{X: i.Min.X, Y: i.Max.Y, Z: a.Min.Z},
		Max: ms3.Vec{X: i.Max.X, Y: a.Max.Y, Z: a.Max.Z},
	})
	// Z slabs cover the intersection footprint.
	add(ms3.Box{
		Min: ms3.Vec{X: i.Min.X, Y: i.Min.Y, Z: a.Min.Z},
		Max: ms3.Vec{X: i.Max.X, Y: i.Max.Y, Z: i.Min.Z},
	})
	add(ms3.Box{
		Min: ms3.Vec{X: i.Min.X, Y: i.Min.Y, Z: i.Max.Z},
		Max: ms3.Vec{X: i.Max.X, Y: i.Max.Y, Z: a.Max.Z},
	})
	return out
}

func (e *Evaluator) keep(box ms3.Box) bool {
	size := box.Size()
	return size.X >= MinExtent && size.Y >= MinExtent && size.Z >= MinExtent
}

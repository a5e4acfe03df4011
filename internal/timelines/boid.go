package timelines

import "math"

// Boid is one minute bar drifting horizontally along its row.
type Boid struct {
	Row      int
	X, Y     float64
	VX, VY   float64
	MaxSpeed float64

	// Stroke parameters: most bars are thin (Narrow), a few are wide.
	Shape  float64
	Narrow float64
	Wide   float64
}

func (c *Clock) newBoid(row int) *Boid {
	b := &Boid{
		Row:      row,
		X:        c.rng.Range(0, float64(c.width)),
		Y:        175,
		MaxSpeed: c.m,
	}
	// A (1, 0) heading scaled to a signed magnitude.
	b.VX = c.rng.Range(-c.m, c.m)
	b.Shape = c.rng.Range(0, 1)
	b.Narrow = c.rng.Range(1, 2)
	b.Wide = c.rng.Range(10, 100)
	return b
}

// StrokeFactor scales the bar's noise-driven extra width.
func (b *Boid) StrokeFactor() float64 {
	if b.Shape <= 0.9 {
		return b.Narrow
	}
	return b.Wide
}

// edges wraps the boid inside a 20M margin.
func (b *Boid) edges(width, height int, m float64) {
	margin := 20 * m
	w := float64(width)
	dim := float64(min(width, height))
	if b.X > w-margin {
		b.X = margin
	} else if b.X <= margin {
		b.X = w - margin
	}
	if b.Y > dim-margin {
		b.Y = 0
	} else if b.Y < margin {
		b.Y = float64(height) - margin
	}
}

func (b *Boid) update() {
	b.X += b.VX
	b.Y += b.VY
	if speed := math.Hypot(b.VX, b.VY); speed > b.MaxSpeed && speed > 0 {
		k := b.MaxSpeed / speed
		b.VX *= k
		b.VY *= k
	}
}

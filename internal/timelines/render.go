package timelines

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

const (
	// Content is drawn at 80% around the canvas centre.
	contentScale = 0.8
	maxTilt      = math.Pi / 30
)

// Render draws the current frame.
func (c *Clock) Render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c.palette.Background), image.Point{}, draw.Src)
	if len(c.rows) == 0 {
		return img
	}

	z := vector.NewRasterizer(c.width, c.height)
	w := float64(c.width)
	rowHeight := float64(c.height) / float64(len(c.rows))
	barHeight := math.Max(rowHeight-15*c.m, 0)

	if c.Flash() {
		for j := range c.rows {
			c.bar(z, w/2, float64(j)*rowHeight+rowHeight/2, w, barHeight, 0)
		}
	}

	for j, row := range c.rows {
		centerY := float64(j)*rowHeight + rowHeight/2
		for _, b := range row {
			c.bar(z, b.X, centerY, c.barWidth(b), barHeight, c.tilt(b))
		}
	}

	z.Draw(img, img.Bounds(), image.NewUniform(c.palette.Stroke), image.Point{})
	return img
}

// tilt rocks a bar by up to ±π/30 following the noise field over its
// position and the current second.
func (c *Clock) tilt(b *Boid) float64 {
	n := c.noise01(b.X/(30*c.m), b.Y/(30*c.m), float64(c.now.Second)/100)
	return -maxTilt + n*2*maxTilt
}

func (c *Clock) barWidth(b *Boid) float64 {
	n := c.noise01(float64(b.Row)/(100*c.m)+b.X/(100*c.m), 0, 0)
	return 3*c.m + n*b.StrokeFactor()*c.m
}

func (c *Clock) noise01(x, y, z float64) float64 {
	n := (c.field.Noise(x, y, z) + 1) / 2
	return math.Min(math.Max(n, 0), 1)
}

// bar adds a w x h rectangle centred on (cx, cy) and rotated by angle to z.
func (c *Clock) bar(z *vector.Rasterizer, cx, cy, w, h, angle float64) {
	if w <= 0 || h <= 0 {
		return
	}
	sin, cos := math.Sincos(angle)
	hw, hh := w/2, h/2
	corners := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	for i, p := range corners {
		x := cx + p[0]*cos - p[1]*sin
		y := cy + p[0]*sin + p[1]*cos
		sx, sy := c.toScreen(x, y)
		if i == 0 {
			z.MoveTo(sx, sy)
		} else {
			z.LineTo(sx, sy)
		}
	}
	z.ClosePath()
}

func (c *Clock) toScreen(x, y float64) (float32, float32) {
	cx, cy := float64(c.width)/2, float64(c.height)/2
	return float32(cx + (x-cx)*contentScale), float32(cy + (y-cy)*contentScale)
}

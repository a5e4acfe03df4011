package preview

import (
	"image"
	"image/color"
	"image/draw"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

type projector struct {
	eye                   ms3.Vec
	right, up, forward    ms3.Vec
	focal, aspect, near   float32
	halfWidth, halfHeight float32
}

func newProjector(c Camera, width, height int) projector {
	forward := ms3.Unit(ms3.Sub(c.Target, c.Position))
	up := c.Up
	if ms3.Norm(up) == 0 {
		up = ms3.Vec{Y: 1}
	}
	right := ms3.Cross(forward, up)
	if ms3.Norm(right) == 0 {
		// Looking straight along Up; any perpendicular will do.
		right = ms3.Cross(forward, ms3.Vec{X: 1})
	}
	right = ms3.Unit(right)
	near := c.Near
	if near <= 0 {
		near = 0.1
	}
	fov := c.FOV
	if fov <= 0 || fov >= 180 {
		fov = 50
	}
	return projector{
		eye:        c.Position,
		right:      right,
		up:         ms3.Cross(right, forward),
		forward:    forward,
		focal:      1 / math.Tan(fov*math.Pi/360),
		aspect:     float32(width) / float32(height),
		near:       near,
		halfWidth:  float32(width) / 2,
		halfHeight: float32(height) / 2,
	}
}

// project maps p to pixel coordinates and view depth. ok is false when p is
// in front of the near plane.
func (pr projector) project(p ms3.Vec) (x, y, depth float32, ok bool) {
	d := ms3.Sub(p, pr.eye)
	depth = ms3.Dot(d, pr.forward)
	if depth < pr.near {
		return 0, 0, depth, false
	}
	ndcX := ms3.Dot(d, pr.right) * pr.focal / (depth * pr.aspect)
	ndcY := ms3.Dot(d, pr.up) * pr.focal / depth
	x = (ndcX + 1) * pr.halfWidth
	y = (1 - ndcY) * pr.halfHeight
	return x, y, depth, true
}

type rasterizer struct {
	img   *image.NRGBA
	depth []float32
	proj  projector
}

// Render draws scene into a new width x height image.
func Render(scene Scene, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{opaque(scene.Background)}, image.Point{}, draw.Src)
	if width <= 0 || height <= 0 {
		return img
	}

	r := &rasterizer{
		img:   img,
		depth: make([]float32, width*height),
		proj:  newProjector(scene.Camera, width, height),
	}
	for i := range r.depth {
		r.depth[i] = math.Inf(1)
	}

	for _, obj := range scene.Objects {
		if obj.Mesh == nil {
			continue
		}
		for _, tri := range obj.Mesh.Triangles {
			normal := tri.Normal()
			if ms3.Norm(normal) == 0 {
				continue
			}
			normal = ms3.Unit(normal)
			toEye := ms3.Sub(r.proj.eye, tri.Centroid())
			if !scene.Wireframe && ms3.Dot(normal, toEye) <= 0 {
				continue
			}
			if scene.Wireframe {
				r.edges(tri, obj.Color)
				continue
			}
			r.fill(tri, shade(obj.Color, normal, scene))
		}
	}
	return img
}

// shade applies ambient plus Lambertian directional lighting.
func shade(base color.RGBA, normal ms3.Vec, scene Scene) color.NRGBA {
	red, green, blue := scene.Ambient, scene.Ambient, scene.Ambient
	for _, l := range scene.Lights {
		if ms3.Norm(l.Position) == 0 {
			continue
		}
		lambert := ms3.Dot(normal, ms3.Unit(l.Position))
		if lambert <= 0 {
			continue
		}
		k := lambert * l.Intensity
		red += k * float32(l.Color.R) / 255
		green += k * float32(l.Color.G) / 255
		blue += k * float32(l.Color.B) / 255
	}
	return color.NRGBA{
		R: scaleChannel(base.R, red),
		G: scaleChannel(base.G, green),
		B: scaleChannel(base.B, blue),
		A: 0xff,
	}
}

func scaleChannel(c uint8, factor float32) uint8 {
	v := math.Round(float32(c) * factor)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func opaque(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// fill scan-converts tri with barycentric coverage and a depth test.
func (r *rasterizer) fill(tri ms3.Triangle, col color.NRGBA) {
	var xs, ys, zs [3]float32
	for i, p := range tri {
		x, y, z, ok := r.proj.project(p)
		if !ok {
			return
		}
		xs[i], ys[i], zs[i] = x, y, z
	}

	area := edge(xs[0], ys[0], xs[1], ys[1], xs[2], ys[2])
	if area == 0 {
		return
	}

	bounds := r.img.Bounds()
	minX := max(int(math.Floor(min(xs[0], xs[1], xs[2]))), bounds.Min.X)
	maxX := min(int(math.Ceil(max(xs[0], xs[1], xs[2]))), bounds.Max.X-1)
	minY := max(int(math.Floor(min(ys[0], ys[1], ys[2]))), bounds.Min.Y)
	maxY := min(int(math.Ceil(max(ys[0], ys[1], ys[2]))), bounds.Max.Y-1)

	width := bounds.Dx()
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(xs[1], ys[1], xs[2], ys[2], px, py) / area
			w1 := edge(xs[2], ys[2], xs[0], ys[0], px, py) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			// Interpolate 1/z for perspective-correct depth.
			invZ := w0/zs[0] + w1/zs[1] + w2/zs[2]
			z := 1 / invZ
			idx := y*width + x
			if z >= r.depth[idx] {
				continue
			}
			r.depth[idx] = z
			r.set(x, y, col)
		}
	}
}

// edges draws the outline of tri without depth testing.
func (r *rasterizer) edges(tri ms3.Triangle, base color.RGBA) {
	col := opaque(base)
	for i := 0; i < 3; i++ {
		x0, y0, _, ok0 := r.proj.project(tri[i])
		x1, y1, _, ok1 := r.proj.project(tri[(i+1)%3])
		if !ok0 || !ok1 {
			continue
		}
		r.line(x0, y0, x1, y1, col)
	}
}

func (r *rasterizer) line(x0, y0, x1, y1 float32, col color.NRGBA) {
	steps := int(math.Ceil(max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		r.set(int(x0), int(y0), col)
		return
	}
	// Cap runaway lines from vertices projected just past the near plane.
	steps = min(steps, 4*(r.img.Bounds().Dx()+r.img.Bounds().Dy()))
	dx := (x1 - x0) / float32(steps)
	dy := (y1 - y0) / float32(steps)
	for i := 0; i <= steps; i++ {
		r.set(int(math.Floor(x0+dx*float32(i))), int(math.Floor(y0+dy*float32(i))), col)
	}
}

func (r *rasterizer) set(x, y int, col color.NRGBA) {
	if !(image.Point{X: x, Y: y}).In(r.img.Bounds()) {
		return
	}
	idx := r.img.PixOffset(x, y)
	r.img.Pix[idx] = col.R
	r.img.Pix[idx+1] = col.G
	r.img.Pix[idx+2] = col.B
	r.img.Pix[idx+3] = col.A
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// Package studio holds the interactive state around one sculpture: the
// seeded generator, the current solids, display toggles and the orbiting
// camera.
package studio

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"squared/internal/config"
	"squared/internal/csg"
	"squared/internal/export"
	"squared/internal/noise"
	"squared/internal/preview"
	"squared/internal/random"
	"squared/internal/sculpture"

	"github.com/soypat/geometry/ms3"
)

// ErrNotBuilt is returned by exports requested before a solid exists.
var ErrNotBuilt = errors.New("sculpture not built")

// rotationPerSecond is the orbit rate at speed 1: one turn per minute.
const rotationPerSecond = 2 * math.Pi / 60

// Studio is not safe for concurrent use.
type Studio struct {
	logger   *log.Logger
	rng      *random.Random
	noise    *noise.Generator
	settings sculpture.Settings
	builder  *sculpture.Builder

	current    *sculpture.Sculpture
	generation int
	lightMesh  *csg.Mesh // cached surfaces of current, built on first Frame
	darkMesh   *csg.Mesh

	lightColor  color.RGBA
	darkColor   color.RGBA
	background  color.RGBA
	wireframe   bool
	autoRotate  bool
	rotateSpeed float64
	angle       float64

	camera  preview.Camera
	ambient float32
	lights  []preview.Light

	lightName string
	darkName  string
}

// New seeds the generator, rolls the first parameters and builds the
// initial sculpture. The noise table keeps its reference order until the
// first Regenerate.
func New(cfg config.Config, logger *log.Logger) (*Studio, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(log.Writer(), "studio ", log.LstdFlags|log.Lmicroseconds)
	}

	seed, err := resolveSeed(cfg.Seed)
	if err != nil {
		return nil, err
	}

	lights, err := sceneLights(cfg.Render.Lights)
	if err != nil {
		return nil, err
	}

	settings := Settings(cfg.Sculpture)
	s := &Studio{
		logger:      logger,
		rng:         random.New(seed),
		noise:       noise.New(),
		settings:    settings,
		builder:     sculpture.NewBuilder(settings, nil, logger),
		lightColor:  config.MustHexColor(cfg.Render.LightColor),
		darkColor:   config.MustHexColor(cfg.Render.DarkColor),
		background:  config.MustHexColor(cfg.Render.Background),
		wireframe:   cfg.Render.Wireframe,
		autoRotate:  cfg.Render.AutoRotate,
		rotateSpeed: cfg.Render.RotateSpeed,
		camera: preview.Camera{
			Position: vec(cfg.Render.Camera),
			Up:       ms3.Vec{Y: 1},
			FOV:      float32(cfg.Render.FieldOfView),
			Near:     0.1,
		},
		ambient:   float32(cfg.Render.Lights.Ambient),
		lights:    lights,
		lightName: cfg.Export.LightName,
		darkName:  cfg.Export.DarkName,
	}

	logger.Printf("seed %s", seed)
	s.build(settings.Roll(s.rng, settings.LoadThreshold))
	return s, nil
}

// Settings converts the sculpture section of the configuration.
func Settings(c config.SculptureConfig) sculpture.Settings {
	return sculpture.Settings{
		StepMin:         c.StepMin,
		StepMax:         c.StepMax,
		MaxFrame:        c.MaxFrame,
		BaseWidth:       c.BaseWidth,
		BaseDepth:       c.BaseDepth,
		BaseHeight:      c.BaseHeight,
		LoadThreshold:   sculpture.Range{Min: c.LoadThreshold.Min, Max: c.LoadThreshold.Max},
		RerollThreshold: sculpture.Range{Min: c.RerollThreshold.Min, Max: c.RerollThreshold.Max},
	}
}

func resolveSeed(token string) (random.Seed, error) {
	if token == "" {
		seed, err := random.NewSeed(nil)
		if err != nil {
			return random.Seed{}, fmt.Errorf("mint seed: %w", err)
		}
		return seed, nil
	}
	seed, err := random.ParseSeed(token)
	if err != nil {
		return random.Seed{}, fmt.Errorf("config seed: %w", err)
	}
	return seed, nil
}

func sceneLights(l config.Lights) ([]preview.Light, error) {
	fill, err := config.ParseHexColor(l.FillColor)
	if err != nil {
		return nil, fmt.Errorf("fill light: %w", err)
	}
	return []preview.Light{
		{Position: vec(l.MainPosition), Color: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, Intensity: float32(l.MainIntensity)},
		{Position: vec(l.FillPosition), Color: fill, Intensity: float32(l.FillIntensity)},
	}, nil
}

func vec(v config.Vector) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// build replaces the current sculpture, releasing the old solids.
func (s *Studio) build(params sculpture.Params) {
	s.generation++
	s.logger.Printf("building sculpture %d: start %d, increment %d, threshold %.3f",
		s.generation, params.Start, params.Increment, params.Threshold)

	grid := sculpture.Grid{Noise: s.noise, Threshold: params.Threshold}
	next := s.builder.Build(grid, params)
	if s.current != nil {
		s.current.Dispose()
	}
	s.current = next
	s.lightMesh, s.darkMesh = nil, nil
}

// Regenerate re-rolls start, increment and threshold, reshuffles the noise
// table and rebuilds. Every draw comes from the same seeded stream, so the
// n-th regeneration of a seed is reproducible.
func (s *Studio) Regenerate() sculpture.Params {
	params := s.settings.Roll(s.rng, s.settings.RerollThreshold)
	s.noise.Reshuffle(s.rng)
	s.build(params)
	return params
}

func (s *Studio) Seed() random.Seed {
	return s.rng.Seed()
}

// Sculpture returns the current build. It stays owned by the studio and is
// disposed on the next Regenerate.
func (s *Studio) Sculpture() *sculpture.Sculpture {
	return s.current
}

func (s *Studio) Params() sculpture.Params {
	if s.current == nil {
		return sculpture.Params{}
	}
	return s.current.Params
}

// Generation counts builds, starting at 1 for the initial one.
func (s *Studio) Generation() int {
	return s.generation
}

// ToggleWireframe flips edge-only rendering and returns the new state.
func (s *Studio) ToggleWireframe() bool {
	s.wireframe = !s.wireframe
	return s.wireframe
}

// ToggleRotation flips the camera auto-rotation and returns the new state.
func (s *Studio) ToggleRotation() bool {
	s.autoRotate = !s.autoRotate
	return s.autoRotate
}

func (s *Studio) Wireframe() bool  { return s.wireframe }
func (s *Studio) AutoRotate() bool { return s.autoRotate }

// SetBackgroundColor accepts #rrggbb. Invalid values leave the background
// unchanged.
func (s *Studio) SetBackgroundColor(hex string) error {
	c, err := config.ParseHexColor(hex)
	if err != nil {
		return fmt.Errorf("set background: %w", err)
	}
	s.background = c
	return nil
}

func (s *Studio) Background() color.RGBA {
	return s.background
}

// Tick advances the orbit by dt when auto-rotation is on and returns the
// orbit angle in radians, kept within [0, 2π).
func (s *Studio) Tick(dt time.Duration) float64 {
	if s.autoRotate && dt > 0 {
		s.angle += dt.Seconds() * rotationPerSecond * s.rotateSpeed
		s.angle = math.Mod(s.angle, 2*math.Pi)
	}
	return s.angle
}

// ExportName is the file name used for class.
func (s *Studio) ExportName(class sculpture.Class) string {
	if class == sculpture.Light {
		return s.lightName
	}
	return s.darkName
}

// Export writes the class's solid as binary STL into sink and returns the
// file name and triangle count.
func (s *Studio) Export(class sculpture.Class, sink export.Sink) (string, int, error) {
	name := s.ExportName(class)
	solid := s.current.Solid(class)
	if solid == nil {
		return name, 0, fmt.Errorf("export %s: %w", class, ErrNotBuilt)
	}
	n, err := export.Solid(sink, name, solid)
	if err != nil {
		return name, 0, err
	}
	s.logger.Printf("exported %s solid to %s (%d triangles, %d bytes)", class, name, n, export.EncodedSize(n))
	return name, n, nil
}

// Frame snapshots what a renderer needs for the current state.
func (s *Studio) Frame() preview.Scene {
	scene := preview.Scene{
		Background: s.background,
		Ambient:    s.ambient,
		Lights:     s.lights,
		Camera:     s.camera.Orbit(float32(s.angle)),
		Wireframe:  s.wireframe,
	}
	if s.current == nil {
		return scene
	}
	if m := surface(&s.darkMesh, s.current.Dark); m != nil {
		scene.Objects = append(scene.Objects, preview.Object{Name: "dark", Mesh: m, Color: s.darkColor})
	}
	if m := surface(&s.lightMesh, s.current.Light); m != nil {
		scene.Objects = append(scene.Objects, preview.Object{Name: "light", Mesh: m, Color: s.lightColor})
	}
	return scene
}

// surface returns b's mesh, extracting it into *cache on first use.
func surface(cache **csg.Mesh, b *csg.Brush) *csg.Mesh {
	if *cache != nil {
		return *cache
	}
	if b == nil || !b.Geometry().Valid() {
		return nil
	}
	*cache = b.Mesh()
	return *cache
}

// Close releases the current solids.
func (s *Studio) Close() {
	if s.current != nil {
		s.current.Dispose()
		s.current = nil
	}
	s.lightMesh, s.darkMesh = nil, nil
}

package studio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log"
	"math"
	"strings"
	"testing"
	"time"

	"squared/internal/config"
	"squared/internal/export"
	"squared/internal/random"
	"squared/internal/sculpture"
)

const zeroSeed = "0x0000000000000000000000000000000000000000000000000000000000000000"

func newTestStudio(t *testing.T, mutate func(*config.Config)) *Studio {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = zeroSeed
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewBuildsInitialSculpture(t *testing.T) {
	s := newTestStudio(t, nil)

	if s.Generation() != 1 {
		t.Fatalf("Generation = %d, want 1", s.Generation())
	}
	if s.Seed().String() != zeroSeed {
		t.Fatalf("Seed = %s", s.Seed())
	}
	p := s.Params()
	if p.Start < 5 || p.Start > 9 || p.Increment < 5 || p.Increment > 9 {
		t.Fatalf("params out of range: %+v", p)
	}
	if p.Threshold < -0.8 || p.Threshold >= 0.8 {
		t.Fatalf("load threshold out of range: %v", p.Threshold)
	}
	sc := s.Sculpture()
	if sc == nil || sc.Dark == nil {
		t.Fatal("initial build missing dark solid")
	}
	if sc.LightCells+sc.DarkCells == 0 {
		t.Fatal("initial build generated no cells")
	}
}

func TestNewRejectsBadSeed(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = "0x1234"
	_, err := New(cfg, log.New(io.Discard, "", 0))
	if !errors.Is(err, random.ErrInvalidSeed) {
		t.Fatalf("New error = %v, want ErrInvalidSeed", err)
	}
}

func TestNewMintsSeedWhenUnset(t *testing.T) {
	s := newTestStudio(t, func(cfg *config.Config) { cfg.Seed = "" })
	if s.Seed().IsZero() {
		t.Fatal("fresh seed should not be the zero digest")
	}
}

func TestSameSeedReproducesRegenerations(t *testing.T) {
	a := newTestStudio(t, nil)
	b := newTestStudio(t, nil)

	for i := 0; i < 3; i++ {
		pa, pb := a.Regenerate(), b.Regenerate()
		if pa != pb {
			t.Fatalf("regeneration %d differs: %+v vs %+v", i, pa, pb)
		}
		if pa.Threshold < -0.3 || pa.Threshold >= 0.3 {
			t.Fatalf("regenerate threshold out of range: %v", pa.Threshold)
		}
		va, vb := a.Sculpture().Dark.Volume(), b.Sculpture().Dark.Volume()
		if va != vb {
			t.Fatalf("regeneration %d dark volume differs: %v vs %v", i, va, vb)
		}
	}
	if a.Generation() != 4 {
		t.Fatalf("Generation = %d, want 4", a.Generation())
	}
}

func TestRegenerateDisposesPreviousSolids(t *testing.T) {
	s := newTestStudio(t, nil)
	old := s.Sculpture()
	oldDark := old.Dark

	s.Regenerate()

	if s.Sculpture() == old {
		t.Fatal("Regenerate kept the old sculpture")
	}
	if !oldDark.Geometry().Disposed() {
		t.Fatal("old dark solid not disposed")
	}
	if s.Sculpture().Dark.Geometry().Disposed() {
		t.Fatal("new dark solid already disposed")
	}
}

func TestToggles(t *testing.T) {
	s := newTestStudio(t, nil)
	if s.Wireframe() {
		t.Fatal("wireframe should start off")
	}
	if !s.ToggleWireframe() || !s.Wireframe() {
		t.Fatal("ToggleWireframe should enable wireframe")
	}
	if s.ToggleWireframe() {
		t.Fatal("second ToggleWireframe should disable wireframe")
	}
	if !s.AutoRotate() {
		t.Fatal("rotation should start on")
	}
	if s.ToggleRotation() {
		t.Fatal("ToggleRotation should stop rotation")
	}
}

func TestSetBackgroundColor(t *testing.T) {
	s := newTestStudio(t, nil)
	if err := s.SetBackgroundColor("#ffffff"); err != nil {
		t.Fatalf("SetBackgroundColor: %v", err)
	}
	if bg := s.Background(); bg.R != 0xff || bg.G != 0xff || bg.B != 0xff {
		t.Fatalf("Background = %v", bg)
	}
	if err := s.SetBackgroundColor("white"); err == nil {
		t.Fatal("invalid colour accepted")
	}
	if bg := s.Background(); bg.R != 0xff {
		t.Fatalf("invalid colour changed background to %v", bg)
	}
	if s.Frame().Background != s.Background() {
		t.Fatal("frame does not carry the background")
	}
}

func TestTickOrbitsOnlyWhileRotating(t *testing.T) {
	s := newTestStudio(t, nil)

	angle := s.Tick(60 * time.Second)
	if math.Abs(angle-math.Pi) > 1e-9 {
		t.Fatalf("angle after a minute at speed 0.5 = %v, want π", angle)
	}
	angle = s.Tick(60 * time.Second)
	if angle > 1e-9 && math.Abs(angle-2*math.Pi) > 1e-9 {
		t.Fatalf("angle after a full turn = %v, want 0", angle)
	}

	s.ToggleRotation()
	before := s.Tick(0)
	if got := s.Tick(10 * time.Second); got != before {
		t.Fatalf("angle moved while rotation off: %v -> %v", before, got)
	}
}

func TestExportWritesBothSolids(t *testing.T) {
	s := newTestStudio(t, func(cfg *config.Config) { cfg.Sculpture.LoadThreshold = config.ThresholdRange{Min: -0.05, Max: 0.05} })
	sink := export.NewMemorySink()

	for _, class := range []sculpture.Class{sculpture.Light, sculpture.Dark} {
		if s.Sculpture().Solid(class) == nil {
			continue
		}
		name, n, err := s.Export(class, sink)
		if err != nil {
			t.Fatalf("Export(%s): %v", class, err)
		}
		data, ok := sink.File(name)
		if !ok {
			t.Fatalf("sink missing %s", name)
		}
		if len(data) != export.EncodedSize(n) {
			t.Fatalf("%s is %d bytes, want %d", name, len(data), export.EncodedSize(n))
		}
		if got := binary.LittleEndian.Uint32(data[80:84]); int(got) != n {
			t.Fatalf("%s declares %d triangles, want %d", name, got, n)
		}
	}
	if got := s.ExportName(sculpture.Dark); got != "squared_dark_pieces.stl" {
		t.Fatalf("dark export name = %q", got)
	}
	if _, ok := sink.File("squared_dark_pieces.stl"); !ok {
		t.Fatal("dark solid always exists and must export")
	}
}

func TestExportBeforeBuild(t *testing.T) {
	s := newTestStudio(t, nil)
	s.Close()
	if _, _, err := s.Export(sculpture.Light, export.NewMemorySink()); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("Export after Close = %v, want ErrNotBuilt", err)
	}
	if len(s.Frame().Objects) != 0 {
		t.Fatal("closed studio should render an empty scene")
	}
}

func TestFrameSnapshot(t *testing.T) {
	s := newTestStudio(t, nil)
	frame := s.Frame()
	if len(frame.Objects) == 0 {
		t.Fatal("frame has no objects")
	}
	if frame.Objects[0].Name != "dark" {
		t.Fatalf("first object = %q, want dark", frame.Objects[0].Name)
	}
	if len(frame.Lights) != 2 || frame.Ambient != 0.6 {
		t.Fatalf("lighting = %+v ambient %v", frame.Lights, frame.Ambient)
	}
	start := frame.Camera.Position

	s.ToggleWireframe()
	s.Tick(15 * time.Second)
	moved := s.Frame()
	if !moved.Wireframe {
		t.Fatal("frame does not carry wireframe")
	}
	if moved.Camera.Position == start {
		t.Fatal("camera did not orbit")
	}
}

func TestFrameReusesSurfacesUntilRebuild(t *testing.T) {
	s := newTestStudio(t, nil)
	first := s.Frame()
	second := s.Frame()
	if len(first.Objects) == 0 || len(first.Objects) != len(second.Objects) {
		t.Fatalf("objects = %d then %d", len(first.Objects), len(second.Objects))
	}
	for i := range first.Objects {
		if first.Objects[i].Mesh != second.Objects[i].Mesh {
			t.Fatalf("%s mesh rebuilt between frames", first.Objects[i].Name)
		}
	}

	s.Regenerate()
	rebuilt := s.Frame()
	if rebuilt.Objects[0].Mesh == first.Objects[0].Mesh {
		t.Fatal("dark mesh survived regeneration")
	}

	s.Close()
	if got := s.Frame(); len(got.Objects) != 0 {
		t.Fatalf("closed studio still renders %d objects", len(got.Objects))
	}
}

func TestRenderOrbit(t *testing.T) {
	var logs bytes.Buffer
	cfg := config.Default()
	cfg.Seed = zeroSeed
	s, err := New(cfg, log.New(&logs, "", 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if got := s.TurnDuration(); got != 2*time.Minute {
		t.Fatalf("TurnDuration = %v, want 2m", got)
	}
	frames, err := s.RenderOrbit(context.Background(), 4, 24, 24)
	if err != nil {
		t.Fatalf("RenderOrbit: %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("frames = %d, want 4", len(frames))
	}
	if angle := s.Tick(0); angle > 1e-6 && math.Abs(angle-2*math.Pi) > 1e-6 {
		t.Fatalf("orbit ended at %v, want a full turn", angle)
	}
	if !strings.Contains(logs.String(), "orbit render progress: 100%") {
		t.Fatalf("missing progress log:\n%s", logs.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.RenderOrbit(ctx, 4, 8, 8); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled orbit err = %v", err)
	}
	if _, err := s.RenderOrbit(context.Background(), 0, 8, 8); err == nil {
		t.Fatal("zero frames accepted")
	}
}

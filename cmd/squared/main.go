package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"squared/internal/config"
	"squared/internal/export"
	"squared/internal/preview"
	"squared/internal/sculpture"
	"squared/internal/studio"
)

func main() {
	var (
		configPath  string
		seed        string
		outDir      string
		regenerate  int
		wireframe   bool
		orbitFrames int
		background  string
	)
	flag.StringVar(&configPath, "config", "squared.yml", "configuration file for the sculpture")
	flag.StringVar(&seed, "seed", "", "0x-prefixed 64 digit hex seed, overrides the configuration")
	flag.StringVar(&outDir, "out", "", "directory for STL and preview files, overrides the configuration")
	flag.IntVar(&regenerate, "regenerate", 0, "number of times to regenerate after the initial build")
	flag.BoolVar(&wireframe, "wireframe", false, "render previews as wireframe")
	flag.IntVar(&orbitFrames, "orbit-frames", -1, "frames in the orbit GIF, 0 disables, overrides the configuration")
	flag.StringVar(&background, "background", "", "preview background colour as #rrggbb")
	flag.Parse()

	wrote, err := writeConfigFromEnv(configPath)
	if err != nil {
		log.Fatalf("sync config from environment: %v", err)
	}
	if wrote {
		log.Printf("configuration from environment written to %s", configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := config.WriteDefault(configPath); err != nil {
				log.Fatalf("write default config: %v", err)
			}
			log.Printf("no configuration found, default configuration written to %s", configPath)
			cfg, err = config.Load(configPath)
		}
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	if seed != "" {
		cfg.Seed = seed
	}
	if outDir != "" {
		cfg.Export.Dir = outDir
	}
	if orbitFrames >= 0 {
		cfg.Preview.OrbitFrames = orbitFrames
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	st, err := studio.New(*cfg, nil)
	if err != nil {
		log.Fatalf("initialise studio: %v", err)
	}
	defer st.Close()

	for i := 0; i < regenerate; i++ {
		if ctx.Err() != nil {
			log.Printf("interrupted after %d regenerations", i)
			return
		}
		st.Regenerate()
	}

	if wireframe && !st.Wireframe() {
		st.ToggleWireframe()
	}
	if background != "" {
		if err := st.SetBackgroundColor(background); err != nil {
			log.Fatalf("background: %v", err)
		}
	}

	sink := export.NewDirSink(cfg.Export.Dir)
	for _, class := range []sculpture.Class{sculpture.Light, sculpture.Dark} {
		name, _, err := st.Export(class, sink)
		if errors.Is(err, studio.ErrNotBuilt) {
			log.Printf("no %s solid to export, skipping %s", class, name)
			continue
		}
		if err != nil {
			log.Fatalf("export %s: %v", class, err)
		}
	}

	if cfg.Preview.Enabled {
		if err := writePreview(sink, cfg.Preview.StillName, st, cfg.Preview); err != nil {
			log.Fatalf("preview: %v", err)
		}
	}
	if cfg.Preview.OrbitFrames > 0 {
		if err := writeOrbit(ctx, sink, st, cfg.Preview); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Printf("orbit render interrupted")
				return
			}
			log.Fatalf("orbit: %v", err)
		}
	}

	log.Printf("seed %s generation %d written to %s", st.Seed(), st.Generation(), sink.Dir())
}

func writePreview(sink export.Sink, name string, st *studio.Studio, cfg config.PreviewConfig) error {
	img := preview.Render(st.Frame(), cfg.Width, cfg.Height)
	w, err := sink.Create(name)
	if err != nil {
		return err
	}
	if err := preview.EncodePNG(w, img); err != nil {
		export.Discard(w)
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	log.Printf("preview written to %s", name)
	return nil
}

func writeOrbit(ctx context.Context, sink export.Sink, st *studio.Studio, cfg config.PreviewConfig) error {
	frames, err := st.RenderOrbit(ctx, cfg.OrbitFrames, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	w, err := sink.Create(cfg.OrbitName)
	if err != nil {
		return err
	}
	if err := preview.EncodeGIF(w, frames, cfg.OrbitDelay); err != nil {
		export.Discard(w)
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", cfg.OrbitName, err)
	}
	log.Printf("orbit of %d frames written to %s", len(frames), cfg.OrbitName)
	return nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

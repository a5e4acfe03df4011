package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"squared/internal/config"
	"squared/internal/export"
	"squared/internal/noise"
	"squared/internal/preview"
	"squared/internal/random"
	"squared/internal/timelines"
)

func main() {
	var (
		configPath string
		seedToken  string
		output     string
		at         string
		steps      int
	)
	flag.StringVar(&configPath, "config", "squared.yml", "configuration file, the timelines section is used")
	flag.StringVar(&seedToken, "seed", "", "0x-prefixed 64 digit hex seed, overrides the configuration")
	flag.StringVar(&output, "out", "", "PNG file to write, overrides the configuration")
	flag.StringVar(&at, "time", "", "render a custom time given as HH:MM or HH:MM:SS instead of the live clock")
	flag.IntVar(&steps, "steps", -1, "animation frames to simulate before rendering, overrides the configuration")
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if seedToken != "" {
		cfg.Seed = seedToken
	}
	if output != "" {
		cfg.Timelines.Output = output
	}
	if steps >= 0 {
		cfg.Timelines.Steps = steps
	}
	if at != "" {
		t, err := parseClock(at)
		if err != nil {
			log.Fatalf("time: %v", err)
		}
		cfg.Timelines.Mode = "custom"
		cfg.Timelines.Hour, cfg.Timelines.Minute, cfg.Timelines.Second = t.Hour, t.Minute, t.Second
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	seed := random.ZeroSeed
	if cfg.Seed != "" {
		if seed, err = random.ParseSeed(cfg.Seed); err != nil {
			log.Fatalf("seed: %v", err)
		}
	} else if seed, err = random.NewSeed(nil); err != nil {
		log.Fatalf("seed: %v", err)
	}
	rng := random.New(seed)
	field := noise.New()
	field.Reshuffle(rng)

	mode, err := timelines.ParseMode(cfg.Timelines.Mode)
	if err != nil {
		log.Fatalf("mode: %v", err)
	}
	custom := timelines.Time{Hour: cfg.Timelines.Hour, Minute: cfg.Timelines.Minute, Second: cfg.Timelines.Second}
	start := timelines.TimeOf(time.Now())
	if mode == timelines.Custom {
		start = custom
	}

	clock, err := timelines.New(cfg.Timelines.Width, cfg.Timelines.Height, rng, field, start, nil)
	if err != nil {
		log.Fatalf("initialise clock: %v", err)
	}
	if err := clock.SetTime(custom); err != nil {
		log.Fatalf("custom time: %v", err)
	}
	clock.SetMode(mode, time.Now())

	for i := 0; i < cfg.Timelines.Steps; i++ {
		clock.Step(time.Now())
	}

	sink := export.NewDirSink(filepath.Dir(cfg.Timelines.Output))
	name := filepath.Base(cfg.Timelines.Output)
	w, err := sink.Create(name)
	if err != nil {
		log.Fatalf("create output: %v", err)
	}
	if err := preview.EncodePNG(w, clock.Render()); err != nil {
		export.Discard(w)
		log.Fatalf("render: %v", err)
	}
	if err := w.Close(); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Printf("seed %s: %s clock at %s with %d rows written to %s",
		seed, clock.Mode(), clock.Now(), clock.Rows(), sink.Path(name))
}

// loadConfig reads path, writing the default configuration first when the
// file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err := config.WriteDefault(path); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}
	log.Printf("no configuration found, default configuration written to %s", path)
	return config.Load(path)
}

func parseClock(s string) (timelines.Time, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return timelines.TimeOf(t), nil
		}
	}
	return timelines.Time{}, fmt.Errorf("%q is not HH:MM or HH:MM:SS", s)
}

// Package timelines models the Timelines clock: one row of drifting bars per
// hour, one bar per minute in every row.
package timelines

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"squared/internal/noise"
	"squared/internal/random"
)

// referenceSize is the canvas dimension at which one unit M equals a pixel.
const referenceSize = 1000

// Mode selects where the displayed time comes from.
type Mode uint8

const (
	Live Mode = iota
	Custom
)

func (m Mode) String() string {
	if m == Custom {
		return "custom"
	}
	return "live"
}

// ParseMode accepts "live" or "custom".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "live", "":
		return Live, nil
	case "custom":
		return Custom, nil
	default:
		return Live, fmt.Errorf("unknown clock mode %q", s)
	}
}

// Time is a wall-clock reading.
type Time struct {
	Hour, Minute, Second int
}

// TimeOf extracts the reading from t in its own location.
func TimeOf(t time.Time) Time {
	return Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Validate rejects out-of-range fields.
func (t Time) Validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("hour %d out of range", t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("minute %d out of range", t.Minute)
	}
	if t.Second < 0 || t.Second > 59 {
		return fmt.Errorf("second %d out of range", t.Second)
	}
	return nil
}

// Palette pairs the canvas colour with the bar colour.
type Palette struct {
	Background color.RGBA
	Stroke     color.RGBA
}

var (
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black = color.RGBA{A: 0xff}

	// Afternoon hours draw black bars on white.
	LightPalette = Palette{Background: white, Stroke: black}
	// Morning hours draw white bars on black.
	DarkPalette = Palette{Background: black, Stroke: white}
)

// HourRows returns how many rows hour shows and their palette: afternoon
// hours count from 1 again on the light palette, noon shows 12 light rows
// and midnight 12 dark ones.
func HourRows(hour int) (int, Palette) {
	switch {
	case hour > 12:
		return hour - 12, LightPalette
	case hour == 12:
		return 12, LightPalette
	case hour == 0:
		return 12, DarkPalette
	default:
		return hour, DarkPalette
	}
}

// Clock is the animation state. It is not safe for concurrent use.
type Clock struct {
	width, height int
	m             float64

	rng   *random.Random
	field *noise.Generator

	mode    Mode
	custom  Time
	now     Time
	rows    [][]*Boid
	palette Palette

	lastMinute int
	lastSecond int
	frames     int

	logger *log.Logger
}

// New creates a clock for a width x height canvas showing start.
func New(width, height int, rng *random.Random, field *noise.Generator, start Time, logger *log.Logger) (*Clock, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas %dx%d must be positive", width, height)
	}
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("clock needs a random source")
	}
	if field == nil {
		field = noise.New()
	}
	if logger == nil {
		logger = log.New(log.Writer(), "timelines ", log.LstdFlags|log.Lmicroseconds)
	}
	c := &Clock{
		width:  width,
		height: height,
		m:      float64(min(width, height)) / referenceSize,
		rng:    rng,
		field:  field,
		custom: Time{Hour: 12},
		logger: logger,
	}
	c.reset(start)
	return c, nil
}

// reset rebuilds every row for t, each holding one boid per elapsed minute.
func (c *Clock) reset(t Time) {
	c.now = t
	c.lastMinute = t.Minute
	c.lastSecond = t.Second
	c.setHour()
}

func (c *Clock) setHour() {
	n, palette := HourRows(c.now.Hour)
	c.palette = palette
	c.rows = make([][]*Boid, n)
	for j := range c.rows {
		row := make([]*Boid, 0, c.now.Minute+1)
		for i := 0; i < c.now.Minute; i++ {
			row = append(row, c.newBoid(j))
		}
		c.rows[j] = row
	}
}

func (c *Clock) addMinute() {
	if c.now.Minute == 0 {
		return
	}
	for j := range c.rows {
		c.rows[j] = append(c.rows[j], c.newBoid(j))
	}
}

// SetMode switches between live and custom time. Going live starts over
// from now.
func (c *Clock) SetMode(mode Mode, now time.Time) {
	c.mode = mode
	if mode == Live {
		c.reset(TimeOf(now))
		return
	}
	c.reset(c.custom)
}

func (c *Clock) Mode() Mode { return c.mode }

// SetTime stores a custom time and, in custom mode, rebuilds the rows for it.
func (c *Clock) SetTime(t Time) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("set time: %w", err)
	}
	c.custom = t
	if c.mode == Custom {
		c.reset(t)
	}
	return nil
}

// Step advances one animation frame. In live mode now becomes the displayed
// time: a new hour rebuilds the rows and a new minute adds a boid to each
// row. Custom mode ignores now and holds the custom time.
func (c *Clock) Step(now time.Time) {
	for _, row := range c.rows {
		for _, b := range row {
			b.edges(c.width, c.height, c.m)
			b.update()
		}
	}
	c.frames++

	if c.mode == Custom {
		c.now = c.custom
		return
	}

	t := TimeOf(now)
	if t.Hour != c.now.Hour && t.Minute != 0 {
		// Jumped across an hour without seeing minute zero.
		c.reset(t)
		return
	}
	c.now = t

	if t.Minute == 0 && t.Minute != c.lastMinute {
		c.logger.Printf("new hour %02d:00, %d rows", t.Hour, len(c.rows))
		c.setHour()
		c.lastMinute = 0
	} else if t.Minute != c.lastMinute {
		c.lastMinute = t.Minute
	}

	if t.Second == 0 && t.Second != c.lastSecond {
		c.addMinute()
		c.lastSecond = 0
	} else if t.Second != c.lastSecond {
		c.lastSecond = t.Second
	}
}

// Now is the displayed time.
func (c *Clock) Now() Time { return c.now }

// Rows is the number of hour rows on screen.
func (c *Clock) Rows() int { return len(c.rows) }

// Boids returns a copy of row j's boids.
func (c *Clock) Boids(j int) []Boid {
	if j < 0 || j >= len(c.rows) {
		return nil
	}
	out := make([]Boid, len(c.rows[j]))
	for i, b := range c.rows[j] {
		out[i] = *b
	}
	return out
}

func (c *Clock) Palette() Palette { return c.palette }

// Frames counts Step calls.
func (c *Clock) Frames() int { return c.frames }

// Flash reports whether the top-of-hour bars are lit: the first minute of
// the hour, on even seconds.
func (c *Clock) Flash() bool {
	return c.now.Minute == 0 && c.now.Second%2 == 0
}

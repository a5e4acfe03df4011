package config

import (
	"fmt"
	"image/color"
	"strconv"
)

// ParseHexColor converts #rrggbb into an opaque colour.
func ParseHexColor(s string) (color.RGBA, error) {
	if !IsValidHexColor(s) {
		return color.RGBA{}, fmt.Errorf("colour %q must be a hex RGB value", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustHexColor is ParseHexColor for values already validated.
func MustHexColor(s string) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

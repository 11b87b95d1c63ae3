package theme

import (
	"fmt"
	"image/color"
	"strings"
)

// Stroke colours that stand for "the theme's default stroke". Shapes drawn
// with either follow the active theme when rendered.
const (
	DefaultStrokeLight = "#000000"
	DefaultStrokeDark  = "#ffffff"
)

// Theme defines the colours of the canvas and its chrome.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Canvas background
	Foreground color.RGBA // Status text

	// Canvas
	DefaultStroke color.RGBA // Replaces the default stroke sentinels
	EraserCursor  color.RGBA
	Selection     color.RGBA // Dashed selection outline
	StatusBar     color.RGBA

	// Palette offered by the colour keys, in order.
	Palette []color.RGBA
}

var basePalette = []color.RGBA{
	{0xfd, 0x58, 0x65, 0xff}, // red
	{0xff, 0x8e, 0x52, 0xff}, // orange
	{0xfe, 0xb8, 0x49, 0xff}, // yellow
	{0x1f, 0xc3, 0x70, 0xff}, // green
	{0x2e, 0x9c, 0xeb, 0xff}, // blue
	{0x95, 0x95, 0x95, 0xff}, // gray
}

// Default returns the hardcoded light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:          "light",
		Background:    color.RGBA{0xf8, 0xf8, 0xf8, 0xff},
		Foreground:    color.RGBA{0, 0, 0, 0xff},
		DefaultStroke: color.RGBA{0, 0, 0, 0xff},
		EraserCursor:  color.RGBA{0x88, 0x88, 0x88, 0xff},
		Selection:     color.RGBA{0x2e, 0x9c, 0xeb, 0xff},
		StatusBar:     color.RGBA{0xdc, 0xdc, 0xdc, 0xff},
		Palette:       append(append([]color.RGBA(nil), basePalette...), color.RGBA{0, 0, 0, 0xff}),
	}
}

// Dark returns the hardcoded dark theme.
func Dark() *Theme {
	return &Theme{
		Name:          "dark",
		Background:    color.RGBA{0x25, 0x25, 0x25, 0xff},
		Foreground:    color.RGBA{0xff, 0xff, 0xff, 0xff},
		DefaultStroke: color.RGBA{0xff, 0xff, 0xff, 0xff},
		EraserCursor:  color.RGBA{0x88, 0x88, 0x88, 0xff},
		Selection:     color.RGBA{0x2e, 0x9c, 0xeb, 0xff},
		StatusBar:     color.RGBA{0x3a, 0x3a, 0x3a, 0xff},
		Palette:       append(append([]color.RGBA(nil), basePalette...), color.RGBA{0xff, 0xff, 0xff, 0xff}),
	}
}

// IsDefaultStroke reports whether hex is one of the default stroke
// sentinels.
func IsDefaultStroke(hex string) bool {
	h := strings.ToLower(hex)
	return h == DefaultStrokeLight || h == DefaultStrokeDark
}

// Stroke resolves the stroke colour of a shape for this theme. Unparsable
// colours fall back to the default stroke.
func (t *Theme) Stroke(hex string) color.RGBA {
	if hex == "" || IsDefaultStroke(hex) {
		return t.DefaultStroke
	}
	c, err := ParseColor(hex)
	if err != nil {
		return t.DefaultStroke
	}
	return c
}

// DefaultStrokeHex is the sentinel new strokes should carry in this theme.
func (t *Theme) DefaultStrokeHex() string {
	return ToHex(t.DefaultStroke)
}

// PaletteHex returns the palette as hex strings.
func (t *Theme) PaletteHex() []string {
	out := make([]string, len(t.Palette))
	for i, c := range t.Palette {
		out[i] = ToHex(c)
	}
	return out
}

// ToHex formats c as #rrggbb, or #rrggbbaa when it is not opaque.
func ToHex(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Package assets holds the program icon. The icon is itself a drawing, so it
// goes through the same renderer as exported papers.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"github.com/example/papers/internal/export"
	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/render"
	"github.com/example/papers/internal/shape"
	"github.com/example/papers/internal/theme"
)

// logoSize is the side of the square the logo strokes are drawn in.
const logoSize = 64

// Logo returns the strokes of the icon: a sheet with a scribble on it.
func Logo() []shape.Shape {
	sheet, _ := shape.Convert(shape.Shape{Type: shape.Rectangle, Color: "#959595", Linewidth: 4, X1: 12, Y1: 6, X2: 52, Y2: 58}, 1)
	return []shape.Shape{
		sheet,
		{Type: shape.Freehand, Color: "#2e9ceb", Linewidth: 5, Points: []geom.Point{
			{X: 20, Y: 40}, {X: 26, Y: 30}, {X: 31, Y: 38}, {X: 37, Y: 24}, {X: 44, Y: 34},
		}},
		{Type: shape.Freehand, Color: "#fd5865", Linewidth: 4, Points: []geom.Point{{X: 20, Y: 48}, {X: 44, Y: 48}}},
	}
}

var (
	iconMu    sync.Mutex
	iconCache = map[int]*image.RGBA{}
)

// IconImage renders the icon at size pixels square on the light background.
func IconImage(size int) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid icon size %d", size)
	}
	iconMu.Lock()
	defer iconMu.Unlock()
	if img, ok := iconCache[size]; ok {
		return img, nil
	}
	th := theme.Default()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	render.Fill(img, th.Background)
	var ds []render.Drawable
	for _, s := range Logo() {
		if d, ok := render.ShapeDrawable(s, th); ok {
			ds = append(ds, d)
		}
	}
	render.Rasterize(img, ds, render.Transform{Scale: float64(size) / logoSize})
	iconCache[size] = img
	return img, nil
}

// IconSVG returns the icon as SVG markup.
func IconSVG() ([]byte, error) {
	var buf bytes.Buffer
	if err := export.Export(&buf, Logo(), export.Options{Type: export.SVG}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

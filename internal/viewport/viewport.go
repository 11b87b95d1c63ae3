// Package viewport keeps the pan and zoom of a canvas and maps between
// screen and canvas coordinates.
package viewport

import (
	"math"

	"github.com/example/papers/internal/geom"
)

const (
	MinScale = 0.05
	MaxScale = 10
	// ScaleFactor converts wheel delta units into a scale change.
	ScaleFactor = 0.002
	// ScaleBy is the scale step of the zoom keys.
	ScaleBy = 0.1
	// PinchFactor converts a change of finger distance in pixels into a
	// scale change.
	PinchFactor = 0.01
	// FitMargin is kept free on every side by ZoomToFit.
	FitMargin = 100
)

// Viewport maps canvas space to a Width x Height screen.
//
//	canvas = screen/Scale - Translate/Scale
type Viewport struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
	Width      float64
	Height     float64
}

// New returns an identity viewport for a screen of the given size.
func New(width, height float64) Viewport {
	return Viewport{Scale: 1, Width: width, Height: height}
}

// ToTrueX converts a screen x coordinate to canvas space.
func (v *Viewport) ToTrueX(x float64) float64 { return x/v.Scale - v.TranslateX/v.Scale }

// ToTrueY converts a screen y coordinate to canvas space.
func (v *Viewport) ToTrueY(y float64) float64 { return y/v.Scale - v.TranslateY/v.Scale }

// ToScreenX converts a canvas x coordinate to screen space.
func (v *Viewport) ToScreenX(x float64) float64 { return x*v.Scale + v.TranslateX }

// ToScreenY converts a canvas y coordinate to screen space.
func (v *Viewport) ToScreenY(y float64) float64 { return y*v.Scale + v.TranslateY }

// ToTrue converts a screen point to canvas space.
func (v *Viewport) ToTrue(p geom.Point) geom.Point { return geom.Pt(v.ToTrueX(p.X), v.ToTrueY(p.Y)) }

// ToScreen converts a canvas point to screen space.
func (v *Viewport) ToScreen(p geom.Point) geom.Point {
	return geom.Pt(v.ToScreenX(p.X), v.ToScreenY(p.Y))
}

// Pan moves the canvas by a screen space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.TranslateX += dx
	v.TranslateY += dy
}

// Resize records a new screen size.
func (v *Viewport) Resize(width, height float64) {
	v.Width, v.Height = width, height
}

func clampScale(s float64) float64 {
	if math.IsNaN(s) {
		return MinScale
	}
	return math.Min(MaxScale, math.Max(MinScale, s))
}

// ZoomBy adds amount to the scale, clamped to [MinScale, MaxScale], keeping
// the canvas point under the screen position (ox, oy) in place.
func (v *Viewport) ZoomBy(amount, ox, oy float64) {
	cx, cy := v.ToTrueX(ox), v.ToTrueY(oy)
	v.Scale = clampScale(v.Scale + amount)
	v.TranslateX = ox - cx*v.Scale
	v.TranslateY = oy - cy*v.Scale
}

// ZoomByCenter zooms around the middle of the screen.
func (v *Viewport) ZoomByCenter(amount float64) {
	v.ZoomBy(amount, v.Width/2, v.Height/2)
}

// Wheel applies a scroll wheel delta at the pointer position.
func (v *Viewport) Wheel(deltaY, x, y float64) {
	v.ZoomBy(deltaY*ScaleFactor, x, y)
}

// Pinch zooms by the change in distance between two touches, around the
// midpoint of the current touches.
func (v *Viewport) Pinch(prev, cur [2]geom.Point) {
	delta := geom.Distance(cur[0], cur[1]) - geom.Distance(prev[0], prev[1])
	mid := cur[0].Add(cur[1]).Mul(0.5)
	v.ZoomBy(delta*PinchFactor, mid.X, mid.Y)
}

// ZoomToFit centres bbox on the screen. With preferredScale > 0 that scale
// is used, otherwise the largest scale that fits bbox inside the screen
// minus FitMargin on every side. An empty bbox leaves the viewport alone.
func (v *Viewport) ZoomToFit(bbox geom.Rect, preferredScale float64) {
	if bbox.Empty() {
		return
	}
	maxW, maxH := v.Width-2*FitMargin, v.Height-2*FitMargin
	margin := float64(FitMargin)
	if maxW <= 0 || maxH <= 0 {
		maxW, maxH, margin = v.Width, v.Height, 0
	}

	scale := preferredScale
	if scale <= 0 {
		switch w, h := bbox.Width(), bbox.Height(); {
		case w == 0 && h == 0:
			scale = v.Scale
		case w == 0:
			scale = maxH / h
		case h == 0:
			scale = maxW / w
		default:
			scale = math.Min(maxW/w, maxH/h)
		}
	}
	scale = clampScale(scale)

	xOffset := (maxW - bbox.Width()*scale) / 2
	yOffset := (maxH - bbox.Height()*scale) / 2
	v.Scale = scale
	v.TranslateX = margin + xOffset - bbox.Min.X*scale
	v.TranslateY = margin + yOffset - bbox.Min.Y*scale
}

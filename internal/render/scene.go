// Package render projects a paper's shapes into stroked paths and paints
// them into RGBA images.
package render

import (
	"image/color"
	"log"
	"math"

	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/shape"
	"github.com/example/papers/internal/theme"
)

const (
	// CommittedTolerance simplifies stored freehand strokes.
	CommittedTolerance = 0.2
	// CurrentTolerance simplifies the stroke being drawn. It is coarser so
	// long strokes stay responsive.
	CurrentTolerance = 0.7
	// SelectionLinewidth is the on-screen width of the selection outline.
	SelectionLinewidth = 1.5
	// SelectionDash is the on-screen dash length of the selection outline.
	SelectionDash = 6
)

// Drawable is one stroked path in canvas coordinates.
type Drawable struct {
	Path  geom.Path
	Color color.RGBA
	Width float64
	// Dash alternates on and off lengths in canvas units. Nil draws a
	// solid line.
	Dash []float64
	// Fill paints the inside of the closed path instead of stroking it.
	Fill bool
}

// Input is everything that decides what the canvas looks like.
type Input struct {
	Shapes  []shape.Shape
	Current *shape.Shape
	Marquee *shape.Shape
	Theme   *theme.Theme
	Scale   float64

	// Eraser, when set, is the canvas position of the eraser cursor.
	Eraser     *geom.Point
	EraserSize float64
}

// Scene returns the drawables for in, in paint order.
func Scene(in Input) []Drawable {
	th := in.Theme
	if th == nil {
		th = theme.Default()
	}
	scale := in.Scale
	if scale <= 0 {
		scale = 1
	}

	out := make([]Drawable, 0, len(in.Shapes)+3)
	for _, s := range in.Shapes {
		if d, ok := shapeDrawable(s, th, CommittedTolerance); ok {
			out = append(out, d)
		}
	}
	if in.Current != nil {
		cur := *in.Current
		if cur.Type.CornerBased() {
			converted, err := shape.Convert(cur, scale)
			if err != nil {
				log.Printf("render: %v", err)
			}
			cur = converted
		}
		if d, ok := shapeDrawable(cur, th, CurrentTolerance); ok {
			out = append(out, d)
		}
	}
	if in.Marquee != nil && len(in.Marquee.Points) > 1 {
		pts := append(append([]geom.Point(nil), in.Marquee.Points...), in.Marquee.Points[0])
		out = append(out, Drawable{
			Path:  geom.SmoothPath(pts, false, 0),
			Color: th.Selection,
			Width: SelectionLinewidth / scale,
			Dash:  []float64{SelectionDash / scale, SelectionDash / scale},
		})
	}
	if in.Eraser != nil && in.EraserSize > 0 {
		out = append(out, Drawable{
			Path:  CirclePath(*in.Eraser, in.EraserSize),
			Color: th.EraserCursor,
			Fill:  true,
		})
	}
	return out
}

// ShapeDrawable returns the drawable of a single committed shape.
func ShapeDrawable(s shape.Shape, th *theme.Theme) (Drawable, bool) {
	return shapeDrawable(s, th, CommittedTolerance)
}

func shapeDrawable(s shape.Shape, th *theme.Theme, tolerance float64) (Drawable, bool) {
	if !s.Type.Known() {
		log.Printf("render: unknown shape type %q", s.Type)
		return Drawable{}, false
	}
	if s.Type == shape.Select || len(s.Points) == 0 {
		return Drawable{}, false
	}
	c := th.Stroke(s.Color)
	if s.Type == shape.Erase {
		c = th.Background
	}
	w := s.Linewidth
	if w <= 0 {
		w = 1
	}
	return Drawable{Path: shape.SmoothPath(s, tolerance), Color: c, Width: w}, true
}

// CirclePath approximates a circle with a closed polygon.
func CirclePath(c geom.Point, r float64) geom.Path {
	const n = 48
	pts := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / n
		pts = append(pts, geom.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a)))
	}
	return geom.SmoothPath(pts, false, 0)
}

// Bounds is the box covered by drawables including half their stroke.
func Bounds(ds []Drawable) geom.Rect {
	r := geom.EmptyRect()
	for _, d := range ds {
		r = r.Union(d.Path.Bounds().Expand(d.Width / 2))
	}
	return r
}

// Package shape models the objects drawn on a paper and converts the
// corner based form used while dragging into the point list form that is
// stored.
package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/example/papers/internal/geom"
)

// Type discriminates the shape variants.
type Type string

const (
	Freehand  Type = "freehand"
	Ellipse   Type = "ellipse"
	Rectangle Type = "rectangle"
	Arrow     Type = "arrow"
	Select    Type = "select"
	// Erase strokes are painted in the background colour. Older papers
	// contain them; the eraser no longer produces them.
	Erase Type = "erase"
)

// ErrUnknownType is returned when a shape carries a type this package does
// not know how to convert.
var ErrUnknownType = errors.New("unknown shape type")

const (
	// ArrowHeadLength is added to the linewidth to size arrow wings.
	ArrowHeadLength = 30
	// SelectionMargin pads the box drawn around selected shapes.
	SelectionMargin = 20
)

// Shape is one drawn object. Committed shapes carry Points. Shapes being
// dragged out carry the two corners instead.
type Shape struct {
	Type      Type         `json:"type"`
	Color     string       `json:"color,omitempty"`
	Linewidth float64      `json:"linewidth,omitempty"`
	Points    []geom.Point `json:"points,omitempty"`

	X1                  float64 `json:"x1,omitempty"`
	Y1                  float64 `json:"y1,omitempty"`
	X2                  float64 `json:"x2,omitempty"`
	Y2                  float64 `json:"y2,omitempty"`
	PreserveAspectRatio bool    `json:"preserveAspectRatio,omitempty"`
}

// Known reports whether t is one of the defined variants.
func (t Type) Known() bool {
	switch t {
	case Freehand, Ellipse, Rectangle, Arrow, Select, Erase:
		return true
	}
	return false
}

// CornerBased reports whether shapes of this type are dragged out by two
// corners rather than sampled point by point.
func (t Type) CornerBased() bool {
	return t == Ellipse || t == Rectangle || t == Arrow
}

// Committable reports whether s may enter the shape list.
func (s Shape) Committable() bool { return len(s.Points) > 0 }

// Convert produces the committed form of s. scale is the viewport scale at
// the time of the drag and only affects arrow heads and sampling density.
// The result may have no points, in which case it must be discarded.
func Convert(s Shape, scale float64) (Shape, error) {
	if scale <= 0 {
		scale = 1
	}
	out := Shape{Type: s.Type, Color: s.Color, Linewidth: s.Linewidth}
	switch s.Type {
	case Freehand, Select, Erase:
		out.Points = clonePoints(s.Points)
	case Ellipse:
		out.Points = ellipsePoints(s)
	case Rectangle:
		out.Points = geom.CreateRectangularShapePoints(s.X1, s.Y1, s.X2, s.Y2, s.PreserveAspectRatio)
	case Arrow:
		out.Points = arrowPoints(s, scale)
	default:
		return Shape{}, fmt.Errorf("convert %q: %w", s.Type, ErrUnknownType)
	}
	return out, nil
}

func ellipsePoints(s Shape) []geom.Point {
	cx, cy := (s.X1+s.X2)/2, (s.Y1+s.Y2)/2
	rx, ry := math.Abs(s.X2-s.X1)/2, math.Abs(s.Y2-s.Y1)/2
	if s.PreserveAspectRatio {
		r := math.Max(rx, ry)
		rx, ry = r, r
	}
	if rx == 0 && ry == 0 {
		return nil
	}
	if !geom.Pt(cx, cy).Finite() || math.IsInf(rx, 0) || math.IsInf(ry, 0) {
		return nil
	}
	pts := make([]geom.Point, 0, 361)
	for deg := 0; deg <= 360; deg++ {
		rad := float64(deg) * math.Pi / 180
		pts = append(pts, geom.Pt(cx+rx*math.Cos(rad), cy+ry*math.Sin(rad)))
	}
	return pts
}

func arrowPoints(s Shape, scale float64) []geom.Point {
	start, end := geom.Pt(s.X1, s.Y1), geom.Pt(s.X2, s.Y2)
	shaft := geom.CreateLine(start, end, scale)
	if shaft == nil {
		return nil
	}
	angle := -math.Atan2(s.Y2-s.Y1, s.X2-s.X1)*180/math.Pi + 45
	length := (ArrowHeadLength + s.Linewidth) / scale

	left := geom.RotateAroundPoint(end, geom.Pt(end.X, end.Y-length), angle)
	right := geom.RotateAroundPoint(end, geom.Pt(end.X-length, end.Y), angle)

	pts := shaft
	// Each wing starts on the shaft end, so the polyline walks back to the
	// tip before drawing the next wing.
	pts = append(pts, geom.CreateLine(end, left, scale)...)
	pts = append(pts, geom.CreateLine(end, right, scale)...)
	return pts
}

func clonePoints(p []geom.Point) []geom.Point {
	if p == nil {
		return nil
	}
	out := make([]geom.Point, len(p))
	copy(out, p)
	return out
}

// Clone returns a deep copy of s.
func (s Shape) Clone() Shape {
	s.Points = clonePoints(s.Points)
	return s
}

// Equal compares two shapes field by field, including every point.
func (s Shape) Equal(o Shape) bool {
	if s.Type != o.Type || s.Color != o.Color || s.Linewidth != o.Linewidth ||
		s.X1 != o.X1 || s.Y1 != o.Y1 || s.X2 != o.X2 || s.Y2 != o.Y2 ||
		s.PreserveAspectRatio != o.PreserveAspectRatio || len(s.Points) != len(o.Points) {
		return false
	}
	for i := range s.Points {
		if s.Points[i] != o.Points[i] {
			return false
		}
	}
	return true
}

// Shift returns a copy of s translated by (dx, dy).
func (s Shape) Shift(dx, dy float64) Shape {
	s.Points = geom.ShiftPoints(s.Points, dx, dy)
	if s.Type.CornerBased() && s.Points == nil {
		s.X1, s.X2 = s.X1+dx, s.X2+dx
		s.Y1, s.Y2 = s.Y1+dy, s.Y2+dy
	}
	return s
}

// SmoothPath returns the drawable path of a committed shape. Freehand
// strokes are simplified with tolerance and smoothed; everything else is a
// polyline through its points.
func SmoothPath(s Shape, tolerance float64) geom.Path {
	smooth := s.Type == Freehand || s.Type == Erase
	return geom.SmoothPath(s.Points, smooth, tolerance)
}

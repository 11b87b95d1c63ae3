// Package geom holds the pure geometry used by the canvas: point
// transforms, line sampling, polyline simplification, polygon hit tests and
// path smoothing.
package geom

import "math"

// Point is a coordinate in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// RotateAroundPoint rotates p around pivot by angle degrees. Positive angles
// rotate clockwise on a y-down screen.
func RotateAroundPoint(pivot, p Point, angle float64) Point {
	rad := math.Pi / 180 * angle
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Point{
		X: cos*(p.X-pivot.X) + sin*(p.Y-pivot.Y) + pivot.X,
		Y: cos*(p.Y-pivot.Y) - sin*(p.X-pivot.X) + pivot.Y,
	}
}

// ShiftPoints returns a translated copy of points.
func ShiftPoints(points []Point, dx, dy float64) []Point {
	if points == nil {
		return nil
	}
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{p.X + dx, p.Y + dy}
	}
	return out
}

// Rect is an axis aligned box given by its minimum and maximum corners.
type Rect struct {
	Min, Max Point
}

// Width of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether r was produced from no points at all.
func (r Rect) Empty() bool { return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y }

// Expand grows r by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{Min: Point{r.Min.X - m, r.Min.Y - m}, Max: Point{r.Max.X + m, r.Max.Y + m}}
}

// Union returns the smallest box containing r and o. Empty boxes are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Min: Point{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// EmptyRect is the identity for Union.
func EmptyRect() Rect {
	return Rect{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
}

// BBox returns the bounding box of points, or EmptyRect when there are none.
func BBox(points []Point) Rect {
	r := EmptyRect()
	for _, p := range points {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

package geom

import (
	"fmt"
	"math"
	"strings"
)

// Op is a path drawing command.
type Op int

const (
	MoveTo Op = iota
	LineTo
	CubeTo
)

// Segment is one drawing command. MoveTo and LineTo carry one point, CubeTo
// carries two control points followed by the end point.
type Segment struct {
	Op  Op
	Pts []Point
}

// Path is an ordered list of drawing commands, independent of any markup.
type Path []Segment

// Bounds is the box around every point of the path including control points.
func (p Path) Bounds() Rect {
	r := EmptyRect()
	for _, s := range p {
		r = r.Union(BBox(s.Pts))
	}
	return r
}

// Transform maps every point of p through f.
func (p Path) Transform(f func(Point) Point) Path {
	out := make(Path, len(p))
	for i, s := range p {
		pts := make([]Point, len(s.Pts))
		for j, q := range s.Pts {
			pts[j] = f(q)
		}
		out[i] = Segment{Op: s.Op, Pts: pts}
	}
	return out
}

// SVG renders p as an SVG path data string.
func (p Path) SVG() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch s.Op {
		case MoveTo:
			fmt.Fprintf(&b, "M %s %s", num(s.Pts[0].X), num(s.Pts[0].Y))
		case LineTo:
			fmt.Fprintf(&b, "L %s %s", num(s.Pts[0].X), num(s.Pts[0].Y))
		case CubeTo:
			fmt.Fprintf(&b, "C %s %s, %s %s, %s %s",
				num(s.Pts[0].X), num(s.Pts[0].Y),
				num(s.Pts[1].X), num(s.Pts[1].Y),
				num(s.Pts[2].X), num(s.Pts[2].Y))
		}
	}
	return b.String()
}

func num(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", f), "0"), ".")
}

// SmoothPath turns points into a path. With smooth set and more than one
// point the polyline is simplified with tolerance and fitted with a
// centripetal Catmull-Rom spline. Otherwise it is a plain polyline. A single
// point produces a zero-length line so round caps still draw a dot.
func SmoothPath(points []Point, smooth bool, tolerance float64) Path {
	switch len(points) {
	case 0:
		return nil
	case 1:
		return Path{{MoveTo, []Point{points[0]}}, {LineTo, []Point{points[0]}}}
	}
	if !smooth {
		return polyline(points)
	}
	if tolerance > 0 {
		points = SimplifyPoints(points, tolerance)
	}
	if len(points) < 3 {
		return polyline(points)
	}
	return CatmullRom(points, 0.5)
}

func polyline(points []Point) Path {
	out := make(Path, 0, len(points))
	out = append(out, Segment{MoveTo, []Point{points[0]}})
	for _, p := range points[1:] {
		out = append(out, Segment{LineTo, []Point{p}})
	}
	return out
}

// CatmullRom fits a Catmull-Rom spline with the given alpha through points
// and returns it as cubic Bézier segments. Alpha 0.5 is the centripetal
// variant which avoids cusps and self-intersections on sharp turns.
func CatmullRom(points []Point, alpha float64) Path {
	if len(points) < 2 {
		return SmoothPath(points, false, 0)
	}
	out := make(Path, 0, len(points))
	out = append(out, Segment{MoveTo, []Point{points[0]}})
	n := len(points)
	for i := 0; i < n-1; i++ {
		p0 := points[max(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(i+2, n-1)]

		d1 := math.Pow(Distance(p0, p1), alpha)
		d2 := math.Pow(Distance(p1, p2), alpha)
		d3 := math.Pow(Distance(p2, p3), alpha)
		d1sq, d2sq, d3sq := d1*d1, d2*d2, d3*d3

		c1, c2 := p1, p2
		if d1 > 1e-12 && d2 > 1e-12 {
			a := 2*d1sq + 3*d1*d2 + d2sq
			k := 3 * d1 * (d1 + d2)
			c1 = Point{
				X: (d1sq*p2.X - d2sq*p0.X + a*p1.X) / k,
				Y: (d1sq*p2.Y - d2sq*p0.Y + a*p1.Y) / k,
			}
		}
		if d3 > 1e-12 && d2 > 1e-12 {
			b := 2*d3sq + 3*d3*d2 + d2sq
			m := 3 * d3 * (d3 + d2)
			c2 = Point{
				X: (d3sq*p1.X - d2sq*p3.X + b*p2.X) / m,
				Y: (d3sq*p1.Y - d2sq*p3.Y + b*p2.Y) / m,
			}
		}
		out = append(out, Segment{CubeTo, []Point{c1, c2, p2}})
	}
	return out
}

package geom

import "math"

// CreateLine samples the segment p1→p2 into round(max(|dx|,|dy|)*scale)
// evenly spaced points, both endpoints included. It returns nil for a
// degenerate segment.
func CreateLine(p1, p2 Point, scale float64) []Point {
	if !p1.Finite() || !p2.Finite() || p1 == p2 {
		return nil
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	n := int(math.Round(math.Max(math.Abs(dx), math.Abs(dy)) * scale))
	if n < 2 {
		n = 2
	}
	out := make([]Point, n)
	last := float64(n - 1)
	for i := 0; i < n; i++ {
		t := float64(i) / last
		out[i] = Point{p1.X + dx*t, p1.Y + dy*t}
	}
	out[n-1] = p2
	return out
}

// CreateRectangularShapePoints returns the perimeter of the rectangle with
// opposite corners (x1,y1) and (x2,y2), walking the top, right, bottom and
// left bars. Corners appear once. With preserveAspectRatio the rectangle
// becomes a square of side max(w,h) anchored at (x1,y1) and growing toward
// (x2,y2).
func CreateRectangularShapePoints(x1, y1, x2, y2 float64, preserveAspectRatio bool) []Point {
	if !Pt(x1, y1).Finite() || !Pt(x2, y2).Finite() || (x1 == x2 && y1 == y2) {
		return nil
	}
	if preserveAspectRatio {
		side := math.Max(math.Abs(x2-x1), math.Abs(y2-y1))
		x2 = x1 + math.Copysign(side, x2-x1)
		y2 = y1 + math.Copysign(side, y2-y1)
	}
	corners := [4]Point{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}}

	var out []Point
	push := func(p Point) {
		if len(out) > 0 && out[len(out)-1] == p {
			return
		}
		out = append(out, p)
	}
	for i := range corners {
		bar := CreateLine(corners[i], corners[(i+1)%4], 1)
		if bar == nil {
			// Zero length bar of a flat rectangle; keep the corner.
			push(corners[i])
			continue
		}
		for _, p := range bar {
			push(p)
		}
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

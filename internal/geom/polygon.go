package geom

// IsPointInsideShape reports whether p lies inside the closed polygon formed
// by points, using ray casting with the odd-even rule.
func IsPointInsideShape(points []Point, p Point) bool {
	inside := false
	for i, j := 0, len(points)-1; i < len(points); j, i = i, i+1 {
		a, b := points[i], points[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// ContainedRatio is the share of points that fall inside polygon.
func ContainedRatio(polygon, points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	n := 0
	for _, p := range points {
		if IsPointInsideShape(polygon, p) {
			n++
		}
	}
	return float64(n) / float64(len(points))
}

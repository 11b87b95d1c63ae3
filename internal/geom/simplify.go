package geom

import "math"

// PerpendicularDistance is the distance from p to the infinite line through
// a and b. When a and b coincide it falls back to the distance from p to a.
func PerpendicularDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return Distance(p, a)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
}

// SimplifyPoints reduces a polyline with the Douglas-Peucker algorithm.
// Inputs of two points or fewer are returned unchanged. The walk uses an
// explicit stack so strokes with many thousands of samples are safe.
func SimplifyPoints(points []Point, tolerance float64) []Point {
	if len(points) <= 2 {
		return points
	}
	keep := make([]bool, len(points))
	keep[0], keep[len(points)-1] = true, true

	type span struct{ first, last int }
	stack := []span{{0, len(points) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.last-s.first < 2 {
			continue
		}
		maxDist, index := 0.0, 0
		for i := s.first + 1; i < s.last; i++ {
			d := PerpendicularDistance(points[i], points[s.first], points[s.last])
			if d > maxDist {
				maxDist, index = d, i
			}
		}
		if maxDist > tolerance {
			keep[index] = true
			stack = append(stack, span{index, s.last}, span{s.first, index})
		}
	}

	out := make([]Point, 0, len(points))
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}

package shape

import "github.com/example/papers/internal/geom"

// The list helpers never modify their input; they return a fresh slice so a
// list handed to a collaborator stays valid.

// CloneList deep copies list.
func CloneList(list []Shape) []Shape {
	out := make([]Shape, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}

// EqualList reports whether a and b hold equal shapes in the same order.
func EqualList(a, b []Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Append returns list followed by shapes.
func Append(list []Shape, shapes ...Shape) []Shape {
	out := make([]Shape, 0, len(list)+len(shapes))
	out = append(out, list...)
	return append(out, shapes...)
}

// InsertAt returns list with s inserted at index i. Indexes past the end
// append.
func InsertAt(list []Shape, i int, s Shape) []Shape {
	if i < 0 {
		i = 0
	}
	if i > len(list) {
		i = len(list)
	}
	out := make([]Shape, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, s)
	return append(out, list[i:]...)
}

// RemoveAt returns list without the element at i. Out of range indexes
// return list unchanged.
func RemoveAt(list []Shape, i int) []Shape {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]Shape, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

// ShiftIndexes returns list with the shapes at indexes translated.
func ShiftIndexes(list []Shape, indexes []int, dx, dy float64) []Shape {
	out := make([]Shape, len(list))
	copy(out, list)
	for _, i := range indexes {
		if i >= 0 && i < len(out) {
			out[i] = out[i].Shift(dx, dy)
		}
	}
	return out
}

// ShapesBBox is the bounding box of every point of every shape.
func ShapesBBox(shapes []Shape) geom.Rect {
	r := geom.EmptyRect()
	for _, s := range shapes {
		r = r.Union(geom.BBox(s.Points))
	}
	return r
}

// SelectionArea returns the rectangle drawn around shapes, padded by
// SelectionMargin. It is nil when the shapes have no points.
func SelectionArea(shapes []Shape) []geom.Point {
	r := ShapesBBox(shapes)
	if r.Empty() {
		return nil
	}
	r = r.Expand(SelectionMargin)
	return geom.CreateRectangularShapePoints(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, false)
}

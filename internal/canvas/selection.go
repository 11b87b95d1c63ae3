package canvas

import (
	"sort"

	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/history"
	"github.com/example/papers/internal/shape"
)

// closeMarquee joins the lasso back to its start and selects every shape
// that lies mostly inside it.
func (e *Engine) closeMarquee() {
	m := e.marquee
	if m == nil {
		return
	}
	if n := len(m.Points); n > 1 {
		if closing := geom.CreateLine(m.Points[n-1], m.Points[0], 1); len(closing) > 1 {
			m.Points = append(m.Points, closing[1:]...)
		}
	}
	e.selected = nil
	if len(m.Points) >= 3 {
		for i, s := range e.shapes {
			if len(s.Points) == 0 {
				continue
			}
			if geom.ContainedRatio(m.Points, s.Points) >= SelectionPointsRatio {
				e.selected = append(e.selected, i)
			}
		}
	}
	if len(e.selected) == 0 {
		e.marquee = nil
	}
}

// Deselect drops the selection and its outline.
func (e *Engine) Deselect() {
	if e.activity == Selecting || e.activity == MovingSelection {
		e.finish()
	}
	e.selected = nil
	e.marquee = nil
}

// Select selects the given shapes and draws a box around them. Out of range
// and repeated indexes are dropped; the selection is kept in ascending order.
func (e *Engine) Select(indexes []int) {
	e.selected = nil
	seen := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		if i >= 0 && i < len(e.shapes) && !seen[i] {
			seen[i] = true
			e.selected = append(e.selected, i)
		}
	}
	sort.Ints(e.selected)
	picked := make([]shape.Shape, 0, len(e.selected))
	for _, i := range e.selected {
		picked = append(picked, e.shapes[i])
	}
	e.marquee = nil
	if area := shape.SelectionArea(picked); area != nil {
		e.marquee = &shape.Shape{Type: shape.Select, Points: area}
	} else {
		e.selected = nil
	}
}

// SelectAll selects every shape and switches to the select tool.
func (e *Engine) SelectAll() {
	if len(e.shapes) == 0 {
		return
	}
	e.SetMode(ModeSelect)
	all := make([]int, len(e.shapes))
	for i := range all {
		all[i] = i
	}
	e.Select(all)
}

// SetColor changes the colour of new shapes. Selected shapes are recoloured
// too, as one undoable step.
func (e *Engine) SetColor(c string) {
	e.color = c
	if len(e.selected) == 0 || e.activity != Idle {
		return
	}
	entry := history.Entry{Kind: history.Recolor}
	next := make([]shape.Shape, len(e.shapes))
	copy(next, e.shapes)
	for _, i := range e.selected {
		if next[i].Color == c {
			continue
		}
		entry.Colors = append(entry.Colors, history.ColorChange{Index: i, From: next[i].Color, To: c})
		next[i].Color = c
	}
	if entry.Empty() {
		return
	}
	e.shapes = next
	e.history.Record(entry)
	e.sync()
}

// DeleteSelection removes the selected shapes, highest index first.
func (e *Engine) DeleteSelection() bool {
	if len(e.selected) == 0 || e.activity != Idle {
		return false
	}
	indexes := make([]int, len(e.selected))
	copy(indexes, e.selected)
	sort.Sort(sort.Reverse(sort.IntSlice(indexes)))

	entry := history.Entry{Kind: history.Delete}
	for _, i := range indexes {
		entry.Removed = append(entry.Removed, history.Removal{Index: i, Shape: e.shapes[i]})
		e.shapes = shape.RemoveAt(e.shapes, i)
	}
	e.history.Record(entry)
	e.Deselect()
	e.sync()
	return true
}

// Copy puts the selected shapes on the in-process clipboard.
func (e *Engine) Copy() bool {
	if len(e.selected) == 0 {
		return false
	}
	e.clipboard = make([]shape.Shape, 0, len(e.selected))
	for _, i := range e.selected {
		e.clipboard = append(e.clipboard, e.shapes[i].Clone())
	}
	return true
}

// Paste appends shifted copies of the clipboard, switches to the select
// tool and selects the copies. Each paste lands further along so repeated
// pastes do not stack.
func (e *Engine) Paste() bool {
	if len(e.clipboard) == 0 || e.activity != Idle {
		return false
	}
	off := PasteOffset / e.view.Scale
	pasted := make([]shape.Shape, len(e.clipboard))
	for i, s := range e.clipboard {
		pasted[i] = s.Shift(off, off)
	}
	e.clipboard = shape.CloneList(pasted)

	first := len(e.shapes)
	e.shapes = shape.Append(e.shapes, pasted...)
	e.history.Record(history.Entry{Kind: history.Draw, Shapes: shape.CloneList(pasted)})

	e.SetMode(ModeSelect)
	indexes := make([]int, len(pasted))
	for i := range indexes {
		indexes[i] = first + i
	}
	e.Select(indexes)
	e.sync()
	return true
}

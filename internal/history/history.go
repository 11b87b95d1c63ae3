// Package history records shape list mutations so they can be undone and
// redone. Every operation returns a new list and leaves its input intact.
package history

import (
	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/shape"
)

// Kind identifies what an Entry changed.
type Kind string

const (
	Draw    Kind = "draw"
	Erase   Kind = "erase"
	Delete  Kind = "delete"
	Move    Kind = "move"
	Recolor Kind = "recolor"
)

// Removal is one shape taken out of the list. Index is the position the
// shape had at the moment it was removed, after any earlier removals of the
// same entry.
type Removal struct {
	Index int
	Shape shape.Shape
}

// ColorChange records the colour a shape had before and after a recolour.
type ColorChange struct {
	Index    int
	From, To string
}

// Entry is one undoable step.
type Entry struct {
	Kind Kind

	// Draw: shapes appended to the end of the list.
	Shapes []shape.Shape
	// Erase, Delete: removals in the order they happened.
	Removed []Removal
	// Move: translated shapes and the total translation.
	Indexes []int
	Diff    geom.Point
	// Recolor
	Colors []ColorChange
}

// Empty reports whether applying e would change nothing.
func (e *Entry) Empty() bool {
	switch e.Kind {
	case Draw:
		return len(e.Shapes) == 0
	case Erase, Delete:
		return len(e.Removed) == 0
	case Move:
		return len(e.Indexes) == 0 || e.Diff == (geom.Point{})
	case Recolor:
		return len(e.Colors) == 0
	}
	return true
}

// Forward applies e to shapes.
func (e *Entry) Forward(shapes []shape.Shape) []shape.Shape {
	switch e.Kind {
	case Draw:
		return shape.Append(shapes, shape.CloneList(e.Shapes)...)
	case Erase, Delete:
		for _, r := range e.Removed {
			shapes = shape.RemoveAt(shapes, r.Index)
		}
		return shapes
	case Move:
		return shape.ShiftIndexes(shapes, e.Indexes, e.Diff.X, e.Diff.Y)
	case Recolor:
		return recolor(shapes, e.Colors, false)
	}
	return shapes
}

// Inverse undoes e on shapes.
func (e *Entry) Inverse(shapes []shape.Shape) []shape.Shape {
	switch e.Kind {
	case Draw:
		n := len(shapes) - len(e.Shapes)
		if n < 0 {
			n = 0
		}
		out := make([]shape.Shape, n)
		copy(out, shapes[:n])
		return out
	case Erase, Delete:
		// Reverse order, so each index refers to the list as it was right
		// after that step's removal.
		for i := len(e.Removed) - 1; i >= 0; i-- {
			r := e.Removed[i]
			shapes = shape.InsertAt(shapes, r.Index, r.Shape.Clone())
		}
		return shapes
	case Move:
		return shape.ShiftIndexes(shapes, e.Indexes, -e.Diff.X, -e.Diff.Y)
	case Recolor:
		return recolor(shapes, e.Colors, true)
	}
	return shapes
}

func recolor(shapes []shape.Shape, changes []ColorChange, undo bool) []shape.Shape {
	out := make([]shape.Shape, len(shapes))
	copy(out, shapes)
	for _, c := range changes {
		if c.Index < 0 || c.Index >= len(out) {
			continue
		}
		if undo {
			out[c.Index].Color = c.From
		} else {
			out[c.Index].Color = c.To
		}
	}
	return out
}

// Log holds the undo and redo stacks plus an optional entry that is still
// being built, such as the removals of an erase drag in progress.
type Log struct {
	undo    []Entry
	redo    []Entry
	pending *Entry
}

// Record pushes e onto the undo stack and drops any redo history. Empty
// entries are ignored.
func (l *Log) Record(e Entry) {
	if e.Empty() {
		return
	}
	l.undo = append(l.undo, e)
	l.redo = nil
}

// Begin starts a pending entry, discarding any previous one that was never
// committed.
func (l *Log) Begin(e Entry) *Entry {
	l.pending = &e
	return l.pending
}

// Pending returns the entry under construction or nil.
func (l *Log) Pending() *Entry { return l.pending }

// Commit records the pending entry. It reports false when there was none or
// it turned out empty.
func (l *Log) Commit() bool {
	e := l.pending
	l.pending = nil
	if e == nil || e.Empty() {
		return false
	}
	l.Record(*e)
	return true
}

// Undo reverts the newest entry.
func (l *Log) Undo(shapes []shape.Shape) ([]shape.Shape, bool) {
	if len(l.undo) == 0 {
		return shapes, false
	}
	e := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, e)
	return e.Inverse(shapes), true
}

// Redo reapplies the newest undone entry.
func (l *Log) Redo(shapes []shape.Shape) ([]shape.Shape, bool) {
	if len(l.redo) == 0 {
		return shapes, false
	}
	e := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, e)
	return e.Forward(shapes), true
}

// CanUndo reports whether Undo would do anything.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// Last returns the newest undo entry.
func (l *Log) Last() (Entry, bool) {
	if len(l.undo) == 0 {
		return Entry{}, false
	}
	return l.undo[len(l.undo)-1], true
}

// Reset forgets everything.
func (l *Log) Reset() {
	l.undo, l.redo, l.pending = nil, nil, nil
}

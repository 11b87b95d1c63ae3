package canvas

import (
	"log"
	"math"

	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/history"
	"github.com/example/papers/internal/shape"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Pointer is a pointer event in screen coordinates.
type Pointer struct {
	X, Y   float64
	Button Button
	Shift  bool
}

func (p Pointer) pt() geom.Point { return geom.Pt(p.X, p.Y) }

// PointerDown starts a gesture.
func (e *Engine) PointerDown(ev Pointer) {
	e.cursor, e.prevCursor = ev.pt(), ev.pt()
	if e.activity != Idle {
		e.finish()
	}
	if ev.Button == ButtonMiddle {
		e.activity = Panning
		return
	}
	if ev.Button != ButtonLeft {
		return
	}

	p := e.view.ToTrue(ev.pt())
	switch e.mode {
	case ModePan:
		e.activity = Panning
	case ModeErase:
		e.activity = Erasing
		e.history.Begin(history.Entry{Kind: history.Erase})
		e.eraseAt(p)
	case ModeSelect:
		if e.marquee != nil && len(e.selected) > 0 && geom.IsPointInsideShape(e.marquee.Points, p) {
			e.activity = MovingSelection
			indexes := make([]int, len(e.selected))
			copy(indexes, e.selected)
			e.history.Begin(history.Entry{Kind: history.Move, Indexes: indexes})
			return
		}
		e.Deselect()
		e.activity = Selecting
		e.marquee = &shape.Shape{Type: shape.Select, Points: []geom.Point{p}}
	case ModeFreehand, ModeEllipse, ModeRectangle, ModeArrow:
		e.activity = Drawing
		e.lock = shiftLock{}
		s := &shape.Shape{
			Type:      shape.Type(e.mode),
			Color:     e.color,
			Linewidth: e.linewidth / e.view.Scale,
		}
		if e.mode == ModeFreehand {
			s.Points = []geom.Point{p}
		} else {
			s.X1, s.Y1, s.X2, s.Y2 = p.X, p.Y, p.X, p.Y
		}
		e.current = s
	}
}

// PointerMove continues the gesture in progress.
func (e *Engine) PointerMove(ev Pointer) {
	e.prevCursor, e.cursor = e.cursor, ev.pt()
	dx, dy := e.cursor.X-e.prevCursor.X, e.cursor.Y-e.prevCursor.Y

	if e.activity == Panning {
		e.view.Pan(dx, dy)
		return
	}
	// Identical samples add nothing but duplicate points.
	if dx == 0 && dy == 0 {
		return
	}

	switch e.activity {
	case Idle:
	case Erasing:
		e.eraseAt(e.view.ToTrue(e.cursor))
		e.sync()
	case Drawing:
		if e.current.Type.CornerBased() {
			p := e.view.ToTrue(e.cursor)
			e.current.X2, e.current.Y2 = p.X, p.Y
			e.current.PreserveAspectRatio = ev.Shift
			return
		}
		e.current.Points = append(e.current.Points, e.lockedPoint(e.current.Points, ev.Shift))
	case Selecting:
		e.marquee.Points = append(e.marquee.Points, e.lockedPoint(e.marquee.Points, ev.Shift))
	case MovingSelection:
		ddx, ddy := dx/e.view.Scale, dy/e.view.Scale
		e.shapes = shape.ShiftIndexes(e.shapes, e.selected, ddx, ddy)
		moved := e.marquee.Shift(ddx, ddy)
		e.marquee = &moved
		if p := e.history.Pending(); p != nil {
			p.Diff = p.Diff.Add(geom.Pt(ddx, ddy))
		}
		e.sync()
	}
}

// lockedPoint returns the canvas position of the cursor, with one axis held
// while shift is down. The axis is picked from the direction of the last
// two points the first time shift is seen.
func (e *Engine) lockedPoint(points []geom.Point, shift bool) geom.Point {
	if !shift {
		e.lock = shiftLock{}
	} else if !e.lock.hasX && !e.lock.hasY && len(points) > 0 {
		p1 := points[max(0, len(points)-2)]
		p2 := points[len(points)-1]
		angle := math.Atan2(p2.Y-p1.Y, p2.X-p1.X) * 180 / math.Pi
		vertical := (angle > -135 && angle < -45) || (angle > 45 && angle < 135)
		horizontal := angle < -135 || angle > 135 || (angle > -45 && angle < 45)
		switch {
		case vertical:
			e.lock = shiftLock{x: e.cursor.X, hasX: true}
		case horizontal:
			e.lock = shiftLock{y: e.cursor.Y, hasY: true}
		}
	}
	x, y := e.cursor.X, e.cursor.Y
	if e.lock.hasX {
		x = e.lock.x
	}
	if e.lock.hasY {
		y = e.lock.y
	}
	return e.view.ToTrue(geom.Pt(x, y))
}

// PointerUp ends the gesture in progress.
func (e *Engine) PointerUp(ev Pointer) {
	e.prevCursor, e.cursor = e.cursor, ev.pt()
	e.finish()
}

// PointerCancel ends the gesture when the pointer was released somewhere
// the surface could not see, such as outside the window.
func (e *Engine) PointerCancel() {
	e.finish()
}

// finish completes whatever gesture is active and returns to Idle.
func (e *Engine) finish() {
	a := e.activity
	e.activity = Idle
	switch a {
	case Idle, Panning:
	case Drawing:
		e.commitCurrent()
	case Erasing:
		e.history.Commit()
	case Selecting:
		e.closeMarquee()
	case MovingSelection:
		e.history.Commit()
	}
	e.lock = shiftLock{}
	e.sync()
}

func (e *Engine) commitCurrent() {
	cur := e.current
	e.current = nil
	if cur == nil {
		return
	}
	s, err := shape.Convert(*cur, e.view.Scale)
	if err != nil {
		log.Printf("canvas: %v", err)
		return
	}
	if !s.Committable() {
		return
	}
	e.shapes = shape.Append(e.shapes, s)
	e.history.Record(history.Entry{Kind: history.Draw, Shapes: []shape.Shape{s}})
}

// eraseAt removes every shape with a point within the eraser radius of p.
func (e *Engine) eraseAt(p geom.Point) {
	pending := e.history.Pending()
	for i := 0; i < len(e.shapes); {
		if !e.touches(e.shapes[i], p) {
			i++
			continue
		}
		if pending != nil {
			pending.Removed = append(pending.Removed, history.Removal{Index: i, Shape: e.shapes[i]})
		}
		e.shapes = shape.RemoveAt(e.shapes, i)
	}
}

func (e *Engine) touches(s shape.Shape, p geom.Point) bool {
	for _, q := range s.Points {
		if geom.Distance(p, q) <= e.eraserSize {
			return true
		}
	}
	return false
}

// Package canvas turns pointer and keyboard input into edits of a paper's
// shape list. The Engine is driven from a single goroutine; it holds no
// locks.
package canvas

import (
	"fmt"
	"log"

	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/history"
	"github.com/example/papers/internal/shape"
	"github.com/example/papers/internal/viewport"
)

const (
	LinewidthSmall  = 2
	LinewidthMedium = 5
	LinewidthLarge  = 8

	EraserSize        = 20
	EraserMinSize     = 10
	EraserMaxSize     = 200
	EraserScaleFactor = 5

	// SelectionPointsRatio is the share of a shape's points that must fall
	// inside the marquee for the shape to be selected.
	SelectionPointsRatio = 0.9
	// PasteOffset shifts pasted shapes, in screen pixels.
	PasteOffset = 30

	// DefaultColor is the stroke colour of a new engine. The renderer maps
	// it to the theme's stroke.
	DefaultColor = "#000000"

	clearPrompt = "Are you sure you want to clear the canvas?"
)

// Store receives the shape list whenever its content changes. The slice is
// never modified by the engine afterwards.
type Store interface {
	SetPaperShapes(id string, shapes []shape.Shape) error
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(message string) bool

// Option configures an Engine.
type Option func(*Engine)

// WithStore sets the collaborator notified of shape list changes.
func WithStore(s Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithConfirm sets the function asked before destructive actions. Without
// one those actions are refused.
func WithConfirm(f ConfirmFunc) Option {
	return func(e *Engine) { e.confirm = f }
}

// WithPlatform selects the modifier used for shortcuts: cmd on "darwin",
// ctrl elsewhere.
func WithPlatform(goos string) Option {
	return func(e *Engine) { e.useMeta = goos == "darwin" }
}

// WithColor sets the initial stroke colour.
func WithColor(c string) Option {
	return func(e *Engine) { e.color = c }
}

// WithLinewidth sets the initial linewidth.
func WithLinewidth(w float64) Option {
	return func(e *Engine) {
		if w > 0 {
			e.linewidth = w
		}
	}
}

// WithEraserSize sets the initial eraser radius.
func WithEraserSize(s float64) Option {
	return func(e *Engine) { e.SetEraserSize(s) }
}

// WithScreenSize sets the size of the surface in pixels.
func WithScreenSize(w, h float64) Option {
	return func(e *Engine) { e.view.Resize(w, h) }
}

// WithMode sets the initial tool.
func WithMode(m Mode) Option {
	return func(e *Engine) {
		if m.Valid() {
			e.mode = m
		}
	}
}

// shiftLock pins one screen axis while shift is held.
type shiftLock struct {
	x, y       float64
	hasX, hasY bool
}

// Engine owns the live shape list of one paper.
type Engine struct {
	paperID string
	store   Store
	confirm ConfirmFunc
	useMeta bool

	shapes  []shape.Shape
	synced  []shape.Shape
	history history.Log
	view    viewport.Viewport

	mode     Mode
	prevMode Mode
	activity Activity
	// spaceReturn is the tool a momentary pan returns to.
	spaceReturn Mode
	spaceHeld   bool

	color      string
	linewidth  float64
	eraserSize float64

	current   *shape.Shape
	marquee   *shape.Shape
	selected  []int
	clipboard []shape.Shape

	cursor     geom.Point // screen space
	prevCursor geom.Point
	lock       shiftLock
}

// New opens an engine on the shapes of a paper. The list is not modified.
func New(paperID string, shapes []shape.Shape, opts ...Option) *Engine {
	e := &Engine{
		paperID:    paperID,
		shapes:     shapes,
		synced:     shapes,
		view:       viewport.New(0, 0),
		mode:       ModeFreehand,
		prevMode:   ModeFreehand,
		color:      DefaultColor,
		linewidth:  LinewidthSmall,
		eraserSize: EraserSize,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// PaperID identifies the paper being edited.
func (e *Engine) PaperID() string { return e.paperID }

// Shapes returns the current shape list. Callers must not modify it.
func (e *Engine) Shapes() []shape.Shape { return e.shapes }

// Mode returns the selected tool.
func (e *Engine) Mode() Mode { return e.mode }

// Activity returns what the pointer is doing.
func (e *Engine) Activity() Activity { return e.activity }

// Color returns the stroke colour for new shapes.
func (e *Engine) Color() string { return e.color }

// Linewidth returns the linewidth for new shapes.
func (e *Engine) Linewidth() float64 { return e.linewidth }

// EraserSize returns the eraser radius in canvas units.
func (e *Engine) EraserSize() float64 { return e.eraserSize }

// Viewport returns a copy of the pan and zoom state.
func (e *Engine) Viewport() viewport.Viewport { return e.view }

// Cursor returns the last pointer position in canvas space.
func (e *Engine) Cursor() geom.Point { return e.view.ToTrue(e.cursor) }

// Current returns the shape being drawn, if any.
func (e *Engine) Current() (shape.Shape, bool) {
	if e.current == nil {
		return shape.Shape{}, false
	}
	return *e.current, true
}

// Marquee returns the selection outline, if any.
func (e *Engine) Marquee() (shape.Shape, bool) {
	if e.marquee == nil {
		return shape.Shape{}, false
	}
	return *e.marquee, true
}

// Selection returns the indexes of the selected shapes.
func (e *Engine) Selection() []int {
	out := make([]int, len(e.selected))
	copy(out, e.selected)
	return out
}

// CanUndo reports whether there is something to undo.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether there is something to redo.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// Status is a one line summary for a status bar.
func (e *Engine) Status() string {
	s := fmt.Sprintf("%s  %d%%  %d shapes", e.mode, int(e.view.Scale*100+0.5), len(e.shapes))
	if e.mode == ModeErase {
		s += fmt.Sprintf("  eraser %g", e.eraserSize)
	}
	if n := len(e.selected); n > 0 {
		s += fmt.Sprintf("  %d selected", n)
	}
	return s
}

// Resize tells the engine the size of the drawing surface.
func (e *Engine) Resize(w, h float64) { e.view.Resize(w, h) }

// SetMode switches tool. A gesture in progress is finished first. Moving to
// any tool other than pan or select drops the selection.
func (e *Engine) SetMode(m Mode) {
	prev := e.mode
	if e.switchMode(m) {
		e.prevMode = prev
	}
}

// switchMode changes tool without touching prevMode.
func (e *Engine) switchMode(m Mode) bool {
	if !m.Valid() || m == e.mode {
		return false
	}
	if e.activity != Idle && !allowed(e.activity, m) {
		e.finish()
	}
	e.mode = m
	if m != ModePan && m != ModeSelect {
		e.Deselect()
	}
	return true
}

// toggleMode enters m, or returns to the previous tool when already in m.
func (e *Engine) toggleMode(m Mode) {
	if e.mode == m {
		e.SetMode(e.prevMode)
		return
	}
	e.SetMode(m)
}

// SetLinewidth changes the linewidth of new shapes.
func (e *Engine) SetLinewidth(w float64) {
	if w > 0 {
		e.linewidth = w
	}
}

// SetEraserSize sets the eraser radius, clamped to its bounds.
func (e *Engine) SetEraserSize(s float64) {
	switch {
	case s < EraserMinSize:
		s = EraserMinSize
	case s > EraserMaxSize:
		s = EraserMaxSize
	}
	e.eraserSize = s
}

// Undo reverts the newest change.
func (e *Engine) Undo() bool {
	if e.activity != Idle {
		return false
	}
	shapes, ok := e.history.Undo(e.shapes)
	if !ok {
		return false
	}
	e.shapes = shapes
	e.Deselect()
	e.sync()
	return true
}

// Redo reapplies the newest undone change.
func (e *Engine) Redo() bool {
	if e.activity != Idle {
		return false
	}
	shapes, ok := e.history.Redo(e.shapes)
	if !ok {
		return false
	}
	e.shapes = shapes
	e.Deselect()
	e.sync()
	return true
}

// Clear removes every shape and forgets the history once the user confirms.
func (e *Engine) Clear() bool {
	if e.confirm == nil || !e.confirm(clearPrompt) {
		return false
	}
	e.finish()
	e.shapes = nil
	e.history.Reset()
	e.Deselect()
	e.sync()
	return true
}

// ZoomBy zooms around the middle of the surface.
func (e *Engine) ZoomBy(amount float64) {
	e.Deselect()
	e.view.ZoomByCenter(amount)
}

// Wheel zooms by a scroll delta at a screen position.
func (e *Engine) Wheel(deltaY, x, y float64) {
	if len(e.shapes) == 0 {
		return
	}
	e.Deselect()
	e.view.Wheel(deltaY, x, y)
}

// Pinch zooms by the change between two pairs of touches.
func (e *Engine) Pinch(prev, cur [2]geom.Point) {
	e.Deselect()
	e.view.Pinch(prev, cur)
}

// ZoomToFit shows every shape.
func (e *Engine) ZoomToFit() { e.fit(0) }

// ResetZoom shows every shape at scale 1.
func (e *Engine) ResetZoom() { e.fit(1) }

func (e *Engine) fit(scale float64) {
	if len(e.shapes) == 0 {
		return
	}
	e.Deselect()
	e.view.ZoomToFit(contentBBox(e.shapes), scale)
}

// contentBBox is the box around every shape including half its stroke.
func contentBBox(shapes []shape.Shape) geom.Rect {
	r := geom.EmptyRect()
	for _, s := range shapes {
		r = r.Union(geom.BBox(s.Points).Expand(s.Linewidth / 2))
	}
	return r
}

// sync hands the shape list to the store when its content changed.
func (e *Engine) sync() {
	if shape.EqualList(e.shapes, e.synced) {
		return
	}
	e.synced = e.shapes
	if e.store == nil {
		return
	}
	if err := e.store.SetPaperShapes(e.paperID, e.shapes); err != nil {
		log.Printf("canvas: set shapes of %s: %v", e.paperID, err)
	}
}

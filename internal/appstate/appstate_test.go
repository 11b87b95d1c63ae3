package appstate

import (
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/papers/internal/canvas"
	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/shape"
	"github.com/example/papers/internal/theme"
)

func newApp(t *testing.T, shapes []shape.Shape, opts ...Option) *AppState {
	t.Helper()
	opts = append([]Option{WithSize(400, 320), WithEngineOptions(canvas.WithPlatform("linux"))}, opts...)
	a := New("paper", shapes, opts...)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return clock }
	return a
}

func TestTranslateKey(t *testing.T) {
	cases := []struct {
		ev   key.Event
		want canvas.Key
	}{
		{key.Event{Rune: 'E', Modifiers: key.ModShift}, canvas.Key{Name: "e", Shift: true}},
		{key.Event{Rune: 'z', Modifiers: key.ModControl | key.ModShift}, canvas.Key{Name: "z", Ctrl: true, Shift: true}},
		{key.Event{Rune: 'c', Modifiers: key.ModMeta}, canvas.Key{Name: "c", Meta: true}},
		{key.Event{Rune: ' ', Code: key.CodeSpacebar}, canvas.Key{Name: canvas.KeySpace}},
		{key.Event{Rune: -1, Code: key.CodeDeleteBackspace}, canvas.Key{Name: canvas.KeyBackspace}},
		{key.Event{Rune: -1, Code: key.CodeEscape}, canvas.Key{Name: canvas.KeyEscape}},
		{key.Event{Rune: '+', Modifiers: key.ModShift}, canvas.Key{Name: "+", Shift: true}},
	}
	for _, c := range cases {
		got, ok := translateKey(c.ev)
		if !ok || got != c.want {
			t.Errorf("translateKey(%v) = %+v, %v; want %+v", c.ev, got, ok, c.want)
		}
	}
	if _, ok := translateKey(key.Event{Rune: -1, Code: key.CodeLeftShift}); ok {
		t.Error("modifier keys should not be forwarded")
	}
}

func TestPointer(t *testing.T) {
	ev := mouse.Event{X: 3, Y: 4, Button: mouse.ButtonLeft, Modifiers: key.ModShift}
	if p := pointer(ev, ModeEdit); p.Button != canvas.ButtonLeft || !p.Shift || p.X != 3 || p.Y != 4 {
		t.Errorf("unexpected pointer %+v", p)
	}
	if p := pointer(ev, ModeReadOnly); p.Button != canvas.ButtonMiddle {
		t.Errorf("read-only windows should pan, got %+v", p)
	}
	ev.Button = mouse.ButtonMiddle
	if p := pointer(ev, ModeEdit); p.Button != canvas.ButtonMiddle {
		t.Errorf("unexpected pointer %+v", p)
	}
}

func TestStrokeReleasedOutsideIsKept(t *testing.T) {
	a := newApp(t, nil)
	var pressed bool
	a.handleMouse(mouse.Event{X: 10, Y: 10, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, true, &pressed)
	a.handleMouse(mouse.Event{X: 50, Y: 40, Button: mouse.ButtonLeft, Direction: mouse.DirNone}, true, &pressed)
	a.handleMouse(mouse.Event{X: 900, Y: 40, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}, false, &pressed)
	if pressed {
		t.Fatal("gesture still marked as pressed")
	}
	if a.Engine.Activity() != canvas.Idle {
		t.Fatalf("engine still %v", a.Engine.Activity())
	}
	got := a.Engine.Shapes()
	if len(got) != 1 || len(got[0].Points) < 2 {
		t.Fatalf("expected the stroke to be committed, got %+v", got)
	}
}

func TestPressOutsideCanvasIgnored(t *testing.T) {
	a := newApp(t, nil)
	var pressed bool
	if a.handleMouse(mouse.Event{X: 10, Y: 310, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, false, &pressed) {
		t.Fatal("press on the status bar should be ignored")
	}
	if pressed || a.Engine.Activity() != canvas.Idle {
		t.Fatal("gesture started outside the canvas")
	}
}

func TestWheelZooms(t *testing.T) {
	line := shape.Shape{Type: shape.Freehand, Color: "#000000", Linewidth: 2, Points: []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 100}}}
	a := newApp(t, []shape.Shape{line})
	before := a.Engine.Viewport().Scale
	var pressed bool
	a.handleMouse(mouse.Event{X: 50, Y: 50, Button: mouse.ButtonWheelUp, Direction: mouse.DirStep}, true, &pressed)
	if after := a.Engine.Viewport().Scale; after <= before {
		t.Fatalf("wheel up should zoom in: %v -> %v", before, after)
	}
}

func TestClearNeedsRepeat(t *testing.T) {
	line := shape.Shape{Type: shape.Freehand, Color: "#000000", Linewidth: 2, Points: []geom.Point{{X: 1, Y: 1}, {X: 40, Y: 30}}}
	a := newApp(t, []shape.Shape{line})
	ctrlX := key.Event{Rune: 'x', Modifiers: key.ModControl, Direction: key.DirPress}

	a.handleKey(ctrlX)
	if len(a.Engine.Shapes()) != 1 {
		t.Fatal("canvas cleared without confirmation")
	}
	if a.message == "" {
		t.Fatal("expected a confirmation prompt")
	}
	a.handleKey(ctrlX)
	if len(a.Engine.Shapes()) != 0 {
		t.Fatal("repeated shortcut did not clear the canvas")
	}
}

func TestClearConfirmationExpires(t *testing.T) {
	line := shape.Shape{Type: shape.Freehand, Color: "#000000", Linewidth: 2, Points: []geom.Point{{X: 1, Y: 1}, {X: 40, Y: 30}}}
	a := newApp(t, []shape.Shape{line})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }
	ctrlX := key.Event{Rune: 'x', Modifiers: key.ModControl, Direction: key.DirPress}
	a.handleKey(ctrlX)
	now = now.Add(confirmWindow + time.Second)
	a.handleKey(ctrlX)
	if len(a.Engine.Shapes()) != 1 {
		t.Fatal("late repeat should ask again")
	}
}

func TestPaletteAndLinewidthKeys(t *testing.T) {
	var gotColor string
	var gotWidth float64
	a := newApp(t, nil, WithSettingsListener(func(c string, w float64) { gotColor, gotWidth = c, w }))
	a.handleKey(key.Event{Rune: '1', Direction: key.DirPress})
	want := theme.ToHex(theme.Default().Palette[0])
	if a.Engine.Color() != want || gotColor != want {
		t.Fatalf("palette key: engine %q listener %q, want %q", a.Engine.Color(), gotColor, want)
	}
	a.handleKey(key.Event{Rune: '7', Direction: key.DirPress})
	if a.Engine.Color() != theme.DefaultStrokeLight {
		t.Fatalf("last palette entry should be the default stroke, got %q", a.Engine.Color())
	}
	a.handleKey(key.Event{Rune: 'w', Direction: key.DirPress})
	if a.Engine.Linewidth() != canvas.LinewidthMedium || gotWidth != canvas.LinewidthMedium {
		t.Fatalf("linewidth = %v", a.Engine.Linewidth())
	}
	if nextLinewidth(canvas.LinewidthLarge) != canvas.LinewidthSmall {
		t.Fatal("linewidth presets should wrap")
	}
}

func TestReadOnlyIgnoresTools(t *testing.T) {
	a := newApp(t, nil, WithMode(ModeReadOnly))
	if a.handleKey(key.Event{Rune: 'e', Direction: key.DirPress}) {
		t.Fatal("tool key used in a read-only window")
	}
	if a.Engine.Mode() != canvas.ModeFreehand {
		t.Fatalf("mode changed to %v", a.Engine.Mode())
	}
	var pressed bool
	a.handleMouse(mouse.Event{X: 10, Y: 10, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, true, &pressed)
	if a.Engine.Activity() != canvas.Panning {
		t.Fatalf("expected panning, got %v", a.Engine.Activity())
	}
}

func TestApplySettingsWithoutWindow(t *testing.T) {
	a := newApp(t, nil)
	c, w, m := "#2e9ceb", 8.0, canvas.ModeArrow
	a.ApplySettings(&c, &w, &m)
	if a.Engine.Color() != c || a.Engine.Linewidth() != w || a.Engine.Mode() != m {
		t.Fatalf("settings not applied: %q %v %v", a.Engine.Color(), a.Engine.Linewidth(), a.Engine.Mode())
	}
}

func TestPaintState(t *testing.T) {
	line := shape.Shape{Type: shape.Freehand, Color: "#000000", Linewidth: 2, Points: []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 100}}}
	a := newApp(t, []shape.Shape{line}, WithTitle("Cat"))
	a.Engine.SetMode(canvas.ModeErase)
	st := a.paintState(400, 320, true)
	if len(st.drawables) != 2 {
		t.Fatalf("expected the stroke and the eraser cursor, got %d drawables", len(st.drawables))
	}
	if st.status == "" || st.status[:3] != "Cat" {
		t.Fatalf("unexpected status %q", st.status)
	}
	if st := a.paintState(400, 320, false); len(st.drawables) != 1 {
		t.Fatal("eraser cursor drawn while the pointer is outside")
	}
}

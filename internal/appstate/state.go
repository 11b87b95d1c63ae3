// Package appstate runs the drawing window: it feeds shiny input events to a
// canvas.Engine and paints the engine's scene.
package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/papers/internal/canvas"
	"github.com/example/papers/internal/shape"
	"github.com/example/papers/internal/theme"
)

// ProgramTitle names the window and the interactive prompt.
const ProgramTitle = "Papers"

// Mode selects what the window lets the user do.
type Mode int

const (
	// ModeEdit draws, erases and selects.
	ModeEdit Mode = iota
	// ModeReadOnly only pans and zooms.
	ModeReadOnly
)

const (
	defaultWidth  = 1024
	defaultHeight = 768
	// confirmWindow is how long a destructive shortcut waits for its repeat.
	confirmWindow = 3 * time.Second
	messageTime   = 2 * time.Second
)

// AppState holds the window's engine and settings.
type AppState struct {
	Engine *canvas.Engine
	Theme  *theme.Theme
	Title  string
	Mode   Mode
	Width  int
	Height int

	updateCh    chan struct{}
	sendControl func(controlEvent)

	settingsMu sync.Mutex
	settingsFn func(color string, linewidth float64)

	onClose   func()
	closeOnce sync.Once

	engineOpts []canvas.Option
	now        func() time.Time

	// confirm prompt and message overlay; only touched by the event loop.
	pending      string
	pendingUntil time.Time
	message      string
	messageUntil time.Time
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithTheme sets the colours of the window.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithTitle sets the window title, usually the paper name.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithMode configures the UI mode.
func WithMode(mode Mode) Option { return func(a *AppState) { a.Mode = mode } }

// WithSize sets the initial window size in pixels.
func WithSize(w, h int) Option {
	return func(a *AppState) {
		if w > 0 && h > 0 {
			a.Width, a.Height = w, h
		}
	}
}

// WithEngineOptions passes options through to the canvas engine.
func WithEngineOptions(opts ...canvas.Option) Option {
	return func(a *AppState) { a.engineOpts = append(a.engineOpts, opts...) }
}

// WithSettingsListener registers a callback for when colour or linewidth
// change in the window.
func WithSettingsListener(fn func(color string, linewidth float64)) Option {
	return func(a *AppState) { a.settingsFn = fn }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates the window state for a paper. Clearing the canvas from the
// window asks for the shortcut to be repeated instead of a dialog.
func New(paperID string, shapes []shape.Shape, opts ...Option) *AppState {
	a := &AppState{
		Theme:    theme.Default(),
		Title:    ProgramTitle,
		Width:    defaultWidth,
		Height:   defaultHeight,
		updateCh: make(chan struct{}, 1),
		now:      time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	engineOpts := append([]canvas.Option{
		canvas.WithColor(a.Theme.DefaultStrokeHex()),
		canvas.WithConfirm(a.confirm),
	}, a.engineOpts...)
	engineOpts = append(engineOpts, canvas.WithScreenSize(float64(a.Width), float64(a.Height-statusHeight)))
	a.Engine = canvas.New(paperID, shapes, engineOpts...)
	a.Engine.ZoomToFit()
	return a
}

type controlEvent struct {
	Color     *string
	Linewidth *float64
	Mode      *canvas.Mode
}

// NotifyChanged requests a repaint.
func (a *AppState) NotifyChanged() {
	if a.updateCh == nil {
		return
	}
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

// ApplySettings changes colour, linewidth and tool from another goroutine.
// Nil values are left alone.
func (a *AppState) ApplySettings(color *string, linewidth *float64, mode *canvas.Mode) {
	a.settingsMu.Lock()
	sender := a.sendControl
	a.settingsMu.Unlock()

	ev := controlEvent{Color: color, Linewidth: linewidth, Mode: mode}
	if sender != nil {
		sender(ev)
		return
	}
	a.applyControl(ev)
}

func (a *AppState) applyControl(ev controlEvent) {
	if ev.Color != nil {
		a.Engine.SetColor(*ev.Color)
	}
	if ev.Linewidth != nil {
		a.Engine.SetLinewidth(*ev.Linewidth)
	}
	if ev.Mode != nil {
		a.Engine.SetMode(*ev.Mode)
	}
	a.settingsChanged()
}

func (a *AppState) settingsChanged() {
	a.settingsMu.Lock()
	fn := a.settingsFn
	a.settingsMu.Unlock()
	if fn != nil {
		fn(a.Engine.Color(), a.Engine.Linewidth())
	}
}

func (a *AppState) setControlSender(fn func(controlEvent)) {
	a.settingsMu.Lock()
	a.sendControl = fn
	a.settingsMu.Unlock()
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		a.setControlSender(nil)
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// confirm accepts a destructive action when it is requested twice within
// confirmWindow.
func (a *AppState) confirm(message string) bool {
	now := a.now()
	if a.pending == message && now.Before(a.pendingUntil) {
		a.pending = ""
		return true
	}
	a.pending = message
	a.pendingUntil = now.Add(confirmWindow)
	a.flash(message+" Repeat the shortcut to confirm.", confirmWindow)
	return false
}

func (a *AppState) flash(msg string, d time.Duration) {
	a.message = msg
	a.messageUntil = a.now().Add(d)
	log.Print(msg)
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the window on s until it is closed.
func (a *AppState) Main(s screen.Screen) {
	width, height := a.Width, a.Height
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: fmt.Sprintf("%s - %s", a.Title, ProgramTitle)})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	defer a.notifyClose()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	a.setControlSender(func(ev controlEvent) { w.Send(ev) })

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	var pressed bool
	var hover bool
	for {
		switch e := w.NextEvent().(type) {
		case controlEvent:
			a.applyControl(e)
			w.Send(paint.Event{})
		case lifecycle.Event:
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff && pressed {
				a.Engine.PointerCancel()
				pressed = false
				w.Send(paint.Event{})
			}
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			a.Engine.Resize(float64(width), float64(max(height-statusHeight, 1)))
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := a.paintState(width, height, hover)
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			inside := image.Pt(int(e.X), int(e.Y)).In(image.Rect(0, 0, width, height-statusHeight))
			hover = inside
			if a.handleMouse(e, inside, &pressed) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if a.handleKey(e) {
				w.Send(paint.Event{})
			}
		case error:
			log.Printf("window: %v", e)
		}
	}
}

// handleMouse forwards a mouse event to the engine and reports whether the
// window needs a repaint. pressed tracks whether a gesture is under way.
func (a *AppState) handleMouse(e mouse.Event, inside bool, pressed *bool) bool {
	if e.Button.IsWheel() {
		if e.Direction == mouse.DirStep && inside {
			a.Engine.Wheel(wheelDelta(e.Button), float64(e.X), float64(e.Y))
			return true
		}
		return false
	}
	p := pointer(e, a.Mode)
	switch e.Direction {
	case mouse.DirPress:
		if !inside {
			return false
		}
		*pressed = true
		a.Engine.PointerDown(p)
	case mouse.DirRelease:
		if !*pressed {
			return false
		}
		*pressed = false
		if inside {
			a.Engine.PointerUp(p)
		} else {
			a.Engine.PointerCancel()
		}
	default:
		a.Engine.PointerMove(p)
	}
	return true
}

// handleKey forwards a key event to the engine. Digits pick a palette colour
// and w cycles the linewidth presets.
func (a *AppState) handleKey(e key.Event) bool {
	k, ok := translateKey(e)
	if !ok {
		return false
	}
	switch e.Direction {
	case key.DirRelease:
		return a.Engine.KeyUp(k)
	case key.DirPress, key.DirNone:
	default:
		return false
	}
	if a.Mode == ModeReadOnly {
		if !readOnlyKeys[k.Name] {
			return false
		}
		return a.Engine.KeyDown(k)
	}
	if !k.Ctrl && !k.Meta {
		if c, ok := paletteKey(a.Theme, k.Name); ok {
			a.Engine.SetColor(c)
			a.settingsChanged()
			return true
		}
		if k.Name == "w" {
			a.Engine.SetLinewidth(nextLinewidth(a.Engine.Linewidth()))
			a.settingsChanged()
			return true
		}
	}
	return a.Engine.KeyDown(k)
}

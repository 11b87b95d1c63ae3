package appstate

import (
	"context"
	"image"
	"image/draw"
	"log"
	"unicode"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/papers/internal/canvas"
	"github.com/example/papers/internal/render"
	"github.com/example/papers/internal/theme"
)

const statusHeight = 20

// frameDropThreshold limits how many frames in a row may be cancelled in
// favour of a newer one, so a steady stream of input still paints.
const frameDropThreshold = 10

// wheelStep is the scroll delta of one wheel notch.
const wheelStep = 50

var linewidths = []float64{canvas.LinewidthSmall, canvas.LinewidthMedium, canvas.LinewidthLarge}

// readOnlyKeys may be used when the window only views a paper.
var readOnlyKeys = map[string]bool{"+": true, "=": true, "-": true, "0": true, canvas.KeySpace: true}

type paintState struct {
	width, height int
	theme         *theme.Theme
	drawables     []render.Drawable
	transform     render.Transform
	status        string
	message       string
}

func (a *AppState) paintState(width, height int, hover bool) paintState {
	e := a.Engine
	v := e.Viewport()
	in := render.Input{
		Shapes: e.Shapes(),
		Theme:  a.Theme,
		Scale:  v.Scale,
	}
	if cur, ok := e.Current(); ok {
		in.Current = &cur
	}
	if m, ok := e.Marquee(); ok {
		in.Marquee = &m
	}
	if e.Mode() == canvas.ModeErase && hover {
		c := e.Cursor()
		in.Eraser = &c
		in.EraserSize = e.EraserSize()
	}
	st := paintState{
		width:     width,
		height:    height,
		theme:     a.Theme,
		drawables: render.Scene(in),
		transform: render.Transform{Scale: v.Scale, TranslateX: v.TranslateX, TranslateY: v.TranslateY},
		status:    a.Title + "  " + e.Status(),
	}
	if a.Mode == ModeReadOnly {
		st.status += "  read-only"
	}
	if a.message != "" && a.now().Before(a.messageUntil) {
		st.message = a.message
	}
	return st
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	if st.width <= 0 || st.height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	render.Fill(dst, st.theme.Background)
	if ctx.Err() != nil {
		return
	}
	canvasArea := image.Rect(0, 0, st.width, max(st.height-statusHeight, 0))
	render.Rasterize(dst.SubImage(canvasArea).(*image.RGBA), st.drawables, st.transform)
	if ctx.Err() != nil {
		return
	}

	drawStatus(dst, st)
	if st.message != "" {
		drawMessage(dst, st)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawStatus(dst *image.RGBA, st paintState) {
	bar := image.Rect(0, st.height-statusHeight, st.width, st.height)
	draw.Draw(dst, bar, image.NewUniform(st.theme.StatusBar), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.Foreground), Face: basicfont.Face7x13}
	d.Dot = fixed.P(6, st.height-6)
	d.DrawString(st.status)
}

func drawMessage(dst *image.RGBA, st paintState) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.Foreground), Face: face}
	wmsg := d.MeasureString(st.message).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	px := (st.width - wmsg) / 2
	py := 24 + ascent
	rect := image.Rect(px-8, py-ascent-6, px+wmsg+8, py+descent+6)
	bg := st.theme.StatusBar
	bg.A = 230
	draw.Draw(dst, rect, image.NewUniform(bg), image.Point{}, draw.Over)
	d.Dot = fixed.P(px, py)
	d.DrawString(st.message)
}

// translateKey maps a shiny key event to an engine key.
func translateKey(e key.Event) (canvas.Key, bool) {
	k := canvas.Key{
		Ctrl:  e.Modifiers&key.ModControl != 0,
		Meta:  e.Modifiers&key.ModMeta != 0,
		Shift: e.Modifiers&key.ModShift != 0,
	}
	switch e.Code {
	case key.CodeSpacebar:
		k.Name = canvas.KeySpace
	case key.CodeDeleteBackspace:
		k.Name = canvas.KeyBackspace
	case key.CodeDeleteForward:
		k.Name = canvas.KeyDelete
	case key.CodeEscape:
		k.Name = canvas.KeyEscape
	default:
		if e.Rune <= 0 || !unicode.IsPrint(e.Rune) {
			return canvas.Key{}, false
		}
		k.Name = string(unicode.ToLower(e.Rune))
	}
	return k, true
}

// pointer maps a mouse event to an engine pointer. A read-only window pans
// with every button.
func pointer(e mouse.Event, mode Mode) canvas.Pointer {
	p := canvas.Pointer{
		X:     float64(e.X),
		Y:     float64(e.Y),
		Shift: e.Modifiers&key.ModShift != 0,
	}
	switch e.Button {
	case mouse.ButtonMiddle:
		p.Button = canvas.ButtonMiddle
	case mouse.ButtonRight:
		p.Button = canvas.ButtonRight
	}
	if mode == ModeReadOnly && e.Button != mouse.ButtonNone {
		p.Button = canvas.ButtonMiddle
	}
	return p
}

// wheelDelta is positive when scrolling up, which zooms in.
func wheelDelta(b mouse.Button) float64 {
	switch b {
	case mouse.ButtonWheelUp:
		return wheelStep
	case mouse.ButtonWheelDown:
		return -wheelStep
	}
	return 0
}

// paletteKey maps the digits 1 to 9 onto the theme palette.
func paletteKey(t *theme.Theme, name string) (string, bool) {
	if len(name) != 1 || name[0] < '1' || name[0] > '9' {
		return "", false
	}
	i := int(name[0] - '1')
	if i >= len(t.Palette) {
		return "", false
	}
	c := t.Palette[i]
	if c == t.DefaultStroke {
		return t.DefaultStrokeHex(), true
	}
	return theme.ToHex(c), true
}

func nextLinewidth(w float64) float64 {
	for _, lw := range linewidths {
		if lw > w {
			return lw
		}
	}
	return linewidths[0]
}

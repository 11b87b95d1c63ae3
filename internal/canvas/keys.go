package canvas

import (
	"strings"

	"github.com/example/papers/internal/viewport"
)

// Named keys. Printable keys use their character, lower case.
const (
	KeySpace     = "space"
	KeyBackspace = "backspace"
	KeyDelete    = "delete"
	KeyEscape    = "escape"
)

// Key is a keyboard event. Callers only forward keys while the canvas has
// focus and no dialog is open.
type Key struct {
	Name              string
	Ctrl, Meta, Shift bool
}

func (e *Engine) mod(k Key) bool {
	if e.useMeta {
		return k.Meta
	}
	return k.Ctrl
}

// KeyDown handles a key press and reports whether it was used.
func (e *Engine) KeyDown(k Key) bool {
	name := strings.ToLower(k.Name)
	mod := e.mod(k)
	switch name {
	case "x":
		if !mod {
			return false
		}
		e.Clear()
	case "f":
		e.SetMode(ModeFreehand)
	case "e":
		if mod {
			e.toggleMode(ModeErase)
		} else {
			e.SetMode(ModeEllipse)
		}
	case "s":
		if !mod {
			return false
		}
		e.toggleMode(ModeSelect)
	case "r":
		e.SetMode(ModeRectangle)
	case "a":
		if mod {
			e.SelectAll()
		} else {
			e.SetMode(ModeArrow)
		}
	case "z":
		if !mod {
			return false
		}
		if k.Shift {
			e.Redo()
		} else {
			e.Undo()
		}
	case "c":
		if !mod {
			return false
		}
		e.Copy()
	case "v":
		if !mod {
			return false
		}
		e.Paste()
	case KeyBackspace, KeyDelete:
		e.DeleteSelection()
	case KeyEscape:
		e.Deselect()
	case KeySpace:
		if e.mode != ModePan {
			e.spaceHeld = true
			e.spaceReturn = e.mode
			e.switchMode(ModePan)
		}
	case "+", "=":
		if len(e.shapes) > 0 {
			e.ZoomBy(viewport.ScaleBy)
		}
	case "-":
		if len(e.shapes) > 0 {
			e.ZoomBy(-viewport.ScaleBy)
		}
	case "0":
		e.ResetZoom()
	case "[":
		e.SetEraserSize(e.eraserSize - EraserScaleFactor)
	case "]":
		e.SetEraserSize(e.eraserSize + EraserScaleFactor)
	default:
		return false
	}
	return true
}

// KeyUp handles a key release. Releasing space returns from a momentary pan.
func (e *Engine) KeyUp(k Key) bool {
	if strings.ToLower(k.Name) != KeySpace || !e.spaceHeld {
		return false
	}
	e.spaceHeld = false
	if e.mode == ModePan {
		e.switchMode(e.spaceReturn)
	}
	return true
}

package canvas

// Mode is the tool selected by the user.
type Mode string

const (
	ModeFreehand  Mode = "freehand"
	ModeEllipse   Mode = "ellipse"
	ModeRectangle Mode = "rectangle"
	ModeArrow     Mode = "arrow"
	ModePan       Mode = "pan"
	ModeErase     Mode = "erase"
	ModeSelect    Mode = "select"
)

// Modes lists every tool in toolbar order.
var Modes = []Mode{ModeFreehand, ModeEllipse, ModeRectangle, ModeArrow, ModePan, ModeErase, ModeSelect}

// Draws reports whether m creates shapes.
func (m Mode) Draws() bool {
	switch m {
	case ModeFreehand, ModeEllipse, ModeRectangle, ModeArrow:
		return true
	}
	return false
}

// Valid reports whether m is a known tool.
func (m Mode) Valid() bool {
	for _, k := range Modes {
		if k == m {
			return true
		}
	}
	return false
}

// ParseMode maps a tool name to a Mode.
func ParseMode(s string) (Mode, bool) {
	m := Mode(s)
	return m, m.Valid()
}

// Activity is what the pointer is doing right now. Only one activity can be
// in progress and each one belongs to a set of modes, see allowed.
type Activity int

const (
	Idle Activity = iota
	Drawing
	Panning
	Erasing
	Selecting
	MovingSelection
)

func (a Activity) String() string {
	switch a {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Panning:
		return "panning"
	case Erasing:
		return "erasing"
	case Selecting:
		return "selecting"
	case MovingSelection:
		return "moving"
	}
	return "unknown"
}

// allowed reports whether activity a may start while in mode m. Panning is
// allowed everywhere because the middle button pans in any mode.
func allowed(a Activity, m Mode) bool {
	switch a {
	case Idle, Panning:
		return true
	case Drawing:
		return m.Draws()
	case Erasing:
		return m == ModeErase
	case Selecting, MovingSelection:
		return m == ModeSelect
	}
	return false
}

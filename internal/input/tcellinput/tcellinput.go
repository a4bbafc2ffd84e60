package tcellinput

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"media-gallery/internal/gesture"
)

const (
	// DefaultWheelFactor is the zoom change of one wheel notch.
	DefaultWheelFactor = 1.25

	// pinchHalfSpan is the distance of each synthetic pointer from the
	// pinch focus, in pixels.
	pinchHalfSpan = 50.0

	primaryID   = 0
	secondaryID = 1
)

// Translator turns tcell mouse events into pointer events. It is not safe
// for concurrent use; feed it from the event loop.
type Translator struct {
	cellWidth   float64
	cellHeight  float64
	WheelFactor float64

	pressed bool
	lastX   float64
	lastY   float64
}

// New creates a translator for cells of the given pixel size. Non-positive
// sizes default to one pixel per cell.
func New(cellWidth, cellHeight float64) *Translator {
	if cellWidth <= 0 {
		cellWidth = 1
	}
	if cellHeight <= 0 {
		cellHeight = 1
	}
	return &Translator{cellWidth: cellWidth, cellHeight: cellHeight, WheelFactor: DefaultWheelFactor}
}

// Pressed reports whether the left button is currently held.
func (t *Translator) Pressed() bool {
	return t.pressed
}

// Translate returns the pointer events for one mouse event, in order. Most
// events produce zero or one pointer event; a wheel notch produces a
// complete pinch.
func (t *Translator) Translate(ev *tcell.EventMouse) []gesture.PointerEvent {
	if ev == nil {
		return nil
	}
	cx, cy := ev.Position()
	x := (float64(cx) + 0.5) * t.cellWidth
	y := (float64(cy) + 0.5) * t.cellHeight
	when := ev.When()
	buttons := ev.Buttons()

	down := buttons&tcell.Button1 != 0
	switch {
	case down && !t.pressed:
		t.pressed = true
		t.lastX, t.lastY = x, y
		return []gesture.PointerEvent{{
			Action:   gesture.ActionDown,
			Pointers: []gesture.Pointer{{ID: primaryID, X: x, Y: y}},
			Time:     when,
		}}
	case down:
		if x == t.lastX && y == t.lastY {
			return nil
		}
		t.lastX, t.lastY = x, y
		return []gesture.PointerEvent{{
			Action:   gesture.ActionMove,
			Pointers: []gesture.Pointer{{ID: primaryID, X: x, Y: y}},
			Time:     when,
		}}
	case t.pressed:
		t.pressed = false
		return []gesture.PointerEvent{{
			Action:   gesture.ActionUp,
			Pointers: []gesture.Pointer{{ID: primaryID, X: x, Y: y}},
			Time:     when,
		}}
	}

	switch {
	case buttons&tcell.WheelUp != 0:
		return t.pinch(x, y, t.factor(), when)
	case buttons&tcell.WheelDown != 0:
		return t.pinch(x, y, 1/t.factor(), when)
	}
	return nil
}

// Cancel aborts a held press, for example when the terminal loses focus.
func (t *Translator) Cancel() []gesture.PointerEvent {
	if !t.pressed {
		return nil
	}
	t.pressed = false
	return []gesture.PointerEvent{{
		Action:   gesture.ActionCancel,
		Pointers: []gesture.Pointer{{ID: primaryID, X: t.lastX, Y: t.lastY}},
	}}
}

func (t *Translator) factor() float64 {
	if t.WheelFactor <= 1 {
		return DefaultWheelFactor
	}
	return t.WheelFactor
}

func (t *Translator) pinch(x, y, factor float64, when time.Time) []gesture.PointerEvent {
	pair := func(half float64) []gesture.Pointer {
		return []gesture.Pointer{
			{ID: primaryID, X: x - half, Y: y},
			{ID: secondaryID, X: x + half, Y: y},
		}
	}
	start, end := pair(pinchHalfSpan), pair(pinchHalfSpan*factor)
	return []gesture.PointerEvent{
		{Action: gesture.ActionDown, Pointers: start[:1], Time: when},
		{Action: gesture.ActionPointerDown, Pointers: start, Time: when},
		{Action: gesture.ActionMove, Pointers: end, Time: when},
		{Action: gesture.ActionPointerUp, Pointers: end, Time: when},
		{Action: gesture.ActionUp, Pointers: end[:1], Time: when},
	}
}

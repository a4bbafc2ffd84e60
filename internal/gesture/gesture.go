package gesture

import (
	"fmt"
	"math"
	"time"
)

// Action is the kind of change a PointerEvent reports.
type Action int

const (
	// ActionDown is the first pointer touching down.
	ActionDown Action = iota
	// ActionPointerDown is an additional pointer touching down.
	ActionPointerDown
	// ActionMove reports new positions for the active pointers.
	ActionMove
	// ActionPointerUp is a non-final pointer lifting.
	ActionPointerUp
	// ActionUp is the last pointer lifting.
	ActionUp
	// ActionCancel aborts the current gesture.
	ActionCancel
)

func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionPointerDown:
		return "pointer_down"
	case ActionMove:
		return "move"
	case ActionPointerUp:
		return "pointer_up"
	case ActionUp:
		return "up"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// ParseAction maps a name produced by Action.String back to the action.
func ParseAction(s string) (Action, error) {
	for a := ActionDown; a <= ActionCancel; a++ {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown pointer action %q", s)
}

// Pointer is one active contact.
type Pointer struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// PointerEvent is one raw input sample. Pointers lists every pointer down at
// the time of the event, including one that is lifting.
type PointerEvent struct {
	Action   Action    `json:"action"`
	Pointers []Pointer `json:"pointers"`
	Time     time.Time `json:"time"`
}

// Primary returns the first pointer, or false when there is none.
func (e PointerEvent) Primary() (Pointer, bool) {
	if len(e.Pointers) == 0 {
		return Pointer{}, false
	}
	return e.Pointers[0], true
}

// Offset returns a copy of the event with every pointer shifted by (-dx, -dy).
func (e PointerEvent) Offset(dx, dy float64) PointerEvent {
	out := e
	out.Pointers = make([]Pointer, len(e.Pointers))
	for i, p := range e.Pointers {
		out.Pointers[i] = Pointer{ID: p.ID, X: p.X - dx, Y: p.Y - dy}
	}
	return out
}

// Side is the half of the surface a swipe started in.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Direction is the vertical direction of a swipe.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
)

func (d Direction) String() string {
	if d == DirectionUp {
		return "up"
	}
	return "down"
}

// Classification is what a gesture was recognized as.
type Classification int

const (
	ClassIdle Classification = iota
	ClassDown
	ClassDragging
	ClassScaling
	ClassVerticalSwipe
)

func (c Classification) String() string {
	switch c {
	case ClassIdle:
		return "idle"
	case ClassDown:
		return "down"
	case ClassDragging:
		return "dragging"
	case ClassScaling:
		return "scaling"
	case ClassVerticalSwipe:
		return "vertical_swipe"
	default:
		return "unknown"
	}
}

// IntentKind tags an Intent.
type IntentKind int

const (
	IntentTap IntentKind = iota
	IntentDoubleTap
	IntentScale
	IntentDrag
	IntentSwipeStart
	IntentSwipe
	IntentSwipeEnd
	IntentGestureEnd
)

func (k IntentKind) String() string {
	switch k {
	case IntentTap:
		return "tap"
	case IntentDoubleTap:
		return "double_tap"
	case IntentScale:
		return "scale"
	case IntentDrag:
		return "drag"
	case IntentSwipeStart:
		return "swipe_start"
	case IntentSwipe:
		return "swipe"
	case IntentSwipeEnd:
		return "swipe_end"
	case IntentGestureEnd:
		return "gesture_end"
	default:
		return "unknown"
	}
}

// Intent is a resolved gesture. Only the fields relevant to Kind are set:
//
//   - Tap, DoubleTap: X, Y
//   - Scale: Factor, X, Y (focus)
//   - Drag: DX, DY
//   - SwipeStart, Swipe: Side, Direction, Distance (positive upwards,
//     measured from the original down position)
//   - GestureEnd: Class (what the finished gesture was classified as)
type Intent struct {
	Kind      IntentKind
	X, Y      float64
	Factor    float64
	DX, DY    float64
	Distance  float64
	Side      Side
	Direction Direction
	Class     Classification
}

// Config holds the recognition thresholds.
type Config struct {
	// Slop is the movement, in device-independent units, before a gesture
	// is classified.
	Slop float64
	// TapTimeout is the longest press still counted as a tap.
	TapTimeout time.Duration
	// DoubleTapTimeout is the longest gap between the taps of a double tap.
	DoubleTapTimeout time.Duration
	// DoubleTapSlop is the farthest the second tap may land from the first.
	DoubleTapSlop float64
}

// DefaultConfig returns the conventional touch thresholds.
func DefaultConfig() Config {
	return Config{
		Slop:             8,
		TapTimeout:       300 * time.Millisecond,
		DoubleTapTimeout: 300 * time.Millisecond,
		DoubleTapSlop:    100,
	}
}

type session struct {
	class    Classification
	downX    float64
	downY    float64
	downTime time.Time
	lastX    float64
	lastY    float64
	prevSpan float64
	side     Side
	dir      Direction
	tappable bool
}

type pendingTap struct {
	x, y float64
	at   time.Time
}

// Interpreter classifies pointer streams into intents.
type Interpreter struct {
	cfg    Config
	width  float64
	height float64

	// PanEnabled gates drag intents. Panning a view at its fit scale is
	// disabled so single-finger swipes stay available to the enclosing list.
	PanEnabled func() bool
	// SwipeEnabled gates vertical swipe classification. When it reports
	// false, vertical movement is treated as a drag.
	SwipeEnabled func() bool

	sess session
	tap  *pendingTap
}

// NewInterpreter creates an interpreter for a surface of the given size.
func NewInterpreter(cfg Config, width, height float64) *Interpreter {
	if cfg.Slop <= 0 {
		cfg.Slop = DefaultConfig().Slop
	}
	return &Interpreter{cfg: cfg, width: width, height: height}
}

// SetSize updates the surface size used to decide the swipe side.
func (in *Interpreter) SetSize(width, height float64) {
	in.width, in.height = width, height
}

// Classification returns the current gesture's classification.
func (in *Interpreter) Classification() Classification {
	return in.sess.class
}

// Reset abandons the current gesture and any pending tap.
func (in *Interpreter) Reset() {
	in.sess = session{}
	in.tap = nil
}

// PendingTapDeadline reports when a pending single tap resolves, if one is
// waiting for a possible second tap.
func (in *Interpreter) PendingTapDeadline() (time.Time, bool) {
	if in.tap == nil {
		return time.Time{}, false
	}
	return in.tap.at.Add(in.cfg.DoubleTapTimeout), true
}

// Flush resolves a pending single tap whose double-tap window has elapsed.
func (in *Interpreter) Flush(now time.Time) []Intent {
	if in.tap == nil || now.Sub(in.tap.at) <= in.cfg.DoubleTapTimeout {
		return nil
	}
	t := in.tap
	in.tap = nil
	return []Intent{{Kind: IntentTap, X: t.x, Y: t.y}}
}

// Handle consumes one pointer event and returns the intents it produced.
func (in *Interpreter) Handle(ev PointerEvent) []Intent {
	out := in.Flush(ev.Time)

	switch ev.Action {
	case ActionDown:
		p, ok := ev.Primary()
		if !ok {
			return out
		}
		in.sess = session{
			class:    ClassDown,
			downX:    p.X,
			downY:    p.Y,
			downTime: ev.Time,
			lastX:    p.X,
			lastY:    p.Y,
			tappable: true,
		}

	case ActionPointerDown:
		switch in.sess.class {
		case ClassDown, ClassDragging:
			in.sess.class = ClassScaling
			in.sess.tappable = false
			in.sess.prevSpan = span(ev.Pointers)
		case ClassScaling:
			in.sess.prevSpan = span(ev.Pointers)
		}

	case ActionMove:
		out = append(out, in.move(ev)...)

	case ActionPointerUp:
		if in.sess.class == ClassScaling {
			// Restart span tracking with the pointers that remain.
			in.sess.prevSpan = 0
		}

	case ActionUp:
		out = append(out, in.up(ev)...)

	case ActionCancel:
		if in.sess.class != ClassIdle {
			out = append(out, in.end()...)
		}
		in.tap = nil
	}
	return out
}

func (in *Interpreter) move(ev PointerEvent) []Intent {
	p, ok := ev.Primary()
	if !ok {
		return nil
	}
	var out []Intent

	switch in.sess.class {
	case ClassDown:
		dx, dy := p.X-in.sess.downX, p.Y-in.sess.downY
		if math.Abs(dx) <= in.cfg.Slop && math.Abs(dy) <= in.cfg.Slop {
			return nil
		}
		in.sess.tappable = false
		if len(ev.Pointers) >= 2 {
			in.sess.class = ClassScaling
			in.sess.prevSpan = span(ev.Pointers)
			return nil
		}
		if math.Abs(dy) > math.Abs(dx) && math.Abs(dy) > in.cfg.Slop && in.swipeEnabled() {
			in.sess.class = ClassVerticalSwipe
			// Side and direction come from the original down position so
			// the swipe's calibration does not depend on the slop.
			in.sess.side = SideLeft
			if in.sess.downX >= in.width/2 {
				in.sess.side = SideRight
			}
			in.sess.dir = DirectionDown
			if dy < 0 {
				in.sess.dir = DirectionUp
			}
			out = append(out,
				Intent{Kind: IntentSwipeStart, Side: in.sess.side, Direction: in.sess.dir, X: in.sess.downX, Y: in.sess.downY},
				in.swipe(p))
		} else {
			in.sess.class = ClassDragging
			out = append(out, in.drag(p)...)
		}

	case ClassDragging:
		if len(ev.Pointers) >= 2 {
			in.sess.class = ClassScaling
			in.sess.prevSpan = span(ev.Pointers)
			return nil
		}
		out = append(out, in.drag(p)...)

	case ClassScaling:
		if len(ev.Pointers) < 2 {
			return nil
		}
		s := span(ev.Pointers)
		if in.sess.prevSpan > 0 && s > 0 {
			fx, fy := midpoint(ev.Pointers)
			out = append(out, Intent{Kind: IntentScale, Factor: s / in.sess.prevSpan, X: fx, Y: fy})
		}
		in.sess.prevSpan = s

	case ClassVerticalSwipe:
		out = append(out, in.swipe(p))
	}

	in.sess.lastX, in.sess.lastY = p.X, p.Y
	return out
}

func (in *Interpreter) swipeEnabled() bool {
	return in.SwipeEnabled == nil || in.SwipeEnabled()
}

func (in *Interpreter) drag(p Pointer) []Intent {
	dx, dy := p.X-in.sess.lastX, p.Y-in.sess.lastY
	in.sess.lastX, in.sess.lastY = p.X, p.Y
	if in.PanEnabled != nil && !in.PanEnabled() {
		return nil
	}
	return []Intent{{Kind: IntentDrag, DX: dx, DY: dy}}
}

func (in *Interpreter) swipe(p Pointer) Intent {
	return Intent{
		Kind:      IntentSwipe,
		Side:      in.sess.side,
		Direction: in.sess.dir,
		Distance:  in.sess.downY - p.Y,
	}
}

func (in *Interpreter) up(ev PointerEvent) []Intent {
	var out []Intent
	if in.sess.class == ClassDown && in.sess.tappable && ev.Time.Sub(in.sess.downTime) <= in.cfg.TapTimeout {
		x, y := in.sess.downX, in.sess.downY
		if p, ok := ev.Primary(); ok {
			x, y = p.X, p.Y
		}
		if in.tap != nil &&
			ev.Time.Sub(in.tap.at) <= in.cfg.DoubleTapTimeout &&
			math.Hypot(x-in.tap.x, y-in.tap.y) <= in.cfg.DoubleTapSlop {
			in.tap = nil
			out = append(out, Intent{Kind: IntentDoubleTap, X: x, Y: y})
		} else {
			if in.tap != nil {
				out = append(out, Intent{Kind: IntentTap, X: in.tap.x, Y: in.tap.y})
			}
			in.tap = &pendingTap{x: x, y: y, at: ev.Time}
		}
	}
	return append(out, in.end()...)
}

func (in *Interpreter) end() []Intent {
	class := in.sess.class
	var out []Intent
	if class == ClassVerticalSwipe {
		out = append(out, Intent{Kind: IntentSwipeEnd, Side: in.sess.side, Direction: in.sess.dir})
	}
	in.sess = session{}
	return append(out, Intent{Kind: IntentGestureEnd, Class: class})
}

func span(ps []Pointer) float64 {
	if len(ps) < 2 {
		return 0
	}
	return math.Hypot(ps[1].X-ps[0].X, ps[1].Y-ps[0].Y)
}

func midpoint(ps []Pointer) (float64, float64) {
	return (ps[0].X + ps[1].X) / 2, (ps[0].Y + ps[1].Y) / 2
}

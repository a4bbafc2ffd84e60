package zoompan

import (
	"math"
	"time"

	"media-gallery/internal/gesture"
	"media-gallery/internal/logging"
	"media-gallery/internal/viewport"
)

// SurfaceKind distinguishes still images from video surfaces. Continuous
// swipes only apply to video.
type SurfaceKind int

const (
	SurfaceImage SurfaceKind = iota
	SurfaceVideo
)

func (k SurfaceKind) String() string {
	if k == SurfaceVideo {
		return "video"
	}
	return "image"
}

// RenderableSurface receives every transform change. There is one
// implementation per rendering backend.
type RenderableSurface interface {
	ApplyTransform(t viewport.Transform, f viewport.Frame)
}

// EventKind tags an Event.
type EventKind int

const (
	EventZoomChanged EventKind = iota
	EventTransformChanged
	EventValueDisplay
	EventUIAction
	EventPlayPause
)

// Event is emitted to subscribers. Fields are set according to Kind:
// Scale for ZoomChanged, Transform for TransformChanged, Value and Level
// for ValueDisplay, Action for UIAction.
type Event struct {
	Kind      EventKind
	Scale     float64
	Transform viewport.Transform
	Value     ValueKind
	Level     float64
	Action    Action
}

// Options configures a Controller.
type Options struct {
	// MaxScale is normalized into [viewport.LowestMaxScale, viewport.HighestMaxScale].
	MaxScale float64
	Actions  ActionTable
	Kind     SurfaceKind
	Surface  RenderableSurface
	Values   ValueSink
	Gesture  gesture.Config
}

type swipeSession struct {
	active   bool
	action   Action
	baseline float64
	fired    bool
}

// Controller owns the transform of one visible surface and applies the
// zoom, pan and swipe policy to gesture intents. It is not safe for
// concurrent use.
type Controller struct {
	opts      Options
	maxScale  float64
	levels    []float64
	cursor    int
	frame     viewport.Frame
	transform viewport.Transform
	interp    *gesture.Interpreter
	swipe     swipeSession
	subs      []func(Event)
}

// NewController creates a controller. The transform stays at identity until
// both a viewport and a geometry are known.
func NewController(opts Options) *Controller {
	if opts.Values == nil {
		opts.Values = NewLevels(MaxBrightness, MaxVolume)
	}
	if opts.Gesture == (gesture.Config{}) {
		opts.Gesture = gesture.DefaultConfig()
	}
	maxScale := viewport.NormalizeMaxScale(opts.MaxScale)
	c := &Controller{
		opts:      opts,
		maxScale:  maxScale,
		levels:    ZoomLevels(maxScale),
		transform: viewport.Identity(),
		interp:    gesture.NewInterpreter(opts.Gesture, 0, 0),
	}
	c.interp.PanEnabled = c.zoomed
	c.interp.SwipeEnabled = c.swipeable
	return c
}

// ZoomLevels returns the cycle-zoom sequence [1, 2, ..., max]. A fractional
// maximum is appended as the last step.
func ZoomLevels(maxScale float64) []float64 {
	var levels []float64
	for s := viewport.MinScale; s <= maxScale; s++ {
		levels = append(levels, s)
	}
	if last := levels[len(levels)-1]; maxScale-last > 1e-9 {
		levels = append(levels, maxScale)
	}
	return levels
}

// Subscribe registers fn to receive events.
func (c *Controller) Subscribe(fn func(Event)) {
	c.subs = append(c.subs, fn)
}

// SetSurface replaces the render target and pushes the current transform to it.
func (c *Controller) SetSurface(s RenderableSurface) {
	c.opts.Surface = s
	if s != nil && c.frame.Ready() {
		s.ApplyTransform(c.transform, c.frame)
	}
}

// SetKind switches between image and video policy.
func (c *Controller) SetKind(k SurfaceKind) {
	c.opts.Kind = k
}

// SetViewport updates the viewport and resets the zoom.
func (c *Controller) SetViewport(vp viewport.Viewport) {
	c.frame.Viewport = vp
	c.interp.SetSize(vp.Width, vp.Height)
	c.ResetZoom()
}

// SetGeometry records the content's intrinsic size and resets the zoom.
func (c *Controller) SetGeometry(g viewport.Geometry) {
	c.frame.Geometry = g
	c.ResetZoom()
}

// Frame returns the current viewport and geometry.
func (c *Controller) Frame() viewport.Frame {
	return c.frame
}

// CurrentTransform returns the transform the renderer should apply.
func (c *Controller) CurrentTransform() viewport.Transform {
	return c.transform
}

// MaxScale returns the normalized maximum zoom.
func (c *Controller) MaxScale() float64 {
	return c.maxScale
}

// Levels returns the cycle-zoom sequence and the current cursor.
func (c *Controller) Levels() ([]float64, int) {
	return c.levels, c.cursor
}

// ResetZoom returns to the fit scale with the content centered.
func (c *Controller) ResetZoom() {
	c.interp.Reset()
	c.swipe = swipeSession{}
	c.fit()
}

func (c *Controller) fit() {
	c.cursor = 0
	if !c.frame.Ready() {
		c.transform = viewport.Identity()
		return
	}
	c.set(viewport.Centered(c.frame.Viewport, c.frame.Geometry))
}

// CycleZoom advances to the next zoom level, centered on the viewport.
func (c *Controller) CycleZoom() {
	if !c.frame.Ready() {
		return
	}
	c.cursor = (c.cursor + 1) % len(c.levels)
	cx, cy := c.frame.Viewport.Center()
	c.set(c.transform.ScaleTo(c.levels[c.cursor], cx, cy))
}

// syncCursor points the cycle cursor at the level matching the current
// scale, so the next CycleZoom steps past it.
func (c *Controller) syncCursor() {
	for i, l := range c.levels {
		if math.Abs(l-c.transform.Scale) < 1e-9 {
			c.cursor = i
			return
		}
	}
}

// ZoomTo sets an absolute scale anchored at a viewport-local point.
func (c *Controller) ZoomTo(scale, focusX, focusY float64) {
	scale = viewport.ClampScale(scale, viewport.MinScale, c.maxScale)
	c.set(c.transform.ScaleTo(scale, focusX, focusY))
}

// OnPointerEvent feeds raw screen-space input. Coordinates are converted
// into viewport-local space before interpretation.
func (c *Controller) OnPointerEvent(ev gesture.PointerEvent) {
	local := ev.Offset(c.frame.Viewport.OffsetX, c.frame.Viewport.OffsetY)
	c.dispatch(c.interp.Handle(local))
}

// Flush resolves a pending single tap once its double-tap window is over.
func (c *Controller) Flush(now time.Time) {
	c.dispatch(c.interp.Flush(now))
}

// PendingTapDeadline reports when Flush should next be called.
func (c *Controller) PendingTapDeadline() (time.Time, bool) {
	return c.interp.PendingTapDeadline()
}

func (c *Controller) zoomed() bool {
	return c.transform.Scale > viewport.MinScale+1e-9
}

// swipeable reports whether vertical swipes adjust values. Once a video is
// zoomed in, vertical movement pans instead.
func (c *Controller) swipeable() bool {
	return c.opts.Kind == SurfaceVideo && !c.zoomed()
}

func (c *Controller) dispatch(intents []gesture.Intent) {
	for _, in := range intents {
		c.handle(in)
	}
}

func (c *Controller) handle(in gesture.Intent) {
	switch in.Kind {
	case gesture.IntentTap:
		c.perform("single_tap", c.opts.Actions.SingleTap, in.X, in.Y)

	case gesture.IntentDoubleTap:
		c.perform("double_tap", c.opts.Actions.DoubleTap, in.X, in.Y)

	case gesture.IntentScale:
		if !c.frame.Ready() || c.transform.Scale <= 0 {
			return
		}
		target := viewport.ClampScale(c.transform.Scale*in.Factor, viewport.MinScale, c.maxScale)
		c.set(c.transform.ScaleAt(target/c.transform.Scale, in.X, in.Y))

	case gesture.IntentDrag:
		if !c.zoomed() {
			return
		}
		c.set(c.transform.Translate(in.DX, in.DY))

	case gesture.IntentSwipeStart:
		if c.opts.Kind != SurfaceVideo {
			return
		}
		action := c.opts.Actions.SwipeAction(in.Side, in.Direction)
		c.swipe = swipeSession{active: true, action: action, baseline: c.baseline(action)}
		logging.Debug("Swipe started: side=%s direction=%s action=%s", in.Side, in.Direction, action)

	case gesture.IntentSwipe:
		c.swipeMove(in.Distance)

	case gesture.IntentSwipeEnd:
		c.swipe = swipeSession{}

	case gesture.IntentGestureEnd:
		c.swipe = swipeSession{}
		if o := observe(); o != nil {
			o.ObserveGesture(in.Class.String())
			if in.Class == gesture.ClassScaling {
				o.ObserveZoom(c.transform.Scale)
			}
		}
	}
}

func (c *Controller) baseline(a Action) float64 {
	switch k := valueKind(a); k {
	case ValueZoom:
		return c.transform.Scale
	case ValueBrightness, ValueVolume:
		return c.opts.Values.Value(k)
	}
	return 0
}

// swipeMove applies a vertical swipe. distance is measured from the
// gesture's down position, positive upwards.
func (c *Controller) swipeMove(distance float64) {
	if !c.swipe.active || c.swipe.action == ActionNone {
		return
	}
	vpH := c.frame.Viewport.Height
	if vpH <= 0 {
		return
	}

	if !c.swipe.action.Continuous() {
		if c.swipe.fired || math.Abs(distance) <= vpH/6 {
			return
		}
		c.swipe.fired = true
		cx, cy := c.frame.Viewport.Center()
		c.perform("swipe", c.swipe.action, cx, cy)
		return
	}

	kind := valueKind(c.swipe.action)
	lo, hi := valueRange(kind, c.maxScale)
	v := viewport.ClampScale(c.swipe.baseline+distance/(vpH/4)*(hi-lo), lo, hi)

	switch kind {
	case ValueZoom:
		if !c.frame.Ready() {
			return
		}
		cx, cy := c.frame.Viewport.Center()
		c.set(c.transform.ScaleTo(v, cx, cy))
	default:
		c.opts.Values.SetValue(kind, v)
	}
	c.emit(Event{Kind: EventValueDisplay, Value: kind, Level: v})
}

func (c *Controller) perform(trigger string, a Action, x, y float64) {
	switch a {
	case ActionNone, "":
		return
	case ActionToggleUI, ActionShowUI, ActionHideUI:
		c.emit(Event{Kind: EventUIAction, Action: a})
	case ActionPlayPause:
		c.emit(Event{Kind: EventPlayPause, Action: a})
	case ActionZoomInOut:
		if c.zoomed() {
			c.fit()
		} else {
			c.ZoomTo(2, x, y)
			c.syncCursor()
		}
	case ActionCycleZoom:
		c.CycleZoom()
	default:
		logging.Debug("Action %s has no effect on %s", a, trigger)
		return
	}
	if o := observe(); o != nil {
		o.ObserveAction(trigger, string(a))
	}
}

// set clamps t and publishes it when it differs from the current transform.
// Updates are suppressed until the frame is ready.
func (c *Controller) set(t viewport.Transform) {
	if !c.frame.Ready() {
		return
	}
	t.Scale = viewport.ClampScale(t.Scale, viewport.MinScale, c.maxScale)
	t = viewport.Clamp(t, c.frame.Viewport, c.frame.Geometry)
	prev := c.transform
	if t == prev {
		return
	}
	c.transform = t
	if c.opts.Surface != nil {
		c.opts.Surface.ApplyTransform(t, c.frame)
	}
	c.emit(Event{Kind: EventTransformChanged, Transform: t})
	if t.Scale != prev.Scale {
		c.emit(Event{Kind: EventZoomChanged, Scale: t.Scale})
	}
}

func (c *Controller) emit(ev Event) {
	for _, fn := range c.subs {
		fn(ev)
	}
}

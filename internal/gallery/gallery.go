package gallery

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"media-gallery/internal/gesture"
	"media-gallery/internal/logging"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/playback"
	"media-gallery/internal/viewport"
	"media-gallery/internal/zoompan"
)

// DefaultPoolSize covers the focused item and one neighbour on each side.
const DefaultPoolSize = 3

var (
	// ErrOutOfRange is returned for an index outside the item list.
	ErrOutOfRange = errors.New("gallery: index out of range")
	// ErrNotBound is returned when an item is not currently shown by any view.
	ErrNotBound = errors.New("gallery: item not bound to a view")
)

// Options configures a Gallery.
type Options struct {
	PoolSize int
	Viewport viewport.Viewport
	MaxScale float64
	Actions  zoompan.ActionTable
	Gesture  gesture.Config
	Slot     playback.SlotOptions
	// Surface returns the render target for view k. Optional.
	Surface func(k int) zoompan.RenderableSurface
}

type view struct {
	index int
	slot  *playback.Slot
	ctrl  *zoompan.Controller
}

// Gallery is one scrolling list session.
type Gallery struct {
	opts   Options
	items  []mediatypes.Descriptor
	views  []*view
	coord  *playback.Coordinator
	values *zoompan.Levels
	focus  int
	ui     bool
}

// New creates a gallery over items. Nothing is bound until SetFocus.
func New(items []mediatypes.Descriptor, opts Options) *Gallery {
	if opts.PoolSize <= 0 {
		opts.PoolSize = DefaultPoolSize
	}
	if opts.Actions == (zoompan.ActionTable{}) {
		opts.Actions = zoompan.DefaultActionTable()
	}

	g := &Gallery{
		opts:   opts,
		items:  append([]mediatypes.Descriptor(nil), items...),
		coord:  playback.NewCoordinator(),
		values: zoompan.NewLevels(zoompan.MaxBrightness, zoompan.MaxVolume),
		focus:  -1,
		ui:     true,
	}

	for k := range opts.PoolSize {
		v := &view{
			index: -1,
			slot:  playback.NewSlot("slot-"+strconv.Itoa(k), opts.Slot),
		}
		co := zoompan.Options{
			MaxScale: opts.MaxScale,
			Actions:  opts.Actions,
			Values:   g.values,
			Gesture:  opts.Gesture,
		}
		if opts.Surface != nil {
			co.Surface = opts.Surface(k)
		}
		v.ctrl = zoompan.NewController(co)
		v.ctrl.SetViewport(opts.Viewport)
		v.slot.Subscribe(func(ev playback.Event) { g.onSlotEvent(v, ev) })
		v.ctrl.Subscribe(func(ev zoompan.Event) { g.onControllerEvent(v, ev) })
		g.views = append(g.views, v)
		g.coord.Track(v.slot)
	}
	return g
}

// Items returns the descriptors in list order. Geometry reported by the
// decoder is reflected here.
func (g *Gallery) Items() []mediatypes.Descriptor {
	return append([]mediatypes.Descriptor(nil), g.items...)
}

// Item returns the descriptor of item i.
func (g *Gallery) Item(i int) (mediatypes.Descriptor, error) {
	if i < 0 || i >= len(g.items) {
		return mediatypes.Descriptor{}, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	return g.items[i], nil
}

// Len returns the number of items.
func (g *Gallery) Len() int { return len(g.items) }

// Focus returns the focused index, or -1 before the first SetFocus.
func (g *Gallery) Focus() int { return g.focus }

// UIVisible reports the chrome visibility toggled by tap and swipe actions.
func (g *Gallery) UIVisible() bool { return g.ui }

// Values returns the shared brightness and volume levels.
func (g *Gallery) Values() *zoompan.Levels { return g.values }

// LiveCount returns how many decoders are alive.
func (g *Gallery) LiveCount() int { return g.coord.LiveCount() }

// SetFocus makes item i the current page: its neighbours are bound, the
// previous page's zoom is reset and i receives the active-player token.
func (g *Gallery) SetFocus(i int) error {
	if i < 0 || i >= len(g.items) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	if i == g.focus {
		g.coord.Focus(g.viewFor(i).slot)
		return nil
	}

	if prev := g.bound(g.focus); prev != nil {
		prev.ctrl.ResetZoom()
	}

	// Bind the focused item last so a neighbour never evicts it when the
	// pool is smaller than the window.
	half := (g.opts.PoolSize - 1) / 2
	for d := half; d >= 1; d-- {
		for _, j := range []int{i - d, i + d} {
			if j >= 0 && j < len(g.items) {
				g.bind(j)
			}
		}
	}
	v := g.bind(i)

	logging.Debug("Focus %d -> %d (%s)", g.focus, i, g.items[i].Name())
	g.focus = i
	g.coord.Focus(v.slot)
	return nil
}

// ScrollStateChanged reports whether the user is dragging the list.
func (g *Gallery) ScrollStateChanged(dragging bool) {
	g.coord.ScrollStateChanged(dragging)
}

// PointerEvent routes input to the view showing item i.
func (g *Gallery) PointerEvent(i int, ev gesture.PointerEvent) error {
	v, err := g.lookup(i)
	if err != nil {
		return err
	}
	v.ctrl.OnPointerEvent(ev)
	return nil
}

// Flush resolves single taps whose double-tap window has passed.
func (g *Gallery) Flush(now time.Time) {
	for _, v := range g.views {
		v.ctrl.Flush(now)
	}
}

// NextDeadline returns the earliest pending tap deadline across views.
func (g *Gallery) NextDeadline() (time.Time, bool) {
	var (
		next time.Time
		ok   bool
	)
	for _, v := range g.views {
		if d, pending := v.ctrl.PendingTapDeadline(); pending && (!ok || d.Before(next)) {
			next, ok = d, true
		}
	}
	return next, ok
}

// Transform returns the current transform and frame of item i.
func (g *Gallery) Transform(i int) (viewport.Transform, viewport.Frame, error) {
	v, err := g.lookup(i)
	if err != nil {
		return viewport.Transform{}, viewport.Frame{}, err
	}
	return v.ctrl.CurrentTransform(), v.ctrl.Frame(), nil
}

// CycleZoom steps item i to its next zoom level.
func (g *Gallery) CycleZoom(i int) error {
	v, err := g.lookup(i)
	if err != nil {
		return err
	}
	v.ctrl.CycleZoom()
	return nil
}

// ResetZoom returns item i to the fit scale.
func (g *Gallery) ResetZoom(i int) error {
	v, err := g.lookup(i)
	if err != nil {
		return err
	}
	v.ctrl.ResetZoom()
	return nil
}

// Reload clears the retry state of item i and binds it again. If i holds
// the token, preparation restarts.
func (g *Gallery) Reload(i int) error {
	v, err := g.lookup(i)
	if err != nil {
		return err
	}
	v.slot.Reload()
	// An active slot already restarted inside Reload.
	if i == g.focus && !v.slot.Active() {
		g.coord.Focus(v.slot)
	}
	return nil
}

// TogglePlay flips play/pause for item i.
func (g *Gallery) TogglePlay(i int) error {
	v, err := g.lookup(i)
	if err != nil {
		return err
	}
	v.slot.TogglePlay()
	return nil
}

// SlotState returns the playback snapshot for item i.
func (g *Gallery) SlotState(i int) (playback.Snapshot, error) {
	v, err := g.lookup(i)
	if err != nil {
		return playback.Snapshot{}, err
	}
	return v.slot.Snapshot(), nil
}

// SetViewport resizes every view. Zoom resets.
func (g *Gallery) SetViewport(vp viewport.Viewport) {
	g.opts.Viewport = vp
	for _, v := range g.views {
		v.ctrl.SetViewport(vp)
	}
}

// Close releases every decoder and cancels pending timers.
func (g *Gallery) Close() {
	g.coord.ReleaseAll()
}

func (g *Gallery) viewFor(i int) *view {
	return g.views[i%len(g.views)]
}

// bound returns the view showing item i, or nil.
func (g *Gallery) bound(i int) *view {
	if i < 0 || i >= len(g.items) {
		return nil
	}
	if v := g.viewFor(i); v.index == i {
		return v
	}
	return nil
}

func (g *Gallery) lookup(i int) (*view, error) {
	if i < 0 || i >= len(g.items) {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	v := g.bound(i)
	if v == nil {
		return nil, fmt.Errorf("%w: %d", ErrNotBound, i)
	}
	return v, nil
}

func (g *Gallery) bind(i int) *view {
	v := g.viewFor(i)
	if v.index == i {
		return v
	}
	if v.index >= 0 {
		logging.Debug("Recycling %s: %d -> %d", v.slot.ID(), v.index, i)
		g.coord.Recycle(v.slot)
	}

	desc := g.items[i]
	v.index = i
	kind := zoompan.SurfaceImage
	if desc.IsVideo() {
		kind = zoompan.SurfaceVideo
	}
	v.ctrl.SetKind(kind)
	v.ctrl.SetGeometry(viewport.Geometry{
		IntrinsicWidth:  float64(desc.Width),
		IntrinsicHeight: float64(desc.Height),
	})
	v.slot.Bind(desc)
	return v
}

func (g *Gallery) onSlotEvent(v *view, ev playback.Event) {
	if ev.Kind != playback.EventVideoSize || v.index < 0 {
		return
	}
	d := &g.items[v.index]
	if d.Width == ev.Width && d.Height == ev.Height {
		return
	}
	d.Width, d.Height = ev.Width, ev.Height
	v.ctrl.SetGeometry(viewport.Geometry{
		IntrinsicWidth:  float64(ev.Width),
		IntrinsicHeight: float64(ev.Height),
	})
}

func (g *Gallery) onControllerEvent(v *view, ev zoompan.Event) {
	switch ev.Kind {
	case zoompan.EventPlayPause:
		v.slot.TogglePlay()
	case zoompan.EventUIAction:
		switch ev.Action {
		case zoompan.ActionToggleUI:
			g.ui = !g.ui
		case zoompan.ActionShowUI:
			g.ui = true
		case zoompan.ActionHideUI:
			g.ui = false
		}
	}
}

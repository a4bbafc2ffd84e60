package gallery

import (
	"errors"
	"testing"
	"time"

	"media-gallery/internal/gesture"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/playback"
	"media-gallery/internal/timer"
	"media-gallery/internal/viewport"
	"media-gallery/internal/zoompan"
)

type fakePlayer struct {
	desc     mediatypes.Descriptor
	listener playback.Listener
	played   int
	paused   int
	released bool
}

func (p *fakePlayer) Prepare()     {}
func (p *fakePlayer) Play()        { p.played++ }
func (p *fakePlayer) Pause()       { p.paused++ }
func (p *fakePlayer) SeekToStart() {}
func (p *fakePlayer) Release()     { p.released = true }

type fakeFactory struct {
	created []*fakePlayer
}

func (f *fakeFactory) Create(desc mediatypes.Descriptor, l playback.Listener) (playback.Resource, error) {
	p := &fakePlayer{desc: desc, listener: l}
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakeFactory) last() *fakePlayer {
	return f.created[len(f.created)-1]
}

func (f *fakeFactory) live() int {
	n := 0
	for _, p := range f.created {
		if !p.released {
			n++
		}
	}
	return n
}

var testViewport = viewport.Viewport{Width: 400, Height: 800}

var items = []mediatypes.Descriptor{
	mediatypes.NewDescriptor("/m/0.mp4", 1080, 1920, 10*time.Second),
	mediatypes.NewDescriptor("/m/1.mp4", 0, 0, 0),
	mediatypes.NewDescriptor("/m/2.jpg", 400, 800, 0),
	mediatypes.NewDescriptor("/m/3.mp4", 720, 1280, 5*time.Second),
	mediatypes.NewDescriptor("/m/4.jpg", 800, 400, 0),
}

func newTestGallery(t *testing.T, actions zoompan.ActionTable) (*Gallery, *fakeFactory, *timer.Manual) {
	t.Helper()
	clock := timer.NewManual(time.Unix(0, 0))
	factory := &fakeFactory{}
	g := New(items, Options{
		Viewport: testViewport,
		Actions:  actions,
		Slot: playback.SlotOptions{
			Factory:   factory,
			Scheduler: clock,
			Now:       clock.Now,
		},
	})
	t.Cleanup(g.Close)
	return g, factory, clock
}

func tap(t *testing.T, g *Gallery, i int, at time.Time, x, y float64) {
	t.Helper()
	p := []gesture.Pointer{{X: x, Y: y}}
	for _, ev := range []gesture.PointerEvent{
		{Action: gesture.ActionDown, Pointers: p, Time: at},
		{Action: gesture.ActionUp, Pointers: p, Time: at.Add(50 * time.Millisecond)},
	} {
		if err := g.PointerEvent(i, ev); err != nil {
			t.Fatalf("PointerEvent failed: %v", err)
		}
	}
}

func TestSetFocusBindsNeighbours(t *testing.T) {
	g, factory, _ := newTestGallery(t, zoompan.ActionTable{})

	if err := g.SetFocus(1); err != nil {
		t.Fatalf("SetFocus failed: %v", err)
	}
	for _, i := range []int{0, 1, 2} {
		if _, err := g.SlotState(i); err != nil {
			t.Errorf("Expected item %d bound, got %v", i, err)
		}
	}
	if _, err := g.SlotState(3); !errors.Is(err, ErrNotBound) {
		t.Errorf("Expected ErrNotBound for item 3, got %v", err)
	}

	snap, _ := g.SlotState(1)
	if !snap.Active || snap.State != playback.StatePreparing {
		t.Errorf("Expected focused video preparing with the token, got %+v", snap)
	}
	if len(factory.created) != 1 || factory.last().desc.Path != "/m/1.mp4" {
		t.Errorf("Expected one player for the focused item, got %d", len(factory.created))
	}
}

func TestFocusMovesToken(t *testing.T) {
	g, factory, _ := newTestGallery(t, zoompan.ActionTable{})
	if err := g.SetFocus(0); err != nil {
		t.Fatal(err)
	}
	first := factory.last()

	if err := g.SetFocus(1); err != nil {
		t.Fatal(err)
	}
	if !first.released {
		t.Error("Expected previous player released")
	}
	if factory.live() != 1 || g.LiveCount() != 1 {
		t.Errorf("Expected exactly one live player, got %d", factory.live())
	}

	// An image has no player; the token is dropped.
	if err := g.SetFocus(2); err != nil {
		t.Fatal(err)
	}
	if factory.live() != 0 {
		t.Errorf("Expected no live players on an image, got %d", factory.live())
	}
}

func TestScrollingRecyclesViews(t *testing.T) {
	g, _, _ := newTestGallery(t, zoompan.ActionTable{})
	for i := range 4 {
		if err := g.SetFocus(i); err != nil {
			t.Fatal(err)
		}
	}
	// Item 4 was bound as a neighbour of 3 into item 1's view.
	if _, err := g.SlotState(1); !errors.Is(err, ErrNotBound) {
		t.Errorf("Expected item 1 recycled, got %v", err)
	}
	snap, err := g.SlotState(4)
	if err != nil {
		t.Fatalf("Expected item 4 bound, got %v", err)
	}
	if snap.Path != "/m/4.jpg" || snap.Active {
		t.Errorf("Expected inactive image in recycled view, got %+v", snap)
	}
}

func TestVideoSizeUpdatesGeometry(t *testing.T) {
	g, factory, _ := newTestGallery(t, zoompan.ActionTable{})
	if err := g.SetFocus(1); err != nil {
		t.Fatal(err)
	}
	if _, frame, _ := g.Transform(1); frame.Ready() {
		t.Fatal("Expected unknown geometry before the decoder reports a size")
	}

	factory.last().listener.OnVideoSize(1080, 1920)

	_, frame, err := g.Transform(1)
	if err != nil {
		t.Fatal(err)
	}
	if !frame.Ready() || frame.Geometry.IntrinsicWidth != 1080 {
		t.Errorf("Expected geometry 1080x1920, got %+v", frame.Geometry)
	}
	if got := g.Items()[1]; got.Width != 1080 || got.Height != 1920 {
		t.Errorf("Expected item geometry updated, got %dx%d", got.Width, got.Height)
	}
}

func TestZoomResetsWhenPageChanges(t *testing.T) {
	g, _, _ := newTestGallery(t, zoompan.ActionTable{})
	if err := g.SetFocus(2); err != nil {
		t.Fatal(err)
	}

	t0 := time.Unix(10, 0)
	tap(t, g, 2, t0, 200, 400)
	tap(t, g, 2, t0.Add(150*time.Millisecond), 200, 400)

	tr, _, _ := g.Transform(2)
	if tr.Scale != 2 {
		t.Fatalf("Expected double tap to zoom to 2, got %v", tr.Scale)
	}

	if err := g.SetFocus(3); err != nil {
		t.Fatal(err)
	}
	tr, _, _ = g.Transform(2)
	if tr.Scale != 1 {
		t.Errorf("Expected zoom reset after leaving the page, got %v", tr.Scale)
	}
}

func TestTapActions(t *testing.T) {
	actions := zoompan.DefaultActionTable()
	actions.SingleTap = zoompan.ActionPlayPause
	g, factory, _ := newTestGallery(t, actions)
	if err := g.SetFocus(0); err != nil {
		t.Fatal(err)
	}
	player := factory.last()
	player.listener.OnStateChanged(playback.ResourceReady)
	if player.played != 1 {
		t.Fatalf("Expected autoplay on ready, got %d plays", player.played)
	}

	t0 := time.Unix(10, 0)
	tap(t, g, 0, t0, 100, 100)
	g.Flush(t0.Add(time.Second))
	if player.paused != 1 {
		t.Errorf("Expected play/pause tap to pause, got %d pauses", player.paused)
	}
}

func TestToggleUI(t *testing.T) {
	g, _, _ := newTestGallery(t, zoompan.ActionTable{})
	if err := g.SetFocus(2); err != nil {
		t.Fatal(err)
	}

	t0 := time.Unix(10, 0)
	tap(t, g, 2, t0, 100, 100)
	if _, ok := g.NextDeadline(); !ok {
		t.Fatal("Expected a pending tap deadline")
	}
	g.Flush(t0.Add(time.Second))

	if g.UIVisible() {
		t.Error("Expected single tap to hide the UI")
	}
	if _, ok := g.NextDeadline(); ok {
		t.Error("Expected no pending tap after flush")
	}
}

func TestReloadRestartsFocusedSlot(t *testing.T) {
	g, factory, clock := newTestGallery(t, zoompan.ActionTable{})
	if err := g.SetFocus(0); err != nil {
		t.Fatal(err)
	}
	// Two timeouts exhaust the single retry.
	clock.Advance(3 * time.Second)
	clock.Advance(500 * time.Millisecond)
	clock.Advance(3 * time.Second)

	snap, _ := g.SlotState(0)
	if !snap.Invalid {
		t.Fatalf("Expected invalid slot after exhausted retries, got %+v", snap)
	}

	created := len(factory.created)
	if err := g.Reload(0); err != nil {
		t.Fatal(err)
	}
	snap, _ = g.SlotState(0)
	if snap.Invalid || snap.State != playback.StatePreparing {
		t.Errorf("Expected reload to restart preparation, got %+v", snap)
	}
	if len(factory.created) != created+1 {
		t.Errorf("Expected a new player after reload, got %d", len(factory.created)-created)
	}
}

type budget struct {
	used, limit int64
}

func (b *budget) Usage() (int64, int64) { return b.used, b.limit }

type refusalCounter struct {
	refused int
}

func (o *refusalCounter) ObserveState(string)            {}
func (o *refusalCounter) ObserveRetry(string)            {}
func (o *refusalCounter) ObserveRetriesExhausted()       {}
func (o *refusalCounter) ObserveAdmissionRefused()       { o.refused++ }
func (o *refusalCounter) ObserveOutOfMemory()            {}
func (o *refusalCounter) ObservePrepareDuration(float64) {}
func (o *refusalCounter) SetActivePlayers(int)           {}

func TestReloadChecksAdmissionOnce(t *testing.T) {
	obs := &refusalCounter{}
	playback.SetObserver(obs)
	defer playback.SetObserver(nil)

	clock := timer.NewManual(time.Unix(0, 0))
	factory := &fakeFactory{}
	probe := &budget{used: 100 << 20, limit: 1 << 30}
	g := New(items, Options{
		Viewport: testViewport,
		Slot: playback.SlotOptions{
			Factory:   factory,
			Probe:     probe,
			Scheduler: clock,
			Now:       clock.Now,
		},
	})
	defer g.Close()

	if err := g.SetFocus(0); err != nil {
		t.Fatal(err)
	}
	if len(factory.created) != 1 {
		t.Fatalf("Expected one player with memory available, got %d", len(factory.created))
	}

	probe.used = probe.limit - 1<<20
	if err := g.Reload(0); err != nil {
		t.Fatal(err)
	}

	if obs.refused != 1 {
		t.Errorf("Expected admission refused once, got %d", obs.refused)
	}
	if len(factory.created) != 1 || factory.live() != 0 {
		t.Errorf("Expected the old player released and none created, got %d created, %d live", len(factory.created), factory.live())
	}
	snap, _ := g.SlotState(0)
	if snap.Fallback != playback.FallbackThumbnail || snap.Reason != playback.ReasonAdmissionRefused {
		t.Errorf("Expected thumbnail fallback after refusal, got %+v", snap)
	}
	if !snap.Active {
		t.Errorf("Expected focused slot to keep the token, got %+v", snap)
	}
}

func TestIndexErrors(t *testing.T) {
	g, _, _ := newTestGallery(t, zoompan.ActionTable{})

	if err := g.SetFocus(len(items)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
	if err := g.CycleZoom(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
	if err := g.Reload(0); !errors.Is(err, ErrNotBound) {
		t.Errorf("Expected ErrNotBound before any focus, got %v", err)
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	g, factory, clock := newTestGallery(t, zoompan.ActionTable{})
	if err := g.SetFocus(0); err != nil {
		t.Fatal(err)
	}
	g.Close()
	if factory.live() != 0 || clock.Pending() != 0 {
		t.Errorf("Expected no live players or timers, got %d and %d", factory.live(), clock.Pending())
	}
}

package playback

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"media-gallery/internal/mediatypes"
)

func TestFocusHandOff(t *testing.T) {
	h := newHarness()
	a, b := h.slot("a"), h.slot("b")
	a.Bind(videoA)
	b.Bind(videoB)
	c := NewCoordinator(a, b)

	c.Focus(a)
	if c.Active() != a || !a.Live() {
		t.Fatalf("Expected a to hold the token with a live player")
	}
	first := h.factory.last()

	c.Focus(b)
	if !first.released {
		t.Error("Expected a's player released before b starts")
	}
	if a.State() != StateReleased {
		t.Errorf("Expected a released, got %v", a.State())
	}
	if c.Active() != b || b.State() != StatePreparing {
		t.Errorf("Expected b preparing with the token, got %v", b.State())
	}
	if c.LiveCount() != 1 {
		t.Errorf("Expected 1 live player, got %d", c.LiveCount())
	}
}

func TestImagesNeverTakeToken(t *testing.T) {
	h := newHarness()
	v, img := h.slot("v"), h.slot("i")
	v.Bind(videoA)
	img.Bind(photo)
	c := NewCoordinator(v, img)

	c.Focus(v)
	c.Focus(img)
	if c.Active() != nil {
		t.Errorf("Expected no token holder for an image, got %s", c.Active().ID())
	}
	if v.Live() {
		t.Error("Expected video released when an image gains focus")
	}
	if len(h.factory.created) != 1 {
		t.Errorf("Expected no resource for the image, got %d created", len(h.factory.created))
	}
}

func TestSingleActiveInvariant(t *testing.T) {
	h := newHarness()
	descs := []mediatypes.Descriptor{videoA, photo, videoB, videoA, photo, videoB}
	slots := make([]*Slot, len(descs))
	for i, d := range descs {
		slots[i] = h.slot(string(rune('a' + i)))
		slots[i].Bind(d)
	}
	c := NewCoordinator(slots...)

	check := func(step int) {
		t.Helper()
		decoding := 0
		for _, s := range slots {
			if s.State().Decoding() {
				decoding++
			}
		}
		if decoding > 1 {
			t.Fatalf("Step %d: expected at most one decoding slot, got %d", step, decoding)
		}
		if h.factory.live() > 1 {
			t.Fatalf("Step %d: expected at most one live resource, got %d", step, h.factory.live())
		}
	}

	rng := rand.New(rand.NewSource(7))
	for step := 0; step < 200; step++ {
		switch rng.Intn(6) {
		case 0, 1, 2:
			c.Focus(slots[rng.Intn(len(slots))])
		case 3:
			if r := h.factory.last(); r != nil && !r.released {
				r.listener.OnStateChanged(ResourceReady)
			}
		case 4:
			c.ScrollStateChanged(rng.Intn(2) == 0)
		case 5:
			h.clock.Advance(time.Duration(rng.Intn(4000)) * time.Millisecond)
		}
		check(step)
	}
}

func TestScrollPausesWithoutRelease(t *testing.T) {
	h := newHarness()
	s := h.slot("a")
	s.Bind(videoA)
	c := NewCoordinator(s)
	c.Focus(s)
	r := h.factory.last()
	r.listener.OnStateChanged(ResourceReady)

	c.ScrollStateChanged(true)
	if r.released || r.paused != 1 {
		t.Errorf("Expected pause without release, got paused=%d released=%v", r.paused, r.released)
	}
	c.ScrollStateChanged(false)
	if r.played != 2 {
		t.Errorf("Expected playback resumed after drag, got %d plays", r.played)
	}
}

func TestFocusDuringDragDefersPlayback(t *testing.T) {
	h := newHarness()
	s := h.slot("a")
	s.Bind(videoA)
	c := NewCoordinator(s)

	c.ScrollStateChanged(true)
	c.Focus(s)
	r := h.factory.last()
	r.listener.OnStateChanged(ResourceReady)
	if r.played != 0 {
		t.Errorf("Expected no autoplay while dragging, got %d plays", r.played)
	}
	c.ScrollStateChanged(false)
	if r.played != 1 {
		t.Errorf("Expected playback once the drag ended, got %d plays", r.played)
	}
}

func TestRecycleReleasesUnconditionally(t *testing.T) {
	h := newHarness()
	a, b := h.slot("a"), h.slot("b")
	a.Bind(videoA)
	b.Bind(videoB)
	c := NewCoordinator(a, b)
	c.Focus(a)

	c.Recycle(a)
	if a.Live() || c.Active() != nil {
		t.Error("Expected recycled holder released and token dropped")
	}

	c.Recycle(b)
	if b.State() != StateReleased {
		t.Errorf("Expected non-holder released too, got %v", b.State())
	}
}

func TestReleaseAll(t *testing.T) {
	h := newHarness()
	a := h.slot("a")
	a.Bind(videoA)
	c := NewCoordinator(a)
	c.Focus(a)
	h.factory.last().listener.OnError(errors.New("network unreachable"))

	c.ReleaseAll()
	if h.factory.live() != 0 || h.clock.Pending() != 0 {
		t.Errorf("Expected everything released, got %d live and %d timers", h.factory.live(), h.clock.Pending())
	}
	if c.Active() != nil {
		t.Error("Expected no token holder after teardown")
	}
}

type countingObserver struct {
	states    map[string]int
	retries   int
	exhausted int
	refused   int
	oom       int
	prepares  int
	active    int
}

func (o *countingObserver) ObserveState(s string)          { o.states[s]++ }
func (o *countingObserver) ObserveRetry(string)            { o.retries++ }
func (o *countingObserver) ObserveRetriesExhausted()       { o.exhausted++ }
func (o *countingObserver) ObserveAdmissionRefused()       { o.refused++ }
func (o *countingObserver) ObserveOutOfMemory()            { o.oom++ }
func (o *countingObserver) ObservePrepareDuration(float64) { o.prepares++ }
func (o *countingObserver) SetActivePlayers(n int)         { o.active = n }

func TestObserver(t *testing.T) {
	obs := &countingObserver{states: map[string]int{}}
	SetObserver(obs)
	defer SetObserver(nil)

	h := newHarness()
	s := h.slot("a")
	s.Bind(videoA)
	c := NewCoordinator(s)
	c.Focus(s)
	if obs.active != 1 {
		t.Errorf("Expected 1 active player, got %d", obs.active)
	}

	h.clock.Advance(3 * time.Second)
	h.clock.Advance(500 * time.Millisecond)
	h.factory.last().listener.OnStateChanged(ResourceReady)

	if obs.retries != 1 || obs.prepares != 1 || obs.states["ready"] != 1 {
		t.Errorf("Unexpected observations: %+v", obs)
	}

	c.Focus(nil)
	if obs.active != 0 {
		t.Errorf("Expected 0 active players, got %d", obs.active)
	}
}

package playback

import (
	"media-gallery/internal/logging"
)

// Coordinator holds the active-player token: at most one tracked slot is
// allowed to own a decoding resource at any time. It must be used from the
// goroutine that owns the slots.
type Coordinator struct {
	slots    []*Slot
	active   *Slot
	dragging bool
}

// NewCoordinator creates a coordinator for the given slots.
func NewCoordinator(slots ...*Slot) *Coordinator {
	c := &Coordinator{}
	c.Track(slots...)
	return c
}

// Track adds slots to the set released on teardown.
func (c *Coordinator) Track(slots ...*Slot) {
	c.slots = append(c.slots, slots...)
}

// Active returns the slot holding the token, or nil.
func (c *Coordinator) Active() *Slot {
	return c.active
}

// Dragging reports whether the list is being scrolled.
func (c *Coordinator) Dragging() bool {
	return c.dragging
}

// Focus hands the token to s. The previous holder is fully released before
// s may create a resource. Slots without video content never take the
// token. A nil s just releases the current holder.
func (c *Coordinator) Focus(s *Slot) {
	if s != nil && s == c.active {
		s.SetActive(true)
		c.report()
		return
	}

	if prev := c.active; prev != nil {
		c.active = nil
		prev.SetActive(false)
		if prev.Live() {
			// Release must be synchronous; never start a second resource
			// while the first is alive.
			logging.Error("Slot %s still holds a player after release, refusing hand-off", prev.ID())
			c.report()
			return
		}
	}

	if s == nil {
		c.report()
		return
	}
	desc, ok := s.Descriptor()
	if !ok || !desc.IsVideo() {
		c.report()
		return
	}

	c.active = s
	if c.dragging {
		s.Suspend()
	} else {
		s.Resume()
	}
	s.SetActive(true)
	c.report()
}

// ScrollStateChanged pauses the active player while the list is dragged and
// resumes it when the drag ends. Nothing is released.
func (c *Coordinator) ScrollStateChanged(dragging bool) {
	c.dragging = dragging
	if c.active == nil {
		return
	}
	if dragging {
		c.active.Suspend()
	} else {
		c.active.Resume()
	}
}

// Recycle releases s unconditionally before its view is reused for other
// content, dropping the token if s held it.
func (c *Coordinator) Recycle(s *Slot) {
	if s == nil {
		return
	}
	if s == c.active {
		c.active = nil
	}
	s.deactivate(ReleaseRecycled)
	c.report()
}

// ReleaseAll tears down every tracked slot.
func (c *Coordinator) ReleaseAll() {
	c.active = nil
	for _, s := range c.slots {
		s.deactivate(ReleaseTeardown)
	}
	c.report()
}

// LiveCount returns the number of tracked slots holding a resource.
func (c *Coordinator) LiveCount() int {
	n := 0
	for _, s := range c.slots {
		if s.Live() {
			n++
		}
	}
	return n
}

func (c *Coordinator) report() {
	if o := observe(); o != nil {
		o.SetActivePlayers(c.LiveCount())
	}
}

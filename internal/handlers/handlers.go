package handlers

import (
	"context"
	"errors"
	"time"

	"media-gallery/internal/gallery"
	"media-gallery/internal/media"
	"media-gallery/internal/metrics"
	"media-gallery/internal/timer"
)

// Handlers serves one gallery session.
type Handlers struct {
	loop    *timer.Loop
	gallery *gallery.Gallery // owned by loop
	images  *media.Cache
	stats   metrics.StatsProvider
	started time.Time
	now     func() time.Time
}

// New creates handlers for g. g must only be used from loop from now on.
// g may be nil until the first SwapGallery; stats may be nil.
func New(loop *timer.Loop, g *gallery.Gallery, images *media.Cache, stats metrics.StatsProvider) *Handlers {
	if images == nil {
		images = media.NewCache(media.DefaultCacheSize)
	}
	return &Handlers{
		loop:    loop,
		gallery: g,
		images:  images,
		stats:   stats,
		started: time.Now(),
		now:     time.Now,
	}
}

// errNoGallery is returned before the first session is installed.
var errNoGallery = errors.New("handlers: no gallery loaded")

// call runs fn with the gallery on the loop and waits for it.
func (h *Handlers) call(ctx context.Context, fn func(g *gallery.Gallery)) error {
	missing := false
	err := h.loop.Call(ctx, func() {
		if h.gallery == nil {
			missing = true
			return
		}
		fn(h.gallery)
	})
	if err == nil && missing {
		return errNoGallery
	}
	return err
}

// SwapGallery replaces the session after a rescan. The old gallery is
// closed and focus moves to the same index, clamped to the new list.
func (h *Handlers) SwapGallery(ctx context.Context, g *gallery.Gallery) error {
	return h.loop.Call(ctx, func() {
		focus := 0
		if old := h.gallery; old != nil {
			focus = old.Focus()
			old.Close()
		}
		h.gallery = g
		if g.Len() == 0 {
			return
		}
		if focus >= g.Len() {
			focus = g.Len() - 1
		}
		if focus < 0 {
			focus = 0
		}
		_ = g.SetFocus(focus)
	})
}

// FlushTaps resolves single taps whose double-tap window ended before now.
// It must run on the loop.
func (h *Handlers) FlushTaps(now time.Time) {
	if h.gallery != nil {
		h.gallery.Flush(now)
	}
}

// Close releases every player of the current session.
func (h *Handlers) Close(ctx context.Context) error {
	return h.loop.Call(ctx, func() {
		if h.gallery != nil {
			h.gallery.Close()
		}
	})
}

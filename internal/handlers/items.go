package handlers

import (
	"net/http"
	"time"

	"media-gallery/internal/gallery"
	"media-gallery/internal/gesture"
	"media-gallery/internal/playback"
	"media-gallery/internal/viewport"
)

// ItemState is the view state of one bound item.
type ItemState struct {
	Index     int                `json:"index"`
	Transform viewport.Transform `json:"transform"`
	Frame     viewport.Frame     `json:"frame"`
	Player    playback.Snapshot  `json:"player"`
}

// PointerRequest is one raw pointer sample. Action is a gesture action
// name such as "down" or "pointer_down". TimeMs is a Unix millisecond
// timestamp; the server clock is used when it is zero.
type PointerRequest struct {
	Action   string            `json:"action"`
	Pointers []gesture.Pointer `json:"pointers"`
	TimeMs   int64             `json:"timeMs,omitempty"`
}

func itemState(g *gallery.Gallery, i int) (ItemState, error) {
	t, f, err := g.Transform(i)
	if err != nil {
		return ItemState{}, err
	}
	snap, err := g.SlotState(i)
	if err != nil {
		return ItemState{}, err
	}
	return ItemState{Index: i, Transform: t, Frame: f, Player: snap}, nil
}

// itemAction runs op on item {index} and responds with its new state.
func (h *Handlers) itemAction(w http.ResponseWriter, r *http.Request, op func(g *gallery.Gallery, i int) error) {
	i, err := itemIndex(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var (
		state ItemState
		opErr error
	)
	err = h.call(r.Context(), func(g *gallery.Gallery) {
		if opErr = op(g, i); opErr == nil {
			state, opErr = itemState(g, i)
		}
	})
	if err == nil {
		err = opErr
	}
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, state)
}

// GetItem returns the transform and player state of {index}.
func (h *Handlers) GetItem(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, func(*gallery.Gallery, int) error { return nil })
}

// GetPlayer returns only the player snapshot of {index}.
func (h *Handlers) GetPlayer(w http.ResponseWriter, r *http.Request) {
	i, err := itemIndex(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var (
		snap  playback.Snapshot
		opErr error
	)
	err = h.call(r.Context(), func(g *gallery.Gallery) { snap, opErr = g.SlotState(i) })
	if err == nil {
		err = opErr
	}
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, snap)
}

// PointerEvent feeds one pointer sample to the view showing {index}.
func (h *Handlers) PointerEvent(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	action, err := gesture.ParseAction(req.Action)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Pointers) == 0 && action != gesture.ActionCancel {
		writeJSONError(w, "at least one pointer is required", http.StatusBadRequest)
		return
	}
	at := h.now()
	if req.TimeMs > 0 {
		at = time.UnixMilli(req.TimeMs)
	}
	ev := gesture.PointerEvent{Action: action, Pointers: req.Pointers, Time: at}
	h.itemAction(w, r, func(g *gallery.Gallery, i int) error { return g.PointerEvent(i, ev) })
}

// CycleZoom steps {index} to its next zoom level.
func (h *Handlers) CycleZoom(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, (*gallery.Gallery).CycleZoom)
}

// ResetZoom returns {index} to the fit scale.
func (h *Handlers) ResetZoom(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, (*gallery.Gallery).ResetZoom)
}

// Reload clears the retry state of {index} and prepares it again.
func (h *Handlers) Reload(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, (*gallery.Gallery).Reload)
}

// TogglePlay flips play/pause for {index}.
func (h *Handlers) TogglePlay(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, (*gallery.Gallery).TogglePlay)
}

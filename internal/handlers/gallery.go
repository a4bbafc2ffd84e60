package handlers

import (
	"net/http"

	"media-gallery/internal/gallery"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/viewport"
	"media-gallery/internal/zoompan"
)

// ListResponse is the gallery contents and session state.
type ListResponse struct {
	Items     []mediatypes.Descriptor `json:"items"`
	Focus     int                     `json:"focus"`
	UIVisible bool                    `json:"uiVisible"`
}

// LevelsResponse holds the values continuous swipes adjust.
type LevelsResponse struct {
	Brightness float64 `json:"brightness"`
	Volume     float64 `json:"volume"`
}

// ScrollRequest reports the list's drag state.
type ScrollRequest struct {
	Dragging bool `json:"dragging"`
}

// ListItems returns every item in list order.
func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	var resp ListResponse
	err := h.call(r.Context(), func(g *gallery.Gallery) {
		resp = ListResponse{Items: g.Items(), Focus: g.Focus(), UIVisible: g.UIVisible()}
	})
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	if resp.Items == nil {
		resp.Items = []mediatypes.Descriptor{}
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resp)
}

// SetFocus makes {index} the current page.
func (h *Handlers) SetFocus(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, (*gallery.Gallery).SetFocus)
}

// SetScrolling reports whether the user is dragging the list.
func (h *Handlers) SetScrolling(w http.ResponseWriter, r *http.Request) {
	var req ScrollRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.call(r.Context(), func(g *gallery.Gallery) { g.ScrollStateChanged(req.Dragging) }); err != nil {
		writeGalleryError(w, err)
		return
	}
	writeJSONStatus(w, "ok")
}

// SetViewport resizes every view. Zoom resets.
func (h *Handlers) SetViewport(w http.ResponseWriter, r *http.Request) {
	var vp viewport.Viewport
	if err := decodeBody(w, r, &vp); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !vp.Valid() {
		writeJSONError(w, "viewport width and height must be positive", http.StatusBadRequest)
		return
	}
	if err := h.call(r.Context(), func(g *gallery.Gallery) { g.SetViewport(vp) }); err != nil {
		writeGalleryError(w, err)
		return
	}
	writeJSONStatus(w, "ok")
}

// GetLevels returns the shared brightness and volume.
func (h *Handlers) GetLevels(w http.ResponseWriter, r *http.Request) {
	var resp LevelsResponse
	err := h.call(r.Context(), func(g *gallery.Gallery) {
		resp.Brightness = g.Values().Value(zoompan.ValueBrightness)
		resp.Volume = g.Values().Value(zoompan.ValueVolume)
	})
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resp)
}

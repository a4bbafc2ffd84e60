package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"media-gallery/internal/gallery"
	"media-gallery/internal/logging"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/metrics"
	"media-gallery/internal/render/ggsurface"
	"media-gallery/internal/viewport"
	"media-gallery/internal/zoompan"
)

// previewOversample is the cached content size as a multiple of the viewport.
const previewOversample = 2

// Preview renders {index} at its current transform as PNG. Videos and
// images that fail to load are drawn as a placeholder.
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	i, err := itemIndex(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var (
		t          viewport.Transform
		f          viewport.Frame
		desc       mediatypes.Descriptor
		brightness float64
		opErr      error
	)
	err = h.call(r.Context(), func(g *gallery.Gallery) {
		if t, f, opErr = g.Transform(i); opErr != nil {
			return
		}
		desc, opErr = g.Item(i)
		brightness = g.Values().Value(zoompan.ValueBrightness)
	})
	if err == nil {
		err = opErr
	}
	if err != nil {
		writeGalleryError(w, err)
		return
	}

	start := time.Now()
	opts := ggsurface.Options{Brightness: brightness}
	if !desc.IsVideo() && f.Geometry.Known() {
		bw := int(f.Viewport.Width) * previewOversample
		bh := int(f.Viewport.Height) * previewOversample
		img, err := h.images.Get(desc.Path, bw, bh)
		if err != nil {
			logging.Warn("Preview content for %s unavailable: %v", desc.Name(), err)
		} else {
			opts.Content = img
		}
	}

	var buf bytes.Buffer
	if err := ggsurface.EncodePNG(&buf, t, f, opts); err != nil {
		metrics.PreviewRenderErrors.Inc()
		if errors.Is(err, ggsurface.ErrEmptyViewport) {
			writeJSONError(w, "viewport not set", http.StatusConflict)
			return
		}
		logging.Error("Preview render for item %d failed: %v", i, err)
		writeJSONError(w, "failed to render preview", http.StatusInternalServerError)
		return
	}
	metrics.PreviewRenderDuration.WithLabelValues(previewKind(desc)).Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Debug("failed to write preview: %v", err)
	}
}

func previewKind(d mediatypes.Descriptor) string {
	if d.IsVideo() {
		return string(mediatypes.FileTypeVideo)
	}
	return string(mediatypes.FileTypeImage)
}

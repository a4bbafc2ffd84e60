package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"media-gallery/internal/gallery"
	"media-gallery/internal/logging"
	"media-gallery/internal/timer"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 16

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": status})
}

// writeGalleryError maps gallery and loop errors to status codes.
func writeGalleryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gallery.ErrOutOfRange):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, gallery.ErrNotBound):
		writeJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, errNoGallery):
		writeJSONError(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, timer.ErrLoopStopped):
		writeJSONError(w, "gallery is shutting down", http.StatusServiceUnavailable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSONError(w, "request canceled", http.StatusServiceUnavailable)
	default:
		logging.Error("gallery request failed: %v", err)
		writeJSONError(w, "internal error", http.StatusInternalServerError)
	}
}

// itemIndex reads the {index} route variable.
func itemIndex(r *http.Request) (int, error) {
	raw := mux.Vars(r)["index"]
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid item index %q", raw)
	}
	return i, nil
}

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, state := range []string{"idle", "preparing", "ready", "buffering", "ended", "error", "released"} {
		PlayerStateTransitions.WithLabelValues(state)
	}

	for _, reason := range []string{"prepare_timeout", "decode_transient"} {
		PlayerRetriesTotal.WithLabelValues(reason)
	}

	for _, class := range []string{"idle", "down", "dragging", "scaling", "vertical_swipe"} {
		GesturesTotal.WithLabelValues(class)
	}

	// Only the tap and swipe triggers that can perform an action.
	for _, trigger := range []string{"single_tap", "double_tap", "swipe"} {
		for _, action := range []string{"toggle_ui", "show_ui", "hide_ui", "play_pause", "zoom_in_out", "cycle_zoom"} {
			GestureActionsTotal.WithLabelValues(trigger, action)
		}
	}

	for _, kind := range []string{"image", "video"} {
		CatalogItems.WithLabelValues(kind)
		CatalogProbeDuration.WithLabelValues(kind)
		CatalogProbesTotal.WithLabelValues(kind, "success")
		CatalogProbesTotal.WithLabelValues(kind, "error")
	}

	for _, op := range []string{"stat", "open", "readdir"} {
		FilesystemStaleErrors.WithLabelValues(op)
		FilesystemRetries.WithLabelValues(op, "recovered")
		FilesystemRetries.WithLabelValues(op, "failed")
	}

	for _, kind := range []string{"image", "video"} {
		PreviewRenderDuration.WithLabelValues(kind)
	}
}

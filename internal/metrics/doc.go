// Package metrics provides Prometheus instrumentation for the gallery.
//
// All metrics are prefixed with "media_gallery_" and registered through
// promauto on the default registry.
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of requests by method, path and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Player Metrics
//
// Track the decoding resource lifecycle of playback slots:
//   - PlayerStateTransitions: Counter of slot state changes by target state
//   - PlayerRetriesTotal: Counter of scheduled retries by reason
//   - PlayerRetriesExhausted: Counter of slots marked invalid
//   - PlayerAdmissionRefused: Counter of creations refused for memory
//   - PlayerOutOfMemory: Counter of decode failures classified as OOM
//   - PlayerPrepareDuration: Histogram of creation-to-ready time
//   - PlayersActive: Gauge of slots holding a live resource (0 or 1 when
//     the coordinator is doing its job)
//
// ## Gesture Metrics
//
//   - GesturesTotal: Counter of finished gestures by classification
//   - ZoomScale: Histogram of the scale each pinch settles at
//   - GestureActionsTotal: Counter of tap and swipe actions by trigger
//
// ## Memory and Catalog Metrics
//
//   - MemoryUsageRatio, MemoryPaused, MemoryGCPauses: set by the memory
//     monitor
//   - CatalogItems, CatalogProbesTotal, CatalogProbeDuration,
//     CatalogLastScanTimestamp: set by the catalog and the [Collector]
//
// # Observers
//
// The playback and zoompan packages do not import this package. They
// report through small Observer interfaces instead, wired at startup:
//
//	playback.SetObserver(metrics.NewPlaybackObserver())
//	zoompan.SetObserver(metrics.NewGestureObserver())
//
// # Initialization
//
// [InitializeMetrics] touches every expected label combination so series
// appear on the first scrape rather than after the first event.
package metrics

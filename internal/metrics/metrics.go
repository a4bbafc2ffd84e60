package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_gallery_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Player metrics
var (
	PlayerStateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_gallery_player_state_transitions_total",
			Help: "Total number of player slot state transitions by target state",
		},
		[]string{"state"},
	)

	PlayerRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_gallery_player_retries_total",
			Help: "Total number of scheduled player retries by reason",
		},
		[]string{"reason"},
	)

	PlayerRetriesExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_gallery_player_retries_exhausted_total",
			Help: "Total number of slots marked invalid after exhausting retries",
		},
	)

	PlayerAdmissionRefused = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_gallery_player_admission_refused_total",
			Help: "Total number of player creations refused by memory admission control",
		},
	)

	PlayerOutOfMemory = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_gallery_player_out_of_memory_total",
			Help: "Total number of decode failures classified as out of memory",
		},
	)

	PlayerPrepareDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_gallery_player_prepare_duration_seconds",
			Help:    "Time from player creation to ready in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		},
	)

	PlayersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_gallery_players_active",
			Help: "Number of slots currently holding a live decoding resource",
		},
	)
)

// Gesture metrics
var (
	GesturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_gallery_gestures_total",
			Help: "Total number of finished gestures by classification",
		},
		[]string{"class"},
	)

	ZoomScale = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_gallery_zoom_scale",
			Help:    "Zoom scale at the end of each pinch gesture",
			Buckets: []float64{1, 1.5, 2, 3, 4, 5, 7.5, 10},
		},
	)

	GestureActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_gallery_gesture_actions_total",
			Help: "Total number of tap and swipe actions performed",
		},
		[]string{"trigger", "action"},
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_gallery_memory_usage_ratio",
			Help: "Heap usage as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_gallery_memory_paused",
			Help: "Whether catalog probes are paused for memory pressure (1 = paused, 0 = running)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_gallery_memory_gc_pauses_total",
			Help: "Total number of times memory pressure paused catalog probes",
		},
	)
)

// Catalog metrics
var (
	CatalogItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_gallery_catalog_items",
			Help: "Number of catalogued media items by kind",
		},
		[]string{"kind"},
	)

	CatalogProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_gallery_catalog_probes_total",
			Help: "Total number of media geometry probes",
		},
		[]string{"kind", "status"},
	)

	CatalogProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_gallery_catalog_probe_duration_seconds",
			Help:    "Media geometry probe duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind"},
	)

	CatalogLastScanTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_gallery_catalog_last_scan_timestamp",
			Help: "Unix timestamp of the last completed directory scan",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_gallery_filesystem_stale_errors_total",
			Help: "Total number of NFS stale file handle errors by operation",
		},
		[]string{"operation"},
	)

	FilesystemRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_gallery_filesystem_retries_total",
			Help: "Operations that hit a stale file handle, by outcome (recovered, failed)",
		},
		[]string{"operation", "outcome"},
	)
)

// Preview metrics
var (
	PreviewRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_gallery_preview_render_duration_seconds",
			Help:    "Time to render and encode a preview frame",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
		[]string{"kind"},
	)

	PreviewRenderErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_gallery_preview_render_errors_total",
			Help: "Total number of failed preview renders",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_gallery_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}

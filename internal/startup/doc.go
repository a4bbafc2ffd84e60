// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// The following environment variables are supported:
//
//   - MEDIA_DIR: Directory shown as the gallery (default: /media)
//   - DATABASE_DIR: Directory holding the catalog database (default: /database)
//   - PORT: HTTP control API port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - SCAN_INTERVAL: Catalog rescan interval as Go duration (default: 30m)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//   - LOG_PREVIEWS: Log rendered preview requests (default: false)
//   - VIEWPORT_WIDTH, VIEWPORT_HEIGHT: Default viewport (default: 1080x1920)
//   - MAX_ZOOM_SCALE: Maximum zoom, clamped to 3-10 (default: 5)
//   - SINGLE_TAP_ACTION, DOUBLE_TAP_ACTION: Tap bindings
//     (default: toggle_ui, zoom_in_out)
//   - SWIPE_LEFT_UP, SWIPE_LEFT_DOWN, SWIPE_RIGHT_UP, SWIPE_RIGHT_DOWN:
//     Vertical swipe bindings (default: show_ui, hide_ui, brightness, brightness)
//   - SLOT_POOL_SIZE: Number of recycled player views (default: 3)
//   - PLAYER_LOAD_TIMEOUT: Prepare timeout (default: 3s)
//   - PLAYER_MAX_RETRIES: Automatic retries per bind (default: 1)
//   - PLAYER_RETRY_COOLDOWN: Delay before a retry (default: 500ms)
//   - MEMORY_CRITICAL_RATIO: Usage ratio refusing new players (default: 0.95)
//   - MEMORY_MIN_HEADROOM: Free bytes required for a new player, plain or
//     with a unit such as 20MiB (default: 20MiB)
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: Go memory limit, see package memory
//   - PROBE_WORKERS: Catalog probe concurrency, see package workers
//
// Action names are none, toggle_ui, show_ui, hide_ui, play_pause,
// zoom_in_out, cycle_zoom, zoom, brightness and volume. Invalid values of
// any variable log a warning and fall back to the default.
//
// # Directory Setup
//
// The media directory is created when missing; failures there only warn,
// since an empty gallery is still usable. The database directory must be
// writable or LoadConfig fails.
//
// # Startup Logging
//
// The package prints a banner and logs each initialization phase in a
// sectioned format, including the registered HTTP routes at debug level.
package startup

// Package main provides the entry point for the gallery daemon.
//
// The daemon catalogs a media directory and serves one scrolling gallery
// session over HTTP. Clients report pointer input, focus and scroll state;
// the daemon interprets gestures, keeps each item's zoom transform, and
// runs at most one video player at a time.
//
// # Application Lifecycle
//
//  1. Memory Configuration: Sets GOMEMLIMIT from MEMORY_LIMIT
//  2. Configuration Loading: Reads environment variables and validates directories
//  3. Metrics: Registers Prometheus collectors and domain observers
//  4. Catalog: Opens the SQLite catalog and scans MEDIA_DIR
//  5. Gallery: Starts the event loop that owns slots, players and timers
//  6. HTTP Server Setup: Configures routes and middleware, then serves
//  7. Graceful Shutdown: Handles SIGINT/SIGTERM, releases players, stops workers
//
// # Background Services
//
//   - Frame ticker: advances players and resolves single taps every 33ms
//   - Rescanner: rescans MEDIA_DIR every SCAN_INTERVAL and swaps in a new
//     gallery when the item list changed
//   - Memory monitor: samples heap usage for player admission and probe throttling
//   - Metrics collector: publishes catalog statistics every minute
//
// # HTTP Server
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 8080): health, version and the /api session routes
//  2. Metrics Server (default port 9090, optional): /metrics and /health
//
// See package startup for the environment variables.
package main

// Package middleware provides HTTP middleware for the gallery daemon.
//
// Logger writes one W3C Extended Log Format line per request through the
// application logger, with user-controlled fields sanitized against log
// injection. Metrics records request counts, latencies and in-flight
// requests, labelling each request with its mux route template so that
// item indexes do not explode label cardinality.
package middleware

// Package logging provides a simple leveled logging interface for the
// gallery server, the terminal front end and the playback core.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (gesture classification, timers)
//   - INFO: General operational messages
//   - WARN: Warning conditions (admission refused, retries)
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, or
// forced to debug with DEBUG=true. Records are written through log/slog's
// text handler.
package logging

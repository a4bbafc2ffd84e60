package playback

import (
	"errors"
	"strings"
)

// ErrOutOfMemory marks a decoding failure caused by memory exhaustion.
// Decoders should wrap it so the slot can skip the retry path.
var ErrOutOfMemory = errors.New("playback: out of memory")

// ErrPrepareTimeout is reported when a resource does not become ready within
// the load timeout.
var ErrPrepareTimeout = errors.New("playback: prepare timed out")

// Reason is the diagnostic attached to a state change.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonAdmissionRefused  Reason = "admission_refused"
	ReasonPrepareTimeout    Reason = "prepare_timeout"
	ReasonDecodeTransient   Reason = "decode_transient"
	ReasonDecodeOutOfMemory Reason = "decode_out_of_memory"
	ReasonRetriesExhausted  Reason = "retries_exhausted"
)

// IsOutOfMemory reports whether err is a memory exhaustion failure, either
// wrapping ErrOutOfMemory or carrying an allocation failure message.
//
// Decoder errors often arrive as plain strings from external processes, so
// classification falls back to message heuristics.
func IsOutOfMemory(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrOutOfMemory) {
		return true
	}
	return containsMemoryKeywords(strings.ToLower(err.Error()))
}

// classify maps a decoding error to a reason.
func classify(err error) Reason {
	switch {
	case IsOutOfMemory(err):
		return ReasonDecodeOutOfMemory
	case errors.Is(err, ErrPrepareTimeout):
		return ReasonPrepareTimeout
	default:
		return ReasonDecodeTransient
	}
}

func containsMemoryKeywords(msg string) bool {
	keywords := []string{
		"out of memory",
		"outofmemory",
		"cannot allocate memory",
		"insufficient memory",
		"memory allocation failed",
		"failed to allocate",
		"enomem",
	}
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

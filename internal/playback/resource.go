package playback

import (
	"fmt"
	"time"

	"media-gallery/internal/mediatypes"
)

// ResourceState is a readiness change reported by a decoding resource.
type ResourceState int

const (
	// ResourceReady means enough is buffered to play.
	ResourceReady ResourceState = iota
	// ResourceBuffering means playback stalled waiting for data.
	ResourceBuffering
	// ResourceEnded means the playhead reached the end of the content.
	ResourceEnded
)

func (s ResourceState) String() string {
	switch s {
	case ResourceReady:
		return "ready"
	case ResourceBuffering:
		return "buffering"
	case ResourceEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Listener receives notifications from a Resource. Calls must be delivered
// on the goroutine that owns the slot.
type Listener interface {
	OnStateChanged(s ResourceState)
	OnError(err error)
	OnVideoSize(width, height int)
}

// Resource is one expensive decoding pipeline bound to a single piece of
// media.
type Resource interface {
	Prepare()
	Play()
	Pause()
	SeekToStart()
	// Release stops playback, detaches from the surface and frees the
	// resource. The resource must not call its listener afterwards.
	Release()
}

// ResourceFactory creates decoding resources.
type ResourceFactory interface {
	Create(desc mediatypes.Descriptor, l Listener) (Resource, error)
}

// ResourceBudgetProbe reports current memory usage against the budget
// available to decoding resources. A limit of zero means unknown.
type ResourceBudgetProbe interface {
	Usage() (used, limit int64)
}

// AdmissionConfig holds the memory pressure thresholds checked before each
// resource is created.
type AdmissionConfig struct {
	// CriticalRatio refuses creation when used/limit reaches it.
	CriticalRatio float64
	// MinHeadroom refuses creation when fewer bytes than this remain.
	MinHeadroom int64
}

// DefaultAdmissionConfig returns the default thresholds: 95% of the budget
// and 20 MiB of headroom.
func DefaultAdmissionConfig() AdmissionConfig {
	return AdmissionConfig{
		CriticalRatio: 0.95,
		MinHeadroom:   20 << 20,
	}
}

// Admit reports whether a new resource may be created. When refused, the
// returned string describes why.
func (a AdmissionConfig) Admit(p ResourceBudgetProbe) (bool, string) {
	if p == nil {
		return true, ""
	}
	used, limit := p.Usage()
	if limit <= 0 {
		return true, ""
	}
	ratio := float64(used) / float64(limit)
	if a.CriticalRatio > 0 && ratio >= a.CriticalRatio {
		return false, fmt.Sprintf("memory usage %.1f%% at or above critical %.1f%%", ratio*100, a.CriticalRatio*100)
	}
	if headroom := limit - used; headroom < a.MinHeadroom {
		return false, fmt.Sprintf("headroom %d bytes below minimum %d", headroom, a.MinHeadroom)
	}
	return true, ""
}

// Config holds the slot lifecycle tunables.
type Config struct {
	LoadTimeout   time.Duration
	MaxRetries    int
	RetryCooldown time.Duration
	Admission     AdmissionConfig
}

// DefaultConfig returns the default lifecycle configuration.
func DefaultConfig() Config {
	return Config{
		LoadTimeout:   3 * time.Second,
		MaxRetries:    1,
		RetryCooldown: 500 * time.Millisecond,
		Admission:     DefaultAdmissionConfig(),
	}
}

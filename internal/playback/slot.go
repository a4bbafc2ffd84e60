package playback

import (
	"time"

	"github.com/google/uuid"

	"media-gallery/internal/logging"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/timer"
)

// State is the lifecycle state of a slot's decoding resource.
type State int

const (
	StateIdle State = iota
	StatePreparing
	StateReady
	StateBuffering
	StateEnded
	StateError
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreparing:
		return "preparing"
	case StateReady:
		return "ready"
	case StateBuffering:
		return "buffering"
	case StateEnded:
		return "ended"
	case StateError:
		return "error"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// MarshalText lets states appear by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Decoding reports whether the state holds an actively decoding resource.
func (s State) Decoding() bool {
	return s == StatePreparing || s == StateReady || s == StateBuffering
}

// Fallback is what the slot shows instead of live video.
type Fallback int

const (
	FallbackNone Fallback = iota
	// FallbackThumbnail shows a static frame; playback may be retried later.
	FallbackThumbnail
	// FallbackInvalid shows a static frame without a play affordance until
	// the slot is manually reloaded.
	FallbackInvalid
)

func (f Fallback) String() string {
	switch f {
	case FallbackThumbnail:
		return "thumbnail"
	case FallbackInvalid:
		return "invalid"
	default:
		return "none"
	}
}

// MarshalText lets fallbacks appear by name in JSON.
func (f Fallback) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ReleaseCause records why a resource was released.
type ReleaseCause string

const (
	ReleaseExplicit ReleaseCause = "explicit"
	ReleaseRecycled ReleaseCause = "recycled"
	ReleaseTeardown ReleaseCause = "teardown"
	ReleaseHandoff  ReleaseCause = "handoff"
)

// EventKind tags a slot Event.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventVideoSize
)

// Event is emitted to slot subscribers.
type Event struct {
	Kind       EventKind
	Slot       string
	State      State
	RetryCount int
	Reason     Reason
	Fallback   Fallback
	Width      int
	Height     int
}

// Snapshot is a point-in-time view of a slot.
type Snapshot struct {
	ID            string   `json:"id"`
	Path          string   `json:"path,omitempty"`
	State         State    `json:"state"`
	RetryCount    int      `json:"retryCount"`
	HasEverPlayed bool     `json:"hasEverPlayed"`
	Invalid       bool     `json:"invalid"`
	Fallback      Fallback `json:"fallback"`
	Reason        Reason   `json:"reason,omitempty"`
	Active        bool     `json:"active"`
	Playing       bool     `json:"playing"`
	// ShowPlayAffordance is false once retries are exhausted.
	ShowPlayAffordance bool `json:"showPlayAffordance"`
}

// SlotOptions holds a slot's collaborators.
type SlotOptions struct {
	Config    Config
	Factory   ResourceFactory
	Probe     ResourceBudgetProbe
	Scheduler timer.Scheduler
	// Now is used to time prepares. Defaults to time.Now.
	Now func() time.Time
}

// Slot manages the decoding resource for one reusable view position. All
// methods and listener callbacks must run on the same goroutine.
type Slot struct {
	id   string
	opts SlotOptions

	desc    mediatypes.Descriptor
	hasDesc bool

	res Resource
	// gen identifies the current resource; callbacks carrying another
	// generation are stale.
	gen string

	state         State
	reason        Reason
	fallback      Fallback
	retryCount    int
	hasEverPlayed bool
	invalid       bool
	active        bool
	suspended     bool
	userPaused    bool
	playing       bool

	timeoutTok   timer.Token
	retryTok     timer.Token
	prepareStart time.Time

	subs []func(Event)
}

// NewSlot creates an idle slot.
func NewSlot(id string, opts SlotOptions) *Slot {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Config == (Config{}) {
		opts.Config = DefaultConfig()
	}
	return &Slot{id: id, opts: opts}
}

// ID returns the slot identifier.
func (s *Slot) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Slot) State() State { return s.state }

// Descriptor returns the bound media, if any.
func (s *Slot) Descriptor() (mediatypes.Descriptor, bool) {
	return s.desc, s.hasDesc
}

// Live reports whether the slot currently holds a decoding resource.
func (s *Slot) Live() bool { return s.res != nil }

// Active reports whether the slot holds the active-player token.
func (s *Slot) Active() bool { return s.active }

// Subscribe registers fn to receive slot events.
func (s *Slot) Subscribe(fn func(Event)) {
	s.subs = append(s.subs, fn)
}

// Snapshot returns the slot's current state.
func (s *Slot) Snapshot() Snapshot {
	snap := Snapshot{
		ID:                 s.id,
		State:              s.state,
		RetryCount:         s.retryCount,
		HasEverPlayed:      s.hasEverPlayed,
		Invalid:            s.invalid,
		Fallback:           s.fallback,
		Reason:             s.reason,
		Active:             s.active,
		Playing:            s.playing,
		ShowPlayAffordance: s.hasDesc && s.desc.IsVideo() && !s.invalid,
	}
	if s.hasDesc {
		snap.Path = s.desc.Path
	}
	return snap
}

// Bind attaches new content to the slot. Any existing resource is released
// first; resources are never reused across content. Retry state and the
// invalid flag are reset. If the slot is active and the content is a video,
// preparation starts immediately.
func (s *Slot) Bind(desc mediatypes.Descriptor) {
	s.cancelTimers()
	if s.res != nil {
		s.releaseResource(ReleaseRecycled)
	}
	s.desc, s.hasDesc = desc, true
	s.retryCount = 0
	s.invalid = false
	s.fallback = FallbackNone
	s.reason = ReasonNone
	s.hasEverPlayed = false
	s.userPaused = false
	s.setState(StateIdle)

	if s.active && desc.IsVideo() {
		s.start()
	}
}

// Reload clears retry state and the invalid flag and binds the same content
// again. It is the only way to recover a slot whose retries are exhausted.
func (s *Slot) Reload() {
	if !s.hasDesc {
		return
	}
	logging.Debug("Slot %s: manual reload of %s", s.id, s.desc.Path)
	played := s.hasEverPlayed
	s.Bind(s.desc)
	s.hasEverPlayed = s.hasEverPlayed || played
}

// SetActive grants or revokes the active-player token. Revoking it releases
// the resource. Granting it starts preparation for video content unless the
// slot is marked invalid.
func (s *Slot) SetActive(active bool) {
	if !active {
		s.deactivate(ReleaseHandoff)
		return
	}
	s.active = true
	if !s.hasDesc || !s.desc.IsVideo() || s.invalid {
		return
	}
	if s.res != nil {
		s.maybePlay()
		return
	}
	if s.retryTok != 0 {
		// A retry is already scheduled.
		return
	}
	s.retryCount = 0
	s.fallback = FallbackNone
	s.reason = ReasonNone
	s.start()
}

// Suspend pauses playback without releasing the resource, so a reversed
// scroll does not pay for re-buffering.
func (s *Slot) Suspend() {
	s.suspended = true
	if s.res != nil && s.playing {
		s.res.Pause()
		s.playing = false
	}
}

// Resume undoes Suspend.
func (s *Slot) Resume() {
	s.suspended = false
	s.maybePlay()
}

// TogglePlay flips the user's play/pause choice.
func (s *Slot) TogglePlay() {
	if s.res == nil {
		return
	}
	if s.playing {
		s.userPaused = true
		s.res.Pause()
		s.playing = false
		return
	}
	s.userPaused = false
	if s.state == StateEnded {
		s.setState(StateReady)
	}
	s.maybePlay()
}

// Release tears the resource down and cancels all pending timers. The slot
// keeps its content and can be activated again.
func (s *Slot) Release(cause ReleaseCause) {
	s.cancelTimers()
	if s.res != nil {
		s.releaseResource(cause)
	}
	if s.state != StateReleased {
		s.setState(StateReleased)
	}
}

func (s *Slot) deactivate(cause ReleaseCause) {
	s.active = false
	s.suspended = false
	s.Release(cause)
}

func (s *Slot) start() {
	if s.invalid {
		return
	}
	if ok, why := s.opts.Config.Admission.Admit(s.opts.Probe); !ok {
		logging.Warn("Slot %s: not creating player for %s: %s", s.id, s.desc.Name(), why)
		s.fallback = FallbackThumbnail
		s.reason = ReasonAdmissionRefused
		if o := observe(); o != nil {
			o.ObserveAdmissionRefused()
		}
		s.setState(StateIdle)
		return
	}

	s.gen = uuid.NewString()
	res, err := s.opts.Factory.Create(s.desc, &slotListener{slot: s, gen: s.gen})
	if err != nil {
		logging.Warn("Slot %s: failed to create player for %s: %v", s.id, s.desc.Name(), err)
		s.fail(err)
		return
	}

	s.res = res
	s.fallback = FallbackNone
	s.reason = ReasonNone
	s.prepareStart = s.opts.Now()
	s.setState(StatePreparing)

	gen := s.gen
	s.timeoutTok = s.opts.Scheduler.ScheduleAfter(s.opts.Config.LoadTimeout, func() {
		s.timeoutTok = 0
		s.onTimeout(gen)
	})
	res.Prepare()
}

func (s *Slot) onTimeout(gen string) {
	if gen != s.gen || s.state != StatePreparing {
		return
	}
	logging.Warn("Slot %s: %s not ready after %v", s.id, s.desc.Name(), s.opts.Config.LoadTimeout)
	s.fail(ErrPrepareTimeout)
}

// fail routes a decoding failure: memory exhaustion falls back immediately,
// everything else goes through the bounded retry path.
func (s *Slot) fail(err error) {
	s.cancelTimers()
	reason := classify(err)

	if reason == ReasonDecodeOutOfMemory {
		if s.res != nil {
			s.releaseResource(ReleaseExplicit)
		}
		s.fallback = FallbackThumbnail
		s.reason = reason
		if o := observe(); o != nil {
			o.ObserveOutOfMemory()
		}
		s.setState(StateError)
		return
	}

	if s.retryCount >= s.opts.Config.MaxRetries {
		logging.Error("Slot %s: giving up on %s after %d retries: %v", s.id, s.desc.Name(), s.retryCount, err)
		if s.res != nil {
			s.releaseResource(ReleaseExplicit)
		}
		s.invalid = true
		s.fallback = FallbackInvalid
		s.reason = ReasonRetriesExhausted
		if o := observe(); o != nil {
			o.ObserveRetriesExhausted()
		}
		s.setState(StateError)
		return
	}

	s.retryCount++
	logging.Info("Slot %s: retrying %s (attempt %d/%d) after %v: %v",
		s.id, s.desc.Name(), s.retryCount, s.opts.Config.MaxRetries, s.opts.Config.RetryCooldown, err)
	if s.res != nil {
		s.releaseResource(ReleaseExplicit)
	}
	s.reason = reason
	if o := observe(); o != nil {
		o.ObserveRetry(string(reason))
	}
	s.setState(StateError)

	s.retryTok = s.opts.Scheduler.ScheduleAfter(s.opts.Config.RetryCooldown, func() {
		s.retryTok = 0
		if s.active && s.hasDesc && s.res == nil {
			s.start()
		}
	})
}

func (s *Slot) onResourceState(gen string, rs ResourceState) {
	if gen != s.gen || s.res == nil {
		logging.Debug("Slot %s: ignoring stale %s notification", s.id, rs)
		return
	}

	switch rs {
	case ResourceReady:
		switch s.state {
		case StatePreparing:
			s.cancelTimeout()
			s.retryCount = 0
			s.reason = ReasonNone
			if o := observe(); o != nil {
				o.ObservePrepareDuration(s.opts.Now().Sub(s.prepareStart).Seconds())
			}
			s.setState(StateReady)
			s.maybePlay()
		case StateBuffering:
			s.setState(StateReady)
		}

	case ResourceBuffering:
		if s.state == StateReady {
			s.setState(StateBuffering)
		}

	case ResourceEnded:
		if s.state == StateReady || s.state == StateBuffering {
			// No auto-replay: rewind and wait for the user.
			s.res.SeekToStart()
			s.res.Pause()
			s.playing = false
			s.setState(StateEnded)
		}
	}
}

func (s *Slot) onError(gen string, err error) {
	if gen != s.gen || s.res == nil {
		logging.Debug("Slot %s: ignoring stale error: %v", s.id, err)
		return
	}
	logging.Warn("Slot %s: playback error for %s: %v", s.id, s.desc.Name(), err)
	s.fail(err)
}

func (s *Slot) onVideoSize(gen string, w, h int) {
	if gen != s.gen || s.res == nil {
		return
	}
	s.emit(Event{Kind: EventVideoSize, Slot: s.id, State: s.state, Width: w, Height: h})
}

func (s *Slot) maybePlay() {
	if s.res == nil || !s.active || s.suspended || s.userPaused || s.playing {
		return
	}
	if s.state != StateReady && s.state != StateBuffering {
		return
	}
	s.res.Play()
	s.playing = true
	s.hasEverPlayed = true
}

func (s *Slot) releaseResource(cause ReleaseCause) {
	logging.Debug("Slot %s: releasing player (%s)", s.id, cause)
	res := s.res
	s.res = nil
	s.gen = ""
	s.playing = false
	res.Release()
}

func (s *Slot) cancelTimeout() {
	if s.timeoutTok != 0 {
		s.opts.Scheduler.Cancel(s.timeoutTok)
		s.timeoutTok = 0
	}
}

func (s *Slot) cancelTimers() {
	s.cancelTimeout()
	if s.retryTok != 0 {
		s.opts.Scheduler.Cancel(s.retryTok)
		s.retryTok = 0
	}
}

func (s *Slot) setState(st State) {
	s.state = st
	if o := observe(); o != nil {
		o.ObserveState(st.String())
	}
	s.emit(Event{
		Kind:       EventStateChanged,
		Slot:       s.id,
		State:      st,
		RetryCount: s.retryCount,
		Reason:     s.reason,
		Fallback:   s.fallback,
	})
}

func (s *Slot) emit(ev Event) {
	for _, fn := range s.subs {
		fn(ev)
	}
}

// slotListener binds resource callbacks to the generation they were
// created for.
type slotListener struct {
	slot *Slot
	gen  string
}

func (l *slotListener) OnStateChanged(st ResourceState) { l.slot.onResourceState(l.gen, st) }
func (l *slotListener) OnError(err error)               { l.slot.onError(l.gen, err) }
func (l *slotListener) OnVideoSize(w, h int)            { l.slot.onVideoSize(l.gen, w, h) }

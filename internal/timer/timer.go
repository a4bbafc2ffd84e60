package timer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Token identifies a scheduled callback. The zero Token is never issued.
type Token uint64

// Scheduler runs callbacks after a delay and lets them be canceled.
type Scheduler interface {
	// ScheduleAfter arranges for fn to run once d has elapsed.
	ScheduleAfter(d time.Duration, fn func()) Token
	// Cancel prevents a pending callback from running. It reports whether
	// the callback was still pending.
	Cancel(t Token) bool
}

// ErrLoopStopped is returned when work is posted to a loop that has exited.
var ErrLoopStopped = errors.New("timer: loop stopped")

// Loop executes posted functions one at a time on a single goroutine.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop creates a loop with the given task buffer size.
func NewLoop(buffer int) *Loop {
	if buffer < 1 {
		buffer = 64
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run processes posted tasks until ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Post queues fn for execution on the loop. It returns false if the loop
// has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LoopScheduler is a Scheduler whose callbacks run on a Loop.
type LoopScheduler struct {
	loop   *Loop
	mu     sync.Mutex
	next   Token
	timers map[Token]*time.Timer
}

// NewLoopScheduler creates a scheduler that delivers callbacks on loop.
func NewLoopScheduler(loop *Loop) *LoopScheduler {
	return &LoopScheduler{
		loop:   loop,
		timers: make(map[Token]*time.Timer),
	}
}

// ScheduleAfter implements Scheduler.
func (s *LoopScheduler) ScheduleAfter(d time.Duration, fn func()) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	tok := s.next
	s.timers[tok] = time.AfterFunc(d, func() {
		s.loop.Post(func() {
			// Cancel may have raced with the timer firing; check again on
			// the loop before running.
			s.mu.Lock()
			_, pending := s.timers[tok]
			delete(s.timers, tok)
			s.mu.Unlock()
			if pending {
				fn()
			}
		})
	})
	return tok
}

// Cancel implements Scheduler.
func (s *LoopScheduler) Cancel(tok Token) bool {
	s.mu.Lock()
	t, ok := s.timers[tok]
	delete(s.timers, tok)
	s.mu.Unlock()
	if ok {
		t.Stop()
	}
	return ok
}

// Pending returns the number of callbacks not yet run or canceled.
func (s *LoopScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Manual is a deterministic Scheduler driven by Advance. It is not safe for
// concurrent use.
type Manual struct {
	now     time.Time
	next    Token
	pending []manualTimer
}

type manualTimer struct {
	tok Token
	due time.Time
	fn  func()
}

// NewManual creates a manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the manual clock's current time.
func (m *Manual) Now() time.Time {
	return m.now
}

// ScheduleAfter implements Scheduler.
func (m *Manual) ScheduleAfter(d time.Duration, fn func()) Token {
	m.next++
	m.pending = append(m.pending, manualTimer{tok: m.next, due: m.now.Add(d), fn: fn})
	return m.next
}

// Cancel implements Scheduler.
func (m *Manual) Cancel(tok Token) bool {
	for i, t := range m.pending {
		if t.tok == tok {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the number of scheduled callbacks.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Advance moves the clock forward by d, running every callback that falls
// due in order. Callbacks scheduled while advancing run too if they fall
// due before the new time.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		if len(m.pending) == 0 {
			break
		}
		sort.SliceStable(m.pending, func(i, j int) bool {
			if m.pending[i].due.Equal(m.pending[j].due) {
				return m.pending[i].tok < m.pending[j].tok
			}
			return m.pending[i].due.Before(m.pending[j].due)
		})
		first := m.pending[0]
		if first.due.After(target) {
			break
		}
		m.pending = m.pending[1:]
		m.now = first.due
		first.fn()
	}
	m.now = target
}

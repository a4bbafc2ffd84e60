package timer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestManualRunsInOrder(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var order []int

	m.ScheduleAfter(300*time.Millisecond, func() { order = append(order, 3) })
	m.ScheduleAfter(100*time.Millisecond, func() { order = append(order, 1) })
	m.ScheduleAfter(200*time.Millisecond, func() { order = append(order, 2) })

	m.Advance(250 * time.Millisecond)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("Expected [1 2] after 250ms, got %v", order)
	}
	if m.Pending() != 1 {
		t.Errorf("Expected 1 pending timer, got %d", m.Pending())
	}

	m.Advance(time.Second)
	if len(order) != 3 || order[2] != 3 {
		t.Errorf("Expected [1 2 3], got %v", order)
	}
}

func TestManualCancel(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	fired := false
	tok := m.ScheduleAfter(time.Second, func() { fired = true })

	if !m.Cancel(tok) {
		t.Error("Expected Cancel to report a pending timer")
	}
	if m.Cancel(tok) {
		t.Error("Expected second Cancel to report nothing pending")
	}

	m.Advance(2 * time.Second)
	if fired {
		t.Error("Canceled callback fired")
	}
}

func TestManualChainedScheduling(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var at []time.Duration
	start := m.Now()

	m.ScheduleAfter(100*time.Millisecond, func() {
		at = append(at, m.Now().Sub(start))
		m.ScheduleAfter(100*time.Millisecond, func() {
			at = append(at, m.Now().Sub(start))
		})
	})

	m.Advance(time.Second)
	if len(at) != 2 || at[0] != 100*time.Millisecond || at[1] != 200*time.Millisecond {
		t.Errorf("Expected callbacks at 100ms and 200ms, got %v", at)
	}
	if m.Now().Sub(start) != time.Second {
		t.Errorf("Expected clock at 1s, got %v", m.Now().Sub(start))
	}
}

func TestLoopCall(t *testing.T) {
	loop := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	value := 0
	if err := loop.Call(ctx, func() { value = 42 }); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if value != 42 {
		t.Errorf("Expected 42, got %d", value)
	}
}

func TestLoopStopped(t *testing.T) {
	loop := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	if loop.Post(func() {}) {
		t.Error("Expected Post to fail on a stopped loop")
	}
	if err := loop.Call(context.Background(), func() {}); err != ErrLoopStopped {
		t.Errorf("Expected ErrLoopStopped, got %v", err)
	}
}

func TestLoopSchedulerFiresOnLoop(t *testing.T) {
	loop := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	s := NewLoopScheduler(loop)
	fired := make(chan struct{})
	s.ScheduleAfter(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("Scheduled callback did not fire")
	}
	if s.Pending() != 0 {
		t.Errorf("Expected no pending timers, got %d", s.Pending())
	}
}

func TestLoopSchedulerCancel(t *testing.T) {
	loop := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	s := NewLoopScheduler(loop)
	var fired atomic.Bool
	tok := s.ScheduleAfter(20*time.Millisecond, func() { fired.Store(true) })
	if !s.Cancel(tok) {
		t.Error("Expected Cancel to report a pending timer")
	}

	time.Sleep(60 * time.Millisecond)
	if err := loop.Call(ctx, func() {}); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if fired.Load() {
		t.Error("Canceled callback fired")
	}
}

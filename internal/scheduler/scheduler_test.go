package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_RunsTask(t *testing.T) {
	s := New()
	defer s.Close()

	done := make(chan struct{})
	s.After("a", 10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	if s.Pending() != 0 {
		t.Errorf("expected 0 pending after fire, got %d", s.Pending())
	}
}

func TestScheduler_CancelPreventsRun(t *testing.T) {
	s := New()
	defer s.Close()

	var fired atomic.Bool
	s.After("a", 30*time.Millisecond, func() { fired.Store(true) })

	if !s.Cancel("a") {
		t.Fatal("expected Cancel to report a pending task")
	}
	if s.Cancel("a") {
		t.Error("second Cancel should report nothing pending")
	}

	time.Sleep(60 * time.Millisecond)
	if fired.Load() {
		t.Error("canceled task still ran")
	}
}

func TestScheduler_SameKeyReplaces(t *testing.T) {
	s := New()
	defer s.Close()

	var first, second atomic.Bool
	s.After("a", 20*time.Millisecond, func() { first.Store(true) })
	s.After("a", 20*time.Millisecond, func() { second.Store(true) })

	if s.Pending() != 1 {
		t.Fatalf("expected 1 pending, got %d", s.Pending())
	}

	time.Sleep(60 * time.Millisecond)
	if first.Load() {
		t.Error("replaced task still ran")
	}
	if !second.Load() {
		t.Error("replacing task did not run")
	}
}

func TestScheduler_CancelAll(t *testing.T) {
	s := New()
	defer s.Close()

	var count atomic.Int32
	for _, key := range []string{"a", "b", "c"} {
		s.After(key, 30*time.Millisecond, func() { count.Add(1) })
	}

	if n := s.CancelAll(); n != 3 {
		t.Errorf("expected 3 canceled, got %d", n)
	}

	time.Sleep(60 * time.Millisecond)
	if count.Load() != 0 {
		t.Errorf("expected no tasks to run, got %d", count.Load())
	}
}

func TestScheduler_CloseRejectsNewTasks(t *testing.T) {
	s := New()

	var fired atomic.Bool
	s.After("a", 20*time.Millisecond, func() { fired.Store(true) })
	s.Close()
	s.After("b", time.Millisecond, func() { fired.Store(true) })

	time.Sleep(50 * time.Millisecond)
	if fired.Load() {
		t.Error("task ran after Close")
	}
}

func TestTicker_StartStop(t *testing.T) {
	tk := NewTicker()

	var ticks atomic.Int32
	tk.Start(10*time.Millisecond, func() { ticks.Add(1) })

	if !tk.Running() {
		t.Fatal("expected ticker running")
	}

	time.Sleep(45 * time.Millisecond)
	tk.Stop()
	if tk.Running() {
		t.Error("expected ticker stopped")
	}

	n := ticks.Load()
	if n < 2 {
		t.Errorf("expected at least 2 ticks, got %d", n)
	}

	time.Sleep(30 * time.Millisecond)
	if ticks.Load() != n {
		t.Error("ticker kept firing after Stop")
	}
}

func TestTicker_StopIdempotent(t *testing.T) {
	tk := NewTicker()

	// Stop before any Start must be safe.
	tk.Stop()

	tk.Start(10*time.Millisecond, func() {})
	tk.Stop()
	tk.Stop()
}

func TestTicker_RestartReplacesLoop(t *testing.T) {
	tk := NewTicker()
	defer tk.Stop()

	var first, second atomic.Int32
	tk.Start(10*time.Millisecond, func() { first.Add(1) })
	tk.Start(10*time.Millisecond, func() { second.Add(1) })

	time.Sleep(45 * time.Millisecond)
	firstCount := first.Load()
	time.Sleep(25 * time.Millisecond)

	if first.Load() != firstCount {
		t.Error("first loop kept firing after restart")
	}
	if second.Load() < 2 {
		t.Errorf("second loop barely fired: %d", second.Load())
	}
}

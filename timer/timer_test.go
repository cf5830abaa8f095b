package timer

import (
	"testing"
	"time"
)

func TestNew_StartsPausedInFocus(t *testing.T) {
	tm := New()
	defer tm.Close()

	snap := tm.Snapshot()
	if snap.Mode != ModeFocus {
		t.Errorf("Mode = %v, want focus", snap.Mode)
	}
	if snap.Running {
		t.Errorf("new timer should be paused")
	}
	if snap.SecondsRemaining != DefaultFocusMinutes*60 {
		t.Errorf("SecondsRemaining = %d, want %d", snap.SecondsRemaining, DefaultFocusMinutes*60)
	}
}

func TestTick_NoMovementWhilePaused(t *testing.T) {
	tm := New()
	defer tm.Close()

	before := tm.Snapshot().SecondsRemaining
	for i := 0; i < 10; i++ {
		tm.Tick()
	}
	if got := tm.Snapshot().SecondsRemaining; got != before {
		t.Errorf("SecondsRemaining = %d after ticks while paused, want %d", got, before)
	}
}

func TestTick_CountsDownWhileRunning(t *testing.T) {
	tm := New(WithDurations(25, 5))
	defer tm.Close()

	tm.Start()
	tm.Pause()
	tm.Start()
	for i := 0; i < 3; i++ {
		tm.Tick()
	}

	if got := tm.Snapshot().SecondsRemaining; got != 25*60-3 {
		t.Errorf("SecondsRemaining = %d, want %d", got, 25*60-3)
	}
}

func TestTick_FocusCompletionFlipsToBreakPaused(t *testing.T) {
	var completed []PhaseRecord
	tm := New(
		WithDurations(1, 2),
		WithPhaseComplete(func(r PhaseRecord) { completed = append(completed, r) }),
	)
	defer tm.Close()

	tm.Start()
	for i := 0; i < 60; i++ {
		tm.Tick()
	}

	snap := tm.Snapshot()
	if snap.Mode != ModeBreak {
		t.Errorf("Mode = %v, want break", snap.Mode)
	}
	if snap.Running {
		t.Errorf("timer must pause at the phase flip, waiting for a manual restart")
	}
	if snap.SecondsRemaining != 2*60 {
		t.Errorf("SecondsRemaining = %d, want %d", snap.SecondsRemaining, 2*60)
	}

	if len(completed) != 1 {
		t.Fatalf("expected 1 phase completion, got %d", len(completed))
	}
	if completed[0].Mode != ModeFocus {
		t.Errorf("completed Mode = %v, want focus", completed[0].Mode)
	}
	if completed[0].EndedAt.Before(completed[0].StartedAt) {
		t.Errorf("EndedAt %v before StartedAt %v", completed[0].EndedAt, completed[0].StartedAt)
	}
}

func TestTick_BreakCompletionFlipsBackToFocus(t *testing.T) {
	tm := New(WithDurations(1, 1))
	defer tm.Close()

	tm.Start()
	for i := 0; i < 60; i++ {
		tm.Tick()
	}
	if tm.Snapshot().Mode != ModeBreak {
		t.Fatalf("expected break phase after focus completes")
	}

	tm.Start()
	for i := 0; i < 60; i++ {
		tm.Tick()
	}

	snap := tm.Snapshot()
	if snap.Mode != ModeFocus {
		t.Errorf("Mode = %v, want focus", snap.Mode)
	}
	if snap.SecondsRemaining != 60 {
		t.Errorf("SecondsRemaining = %d, want 60", snap.SecondsRemaining)
	}
}

func TestReset_ReturnsToFullFocus(t *testing.T) {
	tm := New(WithDurations(2, 1))
	defer tm.Close()

	tm.Start()
	for i := 0; i < 30; i++ {
		tm.Tick()
	}
	tm.Reset()

	snap := tm.Snapshot()
	if snap.Mode != ModeFocus || snap.Running || snap.SecondsRemaining != 2*60 {
		t.Errorf("after Reset: %+v, want paused focus at %d seconds", snap, 2*60)
	}
}

func TestReset_FromBreakPhase(t *testing.T) {
	tm := New(WithDurations(1, 5))
	defer tm.Close()

	tm.Start()
	for i := 0; i < 60; i++ {
		tm.Tick()
	}
	tm.Reset()

	snap := tm.Snapshot()
	if snap.Mode != ModeFocus || snap.SecondsRemaining != 60 {
		t.Errorf("after Reset from break: %+v, want focus at 60 seconds", snap)
	}
}

func TestSetFocusMinutes_ActivePhaseReloadsImmediately(t *testing.T) {
	tm := New(WithDurations(25, 5))
	defer tm.Close()

	tm.Start()
	tm.Tick()
	tm.SetFocusMinutes(10)

	if got := tm.Snapshot().SecondsRemaining; got != 10*60 {
		t.Errorf("SecondsRemaining = %d, want %d", got, 10*60)
	}
}

func TestSetBreakMinutes_InactivePhaseDeferred(t *testing.T) {
	tm := New(WithDurations(1, 5))
	defer tm.Close()

	// Break is inactive; the countdown must not move
	tm.SetBreakMinutes(10)
	if got := tm.Snapshot().SecondsRemaining; got != 60 {
		t.Errorf("SecondsRemaining = %d, want 60", got)
	}

	// The new break length applies when break starts
	tm.Start()
	for i := 0; i < 60; i++ {
		tm.Tick()
	}
	snap := tm.Snapshot()
	if snap.Mode != ModeBreak || snap.SecondsRemaining != 10*60 {
		t.Errorf("after flip: %+v, want break at %d seconds", snap, 10*60)
	}
}

func TestTimer_RemainingWithinBounds(t *testing.T) {
	tm := New(WithDurations(2, 1))
	defer tm.Close()

	max := 2 * 60
	tm.Start()
	for i := 0; i < 500; i++ {
		snap := tm.Snapshot()
		if snap.SecondsRemaining < 0 || snap.SecondsRemaining > max {
			t.Fatalf("SecondsRemaining = %d out of [0,%d]", snap.SecondsRemaining, max)
		}
		tm.Tick()
		if !tm.Snapshot().Running {
			tm.Start()
		}
	}
}

func TestTimer_TickerDrivesCountdown(t *testing.T) {
	tm := New(WithDurations(25, 5))
	defer tm.Close()

	tm.Start()
	time.Sleep(1200 * time.Millisecond)
	tm.Pause()

	got := tm.Snapshot().SecondsRemaining
	if got >= 25*60 {
		t.Errorf("SecondsRemaining = %d, expected the ticker to have advanced the countdown", got)
	}

	// Paused: no further movement
	after := tm.Snapshot().SecondsRemaining
	time.Sleep(1200 * time.Millisecond)
	if got := tm.Snapshot().SecondsRemaining; got != after {
		t.Errorf("SecondsRemaining moved from %d to %d while paused", after, got)
	}
}

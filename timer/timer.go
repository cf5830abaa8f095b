// Package timer implements the focus timer: alternating focus and break
// phases counting down in whole seconds, with a deterministic tick core
// driving both the real ticker and the tests.
package timer

import (
	"sync"
	"time"
)

// Mode is the active timer phase
type Mode string

const (
	ModeFocus Mode = "focus"
	ModeBreak Mode = "break"
)

// Default phase lengths in minutes
const (
	DefaultFocusMinutes = 25
	DefaultBreakMinutes = 5
)

// PhaseRecord describes one completed phase, delivered to OnPhaseComplete
type PhaseRecord struct {
	Mode      Mode
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
}

// Timer is the focus timer state machine. The countdown only moves while
// running; reaching zero flips the phase, loads the other duration, and
// stops until the user starts the new phase.
type Timer struct {
	mu sync.Mutex

	mode             Mode
	running          bool
	secondsRemaining int
	focusMinutes     int
	breakMinutes     int
	phaseStarted     time.Time

	onPhaseComplete func(PhaseRecord)

	ticker   *time.Ticker
	stopTick chan struct{}
	wg       sync.WaitGroup
}

// Option configures a Timer
type Option func(*Timer)

// WithDurations overrides the default phase lengths
func WithDurations(focusMinutes, breakMinutes int) Option {
	return func(t *Timer) {
		if focusMinutes > 0 {
			t.focusMinutes = focusMinutes
		}
		if breakMinutes > 0 {
			t.breakMinutes = breakMinutes
		}
	}
}

// WithPhaseComplete registers a callback invoked after every phase flip
func WithPhaseComplete(fn func(PhaseRecord)) Option {
	return func(t *Timer) { t.onPhaseComplete = fn }
}

// New creates a paused timer in the focus phase with a full countdown
func New(opts ...Option) *Timer {
	t := &Timer{
		mode:         ModeFocus,
		focusMinutes: DefaultFocusMinutes,
		breakMinutes: DefaultBreakMinutes,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.secondsRemaining = t.focusMinutes * 60
	return t
}

// Snapshot is a consistent view of the timer state
type Snapshot struct {
	Mode             Mode
	Running          bool
	SecondsRemaining int
	FocusMinutes     int
	BreakMinutes     int
}

// Snapshot returns the current timer state
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Mode:             t.mode,
		Running:          t.running,
		SecondsRemaining: t.secondsRemaining,
		FocusMinutes:     t.focusMinutes,
		BreakMinutes:     t.breakMinutes,
	}
}

// Start resumes the countdown. Starting a running timer is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	if t.phaseStarted.IsZero() {
		t.phaseStarted = time.Now()
	}
	t.startTickerLocked()
	t.mu.Unlock()
}

// Pause stops the countdown without losing the remaining time
func (t *Timer) Pause() {
	t.mu.Lock()
	t.running = false
	t.stopTickerLocked()
	t.mu.Unlock()
}

// Reset returns to a paused focus phase with a full countdown, discarding
// any progress in the current phase
func (t *Timer) Reset() {
	t.mu.Lock()
	t.running = false
	t.stopTickerLocked()
	t.mode = ModeFocus
	t.secondsRemaining = t.focusMinutes * 60
	t.phaseStarted = time.Time{}
	t.mu.Unlock()
}

// SetFocusMinutes updates the focus length. While the focus phase is
// active the countdown reloads immediately; otherwise the new length
// applies when focus next starts.
func (t *Timer) SetFocusMinutes(minutes int) {
	if minutes <= 0 {
		return
	}
	t.mu.Lock()
	t.focusMinutes = minutes
	if t.mode == ModeFocus {
		t.secondsRemaining = minutes * 60
	}
	t.mu.Unlock()
}

// SetBreakMinutes updates the break length, mirroring SetFocusMinutes
func (t *Timer) SetBreakMinutes(minutes int) {
	if minutes <= 0 {
		return
	}
	t.mu.Lock()
	t.breakMinutes = minutes
	if t.mode == ModeBreak {
		t.secondsRemaining = minutes * 60
	}
	t.mu.Unlock()
}

// Tick advances the countdown by one second. Paused timers do not move.
// Reaching zero flips the phase, loads the other duration, and pauses
// until the user restarts.
func (t *Timer) Tick() {
	t.mu.Lock()
	record, notify := t.tickLocked()
	t.mu.Unlock()

	if notify != nil {
		notify(record)
	}
}

// tickLocked holds the countdown rules. Returns the completion callback
// to invoke outside the lock, nil when no phase completed.
func (t *Timer) tickLocked() (PhaseRecord, func(PhaseRecord)) {
	if !t.running || t.secondsRemaining <= 0 {
		return PhaseRecord{}, nil
	}

	t.secondsRemaining--
	if t.secondsRemaining > 0 {
		return PhaseRecord{}, nil
	}

	ended := time.Now()
	record := PhaseRecord{
		Mode:      t.mode,
		StartedAt: t.phaseStarted,
		EndedAt:   ended,
		Duration:  ended.Sub(t.phaseStarted),
	}

	if t.mode == ModeFocus {
		t.mode = ModeBreak
		t.secondsRemaining = t.breakMinutes * 60
	} else {
		t.mode = ModeFocus
		t.secondsRemaining = t.focusMinutes * 60
	}
	t.running = false
	t.phaseStarted = time.Time{}
	t.stopTickerLocked()

	return record, t.onPhaseComplete
}

// Close stops the ticker goroutine. The timer keeps its state and can be
// restarted afterwards.
func (t *Timer) Close() {
	t.mu.Lock()
	t.running = false
	t.stopTickerLocked()
	t.mu.Unlock()
	t.wg.Wait()
}

// startTickerLocked spawns the 1-second ticker loop. Caller holds the lock.
func (t *Timer) startTickerLocked() {
	if t.ticker != nil {
		return
	}
	t.ticker = time.NewTicker(time.Second)
	t.stopTick = make(chan struct{})

	ticker := t.ticker
	stop := t.stopTick
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for {
			select {
			case <-ticker.C:
				t.Tick()
			case <-stop:
				return
			}
		}
	}()
}

// stopTickerLocked tears down the ticker loop. Caller holds the lock.
func (t *Timer) stopTickerLocked() {
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	close(t.stopTick)
	t.ticker = nil
	t.stopTick = nil
}

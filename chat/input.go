package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mindpath-app/mindpath/speech"
)

// State is the chat input machine state
type State int

const (
	// StateIdle accepts typing, listening, and submission
	StateIdle State = iota
	// StateListening means speech capture is active
	StateListening
	// StateSubmitting means a submission is outstanding
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Input machine errors
var (
	// ErrEmptyInput rejects whitespace-only submissions; no transition,
	// no side effect
	ErrEmptyInput = errors.New("chat: input is empty")
	// ErrBusy rejects an operation while another is in progress
	ErrBusy = errors.New("chat: operation already in progress")
)

// SubmitFunc receives the trimmed input on submission
type SubmitFunc func(ctx context.Context, content string) error

// Input is the chat input state machine. A final speech transcript is
// appended to the buffer, space-joined after any typed text; it never
// replaces what the user typed (the single-final-transcript variant).
type Input struct {
	recognizer speech.Recognizer
	submit     SubmitFunc

	mu      sync.Mutex
	state   State
	buffer  string
	lastErr string
}

// NewInput creates an idle input machine
func NewInput(recognizer speech.Recognizer, submit SubmitFunc) *Input {
	return &Input{recognizer: recognizer, submit: submit}
}

// State returns the current machine state
func (in *Input) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

// Text returns the current input buffer
func (in *Input) Text() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.buffer
}

// SetText replaces the input buffer (typing)
func (in *Input) SetText(text string) {
	in.mu.Lock()
	in.buffer = text
	in.mu.Unlock()
}

// Err returns the last user-visible error message, empty when none
func (in *Input) Err() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.lastErr
}

// StartListening activates speech capture. Permission refusal surfaces a
// user-visible error and the machine stays idle.
func (in *Input) StartListening(ctx context.Context) error {
	in.mu.Lock()
	if in.state != StateIdle {
		in.mu.Unlock()
		return ErrBusy
	}
	in.lastErr = ""
	in.mu.Unlock()

	err := in.recognizer.Start(ctx, speech.Events{
		OnResult: in.onTranscript,
		OnError:  in.onSpeechError,
		OnEnd:    in.onSpeechEnd,
	})
	if err != nil {
		in.mu.Lock()
		in.lastErr = speechErrorMessage(err)
		in.mu.Unlock()
		return err
	}

	in.mu.Lock()
	in.state = StateListening
	in.mu.Unlock()
	return nil
}

// StopListening ends speech capture manually. Any transcript for audio
// captured so far still arrives before the end event.
func (in *Input) StopListening() {
	in.mu.Lock()
	listening := in.state == StateListening
	in.mu.Unlock()

	if listening {
		in.recognizer.Stop()
	}
}

// Submit hands the trimmed buffer to the submit callback and clears it.
// Whitespace-only input is rejected with no transition and no callback.
// On callback failure the buffer is restored so the user can retry.
func (in *Input) Submit(ctx context.Context) error {
	in.mu.Lock()
	if in.state != StateIdle {
		in.mu.Unlock()
		return ErrBusy
	}

	content := strings.TrimSpace(in.buffer)
	if content == "" {
		in.mu.Unlock()
		return ErrEmptyInput
	}

	previous := in.buffer
	in.state = StateSubmitting
	in.buffer = ""
	in.lastErr = ""
	in.mu.Unlock()

	err := in.submit(ctx, content)

	in.mu.Lock()
	in.state = StateIdle
	if err != nil {
		// No optimistic updates: revert to the pre-call state
		in.buffer = previous
		in.lastErr = err.Error()
	}
	in.mu.Unlock()

	return err
}

// onTranscript appends a final transcript to the buffer
func (in *Input) onTranscript(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	in.mu.Lock()
	if in.buffer != "" {
		in.buffer = in.buffer + " " + text
	} else {
		in.buffer = text
	}
	in.mu.Unlock()
}

// onSpeechError surfaces a capture error; the end event follows and
// returns the machine to idle
func (in *Input) onSpeechError(err error) {
	in.mu.Lock()
	in.lastErr = speechErrorMessage(err)
	in.mu.Unlock()
}

// onSpeechEnd returns the machine to idle after any listening session
func (in *Input) onSpeechEnd() {
	in.mu.Lock()
	if in.state == StateListening {
		in.state = StateIdle
	}
	in.mu.Unlock()
}

// speechErrorMessage maps speech errors onto the messages shown to the user
func speechErrorMessage(err error) string {
	switch {
	case errors.Is(err, speech.ErrPermissionDenied):
		return "Microphone permission denied."
	case errors.Is(err, speech.ErrNoSpeech):
		return "No speech detected. Try again."
	default:
		return "Speech recognition error."
	}
}

// Package speech provides the speech-capture capability used by the chat
// input: a narrow Recognizer interface, the websocket wire schema shared
// by the server endpoint and the streaming client, and a websocket-backed
// recognizer implementation.
package speech

import (
	"context"
	"errors"
)

// Speech capture failure kinds
var (
	// ErrPermissionDenied means microphone access was refused
	ErrPermissionDenied = errors.New("speech: microphone permission denied")
	// ErrNoSpeech means the capture ended without any speech detected
	ErrNoSpeech = errors.New("speech: no speech detected")
	// ErrCapture covers device and transport failures during capture
	ErrCapture = errors.New("speech: capture error")
)

// Message types exchanged on the speech stream. Audio travels as binary
// frames; everything else is a JSON control frame.
const (
	// Client -> server
	TypeStart = "start"
	TypeStop  = "stop"

	// Server -> client
	TypeTranscript = "transcript"
	TypeError      = "error"
	TypeEnd        = "end"
)

// Error codes carried by TypeError messages
const (
	CodeNoSpeech = "no-speech"
	CodeCapture  = "capture-error"
)

// Message is a JSON control frame on the speech stream
type Message struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`       // final transcript for TypeTranscript
	Code       string `json:"code,omitempty"`       // error code for TypeError
	Detail     string `json:"detail,omitempty"`     // human-readable error detail
	SampleRate int    `json:"sampleRate,omitempty"` // audio sample rate for TypeStart
}

// Events are the callbacks a Recognizer drives during one listening
// session. OnEnd always fires exactly once, after any OnResult/OnError.
type Events struct {
	OnResult func(text string)
	OnError  func(err error)
	OnEnd    func()
}

// Recognizer is the capability the chat input depends on. Start returns
// ErrPermissionDenied when capture cannot begin; once started, results and
// errors arrive through the Events callbacks. Stop ends the session early
// and is safe to call at any time.
type Recognizer interface {
	Start(ctx context.Context, events Events) error
	Stop()
}

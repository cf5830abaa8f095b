package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/mindpath-app/mindpath/log"
)

// Source opens the audio capture device. Open returns ErrPermissionDenied
// when the user refuses microphone access.
type Source interface {
	Open() (io.ReadCloser, error)
	SampleRate() int
}

// StreamRecognizer is a Recognizer that streams captured audio to the
// speech endpoint over a websocket and delivers at most one final
// transcript per listening session. Interim transcripts are intentionally
// not surfaced: they would overwrite text the user typed during capture.
type StreamRecognizer struct {
	url    string
	header http.Header
	source Source

	mu      sync.Mutex
	conn    *websocket.Conn
	capture io.ReadCloser
	active  bool
}

// NewStreamRecognizer creates a recognizer connecting to the given speech
// stream URL. The header carries the session cookie or bearer token.
func NewStreamRecognizer(url string, header http.Header, source Source) *StreamRecognizer {
	return &StreamRecognizer{url: url, header: header, source: source}
}

// Start opens the capture source and the websocket, then pumps audio until
// Stop is called or the engine ends the session. The error return covers
// only session setup; later failures arrive through events.OnError.
func (r *StreamRecognizer) Start(ctx context.Context, events Events) error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return fmt.Errorf("speech: listening session already active")
	}
	r.mu.Unlock()

	// Permission first: a refusal must fail Start before any connection
	capture, err := r.source.Open()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.url, r.header)
	if err != nil {
		capture.Close()
		return fmt.Errorf("%w: %v", ErrCapture, err)
	}

	start := Message{Type: TypeStart, SampleRate: r.source.SampleRate()}
	if err := conn.WriteJSON(start); err != nil {
		capture.Close()
		conn.Close()
		return fmt.Errorf("%w: %v", ErrCapture, err)
	}

	r.mu.Lock()
	r.conn = conn
	r.capture = capture
	r.active = true
	r.mu.Unlock()

	go r.pumpAudio(conn, capture)
	go r.readEvents(conn, events)

	return nil
}

// Stop ends the listening session early. The engine still delivers any
// final transcript for audio captured so far, then the end event.
func (r *StreamRecognizer) Stop() {
	r.mu.Lock()
	conn := r.conn
	capture := r.capture
	r.mu.Unlock()

	if capture != nil {
		capture.Close()
	}
	if conn != nil {
		conn.WriteJSON(Message{Type: TypeStop})
	}
}

// pumpAudio streams capture chunks as binary frames until the source
// closes or a write fails.
func (r *StreamRecognizer) pumpAudio(conn *websocket.Conn, capture io.ReadCloser) {
	defer capture.Close()

	buf := make([]byte, 4096)
	for {
		n, err := capture.Read(buf)
		if n > 0 {
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			// Source exhausted or closed by Stop; tell the engine to finalize
			conn.WriteJSON(Message{Type: TypeStop})
			return
		}
	}
}

// readEvents delivers engine events. At most one final transcript is
// surfaced, and OnEnd fires exactly once.
func (r *StreamRecognizer) readEvents(conn *websocket.Conn, events Events) {
	defer r.finish(conn, events)

	delivered := false
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				r.emitError(events, fmt.Errorf("%w: %v", ErrCapture, err))
			}
			return
		}

		switch msg.Type {
		case TypeTranscript:
			if !delivered && msg.Text != "" && events.OnResult != nil {
				delivered = true
				events.OnResult(msg.Text)
			}
		case TypeError:
			r.emitError(events, mapErrorCode(msg))
		case TypeEnd:
			return
		default:
			log.Debug().Str("type", msg.Type).Msg("ignoring unknown speech message")
		}
	}
}

func (r *StreamRecognizer) finish(conn *websocket.Conn, events Events) {
	conn.Close()

	r.mu.Lock()
	r.conn = nil
	r.capture = nil
	r.active = false
	r.mu.Unlock()

	if events.OnEnd != nil {
		events.OnEnd()
	}
}

func (r *StreamRecognizer) emitError(events Events, err error) {
	if events.OnError != nil {
		events.OnError(err)
	}
}

func mapErrorCode(msg Message) error {
	switch msg.Code {
	case CodeNoSpeech:
		return ErrNoSpeech
	default:
		if msg.Detail != "" {
			return fmt.Errorf("%w: %s", ErrCapture, msg.Detail)
		}
		return ErrCapture
	}
}

// Package chat implements the document-chat client pieces: the input
// state machine handling typed text, speech capture, and submission, and
// the append-only transcript it feeds.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies a transcript message author
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. Messages are never mutated after
// creation.
type Message struct {
	ID          string
	Role        Role
	Content     string
	SourcePages []int
	Timestamp   time.Time
}

// Transcript is an ordered, append-only message sequence
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a message in submission order and returns it
func (t *Transcript) Append(role Role, content string, sourcePages []int) Message {
	msg := Message{
		ID:          uuid.NewString(),
		Role:        role,
		Content:     content,
		SourcePages: sourcePages,
		Timestamp:   time.Now(),
	}

	t.mu.Lock()
	t.messages = append(t.messages, msg)
	t.mu.Unlock()

	return msg
}

// Messages returns a copy of the transcript in order
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

package db

import "time"

// User represents a registered account
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	IsVerified   bool   `json:"isVerified"`
	CreatedAt    int64  `json:"createdAt"`
	UpdatedAt    int64  `json:"updatedAt"`
}

// Session represents an authentication session record
type Session struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	CreatedAt  int64  `json:"createdAt"`
	ExpiresAt  int64  `json:"expiresAt"`
	LastUsedAt int64  `json:"lastUsedAt"`
}

// Document represents an uploaded document's metadata
type Document struct {
	ID        string `json:"id"`
	UserID    string `json:"-"`
	Title     string `json:"title"`
	PageCount int    `json:"pageCount"`
	CreatedAt int64  `json:"createdAt"`
}

// ChatMessage represents one entry of a document's chat transcript
type ChatMessage struct {
	ID          string `json:"id"`
	DocumentID  string `json:"-"`
	UserID      string `json:"-"`
	Role        string `json:"role"`
	Content     string `json:"content"`
	SourcePages []int  `json:"sourcePages,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

// Chat message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Note represents a user note
type Note struct {
	ID        string `json:"id"`
	UserID    string `json:"-"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// StudySession represents one completed timer interval
type StudySession struct {
	ID              string `json:"id"`
	UserID          string `json:"-"`
	Mode            string `json:"mode"`
	StartedAt       int64  `json:"startTime"`
	EndedAt         int64  `json:"endTime"`
	DurationSeconds int64  `json:"duration"`
	CreatedAt       int64  `json:"-"`
}

// Timer modes
const (
	ModeFocus = "focus"
	ModeBreak = "break"
)

// NowMs returns the current time as epoch milliseconds, the timestamp
// format used across all tables.
func NowMs() int64 {
	return time.Now().UnixMilli()
}

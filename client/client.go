// Package client is the Go SDK for the Mind Path server API. Client keeps
// the session cookie in a jar so one instance behaves like one signed-in
// browser; DocumentPanel layers the document list state on top.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/mindpath-app/mindpath/api"
	"github.com/mindpath-app/mindpath/auth"
	"github.com/mindpath-app/mindpath/db"
)

// Sentinel errors surfaced by the SDK
var (
	// ErrUnauthorized means no valid session; errors.Is matches any 401
	ErrUnauthorized = errors.New("client: not authenticated")
	// ErrNotFound matches any 404 response
	ErrNotFound = errors.New("client: not found")
)

// APIError carries a non-2xx response body
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Is lets errors.Is match the sentinel for the response class
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Client talks to the server API, holding the session cookie between calls
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given server base URL
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 2 * time.Minute,
		},
	}, nil
}

// Register creates an account and returns the new identity
func (c *Client) Register(ctx context.Context, username, email, password string) (auth.Identity, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var identity auth.Identity
	err := c.doJSON(ctx, http.MethodPost, "/api/register", body, &identity)
	return identity, err
}

// SignIn authenticates with an email or username plus password. The
// session cookie is stored in the jar for subsequent calls.
func (c *Client) SignIn(ctx context.Context, identifier, password string) (auth.Identity, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	var identity auth.Identity
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &identity)
	return identity, err
}

// SignOut ends the session. Safe to call without one.
func (c *Client) SignOut(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Session returns the current identity, or nil without error when no
// session exists
func (c *Client) Session(ctx context.Context) (*auth.Identity, error) {
	var identity auth.Identity
	err := c.doJSON(ctx, http.MethodGet, "/api/auth/session", nil, &identity)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, nil
		}
		return nil, err
	}
	return &identity, nil
}

// ListNotes returns the user's notes, most recently updated first
func (c *Client) ListNotes(ctx context.Context) ([]db.Note, error) {
	var notes []db.Note
	err := c.doJSON(ctx, http.MethodGet, "/api/notes", nil, &notes)
	return notes, err
}

// CreateNote stores a new note
func (c *Client) CreateNote(ctx context.Context, title, content string) (db.Note, error) {
	body := map[string]string{"title": title, "content": content}
	var note db.Note
	err := c.doJSON(ctx, http.MethodPost, "/api/notes", body, &note)
	return note, err
}

// GetNote fetches one note by id
func (c *Client) GetNote(ctx context.Context, id string) (db.Note, error) {
	var note db.Note
	err := c.doJSON(ctx, http.MethodGet, "/api/notes/"+id, nil, &note)
	return note, err
}

// UpdateNote patches a note; nil fields are left unchanged
func (c *Client) UpdateNote(ctx context.Context, id string, title, content *string) (db.Note, error) {
	body := map[string]any{}
	if title != nil {
		body["title"] = *title
	}
	if content != nil {
		body["content"] = *content
	}
	var note db.Note
	err := c.doJSON(ctx, http.MethodPatch, "/api/notes/"+id, body, &note)
	return note, err
}

// DeleteNote removes a note
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/notes/"+id, nil, nil)
}

// Stats fetches the dashboard study aggregate
func (c *Client) Stats(ctx context.Context) (api.StudyStats, error) {
	var stats api.StudyStats
	err := c.doJSON(ctx, http.MethodGet, "/api/users/stats", nil, &stats)
	return stats, err
}

// RecordSession records one completed timer interval
func (c *Client) RecordSession(ctx context.Context, mode string, startedAt, endedAt int64) (db.StudySession, error) {
	body := map[string]any{"mode": mode, "startedAt": startedAt, "endedAt": endedAt}
	var session db.StudySession
	err := c.doJSON(ctx, http.MethodPost, "/api/users/sessions", body, &session)
	return session, err
}

// Chat returns a document's persisted transcript in submission order
func (c *Client) Chat(ctx context.Context, documentID string) ([]db.ChatMessage, error) {
	var messages []db.ChatMessage
	err := c.doJSON(ctx, http.MethodGet, "/api/pdf/"+documentID+"/chat", nil, &messages)
	return messages, err
}

// Ask submits a question about a document and returns the assistant reply
func (c *Client) Ask(ctx context.Context, documentID, question string) (db.ChatMessage, error) {
	body := map[string]string{"question": question}
	var msg db.ChatMessage
	err := c.doJSON(ctx, http.MethodPost, "/api/pdf/"+documentID+"/chat", body, &msg)
	return msg, err
}

// doJSON sends a JSON request and decodes the "data" envelope into out.
// Non-2xx responses decode into *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

// do executes a prepared request and decodes the response
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// decodeAPIError turns an error response body into *APIError
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

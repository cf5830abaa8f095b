// Package vendors contains clients for the external services Mind Path
// delegates to. Document ingestion, retrieval, and answer generation all
// happen in the document-processing API; this package only shapes requests
// and decodes responses.
package vendors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/mindpath-app/mindpath/config"
	"github.com/mindpath-app/mindpath/log"
)

// FetchError reports a transport failure or a non-2xx response from an
// external service.
type FetchError struct {
	Op         string
	StatusCode int // 0 when the request never reached the server
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("docapi: %s failed with status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("docapi: %s failed: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// UploadResult is the record the document API returns after ingestion
type UploadResult struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	PageCount int    `json:"pageCount"`
}

// Answer is the document API's response to a chat question
type Answer struct {
	Content     string `json:"answer"`
	SourcePages []int  `json:"sourcePages,omitempty"`
}

// DocAPI is the HTTP client for the external document-processing API
type DocAPI struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewDocAPI creates a document API client from configuration
func NewDocAPI(cfg *config.Config) *DocAPI {
	return &DocAPI{
		baseURL: strings.TrimRight(cfg.DocAPIBaseURL, "/"),
		apiKey:  cfg.DocAPIKey,
		httpClient: &http.Client{
			// Ingestion of a full document can take a while
			Timeout: 2 * time.Minute,
		},
	}
}

// Upload sends a PDF for ingestion and returns the created record
func (d *DocAPI) Upload(ctx context.Context, userID, filename string, data []byte) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("pdf", filename)
	if err != nil {
		return nil, &FetchError{Op: "upload", Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return nil, &FetchError{Op: "upload", Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &FetchError{Op: "upload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/pdf/upload", &buf)
	if err != nil {
		return nil, &FetchError{Op: "upload", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	d.setAuth(req, userID)

	var result UploadResult
	if err := d.do(req, "upload", &result); err != nil {
		return nil, err
	}
	if result.Title == "" {
		result.Title = filename
	}
	return &result, nil
}

// Delete removes a document from the external store
func (d *DocAPI) Delete(ctx context.Context, userID, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, d.baseURL+"/pdf/"+id, nil)
	if err != nil {
		return &FetchError{Op: "delete", Err: err}
	}
	d.setAuth(req, userID)

	return d.do(req, "delete", nil)
}

// Ask sends a question about a document and returns the generated answer
func (d *DocAPI) Ask(ctx context.Context, userID, id, question string) (*Answer, error) {
	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return nil, &FetchError{Op: "ask", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/pdf/"+id+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Op: "ask", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	d.setAuth(req, userID)

	var answer Answer
	if err := d.do(req, "ask", &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

func (d *DocAPI) setAuth(req *http.Request, userID string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-User-Id", userID)
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}
}

// do executes the request and decodes a JSON body into out (if non-nil).
// Non-2xx responses become a *FetchError carrying the upstream message.
func (d *DocAPI) do(req *http.Request, op string, out any) error {
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := upstreamError(resp)
		log.Warn().
			Str("op", op).
			Int("status", resp.StatusCode).
			Str("message", msg).
			Msg("document API error")
		return &FetchError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// upstreamError extracts the error message from a JSON error body,
// falling back to the raw text.
func upstreamError(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(body) == 0 {
		return resp.Status
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}

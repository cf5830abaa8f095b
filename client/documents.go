package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mindpath-app/mindpath/api"
	"github.com/mindpath-app/mindpath/db"
)

// Upload preflight errors, raised before any network I/O
var (
	// ErrInvalidType rejects anything that is not a PDF
	ErrInvalidType = errors.New("client: only PDF files are supported")
	// ErrTooLarge rejects files over the 10 MiB ceiling
	ErrTooLarge = errors.New("client: file exceeds the 10MB limit")
	// ErrBusy rejects a second upload while one is in flight
	ErrBusy = errors.New("client: upload already in progress")
)

// DocumentPanel holds the document list state over the SDK. The list
// mirrors the server order and only changes after the server confirms
// an operation; there are no optimistic updates.
type DocumentPanel struct {
	client *Client

	mu        sync.Mutex
	documents []db.Document
	uploading bool
}

// NewDocumentPanel creates an empty panel over the client
func NewDocumentPanel(c *Client) *DocumentPanel {
	return &DocumentPanel{client: c}
}

// Documents returns a copy of the current list in server order
func (p *DocumentPanel) Documents() []db.Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]db.Document, len(p.documents))
	copy(out, p.documents)
	return out
}

// List refreshes the panel from the server, replacing the list with the
// server's order
func (p *DocumentPanel) List(ctx context.Context) ([]db.Document, error) {
	var docs []db.Document
	if err := p.client.doJSON(ctx, http.MethodGet, "/api/pdf", nil, &docs); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.documents = docs
	p.mu.Unlock()

	return p.Documents(), nil
}

// Upload sends a PDF for ingestion. Type and size are checked locally
// before anything goes over the wire; the record is appended only after
// the server confirms.
func (p *DocumentPanel) Upload(ctx context.Context, filename string, data []byte) (db.Document, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return db.Document{}, ErrInvalidType
	}
	if len(data) > api.MaxUploadBytes {
		return db.Document{}, ErrTooLarge
	}

	p.mu.Lock()
	if p.uploading {
		p.mu.Unlock()
		return db.Document{}, ErrBusy
	}
	p.uploading = true
	p.mu.Unlock()

	doc, err := p.upload(ctx, filename, data)

	p.mu.Lock()
	p.uploading = false
	if err == nil {
		p.documents = append(p.documents, doc)
	}
	p.mu.Unlock()

	return doc, err
}

// Uploading reports whether an upload is in flight
func (p *DocumentPanel) Uploading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uploading
}

// Delete removes a document. The id must be in the list, and the server
// delete must succeed before the entry disappears locally.
func (p *DocumentPanel) Delete(ctx context.Context, id string) error {
	p.mu.Lock()
	known := false
	for _, doc := range p.documents {
		if doc.ID == id {
			known = true
			break
		}
	}
	p.mu.Unlock()
	if !known {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}

	if err := p.client.doJSON(ctx, http.MethodDelete, "/api/pdf?id="+id, nil, nil); err != nil {
		return err
	}

	p.mu.Lock()
	kept := p.documents[:0]
	for _, doc := range p.documents {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	p.documents = kept
	p.mu.Unlock()

	return nil
}

// upload builds and sends the multipart request
func (p *DocumentPanel) upload(ctx context.Context, filename string, data []byte) (db.Document, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pdf"; filename="%s"`, filename))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return db.Document{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return db.Document{}, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return db.Document{}, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.client.baseURL+"/api/pdf/upload", &buf)
	if err != nil {
		return db.Document{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var doc db.Document
	if err := p.client.do(req, &doc); err != nil {
		return db.Document{}, err
	}
	return doc, nil
}

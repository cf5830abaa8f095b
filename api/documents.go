package api

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mindpath-app/mindpath/log"
	"github.com/mindpath-app/mindpath/vendors"
)

// MaxUploadBytes is the document size ceiling (10 MiB)
const MaxUploadBytes = 10 * 1024 * 1024

// ListDocuments handles GET /api/pdf
func (h *Handlers) ListDocuments(c *gin.Context) {
	identity := CurrentIdentity(c)

	docs, err := h.db.ListDocuments(identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list documents")
		RespondInternalError(c, "Failed to fetch documents")
		return
	}

	RespondList(c, docs)
}

// UploadDocument handles POST /api/pdf/upload (multipart "pdf" field).
// Type and size are checked before the file is forwarded to the external
// document API; only a confirmed ingestion creates a local record.
func (h *Handlers) UploadDocument(c *gin.Context) {
	identity := CurrentIdentity(c)

	file, err := c.FormFile("pdf")
	if err != nil {
		RespondBadRequest(c, "Missing pdf file")
		return
	}

	if !isPDF(file.Filename, file.Header.Get("Content-Type")) {
		RespondInvalidType(c, "Please select a PDF file")
		return
	}
	if file.Size > MaxUploadBytes {
		RespondTooLarge(c, "File size exceeds the limit of 10MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("failed to open uploaded file")
		RespondInternalError(c, "Failed to read upload")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadBytes+1))
	if err != nil {
		log.Error().Err(err).Msg("failed to read uploaded file")
		RespondInternalError(c, "Failed to read upload")
		return
	}
	if len(data) > MaxUploadBytes {
		RespondTooLarge(c, "File size exceeds the limit of 10MB")
		return
	}

	result, err := h.docAPI.Upload(c.Request.Context(), identity.ID, file.Filename, data)
	if err != nil {
		respondDocAPIError(c, err, "Failed to upload PDF")
		return
	}

	doc, err := h.db.CreateDocument(result.ID, identity.ID, result.Title, result.PageCount)
	if err != nil {
		log.Error().Err(err).Str("docId", result.ID).Msg("failed to store document record")
		RespondInternalError(c, "Failed to store document")
		return
	}

	log.Info().Str("docId", doc.ID).Str("title", doc.Title).Msg("document uploaded")
	RespondCreated(c, doc)
}

// DeleteDocument handles DELETE /api/pdf?id=
// The upstream delete must succeed before the local record is removed.
func (h *Handlers) DeleteDocument(c *gin.Context) {
	identity := CurrentIdentity(c)

	id := c.Query("id")
	if id == "" {
		RespondBadRequest(c, "Document ID is required")
		return
	}

	doc, err := h.db.GetDocument(id, identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load document")
		RespondInternalError(c, "Failed to delete document")
		return
	}
	if doc == nil {
		RespondNotFound(c, "Document not found")
		return
	}

	if err := h.docAPI.Delete(c.Request.Context(), identity.ID, id); err != nil {
		respondDocAPIError(c, err, "Failed to delete PDF")
		return
	}

	if err := h.db.DeleteDocument(id, identity.ID); err != nil {
		log.Error().Err(err).Str("docId", id).Msg("failed to delete document record")
		RespondInternalError(c, "Failed to delete document")
		return
	}

	RespondNoContent(c)
}

// GetChat handles GET /api/pdf/:id/chat, returning the persisted
// transcript in submission order.
func (h *Handlers) GetChat(c *gin.Context) {
	identity := CurrentIdentity(c)
	id := c.Param("id")

	doc, err := h.db.GetDocument(id, identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load document")
		RespondInternalError(c, "Failed to fetch chat")
		return
	}
	if doc == nil {
		RespondNotFound(c, "Document not found")
		return
	}

	messages, err := h.db.ListChatMessages(id)
	if err != nil {
		log.Error().Err(err).Msg("failed to list chat messages")
		RespondInternalError(c, "Failed to fetch chat")
		return
	}

	RespondList(c, messages)
}

// PostChat handles POST /api/pdf/:id/chat {question}.
// The user message is persisted first, then the external API generates the
// answer, which is persisted and returned with its source pages.
func (h *Handlers) PostChat(c *gin.Context) {
	identity := CurrentIdentity(c)
	id := c.Param("id")

	var body struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	question := strings.TrimSpace(body.Question)
	if question == "" {
		RespondBadRequest(c, "Question must not be empty")
		return
	}

	doc, err := h.db.GetDocument(id, identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load document")
		RespondInternalError(c, "Failed to process question")
		return
	}
	if doc == nil {
		RespondNotFound(c, "Document not found")
		return
	}

	if _, err := h.db.AppendChatMessage(id, identity.ID, "user", question, nil); err != nil {
		log.Error().Err(err).Msg("failed to append user message")
		RespondInternalError(c, "Failed to process question")
		return
	}

	answer, err := h.docAPI.Ask(c.Request.Context(), identity.ID, id, question)
	if err != nil {
		respondDocAPIError(c, err, "Failed to get answer")
		return
	}

	msg, err := h.db.AppendChatMessage(id, identity.ID, "assistant", answer.Content, answer.SourcePages)
	if err != nil {
		log.Error().Err(err).Msg("failed to append assistant message")
		RespondInternalError(c, "Failed to process question")
		return
	}

	RespondData(c, msg)
}

// isPDF checks the filename extension and the declared content type
func isPDF(filename, contentType string) bool {
	if contentType != "" && contentType != "application/pdf" {
		return false
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// respondDocAPIError maps an external API failure onto the response
// taxonomy, surfacing the upstream message when one exists.
func respondDocAPIError(c *gin.Context, err error, fallback string) {
	var fetchErr *vendors.FetchError
	if errors.As(err, &fetchErr) && fetchErr.Message != "" {
		RespondFetchError(c, fetchErr.Message)
		return
	}
	log.Error().Err(err).Msg("document API request failed")
	RespondFetchError(c, fallback)
}

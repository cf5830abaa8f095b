package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mindpath-app/mindpath/log"
)

// ListNotes handles GET /api/notes
func (h *Handlers) ListNotes(c *gin.Context) {
	identity := CurrentIdentity(c)

	notes, err := h.db.ListNotes(identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list notes")
		RespondInternalError(c, "Failed to fetch notes")
		return
	}

	RespondList(c, notes)
}

// CreateNote handles POST /api/notes
func (h *Handlers) CreateNote(c *gin.Context) {
	identity := CurrentIdentity(c)

	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}
	if body.Title == "" {
		RespondValidationError(c, "Validation failed", []ErrorDetail{{Field: "title", Message: "Title is required"}})
		return
	}

	note, err := h.db.CreateNote(identity.ID, body.Title, body.Content)
	if err != nil {
		log.Error().Err(err).Msg("failed to create note")
		RespondInternalError(c, "Failed to create note")
		return
	}

	RespondCreated(c, note)
}

// GetNote handles GET /api/notes/:id
func (h *Handlers) GetNote(c *gin.Context) {
	identity := CurrentIdentity(c)

	note, err := h.db.GetNote(c.Param("id"), identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch note")
		RespondInternalError(c, "Failed to fetch note")
		return
	}
	if note == nil {
		RespondNotFound(c, "Note not found")
		return
	}

	RespondData(c, note)
}

// UpdateNote handles PATCH /api/notes/:id
func (h *Handlers) UpdateNote(c *gin.Context) {
	identity := CurrentIdentity(c)
	id := c.Param("id")

	var body struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	note, err := h.db.GetNote(id, identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch note")
		RespondInternalError(c, "Failed to update note")
		return
	}
	if note == nil {
		RespondNotFound(c, "Note not found")
		return
	}

	title := note.Title
	content := note.Content
	if body.Title != nil {
		title = *body.Title
	}
	if body.Content != nil {
		content = *body.Content
	}

	if _, err := h.db.UpdateNote(id, identity.ID, title, content); err != nil {
		log.Error().Err(err).Msg("failed to update note")
		RespondInternalError(c, "Failed to update note")
		return
	}

	updated, err := h.db.GetNote(id, identity.ID)
	if err != nil || updated == nil {
		log.Error().Err(err).Msg("failed to reload note")
		RespondInternalError(c, "Failed to update note")
		return
	}

	RespondData(c, updated)
}

// DeleteNote handles DELETE /api/notes/:id
func (h *Handlers) DeleteNote(c *gin.Context) {
	identity := CurrentIdentity(c)

	deleted, err := h.db.DeleteNote(c.Param("id"), identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete note")
		RespondInternalError(c, "Failed to delete note")
		return
	}
	if !deleted {
		RespondNotFound(c, "Note not found")
		return
	}

	RespondNoContent(c)
}

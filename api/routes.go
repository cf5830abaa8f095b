package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func (h *Handlers) SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// Public routes
	api.POST("/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)

	// Everything else requires a session
	authed := api.Group("")
	authed.Use(h.RequireSession())

	authed.GET("/auth/session", h.Session)

	// Documents
	authed.GET("/pdf", h.ListDocuments)
	authed.POST("/pdf/upload", h.UploadDocument)
	authed.DELETE("/pdf", h.DeleteDocument)
	authed.GET("/pdf/:id/chat", h.GetChat)
	authed.POST("/pdf/:id/chat", h.PostChat)

	// Notes
	authed.GET("/notes", h.ListNotes)
	authed.POST("/notes", h.CreateNote)
	authed.GET("/notes/:id", h.GetNote)
	authed.PATCH("/notes/:id", h.UpdateNote)
	authed.DELETE("/notes/:id", h.DeleteNote)

	// Study activity
	authed.GET("/users/stats", h.GetStats)
	authed.POST("/users/sessions", h.RecordStudySession)

	// Realtime speech capture (websocket)
	authed.GET("/speech/stream", h.SpeechStream)
}

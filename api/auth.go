package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mindpath-app/mindpath/auth"
	"github.com/mindpath-app/mindpath/log"
)

// Register handles POST /api/register
func (h *Handlers) Register(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	identity, err := h.auth.Register(c.Request.Context(), body.Username, body.Email, body.Password)
	if err != nil {
		var validationErr *auth.ValidationError
		switch {
		case errors.As(err, &validationErr):
			RespondValidationError(c, "Validation failed", fieldDetails(validationErr.Fields))
		case errors.Is(err, auth.ErrEmailTaken):
			RespondConflict(c, "User already exists.")
		default:
			log.Error().Err(err).Msg("registration failed")
			RespondInternalError(c, "An error occurred while registering the user.")
		}
		return
	}

	log.Info().Str("userId", identity.ID).Msg("user registered")
	RespondCreated(c, identity)
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var body struct {
		Identifier string `json:"identifier"`
		Email      string `json:"email"` // accepted as an alias for identifier
		Password   string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	identifier := body.Identifier
	if identifier == "" {
		identifier = body.Email
	}

	identity, err := h.auth.Authorize(c.Request.Context(), identifier, body.Password)
	if err != nil {
		// A uniform message regardless of the failure kind; the kind is
		// only logged server-side.
		log.Warn().Err(err).Msg("login attempt failed")
		RespondUnauthorized(c, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(identity)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue session token")
		RespondInternalError(c, "Failed to create session")
		return
	}

	secure := !h.cfg.IsDevelopment()
	c.SetCookie(sessionCookieName, token, int(h.cfg.SessionTTL.Seconds()), "/", "", secure, true)

	log.Info().Str("userId", identity.ID).Msg("login successful")
	RespondData(c, identity)
}

// Logout handles POST /api/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	if token := extractToken(c); token != "" {
		if err := h.tokens.Revoke(token); err != nil {
			log.Error().Err(err).Msg("failed to revoke session")
		}
	}

	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	RespondNoContent(c)
}

// Session handles GET /api/auth/session, returning the verified identity.
// Mounted behind RequireSession, so unauthenticated requests get 401.
func (h *Handlers) Session(c *gin.Context) {
	RespondData(c, CurrentIdentity(c))
}

func fieldDetails(fields []auth.FieldError) []ErrorDetail {
	details := make([]ErrorDetail, len(fields))
	for i, f := range fields {
		details[i] = ErrorDetail{Field: f.Field, Message: f.Message}
	}
	return details
}

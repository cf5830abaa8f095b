package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mindpath-app/mindpath/auth"
)

const (
	// sessionCookieName is the cookie carrying the session token
	sessionCookieName = "session"

	// contextKeyIdentity is the Gin context key for the verified identity
	contextKeyIdentity = "identity"
)

// RequireSession returns a Gin middleware that rejects requests without a
// valid session token (cookie or bearer) and stores the verified identity
// in the context for downstream handlers.
func (h *Handlers) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody())
			return
		}

		identity, err := h.tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody())
			return
		}

		c.Set(contextKeyIdentity, identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by RequireSession
func CurrentIdentity(c *gin.Context) auth.Identity {
	v, _ := c.Get(contextKeyIdentity)
	identity, _ := v.(auth.Identity)
	return identity
}

// extractToken reads the session token from the Authorization header or
// the session cookie.
func extractToken(c *gin.Context) string {
	header := c.Request.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	token, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

func unauthorizedBody() ErrorResponse {
	resp := ErrorResponse{}
	resp.Error.Code = ErrCodeUnauthorized
	resp.Error.Message = "Unauthorized"
	return resp
}

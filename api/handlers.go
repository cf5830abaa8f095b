package api

import (
	"context"

	"github.com/mindpath-app/mindpath/auth"
	"github.com/mindpath-app/mindpath/config"
	"github.com/mindpath-app/mindpath/db"
	"github.com/mindpath-app/mindpath/vendors"
)

// DocumentAPI is the slice of the external document-processing API the
// handlers call. vendors.DocAPI implements it; tests substitute a fake.
type DocumentAPI interface {
	Upload(ctx context.Context, userID, filename string, data []byte) (*vendors.UploadResult, error)
	Delete(ctx context.Context, userID, id string) error
	Ask(ctx context.Context, userID, id, question string) (*vendors.Answer, error)
}

// Handlers holds references to the server components
type Handlers struct {
	cfg    *config.Config
	db     *db.DB
	auth   *auth.Authenticator
	tokens *auth.TokenIssuer
	docAPI DocumentAPI
}

// NewHandlers creates a Handlers instance with its dependencies
func NewHandlers(cfg *config.Config, database *db.DB, authenticator *auth.Authenticator, tokens *auth.TokenIssuer, docAPI DocumentAPI) *Handlers {
	return &Handlers{
		cfg:    cfg,
		db:     database,
		auth:   authenticator,
		tokens: tokens,
		docAPI: docAPI,
	}
}

// Package auth implements credential authentication: account registration,
// password verification, and signed session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mindpath-app/mindpath/db"
	"golang.org/x/crypto/bcrypt"
)

// Authorization failure kinds. Authorize is read-only, so repeated failed
// attempts always reproduce the same kind.
var (
	ErrNotFound          = errors.New("auth: no account matches the identifier")
	ErrUnverified        = errors.New("auth: account is not verified")
	ErrInvalidCredential = errors.New("auth: password does not match")
	ErrEmailTaken        = errors.New("auth: email or username already registered")
)

// Identity is the minimal identity returned on successful authorization
type Identity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// UserStore is the subset of storage the authenticator needs
type UserStore interface {
	GetUserByEmail(email string) (*db.User, error)
	GetUserByUsername(username string) (*db.User, error)
	UserExists(email, username string) (bool, error)
	CreateUser(username, email, name, passwordHash string) (*db.User, error)
}

// Authenticator validates credentials against stored user records
type Authenticator struct {
	users      UserStore
	bcryptCost int
}

// NewAuthenticator creates an authenticator backed by the given store
func NewAuthenticator(users UserStore, bcryptCost int) *Authenticator {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Authenticator{users: users, bcryptCost: bcryptCost}
}

// Authorize looks up a user by email or username and verifies the password.
// It never returns a partial identity: on any failure the identity is zero
// and the error names the kind.
func (a *Authenticator) Authorize(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := a.lookup(identifier)
	if err != nil {
		return Identity{}, err
	}
	if user == nil {
		return Identity{}, ErrNotFound
	}
	if !user.IsVerified {
		return Identity{}, ErrUnverified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredential
	}

	return Identity{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

// Register validates the registration fields and creates the account.
// Returns ErrEmailTaken when the email or username is already in use.
func (a *Authenticator) Register(ctx context.Context, username, email, password string) (Identity, error) {
	if result := ValidateRegistration(username, email, password); !result.Valid {
		return Identity{}, &ValidationError{Fields: result.Errors}
	}

	taken, err := a.users.UserExists(email, username)
	if err != nil {
		return Identity{}, fmt.Errorf("checking existing user: %w", err)
	}
	if taken {
		return Identity{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return Identity{}, fmt.Errorf("hashing password: %w", err)
	}

	// The registration form has no separate display-name field; the
	// username doubles as the name, as in the original sign-up flow.
	user, err := a.users.CreateUser(username, email, username, string(hash))
	if err != nil {
		return Identity{}, fmt.Errorf("creating user: %w", err)
	}

	return Identity{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

// lookup finds a user by email when the identifier contains '@',
// otherwise by username, falling back to email.
func (a *Authenticator) lookup(identifier string) (*db.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil
	}

	if strings.Contains(identifier, "@") {
		return a.users.GetUserByEmail(identifier)
	}

	user, err := a.users.GetUserByUsername(identifier)
	if err != nil || user != nil {
		return user, err
	}
	return a.users.GetUserByEmail(identifier)
}

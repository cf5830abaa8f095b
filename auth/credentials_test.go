package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/mindpath-app/mindpath/db"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserStore is an in-memory UserStore
type fakeUserStore struct {
	users []*db.User
}

func (s *fakeUserStore) GetUserByEmail(email string) (*db.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetUserByUsername(username string) (*db.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) UserExists(email, username string) (bool, error) {
	for _, u := range s.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) CreateUser(username, email, name, passwordHash string) (*db.User, error) {
	user := &db.User{
		ID:           "user-" + username,
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		IsVerified:   true,
	}
	s.users = append(s.users, user)
	return user, nil
}

func storeWithUser(t *testing.T, username, email, password string, verified bool) *fakeUserStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &fakeUserStore{users: []*db.User{{
		ID:           "user-" + username,
		Username:     username,
		Email:        email,
		Name:         username,
		PasswordHash: string(hash),
		IsVerified:   verified,
	}}}
}

func TestAuthorize_ByEmail(t *testing.T) {
	store := storeWithUser(t, "stu", "stu@example.com", "Abc123", true)
	a := NewAuthenticator(store, bcrypt.MinCost)

	identity, err := a.Authorize(context.Background(), "stu@example.com", "Abc123")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if identity.ID != "user-stu" || identity.Email != "stu@example.com" {
		t.Errorf("unexpected identity %+v", identity)
	}
}

func TestAuthorize_ByUsername(t *testing.T) {
	store := storeWithUser(t, "stu", "stu@example.com", "Abc123", true)
	a := NewAuthenticator(store, bcrypt.MinCost)

	identity, err := a.Authorize(context.Background(), "stu", "Abc123")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if identity.Username != "stu" {
		t.Errorf("unexpected identity %+v", identity)
	}
}

func TestAuthorize_WrongPassword(t *testing.T) {
	store := storeWithUser(t, "stu", "stu@example.com", "Abc123", true)
	a := NewAuthenticator(store, bcrypt.MinCost)

	identity, err := a.Authorize(context.Background(), "stu@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("err = %v, want ErrInvalidCredential", err)
	}
	if identity != (Identity{}) {
		t.Errorf("expected zero identity on failure, got %+v", identity)
	}
}

func TestAuthorize_UnknownIdentifier(t *testing.T) {
	a := NewAuthenticator(&fakeUserStore{}, bcrypt.MinCost)

	if _, err := a.Authorize(context.Background(), "nobody@example.com", "Abc123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := a.Authorize(context.Background(), "", "Abc123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty identifier: err = %v, want ErrNotFound", err)
	}
}

func TestAuthorize_Unverified(t *testing.T) {
	store := storeWithUser(t, "stu", "stu@example.com", "Abc123", false)
	a := NewAuthenticator(store, bcrypt.MinCost)

	// Verification is checked before the password, so even the correct
	// password does not authorize an unverified account
	if _, err := a.Authorize(context.Background(), "stu@example.com", "Abc123"); !errors.Is(err, ErrUnverified) {
		t.Errorf("err = %v, want ErrUnverified", err)
	}
}

func TestAuthorize_RepeatableFailureKind(t *testing.T) {
	store := storeWithUser(t, "stu", "stu@example.com", "Abc123", true)
	a := NewAuthenticator(store, bcrypt.MinCost)

	for i := 0; i < 3; i++ {
		if _, err := a.Authorize(context.Background(), "stu", "wrong"); !errors.Is(err, ErrInvalidCredential) {
			t.Fatalf("attempt %d: err = %v, want ErrInvalidCredential", i, err)
		}
	}
}

func TestRegister_CreatesAccount(t *testing.T) {
	store := &fakeUserStore{}
	a := NewAuthenticator(store, bcrypt.MinCost)

	identity, err := a.Register(context.Background(), "stu", "stu@example.com", "Abc123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if identity.Username != "stu" || identity.Name != "stu" {
		t.Errorf("unexpected identity %+v", identity)
	}

	// The stored hash must verify against the original password
	if _, err := a.Authorize(context.Background(), "stu@example.com", "Abc123"); err != nil {
		t.Errorf("Authorize after Register: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := storeWithUser(t, "stu", "stu@example.com", "Abc123", true)
	a := NewAuthenticator(store, bcrypt.MinCost)

	if _, err := a.Register(context.Background(), "other", "stu@example.com", "Abc123"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegister_InvalidFields(t *testing.T) {
	store := &fakeUserStore{}
	a := NewAuthenticator(store, bcrypt.MinCost)

	_, err := a.Register(context.Background(), "stu", "stu@example.com", "weak")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(store.users) != 0 {
		t.Errorf("no account should be created on validation failure")
	}
}

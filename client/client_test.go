package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mindpath-app/mindpath/auth"
)

// newAuthServer scripts the auth endpoints with cookie-based sessions
func newAuthServer(t *testing.T) *Client {
	t.Helper()

	identity := auth.Identity{ID: "u1", Name: "Stu", Email: "stu@example.com", Username: "stu"}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Identifier string `json:"identifier"`
			Password   string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "Abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{
				"code": "UNAUTHORIZED", "message": "Invalid credentials",
			}})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok", Path: "/"})
		json.NewEncoder(w).Encode(map[string]any{"data": identity})
	})
	mux.HandleFunc("GET /api/auth/session", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err != nil || c.Value != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{
				"code": "UNAUTHORIZED", "message": "Authentication required",
			}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": identity})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return c
}

func TestSession_NilWithoutSession(t *testing.T) {
	c := newAuthServer(t)

	identity, err := c.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if identity != nil {
		t.Errorf("identity = %+v, want nil before sign-in", identity)
	}
}

func TestSignIn_StoresCookieForLaterCalls(t *testing.T) {
	c := newAuthServer(t)

	identity, err := c.SignIn(context.Background(), "stu", "Abc123")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if identity.Username != "stu" {
		t.Errorf("identity = %+v", identity)
	}

	got, err := c.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if got == nil || got.ID != "u1" {
		t.Errorf("Session after SignIn = %+v, want u1", got)
	}
}

func TestSignIn_FailureIsUnauthorized(t *testing.T) {
	c := newAuthServer(t)

	_, err := c.SignIn(context.Background(), "stu", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
		t.Errorf("err = %v, want *APIError carrying the server message", err)
	}
}

func TestSignOut_EndsSession(t *testing.T) {
	c := newAuthServer(t)

	if _, err := c.SignIn(context.Background(), "stu", "Abc123"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	identity, err := c.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if identity != nil {
		t.Errorf("identity = %+v, want nil after sign-out", identity)
	}
}

// Client satisfies the session provider's AuthClient surface, so the
// compile-time check lives here.
var _ interface {
	SignIn(ctx context.Context, identifier, password string) (auth.Identity, error)
	SignOut(ctx context.Context) error
	Session(ctx context.Context) (*auth.Identity, error)
} = (*Client)(nil)

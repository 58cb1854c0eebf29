package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("grant_type") != "password" {
			http.Error(w, "unexpected grant", http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("password") != "correct-horse" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-123","token_type":"bearer","expires_in":3600,"user_id":"user-42"}`))
	})
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	return httptest.NewServer(mux)
}

func TestSignInAndSessionLookup(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()

	m := NewManager(server.URL)
	session, err := m.SignIn(context.Background(), "user@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if session.UserID != "user-42" {
		t.Fatalf("user id = %q", session.UserID)
	}
	if session.Token == "" {
		t.Fatal("expected non-empty session token")
	}

	got, ok := m.SessionFor(session.Token)
	if !ok || got.Email != "user@example.com" {
		t.Fatalf("session lookup failed: %+v ok=%v", got, ok)
	}
}

func TestSignInRejectsBadPassword(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()

	m := NewManager(server.URL)
	if _, err := m.SignIn(context.Background(), "user@example.com", "wrong"); err == nil {
		t.Fatal("expected sign in error")
	}
}

func TestSignUpThenSignIn(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()

	m := NewManager(server.URL)
	session, err := m.SignUp(context.Background(), "new@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, ok := m.SessionFor(session.Token); !ok {
		t.Fatal("expected live session after signup")
	}
}

func TestSignOutDropsSession(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()

	m := NewManager(server.URL)
	session, err := m.SignIn(context.Background(), "user@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	m.SignOut(session.Token)
	if _, ok := m.SessionFor(session.Token); ok {
		t.Fatal("expected session gone after sign out")
	}
	// Unknown token sign-out is a no-op.
	m.SignOut("never-existed")
}

func TestExpiredSessionEvicted(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()

	m := NewManager(server.URL)
	session, err := m.SignIn(context.Background(), "user@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	m.mu.Lock()
	m.sessions[session.Token].ExpiresAt = time.Now().Add(-time.Minute)
	m.mu.Unlock()

	if _, ok := m.SessionFor(session.Token); ok {
		t.Fatal("expected expired session to be rejected")
	}
}

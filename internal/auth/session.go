// Package auth adapts the remote identity service. The backend is opaque to
// the client: a password-grant token endpoint plus a signup endpoint. Session
// state lives in memory and is keyed by an opaque session token handed to the
// windows.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/loftylabs/lofty/internal/util"
)

const defaultAuthURL = "https://auth.lofty.app"

const defaultSessionTTL = 24 * time.Hour

// userNamespace seeds stable user IDs for backends that do not return one.
var userNamespace = uuid.MustParse("6d1f2c35-9b1e-4a86-a0a4-3c2de05b9f17")

// Session is an authenticated window identity.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager signs users in and out against the remote identity service and
// caches live sessions.
type Manager struct {
	conf       *oauth2.Config
	signupURL  string
	httpClient *http.Client

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager against baseURL. An empty baseURL falls back
// to LOFTY_AUTH_URL, then the production default.
func NewManager(baseURL string) *Manager {
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv("LOFTY_AUTH_URL"))
	}
	if baseURL == "" {
		baseURL = defaultAuthURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &Manager{
		conf: &oauth2.Config{
			Endpoint: oauth2.Endpoint{TokenURL: baseURL + "/token"},
		},
		signupURL:  baseURL + "/signup",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		sessions:   make(map[string]*Session),
	}
}

// SignIn exchanges email/password for a session.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	token, err := m.conf.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in failed: %w", err)
	}

	userID, _ := token.Extra("user_id").(string)
	if userID == "" {
		userID = uuid.NewSHA1(userNamespace, []byte(strings.ToLower(strings.TrimSpace(email)))).String()
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(defaultSessionTTL)
	}

	session := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Email:     email,
		ExpiresAt: expiresAt,
	}

	m.mu.Lock()
	m.sessions[session.Token] = session
	m.mu.Unlock()

	log.Printf("✅ Signed in: %s", email)
	return session, nil
}

// SignUp registers a new account, then signs it in.
func (m *Manager) SignUp(ctx context.Context, email, password string) (*Session, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode signup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.signupURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build signup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign up failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sign up failed with %d: %s", resp.StatusCode, util.TruncateBytes(body))
	}

	return m.SignIn(ctx, email, password)
}

// SignOut drops the session. Unknown tokens are a no-op.
func (m *Manager) SignOut(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[token]; ok {
		log.Printf("👋 Signed out: %s", session.Email)
		delete(m.sessions, token)
	}
}

// SessionFor returns the live session for a token, if any. Expired sessions
// are dropped on access.
func (m *Manager) SessionFor(token string) (*Session, bool) {
	m.mu.RLock()
	session, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, false
	}
	return session, true
}

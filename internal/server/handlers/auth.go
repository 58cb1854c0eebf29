package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/loftylabs/lofty/internal/auth"
	"github.com/loftylabs/lofty/internal/server/middleware"
)

// credentialsRequest is the body of sign-in and sign-up calls.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInHandler exchanges email/password for a session token.
func SignInHandler(manager *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		session, err := manager.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

// SignUpHandler registers a new account and signs it in.
func SignUpHandler(manager *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		session, err := manager.SignUp(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, session)
	}
}

// SignOutHandler drops the caller's session.
func SignOutHandler(manager *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session, ok := middleware.SessionFrom(r.Context()); ok {
			manager.SignOut(session.Token)
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// SessionHandler returns the caller's current session.
func SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := middleware.SessionFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not signed in")
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/loftylabs/lofty/internal/db"
	"github.com/loftylabs/lofty/internal/history"
	"github.com/loftylabs/lofty/internal/server/middleware"
)

// HistoryHandler returns the caller's chat history grouped into conversations,
// newest conversation first.
func HistoryHandler(chats *db.ChatStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := middleware.SessionFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not signed in")
			return
		}

		limit := db.DefaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = parsed
		}

		rows, err := chats.History(session.UserID, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load history: "+err.Error())
			return
		}

		conversations := history.Group(rows)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"conversations": conversations,
			"count":         len(conversations),
		})
	}
}

// DeleteChatHandler deletes one of the caller's conversations.
func DeleteChatHandler(chats *db.ChatStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := middleware.SessionFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not signed in")
			return
		}

		chatID := chi.URLParam(r, "chatID")
		if chatID == "" {
			writeError(w, http.StatusBadRequest, "chatID is required")
			return
		}

		if err := chats.DeleteChat(session.UserID, chatID); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to delete chat: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// DeleteHistoryHandler wipes the caller's entire history.
func DeleteHistoryHandler(chats *db.ChatStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := middleware.SessionFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not signed in")
			return
		}

		if err := chats.DeleteAll(session.UserID); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to delete history: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/loftylabs/lofty/internal/catalog"
	"github.com/loftylabs/lofty/internal/db"
	"github.com/loftylabs/lofty/internal/dispatch"
	"github.com/loftylabs/lofty/internal/keystore"
	"github.com/loftylabs/lofty/internal/logging"
	"github.com/loftylabs/lofty/internal/resolver"
	"github.com/loftylabs/lofty/internal/server/middleware"
)

// ChatRequest is the body of a chat dispatch call.
type ChatRequest struct {
	Prompt string `json:"prompt"`
	Mode   string `json:"mode"`
	ChatID string `json:"chat_id,omitempty"`
}

// ChatHandler resolves the caller's mode to a model, dispatches the prompt,
// and persists the exchange. A failed save is logged but does not withhold
// the model's reply from the caller.
func ChatHandler(store *keystore.Store, chats *db.ChatStore, client *dispatch.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := middleware.SessionFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not signed in")
			return
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeError(w, http.StatusBadRequest, "Prompt is required")
			return
		}

		credentials := store.Load()
		modelID := resolver.Resolve(req.Mode, store.LoadModes(), credentials)
		descriptor, ok := catalog.Get(modelID)
		if !ok {
			// Resolver output is always a catalog ID; reaching this means the
			// catalog changed under us mid-request.
			writeError(w, http.StatusInternalServerError, "Resolved model is not in the catalog")
			return
		}

		requestID := logging.GetRequestID(r.Context())
		log.Printf("💬 [%s] mode=%q -> model=%s", requestID, req.Mode, modelID)

		// Dispatch looks keys up by their env-style names, including the
		// legacy aliases the export produces.
		secret := store.ExportForDispatch()[descriptor.APIEnvName]
		reply, err := client.Complete(r.Context(), descriptor, req.Prompt, secret)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}

		chatID := req.ChatID
		if chatID == "" {
			chatID = uuid.NewString()
		}
		if err := chats.SaveMessage(session.UserID, modelID, req.Prompt, reply, chatID); err != nil {
			log.Printf("⚠️ [%s] Failed to save chat message: %v", requestID, err)
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"response": reply,
			"model":    modelID,
			"chat_id":  chatID,
		})
	}
}

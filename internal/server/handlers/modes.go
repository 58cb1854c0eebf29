package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/loftylabs/lofty/internal/bus"
	"github.com/loftylabs/lofty/internal/catalog"
	"github.com/loftylabs/lofty/internal/keystore"
)

// ModesHandler returns the current mode-to-model assignment.
func ModesHandler(store *keystore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"modes": store.LoadModes()})
	}
}

// SetModesHandler merges submitted mode assignments over the stored ones.
// Model IDs are checked against the catalog; legacy short names are accepted
// and normalized before persisting.
func SetModesHandler(store *keystore.Store, events *bus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Modes map[string]string `json:"modes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(req.Modes) == 0 {
			writeError(w, http.StatusBadRequest, "No modes provided")
			return
		}

		assignment := store.LoadModes()
		for mode, modelID := range req.Modes {
			normalized := catalog.LegacyAlias(strings.TrimSpace(modelID))
			if _, ok := catalog.Get(normalized); !ok {
				writeError(w, http.StatusBadRequest, "Unknown model: "+modelID)
				return
			}
			assignment[mode] = normalized
		}

		if err := store.SaveModes(assignment); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save modes: "+err.Error())
			return
		}
		events.Publish(bus.ChannelModelConfig)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"modes":   assignment,
		})
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/loftylabs/lofty/internal/bus"
	"github.com/loftylabs/lofty/internal/discovery"
	"github.com/loftylabs/lofty/internal/keystore"
)

// KeysHandler reports which providers have keys stored, with masked values.
// Raw keys never leave the process.
func KeysHandler(store *keystore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stored := store.Load()

		keys := make(map[string]interface{}, len(keystore.KnownProviders))
		for _, provider := range keystore.KnownProviders {
			value := stored[provider]
			keys[provider] = map[string]interface{}{
				"set":    strings.TrimSpace(value) != "",
				"masked": discovery.MaskKey(value),
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"keys": keys})
	}
}

// SetKeysHandler merges the submitted keys into the store. Providers absent
// from the body keep their stored value; an explicit empty string clears one.
func SetKeysHandler(store *keystore.Store, events *bus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Keys map[string]string `json:"keys"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(req.Keys) == 0 {
			writeError(w, http.StatusBadRequest, "No keys provided")
			return
		}

		if err := store.Save(req.Keys); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save keys: "+err.Error())
			return
		}
		events.Publish(bus.ChannelAPIKeys)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"updated": len(req.Keys),
		})
	}
}

// ImportKeysHandler scans the machine for keys other AI tools configured and
// fills in providers that have no stored key yet. Stored keys are never
// overwritten by an import.
func ImportKeysHandler(store *keystore.Store, events *bus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := discovery.ScanAll()
		stored := store.Load()

		imported := make(map[string]string)
		for _, finding := range result.Findings {
			if strings.TrimSpace(stored[finding.Provider]) != "" {
				continue
			}
			imported[finding.Provider] = finding.Key
		}

		if len(imported) > 0 {
			if err := store.Save(imported); err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to save imported keys: "+err.Error())
				return
			}
			events.Publish(bus.ChannelAPIKeys)
		}

		masked := make([]discovery.Finding, len(result.Findings))
		for i, finding := range result.Findings {
			masked[i] = discovery.MaskFinding(finding)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"findings": masked,
			"imported": len(imported),
			"errors":   result.Errors,
		})
	}
}

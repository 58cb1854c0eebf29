package handlers

import (
	"net/http"

	"github.com/loftylabs/lofty/internal/catalog"
	"github.com/loftylabs/lofty/internal/keystore"
	"github.com/loftylabs/lofty/internal/resolver"
)

// ModelsHandler lists the catalog, optionally filtered by tier.
func ModelsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := catalog.FilterNone
		switch r.URL.Query().Get("tier") {
		case "paid":
			filter = catalog.FilterPaidOnly
		case "free":
			filter = catalog.FilterFreeOnly
		}

		models := catalog.List(filter)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"models":    models,
			"count":     len(models),
			"use_cases": catalog.UseCases(),
		})
	}
}

// ResolveHandler reports which concrete model a mode would dispatch to right
// now, given the persisted assignment and stored credentials.
func ResolveHandler(store *keystore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := r.URL.Query().Get("mode")
		if mode == "" {
			writeError(w, http.StatusBadRequest, "mode query parameter is required")
			return
		}

		modelID := resolver.Resolve(mode, store.LoadModes(), store.Load())
		descriptor, _ := catalog.Get(modelID)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"mode":         mode,
			"model":        modelID,
			"display_name": descriptor.DisplayName,
			"paid":         descriptor.IsPaid,
		})
	}
}

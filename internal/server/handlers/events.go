package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/loftylabs/lofty/internal/bus"
)

// EventsHandler streams configuration-change notifications over SSE. Each
// event names the changed channel; clients re-fetch the affected state rather
// than receiving values inline.
func EventsHandler(events *bus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "Streaming unsupported")
			return
		}

		SetSSEHeaders(w)

		ch, cancel := events.Subscribe()
		defer cancel()

		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case event := <-ch:
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Channel, payload)
				flusher.Flush()
			}
		}
	}
}

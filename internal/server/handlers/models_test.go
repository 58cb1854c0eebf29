package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/loftylabs/lofty/internal/bus"
	"github.com/loftylabs/lofty/internal/catalog"
)

func TestModelsHandlerTierFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/models?tier=free", nil)
	w := httptest.NewRecorder()
	ModelsHandler()(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Models []catalog.Descriptor `json:"models"`
		Count  int                  `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count == 0 {
		t.Fatal("expected free models")
	}
	for _, m := range resp.Models {
		if m.IsPaid {
			t.Fatalf("paid model %s in free listing", m.ID)
		}
	}
}

func TestResolveHandlerFallsBackWithoutCredential(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveModes(map[string]string{"programming": "claude-3.5-sonnet"}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/models/resolve?mode=programming", nil)
	w := httptest.NewRecorder()
	ResolveHandler(store)(w, req)

	var resp struct {
		Model string `json:"model"`
		Paid  bool   `json:"paid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Paid {
		t.Fatalf("expected a free fallback without credentials, got %s", resp.Model)
	}

	// With the key stored, the paid assignment holds.
	if err := store.Save(map[string]string{"anthropic": "sk-ant-test"}); err != nil {
		t.Fatal(err)
	}
	w = httptest.NewRecorder()
	ResolveHandler(store)(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Model != "claude-3.5-sonnet" {
		t.Fatalf("model = %q", resp.Model)
	}
}

func TestResolveHandlerRequiresMode(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/models/resolve", nil)
	w := httptest.NewRecorder()
	ResolveHandler(newTestStore(t))(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSetModesValidatesAndNormalizes(t *testing.T) {
	store := newTestStore(t)
	events := bus.New()

	req := httptest.NewRequest(http.MethodPost, "/api/modes", strings.NewReader(`{"modes":{"programming":"claude"}}`))
	w := httptest.NewRecorder()
	SetModesHandler(store, events)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := store.LoadModes()["programming"]; got != "claude-3.5-sonnet" {
		t.Fatalf("legacy name not normalized, got %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/modes", strings.NewReader(`{"modes":{"math":"no-such-model"}}`))
	w = httptest.NewRecorder()
	SetModesHandler(store, events)(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown model accepted, status = %d", w.Code)
	}
}

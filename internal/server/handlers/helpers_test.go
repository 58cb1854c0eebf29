package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/loftylabs/lofty/internal/auth"
	"github.com/loftylabs/lofty/internal/db"
	"github.com/loftylabs/lofty/internal/db/models"
	"github.com/loftylabs/lofty/internal/keystore"
	"github.com/loftylabs/lofty/internal/server/middleware"
)

func newTestStore(t *testing.T) *keystore.Store {
	t.Helper()
	store, err := keystore.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func newTestChatStore(t *testing.T) *db.ChatStore {
	t.Helper()
	database, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(&models.Query{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db.NewChatStore(database)
}

// withSession attaches a fake signed-in session, bypassing the auth
// middleware the router would normally run.
func withSession(r *http.Request, userID string) *http.Request {
	session := &auth.Session{
		Token:     "test-token",
		UserID:    userID,
		Email:     userID + "@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return r.WithContext(middleware.WithSession(r.Context(), session))
}

package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/loftylabs/lofty/internal/auth"
	"github.com/loftylabs/lofty/internal/bus"
	"github.com/loftylabs/lofty/internal/catalog"
	"github.com/loftylabs/lofty/internal/db"
	"github.com/loftylabs/lofty/internal/dispatch"
	"github.com/loftylabs/lofty/internal/keystore"
	"github.com/loftylabs/lofty/internal/server/handlers"
	"github.com/loftylabs/lofty/internal/server/middleware"
	"github.com/loftylabs/lofty/internal/version"
)

func main() {
	// Load the model catalog before anything consults it. A broken catalog
	// (or extension file) is a configuration error worth dying for.
	if err := catalog.Init(); err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}

	storageDir := os.Getenv("LOFTY_DIR")
	if storageDir == "" {
		dir, err := keystore.DefaultDir()
		if err != nil {
			log.Fatalf("Failed to locate storage directory: %v", err)
		}
		storageDir = dir
	}

	store, err := keystore.NewStore(storageDir)
	if err != nil {
		log.Fatalf("Failed to open key store: %v", err)
	}

	database, err := db.InitDB(filepath.Join(storageDir, "lofty.db"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	chats := db.NewChatStore(database)

	events := bus.New()
	client := dispatch.NewClient()
	sessions := auth.NewManager("")

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)

	// Auth endpoints are the only ones reachable without a session.
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signin", handlers.SignInHandler(sessions))
		r.Post("/signup", handlers.SignUpHandler(sessions))

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(sessions))
			r.Post("/signout", handlers.SignOutHandler(sessions))
			r.Get("/session", handlers.SessionHandler())
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SessionAuth(sessions))

		// Catalog and resolution
		r.Get("/models", handlers.ModelsHandler())
		r.Get("/models/resolve", handlers.ResolveHandler(store))

		// Credentials
		r.Get("/keys", handlers.KeysHandler(store))
		r.Post("/keys", handlers.SetKeysHandler(store, events))
		r.Post("/keys/import", handlers.ImportKeysHandler(store, events))

		// Mode assignment
		r.Get("/modes", handlers.ModesHandler(store))
		r.Post("/modes", handlers.SetModesHandler(store, events))

		// Chat and history
		r.Post("/chat", handlers.ChatHandler(store, chats, client))
		r.Get("/history", handlers.HistoryHandler(chats))
		r.Delete("/history", handlers.DeleteHistoryHandler(chats))
		r.Delete("/history/{chatID}", handlers.DeleteChatHandler(chats))

		// Change notifications
		r.Get("/events", handlers.EventsHandler(events))
	})

	host := os.Getenv("LOFTY_HOST")
	if host == "" {
		host = "127.0.0.1" // the windows talk to us locally; never expose by default
	}
	port := os.Getenv("LOFTY_PORT")
	if port == "" {
		port = "8808"
	}
	addr := host + ":" + port

	log.Printf("🚀 Lofty core %s starting on http://%s", version.Version, addr)
	log.Printf("📦 Storage: %s", storageDir)
	log.Printf("📡 Events: http://%s/api/events", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

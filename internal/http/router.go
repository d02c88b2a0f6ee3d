package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"diary-recall/internal/handlers"
	"diary-recall/internal/rag"
	"diary-recall/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine rag.Engine
	Store  storage.EntryStore
	DB     *sql.DB
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.Engine)
	statsHandler := handlers.NewStatsHandler(deps.Store)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodGet, "/stats", statsHandler)
	})

	r.Method(http.MethodGet, "/healthz", handlers.NewHealthHandler(deps.DB))

	return r
}

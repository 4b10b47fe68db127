package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/leitner/internal/api/middleware"
	"github.com/phrazzld/leitner/internal/service/auth"
	"github.com/phrazzld/leitner/internal/service/review"
)

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Reviews review.Service
	// Tokens enables bearer token authentication on the deck routes.
	// Nil leaves them open.
	Tokens auth.TokenService
	Logger *slog.Logger
}

// NewRouter builds the HTTP handler for the API.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Trace(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	decks := NewDeckHandler(cfg.Reviews, log)

	r.Route("/api/decks", func(r chi.Router) {
		var authMiddleware *middleware.AuthMiddleware
		if cfg.Tokens != nil {
			authMiddleware = middleware.NewAuthMiddleware(cfg.Tokens)
			r.Use(authMiddleware.Authenticate)
		}

		r.Get("/", decks.ListDecks)

		r.Route("/{deck}", func(r chi.Router) {
			if authMiddleware != nil {
				r.Use(middleware.RequireDeckAccess("deck"))
			}

			r.Post("/cards", decks.AddCard)
			r.Get("/cards/{fingerprint}/hint", decks.Hint)
			r.Get("/due", decks.DueCards)
			r.Post("/reviews", decks.SubmitReview)
			r.Get("/reviews", decks.History)
			r.Get("/progress", decks.Progress)
			r.Post("/rebuild", decks.Rebuild)
		})
	})

	return r
}

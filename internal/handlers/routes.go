package handlers

import (
	"net/http"

	"memehub/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes builds the HTTP router with all meme pool endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(s.Logger, s.Metrics))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(s.AllowedOrigins)))

	r.Get("/health", s.HandleHealth())
	if s.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Metrics.Registry(), promhttp.HandlerOpts{}))
	}
	r.Get("/ws", s.HandleWebSocket())

	r.Route("/memes", func(r chi.Router) {
		r.Post("/", s.HandleCreateMeme())
		r.Get("/{id}", s.HandleGetMeme())
		r.Post("/{id}/votes", s.HandleVote())
		r.Post("/{id}/views", s.HandleRecordView())
		r.Get("/{id}/comments", s.HandleGetComments())
		r.Post("/{id}/comments", s.HandleAddComment())
	})
	r.Get("/feed", s.HandleFeed())

	r.Route("/users/{id}", func(r chi.Router) {
		r.Get("/memes", s.HandleUserMemes())
		r.Get("/stats", s.HandleUserStats())
	})

	r.Route("/trending", func(r chi.Router) {
		r.Get("/tags", s.HandleTrendingTags())
		r.Get("/meme-of-the-day", s.HandleMemeOfTheDay())
		r.Get("/creators", s.HandleTopCreators())
	})
	r.Get("/templates", s.HandleTemplates())
	r.Get("/templates/{id}", s.HandleGetTemplate())

	return r
}

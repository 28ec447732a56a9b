package handlers

import (
	"net/http"

	"memehub/internal/engine/actors"

	"github.com/go-chi/chi/v5"
)

// HandleUserMemes handles GET /users/{id}/memes, newest first. Unknown
// creators get an empty list.
func (s *Server) HandleUserMemes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.ask(s.Engine.QueryActor(), &actors.GetUserMemesMsg{CreatorID: chi.URLParam(r, "id")})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

// HandleUserStats handles GET /users/{id}/stats
func (s *Server) HandleUserStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.ask(s.Engine.QueryActor(), &actors.GetCreatorStatsMsg{CreatorID: chi.URLParam(r, "id")})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

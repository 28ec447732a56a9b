package handlers

import (
	"net/http"

	"memehub/internal/aggregate"
	"memehub/internal/engine/actors"

	"github.com/go-chi/chi/v5"
)

// HandleTrendingTags handles GET /trending/tags?limit=N
func (s *Server) HandleTrendingTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryLimit(r, aggregate.DefaultTrendingLimit)
		if err != nil {
			s.respondError(w, err)
			return
		}
		result, err := s.ask(s.Engine.QueryActor(), &actors.GetTrendingTagsMsg{Limit: limit})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

// HandleMemeOfTheDay handles GET /trending/meme-of-the-day; 204 when no
// meme was created in the last 24 hours.
func (s *Server) HandleMemeOfTheDay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.ask(s.Engine.QueryActor(), &actors.GetMemeOfTheDayMsg{Now: s.now()})
		if err != nil {
			s.respondError(w, err)
			return
		}
		motd := result.(*actors.MemeOfTheDay)
		if motd.Meme == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.respondJSON(w, http.StatusOK, motd.Meme)
	}
}

// HandleTopCreators handles GET /trending/creators?limit=N
func (s *Server) HandleTopCreators() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryLimit(r, aggregate.DefaultCreatorsLimit)
		if err != nil {
			s.respondError(w, err)
			return
		}
		result, err := s.ask(s.Engine.QueryActor(), &actors.GetTopCreatorsMsg{Limit: limit})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

// HandleGetTemplate handles GET /templates/{id}
func (s *Server) HandleGetTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.ask(s.Engine.QueryActor(), &actors.GetTemplateMsg{TemplateID: chi.URLParam(r, "id")})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

func (s *Server) HandleTemplates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.ask(s.Engine.QueryActor(), &actors.GetTemplatesMsg{})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

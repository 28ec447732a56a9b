package handlers

import (
	"net/http"

	"memehub/internal/engine/actors"

	"github.com/go-chi/chi/v5"
)

// CreateCommentRequest represents a request to comment on a meme. The
// 140 character limit is applied after trimming, by the meme service.
type CreateCommentRequest struct {
	Text           string `json:"text" validate:"required,max=4096"`
	AuthorID       string `json:"authorId" validate:"max=128"`
	AuthorUsername string `json:"authorUsername" validate:"max=128"`
}

// HandleAddComment handles POST /memes/{id}/comments
func (s *Server) HandleAddComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateCommentRequest
		if err := s.decode(w, r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		memeID := chi.URLParam(r, "id")
		result, err := s.ask(s.Engine.ShardFor(memeID), &actors.AddCommentMsg{
			MemeID:         memeID,
			Text:           req.Text,
			AuthorID:       req.AuthorID,
			AuthorUsername: req.AuthorUsername,
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusCreated, result)
	}
}

// HandleGetComments handles GET /memes/{id}/comments, newest first.
func (s *Server) HandleGetComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.ask(s.Engine.QueryActor(), &actors.GetCommentsMsg{MemeID: chi.URLParam(r, "id")})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

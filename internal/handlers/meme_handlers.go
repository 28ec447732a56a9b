package handlers

import (
	"net/http"

	"memehub/internal/engine/actors"
	"memehub/internal/memes"
	"memehub/internal/models"
	"memehub/internal/utils"

	"github.com/go-chi/chi/v5"
)

// CreateMemeRequest represents a request to create a new meme
type CreateMemeRequest struct {
	TemplateID      string   `json:"templateId" validate:"max=64"`
	ImageURL        string   `json:"imageUrl" validate:"max=2048"`
	TopText         string   `json:"topText" validate:"max=500"`
	BottomText      string   `json:"bottomText" validate:"max=500"`
	CreatorID       string   `json:"creatorId" validate:"required,max=128"`
	CreatorUsername string   `json:"creatorUsername" validate:"max=128"`
	Tags            []string `json:"tags"`
}

// VoteRequest carries "up"/"down" (or 1/-1). UserID is accepted for clients
// that send it but votes are not deduplicated per user.
type VoteRequest struct {
	Direction string `json:"direction" validate:"required"`
	UserID    string `json:"userId,omitempty"`
}

// HandleCreateMeme handles POST /memes
func (s *Server) HandleCreateMeme() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateMemeRequest
		if err := s.decode(w, r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		result, err := s.ask(s.Engine.CreateShard(req.CreatorID), &actors.CreateMemeMsg{Params: memes.CreateMemeParams{
			TemplateID:      req.TemplateID,
			ImageURL:        req.ImageURL,
			TopText:         req.TopText,
			BottomText:      req.BottomText,
			CreatorID:       req.CreatorID,
			CreatorUsername: req.CreatorUsername,
			Tags:            req.Tags,
		}})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusCreated, result)
	}
}

// HandleGetMeme handles GET /memes/{id}. Reading a meme does not count a view.
func (s *Server) HandleGetMeme() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.ask(s.Engine.QueryActor(), &actors.GetMemeMsg{MemeID: chi.URLParam(r, "id")})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

// HandleVote handles POST /memes/{id}/votes
func (s *Server) HandleVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VoteRequest
		if err := s.decode(w, r, &req); err != nil {
			s.respondError(w, err)
			return
		}
		direction, err := models.ParseVoteDirection(req.Direction)
		if err != nil {
			s.respondError(w, utils.NewInvalidInputError(err.Error()))
			return
		}

		memeID := chi.URLParam(r, "id")
		result, err := s.ask(s.Engine.ShardFor(memeID), &actors.VoteMemeMsg{
			MemeID:    memeID,
			Direction: direction,
			UserID:    req.UserID,
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

// HandleRecordView handles POST /memes/{id}/views. Views of unknown memes
// are ignored and answered with 204.
func (s *Server) HandleRecordView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memeID := chi.URLParam(r, "id")
		result, err := s.ask(s.Engine.ShardFor(memeID), &actors.RecordViewMsg{MemeID: memeID})
		if err != nil {
			s.respondError(w, err)
			return
		}
		view := result.(*actors.ViewRecorded)
		if !view.Recorded {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.respondJSON(w, http.StatusOK, view.Stats)
	}
}

// HandleFeed handles GET /feed?filter=new|top24h|topWeek|allTime&limit=N
func (s *Server) HandleFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := models.ParseFeedFilter(r.URL.Query().Get("filter"))
		if err != nil {
			s.respondError(w, utils.NewInvalidInputError(err.Error()))
			return
		}
		limit, err := queryLimit(r, 0)
		if err != nil {
			s.respondError(w, err)
			return
		}

		result, err := s.ask(s.Engine.QueryActor(), &actors.GetFeedMsg{Filter: filter, Now: s.now(), Limit: limit})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

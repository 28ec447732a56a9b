// Package memes is the operation surface of the meme pool: the only way to
// create memes, cast votes, append comments and record views, plus the read
// queries over the store. Every call is synchronous and bounded by store size.
package memes

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"memehub/internal/aggregate"
	"memehub/internal/catalog"
	"memehub/internal/models"
	"memehub/internal/ranking"
	"memehub/internal/store"
	"memehub/internal/utils"

	"github.com/lithammer/shortuuid/v4"
)

type Service struct {
	store     *store.Store
	feeds     *ranking.Engine
	stats     *aggregate.Engine
	templates catalog.Catalog

	now   func() time.Time
	newID func() string
}

type Option func(*Service)

// WithClock replaces the clock used to stamp createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the meme/comment id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(st *store.Store, templates catalog.Catalog, opts ...Option) *Service {
	if templates == nil {
		templates = catalog.NewStatic()
	}
	s := &Service{
		store:     st,
		feeds:     ranking.New(st),
		stats:     aggregate.New(st),
		templates: templates,
		now:       time.Now,
		newID:     shortuuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying entity store.
func (s *Service) Store() *store.Store {
	return s.store
}

type CreateMemeParams struct {
	TemplateID      string
	ImageURL        string
	TopText         string
	BottomText      string
	CreatorID       string
	CreatorUsername string
	Tags            []string
}

// CreateMeme stamps a new meme with a fresh id and the current time, zeroed
// stats and normalized tags. When ImageURL is empty and TemplateID names a
// known template, the template image is used.
func (s *Service) CreateMeme(p CreateMemeParams) (*models.Meme, error) {
	meme := &models.Meme{
		ID:              s.newID(),
		ImageURL:        p.ImageURL,
		TopText:         p.TopText,
		BottomText:      p.BottomText,
		CreatorID:       p.CreatorID,
		CreatorUsername: p.CreatorUsername,
		CreatedAt:       s.now().UTC(),
		Tags:            NormalizeTags(p.Tags),
	}
	if p.TemplateID != "" {
		templateID := p.TemplateID
		meme.TemplateID = &templateID
		if meme.ImageURL == "" {
			if tpl, ok := s.templates.Get(templateID); ok {
				meme.ImageURL = tpl.URL
			}
		}
	}

	if _, err := s.store.InsertMeme(meme); err != nil {
		return nil, err
	}
	return meme.Clone(), nil
}

// Vote applies one up or down vote. There is no per-user bookkeeping: the
// same caller may vote any number of times.
func (s *Service) Vote(memeID string, direction models.VoteDirection) (models.Stats, error) {
	return s.store.ApplyVote(memeID, direction)
}

// AddComment validates text (trimmed, 1..140 characters) and inserts the
// comment together with the parent's counter increment.
func (s *Service) AddComment(memeID, text, authorID, authorUsername string) (*models.Comment, error) {
	if _, err := s.store.Get(memeID); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, utils.NewInvalidInputError("comment text is empty")
	}
	if utf8.RuneCountInString(text) > models.MaxCommentLength {
		return nil, utils.NewInvalidInputError("comment text exceeds 140 characters")
	}

	comment := &models.Comment{
		ID:             s.newID(),
		MemeID:         memeID,
		AuthorID:       authorID,
		AuthorUsername: authorUsername,
		Text:           text,
		CreatedAt:      s.now().UTC(),
	}
	if _, err := s.store.InsertComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// RecordView counts one view. Unknown ids are ignored; ok reports whether a
// view was recorded.
func (s *Service) RecordView(memeID string) (stats models.Stats, ok bool) {
	stats, err := s.store.RecordView(memeID)
	return stats, err == nil
}

func (s *Service) GetFeed(filter models.FeedFilter, now time.Time) ([]*models.Meme, error) {
	feed, err := s.feeds.Feed(filter, now)
	if err != nil {
		return nil, err
	}
	return cloneAll(feed), nil
}

// GetMeme is a pure read; it does not count a view.
func (s *Service) GetMeme(id string) (*models.Meme, error) {
	return s.store.Get(id)
}

// GetComments returns a meme's comments newest first.
func (s *Service) GetComments(memeID string) ([]*models.Comment, error) {
	comments, err := s.store.Comments(memeID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(comments)-1; i < j; i, j = i+1, j-1 {
		comments[i], comments[j] = comments[j], comments[i]
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *Service) GetUserMemes(creatorID string) []*models.Meme {
	return cloneAll(s.feeds.ByCreator(creatorID))
}

func (s *Service) GetTrendingTags(limit int) []string {
	return s.stats.TrendingTags(limit)
}

// GetMemeOfTheDay returns nil when no meme was created in the last 24h.
func (s *Service) GetMemeOfTheDay(now time.Time) *models.Meme {
	if m := s.stats.MemeOfTheDay(now); m != nil {
		return m.Clone()
	}
	return nil
}

func (s *Service) GetTopCreators(limit int) []models.CreatorScore {
	return s.stats.TopCreators(limit)
}

func (s *Service) GetCreatorStats(creatorID string) models.CreatorStats {
	return s.stats.CreatorStats(creatorID)
}

func (s *Service) ListTemplates() []models.MemeTemplate {
	return s.templates.List()
}

func (s *Service) GetTemplate(id string) (models.MemeTemplate, error) {
	tpl, ok := s.templates.Get(id)
	if !ok {
		return models.MemeTemplate{}, utils.NewAppError(utils.ErrNotFound, "Template not found: "+id, nil)
	}
	return tpl, nil
}

func cloneAll(memes []*models.Meme) []*models.Meme {
	out := make([]*models.Meme, len(memes))
	for i, m := range memes {
		out[i] = m.Clone()
	}
	return out
}

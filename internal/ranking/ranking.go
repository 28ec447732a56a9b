// Package ranking derives ordered feeds from a store snapshot. It never
// mutates the store and never reads the wall clock: the window boundary is
// always passed in.
package ranking

import (
	"sort"
	"time"

	"memehub/internal/models"
	"memehub/internal/store"
	"memehub/internal/utils"
)

const (
	DayWindow  = 24 * time.Hour
	WeekWindow = 7 * DayWindow
)

// Source is anything that can hand out a consistent snapshot.
type Source interface {
	Snapshot() *store.Snapshot
}

type Engine struct {
	src Source
}

func New(src Source) *Engine {
	return &Engine{src: src}
}

// Feed recomputes the feed for filter from a fresh snapshot. The result
// shares meme pointers with the snapshot and must not be modified.
func (e *Engine) Feed(filter models.FeedFilter, now time.Time) ([]*models.Meme, error) {
	return Rank(e.src.Snapshot().Memes, filter, now)
}

// ByCreator returns creatorID's memes newest first.
func (e *Engine) ByCreator(creatorID string) []*models.Meme {
	memes := e.src.Snapshot().Memes
	out := make([]*models.Meme, 0)
	for i := len(memes) - 1; i >= 0; i-- {
		if memes[i].CreatorID == creatorID {
			out = append(out, memes[i])
		}
	}
	sortNewest(out)
	return out
}

// Rank orders memes (given oldest-inserted first) according to filter.
func Rank(memes []*models.Meme, filter models.FeedFilter, now time.Time) ([]*models.Meme, error) {
	switch filter {
	case models.FeedNew:
		out := reversed(memes)
		sortNewest(out)
		return out, nil
	case models.FeedTop24h:
		return top(memes, now.Add(-DayWindow)), nil
	case models.FeedTopWeek:
		return top(memes, now.Add(-WeekWindow)), nil
	case models.FeedAllTime:
		return top(memes, time.Time{}), nil
	}
	return nil, utils.NewInvalidInputError("unknown feed filter " + string(filter))
}

// InWindow reports whether createdAt falls in [cutoff, +inf).
func InWindow(createdAt, cutoff time.Time) bool {
	return !createdAt.Before(cutoff)
}

func top(memes []*models.Meme, cutoff time.Time) []*models.Meme {
	out := make([]*models.Meme, 0, len(memes))
	for _, m := range memes {
		if cutoff.IsZero() || InWindow(m.CreatedAt, cutoff) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if na, nb := a.Stats.NetScore(), b.Stats.NetScore(); na != nb {
			return na > nb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// sortNewest orders by creation time descending. Input must already be
// newest-inserted first so that equal timestamps keep that order.
func sortNewest(memes []*models.Meme) {
	sort.SliceStable(memes, func(i, j int) bool {
		return memes[i].CreatedAt.After(memes[j].CreatedAt)
	})
}

func reversed(memes []*models.Meme) []*models.Meme {
	out := make([]*models.Meme, len(memes))
	for i, m := range memes {
		out[len(memes)-1-i] = m
	}
	return out
}

// Package aggregate computes cross-meme summaries by scanning a snapshot on
// every call: trending tags, meme of the day, the creator leaderboard and
// per-creator totals.
package aggregate

import (
	"sort"
	"time"

	"memehub/internal/models"
	"memehub/internal/ranking"
)

const (
	DefaultTrendingLimit = 10
	SidebarTrendingLimit = 5
	DefaultCreatorsLimit = 5
)

type Engine struct {
	src ranking.Source
}

func New(src ranking.Source) *Engine {
	return &Engine{src: src}
}

type tagCount struct {
	tag   string
	count int
}

// TrendingTags ranks tags by the number of memes carrying them. A
// non-positive limit falls back to DefaultTrendingLimit.
func (e *Engine) TrendingTags(limit int) []string {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	counts := make(map[string]int)
	for _, m := range e.src.Snapshot().Memes {
		seen := make(map[string]bool, len(m.Tags))
		for _, tag := range m.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			counts[tag]++
		}
	}

	ranked := make([]tagCount, 0, len(counts))
	for tag, n := range counts {
		ranked = append(ranked, tagCount{tag: tag, count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].tag < ranked[j].tag
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, tc := range ranked {
		out[i] = tc.tag
	}
	return out
}

// MemeOfTheDay picks the highest net score among memes created in the 24h
// before now. On equal score the earliest creation wins. Returns nil when the
// window is empty.
func (e *Engine) MemeOfTheDay(now time.Time) *models.Meme {
	cutoff := now.Add(-ranking.DayWindow)

	var best *models.Meme
	for _, m := range e.src.Snapshot().Memes {
		if !ranking.InWindow(m.CreatedAt, cutoff) {
			continue
		}
		if best == nil || beats(m, best) {
			best = m
		}
	}
	return best
}

func beats(m, best *models.Meme) bool {
	if nm, nb := m.Stats.NetScore(), best.Stats.NetScore(); nm != nb {
		return nm > nb
	}
	if !m.CreatedAt.Equal(best.CreatedAt) {
		return m.CreatedAt.Before(best.CreatedAt)
	}
	return m.ID < best.ID
}

// TopCreators sums upvotes (downvotes are deliberately not subtracted) per
// creator. The username reported is the one on the creator's earliest meme
// in the snapshot.
func (e *Engine) TopCreators(limit int) []models.CreatorScore {
	if limit <= 0 {
		limit = DefaultCreatorsLimit
	}

	byCreator := make(map[string]*models.CreatorScore)
	for _, m := range e.src.Snapshot().Memes {
		cs, ok := byCreator[m.CreatorID]
		if !ok {
			cs = &models.CreatorScore{CreatorID: m.CreatorID, CreatorUsername: m.CreatorUsername}
			byCreator[m.CreatorID] = cs
		}
		cs.TotalUpvotes += m.Stats.Upvotes
	}

	out := make([]models.CreatorScore, 0, len(byCreator))
	for _, cs := range byCreator {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalUpvotes != out[j].TotalUpvotes {
			return out[i].TotalUpvotes > out[j].TotalUpvotes
		}
		return out[i].CreatorID < out[j].CreatorID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CreatorStats totals a creator's memes. Unknown creators get zero totals.
func (e *Engine) CreatorStats(creatorID string) models.CreatorStats {
	stats := models.CreatorStats{CreatorID: creatorID}
	for _, m := range e.src.Snapshot().Memes {
		if m.CreatorID != creatorID {
			continue
		}
		if stats.TotalMemes == 0 {
			stats.CreatorUsername = m.CreatorUsername
		}
		stats.TotalMemes++
		stats.TotalUpvotes += m.Stats.Upvotes
		stats.TotalViews += m.Stats.Views
	}
	return stats
}

package aggregate

import (
	"testing"
	"time"

	"memehub/internal/models"
	"memehub/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 21, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, memes ...*models.Meme) *Engine {
	t.Helper()
	s := store.New()
	t.Cleanup(s.Close)
	for _, m := range memes {
		_, err := s.InsertMeme(m)
		require.NoError(t, err)
	}
	return New(s)
}

type memeOpt func(*models.Meme)

func tags(tt ...string) memeOpt   { return func(m *models.Meme) { m.Tags = tt } }
func age(d time.Duration) memeOpt { return func(m *models.Meme) { m.CreatedAt = now.Add(-d) } }
func votes(up, down int) memeOpt {
	return func(m *models.Meme) { m.Stats.Upvotes, m.Stats.Downvotes = up, down }
}
func creator(id, name string) memeOpt {
	return func(m *models.Meme) { m.CreatorID, m.CreatorUsername = id, name }
}

func meme(id string, opts ...memeOpt) *models.Meme {
	m := &models.Meme{ID: id, CreatorID: "u", CreatedAt: now.Add(-time.Hour)}
	for _, o := range opts {
		o(m)
	}
	return m
}

func TestTrendingTags(t *testing.T) {
	e := seed(t,
		meme("m1", tags("relatable", "tech", "apps")),
		meme("m2", tags("relatable", "meta", "humor")),
		meme("m3", tags("controversial", "tech")),
	)

	assert.Equal(t, []string{"relatable", "tech", "apps"}, e.TrendingTags(3))
	assert.Len(t, e.TrendingTags(0), 6, "default limit covers all six tags")
	assert.Equal(t, []string{"relatable", "tech", "apps", "controversial", "humor"}, e.TrendingTags(SidebarTrendingLimit))
}

func TestTrendingTagsCountsOncePerMeme(t *testing.T) {
	e := seed(t,
		meme("m1", tags("dup", "dup", "dup")),
		meme("m2", tags("other")),
		meme("m3", tags("other")),
	)
	assert.Equal(t, []string{"other", "dup"}, e.TrendingTags(10))
}

func TestMemeOfTheDay(t *testing.T) {
	e := seed(t,
		meme("old-giant", age(25*time.Hour), votes(1000, 0)),
		meme("early", age(20*time.Hour), votes(10, 2)),
		meme("late", age(time.Hour), votes(9, 1)),
		meme("weak", age(time.Minute), votes(1, 0)),
	)

	motd := e.MemeOfTheDay(now)
	require.NotNil(t, motd)
	assert.Equal(t, "early", motd.ID, "equal net score goes to the earliest meme")
}

func TestMemeOfTheDayEmptyWindow(t *testing.T) {
	e := seed(t, meme("stale", age(30*time.Hour), votes(5, 0)))
	assert.Nil(t, e.MemeOfTheDay(now))
	assert.Nil(t, seed(t).MemeOfTheDay(now))
}

func TestTopCreatorsSumsUpvotesOnly(t *testing.T) {
	e := seed(t,
		meme("m1", creator("bob", "Bob"), votes(5, 0)),
		meme("m2", creator("alice", "Alice"), votes(3, 100)),
		meme("m3", creator("alice", "Alice"), votes(2, 0)),
		meme("m4", creator("carol", "Carol"), votes(1, 0)),
	)

	top := e.TopCreators(0)
	require.Len(t, top, 3)
	assert.Equal(t, models.CreatorScore{CreatorID: "alice", CreatorUsername: "Alice", TotalUpvotes: 5}, top[0])
	assert.Equal(t, "bob", top[1].CreatorID, "equal totals fall back to ascending creator id")
	assert.Equal(t, "carol", top[2].CreatorID)

	assert.Len(t, e.TopCreators(1), 1)
}

func TestCreatorStats(t *testing.T) {
	m1 := meme("m1", creator("alice", "Alice"), votes(3, 1))
	m1.Stats.Views = 40
	m2 := meme("m2", creator("alice", "Alice"), votes(2, 0))
	m2.Stats.Views = 2
	e := seed(t, m1, m2, meme("m3", creator("bob", "Bob"), votes(7, 0)))

	assert.Equal(t, models.CreatorStats{
		CreatorID:       "alice",
		CreatorUsername: "Alice",
		TotalMemes:      2,
		TotalUpvotes:    5,
		TotalViews:      42,
	}, e.CreatorStats("alice"))
	assert.Equal(t, models.CreatorStats{CreatorID: "nobody"}, e.CreatorStats("nobody"))
}

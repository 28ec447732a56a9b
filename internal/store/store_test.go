package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"memehub/internal/models"
	"memehub/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var t0 = time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC)

func newMeme(id string, createdAt time.Time) *models.Meme {
	return &models.Meme{
		ID:              id,
		ImageURL:        "https://img.example/" + id + ".jpg",
		CreatorID:       "u1",
		CreatorUsername: "meme_lord",
		CreatedAt:       createdAt,
		Tags:            []string{"tech"},
	}
}

func TestInsertAndGet(t *testing.T) {
	s := New()
	defer s.Close()

	id, err := s.InsertMeme(newMeme("m1", t0))
	require.NoError(t, err)
	assert.Equal(t, "m1", id)

	got, err := s.Get("m1")
	require.NoError(t, err)
	assert.Equal(t, "meme_lord", got.CreatorUsername)
	assert.Equal(t, models.Stats{}, got.Stats)

	// The returned copy is detached from the stored record.
	got.Stats.Upvotes = 100
	got.Tags[0] = "changed"
	again, _ := s.Get("m1")
	assert.Equal(t, 0, again.Stats.Upvotes)
	assert.Equal(t, "tech", again.Tags[0])

	_, err = s.Get("missing")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestInsertRejectsDuplicateAndEmptyID(t *testing.T) {
	s := New()
	defer s.Close()

	_, err := s.InsertMeme(newMeme("m1", t0))
	require.NoError(t, err)
	_, err = s.InsertMeme(newMeme("m1", t0))
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
	_, err = s.InsertMeme(newMeme("", t0))
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
	assert.Equal(t, 1, s.Len())
}

func TestApplyVoteAndRecordView(t *testing.T) {
	s := New()
	defer s.Close()
	_, _ = s.InsertMeme(newMeme("m1", t0))

	for i := 0; i < 3; i++ {
		_, err := s.ApplyVote("m1", models.VoteUp)
		require.NoError(t, err)
	}
	stats, err := s.ApplyVote("m1", models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Upvotes: 3, Downvotes: 1}, stats)

	stats, err = s.RecordView("m1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Views)

	_, err = s.ApplyVote("m1", models.VoteDirection("sideways"))
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
	_, err = s.ApplyVote("nope", models.VoteUp)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
	_, err = s.RecordView("nope")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestInsertCommentKeepsCounterInSync(t *testing.T) {
	s := New()
	defer s.Close()
	_, _ = s.InsertMeme(newMeme("m1", t0))

	_, err := s.InsertComment(&models.Comment{ID: "c1", MemeID: "m1", Text: "nice"})
	require.NoError(t, err)

	_, err = s.InsertComment(&models.Comment{ID: "c2", MemeID: "ghost", Text: "lost"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
	_, err = s.GetComment("c2")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound), "rejected comment must not be stored")

	_, err = s.InsertComment(&models.Comment{ID: "c1", MemeID: "m1", Text: "dupe"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	m, _ := s.Get("m1")
	comments, _ := s.Comments("m1")
	assert.Equal(t, 1, m.Stats.Comments)
	assert.Len(t, comments, 1)
	assert.Equal(t, 1, s.CommentCount())
}

func TestConcurrentMutationsLoseNothing(t *testing.T) {
	s := New()
	defer s.Close()

	const memes, workers, perWorker = 4, 8, 48
	for i := 0; i < memes; i++ {
		_, _ = s.InsertMeme(newMeme(fmt.Sprintf("m%d", i), t0))
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := fmt.Sprintf("m%d", i%memes)
				_, _ = s.ApplyVote(id, models.VoteUp)
				_, _ = s.ApplyVote(id, models.VoteDown)
				_, _ = s.RecordView(id)
				_, _ = s.InsertComment(&models.Comment{ID: fmt.Sprintf("c-%d-%d", w, i), MemeID: id, Text: "x"})
				_ = s.Snapshot()
			}
		}(w)
	}
	wg.Wait()

	want := workers * perWorker / memes
	for i := 0; i < memes; i++ {
		id := fmt.Sprintf("m%d", i)
		m, err := s.Get(id)
		require.NoError(t, err)
		comments, _ := s.Comments(id)
		assert.Equal(t, models.Stats{Views: want, Upvotes: want, Downvotes: want, Comments: want}, m.Stats)
		assert.Len(t, comments, m.Stats.Comments)
	}
}

func TestSnapshotOrderAndCache(t *testing.T) {
	s := New(WithSnapshotCache(true))
	defer s.Close()

	_, _ = s.InsertMeme(newMeme("b", t0))
	_, _ = s.InsertMeme(newMeme("a", t0))

	snap := s.Snapshot()
	require.Len(t, snap.Memes, 2)
	assert.Equal(t, "b", snap.Memes[0].ID, "snapshot keeps insertion order")
	assert.Same(t, snap, s.Snapshot(), "no write in between, cached snapshot is reused")

	_, err := s.ApplyVote("a", models.VoteUp)
	require.NoError(t, err)

	fresh := s.Snapshot()
	assert.NotSame(t, snap, fresh)
	assert.Greater(t, fresh.Version, snap.Version)
	assert.Equal(t, 1, fresh.Memes[1].Stats.Upvotes, "a snapshot after an acknowledged write observes it")
}

func TestSnapshotWithoutCacheIsAlwaysFresh(t *testing.T) {
	s := New()
	defer s.Close()
	_, _ = s.InsertMeme(newMeme("a", t0))
	assert.NotSame(t, s.Snapshot(), s.Snapshot())
}

func TestRestoreRecomputesCommentCounters(t *testing.T) {
	s := New()
	defer s.Close()

	older := newMeme("old", t0.Add(-time.Hour))
	older.Stats = models.Stats{Upvotes: 5, Comments: 99}
	newer := newMeme("new", t0)

	dropped, err := s.Restore(
		[]*models.Meme{newer, older},
		[]*models.Comment{
			{ID: "c1", MemeID: "old"},
			{ID: "c2", MemeID: "old"},
			{ID: "c3", MemeID: "gone"},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	m, _ := s.Get("old")
	assert.Equal(t, 2, m.Stats.Comments)
	assert.Equal(t, 5, m.Stats.Upvotes)

	snap := s.Snapshot()
	require.Len(t, snap.Memes, 2)
	assert.Equal(t, "old", snap.Memes[0].ID, "restored memes are inserted oldest first")
}

func TestRestoreKeepsLoadOrderForEqualTimestamps(t *testing.T) {
	s := New()
	defer s.Close()

	_, err := s.Restore([]*models.Meme{newMeme("b", t0), newMeme("a", t0), newMeme("c", t0)}, nil)
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Memes, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{snap.Memes[0].ID, snap.Memes[1].ID, snap.Memes[2].ID})
}

func TestClosedStoreRejectsCalls(t *testing.T) {
	s := New()
	_, _ = s.InsertMeme(newMeme("m1", t0))
	s.Close()
	s.Close()

	_, err := s.Get("m1")
	assert.True(t, utils.IsErrorCode(err, utils.ErrMessageRejected))
	_, err = s.InsertMeme(newMeme("m2", t0))
	assert.Error(t, err)
	assert.Empty(t, s.Snapshot().Memes)
}

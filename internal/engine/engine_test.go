package engine

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"memehub/internal/catalog"
	"memehub/internal/database"
	"memehub/internal/engine/actors"
	"memehub/internal/memes"
	"memehub/internal/models"
	"memehub/internal/store"
	"memehub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Second

func openSQLite(t *testing.T, path string) *database.SQLiteDB {
	t.Helper()
	db, err := database.NewSQLiteDB(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })
	return db
}

func newTestEngine(t *testing.T, db database.Persister) *Engine {
	t.Helper()
	svc := memes.NewService(store.New(), catalog.Default())
	e := NewEngine(actor.NewActorSystem(), svc, Config{
		Shards:    4,
		Persister: db,
		Metrics:   utils.NewMetricsCollector("test"),
	})
	t.Cleanup(func() { _ = e.Stop() })
	return e
}

func TestShardRoutingIsStable(t *testing.T) {
	e := newTestEngine(t, nil)

	assert.Same(t, e.ShardFor("meme-1"), e.ShardFor("meme-1"))
	assert.Same(t, e.CreateShard("u1"), e.CreateShard("u1"))

	seen := map[string]bool{}
	for i := 0; i < 8; i++ {
		seen[e.CreateShard("").Id] = true
	}
	assert.Len(t, seen, 4)
}

func TestRequestUnwrapsAppErrors(t *testing.T) {
	e := newTestEngine(t, nil)

	_, err := e.Request(e.QueryActor(), &actors.GetMemeMsg{MemeID: "nope"}, testTimeout)
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	require.NoError(t, e.Stop())
	_, err = e.Request(e.QueryActor(), &actors.GetCountsMsg{}, testTimeout)
	assert.True(t, utils.IsErrorCode(err, utils.ErrMessageRejected))
}

func TestConcurrentVotesAcrossShards(t *testing.T) {
	e := newTestEngine(t, nil)

	result, err := e.Request(e.CreateShard("u1"), &actors.CreateMemeMsg{Params: memes.CreateMemeParams{CreatorID: "u1"}}, testTimeout)
	require.NoError(t, err)
	meme := result.(*models.Meme)

	const voters = 20
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dir := models.VoteUp
			if i%2 == 1 {
				dir = models.VoteDown
			}
			_, err := e.Request(e.ShardFor(meme.ID), &actors.VoteMemeMsg{MemeID: meme.ID, Direction: dir}, testTimeout)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	result, err = e.Request(e.QueryActor(), &actors.GetMemeMsg{MemeID: meme.ID}, testTimeout)
	require.NoError(t, err)
	got := result.(*models.Meme)
	assert.Equal(t, voters/2, got.Stats.Upvotes)
	assert.Equal(t, voters/2, got.Stats.Downvotes)
}

func TestStopFlushesWritesAndLoadRestoresThem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memes.db")
	first := newTestEngine(t, openSQLite(t, path))

	result, err := first.Request(first.CreateShard("u1"), &actors.CreateMemeMsg{Params: memes.CreateMemeParams{
		CreatorID:       "u1",
		CreatorUsername: "alice",
		TemplateID:      "t2",
		Tags:            []string{"work"},
	}}, testTimeout)
	require.NoError(t, err)
	meme := result.(*models.Meme)

	for _, msg := range []interface{}{
		&actors.VoteMemeMsg{MemeID: meme.ID, Direction: models.VoteUp},
		&actors.RecordViewMsg{MemeID: meme.ID},
		&actors.AddCommentMsg{MemeID: meme.ID, Text: "so true", AuthorID: "u2", AuthorUsername: "bob"},
	} {
		_, err := first.Request(first.ShardFor(meme.ID), msg, testTimeout)
		require.NoError(t, err)
	}
	require.NoError(t, first.Stop())

	second := newTestEngine(t, openSQLite(t, path))
	require.NoError(t, second.Load(context.Background()))

	result, err = second.Request(second.QueryActor(), &actors.GetMemeMsg{MemeID: meme.ID}, testTimeout)
	require.NoError(t, err)
	restored := result.(*models.Meme)
	assert.Equal(t, models.Stats{Views: 1, Upvotes: 1, Comments: 1}, restored.Stats)
	assert.Equal(t, []string{"work"}, restored.Tags)

	result, err = second.Request(second.QueryActor(), &actors.GetCommentsMsg{MemeID: meme.ID}, testTimeout)
	require.NoError(t, err)
	comments := result.([]*models.Comment)
	require.Len(t, comments, 1)
	assert.Equal(t, "so true", comments[0].Text)
}

package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"memehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2024, 5, 20, 10, 30, 0, 123456789, time.UTC)

func sampleMeme(id string) *models.Meme {
	tpl := "t1"
	return &models.Meme{
		ID:              id,
		TemplateID:      &tpl,
		ImageURL:        "https://i.imgflip.com/30b1gx.jpg",
		TopText:         "USING REGULAR MEME SITES",
		BottomText:      "USING MEMEHUB",
		CreatorID:       "1",
		CreatorUsername: "meme_lord",
		CreatedAt:       createdAt,
		Stats:           models.Stats{Views: 12, Upvotes: 3, Downvotes: 1, Comments: 1},
		Tags:            []string{"relatable", "tech"},
	}
}

func newTestSQLite(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(context.Background(), filepath.Join(t.TempDir(), "memehub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(context.Background()) })
	return db
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t)

	m := sampleMeme("m1")
	require.NoError(t, db.SaveMeme(ctx, m))
	c := &models.Comment{ID: "c1", MemeID: "m1", AuthorID: "2", AuthorUsername: "dank_master", Text: "too accurate", CreatedAt: createdAt.Add(time.Hour)}
	require.NoError(t, db.SaveComment(ctx, c))

	memes, comments, err := db.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, memes, 1)
	require.Len(t, comments, 1)
	assert.Equal(t, m, memes[0])
	assert.Equal(t, c, comments[0])
}

func TestSQLiteSaveMemeUpdatesOnlyStats(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t)

	m := sampleMeme("m1")
	require.NoError(t, db.SaveMeme(ctx, m))

	updated := m.Clone()
	updated.Stats.Upvotes = 10
	updated.TopText = "rewritten"
	require.NoError(t, db.SaveMeme(ctx, updated))

	memes, _, err := db.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, memes, 1)
	assert.Equal(t, 10, memes[0].Stats.Upvotes)
	assert.Equal(t, "USING REGULAR MEME SITES", memes[0].TopText, "content is immutable after creation")
}

func TestSQLiteLoadKeepsWriteOrderForEqualTimestamps(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t)

	for _, id := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, db.SaveMeme(ctx, sampleMeme(id)))
	}
	// Stats updates must not move a row.
	m := sampleMeme("zeta")
	m.Stats.Upvotes = 10
	require.NoError(t, db.SaveMeme(ctx, m))

	memes, _, err := db.LoadAll(ctx)
	require.NoError(t, err)
	ids := make([]string, len(memes))
	for i, m := range memes {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, ids)
}

func TestSQLiteCommentRequiresMeme(t *testing.T) {
	db := newTestSQLite(t)
	err := db.SaveComment(context.Background(), &models.Comment{ID: "c1", MemeID: "ghost", Text: "x", CreatedAt: createdAt})
	assert.Error(t, err)
}

func TestSQLiteMemeWithoutTemplateOrTags(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t)

	m := sampleMeme("m2")
	m.TemplateID = nil
	m.Tags = []string{}
	require.NoError(t, db.SaveMeme(ctx, m))

	memes, _, err := db.LoadAll(ctx)
	require.NoError(t, err)
	assert.Nil(t, memes[0].TemplateID)
	assert.Empty(t, memes[0].Tags)
}

func TestMongoDocumentConversion(t *testing.T) {
	m := sampleMeme("m1")
	doc := MemeToDocument(m)
	assert.Equal(t, "t1", doc.TemplateID)
	assert.Equal(t, m, DocumentToMeme(doc))

	m.TemplateID = nil
	m.Tags = nil
	back := DocumentToMeme(MemeToDocument(m))
	assert.Nil(t, back.TemplateID)
	assert.Equal(t, []string{}, back.Tags)

	c := &models.Comment{ID: "c1", MemeID: "m1", Text: "hi", CreatedAt: createdAt}
	assert.Equal(t, c, DocumentToComment(CommentToDocument(c)))
}

var (
	_ Persister = (*MongoDB)(nil)
	_ Persister = (*SQLiteDB)(nil)
)

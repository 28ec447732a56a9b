package actors

import (
	"errors"
	"testing"
	"time"

	"memehub/internal/models"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistenceActorSkipsStaleMemeSaves(t *testing.T) {
	db := &fakePersister{}
	system := actor.NewActorSystem()
	pid := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewPersistenceActor(db, nil, nil)
	}))

	created := time.Now().UTC()
	meme := func(stats models.Stats) *models.Meme {
		return &models.Meme{ID: "m1", CreatorID: "u1", CreatedAt: created, Stats: stats}
	}

	system.Root.Send(pid, &persistMemeMsg{Meme: meme(models.Stats{})})
	system.Root.Send(pid, &persistMemeMsg{Meme: meme(models.Stats{Views: 2, Upvotes: 1})})
	system.Root.Send(pid, &persistMemeMsg{Meme: meme(models.Stats{Views: 1, Upvotes: 1})})
	system.Root.Send(pid, &persistCommentMsg{Comment: &models.Comment{ID: "c1", MemeID: "m1", Text: "hi", CreatedAt: created}})
	system.Root.Send(pid, &persistMemeMsg{Meme: meme(models.Stats{Views: 2, Upvotes: 1, Comments: 1})})
	require.NoError(t, system.Root.PoisonFuture(pid).Wait())

	saved := db.savedMemes()
	require.Len(t, saved, 3)
	assert.Equal(t, models.Stats{Views: 2, Upvotes: 1, Comments: 1}, saved[2].Stats)
	assert.Len(t, db.savedComments(), 1)
}

func TestPersistenceActorSurvivesFailures(t *testing.T) {
	db := &fakePersister{failWith: errors.New("disk full")}
	system := actor.NewActorSystem()
	pid := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewPersistenceActor(db, nil, nil)
	}))

	system.Root.Send(pid, &persistMemeMsg{Meme: &models.Meme{ID: "m1"}})
	system.Root.Send(pid, &persistCommentMsg{Comment: &models.Comment{ID: "c1", MemeID: "m1"}})
	require.NoError(t, system.Root.PoisonFuture(pid).Wait())

	assert.Empty(t, db.savedMemes())
	assert.Empty(t, db.savedComments())
}

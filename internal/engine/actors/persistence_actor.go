package actors

import (
	stdctx "context"
	"time"

	"memehub/internal/database"
	"memehub/internal/models"
	"memehub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const persistTimeout = 5 * time.Second

// PersistenceActor writes acknowledged mutations behind the in-memory store.
// Shards send to it concurrently, so a meme save can arrive after a newer one
// for the same meme; saves whose counters total is lower than the last one
// written are skipped since counters only grow.
type PersistenceActor struct {
	db      database.Persister
	metrics *utils.MetricsCollector
	logger  *zap.Logger
	written map[string]int
}

func NewPersistenceActor(db database.Persister, metrics *utils.MetricsCollector, logger *zap.Logger) actor.Actor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersistenceActor{
		db:      db,
		metrics: metrics,
		logger:  logger,
		written: make(map[string]int),
	}
}

func (a *PersistenceActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		a.logger.Debug("persistence actor started")
	case *actor.Stopping:
		a.logger.Debug("persistence actor stopping", zap.Int("memes_tracked", len(a.written)))
	case *persistMemeMsg:
		a.saveMeme(msg.Meme)
	case *persistCommentMsg:
		a.saveComment(msg.Comment)
	case *actor.Stopped, *actor.Restarting:
	default:
		a.logger.Warn("persistence actor: unknown message", zap.String("type", typeName(msg)))
	}
}

func (a *PersistenceActor) saveMeme(meme *models.Meme) {
	total := statsTotal(meme.Stats)
	if last, ok := a.written[meme.ID]; ok && total < last {
		return
	}

	started := time.Now()
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), persistTimeout)
	defer cancel()

	err := a.db.SaveMeme(ctx, meme)
	a.observe("persist_meme", started, err)
	if err != nil {
		a.logger.Error("failed to persist meme", zap.String("meme_id", meme.ID), zap.Error(err))
		return
	}
	a.written[meme.ID] = total
}

func (a *PersistenceActor) saveComment(comment *models.Comment) {
	started := time.Now()
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), persistTimeout)
	defer cancel()

	err := a.db.SaveComment(ctx, comment)
	a.observe("persist_comment", started, err)
	if err != nil {
		a.logger.Error("failed to persist comment",
			zap.String("comment_id", comment.ID),
			zap.String("meme_id", comment.MemeID),
			zap.Error(err))
	}
}

func (a *PersistenceActor) observe(operation string, started time.Time, err error) {
	if a.metrics != nil {
		a.metrics.ObserveOperation(operation, started, err)
	}
}

func statsTotal(s models.Stats) int {
	return s.Views + s.Upvotes + s.Downvotes + s.Comments
}

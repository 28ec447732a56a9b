package actors

import (
	"time"

	"memehub/internal/memes"
	"memehub/internal/models"
	"memehub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// MemeActor is one write shard. The engine routes every mutation of a given
// meme to the same shard, so writes to one meme are applied in mailbox order.
type MemeActor struct {
	shard      int
	service    *memes.Service
	metrics    *utils.MetricsCollector
	persistPID *actor.PID
	sink       EventSink
	logger     *zap.Logger
}

// NewMemeActor creates a shard actor. persistPID and sink may be nil.
func NewMemeActor(shard int, service *memes.Service, metrics *utils.MetricsCollector, persistPID *actor.PID, sink EventSink, logger *zap.Logger) actor.Actor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemeActor{
		shard:      shard,
		service:    service,
		metrics:    metrics,
		persistPID: persistPID,
		sink:       sink,
		logger:     logger.With(zap.Int("shard", shard)),
	}
}

func (a *MemeActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		a.logger.Debug("meme actor started")
	case *actor.Stopping:
		a.logger.Debug("meme actor stopping")
	case *actor.Restarting:
		a.logger.Warn("meme actor restarting")
	case *CreateMemeMsg:
		a.handleCreateMeme(context, msg)
	case *VoteMemeMsg:
		a.handleVote(context, msg)
	case *AddCommentMsg:
		a.handleAddComment(context, msg)
	case *RecordViewMsg:
		a.handleRecordView(context, msg)
	case *actor.Stopped:
	default:
		a.logger.Warn("meme actor: unknown message", zap.String("type", typeName(msg)))
	}
}

func (a *MemeActor) handleCreateMeme(context actor.Context, msg *CreateMemeMsg) {
	started := time.Now()
	meme, err := a.service.CreateMeme(msg.Params)
	a.observe("create_meme", started, err)
	if err != nil {
		context.Respond(toAppError(err))
		return
	}

	a.logger.Debug("meme created",
		zap.String("meme_id", meme.ID),
		zap.String("creator_id", meme.CreatorID))
	a.persistMeme(context, meme)
	a.publish(models.Event{Type: models.EventMemeCreated, MemeID: meme.ID, Meme: meme.Clone()})
	context.Respond(meme)
}

func (a *MemeActor) handleVote(context actor.Context, msg *VoteMemeMsg) {
	started := time.Now()
	stats, err := a.service.Vote(msg.MemeID, msg.Direction)
	a.observe("vote", started, err)
	if err != nil {
		context.Respond(toAppError(err))
		return
	}

	a.afterStatsChange(context, models.EventMemeVoted, msg.MemeID, stats)
	context.Respond(stats)
}

func (a *MemeActor) handleAddComment(context actor.Context, msg *AddCommentMsg) {
	started := time.Now()
	comment, err := a.service.AddComment(msg.MemeID, msg.Text, msg.AuthorID, msg.AuthorUsername)
	a.observe("add_comment", started, err)
	if err != nil {
		context.Respond(toAppError(err))
		return
	}

	// The parent row goes first so the comment never lands before its meme,
	// even when the create was persisted from another shard.
	event := models.Event{Type: models.EventCommentAdded, MemeID: msg.MemeID, Comment: comment}
	if meme, err := a.service.GetMeme(msg.MemeID); err == nil {
		a.persistMeme(context, meme)
		event.Stats = &meme.Stats
	}
	if a.persistPID != nil {
		c := *comment
		context.Send(a.persistPID, &persistCommentMsg{Comment: &c})
	}
	a.publish(event)
	context.Respond(comment)
}

func (a *MemeActor) handleRecordView(context actor.Context, msg *RecordViewMsg) {
	started := time.Now()
	stats, ok := a.service.RecordView(msg.MemeID)
	a.observe("record_view", started, nil)
	if ok {
		a.afterStatsChange(context, models.EventMemeViewed, msg.MemeID, stats)
	}
	context.Respond(&ViewRecorded{Recorded: ok, Stats: stats})
}

func (a *MemeActor) afterStatsChange(context actor.Context, eventType models.EventType, memeID string, stats models.Stats) {
	if meme, err := a.service.GetMeme(memeID); err == nil {
		a.persistMeme(context, meme)
	}
	a.publish(models.Event{Type: eventType, MemeID: memeID, Stats: &stats})
}

func (a *MemeActor) persistMeme(context actor.Context, meme *models.Meme) {
	if a.persistPID == nil {
		return
	}
	context.Send(a.persistPID, &persistMemeMsg{Meme: meme.Clone()})
}

func (a *MemeActor) publish(event models.Event) {
	if a.sink != nil {
		a.sink.Publish(event)
	}
}

func (a *MemeActor) observe(operation string, started time.Time, err error) {
	if a.metrics != nil {
		a.metrics.ObserveOperation(operation, started, err)
	}
}

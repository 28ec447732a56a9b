// Package engine runs the meme pool behind protoactor: writes are sharded by
// meme id over MemeActors, reads are spread over a pool of QueryActors, and a
// single PersistenceActor writes acknowledged mutations behind the store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"memehub/internal/database"
	"memehub/internal/engine/actors"
	"memehub/internal/memes"
	"memehub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

const (
	DefaultShards      = 8
	DefaultQueryActors = 4
)

type Config struct {
	Shards      int
	QueryActors int
	Persister   database.Persister // nil keeps the pool in memory only
	Sink        actors.EventSink
	Metrics     *utils.MetricsCollector
	Logger      *zap.Logger
}

// Engine coordinates communication between actors
type Engine struct {
	system  *actor.ActorSystem
	service *memes.Service
	db      database.Persister
	logger  *zap.Logger

	shards     []*actor.PID
	queries    []*actor.PID
	persistPID *actor.PID

	nextCreate atomic.Uint64
	nextQuery  atomic.Uint64
	stopped    atomic.Bool
}

func NewEngine(system *actor.ActorSystem, service *memes.Service, cfg Config) *Engine {
	if cfg.Shards <= 0 {
		cfg.Shards = DefaultShards
	}
	if cfg.QueryActors <= 0 {
		cfg.QueryActors = DefaultQueryActors
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		system:  system,
		service: service,
		db:      cfg.Persister,
		logger:  logger,
	}
	root := system.Root

	if cfg.Persister != nil {
		e.persistPID = root.Spawn(actor.PropsFromProducer(func() actor.Actor {
			return actors.NewPersistenceActor(cfg.Persister, cfg.Metrics, logger.Named("persistence"))
		}))
	}

	for i := 0; i < cfg.Shards; i++ {
		shard := i
		e.shards = append(e.shards, root.Spawn(actor.PropsFromProducer(func() actor.Actor {
			return actors.NewMemeActor(shard, service, cfg.Metrics, e.persistPID, cfg.Sink, logger.Named("shard"))
		})))
	}

	for i := 0; i < cfg.QueryActors; i++ {
		e.queries = append(e.queries, root.Spawn(actor.PropsFromProducer(func() actor.Actor {
			return actors.NewQueryActor(service, cfg.Metrics, logger.Named("query"))
		})))
	}

	return e
}

// Load fills the store from the persister. It must run before the engine
// serves traffic.
func (e *Engine) Load(ctx context.Context) error {
	if e.db == nil {
		return nil
	}
	memeList, comments, err := e.db.LoadAll(ctx)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to load meme pool", err)
	}
	dropped, err := e.service.Store().Restore(memeList, comments)
	if err != nil {
		return err
	}
	st := e.service.Store()
	e.logger.Info("meme pool loaded",
		zap.Int("memes", st.Len()),
		zap.Int("comments", st.CommentCount()),
		zap.Int("dropped", dropped))
	return nil
}

// Context returns the root context used to talk to the actors.
func (e *Engine) Context() *actor.RootContext {
	return e.system.Root
}

func (e *Engine) Service() *memes.Service {
	return e.service
}

// ShardFor returns the shard owning all mutations of memeID.
func (e *Engine) ShardFor(memeID string) *actor.PID {
	return e.shards[xxhash.Sum64String(memeID)%uint64(len(e.shards))]
}

// CreateShard picks the shard for a new meme: creators stick to one shard,
// anonymous creates are spread round robin.
func (e *Engine) CreateShard(creatorID string) *actor.PID {
	if creatorID == "" {
		return e.shards[e.nextCreate.Add(1)%uint64(len(e.shards))]
	}
	return e.shards[xxhash.Sum64String(creatorID)%uint64(len(e.shards))]
}

// QueryActor returns the next query actor in round robin order.
func (e *Engine) QueryActor() *actor.PID {
	return e.queries[e.nextQuery.Add(1)%uint64(len(e.queries))]
}

// Request sends msg to pid and unwraps the reply: actor-side failures come
// back as *utils.AppError, a missed deadline as ErrActorTimeout.
func (e *Engine) Request(pid *actor.PID, msg interface{}, timeout time.Duration) (interface{}, error) {
	if e.stopped.Load() {
		return nil, utils.NewAppError(utils.ErrMessageRejected, "engine is stopped", nil)
	}
	result, err := e.system.Root.RequestFuture(pid, msg, timeout).Result()
	if err != nil {
		return nil, utils.NewActorTimeoutError(fmt.Sprintf("%T", msg), err)
	}
	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}
	return result, nil
}

// Stop drains the shards and query actors, then the persistence actor so
// every write accepted before Stop reaches the database.
func (e *Engine) Stop() error {
	if !e.stopped.CompareAndSwap(false, true) {
		return nil
	}
	root := e.system.Root
	var errs []error
	for _, pid := range append(append([]*actor.PID{}, e.shards...), e.queries...) {
		if err := root.PoisonFuture(pid).Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.persistPID != nil {
		if err := root.PoisonFuture(e.persistPID).Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

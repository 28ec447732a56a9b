package actors

import (
	"time"

	"memehub/internal/aggregate"
	"memehub/internal/memes"
	"memehub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// QueryActor serves reads. Queries never mutate, so the engine runs several
// of these side by side over the same store.
type QueryActor struct {
	service *memes.Service
	metrics *utils.MetricsCollector
	logger  *zap.Logger
}

func NewQueryActor(service *memes.Service, metrics *utils.MetricsCollector, logger *zap.Logger) actor.Actor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryActor{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

func (a *QueryActor) Receive(context actor.Context) {
	started := time.Now()
	switch msg := context.Message().(type) {
	case *actor.Started, *actor.Stopping, *actor.Stopped:
	case *GetMemeMsg:
		meme, err := a.service.GetMeme(msg.MemeID)
		a.reply(context, "get_meme", started, meme, err)
	case *GetFeedMsg:
		now := msg.Now
		if now.IsZero() {
			now = time.Now()
		}
		feed, err := a.service.GetFeed(msg.Filter, now)
		if err == nil && msg.Limit > 0 && len(feed) > msg.Limit {
			feed = feed[:msg.Limit]
		}
		a.reply(context, "get_feed", started, feed, err)
	case *GetCommentsMsg:
		comments, err := a.service.GetComments(msg.MemeID)
		a.reply(context, "get_comments", started, comments, err)
	case *GetUserMemesMsg:
		a.reply(context, "get_user_memes", started, a.service.GetUserMemes(msg.CreatorID), nil)
	case *GetCreatorStatsMsg:
		a.reply(context, "get_creator_stats", started, a.service.GetCreatorStats(msg.CreatorID), nil)
	case *GetTrendingTagsMsg:
		limit := msg.Limit
		if limit <= 0 {
			limit = aggregate.DefaultTrendingLimit
		}
		a.reply(context, "trending_tags", started, a.service.GetTrendingTags(limit), nil)
	case *GetMemeOfTheDayMsg:
		now := msg.Now
		if now.IsZero() {
			now = time.Now()
		}
		a.reply(context, "meme_of_the_day", started, &MemeOfTheDay{Meme: a.service.GetMemeOfTheDay(now)}, nil)
	case *GetTopCreatorsMsg:
		limit := msg.Limit
		if limit <= 0 {
			limit = aggregate.DefaultCreatorsLimit
		}
		a.reply(context, "top_creators", started, a.service.GetTopCreators(limit), nil)
	case *GetTemplatesMsg:
		context.Respond(a.service.ListTemplates())
	case *GetTemplateMsg:
		tpl, err := a.service.GetTemplate(msg.TemplateID)
		a.reply(context, "get_template", started, tpl, err)
	case *GetCountsMsg:
		st := a.service.Store()
		context.Respond(&Counts{
			Memes:    st.Len(),
			Comments: st.CommentCount(),
			Version:  st.Version(),
		})
	default:
		a.logger.Warn("query actor: unknown message", zap.String("type", typeName(msg)))
	}
}

func (a *QueryActor) reply(context actor.Context, operation string, started time.Time, result interface{}, err error) {
	if a.metrics != nil {
		a.metrics.ObserveOperation(operation, started, err)
	}
	if err != nil {
		context.Respond(toAppError(err))
		return
	}
	context.Respond(result)
}

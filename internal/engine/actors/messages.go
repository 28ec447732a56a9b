package actors

import (
	"time"

	"memehub/internal/memes"
	"memehub/internal/models"
)

// Mutation messages, handled by MemeActor shards.
type (
	CreateMemeMsg struct {
		Params memes.CreateMemeParams
	}

	VoteMemeMsg struct {
		MemeID    string
		Direction models.VoteDirection
		UserID    string // informational only, votes are not deduplicated
	}

	AddCommentMsg struct {
		MemeID         string
		Text           string
		AuthorID       string
		AuthorUsername string
	}

	RecordViewMsg struct {
		MemeID string
	}
)

// Query messages, handled by QueryActor.
type (
	GetMemeMsg struct {
		MemeID string
	}

	GetFeedMsg struct {
		Filter models.FeedFilter
		Now    time.Time
		Limit  int
	}

	GetCommentsMsg struct {
		MemeID string
	}

	GetUserMemesMsg struct {
		CreatorID string
	}

	GetCreatorStatsMsg struct {
		CreatorID string
	}

	GetTrendingTagsMsg struct {
		Limit int
	}

	GetMemeOfTheDayMsg struct {
		Now time.Time
	}

	GetTopCreatorsMsg struct {
		Limit int
	}

	GetTemplatesMsg struct{}

	GetTemplateMsg struct {
		TemplateID string
	}

	GetCountsMsg struct{}
)

// Replies that are not plain models.
type (
	// ViewRecorded answers RecordViewMsg. Recorded is false for unknown memes.
	ViewRecorded struct {
		Recorded bool
		Stats    models.Stats
	}

	// MemeOfTheDay answers GetMemeOfTheDayMsg; Meme is nil when none qualifies.
	MemeOfTheDay struct {
		Meme *models.Meme
	}

	Counts struct {
		Memes    int    `json:"memes"`
		Comments int    `json:"comments"`
		Version  uint64 `json:"version"`
	}
)

// Persistence messages.
type (
	persistMemeMsg struct {
		Meme *models.Meme
	}

	persistCommentMsg struct {
		Comment *models.Comment
	}
)

// EventSink receives every acknowledged mutation.
type EventSink interface {
	Publish(event models.Event)
}

package models

// EventType names a mutation broadcast to live listeners.
type EventType string

const (
	EventMemeCreated  EventType = "meme_created"
	EventMemeVoted    EventType = "meme_voted"
	EventMemeViewed   EventType = "meme_viewed"
	EventCommentAdded EventType = "comment_added"
)

// Event describes one acknowledged mutation.
type Event struct {
	Type    EventType `json:"type"`
	MemeID  string    `json:"memeId"`
	Stats   *Stats    `json:"stats,omitempty"`
	Meme    *Meme     `json:"meme,omitempty"`
	Comment *Comment  `json:"comment,omitempty"`
}

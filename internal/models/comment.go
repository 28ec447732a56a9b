package models

import (
	"time"
)

type Comment struct {
	ID             string    `json:"id" bson:"_id"`
	MemeID         string    `json:"memeId" bson:"memeid"`
	AuthorID       string    `json:"authorId" bson:"authorid"`
	AuthorUsername string    `json:"authorUsername" bson:"authorusername"`
	Text           string    `json:"text" bson:"text"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdat"`
}

// MaxCommentLength is counted in characters (runes), not bytes.
const MaxCommentLength = 140

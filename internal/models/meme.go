package models

import (
	"time"
)

// Stats holds the engagement counters of a meme. Every field only ever grows.
type Stats struct {
	Views     int `json:"views" bson:"views"`
	Upvotes   int `json:"upvotes" bson:"upvotes"`
	Downvotes int `json:"downvotes" bson:"downvotes"`
	Comments  int `json:"comments" bson:"comments"`
}

// NetScore is upvotes minus downvotes.
func (s Stats) NetScore() int {
	return s.Upvotes - s.Downvotes
}

type Meme struct {
	ID              string    `json:"id" bson:"_id"`
	TemplateID      *string   `json:"templateId,omitempty" bson:"templateid,omitempty"`
	ImageURL        string    `json:"imageUrl" bson:"imageurl"`
	TopText         string    `json:"topText" bson:"toptext"`
	BottomText      string    `json:"bottomText" bson:"bottomtext"`
	CreatorID       string    `json:"creatorId" bson:"creatorid"`
	CreatorUsername string    `json:"creatorUsername" bson:"creatorusername"` // as of creation time
	CreatedAt       time.Time `json:"createdAt" bson:"createdat"`
	Stats           Stats     `json:"stats" bson:"stats"`
	Tags            []string  `json:"tags" bson:"tags"`
}

// Clone returns a copy that shares no mutable state with m.
func (m *Meme) Clone() *Meme {
	c := *m
	if m.Tags != nil {
		c.Tags = make([]string, len(m.Tags))
		copy(c.Tags, m.Tags)
	}
	if m.TemplateID != nil {
		id := *m.TemplateID
		c.TemplateID = &id
	}
	return &c
}

package models

import "fmt"

// VoteDirection represents the direction of a vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// ParseVoteDirection accepts "up"/"down" as well as the numeric forms "1"/"-1".
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch s {
	case "up", "1", "+1":
		return VoteUp, nil
	case "down", "-1":
		return VoteDown, nil
	}
	return "", fmt.Errorf("unknown vote direction %q", s)
}

// FeedFilter selects the window and ordering of a feed.
type FeedFilter string

const (
	FeedNew     FeedFilter = "new"
	FeedTop24h  FeedFilter = "top24h"
	FeedTopWeek FeedFilter = "topWeek"
	FeedAllTime FeedFilter = "allTime"
)

func ParseFeedFilter(s string) (FeedFilter, error) {
	switch f := FeedFilter(s); f {
	case FeedNew, FeedTop24h, FeedTopWeek, FeedAllTime:
		return f, nil
	case "":
		return FeedNew, nil
	}
	return "", fmt.Errorf("unknown feed filter %q", s)
}

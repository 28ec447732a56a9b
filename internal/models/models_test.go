package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedFilter(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want FeedFilter
	}{
		{"new", FeedNew},
		{"", FeedNew},
		{"top24h", FeedTop24h},
		{"topWeek", FeedTopWeek},
		{"allTime", FeedAllTime},
	} {
		got, err := ParseFeedFilter(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseFeedFilter("hot")
	assert.Error(t, err)
}

func TestParseVoteDirection(t *testing.T) {
	d, err := ParseVoteDirection("-1")
	require.NoError(t, err)
	assert.Equal(t, VoteDown, d)

	d, err = ParseVoteDirection("up")
	require.NoError(t, err)
	assert.Equal(t, VoteUp, d)

	_, err = ParseVoteDirection("sideways")
	assert.Error(t, err)
}

func TestMemeCloneIsDeep(t *testing.T) {
	tpl := "t1"
	m := &Meme{ID: "m1", TemplateID: &tpl, Tags: []string{"tech"}, Stats: Stats{Upvotes: 3, Downvotes: 1}}
	c := m.Clone()
	c.Tags[0] = "changed"
	*c.TemplateID = "t2"
	c.Stats.Upvotes++

	assert.Equal(t, "tech", m.Tags[0])
	assert.Equal(t, "t1", *m.TemplateID)
	assert.Equal(t, 3, m.Stats.Upvotes)
	assert.Equal(t, 2, m.Stats.NetScore())
}

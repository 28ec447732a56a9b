package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	opCreate  = "create_meme"
	opVote    = "vote"
	opView    = "view"
	opComment = "comment"
	opBrowse  = "browse"
)

var (
	templateIDs = []string{"t1", "t2", "t3", "t4", "t5", "t6"}
	themes      = []string{
		"gaming", "tech", "science", "music", "movies",
		"books", "sports", "food", "travel", "art",
		"programming", "cats", "dogs", "mondays", "coffee",
	}
	captions = []string{
		"when the build passes", "nobody:", "me at 3am", "it works on my machine",
		"one does not simply", "this is fine", "expectation", "reality",
	}
	feedFilters = []string{"new", "top24h", "topWeek", "allTime"}
)

// step performs one weighted random activity and records its outcome.
func (s *Simulator) step(ctx context.Context, rng *rand.Rand) {
	op := s.pickActivity(rng)
	if op != opCreate && op != opBrowse {
		if _, ok := s.pickMeme(rng); !ok {
			op = opCreate
		}
	}

	start := time.Now()
	var err error
	switch op {
	case opCreate:
		err = s.createMeme(ctx, rng)
	case opVote:
		err = s.vote(ctx, rng)
	case opView:
		err = s.view(ctx, rng)
	case opComment:
		err = s.comment(ctx, rng)
	case opBrowse:
		err = s.browse(ctx, rng)
	}
	if ctx.Err() != nil {
		// Requests cut off by the end of the run are not failures.
		return
	}
	s.stats.record(op, time.Since(start), err)
	if err != nil {
		s.logger.Debug("activity failed", zap.String("activity", op), zap.Error(err))
	}
}

func (s *Simulator) pickActivity(rng *rand.Rand) string {
	weights := []struct {
		op     string
		weight int
	}{
		{opCreate, s.config.CreateWeight},
		{opVote, s.config.VoteWeight},
		{opView, s.config.ViewWeight},
		{opComment, s.config.CommentWeight},
		{opBrowse, s.config.BrowseWeight},
	}
	total := 0
	for _, w := range weights {
		total += w.weight
	}
	if total <= 0 {
		return opCreate
	}
	n := rng.Intn(total)
	for _, w := range weights {
		if n < w.weight {
			return w.op
		}
		n -= w.weight
	}
	return opCreate
}

func (s *Simulator) createMeme(ctx context.Context, rng *rand.Rand) error {
	user := s.pickUser(rng)
	tags := make([]string, 0, 3)
	for i := rng.Intn(3) + 1; i > 0; i-- {
		tags = append(tags, themes[rng.Intn(len(themes))])
	}
	resp, err := s.makeRequest(ctx, http.MethodPost, "/memes", map[string]interface{}{
		"templateId":      templateIDs[rng.Intn(len(templateIDs))],
		"topText":         captions[rng.Intn(len(captions))],
		"bottomText":      captions[rng.Intn(len(captions))],
		"creatorId":       user.ID,
		"creatorUsername": user.Username,
		"tags":            tags,
	})
	if err != nil {
		return err
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &created); err != nil {
		return fmt.Errorf("failed to parse create response: %w", err)
	}
	if created.ID == "" {
		return errors.New("create response without id")
	}
	s.addMeme(created.ID)
	return nil
}

func (s *Simulator) vote(ctx context.Context, rng *rand.Rand) error {
	memeID, _ := s.pickMeme(rng)
	direction := "up"
	if rng.Float64() < 0.3 {
		direction = "down"
	}
	_, err := s.makeRequest(ctx, http.MethodPost, "/memes/"+memeID+"/votes", map[string]string{
		"direction": direction,
		"userId":    s.pickUser(rng).ID,
	})
	return err
}

func (s *Simulator) view(ctx context.Context, rng *rand.Rand) error {
	memeID, _ := s.pickMeme(rng)
	if _, err := s.makeRequest(ctx, http.MethodGet, "/memes/"+memeID, nil); err != nil {
		return err
	}
	_, err := s.makeRequest(ctx, http.MethodPost, "/memes/"+memeID+"/views", nil)
	return err
}

func (s *Simulator) comment(ctx context.Context, rng *rand.Rand) error {
	memeID, _ := s.pickMeme(rng)
	user := s.pickUser(rng)
	_, err := s.makeRequest(ctx, http.MethodPost, "/memes/"+memeID+"/comments", map[string]string{
		"text":           fmt.Sprintf("%s lol", captions[rng.Intn(len(captions))]),
		"authorId":       user.ID,
		"authorUsername": user.Username,
	})
	return err
}

// browse loads a feed page plus the sidebar, the way a front page would.
func (s *Simulator) browse(ctx context.Context, rng *rand.Rand) error {
	filter := feedFilters[rng.Intn(len(feedFilters))]
	for _, path := range []string{
		"/feed?filter=" + filter + "&limit=20",
		"/trending/tags?limit=5",
		"/trending/creators",
	} {
		if _, err := s.makeRequest(ctx, http.MethodGet, path, nil); err != nil {
			return err
		}
	}
	// 204 on an empty pool is fine.
	_, err := s.makeRequest(ctx, http.MethodGet, "/trending/meme-of-the-day", nil)
	return err
}

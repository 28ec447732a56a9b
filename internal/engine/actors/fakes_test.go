package actors

import (
	"context"
	"sync"

	"memehub/internal/models"
)

type fakePersister struct {
	mu       sync.Mutex
	memes    []*models.Meme
	comments []*models.Comment
	failWith error
}

func (f *fakePersister) SaveMeme(_ context.Context, meme *models.Meme) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.memes = append(f.memes, meme.Clone())
	return nil
}

func (f *fakePersister) SaveComment(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	c := *comment
	f.comments = append(f.comments, &c)
	return nil
}

func (f *fakePersister) LoadAll(context.Context) ([]*models.Meme, []*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.memes, f.comments, nil
}

func (f *fakePersister) Close(context.Context) error { return nil }

func (f *fakePersister) savedMemes() []*models.Meme {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Meme(nil), f.memes...)
}

func (f *fakePersister) savedComments() []*models.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Comment(nil), f.comments...)
}

type recordingSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (s *recordingSink) Publish(event models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) types() []models.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.EventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

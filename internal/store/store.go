// Package store holds the authoritative meme and comment records.
//
// Every mutation is atomic with respect to the single meme it touches: each
// record carries its own lock, and the id indexes are sharded maps, so work on
// different memes never contends on a store-wide lock. Reads for rankings go
// through Snapshot, which copies each record under its lock.
package store

import (
	"sort"
	"sync"
	"sync/atomic"

	"memehub/internal/models"
	"memehub/internal/utils"

	cmap "github.com/orcaman/concurrent-map"
)

type record struct {
	mu       sync.Mutex
	seq      uint64
	meme     *models.Meme
	comments []*models.Comment // insertion order
}

// Store is the Entity Store. Construct it with New and tear it down with Close.
type Store struct {
	memes    cmap.ConcurrentMap // meme id -> *record
	comments cmap.ConcurrentMap // comment id -> *models.Comment

	seq     atomic.Uint64 // insertion order of memes
	version atomic.Uint64 // bumped after every acknowledged mutation
	closed  atomic.Bool

	cacheSnapshots bool
	cached         atomic.Pointer[Snapshot]
}

type Option func(*Store)

// WithSnapshotCache reuses the last snapshot for as long as no mutation has
// been acknowledged since it was taken.
func WithSnapshotCache(enabled bool) Option {
	return func(s *Store) {
		s.cacheSnapshots = enabled
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		memes:    cmap.New(),
		comments: cmap.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases all records. Any later call fails or returns empty results.
func (s *Store) Close() {
	if s.closed.Swap(true) {
		return
	}
	for _, id := range s.memes.Keys() {
		s.memes.Remove(id)
	}
	for _, id := range s.comments.Keys() {
		s.comments.Remove(id)
	}
	s.cached.Store(nil)
	s.version.Add(1)
}

// Version is the mutation sequence number.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

// Len returns the number of memes.
func (s *Store) Len() int {
	return s.memes.Count()
}

// CommentCount returns the number of comments across all memes.
func (s *Store) CommentCount() int {
	return s.comments.Count()
}

func (s *Store) checkOpen() error {
	if s.closed.Load() {
		return utils.NewAppError(utils.ErrMessageRejected, "store is closed", nil)
	}
	return nil
}

func (s *Store) lookup(memeID string) (*record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	v, ok := s.memes.Get(memeID)
	if !ok {
		return nil, utils.NewMemeNotFoundError(memeID)
	}
	return v.(*record), nil
}

// InsertMeme stores a copy of meme under meme.ID. The id must be unique.
func (s *Store) InsertMeme(meme *models.Meme) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	if meme == nil || meme.ID == "" {
		return "", utils.NewInvalidInputError("meme id is required")
	}

	rec := &record{
		seq:  s.seq.Add(1),
		meme: meme.Clone(),
	}
	if !s.memes.SetIfAbsent(meme.ID, rec) {
		return "", utils.NewInvalidInputError("duplicate meme id " + meme.ID)
	}
	s.version.Add(1)
	return meme.ID, nil
}

// InsertComment appends comment to its meme and bumps the meme's comment
// counter in the same critical section. Fails with NOT_FOUND when the meme
// does not exist; in that case nothing is stored.
func (s *Store) InsertComment(comment *models.Comment) (string, error) {
	if comment == nil || comment.ID == "" {
		return "", utils.NewInvalidInputError("comment id is required")
	}
	rec, err := s.lookup(comment.MemeID)
	if err != nil {
		return "", err
	}

	c := *comment
	rec.mu.Lock()
	if !s.comments.SetIfAbsent(c.ID, &c) {
		rec.mu.Unlock()
		return "", utils.NewInvalidInputError("duplicate comment id " + c.ID)
	}
	rec.comments = append(rec.comments, &c)
	rec.meme.Stats.Comments++
	rec.mu.Unlock()

	s.version.Add(1)
	return c.ID, nil
}

// ApplyVote increments exactly one of upvotes/downvotes.
func (s *Store) ApplyVote(memeID string, direction models.VoteDirection) (models.Stats, error) {
	if direction != models.VoteUp && direction != models.VoteDown {
		return models.Stats{}, utils.NewInvalidInputError("unknown vote direction " + string(direction))
	}
	return s.update(memeID, func(st *models.Stats) {
		if direction == models.VoteUp {
			st.Upvotes++
		} else {
			st.Downvotes++
		}
	})
}

// RecordView increments the view counter.
func (s *Store) RecordView(memeID string) (models.Stats, error) {
	return s.update(memeID, func(st *models.Stats) {
		st.Views++
	})
}

func (s *Store) update(memeID string, fn func(*models.Stats)) (models.Stats, error) {
	rec, err := s.lookup(memeID)
	if err != nil {
		return models.Stats{}, err
	}
	rec.mu.Lock()
	fn(&rec.meme.Stats)
	stats := rec.meme.Stats
	rec.mu.Unlock()

	s.version.Add(1)
	return stats, nil
}

// Get returns a copy of the meme.
func (s *Store) Get(memeID string) (*models.Meme, error) {
	rec, err := s.lookup(memeID)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.meme.Clone(), nil
}

// GetComment returns a copy of a single comment.
func (s *Store) GetComment(commentID string) (*models.Comment, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	v, ok := s.comments.Get(commentID)
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found: "+commentID, nil)
	}
	c := *v.(*models.Comment)
	return &c, nil
}

// Comments returns copies of a meme's comments in insertion order.
func (s *Store) Comments(memeID string) ([]*models.Comment, error) {
	rec, err := s.lookup(memeID)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	out := make([]*models.Comment, len(rec.comments))
	for i, c := range rec.comments {
		cc := *c
		out[i] = &cc
	}
	return out, nil
}

// Restore bulk-loads previously persisted state. Comments whose meme is
// unknown, and records with duplicate ids, are skipped and counted in dropped.
// Each meme's comment counter is recomputed from the comments actually loaded.
func (s *Store) Restore(memes []*models.Meme, comments []*models.Comment) (dropped int, err error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}

	sorted := make([]*models.Meme, len(memes))
	copy(sorted, memes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	for _, m := range sorted {
		if m == nil || m.ID == "" {
			dropped++
			continue
		}
		rec := &record{seq: s.seq.Add(1), meme: m.Clone()}
		rec.meme.Stats.Comments = 0
		if !s.memes.SetIfAbsent(m.ID, rec) {
			dropped++
		}
	}

	for _, c := range comments {
		if c == nil || c.ID == "" {
			dropped++
			continue
		}
		v, ok := s.memes.Get(c.MemeID)
		if !ok {
			dropped++
			continue
		}
		rec := v.(*record)
		cc := *c
		rec.mu.Lock()
		if s.comments.SetIfAbsent(cc.ID, &cc) {
			rec.comments = append(rec.comments, &cc)
			rec.meme.Stats.Comments++
		} else {
			dropped++
		}
		rec.mu.Unlock()
	}

	s.version.Add(1)
	return dropped, nil
}

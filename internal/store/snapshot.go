package store

import (
	"sort"

	"memehub/internal/models"
)

// Snapshot is a point-in-time copy of every meme, ordered by insertion
// (oldest first). Snapshots may be shared between readers and must be treated
// as read-only.
type Snapshot struct {
	Version uint64
	Memes   []*models.Meme
}

type snapEntry struct {
	seq  uint64
	meme *models.Meme
}

// Snapshot copies the current state. Each record is copied under its own
// lock, so no meme in the result is observed mid-update; writers are blocked
// only while their own record is being copied.
//
// The returned snapshot reflects at least every mutation acknowledged before
// the call.
func (s *Store) Snapshot() *Snapshot {
	if s.closed.Load() {
		return &Snapshot{Version: s.version.Load()}
	}

	version := s.version.Load()
	if s.cacheSnapshots {
		if cached := s.cached.Load(); cached != nil && cached.Version == version {
			return cached
		}
	}

	items := s.memes.Items()
	entries := make([]snapEntry, 0, len(items))
	for _, v := range items {
		rec := v.(*record)
		rec.mu.Lock()
		entries = append(entries, snapEntry{seq: rec.seq, meme: rec.meme.Clone()})
		rec.mu.Unlock()
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	snap := &Snapshot{Version: version, Memes: make([]*models.Meme, len(entries))}
	for i, e := range entries {
		snap.Memes[i] = e.meme
	}

	if s.cacheSnapshots {
		s.cached.Store(snap)
	}
	return snap
}

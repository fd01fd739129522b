// Package favorites keeps an in-memory view of the favorites store that UI
// code can consult per rendered item without touching the database.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pders01/wallr/internal/debuglog"
	"github.com/pders01/wallr/internal/storage"
)

type Key = storage.Key

// Store is what the synchronizer needs from persistence.
type Store interface {
	Exists(key storage.Key) (bool, error)
	Insert(fav storage.Favorite) (storage.Favorite, error)
	Delete(key storage.Key) error
	Observe(ctx context.Context) (<-chan []storage.Favorite, error)
}

// Metadata is stored alongside a new favorite.
type Metadata struct {
	ThumbURL   string
	MainImgURL string
	Ratio      string
}

type Outcome int

const (
	Added Outcome = iota
	Removed
)

func (o Outcome) String() string {
	if o == Removed {
		return "removed"
	}
	return "added"
}

// Index is an immutable snapshot of the store. It is replaced wholesale,
// never patched.
type Index struct {
	keys  map[storage.Key]struct{}
	items []storage.Favorite
}

func newIndex(favs []storage.Favorite) *Index {
	idx := &Index{
		keys:  make(map[storage.Key]struct{}, len(favs)),
		items: make([]storage.Favorite, len(favs)),
	}
	copy(idx.items, favs)
	for _, f := range favs {
		idx.keys[f.Key()] = struct{}{}
	}
	return idx
}

func (i *Index) Contains(key storage.Key) bool {
	_, ok := i.keys[key]
	return ok
}

func (i *Index) Len() int {
	return len(i.items)
}

// Synchronizer answers IsFavorite from the latest store snapshot and routes
// toggles to the store.
type Synchronizer struct {
	store   Store
	index   atomic.Pointer[Index]
	changed chan struct{}
	now     func() time.Time
}

func NewSynchronizer(store Store) *Synchronizer {
	s := &Synchronizer{
		store:   store,
		changed: make(chan struct{}, 1),
		now:     time.Now,
	}
	s.index.Store(newIndex(nil))
	return s
}

// Run subscribes to the store and rebuilds the index on every snapshot until
// ctx is done or the store closes the subscription.
func (s *Synchronizer) Run(ctx context.Context) error {
	ch, err := s.store.Observe(ctx)
	if err != nil {
		return fmt.Errorf("observing favorites: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case favs, ok := <-ch:
			if !ok {
				return nil
			}
			s.index.Store(newIndex(favs))
			debuglog.Debugf("favorites index rebuilt: %d entries", len(favs))
			select {
			case s.changed <- struct{}{}:
			default:
			}
		}
	}
}

// IsFavorite reports membership in the current snapshot. It never blocks.
func (s *Synchronizer) IsFavorite(key storage.Key) bool {
	return s.index.Load().Contains(key)
}

// Favorites returns the current snapshot, newest first.
func (s *Synchronizer) Favorites() []storage.Favorite {
	items := s.index.Load().items
	out := make([]storage.Favorite, len(items))
	copy(out, items)
	return out
}

// Count is the number of favorites in the current snapshot.
func (s *Synchronizer) Count() int {
	return s.index.Load().Len()
}

// Changed signals after each index rebuild. Signals coalesce.
func (s *Synchronizer) Changed() <-chan struct{} {
	return s.changed
}

// Toggle removes key if it is stored, otherwise stores it with meta. A lost
// race in either direction still reports the state the caller asked for.
func (s *Synchronizer) Toggle(ctx context.Context, key storage.Key, meta Metadata) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Added, err
	}

	exists, err := s.store.Exists(key)
	if err != nil {
		return Added, fmt.Errorf("checking favorite %s: %w", key, err)
	}

	log := debuglog.WithFields(map[string]any{"key": key.String()})

	if exists {
		err := s.store.Delete(key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return Removed, fmt.Errorf("removing favorite %s: %w", key, err)
		}
		log.Debugf("favorite removed")
		return Removed, nil
	}

	_, err = s.store.Insert(storage.Favorite{
		SourceID:    key.SourceID,
		Source:      key.Source,
		FavoritedOn: s.now().UnixMilli(),
		ThumbURL:    meta.ThumbURL,
		MainImgURL:  meta.MainImgURL,
		Ratio:       meta.Ratio,
	})
	if err != nil && !errors.Is(err, storage.ErrConflict) {
		return Added, fmt.Errorf("adding favorite %s: %w", key, err)
	}
	log.Debugf("favorite added")
	return Added, nil
}

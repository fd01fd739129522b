package storage

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"

	"github.com/pders01/wallr/internal/debuglog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	favoritesBucket = []byte("favorites")
	tagsBucket      = []byte("tags")
	metaBucket      = []byte("metadata")

	tagsRefreshedKey = []byte("tags_refreshed_at")
)

type Store struct {
	db *bolt.DB

	// mu serializes change notifications so the last snapshot delivered to
	// a subscriber is always read after the last committed write.
	mu     sync.Mutex
	subs   map[int]chan []Favorite
	nextID int
	closed chan struct{}
}

// NewStore opens or creates the database at dbPath.
func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = time.Second
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{favoritesBucket, tagsBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{
		db:     db,
		subs:   make(map[int]chan []Favorite),
		closed: make(chan struct{}),
	}, nil
}

// Close closes every open subscription and the database.
func (s *Store) Close() error {
	s.mu.Lock()
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()
	return s.db.Close()
}

func (s *Store) Exists(key Key) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(favoritesBucket).Get(key.bytes()) != nil
		return nil
	})
	return found, err
}

func (s *Store) Get(key Key) (*Favorite, error) {
	var fav Favorite
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(favoritesBucket).Get(key.bytes())
		if data == nil {
			return fmt.Errorf("favorite %s: %w", key, ErrNotFound)
		}
		return json.Unmarshal(data, &fav)
	})
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

// Insert stores fav and returns it with its assigned ID. A favorite with the
// same key already present yields ErrConflict and leaves the row untouched.
func (s *Store) Insert(fav Favorite) (Favorite, error) {
	if strings.TrimSpace(fav.SourceID) == "" {
		return Favorite{}, fmt.Errorf("inserting favorite: empty source id")
	}
	if _, ok := ParseSource(string(fav.Source)); !ok {
		return Favorite{}, fmt.Errorf("inserting favorite: unknown source %q", fav.Source)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(favoritesBucket)
		key := fav.Key().bytes()
		if b.Get(key) != nil {
			return fmt.Errorf("favorite %s: %w", fav.Key(), ErrConflict)
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		fav.ID = seq
		data, err := json.Marshal(fav)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
	if err != nil {
		return Favorite{}, err
	}

	s.notify()
	return fav, nil
}

// Delete removes the favorite with key, or returns ErrNotFound.
func (s *Store) Delete(key Key) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(favoritesBucket)
		if b.Get(key.bytes()) == nil {
			return fmt.Errorf("favorite %s: %w", key, ErrNotFound)
		}
		return b.Delete(key.bytes())
	})
	if err != nil {
		return err
	}

	s.notify()
	return nil
}

// DeleteAll removes every favorite.
func (s *Store) DeleteAll() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(favoritesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(favoritesBucket)
		return err
	})
	if err != nil {
		return fmt.Errorf("clearing favorites: %w", err)
	}

	s.notify()
	return nil
}

// All returns every favorite, most recently favorited first.
func (s *Store) All() ([]Favorite, error) {
	favs := []Favorite{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(favoritesBucket).ForEach(func(_ []byte, v []byte) error {
			var fav Favorite
			if err := json.Unmarshal(v, &fav); err != nil {
				return err
			}
			favs = append(favs, fav)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}

	sort.SliceStable(favs, func(i, j int) bool {
		if favs[i].FavoritedOn != favs[j].FavoritedOn {
			return favs[i].FavoritedOn > favs[j].FavoritedOn
		}
		return favs[i].ID > favs[j].ID
	})
	return favs, nil
}

// Observe returns a channel that receives the full favorites list right away
// and again after every change. A slow reader only sees the latest list.
// The channel is closed when ctx is done or the store is closed.
func (s *Store) Observe(ctx context.Context) (<-chan []Favorite, error) {
	ch := make(chan []Favorite, 1)

	s.mu.Lock()
	snap, err := s.All()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	ch <- snap
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.closed:
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			close(sub)
			delete(s.subs, id)
		}
	}()

	return ch, nil
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs) == 0 {
		return
	}

	snap, err := s.All()
	if err != nil {
		debuglog.Warnf("storage: %d subscribers keep a stale snapshot: %v", len(s.subs), err)
		return
	}
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// SaveTags replaces the cached popular tags and records the refresh time.
func (s *Store) SaveTags(tags []CachedTag, at time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(tagsBucket); err != nil {
			return err
		}
		b, err := tx.CreateBucket(tagsBucket)
		if err != nil {
			return err
		}
		for _, tag := range tags {
			data, err := json.Marshal(tag)
			if err != nil {
				return err
			}
			if err := b.Put(itob(uint64(tag.ID)), data); err != nil {
				return err
			}
		}
		return tx.Bucket(metaBucket).Put(tagsRefreshedKey, itob(uint64(at.UnixMilli())))
	})
}

// Tags returns the cached popular tags ordered by name.
func (s *Store) Tags() ([]CachedTag, error) {
	var tags []CachedTag
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(tagsBucket).ForEach(func(k []byte, v []byte) error {
			var tag CachedTag
			if err := json.Unmarshal(v, &tag); err != nil {
				debuglog.Warnf("storage: skipping unreadable cached tag %x: %v", k, err)
				return nil
			}
			tags = append(tags, tag)
			return nil
		})
	})
	sort.Slice(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Name) < strings.ToLower(tags[j].Name)
	})
	return tags, err
}

// TagsRefreshedAt reports when SaveTags last ran; the zero time if never.
func (s *Store) TagsRefreshedAt() (time.Time, error) {
	var at time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(metaBucket).Get(tagsRefreshedKey)
		if len(v) == 8 {
			at = time.UnixMilli(int64(binary.BigEndian.Uint64(v)))
		}
		return nil
	})
	return at, err
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Package tags keeps the popular-tag cache fresh and the suggestion index in
// step with it.
package tags

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pders01/wallr/internal/catalog"
	"github.com/pders01/wallr/internal/debuglog"
	"github.com/pders01/wallr/internal/search"
	"github.com/pders01/wallr/internal/storage"
)

// Source fetches the current popular tags.
type Source interface {
	PopularTags(ctx context.Context) ([]catalog.Tag, error)
}

// Cache persists tags between runs.
type Cache interface {
	SaveTags(tags []storage.CachedTag, at time.Time) error
	Tags() ([]storage.CachedTag, error)
	TagsRefreshedAt() (time.Time, error)
}

type Manager struct {
	source    Source
	cache     Cache
	suggester search.Suggester
	ttl       time.Duration
	now       func() time.Time

	mu           sync.Mutex
	forceRefresh bool
	indexed      bool
}

func NewManager(source Source, cache Cache, suggester search.Suggester, ttl time.Duration) *Manager {
	return &Manager{
		source:    source,
		cache:     cache,
		suggester: suggester,
		ttl:       ttl,
		now:       time.Now,
	}
}

// SetForceRefresh makes the next Load go to the network regardless of the
// cache age.
func (m *Manager) SetForceRefresh(force bool) {
	m.mu.Lock()
	m.forceRefresh = force
	m.mu.Unlock()
}

// Load returns the cached tags, refreshing them from the source when the
// cache is older than the TTL, and makes sure the suggester has them
// indexed. A failed refresh falls back to a stale cache when there is one.
func (m *Manager) Load(ctx context.Context) ([]catalog.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cached, err := m.cache.Tags()
	if err != nil {
		return nil, fmt.Errorf("reading tag cache: %w", err)
	}

	stale, err := m.stale(len(cached))
	if err != nil {
		return nil, err
	}
	if !stale {
		tags := fromCache(cached)
		if err := m.index(tags, false); err != nil {
			return nil, err
		}
		return tags, nil
	}

	fresh, err := m.source.PopularTags(ctx)
	if err != nil {
		if len(cached) == 0 {
			return nil, fmt.Errorf("fetching popular tags: %w", err)
		}
		debuglog.Warnf("tags: refresh failed, using %d cached tags: %v", len(cached), err)
		tags := fromCache(cached)
		if err := m.index(tags, false); err != nil {
			return nil, err
		}
		return tags, nil
	}

	if err := m.cache.SaveTags(toCache(fresh), m.now()); err != nil {
		return nil, fmt.Errorf("saving tag cache: %w", err)
	}
	m.forceRefresh = false
	debuglog.Infof("tags: refreshed %d popular tags", len(fresh))

	if err := m.index(fresh, true); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Suggest loads tags on first use and queries the suggester.
func (m *Manager) Suggest(ctx context.Context, prefix string, limit int) ([]search.Result, error) {
	m.mu.Lock()
	ready := m.indexed
	m.mu.Unlock()
	if !ready {
		if _, err := m.Load(ctx); err != nil {
			return nil, err
		}
	}
	return m.suggester.Suggest(prefix, limit)
}

func (m *Manager) stale(cachedCount int) (bool, error) {
	if m.forceRefresh || cachedCount == 0 {
		return true, nil
	}
	at, err := m.cache.TagsRefreshedAt()
	if err != nil {
		return false, fmt.Errorf("reading tag cache age: %w", err)
	}
	return at.IsZero() || m.now().Sub(at) >= m.ttl, nil
}

// index pushes tags into the suggester once per process unless changed is
// set. A persistent index may already hold them from a previous run.
func (m *Manager) index(tags []catalog.Tag, changed bool) error {
	if m.indexed && !changed {
		return nil
	}
	if !changed {
		if ds, ok := m.suggester.(search.DebugStatser); ok {
			if n, err := ds.DocCount(); err == nil && n == len(tags) {
				m.indexed = true
				return nil
			}
		}
	}
	if err := m.suggester.Index(tags); err != nil {
		return fmt.Errorf("indexing tags: %w", err)
	}
	m.indexed = true
	return nil
}

func toCache(tags []catalog.Tag) []storage.CachedTag {
	out := make([]storage.CachedTag, len(tags))
	for i, t := range tags {
		out[i] = storage.CachedTag{ID: t.ID, Name: t.Name, Category: t.Category, Purity: t.Purity}
	}
	return out
}

func fromCache(cached []storage.CachedTag) []catalog.Tag {
	out := make([]catalog.Tag, len(cached))
	for i, t := range cached {
		out[i] = catalog.Tag{ID: t.ID, Name: t.Name, Category: t.Category, Purity: t.Purity}
	}
	return out
}

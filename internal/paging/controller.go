// Package paging tracks page-by-page loading of one search's results.
//
// Controller is a plain state machine with no locking: exactly one goroutine
// may call its methods. Fetches are described by Fetch values, performed by
// the caller elsewhere, and handed back through Apply. Responses that belong
// to a superseded search or an older request are discarded there.
package paging

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pders01/wallr/internal/debuglog"
	"github.com/pders01/wallr/internal/query"
)

type Phase int

const (
	Idle Phase = iota
	Loading
	LoadedOK
	LoadingMore
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case LoadedOK:
		return "loaded"
	case LoadingMore:
		return "loading-more"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Kind says what a fetch is for and how its result is merged.
type Kind int

const (
	Fresh Kind = iota
	Refresh
	More
)

func (k Kind) String() string {
	switch k {
	case Fresh:
		return "fresh"
	case Refresh:
		return "refresh"
	case More:
		return "more"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Page is one page of results as reported by the catalog.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	LastPage    int
	Seed        string
	// Query is the server's description of the query it ran.
	Query string
}

// Fetch describes one request the caller must perform.
type Fetch struct {
	Generation uuid.UUID
	Seq        uint64
	Kind       Kind
	Page       int
	Search     query.Search
	Seed       string
}

// Response carries the outcome of a Fetch back to the controller.
type Response[T any] struct {
	Fetch Fetch
	Page  Page[T]
	Err   error
}

// State is a snapshot of the controller. Items is nil until the first page
// of the current search arrives; an empty non-nil slice is a confirmed empty
// result.
type State[T any] struct {
	Generation uuid.UUID
	Search     query.Search
	Phase      Phase
	Page       int
	HasMore    bool
	Items      []T
	Err        error
	// Query is what the server reported running for page 1.
	Query string
	// Refreshing is set while a refresh runs with the old items on screen.
	Refreshing bool
	// FailedKind is the kind of the fetch that put the controller in Error.
	FailedKind Kind
}

type Controller[T any] struct {
	key func(T) string

	gen     uuid.UUID
	seq     uint64
	search  query.Search
	phase   Phase
	page    int
	hasMore bool
	items   []T
	err     error
	seed    string
	echo    string

	inflight *Fetch
	failed   *Fetch
}

// NewController returns an idle controller. key, if not nil, identifies
// items so a page that overlaps the loaded ones only adds new items.
func NewController[T any](key func(T) string) *Controller[T] {
	return &Controller[T]{key: key}
}

// Start resets all state for a new search and returns the page-1 fetch.
// Any response still outstanding for the previous search is discarded when
// it arrives.
func (c *Controller[T]) Start(search query.Search) Fetch {
	c.gen = uuid.New()
	c.search = search
	c.page = 1
	c.hasMore = true
	c.items = nil
	c.err = nil
	c.failed = nil
	c.seed = search.Filters.Seed
	c.echo = ""
	c.phase = Loading
	return c.issue(Fresh, 1)
}

// Refresh re-fetches page 1 of the current search. The loaded items stay
// visible until the response replaces them.
func (c *Controller[T]) Refresh() (Fetch, bool) {
	if c.gen == uuid.Nil {
		return Fetch{}, false
	}
	c.gen = uuid.New()
	c.err = nil
	c.failed = nil
	c.seed = c.search.Filters.Seed
	c.phase = Loading
	return c.issue(Refresh, 1), true
}

// LoadMore requests the next page. It does nothing unless the last load
// succeeded and more pages exist, or the last load-more failed.
func (c *Controller[T]) LoadMore() (Fetch, bool) {
	switch {
	case c.phase == LoadedOK && c.hasMore:
	case c.phase == Error && c.failed != nil && c.failed.Kind == More:
	default:
		return Fetch{}, false
	}
	c.err = nil
	c.failed = nil
	c.phase = LoadingMore
	return c.issue(More, c.page+1), true
}

// Retry re-issues the fetch that failed.
func (c *Controller[T]) Retry() (Fetch, bool) {
	if c.phase != Error || c.failed == nil {
		return Fetch{}, false
	}
	failed := *c.failed
	if failed.Kind == More {
		return c.LoadMore()
	}
	c.err = nil
	c.failed = nil
	c.phase = Loading
	return c.issue(failed.Kind, 1), true
}

func (c *Controller[T]) issue(kind Kind, page int) Fetch {
	c.seq++
	f := Fetch{
		Generation: c.gen,
		Seq:        c.seq,
		Kind:       kind,
		Page:       page,
		Search:     c.search,
		Seed:       c.seed,
	}
	c.inflight = &f
	debuglog.WithFields(map[string]any{
		"gen":  c.gen.String(),
		"seq":  f.Seq,
		"kind": kind.String(),
		"page": page,
	}).Debugf("paging: fetch issued")
	return f
}

// Apply merges a response and reports whether the state changed. Responses
// from an older generation or an older request are ignored.
func (c *Controller[T]) Apply(resp Response[T]) bool {
	f := resp.Fetch
	if c.inflight == nil || f.Generation != c.gen || f.Seq != c.seq {
		debuglog.Debugf("paging: dropped stale response gen=%s seq=%d", f.Generation, f.Seq)
		return false
	}
	c.inflight = nil

	if resp.Err != nil {
		c.phase = Error
		c.err = resp.Err
		c.failed = &f
		debuglog.Warnf("paging: %s page %d failed: %v", f.Kind, f.Page, resp.Err)
		return true
	}

	switch f.Kind {
	case More:
		c.items = append(c.items, c.unseen(resp.Page.Items, true)...)
	default:
		c.items = c.unseen(resp.Page.Items, false)
		if c.items == nil {
			c.items = []T{}
		}
		if resp.Page.Seed != "" {
			c.seed = resp.Page.Seed
		}
		c.echo = resp.Page.Query
	}

	// The server's page number wins; the requested one covers servers
	// that omit it.
	c.page = f.Page
	if resp.Page.CurrentPage > 0 {
		c.page = resp.Page.CurrentPage
	}
	c.hasMore = len(resp.Page.Items) > 0 && c.page < resp.Page.LastPage
	c.phase = LoadedOK
	return true
}

// unseen drops repeated items from page. When appending, items already
// loaded count as repeats too.
func (c *Controller[T]) unseen(page []T, appending bool) []T {
	if c.key == nil {
		return append([]T(nil), page...)
	}

	seen := make(map[string]struct{}, len(c.items)+len(page))
	if appending {
		for _, it := range c.items {
			seen[c.key(it)] = struct{}{}
		}
	}

	var out []T
	for _, it := range page {
		k := c.key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

// State returns a snapshot that shares no memory with the controller.
func (c *Controller[T]) State() State[T] {
	s := State[T]{
		Generation: c.gen,
		Search:     c.search,
		Phase:      c.phase,
		Page:       c.page,
		HasMore:    c.hasMore,
		Err:        c.err,
		Query:      c.echo,
	}
	if c.items != nil {
		s.Items = make([]T, len(c.items))
		copy(s.Items, c.items)
	}
	if c.inflight != nil && c.inflight.Kind == Refresh {
		s.Refreshing = true
	}
	if c.failed != nil {
		s.FailedKind = c.failed.Kind
	}
	return s
}

// Seed is the random-sort seed later pages are requested with.
func (c *Controller[T]) Seed() string {
	return c.seed
}

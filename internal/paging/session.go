package paging

import (
	"context"

	"github.com/pders01/wallr/internal/query"
)

// FetchFunc loads one page of a search.
type FetchFunc[T any] func(ctx context.Context, search query.Search, page int, seed string) (Page[T], error)

type command[T any] struct {
	op    func(*Controller[T]) (Fetch, bool)
	reply chan bool
}

// Session owns a Controller on a single goroutine. Commands and fetch
// results are queued to that goroutine, so the controller is never touched
// concurrently. Fetches themselves run on their own goroutines.
type Session[T any] struct {
	fetch     FetchFunc[T]
	ctrl      *Controller[T]
	cmds      chan command[T]
	responses chan Response[T]
	updates   chan State[T]
	done      chan struct{}
}

func NewSession[T any](fetch FetchFunc[T], key func(T) string) *Session[T] {
	return &Session[T]{
		fetch:     fetch,
		ctrl:      NewController(key),
		cmds:      make(chan command[T]),
		responses: make(chan Response[T]),
		updates:   make(chan State[T], 1),
		done:      make(chan struct{}),
	}
}

// Run processes commands and responses until ctx is done.
func (s *Session[T]) Run(ctx context.Context) {
	defer close(s.done)
	s.publish()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.cmds:
			f, ok := cmd.op(s.ctrl)
			if ok {
				go s.perform(ctx, f)
				s.publish()
			}
			cmd.reply <- ok
		case resp := <-s.responses:
			if s.ctrl.Apply(resp) {
				s.publish()
			}
		}
	}
}

func (s *Session[T]) perform(ctx context.Context, f Fetch) {
	page, err := s.fetch(ctx, f.Search, f.Page, f.Seed)
	select {
	case s.responses <- Response[T]{Fetch: f, Page: page, Err: err}:
	case <-ctx.Done():
	}
}

// publish replaces any unread snapshot with the current one.
func (s *Session[T]) publish() {
	st := s.ctrl.State()
	select {
	case <-s.updates:
	default:
	}
	s.updates <- st
}

// Updates delivers the latest state after every transition. Intermediate
// states may be skipped by a slow reader.
func (s *Session[T]) Updates() <-chan State[T] {
	return s.updates
}

// Search starts a new search. It always issues a fetch.
func (s *Session[T]) Search(ctx context.Context, search query.Search) bool {
	return s.do(ctx, func(c *Controller[T]) (Fetch, bool) {
		return c.Start(search), true
	})
}

// LoadMore reports whether a next-page fetch was issued.
func (s *Session[T]) LoadMore(ctx context.Context) bool {
	return s.do(ctx, (*Controller[T]).LoadMore)
}

// Refresh reports whether a page-1 re-fetch was issued.
func (s *Session[T]) Refresh(ctx context.Context) bool {
	return s.do(ctx, (*Controller[T]).Refresh)
}

// Retry reports whether the failed fetch was re-issued.
func (s *Session[T]) Retry(ctx context.Context) bool {
	return s.do(ctx, (*Controller[T]).Retry)
}

func (s *Session[T]) do(ctx context.Context, op func(*Controller[T]) (Fetch, bool)) bool {
	cmd := command[T]{op: op, reply: make(chan bool, 1)}
	select {
	case s.cmds <- cmd:
	case <-ctx.Done():
		return false
	case <-s.done:
		return false
	}
	select {
	case ok := <-cmd.reply:
		return ok
	case <-ctx.Done():
		return false
	case <-s.done:
		return false
	}
}

package paging

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/wallr/internal/query"
)

// gatedFetcher blocks each fetch until the test releases it.
type gatedFetcher struct {
	mu      sync.Mutex
	calls   []int
	release map[string]chan Page[string]
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{release: make(map[string]chan Page[string])}
}

func (g *gatedFetcher) gate(text string, page int) chan Page[string] {
	g.mu.Lock()
	defer g.mu.Unlock()
	k := text + "#" + string(rune('0'+page))
	ch, ok := g.release[k]
	if !ok {
		ch = make(chan Page[string], 1)
		g.release[k] = ch
	}
	return ch
}

func (g *gatedFetcher) fetch(ctx context.Context, s query.Search, page int, _ string) (Page[string], error) {
	g.mu.Lock()
	g.calls = append(g.calls, page)
	g.mu.Unlock()
	select {
	case p := <-g.gate(s.Text, page):
		return p, nil
	case <-ctx.Done():
		return Page[string]{}, ctx.Err()
	}
}

func (g *gatedFetcher) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func startSession(t *testing.T, fetch FetchFunc[string]) (*Session[string], context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSession(fetch, ident)
	go s.Run(ctx)
	t.Cleanup(cancel)
	return s, ctx
}

func waitFor(t *testing.T, s *Session[string], cond func(State[string]) bool) State[string] {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-s.Updates():
			if cond(st) {
				return st
			}
		case <-deadline:
			t.Fatal("state not reached")
			return State[string]{}
		}
	}
}

func TestSession_LoadMoreTwiceOneFetch(t *testing.T) {
	g := newGatedFetcher()
	s, ctx := startSession(t, g.fetch)

	require.True(t, s.Search(ctx, search("cats")))
	g.gate("cats", 1) <- Page[string]{Items: []string{"a", "b"}, LastPage: 3}
	waitFor(t, s, func(st State[string]) bool { return st.Phase == LoadedOK })

	assert.True(t, s.LoadMore(ctx))
	assert.False(t, s.LoadMore(ctx))

	g.gate("cats", 2) <- Page[string]{Items: []string{"c", "d"}, LastPage: 3}
	st := waitFor(t, s, func(st State[string]) bool { return st.Phase == LoadedOK && st.Page == 2 })

	assert.Equal(t, []string{"a", "b", "c", "d"}, st.Items)
	assert.Equal(t, 2, g.callCount())
}

func TestSession_StaleSearchDropped(t *testing.T) {
	g := newGatedFetcher()
	s, ctx := startSession(t, g.fetch)

	require.True(t, s.Search(ctx, search("cats")))
	require.True(t, s.Search(ctx, search("dogs")))

	g.gate("dogs", 1) <- Page[string]{Items: []string{"dog"}, LastPage: 1}
	st := waitFor(t, s, func(st State[string]) bool { return st.Phase == LoadedOK })
	assert.Equal(t, "dogs", st.Search.Text)

	g.gate("cats", 1) <- Page[string]{Items: []string{"cat"}, LastPage: 1}

	// a later refresh proves the loop has moved past the stale response
	require.True(t, s.Refresh(ctx))
	g.gate("dogs", 1) <- Page[string]{Items: []string{"dog2"}, LastPage: 1}
	st = waitFor(t, s, func(st State[string]) bool { return st.Phase == LoadedOK && !st.Refreshing })
	assert.Equal(t, []string{"dog2"}, st.Items)
}

func TestSession_StoppedSessionRejectsCommands(t *testing.T) {
	g := newGatedFetcher()
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSession(g.fetch, ident)
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	assert.False(t, s.Search(context.Background(), search("x")))
}

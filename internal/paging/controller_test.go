package paging

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/wallr/internal/filter"
	"github.com/pders01/wallr/internal/query"
)

func ident(s string) string { return s }

func items(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + strconv.Itoa(i)
	}
	return out
}

func ok(f Fetch, its []string, last int) Response[string] {
	return Response[string]{Fetch: f, Page: Page[string]{Items: its, CurrentPage: f.Page, LastPage: last}}
}

func search(text string) query.Search {
	return query.New(text, filter.Default())
}

func TestStart_ResetsState(t *testing.T) {
	c := NewController(ident)
	assert.Equal(t, Idle, c.State().Phase)

	f := c.Start(search("cats"))
	st := c.State()

	assert.Equal(t, Fresh, f.Kind)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, Loading, st.Phase)
	assert.Nil(t, st.Items, "no data yet")
	assert.True(t, st.HasMore)
}

func TestApply_FirstPageAndLoadMore(t *testing.T) {
	c := NewController(ident)
	f := c.Start(search("cats"))

	require.True(t, c.Apply(ok(f, items("a", 3), 3)))
	st := c.State()
	assert.Equal(t, LoadedOK, st.Phase)
	assert.Equal(t, items("a", 3), st.Items)
	assert.True(t, st.HasMore)

	more, issued := c.LoadMore()
	require.True(t, issued)
	assert.Equal(t, More, more.Kind)
	assert.Equal(t, 2, more.Page)
	assert.Equal(t, LoadingMore, c.State().Phase)

	require.True(t, c.Apply(ok(more, items("b", 2), 3)))
	st = c.State()
	assert.Len(t, st.Items, 5)
	assert.Equal(t, 2, st.Page)
}

func TestApply_EmptyResultIsConfirmedEmpty(t *testing.T) {
	c := NewController[string](nil)
	f := c.Start(search("nothing"))

	require.True(t, c.Apply(ok(f, nil, 5)))
	st := c.State()
	require.NotNil(t, st.Items)
	assert.Empty(t, st.Items)
	assert.False(t, st.HasMore, "an empty page ends paging whatever the metadata says")

	_, issued := c.LoadMore()
	assert.False(t, issued)
}

func TestLoadMore_LastPageStopsPaging(t *testing.T) {
	c := NewController(ident)
	f := c.Start(search(""))
	c.Apply(ok(f, items("a", 2), 1))

	assert.False(t, c.State().HasMore)
	_, issued := c.LoadMore()
	assert.False(t, issued)
}

func TestApply_ServerPageNumberWins(t *testing.T) {
	c := NewController(ident)
	f := c.Start(search("cats"))

	// the server clamped the request to its last page
	resp := Response[string]{Fetch: f, Page: Page[string]{Items: items("a", 2), CurrentPage: 3, LastPage: 3, Query: "tag cats"}}
	require.True(t, c.Apply(resp))
	st := c.State()
	assert.Equal(t, 3, st.Page)
	assert.False(t, st.HasMore)
	assert.Equal(t, "tag cats", st.Query)

	f = c.Start(search("dogs"))
	assert.Empty(t, c.State().Query)
	require.True(t, c.Apply(Response[string]{Fetch: f, Page: Page[string]{Items: items("b", 2), LastPage: 4}}))
	st = c.State()
	assert.Equal(t, 1, st.Page, "missing page number falls back to the requested one")
	assert.True(t, st.HasMore)

	more, issued := c.LoadMore()
	require.True(t, issued)
	assert.Equal(t, 2, more.Page)
}

func TestLoadMore_TwiceIssuesOneFetch(t *testing.T) {
	c := NewController(ident)
	f := c.Start(search(""))
	c.Apply(ok(f, items("a", 2), 5))

	first, issued := c.LoadMore()
	require.True(t, issued)
	_, issued = c.LoadMore()
	assert.False(t, issued)

	c.Apply(ok(first, items("b", 2), 5))
	st := c.State()
	assert.Equal(t, []string{"a0", "a1", "b0", "b1"}, st.Items)
}

func TestApply_DuplicateResponseIgnored(t *testing.T) {
	c := NewController(ident)
	f := c.Start(search(""))
	c.Apply(ok(f, items("a", 2), 5))
	more, _ := c.LoadMore()

	assert.True(t, c.Apply(ok(more, items("b", 2), 5)))
	assert.False(t, c.Apply(ok(more, items("b", 2), 5)))
	assert.Len(t, c.State().Items, 4)
}

func TestApply_OverlappingPageDeduplicated(t *testing.T) {
	c := NewController(ident)
	f := c.Start(search(""))
	c.Apply(ok(f, []string{"x", "y"}, 5))
	more, _ := c.LoadMore()

	c.Apply(ok(more, []string{"y", "z"}, 5))
	assert.Equal(t, []string{"x", "y", "z"}, c.State().Items)
}

func TestStaleResponseAfterNewSearchDropped(t *testing.T) {
	c := NewController(ident)
	old := c.Start(search("cats"))
	c.Apply(ok(old, items("cat", 2), 5))
	oldMore, _ := c.LoadMore()

	fresh := c.Start(search("dogs"))
	assert.False(t, c.Apply(ok(oldMore, items("cat-late", 2), 5)))
	assert.Nil(t, c.State().Items)

	c.Apply(ok(fresh, items("dog", 2), 5))
	assert.Equal(t, items("dog", 2), c.State().Items)

	assert.False(t, c.Apply(ok(old, items("cat-stale", 1), 5)))
	assert.Equal(t, items("dog", 2), c.State().Items)
}

func TestErrorKeepsItemsAndRetryIsSafe(t *testing.T) {
	c := NewController(ident)
	f := c.Start(search(""))
	c.Apply(ok(f, items("a", 2), 5))

	more, _ := c.LoadMore()
	boom := errors.New("timeout")
	require.True(t, c.Apply(Response[string]{Fetch: more, Err: boom}))

	st := c.State()
	assert.Equal(t, Error, st.Phase)
	assert.ErrorIs(t, st.Err, boom)
	assert.Equal(t, More, st.FailedKind)
	assert.Equal(t, items("a", 2), st.Items)
	assert.Equal(t, 1, st.Page, "page counter only advances on success")

	retry, issued := c.LoadMore()
	require.True(t, issued)
	assert.Equal(t, 2, retry.Page)

	c.Apply(ok(retry, items("b", 1), 5))
	assert.Len(t, c.State().Items, 3)
}

func TestRetryAfterFailedFirstLoad(t *testing.T) {
	c := NewController(ident)
	f := c.Start(search(""))
	c.Apply(Response[string]{Fetch: f, Err: errors.New("503")})

	_, issued := c.LoadMore()
	assert.False(t, issued, "load-more is not a retry for a failed first load")

	retry, issued := c.Retry()
	require.True(t, issued)
	assert.Equal(t, Fresh, retry.Kind)
	assert.Equal(t, 1, retry.Page)
	assert.Nil(t, c.State().Items)

	_, issued = c.Retry()
	assert.False(t, issued)
}

func TestRefreshKeepsItemsUntilReplaced(t *testing.T) {
	c := NewController(ident)
	f := c.Start(search(""))
	c.Apply(ok(f, items("a", 2), 5))
	more, _ := c.LoadMore()
	c.Apply(ok(more, items("b", 2), 5))

	r, issued := c.Refresh()
	require.True(t, issued)
	assert.Equal(t, Refresh, r.Kind)
	st := c.State()
	assert.True(t, st.Refreshing)
	assert.Len(t, st.Items, 4)

	c.Apply(ok(r, items("n", 1), 5))
	st = c.State()
	assert.Equal(t, items("n", 1), st.Items)
	assert.Equal(t, 1, st.Page)
	assert.False(t, st.Refreshing)
}

func TestRefreshSupersedesLoadMore(t *testing.T) {
	c := NewController(ident)
	f := c.Start(search(""))
	c.Apply(ok(f, items("a", 2), 5))
	more, _ := c.LoadMore()
	r, _ := c.Refresh()

	assert.False(t, c.Apply(ok(more, items("late", 2), 5)))
	c.Apply(ok(r, items("r", 2), 5))
	assert.Equal(t, items("r", 2), c.State().Items)
}

func TestRefreshBeforeSearchDoesNothing(t *testing.T) {
	c := NewController(ident)
	_, issued := c.Refresh()
	assert.False(t, issued)
}

func TestSeedCarriedToLaterPages(t *testing.T) {
	c := NewController(ident)
	f := c.Start(search(""))
	assert.Empty(t, f.Seed)

	resp := ok(f, items("a", 2), 5)
	resp.Page.Seed = "XyZ123"
	c.Apply(resp)

	more, _ := c.LoadMore()
	assert.Equal(t, "XyZ123", more.Seed)

	r, _ := c.Refresh()
	assert.Empty(t, r.Seed, "a refresh asks for a new random order")
}

func TestStateSnapshotIsIsolated(t *testing.T) {
	c := NewController(ident)
	f := c.Start(search(""))
	c.Apply(ok(f, items("a", 2), 5))

	st := c.State()
	st.Items[0] = "mutated"
	assert.Equal(t, "a0", c.State().Items[0])
}

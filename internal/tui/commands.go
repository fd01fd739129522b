package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/wallr/internal/catalog"
	"github.com/pders01/wallr/internal/debuglog"
	"github.com/pders01/wallr/internal/favorites"
	"github.com/pders01/wallr/internal/paging"
	"github.com/pders01/wallr/internal/query"
	"github.com/pders01/wallr/internal/storage"
)

// startSearch resets the result list for s and requests its first page.
func (a *App) startSearch(s query.Search) tea.Cmd {
	a.lastSearch = s
	f := a.results.Start(s)
	a.resultList.ResetSelected()
	a.syncResults()
	return tea.Batch(a.startLoading(MsgSearching), a.fetchPage(f))
}

func (a *App) refreshResults() tea.Cmd {
	f, ok := a.results.Refresh()
	if !ok {
		return nil
	}
	a.syncResults()
	return tea.Batch(a.startLoading(MsgRefreshing), a.fetchPage(f))
}

func (a *App) retryResults() tea.Cmd {
	f, ok := a.results.Retry()
	if !ok {
		return nil
	}
	a.err = nil
	a.syncResults()
	return tea.Batch(a.startLoading(MsgSearching), a.fetchPage(f))
}

// maybeLoadMore requests the next page once the cursor nears the end.
func (a *App) maybeLoadMore() tea.Cmd {
	st := a.results.State()
	if st.Phase != paging.LoadedOK || !st.HasMore || st.Refreshing {
		return nil
	}
	if a.resultList.Index() < len(st.Items)-loadMoreThreshold {
		return nil
	}
	f, ok := a.results.LoadMore()
	if !ok {
		return nil
	}
	a.syncResults()
	return tea.Batch(a.startLoading(MsgLoadingMore), a.fetchPage(f))
}

func (a *App) fetchPage(f paging.Fetch) tea.Cmd {
	return func() tea.Msg {
		page, err := a.fetch(a.ctx, f.Search, f.Page, f.Seed)
		return pageLoadedMsg{resp: paging.Response[catalog.Wallpaper]{Fetch: f, Page: page, Err: err}}
	}
}

func (a *App) loadDetail(id string) tea.Cmd {
	return func() tea.Msg {
		w, err := a.source.Wallpaper(a.ctx, id)
		return detailLoadedMsg{id: id, wallpaper: w, err: err}
	}
}

func (a *App) renderDetail(w catalog.Wallpaper) tea.Cmd {
	fav := a.isFavorite(storage.Key{SourceID: w.ID, Source: storage.SourceWallhaven})
	return func() tea.Msg {
		md := wallpaperMarkdown(w, fav)

		r, err := a.getRenderer()
		if err != nil {
			return detailRenderedMsg{id: w.ID, content: md}
		}
		rendered, err := r.Render(md)
		if err != nil {
			return detailRenderedMsg{id: w.ID, content: md}
		}
		return detailRenderedMsg{id: w.ID, content: rendered}
	}
}

// wallpaperMarkdown describes a wallpaper for the detail view.
func wallpaperMarkdown(w catalog.Wallpaper, favorite bool) string {
	var b strings.Builder

	title := "wallhaven-" + w.ID
	if favorite {
		title = "★ " + title
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	facts := []string{}
	if w.Resolution != "" {
		facts = append(facts, "**"+w.Resolution+"**")
	}
	facts = append(facts, nonEmpty([]string{w.Ratio, w.Category, w.Purity, w.FileType})...)
	if w.FileSize > 0 {
		facts = append(facts, w.SizeLabel())
	}
	b.WriteString(strings.Join(facts, " · ") + "\n\n")

	if created := w.Created(); !created.IsZero() {
		fmt.Fprintf(&b, "Uploaded %s", created.Format("Jan 2, 2006"))
		if w.Uploader != nil && w.Uploader.Username != "" {
			fmt.Fprintf(&b, " by **%s**", w.Uploader.Username)
		}
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "%d views · %d favorites\n\n", w.Views, w.Favorites)

	if len(w.Colors) > 0 {
		b.WriteString("## Colors\n\n")
		for _, c := range w.Colors {
			fmt.Fprintf(&b, "`%s` ", c)
		}
		b.WriteString("\n\n")
	}

	if names := w.TagNames(); len(names) > 0 {
		b.WriteString("## Tags\n\n")
		for i := range names {
			if i < maxNumberedTags {
				names[i] = fmt.Sprintf("`%d` %s", i+1, names[i])
			}
		}
		b.WriteString(strings.Join(names, " · "))
		b.WriteString("\n\n")
	}

	b.WriteString("## Links\n\n")
	for _, link := range []struct{ label, url string }{
		{"Page", w.URL},
		{"Image", w.Path},
		{"Source", w.Source},
	} {
		if link.url != "" {
			fmt.Fprintf(&b, "- %s: %s\n", link.label, link.url)
		}
	}
	return b.String()
}

func (a *App) toggleFavorite(key storage.Key, meta favorites.Metadata) tea.Cmd {
	if a.favs == nil {
		return nil
	}
	return func() tea.Msg {
		var outcome favorites.Outcome
		err := retryOperation(a.ctx, func() error {
			var err error
			outcome, err = a.favs.Toggle(a.ctx, key, meta)
			return err
		})
		if err != nil {
			return favoriteToggledMsg{key: key, err: wrapErr("toggling favorite", err)}
		}
		return favoriteToggledMsg{key: key, outcome: outcome}
	}
}

// waitForFavorites turns the next favorites change into a message.
func (a *App) waitForFavorites() tea.Cmd {
	if a.favs == nil {
		return nil
	}
	changed := a.favs.Changed()
	return func() tea.Msg {
		select {
		case <-changed:
			return favoritesChangedMsg{}
		case <-a.ctx.Done():
			return nil
		}
	}
}

// scheduleSuggest debounces suggestion lookups while the user types.
func (a *App) scheduleSuggest() tea.Cmd {
	a.suggestSeq++
	seq := a.suggestSeq
	return tea.Tick(a.suggestDebounce, func(time.Time) tea.Msg { return suggestTickMsg{seq: seq} })
}

func (a *App) suggest(seq int, text string) tea.Cmd {
	text = sanitizeQuery(text)
	if a.suggester == nil || len([]rune(text)) < 2 || strings.HasPrefix(text, "@") ||
		strings.HasPrefix(text, "id:") || strings.HasPrefix(text, "like:") {
		a.suggestions = nil
		a.suggestIndex = -1
		return nil
	}
	return func() tea.Msg {
		results, err := a.suggester.Suggest(a.ctx, text, suggestionLimit)
		return suggestionsMsg{seq: seq, results: results, err: err}
	}
}

func (a *App) loadLocal() tea.Cmd {
	lister := a.lister
	return func() tea.Msg {
		items, err := lister.List()
		if err != nil {
			return localLoadedMsg{err: wrapErr("listing local wallpapers", err)}
		}
		return localLoadedMsg{items: items}
	}
}

func (a *App) openTarget(target string) tea.Cmd {
	if a.launcher == nil {
		return nil
	}
	return func() tea.Msg {
		if target == "" {
			return errorMsg{err: errors.New(MsgNothingToOpen)}
		}
		if err := a.launcher.Open(target); err != nil {
			return errorMsg{err: fmt.Errorf("failed to open %s: %w", target, err)}
		}
		return openedMsg{viewer: a.launcher.Viewer(), target: target}
	}
}

// retryOperation retries a store operation up to 3 times with exponential
// backoff, stopping early when ctx is done.
func retryOperation(ctx context.Context, operation func() error) error {
	const maxRetries = 3
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if lastErr = operation(); lastErr == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}
		debuglog.Debugf("tui: retrying after %v", lastErr)
		select {
		case <-time.After(baseDelay * time.Duration(1<<i)):
		case <-ctx.Done():
			return lastErr
		}
	}
	return lastErr
}

package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/wallr/internal/catalog"
	"github.com/pders01/wallr/internal/config"
	"github.com/pders01/wallr/internal/favorites"
	"github.com/pders01/wallr/internal/query"
	"github.com/pders01/wallr/internal/search"
	"github.com/pders01/wallr/internal/storage"
)

type KeyHandler struct {
	app  *App
	keys config.KeyBindings
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, keys: cfg.Keys.Bindings}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg.String()); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	a := kh.app
	switch a.view {
	case ViewSearch:
		return a.searchInput.Focused()
	case ViewFilters:
		return a.filters.editing
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	if a.view == ViewFilters {
		return kh.handleFilterInput(msg)
	}

	switch msg.String() {
	case "esc":
		return kh.navigateBack()
	case "ctrl+c":
		return a, tea.Quit
	case "enter":
		return kh.submitSearch()
	case "tab":
		if s, ok := kh.currentSuggestion(); ok {
			a.searchInput.SetValue(s.Tag.Name)
			a.searchInput.CursorEnd()
			a.suggestions = nil
			a.suggestIndex = -1
		}
		return a, nil
	case "down", "ctrl+n":
		if len(a.suggestions) > 0 {
			a.suggestIndex = min(a.suggestIndex+1, len(a.suggestions)-1)
		}
		return a, nil
	case "up", "ctrl+p":
		if a.suggestIndex >= 0 {
			a.suggestIndex--
		}
		return a, nil
	default:
		prev := a.searchInput.Value()
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		if a.searchInput.Value() != prev {
			return a, tea.Batch(cmd, a.scheduleSuggest())
		}
		return a, cmd
	}
}

// currentSuggestion is the highlighted suggestion, or the top one when none
// is highlighted.
func (kh *KeyHandler) currentSuggestion() (search.Result, bool) {
	a := kh.app
	if len(a.suggestions) == 0 {
		return search.Result{}, false
	}
	return a.suggestions[max(a.suggestIndex, 0)], true
}

// submitSearch runs the typed text, or an exact tag search when a
// suggestion is highlighted.
func (kh *KeyHandler) submitSearch() (tea.Model, tea.Cmd) {
	a := kh.app
	text := sanitizeQuery(a.searchInput.Value())
	if a.suggestIndex >= 0 && a.suggestIndex < len(a.suggestions) {
		text = tagIDQuery(a.suggestions[a.suggestIndex].Tag.ID)
	}

	a.view = ViewResults
	a.searchInput.Blur()
	a.suggestions = nil
	a.suggestIndex = -1
	a.err = nil
	return a, a.startSearch(query.New(text, a.lastSearch.Filters))
}

func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app

	switch key {
	case "ctrl+c", kh.keys.Quit:
		return a, tea.Quit, true
	case "esc", kh.keys.Back:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.keys.Search:
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.keys.Favorites:
		a.previousView = a.view
		a.view = ViewFavorites
		a.syncFavorites()
		a.setStatus(MsgResultsCount(a.favoriteCount()), StatusInfo)
		return a, nil, true
	case kh.keys.Local:
		return a, kh.enterLocal(), true
	case kh.keys.Filters:
		kh.enterFilters()
		return a, nil, true
	case kh.keys.Help:
		a.showHelp = !a.showHelp
		return a, nil, true
	}

	switch a.view {
	case ViewResults:
		return kh.handleResultsKeys(key)
	case ViewFavorites:
		return kh.handleFavoritesKeys(key)
	case ViewLocal:
		return kh.handleLocalKeys(key)
	case ViewDetail:
		return kh.handleDetailKeys(key)
	case ViewFilters:
		return kh.handleFilterKeys(key)
	default:
		return a, nil, false
	}
}

func (kh *KeyHandler) handleResultsKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	item, selected := a.resultList.SelectedItem().(wallpaperItem)

	switch key {
	case kh.keys.Refresh:
		return a, a.refreshResults(), true
	case kh.keys.Retry:
		return a, a.retryResults(), true
	case kh.keys.Favorite:
		if selected {
			return a, a.toggleFavorite(item.key(), wallpaperMetadata(item.wallpaper)), true
		}
		return a, nil, true
	case kh.keys.Open:
		if selected {
			return a, a.openTarget(imageTarget(item.wallpaper)), true
		}
		return a, nil, true
	case "enter":
		if selected {
			return a, kh.openDetail(item.wallpaper), true
		}
		return a, nil, true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleFavoritesKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	item, selected := a.favoriteList.SelectedItem().(favoriteItem)
	if !selected {
		return a, nil, false
	}
	fav := item.favorite

	switch key {
	case kh.keys.Favorite:
		return a, a.toggleFavorite(fav.Key(), favorites.Metadata{
			ThumbURL:   fav.ThumbURL,
			MainImgURL: fav.MainImgURL,
			Ratio:      fav.Ratio,
		}), true
	case kh.keys.Open:
		return a, a.openTarget(fav.MainImgURL), true
	case "enter":
		if fav.Source == storage.SourceLocal {
			return a, a.openTarget(fav.MainImgURL), true
		}
		return a, kh.openDetail(catalog.Wallpaper{
			ID:    fav.SourceID,
			Path:  fav.MainImgURL,
			Ratio: fav.Ratio,
			Thumbs: catalog.Thumbs{
				Small: fav.ThumbURL,
			},
		}), true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleLocalKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	if key == kh.keys.Refresh {
		return a, kh.enterLocal(), true
	}

	item, selected := a.localList.SelectedItem().(localItem)
	if !selected {
		return a, nil, false
	}

	switch key {
	case kh.keys.Favorite:
		return a, a.toggleFavorite(item.key(), favorites.Metadata{
			ThumbURL:   item.wallpaper.Path,
			MainImgURL: item.wallpaper.Path,
		}), true
	case kh.keys.Open, "enter":
		return a, a.openTarget(item.wallpaper.Path), true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleDetailKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	if a.detail == nil {
		return a, nil, false
	}
	w := *a.detail

	switch key {
	case kh.keys.Favorite:
		key := storage.Key{SourceID: w.ID, Source: storage.SourceWallhaven}
		return a, a.toggleFavorite(key, wallpaperMetadata(w)), true
	case kh.keys.Open:
		return a, a.openTarget(imageTarget(w)), true
	case kh.keys.Uploader:
		if w.Uploader == nil || w.Uploader.Username == "" {
			a.setStatus(MsgNoUploader, StatusWarn)
			return a, nil, true
		}
		return a, kh.searchFor("@" + w.Uploader.Username), true
	case kh.keys.Similar:
		return a, kh.searchFor("like:" + w.ID), true
	}

	// 1-9 search the numbered tags
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= min(len(w.Tags), maxNumberedTags) {
		tag := w.Tags[n-1]
		if tag.ID > 0 {
			return a, kh.searchFor(tagIDQuery(tag.ID)), true
		}
		return a, kh.searchFor(tag.Name), true
	}
	return a, nil, false
}

// searchFor runs text with the current filters.
func (kh *KeyHandler) searchFor(text string) tea.Cmd {
	return kh.runSearch(query.New(text, kh.app.lastSearch.Filters))
}

// runSearch leaves the current view for the results of s.
func (kh *KeyHandler) runSearch(s query.Search) tea.Cmd {
	a := kh.app
	a.view = ViewResults
	a.detail = nil
	a.loadingDetail = false
	a.stopLoading()
	a.err = nil
	return a.startSearch(s)
}

func (kh *KeyHandler) enterFilters() {
	a := kh.app
	if a.view == ViewFilters {
		return
	}
	a.previousView = a.view
	a.view = ViewFilters
	a.filters = newFilterEditor(a.lastSearch.Filters)
	a.filters.input.Width = a.searchInput.Width
	a.filters.input.Cursor.SetMode(a.searchInput.Cursor.Mode())
}

func (kh *KeyHandler) handleFilterKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	e := &a.filters

	switch key {
	case "up", "shift+tab":
		e.move(-1)
	case "down", "tab":
		e.move(1)
	case "left":
		e.shift(-1)
	case "right":
		e.shift(1)
	case " ":
		e.toggle()
	case "x":
		e.reset()
	case "enter":
		if e.field.isText() {
			return a, e.beginEdit(), true
		}
		return a, kh.runSearch(query.New(a.lastSearch.Text, e.draft)), true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (kh *KeyHandler) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	e := &a.filters

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		e.cancelEdit()
		return a, nil
	case "enter":
		if !e.commitEdit() {
			a.setStatus(MsgFilterIgnored, StatusWarn)
		}
		return a, nil
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return a, cmd
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	var cmd tea.Cmd

	switch a.view {
	case ViewResults:
		a.resultList, cmd = a.resultList.Update(msg)
		return a, tea.Batch(cmd, a.maybeLoadMore())
	case ViewFavorites:
		a.favoriteList, cmd = a.favoriteList.Update(msg)
		return a, cmd
	case ViewLocal:
		a.localList, cmd = a.localList.Update(msg)
		return a, cmd
	case ViewDetail:
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	case ViewFilters:
		return a, nil
	case ViewSearch:
		// input blurred: any key refocuses it
		return a, a.searchInput.Focus()
	default:
		return a, nil
	}
}

func (kh *KeyHandler) openDetail(w catalog.Wallpaper) tea.Cmd {
	a := kh.app
	a.previousView = a.view
	a.view = ViewDetail
	a.detail = &w
	a.loadingDetail = true
	a.viewport.SetContent("")
	return tea.Batch(a.startLoading(MsgLoadingDetail), a.loadDetail(w.ID))
}

func (kh *KeyHandler) enterLocal() tea.Cmd {
	a := kh.app
	if a.lister == nil {
		a.setStatus(MsgLocalDisabled, StatusWarn)
		return nil
	}
	if a.view != ViewLocal {
		a.previousView = a.view
	}
	a.view = ViewLocal
	return tea.Batch(a.startLoading(MsgLoadingLocal), a.loadLocal())
}

// navigateBack implements smart back navigation
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app

	switch a.view {
	case ViewSearch:
		a.view = a.previousView
		a.searchInput.Blur()
		a.suggestions = nil
		a.suggestIndex = -1
		return a, nil

	case ViewDetail:
		a.view = a.previousView
		a.detail = nil
		a.loadingDetail = false
		a.stopLoading()
		return a, nil

	case ViewFilters:
		a.view = a.previousView
		return a, nil

	case ViewFavorites, ViewLocal:
		a.view = ViewResults
		return a, nil

	default:
		return a, tea.Quit
	}
}

func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	a := kh.app
	if a.view != ViewSearch {
		a.previousView = a.view
	}
	a.view = ViewSearch
	a.searchInput.SetValue(a.lastSearch.Text)
	a.searchInput.CursorEnd()
	a.suggestions = nil
	a.suggestIndex = -1
	return a, tea.Batch(a.searchInput.Focus(), a.scheduleSuggest())
}

// GetHelpForCurrentView returns only our custom help text (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	k := kh.keys
	global := []string{k.Search + ": search", k.Filters + ": filters", k.Favorites + ": favorites", k.Local + ": local", k.Quit + ": quit"}

	switch kh.app.view {
	case ViewResults:
		return append([]string{"enter: details", k.Favorite + ": favorite", k.Open + ": open", k.Refresh + ": refresh", k.Retry + ": retry"}, global...)
	case ViewFavorites:
		return append([]string{"enter: details", k.Favorite + ": remove", k.Open + ": open", k.Back + ": back"}, global...)
	case ViewLocal:
		return append([]string{k.Favorite + ": favorite", k.Open + ": open", k.Refresh + ": rescan", k.Back + ": back"}, global...)
	case ViewDetail:
		return []string{k.Favorite + ": favorite", k.Open + ": open", "1-9: tag", k.Uploader + ": uploader", k.Similar + ": similar", k.Back + ": back"}
	case ViewFilters:
		return []string{"enter: apply", k.Back + ": cancel"}
	case ViewSearch:
		return []string{"enter: search", "tab: complete", "esc: cancel"}
	default:
		return nil
	}
}

func wallpaperMetadata(w catalog.Wallpaper) favorites.Metadata {
	return favorites.Metadata{
		ThumbURL:   w.Thumbs.Small,
		MainImgURL: imageTarget(w),
		Ratio:      w.Ratio,
	}
}

// imageTarget prefers the full image over the wallpaper page.
func imageTarget(w catalog.Wallpaper) string {
	if w.Path != "" {
		return w.Path
	}
	return w.URL
}

func tagIDQuery(id int64) string {
	return "id:" + strconv.FormatInt(id, 10)
}

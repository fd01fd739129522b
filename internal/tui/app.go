package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/wallr/internal/catalog"
	"github.com/pders01/wallr/internal/config"
	"github.com/pders01/wallr/internal/debuglog"
	"github.com/pders01/wallr/internal/favorites"
	"github.com/pders01/wallr/internal/local"
	"github.com/pders01/wallr/internal/paging"
	"github.com/pders01/wallr/internal/query"
	"github.com/pders01/wallr/internal/search"
	"github.com/pders01/wallr/internal/storage"
)

// loadMoreThreshold is how close to the end of the results the cursor has
// to be before the next page is requested.
const loadMoreThreshold = 3

const suggestionLimit = 5

// maxNumberedTags is how many detail tags get a number key.
const maxNumberedTags = 9

// Opener opens a wallpaper URL or path outside the terminal.
type Opener interface {
	Open(target string) error
	Viewer() string
}

// TagSuggester completes partially typed tags.
type TagSuggester interface {
	Suggest(ctx context.Context, prefix string, limit int) ([]search.Result, error)
}

// Deps are the collaborators the browser needs. Suggester, Launcher and
// Local may be nil; the matching features are then unavailable.
type Deps struct {
	Catalog   catalog.Source
	Favorites *favorites.Synchronizer
	Suggester TagSuggester
	Launcher  Opener
	Local     *local.Lister
	// Initial is the search run on startup.
	Initial *query.Search
}

type App struct {
	ctx        context.Context
	config     *config.Config
	source     catalog.Source
	fetch      paging.FetchFunc[catalog.Wallpaper]
	favs       *favorites.Synchronizer
	suggester  TagSuggester
	launcher   Opener
	lister     *local.Lister
	keyHandler *KeyHandler

	results     *paging.Controller[catalog.Wallpaper]
	lastSearch  query.Search

	resultList   list.Model
	favoriteList list.Model
	localList    list.Model
	searchInput  textinput.Model
	viewport     viewport.Model
	spinner      spinner.Model

	view         View
	previousView View

	suggestions     []search.Result
	suggestIndex    int
	suggestSeq      int
	suggestDebounce time.Duration

	detail        *catalog.Wallpaper
	loadingDetail bool

	filters filterEditor

	localItems []local.Wallpaper

	status     string
	statusKind StatusKind
	loading    bool
	showHelp   bool
	err        error

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(ctx context.Context, cfg *config.Config, deps Deps) *App {
	applyTheme(cfg.UI.Colors)

	initial := query.New("", cfg.Search.Filters())
	if deps.Initial != nil {
		initial = *deps.Initial
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	si := textinput.New()
	si.Placeholder = "tags, id:123, like:abc123, @user…"
	si.CharLimit = 256

	app := &App{
		ctx:             ctx,
		config:          cfg,
		source:          deps.Catalog,
		fetch:           catalog.PageFunc(deps.Catalog),
		favs:            deps.Favorites,
		suggester:       deps.Suggester,
		launcher:        deps.Launcher,
		lister:          deps.Local,
		results:         paging.NewController(catalog.WallpaperKey),
		lastSearch:      initial,
		resultList:      newList("› wallpapers"),
		favoriteList:    newList("› favorites"),
		localList:       newList("› local"),
		searchInput:     si,
		viewport:        viewport.New(0, 0),
		spinner:         sp,
		view:            ViewResults,
		previousView:    ViewResults,
		suggestIndex:    -1,
		suggestDebounce: 150 * time.Millisecond,
		filters:         newFilterEditor(initial.Filters),
	}
	if deps.Local != nil {
		app.localList.Title = "› local · " + truncateMiddle(deps.Local.Dir(), 60)
	}
	app.keyHandler = NewKeyHandler(app, cfg)
	return app
}

func newList(title string) list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := min(max((a.width*9)/10, 40), 120)
	if a.width > 0 && a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		a.startSearch(a.lastSearch),
		a.waitForFavorites(),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		if a.view == ViewDetail && a.detail != nil && !a.loadingDetail {
			cmds = append(cmds, a.renderDetail(*a.detail))
		}

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case pageLoadedMsg:
		if a.results.Apply(msg.resp) {
			a.syncResults()
		}

	case detailLoadedMsg:
		if a.view != ViewDetail || a.detail == nil || a.detail.ID != msg.id {
			return a, nil
		}
		if msg.err != nil {
			// keep the list copy on screen
			a.setStatus(wrapErr("loading details", msg.err).Error(), StatusWarn)
		} else {
			a.detail = msg.wallpaper
		}
		cmds = append(cmds, a.renderDetail(*a.detail))

	case detailRenderedMsg:
		if a.view == ViewDetail && a.detail != nil && a.detail.ID == msg.id {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingDetail = false
			a.stopLoading()
		}

	case favoriteToggledMsg:
		if msg.err != nil {
			a.err = msg.err
			break
		}
		a.err = nil
		if msg.outcome == favorites.Removed {
			a.setStatus(MsgFavoriteRemoved, StatusSuccess)
		} else {
			a.setStatus(MsgFavoriteAdded, StatusSuccess)
		}

	case favoritesChangedMsg:
		a.syncFavorites()
		a.syncResultMarks()
		a.syncLocal()
		if a.view == ViewDetail && a.detail != nil && !a.loadingDetail {
			cmds = append(cmds, a.renderDetail(*a.detail))
		}
		cmds = append(cmds, a.waitForFavorites())

	case suggestTickMsg:
		if msg.seq == a.suggestSeq {
			cmds = append(cmds, a.suggest(msg.seq, a.searchInput.Value()))
		}

	case suggestionsMsg:
		if msg.seq != a.suggestSeq {
			return a, nil
		}
		if msg.err != nil {
			debuglog.Warnf("tui: suggestions failed: %v", msg.err)
			a.suggestions = nil
		} else {
			a.suggestions = msg.results
		}
		a.suggestIndex = -1

	case localLoadedMsg:
		a.stopLoading()
		if msg.err != nil {
			a.err = msg.err
			break
		}
		a.localItems = msg.items
		a.syncLocal()
		if len(msg.items) == 0 {
			a.setStatus(MsgNoLocal, StatusInfo)
		} else {
			a.setStatus(MsgResultsCount(len(msg.items)), StatusInfo)
		}

	case openedMsg:
		a.setStatus(MsgOpened(msg.viewer, msg.target), StatusSuccess)

	case errorMsg:
		a.stopLoading()
		a.err = msg.err
	}

	if a.view == ViewDetail {
		switch msg.(type) {
		case tea.MouseMsg:
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	listHeight := max(height-3, 1)
	a.resultList.SetSize(width, listHeight)
	a.favoriteList.SetSize(width, listHeight)
	a.localList.SetSize(width, listHeight)
	a.viewport.Width = width
	a.viewport.Height = listHeight

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = max(width-4, 1)
	}
	a.searchInput.Width = inputWidth
	a.filters.input.Width = inputWidth
}

// syncResults copies the paging state into the result list and status bar.
func (a *App) syncResults() {
	st := a.results.State()

	items := make([]list.Item, len(st.Items))
	for i, w := range st.Items {
		items[i] = a.newWallpaperItem(w)
	}
	a.resultList.SetItems(items)
	a.resultList.Title = "› " + query.Describe(st.Search)
	if st.Query != "" {
		a.resultList.Title += " · " + st.Query
	}

	switch st.Phase {
	case paging.Loading:
		a.setStatus(MsgSearching, StatusInfo)
	case paging.LoadingMore:
		a.setStatus(MsgLoadingMore, StatusInfo)
	case paging.Error:
		a.stopLoading()
		a.err = st.Err
		if catalog.IsRetryable(st.Err) {
			a.err = fmt.Errorf("%w (%s)", st.Err, MsgRetryHint)
		}
	case paging.LoadedOK:
		a.err = nil
		if st.Refreshing {
			a.setStatus(MsgRefreshing, StatusInfo)
			return
		}
		a.stopLoading()
		if len(st.Items) == 0 {
			a.setStatus(MsgNoResults, StatusInfo)
		} else {
			a.setStatus(MsgPageSummary(len(st.Items), st.Page, st.HasMore), StatusInfo)
		}
	}
}

// syncResultMarks refreshes favorite marks without touching paging state.
func (a *App) syncResultMarks() {
	items := a.resultList.Items()
	for i, it := range items {
		if w, ok := it.(wallpaperItem); ok {
			items[i] = a.newWallpaperItem(w.wallpaper)
		}
	}
	a.resultList.SetItems(items)
}

func (a *App) syncFavorites() {
	if a.favs == nil {
		return
	}
	favs := a.favs.Favorites()
	items := make([]list.Item, len(favs))
	for i, f := range favs {
		items[i] = favoriteItem{favorite: f}
	}
	a.favoriteList.SetItems(items)
}

func (a *App) syncLocal() {
	items := make([]list.Item, len(a.localItems))
	for i, w := range a.localItems {
		items[i] = localItem{
			wallpaper: w,
			favorite:  a.isFavorite(storage.Key{SourceID: w.ID, Source: storage.SourceLocal}),
		}
	}
	a.localList.SetItems(items)
}

func (a *App) newWallpaperItem(w catalog.Wallpaper) wallpaperItem {
	return wallpaperItem{
		wallpaper: w,
		favorite:  a.isFavorite(storage.Key{SourceID: w.ID, Source: storage.SourceWallhaven}),
	}
}

func (a *App) favoriteCount() int {
	if a.favs == nil {
		return 0
	}
	return a.favs.Count()
}

func (a *App) isFavorite(key storage.Key) bool {
	return a.favs != nil && a.favs.IsFavorite(key)
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) startLoading(text string) tea.Cmd {
	a.setStatus(text, StatusInfo)
	if a.loading {
		return nil
	}
	a.loading = true
	return a.spinner.Tick
}

func (a *App) stopLoading() {
	a.loading = false
}

func (a *App) View() string {
	contentHeight := max(a.height-3, 0)
	var content string

	switch a.view {
	case ViewResults:
		st := a.results.State()
		if st.Items == nil && st.Phase != paging.Error {
			content = placeholder(a.width, contentHeight, GetWelcomeMessage())
		} else {
			content = a.resultList.View()
		}
	case ViewFavorites:
		if len(a.favoriteList.Items()) == 0 {
			content = placeholder(a.width, contentHeight, hint(MsgNoFavorites))
		} else {
			content = a.favoriteList.View()
		}
	case ViewLocal:
		if len(a.localList.Items()) == 0 && !a.loading {
			content = placeholder(a.width, contentHeight, hint(MsgNoLocal))
		} else {
			content = a.localList.View()
		}
	case ViewDetail:
		if a.loadingDetail {
			content = placeholder(a.width, contentHeight, muted(MsgLoadingDetail))
		} else {
			content = a.viewport.View()
		}
	case ViewSearch:
		content = a.searchView(contentHeight)
	case ViewFilters:
		content = ContentWrapper(a.width, contentHeight).Render(a.filters.view(a.width))
	}

	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width-1, 0)))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, a.statusBar())
}

func (a *App) searchView(height int) string {
	rows := []string{
		panelTitle("› search", query.Describe(a.lastSearch), a.width),
		"",
		queryBox(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
	}
	rows = append(rows, suggestionRows(a.suggestions, a.suggestIndex)...)
	rows = append(rows, "", hint("enter: search • tab: complete • ↑↓: pick tag • esc: back"))

	return ContentWrapper(a.width, height).Render(lipgloss.JoinVertical(lipgloss.Top, rows...))
}

func (a *App) statusBar() string {
	bar := StatusBarStyle.Width(a.width)
	if a.err != nil {
		return bar.Render(errorLine(a.err))
	}

	left := ""
	if a.loading {
		left = a.spinner.View() + " "
	}
	if a.status != "" {
		left += statusStyle(a.statusKind).Render(a.status)
	}

	right := keyHints(a.keyHandler.GetHelpForCurrentView(), a.showHelp)
	if left == "" {
		return bar.Render(right)
	}
	return bar.Render(left + muted("  │  ") + right)
}

// ContentWrapper returns a style for wrapping content with width and height constraints
func ContentWrapper(width, height int) lipgloss.Style {
	return EmptyStyle.Width(width).Height(height).MaxHeight(height)
}

type pageLoadedMsg struct {
	resp paging.Response[catalog.Wallpaper]
}

type detailLoadedMsg struct {
	id        string
	wallpaper *catalog.Wallpaper
	err       error
}

type detailRenderedMsg struct {
	id      string
	content string
}

type favoriteToggledMsg struct {
	key     storage.Key
	outcome favorites.Outcome
	err     error
}

type favoritesChangedMsg struct{}

type suggestTickMsg struct {
	seq int
}

type suggestionsMsg struct {
	seq     int
	results []search.Result
	err     error
}

type localLoadedMsg struct {
	items []local.Wallpaper
	err   error
}

type openedMsg struct {
	viewer string
	target string
}

type errorMsg struct {
	err error
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/pders01/wallr/internal/catalog"
	"github.com/pders01/wallr/internal/filter"
	"github.com/pders01/wallr/internal/paging"
	"github.com/pders01/wallr/internal/query"
	"github.com/pders01/wallr/internal/tui"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type searchOptions struct {
	categories  []string
	purity      []string
	sorting     string
	order       string
	topRange    string
	atLeast     string
	resolutions []string
	ratios      []string
	color       string
	exclude     []string
	pages       int
	preset      string
	savePreset  string
	asJSON      bool
}

var searchOpts searchOptions

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search the catalog and print the results",
	Long: `Search the catalog and print the results.

The text is one tag unless it starts with id:, like: or @, which search
by exact tag id, by similar wallpaper and by uploader.`,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringSliceVar(&searchOpts.categories, "category", nil, "Categories: general, anime, people")
	f.StringSliceVar(&searchOpts.purity, "purity", nil, "Purity: sfw, sketchy, nsfw")
	f.StringVar(&searchOpts.sorting, "sort", "", "Sorting: date_added, relevance, random, views, favorites, toplist")
	f.StringVar(&searchOpts.order, "order", "", "Order: desc or asc")
	f.StringVar(&searchOpts.topRange, "top-range", "", "Toplist window: 1d, 3d, 1w, 1M, 3M, 6M, 1y")
	f.StringVar(&searchOpts.atLeast, "at-least", "", "Minimum resolution, e.g. 2560x1440")
	f.StringSliceVar(&searchOpts.resolutions, "resolution", nil, "Exact resolutions, e.g. 1920x1080")
	f.StringSliceVar(&searchOpts.ratios, "ratio", nil, "Aspect ratios, e.g. 16x9 or landscape")
	f.StringVar(&searchOpts.color, "color", "", "Dominant color as hex, e.g. #660000")
	f.StringSliceVar(&searchOpts.exclude, "exclude", nil, "Tags to exclude")
	f.IntVar(&searchOpts.pages, "pages", 1, "Number of pages to fetch")
	f.StringVar(&searchOpts.preset, "preset", "", "Load filters and text from a preset file")
	f.StringVar(&searchOpts.savePreset, "save-preset", "", "Save the search to a preset file")
	f.BoolVar(&searchOpts.asJSON, "json", false, "Print one JSON object per wallpaper")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchOpts.pages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	ctx := cmd.Context()
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	base := query.New("", e.cfg.Search.Filters())
	if searchOpts.preset != "" {
		if base, err = query.LoadPreset(searchOpts.preset); err != nil {
			return err
		}
	}

	s, err := buildSearch(cmd, strings.Join(args, " "), base)
	if err != nil {
		return err
	}
	if searchOpts.savePreset != "" {
		if err := query.SavePreset(searchOpts.savePreset, s); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved preset to %s\n", searchOpts.savePreset)
	}

	st, err := collectPages(ctx, catalog.PageFunc(e.client), s, searchOpts.pages)
	if printErr := printWallpapers(cmd.OutOrStdout(), st.Items, searchOpts.asJSON); printErr != nil {
		return printErr
	}
	if err != nil {
		return err
	}
	if !searchOpts.asJSON {
		fmt.Fprintln(cmd.ErrOrStderr(), tui.MsgPageSummary(len(st.Items), st.Page, st.HasMore))
	}
	return nil
}

// buildSearch layers the flags the user set over base. Text replaces the
// base text only when given.
func buildSearch(cmd *cobra.Command, text string, base query.Search) (query.Search, error) {
	flags := cmd.Flags()
	f := base.Filters.Clone()

	if flags.Changed("category") {
		if f.Categories = filter.ParseCategories(searchOpts.categories); len(f.Categories) == 0 {
			return query.Search{}, fmt.Errorf("no valid category in %v", searchOpts.categories)
		}
	}
	if flags.Changed("purity") {
		if f.Purity = filter.ParsePurities(searchOpts.purity); len(f.Purity) == 0 {
			return query.Search{}, fmt.Errorf("no valid purity in %v", searchOpts.purity)
		}
	}
	if flags.Changed("sort") {
		v, ok := filter.ParseSorting(searchOpts.sorting)
		if !ok {
			return query.Search{}, fmt.Errorf("unknown sorting %q", searchOpts.sorting)
		}
		f.Sorting = v
	}
	if flags.Changed("order") {
		v, ok := filter.ParseOrder(searchOpts.order)
		if !ok {
			return query.Search{}, fmt.Errorf("unknown order %q", searchOpts.order)
		}
		f.Order = v
	}
	if flags.Changed("top-range") {
		v, ok := filter.ParseTopRange(searchOpts.topRange)
		if !ok {
			return query.Search{}, fmt.Errorf("unknown top range %q", searchOpts.topRange)
		}
		f.TopRange = v
	}
	if flags.Changed("at-least") {
		v, ok := filter.ParseSize(searchOpts.atLeast)
		if !ok {
			return query.Search{}, fmt.Errorf("invalid size %q", searchOpts.atLeast)
		}
		f.MinSize = &v
	}
	if flags.Changed("resolution") {
		f.Resolutions = filter.ParseResolutions(searchOpts.resolutions)
	}
	if flags.Changed("ratio") {
		f.Ratios = filter.ParseRatios(searchOpts.ratios)
	}
	if flags.Changed("color") {
		v, ok := filter.ParseColor(searchOpts.color)
		if !ok {
			return query.Search{}, fmt.Errorf("invalid color %q", searchOpts.color)
		}
		f.Color = v
	}
	if flags.Changed("exclude") {
		f.ExcludedTags = append(f.ExcludedTags, searchOpts.exclude...)
	}

	if text = strings.TrimSpace(text); text == "" {
		text = base.Text
	}
	return query.New(text, f), nil
}

// collectPages drives a paging session until it holds the requested number
// of pages, runs out of pages or fails. The state is returned in every case
// so partial results can still be shown.
func collectPages(ctx context.Context, fetch paging.FetchFunc[catalog.Wallpaper], s query.Search, pages int) (paging.State[catalog.Wallpaper], error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := paging.NewSession(fetch, catalog.WallpaperKey)
	go session.Run(ctx)

	var st paging.State[catalog.Wallpaper]
	if !session.Search(ctx, s) {
		return st, ctx.Err()
	}

	requested := 1
	for {
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case st = <-session.Updates():
		}

		switch st.Phase {
		case paging.Error:
			return st, st.Err
		case paging.LoadedOK:
			if st.Page >= pages || !st.HasMore {
				return st, nil
			}
			if st.Page == requested {
				requested++
				session.LoadMore(ctx)
			}
		}
	}
}

func printWallpapers(w io.Writer, items []catalog.Wallpaper, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, item := range items {
			if err := enc.Encode(item); err != nil {
				return err
			}
		}
		return nil
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, tui.MsgNoResults)
		return err
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.ID, it.Resolution, it.Ratio, it.Category, it.Purity, it.SizeLabel(), it.Path})
	}
	_, err := fmt.Fprintln(w, newTable("ID", "RESOLUTION", "RATIO", "CATEGORY", "PURITY", "SIZE", "IMAGE").Rows(rows...))
	return err
}

func newTable(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Foreground(tui.PrimaryColor).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.MutedColor)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

package catalog

import (
	"context"

	"github.com/pders01/wallr/internal/paging"
	"github.com/pders01/wallr/internal/query"
)

// PageFunc adapts src to the pagination layer. The seed a previous page
// returned is sent with later pages so random sorting stays stable.
func PageFunc(src Source) paging.FetchFunc[Wallpaper] {
	return func(ctx context.Context, search query.Search, page int, seed string) (paging.Page[Wallpaper], error) {
		params := search.Params()
		if seed != "" {
			params = params.WithSeed(seed)
		}
		p, err := src.Search(ctx, params, page)
		if err != nil {
			return paging.Page[Wallpaper]{}, err
		}
		return paging.Page[Wallpaper]{
			Items:       p.Wallpapers,
			CurrentPage: p.CurrentPage,
			LastPage:    p.LastPage,
			Seed:        p.Seed,
			Query:       DescribeQuery(p.Query),
		}, nil
	}
}

// WallpaperKey identifies wallpapers for de-duplication across pages.
func WallpaperKey(w Wallpaper) string {
	return w.ID
}

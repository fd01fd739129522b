package tui

import (
	"fmt"
	"strings"

	"github.com/pders01/wallr/internal/catalog"
	"github.com/pders01/wallr/internal/local"
	"github.com/pders01/wallr/internal/storage"
)

const favoriteMark = "★ "

type wallpaperItem struct {
	wallpaper catalog.Wallpaper
	favorite  bool
}

func (i wallpaperItem) Title() string {
	title := fmt.Sprintf("%s  %s", i.wallpaper.ID, i.wallpaper.Resolution)
	if i.favorite {
		return FavoriteStyle.Render(favoriteMark + title)
	}
	return title
}

func (i wallpaperItem) Description() string {
	w := i.wallpaper
	parts := []string{w.Category, w.Purity}
	if w.Ratio != "" {
		parts = append(parts, w.Ratio)
	}
	if w.FileSize > 0 {
		parts = append(parts, w.SizeLabel())
	}
	parts = append(parts, fmt.Sprintf("♥ %d", w.Favorites))
	return muted(strings.Join(nonEmpty(parts), " • "))
}

func (i wallpaperItem) FilterValue() string { return i.wallpaper.ID }

func (i wallpaperItem) key() storage.Key {
	return storage.Key{SourceID: i.wallpaper.ID, Source: storage.SourceWallhaven}
}

type favoriteItem struct {
	favorite storage.Favorite
}

func (i favoriteItem) Title() string {
	return FavoriteStyle.Render(favoriteMark + i.favorite.Key().String())
}

func (i favoriteItem) Description() string {
	f := i.favorite
	parts := []string{}
	if f.Ratio != "" {
		parts = append(parts, f.Ratio)
	}
	parts = append(parts, truncateMiddle(f.MainImgURL, 60))
	when := TimeStyle.Render(" • " + f.FavoritedAt().Format("Jan 2 2006, 15:04"))
	return muted(strings.Join(parts, " • ")) + when
}

func (i favoriteItem) FilterValue() string { return i.favorite.SourceID }

type localItem struct {
	wallpaper local.Wallpaper
	favorite  bool
}

func (i localItem) Title() string {
	if i.favorite {
		return FavoriteStyle.Render(favoriteMark + i.wallpaper.Name)
	}
	return i.wallpaper.Name
}

func (i localItem) Description() string {
	w := i.wallpaper
	return muted(fmt.Sprintf("%s • %s", humanBytes(w.Size), truncateMiddle(w.Path, 60))) +
		TimeStyle.Render(" • "+w.ModTime.Format("Jan 2 2006"))
}

func (i localItem) FilterValue() string { return i.wallpaper.Name }

func (i localItem) key() storage.Key {
	return storage.Key{SourceID: i.wallpaper.ID, Source: storage.SourceLocal}
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

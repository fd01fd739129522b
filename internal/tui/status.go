package tui

import (
	"fmt"
)

// Canonical short status messages used across the app.
const (
	MsgSearching       = "Searching…"
	MsgLoadingMore     = "Loading more…"
	MsgRefreshing      = "Refreshing…"
	MsgLoadingDetail   = "Loading wallpaper…"
	MsgLoadingLocal    = "Scanning local wallpapers…"
	MsgNoResults       = "No results"
	MsgNoFavorites     = "No favorites yet"
	MsgNoLocal         = "No local wallpapers"
	MsgEndOfResults    = "End of results"
	MsgNothingToOpen   = "Nothing to open"
	MsgLocalDisabled   = "No local directory configured"
	MsgRetryHint       = "press R to retry"
	MsgFavoriteAdded   = "Added to favorites"
	MsgFavoriteRemoved = "Removed from favorites"
	MsgNoUploader      = "Uploader unknown"
	MsgFilterIgnored   = "Ignored entries that could not be read"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 wallpaper"
	}
	return fmt.Sprintf("%d wallpapers", n)
}

func MsgPageSummary(items, page int, hasMore bool) string {
	base := fmt.Sprintf("%s • page %d", MsgResultsCount(items), page)
	if !hasMore {
		base += " • " + MsgEndOfResults
	}
	return base
}

func MsgOpened(viewer, target string) string {
	if viewer == "" {
		return "Opened " + target
	}
	return fmt.Sprintf("Opened in %s", viewer)
}

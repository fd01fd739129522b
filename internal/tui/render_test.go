package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/wallr/internal/catalog"
	"github.com/pders01/wallr/internal/config"
)

func TestWallpaperMarkdown(t *testing.T) {
	w := catalog.Wallpaper{
		ID:         "abc123",
		URL:        "https://wallhaven.cc/w/abc123",
		Path:       "https://w.wallhaven.cc/full/ab/wallhaven-abc123.png",
		Resolution: "3840x2160",
		Ratio:      "16x9",
		Category:   "general",
		Purity:     "sfw",
		FileSize:   2516582,
		CreatedAt:  "2024-03-05 10:11:12",
		Uploader:   &catalog.Uploader{Username: "alice"},
		Colors:     []string{"#000000"},
		Tags:       []catalog.Tag{{Name: "mountains"}, {Name: "lake"}},
	}

	md := wallpaperMarkdown(w, true)
	assert.True(t, strings.HasPrefix(md, "# ★ wallhaven-abc123"))
	assert.Contains(t, md, "**3840x2160** · 16x9 · general · sfw · 2.4 MiB")
	assert.Contains(t, md, "Uploaded Mar 5, 2024 by **alice**")
	assert.Contains(t, md, "`#000000`")
	assert.Contains(t, md, "`1` mountains · `2` lake")
	assert.Contains(t, md, "- Image: https://w.wallhaven.cc/full/ab/wallhaven-abc123.png")
	assert.NotContains(t, md, "Source:")

	bare := wallpaperMarkdown(catalog.Wallpaper{ID: "x"}, false)
	assert.NotContains(t, bare, "★")
	assert.NotContains(t, bare, "## Tags")
	assert.NotContains(t, bare, "Uploaded")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncateEnd("hello", 5))
	assert.Equal(t, "hel…", truncateEnd("hello", 4))
	assert.Equal(t, "", truncateEnd("hello", 0))
	assert.Equal(t, "ab…yz", truncateMiddle("abcdefghijklmnopqrstuvwxyz", 5))
	assert.Equal(t, "…", truncateMiddle("abc", 1))
}

func TestSanitizeQuery(t *testing.T) {
	assert.Equal(t, "blue sky", sanitizeQuery("  blue\t\n  sky "))
	assert.Len(t, []rune(sanitizeQuery(strings.Repeat("a", 300))), 256)
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512 B", humanBytes(512))
	assert.Equal(t, "1.5 KiB", humanBytes(1536))
	assert.Equal(t, "3.0 MiB", humanBytes(3*1024*1024))
}

func TestBanner(t *testing.T) {
	out := Banner("1.2.3")
	assert.Contains(t, out, "Wallhaven Browser v1.2.3")
	assert.Contains(t, out, "╭")

	assert.NotContains(t, Banner("dev"), "dev")
}

func TestApplyThemeKeepsDefaultsForEmptyEntries(t *testing.T) {
	before := MutedColor
	applyTheme(config.UIColors{Primary: "#123456"})
	t.Cleanup(func() { applyTheme(config.TestConfig().UI.Colors) })

	assert.Equal(t, "#123456", string(PrimaryColor))
	assert.Equal(t, before, MutedColor)
}

func TestStatusMessages(t *testing.T) {
	assert.Equal(t, "1 wallpaper", MsgResultsCount(1))
	assert.Equal(t, "4 wallpapers • page 2", MsgPageSummary(4, 2, true))
	assert.Equal(t, "4 wallpapers • page 2 • End of results", MsgPageSummary(4, 2, false))
}

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/wallr/internal/filter"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}
	want, ok := expected[runtime.GOOS]
	if !ok {
		want = "open"
	}
	assert.Equal(t, want, getDefaultOpener())
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, 1*time.Second, cfg.Database.Timeout)
	assert.Equal(t, "https://wallhaven.cc/api/v1/", cfg.Catalog.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Catalog.HTTPTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Catalog.TagsTTL)
	assert.NotEmpty(t, cfg.Catalog.UserAgent)
	assert.NotEmpty(t, cfg.Media.DefaultOpener)
	assert.Equal(t, "off", cfg.Log.Level)
	assert.Equal(t, "f", cfg.Keys.Bindings.Favorite)
	assert.Equal(t, "q", cfg.Keys.Bindings.Quit)
	assert.Equal(t, "s", cfg.Keys.Bindings.Filters)
	assert.Equal(t, "u", cfg.Keys.Bindings.Uploader)
	assert.Equal(t, "m", cfg.Keys.Bindings.Similar)
}

func TestLoad_DefaultConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, defaultConfig().Catalog, cfg.Catalog)
	assert.True(t, filepath.IsAbs(cfg.Database.Path))
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
path = "~/custom/wallr.db"
timeout = "3s"

[catalog]
base_url = "http://127.0.0.1:9000/api/"
retries = 5

[search]
categories = ["anime"]
purity = ["sfw", "sketchy"]
sorting = "toplist"
top_range = "1w"
at_least = "2560x1440"

[media]
linux = ["feh"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "custom", "wallr.db"), cfg.Database.Path)
	assert.Equal(t, 3*time.Second, cfg.Database.Timeout)
	assert.Equal(t, "http://127.0.0.1:9000/api/", cfg.Catalog.BaseURL)
	assert.Equal(t, 5, cfg.Catalog.Retries)
	assert.Equal(t, 4, cfg.Catalog.MaxConcurrent, "untouched keys keep defaults")
	assert.Equal(t, []string{"feh"}, cfg.Media.Linux)

	f := cfg.Search.Filters()
	assert.Equal(t, []filter.Category{filter.Anime}, f.Categories)
	assert.Equal(t, []filter.Purity{filter.SFW, filter.Sketchy}, f.Purity)
	assert.Equal(t, filter.Toplist, f.Sorting)
	assert.Equal(t, filter.OneWeek, f.TopRange)
	require.NotNil(t, f.MinSize)
	assert.Equal(t, filter.Size{Width: 2560, Height: 1440}, *f.MinSize)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WALLR_LOG_LEVEL", "debug")
	t.Setenv("WALLR_CATALOG_RETRIES", "7")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Catalog.Retries)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[database\npath = "), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSearchFilters_BadValuesFallBack(t *testing.T) {
	f := SearchConfig{
		Categories: []string{"bogus"},
		Sorting:    "sideways",
		AtLeast:    "wide",
	}.Filters()

	def := filter.Default()
	assert.Equal(t, def.Categories, f.Categories)
	assert.Equal(t, def.Sorting, f.Sorting)
	assert.Nil(t, f.MinSize)
}

func TestSaveAndGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, GenerateDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "wallhaven.cc")
	assert.Contains(t, string(data), "1s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig().Catalog.TagsTTL, cfg.Catalog.TagsTTL)
	assert.Equal(t, defaultConfig().Keys, cfg.Keys)
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "", expandPath(""))
	assert.Equal(t, ":memory:", expandPath(":memory:"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x"), expandPath("~/x"))
}

func TestMediaViewers(t *testing.T) {
	m := MediaConfig{Darwin: []string{"a"}, Linux: []string{"b"}, Windows: []string{"c"}}
	switch runtime.GOOS {
	case "darwin":
		assert.Equal(t, []string{"a"}, m.Viewers())
	case "windows":
		assert.Equal(t, []string{"c"}, m.Viewers())
	default:
		assert.Equal(t, []string{"b"}, m.Viewers())
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Empty(t, cfg.Database.TagIndex)
	assert.Equal(t, 0, cfg.Catalog.Retries)
}

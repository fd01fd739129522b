package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/wallr/internal/filter"
	"github.com/pders01/wallr/internal/validation"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Search   SearchConfig   `mapstructure:"search"`
	Local    LocalConfig    `mapstructure:"local"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Log      LogConfig      `mapstructure:"log"`
	Keys     KeyConfig      `mapstructure:"keys"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
	// TagIndex is the bleve index directory. Empty keeps tag suggestions in
	// memory.
	TagIndex string `mapstructure:"tag_index"`
}

type CatalogConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	SiteURL       string        `mapstructure:"site_url"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
	Retries       int           `mapstructure:"retries"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	// TagsTTL is how long the cached popular tags stay fresh.
	TagsTTL time.Duration `mapstructure:"tags_ttl"`
}

type SearchConfig struct {
	Categories []string `mapstructure:"categories"`
	Purity     []string `mapstructure:"purity"`
	Sorting    string   `mapstructure:"sorting"`
	Order      string   `mapstructure:"order"`
	TopRange   string   `mapstructure:"top_range"`
	AtLeast    string   `mapstructure:"at_least"`
}

type LocalConfig struct {
	Directory string `mapstructure:"directory"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

// MediaConfig lists image viewers per OS, tried in order.
type MediaConfig struct {
	Darwin        []string `mapstructure:"darwin"`
	Linux         []string `mapstructure:"linux"`
	Windows       []string `mapstructure:"windows"`
	DefaultOpener string   `mapstructure:"default_opener"`
}

// Viewers returns the viewer list for the running OS.
func (m MediaConfig) Viewers() []string {
	switch runtime.GOOS {
	case "darwin":
		return m.Darwin
	case "windows":
		return m.Windows
	default:
		return m.Linux
	}
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type KeyConfig struct {
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit      string `mapstructure:"quit"`
	Search    string `mapstructure:"search"`
	Refresh   string `mapstructure:"refresh"`
	Retry     string `mapstructure:"retry"`
	Favorite  string `mapstructure:"favorite"`
	Favorites string `mapstructure:"favorites"`
	Local     string `mapstructure:"local"`
	Open      string `mapstructure:"open"`
	Back      string `mapstructure:"back"`
	Help      string `mapstructure:"help"`
	// Filters opens the filter editor.
	Filters string `mapstructure:"filters"`
	// Uploader and Similar search from the detail view.
	Uploader string `mapstructure:"uploader"`
	Similar  string `mapstructure:"similar"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".wallr")

	return &Config{
		Database: DatabaseConfig{
			Path:     filepath.Join(dataDir, "wallr.db"),
			Timeout:  1 * time.Second,
			TagIndex: filepath.Join(dataDir, "tags.bleve"),
		},
		Catalog: CatalogConfig{
			BaseURL:       "https://wallhaven.cc/api/v1/",
			SiteURL:       "https://wallhaven.cc/",
			HTTPTimeout:   30 * time.Second,
			UserAgent:     "wallr/1.0 (https://github.com/pders01/wallr)",
			Retries:       2,
			MaxConcurrent: 4,
			TagsTTL:       24 * time.Hour,
		},
		Search: SearchConfig{
			Categories: []string{"general", "anime", "people"},
			Purity:     []string{"sfw"},
			Sorting:    "date_added",
			Order:      "desc",
			TopRange:   "1M",
		},
		Local: LocalConfig{
			Directory: filepath.Join(homeDir, "Pictures", "Wallpapers"),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#7AA2F7",
				Secondary: "#BB9AF7",
				Accent:    "#E0AF68",
				Text:      "#C0CAF5",
				Muted:     "#565F89",
				Error:     "#F7768E",
				Success:   "#9ECE6A",
			},
		},
		Media: MediaConfig{
			Darwin:        []string{"open"},
			Linux:         []string{"imv", "sxiv", "nsxiv", "feh", "eog"},
			Windows:       []string{"start"},
			DefaultOpener: getDefaultOpener(),
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(dataDir, "wallr.log"),
		},
		Keys: KeyConfig{
			Bindings: KeyBindings{
				Quit:      "q",
				Search:    "/",
				Refresh:   "r",
				Retry:     "R",
				Favorite:  "f",
				Favorites: "F",
				Local:     "L",
				Open:      "o",
				Back:      "esc",
				Help:      "?",
				Filters:   "s",
				Uploader:  "u",
				Similar:   "m",
			},
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// DefaultPath is where Load looks when no explicit file is given.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "wallr", "config.toml")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("WALLR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// setDefaults registers every leaf key so environment overrides apply to
// keys missing from the file.
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range flatten(cfg) {
		v.SetDefault(key, value)
	}
}

func flatten(cfg *Config) map[string]any {
	return map[string]any{
		"database.path":             cfg.Database.Path,
		"database.timeout":          cfg.Database.Timeout,
		"database.tag_index":        cfg.Database.TagIndex,
		"catalog.base_url":          cfg.Catalog.BaseURL,
		"catalog.site_url":          cfg.Catalog.SiteURL,
		"catalog.http_timeout":      cfg.Catalog.HTTPTimeout,
		"catalog.user_agent":        cfg.Catalog.UserAgent,
		"catalog.retries":           cfg.Catalog.Retries,
		"catalog.max_concurrent":    cfg.Catalog.MaxConcurrent,
		"catalog.tags_ttl":          cfg.Catalog.TagsTTL,
		"search.categories":         cfg.Search.Categories,
		"search.purity":             cfg.Search.Purity,
		"search.sorting":            cfg.Search.Sorting,
		"search.order":              cfg.Search.Order,
		"search.top_range":          cfg.Search.TopRange,
		"search.at_least":           cfg.Search.AtLeast,
		"local.directory":           cfg.Local.Directory,
		"ui.colors.primary":         cfg.UI.Colors.Primary,
		"ui.colors.secondary":       cfg.UI.Colors.Secondary,
		"ui.colors.accent":          cfg.UI.Colors.Accent,
		"ui.colors.text":            cfg.UI.Colors.Text,
		"ui.colors.muted":           cfg.UI.Colors.Muted,
		"ui.colors.error":           cfg.UI.Colors.Error,
		"ui.colors.success":         cfg.UI.Colors.Success,
		"media.darwin":              cfg.Media.Darwin,
		"media.linux":               cfg.Media.Linux,
		"media.windows":             cfg.Media.Windows,
		"media.default_opener":      cfg.Media.DefaultOpener,
		"log.level":                 cfg.Log.Level,
		"log.file":                  cfg.Log.File,
		"keys.bindings.quit":        cfg.Keys.Bindings.Quit,
		"keys.bindings.search":      cfg.Keys.Bindings.Search,
		"keys.bindings.refresh":     cfg.Keys.Bindings.Refresh,
		"keys.bindings.retry":       cfg.Keys.Bindings.Retry,
		"keys.bindings.favorite":    cfg.Keys.Bindings.Favorite,
		"keys.bindings.favorites":   cfg.Keys.Bindings.Favorites,
		"keys.bindings.local":       cfg.Keys.Bindings.Local,
		"keys.bindings.open":        cfg.Keys.Bindings.Open,
		"keys.bindings.back":        cfg.Keys.Bindings.Back,
		"keys.bindings.help":        cfg.Keys.Bindings.Help,
		"keys.bindings.filters":     cfg.Keys.Bindings.Filters,
		"keys.bindings.uploader":    cfg.Keys.Bindings.Uploader,
		"keys.bindings.similar":     cfg.Keys.Bindings.Similar,
	}
}

// expandPath expands ~ and environment variables and converts to an
// absolute path. Paths that cannot be expanded are kept as written.
func expandPath(path string) string {
	if path == "" || path == ":memory:" {
		return path
	}
	expanded, err := validation.ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.TagIndex = expandPath(cfg.Database.TagIndex)
	cfg.Local.Directory = expandPath(cfg.Local.Directory)
	cfg.Log.File = expandPath(cfg.Log.File)
}

// Filters turns the configured search defaults into filters. Unknown values
// fall back to the built-in defaults.
func (s SearchConfig) Filters() filter.Filters {
	f := filter.Default()
	if cats := filter.ParseCategories(s.Categories); len(cats) > 0 {
		f.Categories = cats
	}
	if ps := filter.ParsePurities(s.Purity); len(ps) > 0 {
		f.Purity = ps
	}
	if v, ok := filter.ParseSorting(s.Sorting); ok {
		f.Sorting = v
	}
	if v, ok := filter.ParseOrder(s.Order); ok {
		f.Order = v
	}
	if v, ok := filter.ParseTopRange(s.TopRange); ok {
		f.TopRange = v
	}
	if size, ok := filter.ParseSize(s.AtLeast); ok {
		f.MinSize = &size
	}
	return f.Normalize()
}

func Save(config *Config, path string) error {
	v := viper.New()

	// durations as strings for TOML readability
	for key, value := range flatten(config) {
		if d, ok := value.(time.Duration); ok {
			value = d.String()
		}
		v.Set(key, value)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

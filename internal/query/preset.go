package query

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/wallr/internal/filter"
)

// preset is the on-disk form of a Search. Enum and set fields use their wire
// names so files stay readable and hand-editable.
type preset struct {
	Text         string   `toml:"text,omitempty"`
	IncludedTags []string `toml:"included_tags,omitempty"`
	ExcludedTags []string `toml:"excluded_tags,omitempty"`
	Username     string   `toml:"username,omitempty"`
	TagID        *int64   `toml:"tag_id,omitempty"`
	LikeID       string   `toml:"like_id,omitempty"`
	Categories   []string `toml:"categories,omitempty"`
	Purity       []string `toml:"purity,omitempty"`
	Sorting      string   `toml:"sorting,omitempty"`
	Order        string   `toml:"order,omitempty"`
	TopRange     string   `toml:"top_range,omitempty"`
	AtLeast      string   `toml:"at_least,omitempty"`
	Resolutions  []string `toml:"resolutions,omitempty"`
	Color        string   `toml:"color,omitempty"`
	Ratios       []string `toml:"ratios,omitempty"`
	Seed         string   `toml:"seed,omitempty"`
}

// EncodePreset renders s as TOML.
func EncodePreset(s Search) ([]byte, error) {
	f := s.Filters
	p := preset{
		Text:         s.Text,
		IncludedTags: f.IncludedTags,
		ExcludedTags: f.ExcludedTags,
		Username:     f.Username,
		TagID:        f.TagID,
		LikeID:       f.LikeID,
		Sorting:      f.Sorting.String(),
		Order:        f.Order.String(),
		TopRange:     f.TopRange.String(),
		Seed:         f.Seed,
	}
	for _, c := range f.Categories {
		p.Categories = append(p.Categories, c.String())
	}
	for _, pu := range f.Purity {
		p.Purity = append(p.Purity, pu.String())
	}
	if f.MinSize != nil {
		p.AtLeast = f.MinSize.String()
	}
	for _, r := range f.Resolutions {
		p.Resolutions = append(p.Resolutions, r.String())
	}
	if f.Color != nil {
		p.Color = "#" + f.Color.Hex()
	}
	for _, r := range f.Ratios {
		p.Ratios = append(p.Ratios, r.String())
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding preset: %w", err)
	}
	return data, nil
}

// DecodePreset parses a TOML preset. Unknown or malformed values are dropped
// and the corresponding default applies.
func DecodePreset(data []byte) (Search, error) {
	var p preset
	if err := toml.Unmarshal(data, &p); err != nil {
		return Search{}, fmt.Errorf("decoding preset: %w", err)
	}

	f := filter.Default()
	f.IncludedTags = p.IncludedTags
	f.ExcludedTags = p.ExcludedTags
	f.Username = p.Username
	f.TagID = p.TagID
	f.LikeID = p.LikeID
	f.Categories = filter.ParseCategories(p.Categories)
	f.Purity = filter.ParsePurities(p.Purity)
	if v, ok := filter.ParseSorting(p.Sorting); ok {
		f.Sorting = v
	}
	if v, ok := filter.ParseOrder(p.Order); ok {
		f.Order = v
	}
	if v, ok := filter.ParseTopRange(p.TopRange); ok {
		f.TopRange = v
	}
	if s, ok := filter.ParseSize(p.AtLeast); ok {
		f.MinSize = &s
	}
	f.Resolutions = filter.ParseResolutions(p.Resolutions)
	if c, ok := filter.ParseColor(p.Color); ok {
		f.Color = c
	}
	f.Ratios = filter.ParseRatios(p.Ratios)
	f.Seed = p.Seed

	return New(p.Text, f), nil
}

// LoadPreset reads a preset file.
func LoadPreset(path string) (Search, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Search{}, fmt.Errorf("reading preset: %w", err)
	}
	return DecodePreset(data)
}

// SavePreset writes s to path, creating parent directories as needed.
func SavePreset(path string, s Search) error {
	data, err := EncodePreset(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating preset directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing preset: %w", err)
	}
	return nil
}

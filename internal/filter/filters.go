// Package filter holds the structured search filter model.
//
// A Filters value is immutable by convention: every method returns a new
// value and leaves the receiver untouched, so a Filters handed to a search
// can be shared freely.
package filter

import (
	"fmt"
	"sort"
	"strings"
)

// Filters is the structured part of a catalog search.
//
// TagID, LikeID, Username and IncludedTags are the special-query fields; the
// With* constructors keep exactly one of them set.
type Filters struct {
	IncludedTags []string
	ExcludedTags []string
	Username     string
	TagID        *int64
	LikeID       string
	Categories   []Category
	Purity       []Purity
	Sorting      Sorting
	Order        Order
	TopRange     TopRange
	MinSize      *Size
	Resolutions  []Size
	Color        *Color
	Ratios       []Ratio
	Seed         string
}

// DefaultCategories returns all known categories.
func DefaultCategories() []Category {
	return []Category{General, Anime, People}
}

// DefaultPurity returns the safe-for-work only selection.
func DefaultPurity() []Purity {
	return []Purity{SFW}
}

// Default returns the filters used when the user has chosen nothing.
func Default() Filters {
	return Filters{
		Categories: DefaultCategories(),
		Purity:     DefaultPurity(),
		Sorting:    DateAdded,
		Order:      Desc,
		TopRange:   OneMonth,
	}
}

// Clone returns a deep copy that shares no slices or pointers with f.
func (f Filters) Clone() Filters {
	c := f
	c.IncludedTags = cloneSlice(f.IncludedTags)
	c.ExcludedTags = cloneSlice(f.ExcludedTags)
	c.Categories = cloneSlice(f.Categories)
	c.Purity = cloneSlice(f.Purity)
	c.Resolutions = cloneSlice(f.Resolutions)
	c.Ratios = cloneSlice(f.Ratios)
	if f.TagID != nil {
		id := *f.TagID
		c.TagID = &id
	}
	if f.MinSize != nil {
		s := *f.MinSize
		c.MinSize = &s
	}
	if f.Color != nil {
		col := *f.Color
		c.Color = &col
	}
	return c
}

// Normalize deduplicates every set and replaces an empty category or purity
// selection with the defaults.
func (f Filters) Normalize() Filters {
	n := f.Clone()
	n.IncludedTags = dedupTags(n.IncludedTags)
	n.ExcludedTags = dedupTags(n.ExcludedTags)
	n.Categories = dedupByFlag(n.Categories, Category.Flag)
	if len(n.Categories) == 0 {
		n.Categories = DefaultCategories()
	}
	n.Purity = dedupByFlag(n.Purity, Purity.Flag)
	if len(n.Purity) == 0 {
		n.Purity = DefaultPurity()
	}
	n.Resolutions = dedupSizes(n.Resolutions)
	n.Ratios = dedupRatios(n.Ratios)
	return n
}

// WithTagID returns a copy that searches by tag id only.
func (f Filters) WithTagID(id int64) Filters {
	c := f.clearSpecial()
	c.TagID = &id
	return c
}

// WithLikeID returns a copy that searches for items similar to id.
func (f Filters) WithLikeID(id string) Filters {
	c := f.clearSpecial()
	c.LikeID = id
	return c
}

// WithUsername returns a copy restricted to one uploader.
func (f Filters) WithUsername(name string) Filters {
	c := f.clearSpecial()
	c.Username = name
	return c
}

// WithIncludedTag returns a copy with tag added to the included tags. The
// existing included tags are kept; the other special-query fields are
// cleared.
func (f Filters) WithIncludedTag(tag string) Filters {
	tags := cloneSlice(f.IncludedTags)
	c := f.clearSpecial()
	c.IncludedTags = dedupTags(append(tags, tag))
	return c
}

func (f Filters) clearSpecial() Filters {
	c := f.Clone()
	c.TagID = nil
	c.LikeID = ""
	c.Username = ""
	c.IncludedTags = nil
	return c
}

// HasCategory reports whether c is part of the selection.
func (f Filters) HasCategory(c Category) bool {
	for _, x := range f.Categories {
		if x == c {
			return true
		}
	}
	return false
}

// HasPurity reports whether p is part of the selection.
func (f Filters) HasPurity(p Purity) bool {
	for _, x := range f.Purity {
		if x == p {
			return true
		}
	}
	return false
}

// CategoriesMask renders the category selection as the zero-padded
// three-digit mask the API expects, e.g. {General, People} -> "101".
func CategoriesMask(cats []Category) string {
	sum := 0
	for _, c := range dedupByFlag(cats, Category.Flag) {
		sum += c.Flag()
	}
	return fmt.Sprintf("%03d", sum)
}

// PurityMask renders the purity selection as a three-digit mask.
func PurityMask(ps []Purity) string {
	sum := 0
	for _, p := range dedupByFlag(ps, Purity.Flag) {
		sum += p.Flag()
	}
	return fmt.Sprintf("%03d", sum)
}

// ResolutionsCSV joins resolutions as "1920x1080,2560x1440".
func ResolutionsCSV(sizes []Size) string {
	parts := make([]string, 0, len(sizes))
	for _, s := range dedupSizes(sizes) {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ",")
}

// RatiosCSV joins ratios as "16x9,landscape" without spaces.
func RatiosCSV(ratios []Ratio) string {
	parts := make([]string, 0, len(ratios))
	for _, r := range dedupRatios(ratios) {
		parts = append(parts, strings.ReplaceAll(r.String(), " ", ""))
	}
	return strings.Join(parts, ",")
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func dedupTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// dedupByFlag drops unknown and repeated members and orders the rest by
// descending flag so masks and descriptions are stable.
func dedupByFlag[T comparable](in []T, flag func(T) int) []T {
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if flag(v) == 0 {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return flag(out[i]) > flag(out[j]) })
	return out
}

func dedupSizes(sizes []Size) []Size {
	if len(sizes) == 0 {
		return nil
	}
	seen := make(map[Size]struct{}, len(sizes))
	out := make([]Size, 0, len(sizes))
	for _, s := range sizes {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func dedupRatios(ratios []Ratio) []Ratio {
	if len(ratios) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ratios))
	out := make([]Ratio, 0, len(ratios))
	for _, r := range ratios {
		k := ratioKey(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pders01/wallr/internal/filter"
)

// Search is one submitted search: the raw text and the filters it was typed
// against. It is never modified after New; a new search is a new value.
type Search struct {
	Text    string
	Filters filter.Filters
}

// New normalizes a copy of filters and pairs it with text.
func New(text string, filters filter.Filters) Search {
	return Search{
		Text:    text,
		Filters: filters.Normalize(),
	}
}

// Effective returns the filters after folding Text into them, together with
// the rendered query string.
func (s Search) Effective() (filter.Filters, string) {
	return Compose(s.Text, s.Filters)
}

// Params holds the structured request parameters sent to the catalog.
// Empty string fields are omitted from the request.
type Params struct {
	Query       string
	Categories  string
	Purity      string
	Sorting     string
	Order       string
	TopRange    string
	AtLeast     string
	Resolutions string
	Colors      string
	Ratios      string
	Seed        string
}

// Params renders the search into wire parameters.
func (s Search) Params() Params {
	f, q := s.Effective()

	p := Params{
		Query:       q,
		Categories:  filter.CategoriesMask(f.Categories),
		Purity:      filter.PurityMask(f.Purity),
		Sorting:     f.Sorting.String(),
		Order:       f.Order.String(),
		Resolutions: filter.ResolutionsCSV(f.Resolutions),
		Ratios:      filter.RatiosCSV(f.Ratios),
		Seed:        strings.TrimSpace(f.Seed),
	}
	if f.Sorting == filter.Toplist {
		p.TopRange = f.TopRange.String()
	}
	if f.MinSize != nil {
		p.AtLeast = f.MinSize.String()
	}
	if f.Color != nil {
		p.Colors = f.Color.Hex()
	}
	return p
}

// WithSeed returns a copy of p that pins the random-sort seed.
func (p Params) WithSeed(seed string) Params {
	p.Seed = seed
	return p
}

// Values encodes p for the given page. Pages below 1 are sent as page 1.
func (p Params) Values(page int) url.Values {
	if page < 1 {
		page = 1
	}

	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("q", p.Query)
	set("categories", p.Categories)
	set("purity", p.Purity)
	set("sorting", p.Sorting)
	set("order", p.Order)
	set("topRange", p.TopRange)
	set("atleast", p.AtLeast)
	set("resolutions", p.Resolutions)
	set("colors", p.Colors)
	set("ratios", p.Ratios)
	set("seed", p.Seed)
	v.Set("page", strconv.Itoa(page))
	return v
}

// Describe summarizes the parts of a search that differ from the defaults,
// e.g. `"cats" · anime · sketchy · toplist (1w) · ≥2560x1440`. An empty
// search describes as "latest".
func Describe(s Search) string {
	f, q := s.Effective()
	def := filter.Default()

	var parts []string
	if q != "" {
		parts = append(parts, q)
	}
	if filter.CategoriesMask(f.Categories) != filter.CategoriesMask(def.Categories) {
		parts = append(parts, joinNames(f.Categories))
	}
	if filter.PurityMask(f.Purity) != filter.PurityMask(def.Purity) {
		parts = append(parts, joinNames(f.Purity))
	}
	switch {
	case f.Sorting == filter.Toplist:
		parts = append(parts, "toplist ("+f.TopRange.String()+")")
	case f.Sorting != def.Sorting:
		parts = append(parts, strings.ReplaceAll(f.Sorting.String(), "_", " "))
	}
	if f.Order != def.Order {
		parts = append(parts, f.Order.String())
	}
	if f.MinSize != nil {
		parts = append(parts, "≥"+f.MinSize.String())
	}
	if csv := filter.ResolutionsCSV(f.Resolutions); csv != "" {
		parts = append(parts, csv)
	}
	if csv := filter.RatiosCSV(f.Ratios); csv != "" {
		parts = append(parts, csv)
	}
	if f.Color != nil {
		parts = append(parts, "#"+f.Color.Hex())
	}

	if len(parts) == 0 {
		return "latest"
	}
	return strings.Join(parts, " · ")
}

func joinNames[T interface{ String() string }](in []T) string {
	names := make([]string, 0, len(in))
	for _, v := range in {
		names = append(names, v.String())
	}
	return strings.Join(names, ",")
}

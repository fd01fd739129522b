package filter

import (
	"fmt"
	"strings"
)

// Category is the content classification used by the catalog API.
type Category int

const (
	General Category = iota
	Anime
	People
)

// AllCategories lists the known categories in mask order.
var AllCategories = []Category{General, Anime, People}

// Flag returns the decimal-digit weight of the category in the API mask.
func (c Category) Flag() int {
	switch c {
	case General:
		return 100
	case Anime:
		return 10
	case People:
		return 1
	default:
		return 0
	}
}

func (c Category) String() string {
	switch c {
	case General:
		return "general"
	case Anime:
		return "anime"
	case People:
		return "people"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory maps a wire name to a Category.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "general":
		return General, true
	case "anime":
		return Anime, true
	case "people":
		return People, true
	default:
		return 0, false
	}
}

// Purity is the content-safety classification of an item.
type Purity int

const (
	SFW Purity = iota
	Sketchy
	NSFW
)

// AllPurities lists the known purities in mask order.
var AllPurities = []Purity{SFW, Sketchy, NSFW}

// Flag returns the decimal-digit weight of the purity in the API mask.
func (p Purity) Flag() int {
	switch p {
	case SFW:
		return 100
	case Sketchy:
		return 10
	case NSFW:
		return 1
	default:
		return 0
	}
}

func (p Purity) String() string {
	switch p {
	case SFW:
		return "sfw"
	case Sketchy:
		return "sketchy"
	case NSFW:
		return "nsfw"
	default:
		return fmt.Sprintf("purity(%d)", int(p))
	}
}

// ParsePurity maps a wire name to a Purity.
func ParsePurity(s string) (Purity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sfw":
		return SFW, true
	case "sketchy":
		return Sketchy, true
	case "nsfw":
		return NSFW, true
	default:
		return 0, false
	}
}

// Sorting selects the server-side ordering of results.
type Sorting int

const (
	DateAdded Sorting = iota
	Relevance
	Random
	Views
	Favorites
	Toplist
)

func (s Sorting) String() string {
	switch s {
	case DateAdded:
		return "date_added"
	case Relevance:
		return "relevance"
	case Random:
		return "random"
	case Views:
		return "views"
	case Favorites:
		return "favorites"
	case Toplist:
		return "toplist"
	default:
		return fmt.Sprintf("sorting(%d)", int(s))
	}
}

// ParseSorting maps a wire value to a Sorting.
func ParseSorting(s string) (Sorting, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date_added":
		return DateAdded, true
	case "relevance":
		return Relevance, true
	case "random":
		return Random, true
	case "views":
		return Views, true
	case "favorites":
		return Favorites, true
	case "toplist":
		return Toplist, true
	default:
		return 0, false
	}
}

// Order is the sort direction.
type Order int

const (
	Desc Order = iota
	Asc
)

func (o Order) String() string {
	if o == Asc {
		return "asc"
	}
	return "desc"
}

// ParseOrder maps "asc"/"desc" to an Order.
func ParseOrder(s string) (Order, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	default:
		return 0, false
	}
}

// TopRange is the time window used with Toplist sorting.
type TopRange int

const (
	OneDay TopRange = iota
	ThreeDays
	OneWeek
	OneMonth
	ThreeMonths
	SixMonths
	OneYear
)

var topRangeValues = map[TopRange]string{
	OneDay:      "1d",
	ThreeDays:   "3d",
	OneWeek:     "1w",
	OneMonth:    "1M",
	ThreeMonths: "3M",
	SixMonths:   "6M",
	OneYear:     "1y",
}

func (r TopRange) String() string {
	if v, ok := topRangeValues[r]; ok {
		return v
	}
	return fmt.Sprintf("toprange(%d)", int(r))
}

// ParseTopRange maps a wire value such as "1M" to a TopRange. The match is
// case-sensitive because "1m" and "1M" are not the same window.
func ParseTopRange(s string) (TopRange, bool) {
	s = strings.TrimSpace(s)
	for r, v := range topRangeValues {
		if v == s {
			return r, true
		}
	}
	return 0, false
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Color is a 24-bit RGB value.
type Color uint32

// Hex renders the color as six upper-case hex digits without a leading '#'.
func (c Color) Hex() string {
	return fmt.Sprintf("%06X", uint32(c)&0xFFFFFF)
}

package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Wallpaper is one catalog item as returned by the search and detail
// endpoints. Tags are only populated by the detail endpoint.
type Wallpaper struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	ShortURL   string    `json:"short_url"`
	Uploader   *Uploader `json:"uploader,omitempty"`
	Views      int       `json:"views"`
	Favorites  int       `json:"favorites"`
	Source     string    `json:"source"`
	Purity     string    `json:"purity"`
	Category   string    `json:"category"`
	DimensionX int       `json:"dimension_x"`
	DimensionY int       `json:"dimension_y"`
	Resolution string    `json:"resolution"`
	Ratio      string    `json:"ratio"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"`
	CreatedAt  string    `json:"created_at"`
	Colors     []string  `json:"colors"`
	Path       string    `json:"path"`
	Thumbs     Thumbs    `json:"thumbs"`
	Tags       []Tag     `json:"tags,omitempty"`
}

type Uploader struct {
	Username string            `json:"username"`
	Group    string            `json:"group"`
	Avatar   map[string]string `json:"avatar"`
}

type Thumbs struct {
	Large    string `json:"large"`
	Original string `json:"original"`
	Small    string `json:"small"`
}

// Tag is a catalog tag. Popular tags scraped from HTML carry only ID, Name,
// Category, Purity and CreatedAt.
type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Alias      string `json:"alias"`
	CategoryID int64  `json:"category_id"`
	Category   string `json:"category"`
	Purity     string `json:"purity"`
	CreatedAt  string `json:"created_at"`
}

const createdAtLayout = "2006-01-02 15:04:05"

// Created parses CreatedAt; the zero time if it is missing or malformed.
func (w Wallpaper) Created() time.Time {
	t, err := time.Parse(createdAtLayout, w.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SizeLabel renders FileSize for humans, e.g. "2.4 MiB".
func (w Wallpaper) SizeLabel() string {
	const unit = 1024
	if w.FileSize < unit {
		return fmt.Sprintf("%d B", w.FileSize)
	}
	div, exp := int64(unit), 0
	for n := w.FileSize / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(w.FileSize)/float64(div), "KMGTPE"[exp])
}

// TagNames lists the tag names in response order.
func (w Wallpaper) TagNames() []string {
	names := make([]string, 0, len(w.Tags))
	for _, t := range w.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Page is one page of search results.
type Page struct {
	Wallpapers  []Wallpaper
	CurrentPage int
	LastPage    int
	PerPage     int
	Total       int
	Query       MetaQuery
	Seed        string
}

// MetaQuery echoes the query the server ran. It is either free text or a
// resolved tag, never both.
type MetaQuery interface {
	fmt.Stringer
	isMetaQuery()
}

// TextQuery is a free-text query echo.
type TextQuery string

func (TextQuery) isMetaQuery() {}

func (q TextQuery) String() string { return string(q) }

// TagQuery is the echo of an "id:N" search.
type TagQuery struct {
	ID  int64
	Tag string
}

func (TagQuery) isMetaQuery() {}

func (q TagQuery) String() string {
	if q.Tag != "" {
		return q.Tag
	}
	return fmt.Sprintf("id:%d", q.ID)
}

// DescribeQuery renders q for display; empty for a nil query.
func DescribeQuery(q MetaQuery) string {
	switch v := q.(type) {
	case nil:
		return ""
	case TextQuery:
		return strings.TrimSpace(string(v))
	case TagQuery:
		return "tag " + v.String()
	default:
		return q.String()
	}
}

package catalog

import (
	"bytes"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type searchResponse struct {
	Data []Wallpaper `json:"data"`
	Meta searchMeta  `json:"meta"`
}

type searchMeta struct {
	CurrentPage flexInt       `json:"current_page"`
	LastPage    flexInt       `json:"last_page"`
	PerPage     flexInt       `json:"per_page"`
	Total       flexInt       `json:"total"`
	Query       metaQueryJSON `json:"query"`
	Seed        *string       `json:"seed"`
}

type wallpaperResponse struct {
	Data *Wallpaper `json:"data"`
}

// flexInt accepts both 24 and "24"; the API is not consistent about it.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("decoding number %q: %w", s, err)
		}
		*n = flexInt(v)
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}

type metaQueryJSON struct {
	MetaQuery
}

func (q *metaQueryJSON) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		q.MetaQuery = nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		q.MetaQuery = TextQuery(s)
	case data[0] == '{':
		var tag struct {
			ID  int64  `json:"id"`
			Tag string `json:"tag"`
		}
		if err := json.Unmarshal(data, &tag); err != nil {
			return err
		}
		q.MetaQuery = TagQuery{ID: tag.ID, Tag: tag.Tag}
	default:
		return fmt.Errorf("unexpected meta query %s", data)
	}
	return nil
}

func (r searchResponse) page() *Page {
	p := &Page{
		Wallpapers:  r.Data,
		CurrentPage: int(r.Meta.CurrentPage),
		LastPage:    int(r.Meta.LastPage),
		PerPage:     int(r.Meta.PerPage),
		Total:       int(r.Meta.Total),
		Query:       r.Meta.Query.MetaQuery,
	}
	if p.Wallpapers == nil {
		p.Wallpapers = []Wallpaper{}
	}
	if r.Meta.Seed != nil {
		p.Seed = *r.Meta.Seed
	}
	return p
}

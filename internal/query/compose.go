// Package query turns free text plus structured filters into a catalog
// search request.
package query

import (
	"strconv"
	"strings"

	"github.com/pders01/wallr/internal/filter"
)

const (
	tagIDPrefix    = "id:"
	likePrefix     = "like:"
	usernamePrefix = "@"
)

// Compose derives the effective filters and the API query string for a
// free-text search on top of base.
//
// The trimmed text is matched against, in order: blank, "id:<int>",
// "like:<id>", "@<user>". The first rule that fits wins; anything else,
// including "id:" with a non-numeric remainder, becomes a single included
// tag.
func Compose(text string, base filter.Filters) (filter.Filters, string) {
	effective := apply(strings.TrimSpace(text), base)
	return effective, BuildQueryString(effective)
}

func apply(text string, base filter.Filters) filter.Filters {
	if text == "" {
		return base
	}

	if rest, ok := strings.CutPrefix(text, tagIDPrefix); ok {
		if id, err := strconv.ParseInt(rest, 10, 64); err == nil {
			return base.WithTagID(id)
		}
	}

	if rest, ok := strings.CutPrefix(text, likePrefix); ok {
		if id := strings.TrimSpace(rest); id != "" {
			return base.WithLikeID(id)
		}
	}

	if rest, ok := strings.CutPrefix(text, usernamePrefix); ok {
		if name := strings.TrimSpace(rest); name != "" {
			return base.WithUsername(name)
		}
	}

	return base.WithIncludedTag(text)
}

// BuildQueryString renders the free-text part of f in the catalog grammar:
// "+tag" group, "-tag" group, "@user", "id:N", "like:X", space separated.
// Empty parts are omitted.
func BuildQueryString(f filter.Filters) string {
	var parts []string

	if group := tagGroup("+", f.IncludedTags); group != "" {
		parts = append(parts, group)
	}
	if group := tagGroup("-", f.ExcludedTags); group != "" {
		parts = append(parts, group)
	}
	if name := strings.TrimSpace(f.Username); name != "" {
		parts = append(parts, usernamePrefix+name)
	}
	if f.TagID != nil {
		parts = append(parts, tagIDPrefix+strconv.FormatInt(*f.TagID, 10))
	}
	if id := strings.TrimSpace(f.LikeID); id != "" {
		parts = append(parts, likePrefix+id)
	}

	return strings.Join(parts, " ")
}

func tagGroup(sign string, tags []string) string {
	var b strings.Builder
	for _, tag := range tags {
		token := quoteTag(tag)
		if token == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sign)
		b.WriteString(token)
	}
	return b.String()
}

// quoteTag trims tag, strips embedded double quotes (the grammar has no
// escape for them) and wraps multi-word tags in quotes.
func quoteTag(tag string) string {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, `"`, ""))
	if tag == "" {
		return ""
	}
	if strings.ContainsAny(tag, " \t") {
		return `"` + tag + `"`
	}
	return tag
}

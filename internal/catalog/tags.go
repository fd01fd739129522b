package catalog

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pders01/wallr/internal/debuglog"
)

// PopularTags scrapes the popular tags page. The page is HTML; there is no
// API endpoint for it.
func (c *Client) PopularTags(ctx context.Context) ([]Tag, error) {
	u := c.siteURL.ResolveReference(&url.URL{Path: "tags/popular"})
	body, err := c.get(ctx, "popular tags", u, "text/html")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing popular tags: %w", err)
	}
	tags := ParseTags(doc)
	debuglog.Debugf("catalog: scraped %d popular tags", len(tags))
	return tags, nil
}

// ParseTags extracts tags from a tag listing page. Entries without a
// resolvable tag id are skipped.
func ParseTags(doc *goquery.Document) []Tag {
	var tags []Tag
	doc.Find("div#taglist div.taglist-tagmain").Each(func(_ int, s *goquery.Selection) {
		nameSpan := s.Find("span.taglist-name").First()
		anchor := nameSpan.Find("a").First()
		if anchor.Length() == 0 {
			return
		}
		id, ok := idFromHref(anchor.AttrOr("href", ""))
		if !ok {
			return
		}

		tag := Tag{
			ID:     id,
			Name:   strings.TrimSpace(nameSpan.Text()),
			Purity: "sfw",
		}
		switch {
		case anchor.HasClass("nsfw"):
			tag.Purity = "nsfw"
		case anchor.HasClass("sketchy"):
			tag.Purity = "sketchy"
		}

		if cat := s.Find("span.taglist-category a").Last(); cat.Length() > 0 {
			tag.Category = strings.TrimSpace(cat.Text())
			tag.CategoryID, _ = idFromHref(cat.AttrOr("href", ""))
		}
		tag.CreatedAt = s.Find("span.taglist-creator time").First().AttrOr("datetime", "")

		tags = append(tags, tag)
	})
	return tags
}

// idFromHref takes the id from links shaped like /tag/37 or /tags/37.
func idFromHref(href string) (int64, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return 0, false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

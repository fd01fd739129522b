package catalog

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const popularTagsHTML = `<html><body>
<div id="taglist">
  <div class="taglist-tagmain">
    <span class="taglist-name"><a class="sfw" href="https://wallhaven.cc/tag/37">nature</a></span>
    <span class="taglist-category">
      <a href="https://wallhaven.cc/tags/2">General</a> &raquo;
      <a href="https://wallhaven.cc/tags/33">Nature</a>
    </span>
    <span class="taglist-creator"><time datetime="2014-02-01T10:00:00+00:00">10 years ago</time></span>
  </div>
  <div class="taglist-tagmain">
    <span class="taglist-name"><a class="sketchy" href="https://wallhaven.cc/tag/222">swimsuit</a></span>
  </div>
  <div class="taglist-tagmain">
    <span class="taglist-name"><a class="nsfw" href="https://wallhaven.cc/tag/nope">broken</a></span>
  </div>
  <div class="taglist-tagmain">
    <span class="taglist-name">no link</span>
  </div>
</div>
<div class="taglist-tagmain">
  <span class="taglist-name"><a href="https://wallhaven.cc/tag/999">outside list</a></span>
</div>
</body></html>`

func TestClient_PopularTags(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tags/popular", r.URL.Path)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(popularTagsHTML))
	})

	tags, err := c.PopularTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)

	assert.Equal(t, Tag{
		ID:         37,
		Name:       "nature",
		Category:   "Nature",
		CategoryID: 33,
		Purity:     "sfw",
		CreatedAt:  "2014-02-01T10:00:00+00:00",
	}, tags[0])
	assert.Equal(t, int64(222), tags[1].ID)
	assert.Equal(t, "sketchy", tags[1].Purity)
	assert.Empty(t, tags[1].Category)
}

func TestIDFromHref(t *testing.T) {
	id, ok := idFromHref("https://wallhaven.cc/tag/37")
	assert.True(t, ok)
	assert.Equal(t, int64(37), id)

	_, ok = idFromHref("https://wallhaven.cc/tag")
	assert.False(t, ok)
	_, ok = idFromHref("/tag/abc")
	assert.False(t, ok)
}

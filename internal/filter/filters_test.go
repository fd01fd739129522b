package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	f := Default()

	assert.Equal(t, []Category{General, Anime, People}, f.Categories)
	assert.Equal(t, []Purity{SFW}, f.Purity)
	assert.Equal(t, DateAdded, f.Sorting)
	assert.Equal(t, Desc, f.Order)
	assert.Equal(t, OneMonth, f.TopRange)
}

func TestNormalize_FillsEmptySets(t *testing.T) {
	f := Filters{}.Normalize()

	assert.Equal(t, DefaultCategories(), f.Categories)
	assert.Equal(t, DefaultPurity(), f.Purity)
}

func TestNormalize_Dedups(t *testing.T) {
	f := Filters{
		IncludedTags: []string{"cats", " cats ", "", "dogs"},
		Categories:   []Category{People, General, People},
		Purity:       []Purity{NSFW, SFW, SFW},
		Resolutions:  []Size{{1920, 1080}, {1920, 1080}},
		Ratios: []Ratio{
			RatioSize{Size: Size{16, 9}},
			RatioSize{Size: Size{16, 9}},
			RatioOrientation{Orientation: Portrait},
		},
	}.Normalize()

	assert.Equal(t, []string{"cats", "dogs"}, f.IncludedTags)
	assert.Equal(t, []Category{General, People}, f.Categories)
	assert.Equal(t, []Purity{SFW, NSFW}, f.Purity)
	assert.Len(t, f.Resolutions, 1)
	assert.Len(t, f.Ratios, 2)
}

func TestClone_SharesNothing(t *testing.T) {
	id := int64(7)
	col := Color(0x660000)
	orig := Filters{
		IncludedTags: []string{"a"},
		Categories:   []Category{General},
		TagID:        &id,
		MinSize:      &Size{1, 2},
		Color:        &col,
	}

	c := orig.Clone()
	c.IncludedTags[0] = "b"
	c.Categories[0] = People
	*c.TagID = 9
	c.MinSize.Width = 100
	*c.Color = 0

	assert.Equal(t, "a", orig.IncludedTags[0])
	assert.Equal(t, General, orig.Categories[0])
	assert.Equal(t, int64(7), *orig.TagID)
	assert.Equal(t, 1, orig.MinSize.Width)
	assert.Equal(t, Color(0x660000), *orig.Color)
}

func TestSpecialQueryFieldsAreExclusive(t *testing.T) {
	base := Default()
	base.IncludedTags = []string{"nature"}
	base.ExcludedTags = []string{"city"}
	base.Username = "alice"

	t.Run("tag id", func(t *testing.T) {
		f := base.WithTagID(42)
		require.NotNil(t, f.TagID)
		assert.Equal(t, int64(42), *f.TagID)
		assert.Empty(t, f.Username)
		assert.Empty(t, f.LikeID)
		assert.Empty(t, f.IncludedTags)
		assert.Equal(t, []string{"city"}, f.ExcludedTags)
	})

	t.Run("like id", func(t *testing.T) {
		f := base.WithLikeID("abc123")
		assert.Equal(t, "abc123", f.LikeID)
		assert.Nil(t, f.TagID)
		assert.Empty(t, f.Username)
		assert.Empty(t, f.IncludedTags)
	})

	t.Run("username", func(t *testing.T) {
		f := base.WithTagID(1).WithUsername("bob")
		assert.Equal(t, "bob", f.Username)
		assert.Nil(t, f.TagID)
	})

	t.Run("included tag keeps existing tags", func(t *testing.T) {
		f := base.WithIncludedTag("forest")
		assert.Equal(t, []string{"nature", "forest"}, f.IncludedTags)
		assert.Empty(t, f.Username)
	})

	// the receiver is never touched
	assert.Equal(t, "alice", base.Username)
	assert.Equal(t, []string{"nature"}, base.IncludedTags)
	assert.Nil(t, base.TagID)
}

func TestMasks(t *testing.T) {
	tests := []struct {
		name string
		cats []Category
		want string
	}{
		{"general only", []Category{General}, "100"},
		{"people only", []Category{People}, "001"},
		{"anime and people", []Category{Anime, People}, "011"},
		{"all", AllCategories, "111"},
		{"duplicates counted once", []Category{General, General}, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoriesMask(tt.cats))
		})
	}

	assert.Equal(t, "100", PurityMask([]Purity{SFW}))
	assert.Equal(t, "110", PurityMask([]Purity{Sketchy, SFW}))
	assert.Equal(t, "001", PurityMask([]Purity{NSFW}))
}

func TestCSVHelpers(t *testing.T) {
	assert.Equal(t, "1920x1080,2560x1440", ResolutionsCSV([]Size{{1920, 1080}, {2560, 1440}}))
	assert.Equal(t, "", ResolutionsCSV(nil))
	assert.Equal(t, "16x9,portrait", RatiosCSV([]Ratio{
		RatioSize{Size: Size{16, 9}},
		RatioOrientation{Orientation: Portrait},
	}))
	assert.Equal(t, "0000FF", Color(0xFF).Hex())
}

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want Size
		ok   bool
	}{
		{"1920x1080", Size{1920, 1080}, true},
		{" 1280X720 ", Size{1280, 720}, true},
		{"1920", Size{}, false},
		{"axb", Size{}, false},
		{"0x100", Size{}, false},
		{"-5x100", Size{}, false},
		{"", Size{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseSize(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseSize(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseSize(%q)", tt.in)
	}
}

func TestParseMinSize_IgnoresMalformedInput(t *testing.T) {
	s, ok := ParseMinSize("1920", "1080")
	assert.True(t, ok)
	assert.Equal(t, &Size{1920, 1080}, s)

	s, ok = ParseMinSize("wide", "1080")
	assert.False(t, ok)
	assert.Nil(t, s)

	_, ok = ParseMinSize("1920", "")
	assert.False(t, ok)
}

func TestParseResolutions_SkipsBadEntries(t *testing.T) {
	got := ParseResolutions([]string{"1920x1080", "bogus", "2560x1440,3840x2160", "1920x1080"})
	assert.Equal(t, []Size{{1920, 1080}, {2560, 1440}, {3840, 2160}}, got)
}

func TestParseRatio(t *testing.T) {
	r, ok := ParseRatio("landscape")
	assert.True(t, ok)
	assert.Equal(t, RatioOrientation{Orientation: Landscape}, r)

	r, ok = ParseRatio("21x9")
	assert.True(t, ok)
	assert.Equal(t, RatioSize{Size: Size{21, 9}}, r)

	_, ok = ParseRatio("square")
	assert.False(t, ok)

	assert.Len(t, ParseRatios([]string{"16x9, portrait", "nope"}), 2)
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("#660000")
	assert.True(t, ok)
	assert.Equal(t, "660000", c.Hex())

	c, ok = ParseColor("0x00ff00")
	assert.True(t, ok)
	assert.Equal(t, "00FF00", c.Hex())

	_, ok = ParseColor("red")
	assert.False(t, ok)
	_, ok = ParseColor("1234567")
	assert.False(t, ok)
}

func TestParseEnums(t *testing.T) {
	s, ok := ParseSorting("toplist")
	assert.True(t, ok)
	assert.Equal(t, Toplist, s)
	assert.Equal(t, "toplist", s.String())

	r, ok := ParseTopRange("1M")
	assert.True(t, ok)
	assert.Equal(t, OneMonth, r)
	_, ok = ParseTopRange("1m")
	assert.False(t, ok)

	o, ok := ParseOrder("ASC")
	assert.True(t, ok)
	assert.Equal(t, Asc, o)

	assert.Equal(t, []Category{General, People}, ParseCategories([]string{"people,general", "cartoons"}))
	assert.Equal(t, []Purity{SFW, Sketchy}, ParsePurities([]string{"sketchy", "sfw"}))
}

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/wallr/internal/catalog"
)

var sampleTags = []catalog.Tag{
	{ID: 1, Name: "nature", Category: "Nature", Purity: "sfw"},
	{ID: 2, Name: "natural light", Category: "Photography", Purity: "sfw"},
	{ID: 3, Name: "digital art", Alias: "digital painting", Category: "Art & Design", Purity: "sfw"},
	{ID: 4, Name: "landscape", Category: "Nature", Purity: "sfw"},
	{ID: 5, Name: "Cyberpunk", Alias: "cyber punk", Category: "Art & Design", Purity: "sfw"},
}

func newMemory(t *testing.T) *MemorySuggester {
	t.Helper()
	m := NewMemorySuggester()
	require.NoError(t, m.Index(sampleTags))
	return m
}

func TestMemorySuggest_MinLength(t *testing.T) {
	m := newMemory(t)
	for _, q := range []string{"", "n", "   ", "#"} {
		res, err := m.Suggest(q, 10)
		require.NoError(t, err)
		assert.Empty(t, res, "query %q", q)
	}
}

func TestMemorySuggest_RanksExactThenPrefix(t *testing.T) {
	m := newMemory(t)

	res, err := m.Suggest("nature", 10)
	require.NoError(t, err)
	require.NotEmpty(t, res)
	assert.Equal(t, int64(1), res[0].Tag.ID, "exact name first")

	res, err = m.Suggest("natu", 10)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "natural light", res[0].Tag.Name)
	assert.Equal(t, "nature", res[1].Tag.Name)
	assert.Equal(t, "landscape", res[2].Tag.Name, "category match ranks last")
}

func TestMemorySuggest_AllTermsMustMatch(t *testing.T) {
	m := newMemory(t)

	res, err := m.Suggest("digital paint", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, int64(3), res[0].Tag.ID)

	res, err = m.Suggest("digital nature", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestMemorySuggest_CaseInsensitiveAndLimit(t *testing.T) {
	m := newMemory(t)

	res, err := m.Suggest("CYBER", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Cyberpunk", res[0].Tag.Name)

	res, err = m.Suggest("na", 1)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestMemoryIndexReplaces(t *testing.T) {
	m := newMemory(t)
	require.NoError(t, m.Index([]catalog.Tag{{ID: 9, Name: "city"}}))

	n, err := m.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	res, err := m.Suggest("nature", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"art", "design"}, tokenize("Art & Design"))
	assert.Equal(t, []string{"4k", "sky"}, tokenize("4K  sky!"))
	assert.Nil(t, tokenize("a b"))
}

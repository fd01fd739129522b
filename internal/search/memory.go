package search

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/pders01/wallr/internal/catalog"
)

// Field weights, highest first.
const (
	weightExact      = 10.0
	weightPrefix     = 6.0
	weightWordPrefix = 4.0
	weightAlias      = 2.0
	weightCategory   = 0.5
)

// MemorySuggester scores tags in memory. It is used when no index path is
// configured and as the reference ranking for the bleve suggester.
type MemorySuggester struct {
	mu   sync.RWMutex
	tags []catalog.Tag
}

func NewMemorySuggester() *MemorySuggester {
	return &MemorySuggester{}
}

func (m *MemorySuggester) Index(tags []catalog.Tag) error {
	cp := make([]catalog.Tag, len(tags))
	copy(cp, tags)

	m.mu.Lock()
	m.tags = cp
	m.mu.Unlock()
	return nil
}

// Suggest ranks tags whose name, alias or category matches every term of
// prefix. Inputs shorter than two characters match nothing.
func (m *MemorySuggester) Suggest(prefix string, limit int) ([]Result, error) {
	terms := tokenize(prefix)
	if len(terms) == 0 {
		return []Result{}, nil
	}
	whole := strings.Join(terms, " ")

	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []Result
	for _, tag := range m.tags {
		if score := scoreTag(tag, whole, terms); score > 0 {
			results = append(results, Result{Tag: tag, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return strings.ToLower(results[i].Tag.Name) < strings.ToLower(results[j].Tag.Name)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *MemorySuggester) DocCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tags), nil
}

func (m *MemorySuggester) Close() error {
	return nil
}

func scoreTag(tag catalog.Tag, whole string, terms []string) float64 {
	name := strings.Join(tokenize(tag.Name), " ")
	switch {
	case name == whole:
		return weightExact
	case strings.HasPrefix(name, whole):
		return weightPrefix
	}

	nameWords := tokenize(tag.Name)
	aliasWords := tokenize(tag.Alias)
	catWords := tokenize(tag.Category)

	var score float64
	for _, term := range terms {
		switch {
		case anyHasPrefix(nameWords, term):
			score += weightWordPrefix
		case anyHasPrefix(aliasWords, term):
			score += weightAlias
		case anyHasPrefix(catWords, term):
			score += weightCategory
		default:
			return 0
		}
	}
	return score / float64(len(terms))
}

func anyHasPrefix(words []string, prefix string) bool {
	for _, w := range words {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}

// tokenize lower-cases text and splits it on anything that is not a letter
// or digit. Single characters are dropped.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len(term) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if current.Len() > 1 {
		terms = append(terms, current.String())
	}
	return terms
}

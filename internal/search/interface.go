// Package search suggests catalog tags for partially typed search text.
package search

import "github.com/pders01/wallr/internal/catalog"

// Result is one suggested tag with its relevance score.
type Result struct {
	Tag   catalog.Tag
	Score float64
}

// Suggester defines the minimal suggestion API used by the TUI and CLI.
type Suggester interface {
	// Index replaces the indexed tags.
	Index(tags []catalog.Tag) error
	Suggest(prefix string, limit int) ([]Result, error)
	Close() error
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}

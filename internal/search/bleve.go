package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/wallr/internal/catalog"
	"github.com/pders01/wallr/internal/debuglog"
)

var storedFields = []string{"name", "alias", "category", "category_id", "purity", "created_at"}

type bleveSuggester struct {
	idx bleve.Index
}

// NewBleveSuggester creates or opens a tag index at indexPath.
func NewBleveSuggester(indexPath string) (Suggester, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("creating tag index: %w", err)
		}
	}
	return &bleveSuggester{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	name := bleve.NewTextFieldMapping()
	name.Analyzer = standard.Name
	name.Store = true
	name.IncludeTermVectors = true

	// name_exact holds the whole lower-cased name as one term so a full
	// match outranks word matches.
	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name
	exact.Store = false

	alias := bleve.NewTextFieldMapping()
	alias.Analyzer = standard.Name
	alias.Store = true

	category := bleve.NewTextFieldMapping()
	category.Analyzer = standard.Name
	category.Store = true

	plain := bleve.NewTextFieldMapping()
	plain.Analyzer = keyword.Name
	plain.Store = true
	plain.Index = false

	dm.AddFieldMappingsAt("name", name)
	dm.AddFieldMappingsAt("name_exact", exact)
	dm.AddFieldMappingsAt("alias", alias)
	dm.AddFieldMappingsAt("category", category)
	dm.AddFieldMappingsAt("category_id", plain)
	dm.AddFieldMappingsAt("purity", plain)
	dm.AddFieldMappingsAt("created_at", plain)

	im.DefaultMapping = dm
	return im
}

// Index replaces the indexed tags in one batch.
func (b *bleveSuggester) Index(tags []catalog.Tag) error {
	stale, err := b.allIDs()
	if err != nil {
		return err
	}

	batch := b.idx.NewBatch()
	keep := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		id := docID(t.ID)
		keep[id] = struct{}{}
		if err := batch.Index(id, map[string]any{
			"name":        t.Name,
			"name_exact":  strings.ToLower(strings.TrimSpace(t.Name)),
			"alias":       t.Alias,
			"category":    t.Category,
			"category_id": strconv.FormatInt(t.CategoryID, 10),
			"purity":      t.Purity,
			"created_at":  t.CreatedAt,
		}); err != nil {
			return fmt.Errorf("indexing tag %d: %w", t.ID, err)
		}
	}
	for _, id := range stale {
		if _, ok := keep[id]; !ok {
			batch.Delete(id)
		}
	}
	if err := b.idx.Batch(batch); err != nil {
		return fmt.Errorf("writing tag index: %w", err)
	}
	debuglog.Debugf("search: indexed %d tags", len(tags))
	return nil
}

func (b *bleveSuggester) allIDs() ([]string, error) {
	var ids []string
	const size = 1000
	for from := 0; ; from += size {
		req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), size, from, false)
		res, err := b.idx.Search(req)
		if err != nil {
			return nil, fmt.Errorf("listing tag index: %w", err)
		}
		for _, h := range res.Hits {
			ids = append(ids, h.ID)
		}
		if len(res.Hits) < size {
			return ids, nil
		}
	}
}

// Suggest requires every term to prefix-match name, alias or category and
// boosts whole-name and name matches.
func (b *bleveSuggester) Suggest(prefix string, limit int) ([]Result, error) {
	terms := tokenize(prefix)
	if len(terms) == 0 {
		return []Result{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	var must []bleveQuery.Query
	for _, tok := range terms {
		qn := bleve.NewPrefixQuery(tok)
		qn.SetField("name")
		qn.SetBoost(4.0)
		qa := bleve.NewPrefixQuery(tok)
		qa.SetField("alias")
		qa.SetBoost(2.0)
		qc := bleve.NewPrefixQuery(tok)
		qc.SetField("category")
		qc.SetBoost(0.5)
		must = append(must, bleve.NewDisjunctionQuery(qn, qa, qc))
	}

	whole := strings.Join(terms, " ")
	exact := bleve.NewTermQuery(whole)
	exact.SetField("name_exact")
	exact.SetBoost(10.0)
	startsWith := bleve.NewPrefixQuery(whole)
	startsWith.SetField("name_exact")
	startsWith.SetBoost(6.0)

	q := bleveQuery.NewBooleanQuery(must, []bleveQuery.Query{exact, startsWith}, nil)

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = storedFields
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching tags: %w", err)
	}

	out := make([]Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := strconv.ParseInt(strings.TrimPrefix(h.ID, "tag:"), 10, 64)
		if err != nil {
			continue
		}
		tag := catalog.Tag{ID: id}
		if v, ok := h.Fields["name"].(string); ok {
			tag.Name = v
		}
		if v, ok := h.Fields["alias"].(string); ok {
			tag.Alias = v
		}
		if v, ok := h.Fields["category"].(string); ok {
			tag.Category = v
		}
		if v, ok := h.Fields["category_id"].(string); ok {
			tag.CategoryID, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := h.Fields["purity"].(string); ok {
			tag.Purity = v
		}
		if v, ok := h.Fields["created_at"].(string); ok {
			tag.CreatedAt = v
		}
		out = append(out, Result{Tag: tag, Score: h.Score})
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *bleveSuggester) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (b *bleveSuggester) Close() error {
	return b.idx.Close()
}

func docID(id int64) string { return "tag:" + strconv.FormatInt(id, 10) }

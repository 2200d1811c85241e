package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/cropline/psdgate/internal/catalog"
)

// Search limits.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Params configures a search.
type Params struct {
	Query string
	Kind  catalog.Kind // empty = all kinds
	Limit int
}

// Hit is one search result.
type Hit struct {
	Kind  catalog.Kind `json:"kind"`
	Code  string       `json:"code"`
	Name  string       `json:"name"`
	Score float64      `json:"score"`
}

// Search runs a relevance-ranked, typo-tolerant query over entry names.
func (s *Index) Search(ctx context.Context, params Params) ([]Hit, error) {
	q := strings.TrimSpace(params.Query)
	if q == "" {
		return []Hit{}, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	req := bleve.NewSearchRequestOptions(buildQuery(q, params.Kind), limit, 0, false)
	req.Fields = []string{"kind", "code", "name"}
	req.SortBy([]string{"-_score", "name"})

	s.mu.RLock()
	result, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hit := Hit{Score: h.Score}
		if k, ok := h.Fields["kind"].(string); ok {
			hit.Kind = catalog.Kind(k)
		}
		if c, ok := h.Fields["code"].(string); ok {
			hit.Code = c
		}
		if n, ok := h.Fields["name"].(string); ok {
			hit.Name = n
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// buildQuery matches the analyzed name strongest, then alternate names,
// then per-word fuzzy and prefix matches for typos and partial input.
func buildQuery(q string, kind catalog.Kind) query.Query {
	lower := strings.ToLower(q)

	nameMatch := bleve.NewMatchQuery(q)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	altMatch := bleve.NewMatchQuery(q)
	altMatch.SetField("alt")
	altMatch.SetBoost(1.5)

	textQueries := []query.Query{nameMatch, altMatch}

	for _, word := range strings.Fields(lower) {
		fuzzy := bleve.NewFuzzyQuery(word)
		fuzzy.SetField("name")
		fuzzy.SetFuzziness(fuzziness(word))
		fuzzy.SetBoost(0.8)
		textQueries = append(textQueries, fuzzy)

		if len(word) >= 2 {
			prefix := bleve.NewPrefixQuery(word)
			prefix.SetField("name")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}
	}

	text := bleve.NewDisjunctionQuery(textQueries...)
	if kind == "" {
		return text
	}

	kindQuery := bleve.NewTermQuery(string(kind))
	kindQuery.SetField("kind")
	return bleve.NewConjunctionQuery(text, kindQuery)
}

// fuzziness allows one edit for short words and two for longer ones.
func fuzziness(word string) int {
	if len(word) <= 4 {
		return 1
	}
	return 2
}

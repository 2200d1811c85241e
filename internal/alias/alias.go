// Package alias holds the curated lookup tables that translate informal or
// localized commodity, country and metric names into provider terms.
package alias

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"strings"
	"sync"

	"github.com/cropline/psdgate/internal/normalize"
)

// Tag identifies a recognized query that has its own scoring strategy.
type Tag string

const (
	// TagNone means no dedicated strategy applies.
	TagNone Tag = ""
	// TagSoy marks soy/soybean queries, which must prefer the raw oilseed
	// over meal and oil derivatives.
	TagSoy Tag = "soy"
)

// Overrides is the on-disk shape of an alias override file.
type Overrides struct {
	Commodities map[string][]string `json:"commodities"`
	Countries   map[string]string   `json:"countries"`
	Metrics     map[string]string   `json:"metrics"`
}

// Tables is a set of alias tables. Lookups are safe for concurrent use with
// Merge.
type Tables struct {
	mu          sync.RWMutex
	commodities map[string][]string
	countries   map[string]string
	metrics     map[string]string
	tags        map[string]Tag
}

// Default returns tables seeded with the built-in entries.
func Default() *Tables {
	t := &Tables{
		commodities: make(map[string][]string, len(builtinCommodities)),
		countries:   make(map[string]string, len(builtinCountries)),
		metrics:     make(map[string]string, len(builtinMetrics)),
		tags:        make(map[string]Tag, len(builtinTags)),
	}
	t.merge(Overrides{
		Commodities: builtinCommodities,
		Countries:   builtinCountries,
		Metrics:     builtinMetrics,
	})
	for k, v := range builtinTags {
		t.tags[normalize.Fold(k)] = v
	}
	return t
}

// Commodity returns the ordered candidate terms for s.
func (t *Tables) Commodity(s string) ([]string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	terms, ok := lookup(t.commodities, s)
	if !ok {
		return nil, false
	}
	return append([]string(nil), terms...), true
}

// Country returns the canonical country term for s.
func (t *Tables) Country(s string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return lookup(t.countries, s)
}

// Metric returns the canonical attribute label for s.
func (t *Tables) Metric(s string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return lookup(t.metrics, s)
}

// Tag returns the first recognized tag among the given terms.
func (t *Tables) Tag(terms ...string) Tag {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, term := range terms {
		if tag, ok := lookup(t.tags, term); ok {
			return tag
		}
	}
	return TagNone
}

// Merge adds or replaces entries. Keys are stored accent-folded. Built-in
// keys are never removed.
func (t *Tables) Merge(o Overrides) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.merge(o)
}

// Len reports the number of entries per table.
func (t *Tables) Len() (commodities, countries, metrics int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.commodities), len(t.countries), len(t.metrics)
}

func (t *Tables) merge(o Overrides) {
	for k, v := range o.Commodities {
		key := normalize.Fold(k)
		if key == "" || len(v) == 0 {
			continue
		}
		terms := make([]string, 0, len(v))
		for _, term := range v {
			if n := normalize.Normalize(term); n != "" {
				terms = append(terms, n)
			}
		}
		if len(terms) > 0 {
			t.commodities[key] = terms
		}
	}
	mergeStrings(t.countries, o.Countries, normalize.Normalize)
	mergeStrings(t.metrics, o.Metrics, strings.TrimSpace)
}

// LoadOverrides reads an override file.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- Alias file path comes from configuration
	if err != nil {
		return Overrides{}, fmt.Errorf("read alias overrides: %w", err)
	}
	var o Overrides
	if err := json.Unmarshal(data, &o); err != nil {
		return Overrides{}, fmt.Errorf("parse alias overrides %s: %w", path, err)
	}
	return o, nil
}

// MergeFile loads path and merges it into t.
func (t *Tables) MergeFile(path string) error {
	o, err := LoadOverrides(path)
	if err != nil {
		return err
	}
	t.Merge(o)
	return nil
}

// lookup tries the normalized key, then the accent-folded key. Keys are
// stored folded.
func lookup[V any](m map[string]V, s string) (V, bool) {
	if v, ok := m[normalize.Normalize(s)]; ok {
		return v, true
	}
	v, ok := m[normalize.Fold(s)]
	return v, ok
}

func mergeStrings(dst, src map[string]string, value func(string) string) {
	cleaned := make(map[string]string, len(src))
	for k, v := range src {
		key := normalize.Fold(k)
		val := value(v)
		if key == "" || val == "" {
			continue
		}
		cleaned[key] = val
	}
	maps.Copy(dst, cleaned)
}

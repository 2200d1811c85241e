// Package search provides fuzzy lookup over the reference catalogs using an
// in-memory Bleve index. It backs the catalog search endpoint and the
// suggestions attached to unresolved-name errors.
package search

import (
	"strings"

	"github.com/cropline/psdgate/internal/catalog"
)

// Document is one catalog entry as indexed.
type Document struct {
	ID   string       `json:"id"`
	Kind catalog.Kind `json:"kind"`
	Code string       `json:"code"`
	Name string       `json:"name"`
	Alt  string       `json:"alt,omitempty"`
}

// DocumentID returns the index id for a catalog entry.
func DocumentID(kind catalog.Kind, code string) string {
	return string(kind) + ":" + code
}

// NewDocument builds a document from a catalog entry. Secondary names are
// joined into Alt.
func NewDocument(kind catalog.Kind, e catalog.Entry) *Document {
	names := e.Names()
	doc := &Document{
		ID:   DocumentID(kind, e.Code),
		Kind: kind,
		Code: e.Code,
		Name: e.DisplayName(),
	}
	if len(names) > 1 {
		doc.Alt = strings.Join(names[1:], " ")
	}
	return doc
}

// ToMap converts the document to the field names used in the mapping.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"kind": string(d.Kind),
		"code": d.Code,
		"name": d.Name,
	}
	if d.Alt != "" {
		m["alt"] = d.Alt
	}
	return m
}

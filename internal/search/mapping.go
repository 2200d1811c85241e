package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping maps catalog documents: English-analyzed names so
// plurals stem together, keyword kind and code for filtering.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	altFieldMapping := bleve.NewTextFieldMapping()
	altFieldMapping.Analyzer = en.AnalyzerName
	altFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("alt", altFieldMapping)

	kindFieldMapping := bleve.NewTextFieldMapping()
	kindFieldMapping.Analyzer = keyword.Name
	kindFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("kind", kindFieldMapping)

	codeFieldMapping := bleve.NewTextFieldMapping()
	codeFieldMapping.Analyzer = keyword.Name
	codeFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("code", codeFieldMapping)

	indexMapping.DefaultMapping = docMapping

	return indexMapping
}

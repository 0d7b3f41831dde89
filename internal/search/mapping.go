package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the mapping for release documents. Titles and
// overviews are stemmed English text; names and artists use the simple
// analyzer so release-name tokens survive; kind, genres and languages are
// exact keywords.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	doc := bleve.NewDocumentMapping()

	text := func(analyzer string, store bool) *mapping.FieldMapping {
		f := bleve.NewTextFieldMapping()
		f.Analyzer = analyzer
		f.Store = store
		return f
	}

	title := text(en.AnalyzerName, true)
	title.IncludeTermVectors = true
	doc.AddFieldMappingsAt("title", title)
	doc.AddFieldMappingsAt("name", text(simple.Name, true))
	doc.AddFieldMappingsAt("artist", text(simple.Name, true))
	doc.AddFieldMappingsAt("overview", text(en.AnalyzerName, false))

	doc.AddFieldMappingsAt("kind", text(keyword.Name, true))
	doc.AddFieldMappingsAt("genres", text(keyword.Name, true))
	doc.AddFieldMappingsAt("languages", text(keyword.Name, false))
	doc.AddFieldMappingsAt("id", text(keyword.Name, true))

	year := bleve.NewNumericFieldMapping()
	year.Store = true
	doc.AddFieldMappingsAt("year", year)

	indexMapping.DefaultMapping = doc
	return indexMapping
}

package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/relprep/relprep/internal/normalize"
)

// Params configures a search.
type Params struct {
	Query    string `json:"query"`
	Kind     string `json:"kind,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Language string `json:"language,omitempty"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

// Hit is one matching release.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Kind       string            `json:"kind"`
	Title      string            `json:"title"`
	Name       string            `json:"name"`
	Artist     string            `json:"artist,omitempty"`
	Year       int               `json:"year,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Result is a page of hits.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Search runs params against the index. An empty query with no filters
// matches everything.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}
	params.Limit = min(params.Limit, 200)

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	req.Fields = []string{"kind", "title", "name", "artist", "year"}
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("title")
	if params.Query == "" {
		req.SortBy([]string{"-year", "title"})
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		hit.Kind, _ = h.Fields["kind"].(string)
		hit.Title, _ = h.Fields["title"].(string)
		hit.Name, _ = h.Fields["name"].(string)
		hit.Artist, _ = h.Fields["artist"].(string)
		if y, ok := h.Fields["year"].(float64); ok {
			hit.Year = int(y)
		}
		for field, fragments := range h.Fragments {
			if len(fragments) == 0 {
				continue
			}
			if hit.Highlights == nil {
				hit.Highlights = make(map[string]string)
			}
			hit.Highlights[field] = fragments[0]
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}

func buildQuery(params Params) query.Query {
	var must []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		title := bleve.NewMatchQuery(q)
		title.SetField("title")
		title.SetBoost(3)

		name := bleve.NewMatchQuery(q)
		name.SetField("name")

		artist := bleve.NewMatchQuery(q)
		artist.SetField("artist")
		artist.SetBoost(2)

		overview := bleve.NewMatchQuery(q)
		overview.SetField("overview")
		overview.SetBoost(0.5)

		anyOf := []query.Query{title, name, artist, overview}
		if !strings.ContainsAny(q, " \t") {
			fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
			fuzzy.SetField("title")
			fuzzy.SetFuzziness(1)
			anyOf = append(anyOf, fuzzy)
		}
		must = append(must, bleve.NewDisjunctionQuery(anyOf...))
	}

	term := func(field, value string) {
		if value == "" {
			return
		}
		t := bleve.NewTermQuery(value)
		t.SetField(field)
		must = append(must, t)
	}
	term("kind", params.Kind)
	term("genres", normalize.TagSlug(params.Genre))
	term("languages", normalize.LanguageCode(params.Language))

	if len(must) == 0 {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewConjunctionQuery(must...)
}

package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/relprep/relprep/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search releases",
		Description: "Full-text search over titles, names, artists and overviews",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching releases.
type SearchInput struct {
	Query    string `query:"q" maxLength:"200" doc:"Search query; empty lists everything, newest year first"`
	Kind     string `query:"kind" enum:"audio,video" doc:"Only releases of this kind"`
	Genre    string `query:"genre" maxLength:"100" doc:"Genre or tag slug"`
	Language string `query:"language" maxLength:"50" doc:"Audio language name or code"`
	Limit    int    `query:"limit" minimum:"0" maximum:"200" doc:"Max results (default 20)"`
	Offset   int    `query:"offset" minimum:"0" doc:"Pagination offset"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body *search.Result
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	s.logger.Debug("search request received", "query", input.Query, "kind", input.Kind, "limit", input.Limit)

	result, err := s.releases.Search(ctx, search.Params{
		Query:    input.Query,
		Kind:     input.Kind,
		Genre:    input.Genre,
		Language: input.Language,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return nil, s.fail(err)
	}
	return &SearchOutput{Body: result}, nil
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/relprep/relprep/internal/domain"
	"github.com/relprep/relprep/internal/service"
	"github.com/relprep/relprep/internal/store"
)

func (s *Server) registerReleaseRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "prepareAudio",
		Method:        http.MethodPost,
		Path:          "/api/v1/releases/audio",
		Summary:       "Prepare an album",
		Description:   "Scans an album folder, renders its description and stores the release",
		Tags:          []string{"Releases"},
		DefaultStatus: http.StatusCreated,
	}, s.handlePrepareAudio)

	huma.Register(s.api, huma.Operation{
		OperationID:   "prepareVideo",
		Method:        http.MethodPost,
		Path:          "/api/v1/releases/video",
		Summary:       "Prepare a movie or episode",
		Description:   "Reads streams with mediainfo, looks the title up on TMDB, captures screenshots and stores the release",
		Tags:          []string{"Releases"},
		DefaultStatus: http.StatusCreated,
	}, s.handlePrepareVideo)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReleases",
		Method:      http.MethodGet,
		Path:        "/api/v1/releases",
		Summary:     "List releases",
		Description: "Returns prepared releases, newest first, with cursor pagination",
		Tags:        []string{"Releases"},
	}, s.handleListReleases)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRelease",
		Method:      http.MethodGet,
		Path:        "/api/v1/releases/{id}",
		Summary:     "Get release",
		Tags:        []string{"Releases"},
	}, s.handleGetRelease)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteRelease",
		Method:        http.MethodDelete,
		Path:          "/api/v1/releases/{id}",
		Summary:       "Delete release",
		Tags:          []string{"Releases"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteRelease)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReleaseDescription",
		Method:      http.MethodGet,
		Path:        "/api/v1/releases/{id}/description",
		Summary:     "Get release description",
		Description: "Returns the description as BBCode, Markdown or HTML",
		Tags:        []string{"Releases"},
	}, s.handleGetDescription)
}

// === DTOs ===

// PrepareRequest names the folder or file to prepare.
type PrepareRequest struct {
	Path string `json:"path" minLength:"1" maxLength:"4096" validate:"required" doc:"Absolute path on the server"`
}

// PrepareInput wraps a PrepareRequest body.
type PrepareInput struct {
	Body PrepareRequest
}

// ReleaseOutput wraps a full release.
type ReleaseOutput struct {
	Body *domain.Release
}

// ReleaseIDInput addresses one release.
type ReleaseIDInput struct {
	ID string `path:"id" doc:"Release ID"`
}

// ListReleasesInput pages through releases.
type ListReleasesInput struct {
	Limit  int    `query:"limit" minimum:"0" maximum:"500" doc:"Page size (default 50)"`
	Cursor string `query:"cursor" doc:"Cursor from the previous page"`
}

// ReleaseSummary is a release without its details and description.
type ReleaseSummary struct {
	ID        string             `json:"id"`
	Kind      domain.ReleaseKind `json:"kind"`
	Path      string             `json:"path"`
	Name      string             `json:"name"`
	Title     string             `json:"title"`
	Year      int                `json:"year,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ListReleasesResponse is one page of releases.
type ListReleasesResponse struct {
	Items      []ReleaseSummary `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
	HasMore    bool             `json:"has_more"`
}

// ListReleasesOutput wraps the page for Huma.
type ListReleasesOutput struct {
	Body ListReleasesResponse
}

// DescriptionInput selects a release and output format.
type DescriptionInput struct {
	ID     string `path:"id" doc:"Release ID"`
	Format string `query:"format" enum:"bbcode,markdown,html" default:"bbcode" doc:"Output format"`
}

// DescriptionOutput is the description as plain text or HTML.
type DescriptionOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// === Handlers ===

func (s *Server) handlePrepareAudio(ctx context.Context, input *PrepareInput) (*ReleaseOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, s.fail(err)
	}
	r, err := s.releases.PrepareAudio(ctx, input.Body.Path)
	if err != nil {
		return nil, s.fail(err)
	}
	return &ReleaseOutput{Body: r}, nil
}

func (s *Server) handlePrepareVideo(ctx context.Context, input *PrepareInput) (*ReleaseOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, s.fail(err)
	}
	r, err := s.releases.PrepareVideo(ctx, input.Body.Path)
	if err != nil {
		return nil, s.fail(err)
	}
	return &ReleaseOutput{Body: r}, nil
}

func (s *Server) handleListReleases(ctx context.Context, input *ListReleasesInput) (*ListReleasesOutput, error) {
	page, err := s.releases.List(ctx, store.PaginationParams{Limit: input.Limit, Cursor: input.Cursor})
	if err != nil {
		return nil, s.fail(err)
	}

	items := make([]ReleaseSummary, len(page.Items))
	for i, r := range page.Items {
		items[i] = ReleaseSummary{
			ID:        r.ID,
			Kind:      r.Kind,
			Path:      r.Path,
			Name:      r.Name,
			Title:     r.Title,
			Year:      r.Year,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return &ListReleasesOutput{Body: ListReleasesResponse{
		Items:      items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}}, nil
}

func (s *Server) handleGetRelease(ctx context.Context, input *ReleaseIDInput) (*ReleaseOutput, error) {
	r, err := s.releases.Get(ctx, input.ID)
	if err != nil {
		return nil, s.fail(err)
	}
	return &ReleaseOutput{Body: r}, nil
}

func (s *Server) handleDeleteRelease(ctx context.Context, input *ReleaseIDInput) (*struct{}, error) {
	if err := s.releases.Delete(ctx, input.ID); err != nil {
		return nil, s.fail(err)
	}
	return nil, nil
}

func (s *Server) handleGetDescription(ctx context.Context, input *DescriptionInput) (*DescriptionOutput, error) {
	format := service.DescriptionFormat(input.Format)
	text, err := s.releases.Description(ctx, input.ID, format)
	if err != nil {
		return nil, s.fail(err)
	}

	contentType := "text/plain; charset=utf-8"
	switch format {
	case service.FormatHTML:
		contentType = "text/html; charset=utf-8"
	case service.FormatMarkdown:
		contentType = "text/markdown; charset=utf-8"
	}
	return &DescriptionOutput{ContentType: contentType, Body: []byte(text)}, nil
}

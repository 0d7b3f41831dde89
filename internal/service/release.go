// Package service implements release preparation: it runs the scanners and
// parsers, renders the description and keeps the store and index in step.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/relprep/relprep/internal/description"
	"github.com/relprep/relprep/internal/domain"
	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/imagehost"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/metadata/tmdb"
	"github.com/relprep/relprep/internal/scanner"
	"github.com/relprep/relprep/internal/screenshot"
	"github.com/relprep/relprep/internal/search"
	"github.com/relprep/relprep/internal/store"
)

// AlbumScanner scans a release folder.
type AlbumScanner interface {
	Scan(ctx context.Context, dir string, opts scanner.ScanOptions) (*scanner.Album, error)
}

// ReportRunner produces a mediainfo text report.
type ReportRunner interface {
	Report(ctx context.Context, path string) (string, error)
}

// MetadataLookup finds a movie or show for a parsed release name.
type MetadataLookup interface {
	Lookup(ctx context.Context, name tmdb.ReleaseName) (*tmdb.Details, error)
}

// FrameCapturer grabs screenshots from a video.
type FrameCapturer interface {
	Capture(ctx context.Context, video string, count int) ([]screenshot.Shot, error)
}

// ImageUploader publishes a local image.
type ImageUploader interface {
	Upload(ctx context.Context, path string) (*imagehost.Image, error)
}

// Index keeps the search index in step with the store.
type Index interface {
	IndexRelease(ctx context.Context, r *domain.Release) error
	IndexReleases(ctx context.Context, releases []*domain.Release) error
	DeleteRelease(ctx context.Context, id string) error
	Search(ctx context.Context, params search.Params) (*search.Result, error)
}

// Dependencies wires a ReleaseService. Store is required. Scanner is needed
// for audio and MediaInfo for video; the rest are optional and their steps
// are skipped with a warning on the release when absent.
type Dependencies struct {
	Store       store.Releases
	Index       Index
	Scanner     AlbumScanner
	MediaInfo   ReportRunner
	TMDB        MetadataLookup
	Screenshots FrameCapturer
	Uploader    ImageUploader

	// ScreenshotCount is how many frames a video release gets.
	ScreenshotCount int
}

// ReleaseService prepares releases and serves the prepared ones.
type ReleaseService struct {
	deps   Dependencies
	logger *logger.Logger
}

// NewReleaseService creates the service.
func NewReleaseService(deps Dependencies, log *logger.Logger) (*ReleaseService, error) {
	if deps.Store == nil {
		return nil, domainerrors.Internalf("release service needs a store")
	}
	if log == nil {
		log = logger.Discard()
	}
	return &ReleaseService{deps: deps, logger: log.Component("releases")}, nil
}

// Get returns a release by ID.
func (s *ReleaseService) Get(ctx context.Context, id string) (*domain.Release, error) {
	return s.deps.Store.GetRelease(ctx, id)
}

// List returns a page of releases, newest first.
func (s *ReleaseService) List(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.Release], error) {
	return s.deps.Store.ListReleases(ctx, params)
}

// Search queries the index.
func (s *ReleaseService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	if s.deps.Index == nil {
		return nil, domainerrors.Unavailablef("search index is not available")
	}
	return s.deps.Index.Search(ctx, params)
}

// DescriptionFormat selects how a stored description is rendered.
type DescriptionFormat string

// Description formats.
const (
	FormatBBCode   DescriptionFormat = "bbcode"
	FormatMarkdown DescriptionFormat = "markdown"
	FormatHTML     DescriptionFormat = "html"
)

// Description returns the release description in the requested format. An
// empty format means BBCode, which is how it is stored.
func (s *ReleaseService) Description(ctx context.Context, id string, format DescriptionFormat) (string, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	switch DescriptionFormat(strings.ToLower(string(format))) {
	case "", FormatBBCode:
		return r.Description, nil
	case FormatMarkdown:
		md, err := description.ToMarkdown(r.Description)
		if err != nil {
			return "", domainerrors.Wrapf(err, domainerrors.CodeInternal, "render markdown for %s", id)
		}
		return md, nil
	case FormatHTML:
		return description.ToHTML(r.Description), nil
	default:
		return "", domainerrors.Validationf("unknown description format %q", format)
	}
}

// Delete removes a release from the store and the index.
func (s *ReleaseService) Delete(ctx context.Context, id string) error {
	if err := s.deps.Store.DeleteRelease(ctx, id); err != nil {
		return err
	}
	s.unindex(ctx, id)
	s.logger.Info("release deleted", "id", id)
	return nil
}

// ForgetPath deletes the release prepared from path, if any.
func (s *ReleaseService) ForgetPath(ctx context.Context, path string) error {
	r, err := s.deps.Store.GetReleaseByPath(ctx, path)
	if err != nil {
		return err
	}
	return s.Delete(ctx, r.ID)
}

// Reindex rebuilds the search index from the store.
func (s *ReleaseService) Reindex(ctx context.Context) (int, error) {
	if s.deps.Index == nil {
		return 0, domainerrors.Unavailablef("search index is not available")
	}

	total := 0
	params := store.PaginationParams{Limit: store.MaxLimit}
	for {
		page, err := s.deps.Store.ListReleases(ctx, params)
		if err != nil {
			return total, err
		}
		if err := s.deps.Index.IndexReleases(ctx, page.Items); err != nil {
			return total, fmt.Errorf("index releases: %w", err)
		}
		total += len(page.Items)
		if !page.HasMore {
			break
		}
		params.Cursor = page.NextCursor
	}

	s.logger.Info("search index rebuilt", "releases", total)
	return total, nil
}

// save persists r and indexes it. Index failures are logged, not returned;
// Reindex repairs them.
func (s *ReleaseService) save(ctx context.Context, r *domain.Release) error {
	if err := s.deps.Store.SaveRelease(ctx, r); err != nil {
		return fmt.Errorf("save release: %w", err)
	}
	if s.deps.Index != nil {
		if err := s.deps.Index.IndexRelease(ctx, r); err != nil {
			s.logger.Warn("failed to index release", "id", r.ID, "error", err)
		}
	}
	return nil
}

func (s *ReleaseService) unindex(ctx context.Context, id string) {
	if s.deps.Index == nil {
		return
	}
	if err := s.deps.Index.DeleteRelease(ctx, id); err != nil {
		s.logger.Warn("failed to remove release from index", "id", id, "error", err)
	}
}

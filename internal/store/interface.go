// Package store defines persistence for prepared releases. The sqlite
// subpackage implements it.
package store

import (
	"context"

	"github.com/relprep/relprep/internal/domain"
)

// Releases persists prepared releases. Lookups of unknown IDs or paths fail
// with a NOT_FOUND domain error.
type Releases interface {
	// SaveRelease inserts r, or replaces the release with the same path. On
	// replace, r.ID and r.CreatedAt are set to the stored values.
	SaveRelease(ctx context.Context, r *domain.Release) error
	GetRelease(ctx context.Context, id string) (*domain.Release, error)
	GetReleaseByPath(ctx context.Context, path string) (*domain.Release, error)
	// ListReleases returns releases newest first.
	ListReleases(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.Release], error)
	DeleteRelease(ctx context.Context, id string) error
}

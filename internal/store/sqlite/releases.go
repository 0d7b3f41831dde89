package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/relprep/relprep/internal/domain"
	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/store"
)

// releaseColumns must match the scan order in scanRelease.
const releaseColumns = `id, kind, path, name, title, year, description, details, created_at, updated_at`

// details is the JSON document stored per release.
type details struct {
	Audio *domain.AudioDetails `json:"audio,omitempty"`
	Video *domain.VideoDetails `json:"video,omitempty"`
}

func scanRelease(scanner interface{ Scan(dest ...any) error }) (*domain.Release, error) {
	var (
		r                    domain.Release
		kind, raw            string
		createdAt, updatedAt string
	)
	err := scanner.Scan(&r.ID, &kind, &r.Path, &r.Name, &r.Title, &r.Year, &r.Description, &raw, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	r.Kind = domain.ReleaseKind(kind)

	var d details
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("decode release %s details: %w", r.ID, err)
	}
	r.Audio, r.Video = d.Audio, d.Video

	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// SaveRelease implements store.Releases.
func (s *Store) SaveRelease(ctx context.Context, r *domain.Release) error {
	raw, err := json.Marshal(details{Audio: r.Audio, Video: r.Video})
	if err != nil {
		return fmt.Errorf("encode release details: %w", err)
	}
	r.Touch()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = r.UpdatedAt
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO releases (`+releaseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET
			name = excluded.name,
			title = excluded.title,
			year = excluded.year,
			description = excluded.description,
			details = excluded.details,
			updated_at = excluded.updated_at
		WHERE releases.kind = excluded.kind
		RETURNING id, created_at`,
		r.ID, string(r.Kind), r.Path, r.Name, r.Title, r.Year, r.Description, string(raw),
		formatTime(r.CreatedAt), formatTime(r.UpdatedAt),
	)

	var createdAt string
	if err := row.Scan(&r.ID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domainerrors.Conflictf("%s is already stored as a different kind of release", r.Path)
		}
		return fmt.Errorf("save release %s: %w", r.Path, err)
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}

	s.logger.Debug("release saved", "id", r.ID, "path", r.Path)
	return nil
}

// GetRelease implements store.Releases.
func (s *Store) GetRelease(ctx context.Context, id string) (*domain.Release, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+releaseColumns+` FROM releases WHERE id = ?`, id)
	r, err := scanRelease(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NotFoundf("release %s not found", id)
	}
	return r, err
}

// GetReleaseByPath implements store.Releases.
func (s *Store) GetReleaseByPath(ctx context.Context, path string) (*domain.Release, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+releaseColumns+` FROM releases WHERE path = ?`, path)
	r, err := scanRelease(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NotFoundf("no release for %s", path)
	}
	return r, err
}

// ListReleases implements store.Releases. The cursor is the (created_at, id)
// of the last item of the previous page.
func (s *Store) ListReleases(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.Release], error) {
	params.Normalize()
	after, err := store.DecodeCursor(params.Cursor, 2)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + releaseColumns + ` FROM releases`
	args := []any{}
	if after != nil {
		query += ` WHERE (created_at, id) < (?, ?)`
		args = append(args, after[0], after[1])
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, params.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	defer rows.Close()

	result := &store.PaginatedResult[*domain.Release]{Items: []*domain.Release{}}
	for rows.Next() {
		r, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result.Items) > params.Limit {
		result.Items = result.Items[:params.Limit]
		last := result.Items[len(result.Items)-1]
		result.HasMore = true
		result.NextCursor = store.EncodeCursor(formatTime(last.CreatedAt), last.ID)
	}
	return result, nil
}

// DeleteRelease implements store.Releases.
func (s *Store) DeleteRelease(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM releases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete release %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domainerrors.NotFoundf("release %s not found", id)
	}
	return nil
}

var _ store.Releases = (*Store)(nil)

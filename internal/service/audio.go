package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/relprep/relprep/internal/description"
	"github.com/relprep/relprep/internal/domain"
	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/id"
	"github.com/relprep/relprep/internal/scanner"
)

// PrepareAudio scans an album folder, renders its description and stores the
// release. Preparing the same folder again replaces the earlier release.
func (s *ReleaseService) PrepareAudio(ctx context.Context, dir string) (*domain.Release, error) {
	if s.deps.Scanner == nil {
		return nil, domainerrors.Unavailablef("audio scanning is not configured")
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, domainerrors.Validationf("invalid path %q", dir)
	}

	album, err := s.deps.Scanner.Scan(ctx, dir, scanner.ScanOptions{
		OnProgress: func(p scanner.Progress) {
			s.logger.Debug("scan progress", "dir", dir, "phase", p.Phase, "current", p.Current, "total", p.Total)
		},
	})
	if err != nil {
		return nil, err
	}

	tracks := album.Tracks()
	meta := album.Metadata

	releaseID, err := id.NewRelease()
	if err != nil {
		return nil, fmt.Errorf("generate release id: %w", err)
	}

	name := filepath.Base(dir)
	title := name
	if meta.Album != nil && *meta.Album != "" {
		title = *meta.Album
	}
	year := 0
	if meta.Year != nil {
		year = *meta.Year
	}

	now := time.Now()
	release := &domain.Release{
		ID:          releaseID,
		Kind:        domain.KindAudio,
		Path:        dir,
		Name:        name,
		Title:       title,
		Year:        year,
		Description: description.Album(meta, album.Results),
		Audio: &domain.AudioDetails{
			Album:  meta,
			Tracks: tracks,
			Failed: album.Failed(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.save(ctx, release); err != nil {
		return nil, err
	}

	s.logger.Info("audio release prepared",
		"id", release.ID,
		"dir", dir,
		"title", title,
		"tracks", meta.TrackCount,
		"failed", len(release.Audio.Failed),
	)
	return release, nil
}

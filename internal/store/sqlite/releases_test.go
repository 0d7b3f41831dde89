package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relprep/relprep/internal/domain"
	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/mediainfo"
	"github.com/relprep/relprep/internal/scanner"
	"github.com/relprep/relprep/internal/store"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func audioRelease(id, path string) *domain.Release {
	album := "Moon Safari"
	return &domain.Release{
		ID:          id,
		Kind:        domain.KindAudio,
		Path:        path,
		Name:        filepath.Base(path),
		Title:       album,
		Year:        1998,
		Description: "[b]Album:[/b] Moon Safari\n",
		Audio: &domain.AudioDetails{
			Album:  scanner.AlbumMetadata{Album: &album, TrackCount: 10},
			Failed: []string{path + "/bad.flac"},
		},
	}
}

func TestSaveAndGetRelease(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	r := audioRelease("rel-1", "/music/Air - Moon Safari")
	require.NoError(t, s.SaveRelease(ctx, r))
	assert.False(t, r.CreatedAt.IsZero())

	got, err := s.GetRelease(ctx, "rel-1")
	require.NoError(t, err)
	assert.Equal(t, domain.KindAudio, got.Kind)
	assert.Equal(t, "Moon Safari", got.Title)
	assert.Equal(t, 1998, got.Year)
	require.NotNil(t, got.Audio)
	assert.Equal(t, "Moon Safari", *got.Audio.Album.Album)
	assert.Equal(t, 10, got.Audio.Album.TrackCount)
	assert.Equal(t, []string{"/music/Air - Moon Safari/bad.flac"}, got.Audio.Failed)
	assert.Nil(t, got.Video)

	byPath, err := s.GetReleaseByPath(ctx, "/music/Air - Moon Safari")
	require.NoError(t, err)
	assert.Equal(t, "rel-1", byPath.ID)
}

func TestSaveRelease_ReplacesByPath(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	first := audioRelease("rel-1", "/music/a")
	require.NoError(t, s.SaveRelease(ctx, first))

	second := audioRelease("rel-2", "/music/a")
	second.Title = "Renamed"
	require.NoError(t, s.SaveRelease(ctx, second))

	assert.Equal(t, "rel-1", second.ID, "the stored id wins")
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	got, err := s.GetRelease(ctx, "rel-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	_, err = s.GetRelease(ctx, "rel-2")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestSaveRelease_TouchesUpdatedAt(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	r := audioRelease("rel-1", "/music/a")
	require.NoError(t, s.SaveRelease(ctx, r))
	created := r.CreatedAt
	firstUpdate := r.UpdatedAt
	assert.True(t, created.Equal(firstUpdate))

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.SaveRelease(ctx, r))
	assert.True(t, r.UpdatedAt.After(firstUpdate))
	assert.True(t, r.CreatedAt.Equal(created))
}

func TestSaveRelease_KindChangeConflicts(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRelease(ctx, audioRelease("rel-1", "/media/x")))

	video := &domain.Release{ID: "rel-2", Kind: domain.KindVideo, Path: "/media/x", Name: "x"}
	err := s.SaveRelease(ctx, video)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))

	got, err := s.GetReleaseByPath(ctx, "/media/x")
	require.NoError(t, err)
	assert.Equal(t, domain.KindAudio, got.Kind)
	assert.Equal(t, "rel-1", got.ID)
}

func TestVideoReleaseDetails(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	r := &domain.Release{
		ID:   "rel-v",
		Kind: domain.KindVideo,
		Path: "/movies/Heat.1995.mkv",
		Name: "Heat.1995.mkv",
		Video: &domain.VideoDetails{
			Streams:  []mediainfo.StreamRecord{{ID: "2", Format: "AC-3", Language: "English"}},
			Warnings: []string{"tmdb: not configured"},
		},
	}
	require.NoError(t, s.SaveRelease(ctx, r))

	got, err := s.GetRelease(ctx, "rel-v")
	require.NoError(t, err)
	require.NotNil(t, got.Video)
	assert.Equal(t, "AC-3", got.Video.Streams[0].Format)
	assert.Equal(t, []string{"tmdb: not configured"}, got.Video.Warnings)
	assert.Nil(t, got.Audio)
}

func TestListReleases_Paginates(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		r := audioRelease(fmt.Sprintf("rel-%d", i), fmt.Sprintf("/music/%d", i))
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.SaveRelease(ctx, r))
	}

	var ids []string
	params := store.PaginationParams{Limit: 2}
	for {
		page, err := s.ListReleases(ctx, params)
		require.NoError(t, err)
		for _, r := range page.Items {
			ids = append(ids, r.ID)
		}
		if !page.HasMore {
			break
		}
		params.Cursor = page.NextCursor
	}

	assert.Equal(t, []string{"rel-4", "rel-3", "rel-2", "rel-1", "rel-0"}, ids)
}

func TestListReleases_Empty(t *testing.T) {
	s := setupStore(t)

	page, err := s.ListReleases(context.Background(), store.PaginationParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}

func TestListReleases_BadCursor(t *testing.T) {
	s := setupStore(t)

	_, err := s.ListReleases(context.Background(), store.PaginationParams{Cursor: "%%%"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestDeleteRelease(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRelease(ctx, audioRelease("rel-1", "/music/a")))
	require.NoError(t, s.DeleteRelease(ctx, "rel-1"))

	err := s.DeleteRelease(ctx, "rel-1")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

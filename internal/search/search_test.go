package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relprep/relprep/internal/domain"
	"github.com/relprep/relprep/internal/mediainfo"
	"github.com/relprep/relprep/internal/metadata/tmdb"
	"github.com/relprep/relprep/internal/scanner"
)

func strp(s string) *string { return &s }

func setupIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func fixtures() []*domain.Release {
	return []*domain.Release{
		{
			ID: "rel-air", Kind: domain.KindAudio, Name: "Air - Moon Safari (1998) [FLAC]", Title: "Moon Safari", Year: 1998,
			Audio: &domain.AudioDetails{Album: scanner.AlbumMetadata{Artist: strp("Air"), Genre: strp("Electronic; Downtempo")}},
		},
		{
			ID: "rel-heat", Kind: domain.KindVideo, Name: "Heat.1995.1080p.BluRay", Title: "Heat", Year: 1995,
			Video: &domain.VideoDetails{
				TMDB:    &tmdb.Details{Overview: "A group of professional bank robbers.", Genres: []string{"Crime", "Drama"}},
				Streams: []mediainfo.StreamRecord{{Language: "English"}, {Language: "French"}},
			},
		},
		{
			ID: "rel-dt", Kind: domain.KindAudio, Name: "Daft Punk - Discovery", Title: "Discovery", Year: 2001,
			Audio: &domain.AudioDetails{Album: scanner.AlbumMetadata{Artist: strp("Daft Punk"), Genre: strp("Electronic")}},
		},
	}
}

func ids(r *Result) []string {
	out := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		out[i] = h.ID
	}
	return out
}

func TestReleaseToDocument(t *testing.T) {
	rs := fixtures()

	doc := ReleaseToDocument(rs[0])
	assert.Equal(t, "Air", doc.Artist)
	assert.Equal(t, []string{"electronic", "downtempo"}, doc.Genres)

	doc = ReleaseToDocument(rs[1])
	assert.Equal(t, []string{"crime", "drama"}, doc.Genres)
	assert.Equal(t, []string{"en", "fr"}, doc.Languages)
	assert.Contains(t, doc.Overview, "bank robbers")
}

func TestSearch(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()
	require.NoError(t, idx.IndexReleases(ctx, fixtures()))

	n, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	res, err := idx.Search(ctx, Params{Query: "heat"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "rel-heat", res.Hits[0].ID)
	assert.Equal(t, "video", res.Hits[0].Kind)
	assert.Equal(t, 1995, res.Hits[0].Year)

	res, err = idx.Search(ctx, Params{Query: "daft punk"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "rel-dt", res.Hits[0].ID)

	res, err = idx.Search(ctx, Params{Query: "robbers"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rel-heat"}, ids(res))
}

func TestSearch_Filters(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()
	require.NoError(t, idx.IndexReleases(ctx, fixtures()))

	res, err := idx.Search(ctx, Params{Kind: "audio"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"rel-air", "rel-dt"}, ids(res))

	res, err = idx.Search(ctx, Params{Genre: "Downtempo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rel-air"}, ids(res))

	res, err = idx.Search(ctx, Params{Language: "fre"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rel-heat"}, ids(res))

	res, err = idx.Search(ctx, Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"rel-dt", "rel-air", "rel-heat"}, ids(res), "newest year first")
}

func TestDeleteRelease(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()
	rs := fixtures()
	require.NoError(t, idx.IndexRelease(ctx, rs[1]))
	require.NoError(t, idx.DeleteRelease(ctx, rs[1].ID))

	res, err := idx.Search(ctx, Params{Query: "heat"})
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
}

func TestOpen_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	idx, err := Open(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, idx.IndexRelease(ctx, fixtures()[0]))
	require.NoError(t, idx.Close())

	idx, err = Open(Options{DataPath: dir})
	require.NoError(t, err)
	defer idx.Close()

	n, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/scanner/audio"
)

func touch(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func qualityp(q audio.Quality) *audio.Quality { return &q }
func formatp(f audio.Format) *audio.Format    { return &f }

func TestDiscover_TopLevelFirst(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "10 - ten.flac"), 1)
	touch(t, filepath.Join(dir, "02 - two.FLAC"), 1)
	touch(t, filepath.Join(dir, "extras", "01 - bonus.flac"), 1)
	touch(t, filepath.Join(dir, "cover.jpg"), 1)
	touch(t, filepath.Join(dir, ".01 - hidden.flac"), 1)

	got, err := Discover(dir, logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "02 - two.FLAC"),
		filepath.Join(dir, "10 - ten.flac"),
	}, got, "nested flac files are ignored once the top level has some")
}

func TestDiscover_RecursiveFallback(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "CD2", "01 - b.mp3"), 1)
	touch(t, filepath.Join(dir, "CD1", "01 - a.mp3"), 1)
	touch(t, filepath.Join(dir, "CD1", "02 - c.mp3"), 1)
	touch(t, filepath.Join(dir, ".git", "03 - x.mp3"), 1)

	got, err := Discover(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "CD1", "01 - a.mp3"),
		filepath.Join(dir, "CD2", "01 - b.mp3"),
		filepath.Join(dir, "CD1", "02 - c.mp3"),
	}, got)
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

func TestOrderTracks(t *testing.T) {
	in := []string{"b.flac", "10 x.flac", "Intro.flac", "2 y.flac", "02 z.flac", "1.flac"}

	assert.Equal(t, []string{"1.flac", "2 y.flac", "02 z.flac", "10 x.flac", "b.flac", "Intro.flac"}, OrderTracks(in))
	assert.Equal(t, "b.flac", in[0], "input is not modified")
}

func TestTrackIndex(t *testing.T) {
	n, ok := TrackIndex("/music/Album/07. Song.flac")
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = TrackIndex("/music/Album/Track 07.flac")
	assert.False(t, ok)
}

func TestMajority_TieGoesToFirstSeen(t *testing.T) {
	years := []*int{intp(2001), intp(2002), intp(2001), intp(2002)}
	for range 20 {
		got := majority(years)
		require.NotNil(t, got)
		assert.Equal(t, 2001, *got)
	}
}

func TestMajority(t *testing.T) {
	assert.Nil(t, majority([]*string{nil, nil}))
	assert.Nil(t, majority[string](nil))
	assert.Equal(t, "B", *majority([]*string{strp("A"), nil, strp("B"), strp("B")}))
	assert.Equal(t, "A", *majority([]*string{nil, strp("A"), strp("B")}))
}

func track(album string, year int, q audio.Quality, f audio.Format, dur int) *audio.TrackMetadata {
	return &audio.TrackMetadata{
		Album:    strp(album),
		Artist:   strp("Artist"),
		Year:     intp(year),
		Duration: intp(dur),
		Quality:  qualityp(q),
		Format:   formatp(f),
	}
}

func TestAggregate_FailedTrackCountsOnlyForSize(t *testing.T) {
	results := []audio.Result{
		{Path: "01.flac", Size: 100, Track: track("Good", 1999, audio.QualityLossless, audio.FormatFLAC, 200)},
		{Path: "02.flac", Size: 200, Err: errors.New("corrupt")},
		{Path: "03.flac", Size: 300, Track: track("Good", 1999, audio.QualityLossless, audio.FormatFLAC, 100)},
	}

	md := Aggregate(results)

	assert.Equal(t, 3, md.TrackCount)
	assert.Equal(t, 2, md.ExtractedCount)
	assert.Equal(t, int64(600), md.TotalSize)
	assert.Equal(t, 300, md.TotalDuration)
	assert.Equal(t, "Good", *md.Album)
	assert.Equal(t, 1999, *md.Year)
	assert.Equal(t, audio.QualityLossless, *md.Quality)
	assert.Equal(t, []audio.Format{audio.FormatFLAC}, md.Formats)
}

func TestAggregate_BestQualityAndFormats(t *testing.T) {
	results := []audio.Result{
		{Track: track("A", 2001, audio.QualityLow, audio.FormatMP3, 10)},
		{Track: track("A", 2002, audio.QualityHigh, audio.FormatAAC, 10)},
		{Track: track("B", 2001, audio.QualityMedium, audio.FormatMP3, 10)},
		{Track: track("B", 2002, audio.QualityLow, audio.FormatMP3, 10)},
	}

	md := Aggregate(results)

	assert.Equal(t, audio.QualityHigh, *md.Quality)
	assert.Equal(t, []audio.Format{audio.FormatMP3, audio.FormatAAC}, md.Formats)
	assert.Equal(t, 2001, *md.Year)
	assert.Equal(t, "A", *md.Album)
}

func TestAggregate_NoQualityIsAbsent(t *testing.T) {
	results := []audio.Result{
		{Path: "01.mp3", Size: 5, Track: &audio.TrackMetadata{Path: "01.mp3", Format: formatp(audio.FormatMP3)}},
		{Path: "02.mp3", Size: 5, Track: &audio.TrackMetadata{Path: "02.mp3"}},
	}

	md := Aggregate(results)

	assert.Nil(t, md.Quality, "no readable quality must not default to low")
	assert.Equal(t, 0, md.TotalDuration)
	assert.Nil(t, md.Year)
	assert.Nil(t, md.Album)
}

func TestAggregate_Empty(t *testing.T) {
	md := Aggregate(nil)

	assert.Zero(t, md.TrackCount)
	assert.Nil(t, md.Quality)
	assert.NotNil(t, md.Formats)
}

type mapDecoder map[string]*audio.Decoded

func (m mapDecoder) Decode(_ context.Context, path string) (*audio.Decoded, error) {
	if d, ok := m[filepath.Base(path)]; ok {
		return d, nil
	}
	return nil, errors.New("unreadable")
}

func TestScanner_Scan(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "02 - second.flac"), 20)
	touch(t, filepath.Join(dir, "01 - first.flac"), 10)
	touch(t, filepath.Join(dir, "03 - broken.flac"), 30)

	tags := func(title string) audio.TagContainer {
		return audio.NewFLACComments(map[string][]string{"TITLE": {title}, "ALBUM": {"Record"}, "DATE": {"2010"}})
	}
	dec := mapDecoder{
		"01 - first.flac":  {Format: audio.FormatFLAC, Tags: tags("First")},
		"02 - second.flac": {Format: audio.FormatFLAC, Tags: tags("Second")},
	}
	ex, err := audio.NewExtractor(dec, logger.Discard())
	require.NoError(t, err)

	var phases []ScanPhase
	s := NewScanner(ex, logger.Discard())
	album, err := s.Scan(context.Background(), dir, ScanOptions{OnProgress: func(p Progress) {
		if len(phases) == 0 || phases[len(phases)-1] != p.Phase {
			phases = append(phases, p.Phase)
		}
	}})
	require.NoError(t, err)

	assert.Equal(t, 3, album.Metadata.TrackCount)
	assert.Equal(t, 2, album.Metadata.ExtractedCount)
	assert.Equal(t, int64(60), album.Metadata.TotalSize)
	assert.Equal(t, "Record", *album.Metadata.Album)
	assert.Equal(t, 2010, *album.Metadata.Year)

	tracks := album.Tracks()
	require.Len(t, tracks, 2)
	assert.Equal(t, "First", *tracks[0].Title)
	assert.Equal(t, "Second", *tracks[1].Title)
	assert.Equal(t, []string{filepath.Join(dir, "03 - broken.flac")}, album.Failed())

	assert.Equal(t, []ScanPhase{PhaseDiscovering, PhaseExtracting, PhaseAggregating, PhaseComplete}, phases)
}

func TestScanner_ScanErrors(t *testing.T) {
	ex, err := audio.NewExtractor(mapDecoder{}, nil)
	require.NoError(t, err)
	s := NewScanner(ex, nil)

	_, err = s.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), ScanOptions{})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	empty := t.TempDir()
	touch(t, filepath.Join(empty, "notes.txt"), 1)
	_, err = s.Scan(context.Background(), empty, ScanOptions{})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	file := filepath.Join(empty, "notes.txt")
	_, err = s.Scan(context.Background(), file, ScanOptions{})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

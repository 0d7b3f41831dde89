package scanner

import (
	"cmp"
	"slices"

	"github.com/relprep/relprep/internal/scanner/audio"
)

// Aggregate derives album metadata from per-file results in scan order.
// Voted fields and durations come from extracted tracks only; TrackCount
// and TotalSize cover every result.
func Aggregate(results []audio.Result) AlbumMetadata {
	md := AlbumMetadata{
		TrackCount: len(results),
		Formats:    []audio.Format{},
	}

	var (
		albums, artists, albumArtists, genres []*string
		years                                 []*int
	)
	for _, r := range results {
		md.TotalSize += r.Size

		t := r.Track
		if t == nil {
			continue
		}
		md.ExtractedCount++

		albums = append(albums, t.Album)
		artists = append(artists, t.Artist)
		albumArtists = append(albumArtists, t.AlbumArtist)
		genres = append(genres, t.Genre)
		years = append(years, t.Year)

		if t.Duration != nil {
			md.TotalDuration += *t.Duration
		}
		if t.Quality != nil && (md.Quality == nil || t.Quality.Rank() > md.Quality.Rank()) {
			q := *t.Quality
			md.Quality = &q
		}
		if t.Format != nil && !slices.Contains(md.Formats, *t.Format) {
			md.Formats = append(md.Formats, *t.Format)
		}
	}

	md.Album = majority(albums)
	md.Artist = majority(artists)
	md.AlbumArtist = majority(albumArtists)
	md.Genre = majority(genres)
	md.Year = majority(years)

	return md
}

// majority returns the most frequent non-nil value. Values are grouped into
// buckets by equality and the buckets ordered by count, highest first, then
// by the index of their first occurrence, so ties go to the value seen first.
func majority[T comparable](values []*T) *T {
	type bucket struct {
		value T
		count int
		first int
	}

	var buckets []*bucket
	index := make(map[T]*bucket)
	for i, v := range values {
		if v == nil {
			continue
		}
		b, ok := index[*v]
		if !ok {
			b = &bucket{value: *v, first: i}
			index[*v] = b
			buckets = append(buckets, b)
		}
		b.count++
	}
	if len(buckets) == 0 {
		return nil
	}

	slices.SortFunc(buckets, func(a, b *bucket) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.first, b.first)
	})

	winner := buckets[0].value
	return &winner
}

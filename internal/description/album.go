// Package description renders release metadata as BBCode for the tracker,
// with a Markdown preview derived from the same markup.
package description

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/relprep/relprep/internal/normalize"
	"github.com/relprep/relprep/internal/scanner"
	"github.com/relprep/relprep/internal/scanner/audio"
)

// MaxListedTracks caps the tracklist of an album description.
const MaxListedTracks = 50

// Album renders an album description. results holds every discovered file in
// scan order, extracted or not; positions in the tracklist are 1-based and a
// file that could not be read is listed by its filename.
func Album(album scanner.AlbumMetadata, results []audio.Result) string {
	var b builder

	b.field("Album", deref(album.Album))
	b.field("Artist", deref(album.Artist))
	if album.AlbumArtist != nil && deref(album.AlbumArtist) != deref(album.Artist) {
		b.field("Album Artist", *album.AlbumArtist)
	}
	if album.Year != nil {
		b.field("Year", strconv.Itoa(*album.Year))
	}
	if album.Genre != nil {
		b.field("Genre", *album.Genre)
		b.field("Tags", strings.Join(normalize.TagSlugs(*album.Genre), " "))
	}
	if len(album.Formats) > 0 {
		labels := make([]string, len(album.Formats))
		for i, f := range album.Formats {
			labels[i] = f.Label()
		}
		b.field("Format", strings.Join(labels, ", "))
	}
	if album.Quality != nil {
		b.field("Quality", qualityLabel(*album.Quality))
	}
	if album.TrackCount > 0 {
		b.field("Tracks", strconv.Itoa(album.TrackCount))
	}
	if album.TotalDuration > 0 {
		b.field("Duration", Duration(album.TotalDuration))
	}
	if album.TotalSize > 0 {
		b.field("Size", humanize.IBytes(uint64(album.TotalSize)))
	}

	if len(results) > 0 {
		b.blank()
		b.line("[b]Tracklist[/b]")
		for i, r := range results {
			if i == MaxListedTracks {
				b.line(fmt.Sprintf("... and %d more tracks", len(results)-MaxListedTracks))
				break
			}
			b.line(fmt.Sprintf("%02d. %s", i+1, trackEntry(r)))
		}
	}

	return b.String()
}

func trackEntry(r audio.Result) string {
	t := r.Track
	if t == nil {
		return plain(filepath.Base(r.Path))
	}
	entry := plain(t.DisplayTitle())
	if t.Duration != nil {
		entry += " [" + Duration(*t.Duration) + "]"
	}
	return entry
}

// Track renders the description of a single-file release.
func Track(t *audio.TrackMetadata) string {
	var b builder

	b.field("Title", t.DisplayTitle())
	b.field("Artist", deref(t.Artist))
	b.field("Album", deref(t.Album))
	if t.AlbumArtist != nil && deref(t.AlbumArtist) != deref(t.Artist) {
		b.field("Album Artist", *t.AlbumArtist)
	}
	if t.Year != nil {
		b.field("Year", strconv.Itoa(*t.Year))
	}
	b.field("Genre", deref(t.Genre))
	if t.TrackNumber != nil {
		b.field("Track", strconv.Itoa(*t.TrackNumber))
	}
	if t.Format != nil {
		b.field("Format", t.Format.Label())
	}
	if t.Quality != nil {
		b.field("Quality", qualityLabel(*t.Quality))
	}
	if t.Bitrate != nil {
		b.field("Bitrate", fmt.Sprintf("%d kbps", *t.Bitrate/1000))
	}
	if t.SampleRate != nil {
		b.field("Sample Rate", fmt.Sprintf("%.1f kHz", float64(*t.SampleRate)/1000))
	}
	if t.Channels != nil {
		b.field("Channels", strconv.Itoa(*t.Channels))
	}
	if t.Duration != nil {
		b.field("Duration", Duration(*t.Duration))
	}
	if t.Size > 0 {
		b.field("Size", humanize.IBytes(uint64(t.Size)))
	}

	return b.String()
}

// Duration formats whole seconds as M:SS, or H:MM:SS from an hour up.
func Duration(seconds int) string {
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func qualityLabel(q audio.Quality) string {
	s := string(q)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// builder accumulates description lines.
type builder struct {
	strings.Builder
}

func (b *builder) line(s string) {
	b.WriteString(s)
	b.WriteByte('\n')
}

func (b *builder) blank() {
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
}

// field writes "[b]Label:[/b] value", skipping empty values.
func (b *builder) field(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.line("[b]" + label + ":[/b] " + plain(value))
}

package audio

import (
	"maps"
	"regexp"
	"strconv"
	"strings"
)

// Shape identifies how a tag container keys its fields.
type Shape string

// Container shapes.
const (
	ShapeFLAC Shape = "flac" // Vorbis comments in a FLAC stream
	ShapeID3  Shape = "id3"  // ID3v2 frames
	ShapeOgg  Shape = "ogg"  // Vorbis comments in an Ogg stream
	ShapeMP4  Shape = "mp4"  // iTunes ilst atoms
)

// Field is a destination field of TrackMetadata filled from tags.
type Field int

// Tag-backed fields.
const (
	FieldTitle Field = iota
	FieldArtist
	FieldAlbum
	FieldYear
	FieldGenre
	FieldTrackNumber
	FieldAlbumArtist
)

// TagContainer is a decoded, format-specific tag set. Each implementation
// owns the table translating destination fields to its own keys.
type TagContainer interface {
	Shape() Shape
	// Value returns the first non-empty value stored for f.
	Value(f Field) (string, bool)
}

// listTags is a case-insensitive multi-valued tag set.
type listTags map[string][]string

func newListTags(raw map[string][]string) listTags {
	t := make(listTags, len(raw))
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(k))
		t[key] = append(t[key], v...)
	}
	return t
}

func (t listTags) first(keys ...string) (string, bool) {
	for _, k := range keys {
		for _, v := range t[k] {
			if v = strings.TrimSpace(v); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// FLACComments holds Vorbis comments read from a FLAC file, keyed by
// lower-case field name.
type FLACComments struct{ tags listTags }

var flacFields = map[Field][]string{
	FieldTitle:       {"title"},
	FieldArtist:      {"artist"},
	FieldAlbum:       {"album"},
	FieldYear:        {"date", "year", "originaldate"},
	FieldGenre:       {"genre"},
	FieldTrackNumber: {"tracknumber"},
	FieldAlbumArtist: {"albumartist", "album artist"},
}

// NewFLACComments wraps raw Vorbis comments. Keys are lower-cased.
func NewFLACComments(raw map[string][]string) *FLACComments {
	return &FLACComments{tags: newListTags(raw)}
}

// Shape implements TagContainer.
func (c *FLACComments) Shape() Shape { return ShapeFLAC }

// Value implements TagContainer.
func (c *FLACComments) Value(f Field) (string, bool) { return c.tags.first(flacFields[f]...) }

// OggComments holds Vorbis comments read from an Ogg Vorbis or Opus stream.
type OggComments struct{ tags listTags }

var oggFields = map[Field][]string{
	FieldTitle:       {"title"},
	FieldArtist:      {"artist"},
	FieldAlbum:       {"album"},
	FieldYear:        {"date", "year"},
	FieldGenre:       {"genre"},
	FieldTrackNumber: {"tracknumber"},
	FieldAlbumArtist: {"albumartist", "album_artist"},
}

// NewOggComments wraps raw Vorbis comments. Keys are lower-cased.
func NewOggComments(raw map[string][]string) *OggComments {
	return &OggComments{tags: newListTags(raw)}
}

// Shape implements TagContainer.
func (c *OggComments) Shape() Shape { return ShapeOgg }

// Value implements TagContainer.
func (c *OggComments) Value(f Field) (string, bool) { return c.tags.first(oggFields[f]...) }

// ID3Frames holds text frames keyed by ID3v2 frame identifier. Both v2.3/2.4
// four-letter and v2.2 three-letter identifiers are recognised.
type ID3Frames struct{ frames map[string]string }

var id3Fields = map[Field][]string{
	FieldTitle:       {"TIT2", "TT2"},
	FieldArtist:      {"TPE1", "TP1"},
	FieldAlbum:       {"TALB", "TAL"},
	FieldYear:        {"TDRC", "TYER", "TDRL", "TYE"},
	FieldGenre:       {"TCON", "TCO"},
	FieldTrackNumber: {"TRCK", "TRK"},
	FieldAlbumArtist: {"TPE2", "TP2"},
}

// NewID3Frames wraps frame values keyed by identifier.
func NewID3Frames(frames map[string]string) *ID3Frames {
	return &ID3Frames{frames: maps.Clone(frames)}
}

// Shape implements TagContainer.
func (c *ID3Frames) Shape() Shape { return ShapeID3 }

// Value implements TagContainer. Genre references such as "(17)" or "17"
// are resolved against the ID3v1 genre list.
func (c *ID3Frames) Value(f Field) (string, bool) {
	for _, id := range id3Fields[f] {
		v := strings.TrimSpace(strings.TrimRight(c.frames[id], "\x00"))
		if v == "" {
			continue
		}
		if f == FieldGenre {
			v = resolveID3Genre(v)
		}
		return v, true
	}
	return "", false
}

// MP4Atoms holds ilst atom values keyed by their four-character atom name.
// Names starting with the copyright sign are stored with the raw 0xA9 byte,
// as they appear in the file.
type MP4Atoms struct{ atoms map[string][]string }

var mp4Fields = map[Field][]string{
	FieldTitle:       {"\xa9nam"},
	FieldArtist:      {"\xa9ART"},
	FieldAlbum:       {"\xa9alb"},
	FieldYear:        {"\xa9day"},
	FieldGenre:       {"\xa9gen", "gnre"},
	FieldTrackNumber: {"trkn"},
	FieldAlbumArtist: {"aART"},
}

// NewMP4Atoms wraps atom values. A UTF-8 "©" prefix is folded to the raw byte.
func NewMP4Atoms(raw map[string][]string) *MP4Atoms {
	atoms := make(map[string][]string, len(raw))
	for k, v := range raw {
		if rest, ok := strings.CutPrefix(k, "©"); ok {
			k = "\xa9" + rest
		}
		atoms[k] = append(atoms[k], v...)
	}
	return &MP4Atoms{atoms: atoms}
}

// Shape implements TagContainer.
func (c *MP4Atoms) Shape() Shape { return ShapeMP4 }

// Value implements TagContainer.
func (c *MP4Atoms) Value(f Field) (string, bool) {
	for _, atom := range mp4Fields[f] {
		for _, v := range c.atoms[atom] {
			if v = strings.TrimSpace(v); v == "" {
				continue
			}
			if atom == "gnre" {
				// gnre stores the ID3v1 index plus one.
				if n, err := strconv.Atoi(v); err == nil {
					v = strconv.Itoa(n - 1)
				}
				v = resolveID3Genre(v)
			}
			return v, true
		}
	}
	return "", false
}

var (
	yearPattern   = regexp.MustCompile(`\b(\d{4})\b`)
	leadingNumber = regexp.MustCompile(`^\s*(\d+)`)
)

// parseYear extracts the first four-digit year from a date tag such as
// "2001-05-03" or "2001".
func parseYear(s string) (int, bool) {
	m := yearPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(m[1])
	if err != nil || y == 0 {
		return 0, false
	}
	return y, true
}

// parseTrackNumber reads "3", "03" or "3/12".
func parseTrackNumber(s string) (int, bool) {
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

package audio

import (
	"path/filepath"
	"strings"
)

// TrackMetadata is the normalized record for one audio file. Optional fields
// are nil when the tag or property is missing or unparseable.
type TrackMetadata struct {
	Path string `json:"path"`
	Size int64  `json:"size"`

	Title       *string `json:"title,omitempty"`
	Artist      *string `json:"artist,omitempty"`
	Album       *string `json:"album,omitempty"`
	AlbumArtist *string `json:"album_artist,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Year        *int    `json:"year,omitempty"`
	TrackNumber *int    `json:"track_number,omitempty"`

	// Duration is in whole seconds.
	Duration   *int `json:"duration,omitempty"`
	Bitrate    *int `json:"bitrate,omitempty"`
	SampleRate *int `json:"sample_rate,omitempty"`
	Channels   *int `json:"channels,omitempty"`

	Format  *Format  `json:"format,omitempty"`
	Quality *Quality `json:"quality,omitempty"`
}

// Filename is the base name of the file.
func (t *TrackMetadata) Filename() string {
	return filepath.Base(t.Path)
}

// DisplayTitle returns the title tag, or the filename when there is none.
func (t *TrackMetadata) DisplayTitle() string {
	if t.Title != nil && strings.TrimSpace(*t.Title) != "" {
		return *t.Title
	}
	return t.Filename()
}

func ptr[T any](v T) *T { return &v }

// Package domain holds the records relprep persists and serves.
package domain

import (
	"time"

	"github.com/relprep/relprep/internal/bdinfo"
	"github.com/relprep/relprep/internal/mediainfo"
	"github.com/relprep/relprep/internal/metadata/tmdb"
	"github.com/relprep/relprep/internal/scanner"
	"github.com/relprep/relprep/internal/scanner/audio"
	"github.com/relprep/relprep/internal/screenshot"
)

// ReleaseKind tells audio releases from video releases.
type ReleaseKind string

// Release kinds.
const (
	KindAudio ReleaseKind = "audio"
	KindVideo ReleaseKind = "video"
)

// Release is a prepared upload: the metadata derived from a folder or file
// and the description rendered from it. Path is unique; preparing the same
// path again replaces the release but keeps its ID.
type Release struct {
	ID          string      `json:"id"`
	Kind        ReleaseKind `json:"kind"`
	Path        string      `json:"path"`
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Year        int         `json:"year,omitempty"`
	Description string      `json:"description"`

	Audio *AudioDetails `json:"audio,omitempty"`
	Video *VideoDetails `json:"video,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AudioDetails is what an album scan produced.
type AudioDetails struct {
	Album  scanner.AlbumMetadata  `json:"album"`
	Tracks []*audio.TrackMetadata `json:"tracks"`
	// Failed lists files whose tags could not be read.
	Failed []string `json:"failed,omitempty"`
}

// VideoDetails is what the video pipeline produced. Any part may be missing
// when its tool or upstream was unavailable.
type VideoDetails struct {
	TMDB        *tmdb.Details            `json:"tmdb,omitempty"`
	Streams     []mediainfo.StreamRecord `json:"streams"`
	Subtitles   []string                 `json:"subtitles,omitempty"`
	General     map[string]string        `json:"general,omitempty"`
	Disc        *bdinfo.DiscReport       `json:"disc,omitempty"`
	Screenshots []Screenshot             `json:"screenshots,omitempty"`
	// Warnings records optional steps that were skipped and why.
	Warnings []string `json:"warnings,omitempty"`
}

// Screenshot is a captured frame and, once uploaded, its public URLs.
type Screenshot struct {
	screenshot.Shot
	URL      string `json:"url,omitempty"`
	ThumbURL string `json:"thumb_url,omitempty"`
}

// Touch updates the UpdatedAt timestamp.
func (r *Release) Touch() {
	r.UpdatedAt = time.Now()
}

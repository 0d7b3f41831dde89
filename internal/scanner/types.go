package scanner

import (
	"time"

	"github.com/relprep/relprep/internal/scanner/audio"
)

// AlbumMetadata is derived from the tracks of one release folder.
type AlbumMetadata struct {
	Album       *string `json:"album,omitempty"`
	Artist      *string `json:"artist,omitempty"`
	AlbumArtist *string `json:"album_artist,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Year        *int    `json:"year,omitempty"`

	// TrackCount counts every discovered file, readable or not.
	TrackCount int `json:"track_count"`
	// ExtractedCount counts files whose tags were read.
	ExtractedCount int `json:"extracted_count"`
	// TotalDuration is the sum of known track durations in seconds.
	TotalDuration int `json:"total_duration"`
	// TotalSize is the on-disk size of every discovered file.
	TotalSize int64 `json:"total_size"`

	// Quality is the best tier among tracks; nil when no track has one.
	Quality *audio.Quality `json:"quality,omitempty"`
	// Formats lists distinct formats in order of first appearance.
	Formats []audio.Format `json:"formats"`
}

// Album is the result of scanning one release folder.
type Album struct {
	Dir      string         `json:"dir"`
	Metadata AlbumMetadata  `json:"metadata"`
	Results  []audio.Result `json:"-"`
}

// Tracks returns the successfully extracted tracks in scan order.
func (a *Album) Tracks() []*audio.TrackMetadata {
	tracks := make([]*audio.TrackMetadata, 0, len(a.Results))
	for _, r := range a.Results {
		if r.Track != nil {
			tracks = append(tracks, r.Track)
		}
	}
	return tracks
}

// Failed returns the paths whose extraction failed.
func (a *Album) Failed() []string {
	var paths []string
	for _, r := range a.Results {
		if r.Track == nil {
			paths = append(paths, r.Path)
		}
	}
	return paths
}

// Progress reports how far a scan has come.
type Progress struct {
	Phase       ScanPhase
	CurrentItem string
	Errors      []ScanError
	Current     int
	Total       int
}

// ScanPhase is the current stage of an album scan.
type ScanPhase string

// Scan phases.
const (
	PhaseDiscovering ScanPhase = "discovering"
	PhaseExtracting  ScanPhase = "extracting"
	PhaseAggregating ScanPhase = "aggregating"
	PhaseComplete    ScanPhase = "complete"
)

// ScanError records a per-file failure.
type ScanError struct {
	Time  time.Time
	Error error
	Path  string
	Phase ScanPhase
}

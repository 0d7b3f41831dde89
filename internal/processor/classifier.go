// Package processor turns settled watcher events into release preparations.
package processor

import (
	"path/filepath"
	"strings"

	"github.com/relprep/relprep/internal/mediainfo"
	"github.com/relprep/relprep/internal/scanner/audio"
)

// FileType represents the type of file detected by the classifier.
type FileType int

const (
	// FileTypeAudio is a track of an album release.
	FileTypeAudio FileType = iota
	// FileTypeVideo is a movie or episode container.
	FileTypeVideo
	// FileTypeDiscReport is a BDInfo text report next to a video.
	FileTypeDiscReport
	// FileTypeIgnored is anything else.
	FileTypeIgnored
)

// String returns the string representation of a FileType.
func (ft FileType) String() string {
	switch ft {
	case FileTypeAudio:
		return "audio"
	case FileTypeVideo:
		return "video"
	case FileTypeDiscReport:
		return "disc-report"
	case FileTypeIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// DiscReportName is the file a BDInfo scan is saved under.
const DiscReportName = "BDINFO.txt"

// classifyFile decides from the name alone; it never opens the file.
func classifyFile(path string) FileType {
	if path == "" {
		return FileTypeIgnored
	}
	switch {
	case strings.EqualFold(filepath.Base(path), DiscReportName):
		return FileTypeDiscReport
	case audio.IsAudioFile(path):
		return FileTypeAudio
	case mediainfo.IsVideoFile(path):
		return FileTypeVideo
	default:
		return FileTypeIgnored
	}
}

// Package audio extracts normalized tag records from audio files.
package audio

import (
	"path/filepath"
	"strings"
)

// Format is the closed set of audio container/codec types relprep recognises.
type Format string

// Known formats.
const (
	FormatFLAC Format = "flac"
	FormatALAC Format = "alac"
	FormatAPE  Format = "ape"
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatAAC  Format = "aac"
	FormatOgg  Format = "ogg"
	FormatOpus Format = "opus"
)

// Lossless reports whether f always carries lossless audio.
func (f Format) Lossless() bool {
	switch f {
	case FormatFLAC, FormatALAC, FormatAPE, FormatWAV:
		return true
	default:
		return false
	}
}

// Label is the upper-case name used in descriptions ("FLAC", "MP3").
func (f Format) Label() string {
	return strings.ToUpper(string(f))
}

// extensions maps file extensions to the format they usually hold. An .m4a
// may turn out to be ALAC once decoded.
var extensions = []struct {
	ext    string
	format Format
}{
	{".flac", FormatFLAC},
	{".mp3", FormatMP3},
	{".m4a", FormatAAC},
	{".ogg", FormatOgg},
	{".opus", FormatOpus},
	{".wav", FormatWAV},
	{".ape", FormatAPE},
}

// Extensions returns the known audio extensions in discovery order.
func Extensions() []string {
	out := make([]string, len(extensions))
	for i, e := range extensions {
		out[i] = e.ext
	}
	return out
}

// FormatFromPath guesses the format from the file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if e.ext == ext {
			return e.format, true
		}
	}
	return "", false
}

// IsAudioFile reports whether path has a known audio extension.
func IsAudioFile(path string) bool {
	_, ok := FormatFromPath(path)
	return ok
}

package mediainfo

import (
	"path/filepath"
	"strings"
)

var videoExts = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".m4v":  true,
	".avi":  true,
	".m2ts": true,
	".ts":   true,
}

// IsVideoFile reports whether path has a known video extension. Sample clips
// shipped alongside a release do not count.
func IsVideoFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if !videoExts[filepath.Ext(base)] {
		return false
	}
	return !strings.HasPrefix(base, "sample") && !strings.Contains(base, ".sample.") && !strings.Contains(base, "-sample.")
}

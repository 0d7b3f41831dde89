package processor

import (
	"path/filepath"
	"strings"
)

// releaseFolder returns the top-level directory under root that holds path.
// Everything below it (CD1/, Disc 2/, Extras/) belongs to the same release.
// ok is false for files directly in root or outside of it.
func releaseFolder(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	first, rest, found := strings.Cut(rel, string(filepath.Separator))
	if !found || rest == "" {
		return "", false
	}
	return filepath.Join(root, first), true
}

package scanner

import (
	"cmp"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/scanner/audio"
)

// Discover lists the audio files of dir. For each known extension the
// top level is listed first; only when that finds nothing is the tree
// walked recursively. Hidden entries are skipped. The result is ordered with
// OrderTracks.
func Discover(dir string, log *logger.Logger) ([]string, error) {
	if log == nil {
		log = logger.Discard()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var found []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		found = append(found, path)
	}

	for _, ext := range audio.Extensions() {
		matched := false
		for _, e := range entries {
			if e.IsDir() || hidden(e.Name()) || !hasExt(e.Name(), ext) {
				continue
			}
			add(filepath.Join(dir, e.Name()))
			matched = true
		}
		if matched {
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn("walk error", "path", path, "error", err)
				return nil
			}
			if path != dir && hidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && hasExt(d.Name(), ext) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return OrderTracks(found), nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func hasExt(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}

var trackPrefix = regexp.MustCompile(`^(\d+)`)

// TrackIndex parses the leading number of a file's base name ("03 - x.flac" is 3).
func TrackIndex(path string) (int, bool) {
	m := trackPrefix.FindString(filepath.Base(path))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// OrderTracks sorts paths by their numeric filename prefix. Paths without a
// prefix follow all numbered ones; equal keys keep their input order.
func OrderTracks(paths []string) []string {
	out := slices.Clone(paths)
	slices.SortStableFunc(out, func(a, b string) int {
		ia, oka := TrackIndex(a)
		ib, okb := TrackIndex(b)
		switch {
		case oka && okb:
			return cmp.Compare(ia, ib)
		case oka:
			return -1
		case okb:
			return 1
		default:
			return 0
		}
	})
	return out
}

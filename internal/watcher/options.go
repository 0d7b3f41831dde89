package watcher

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultSettleDelay is how long a file must stay unchanged before an event fires.
const DefaultSettleDelay = 2 * time.Second

// defaultIgnorePatterns covers OS litter and the partial files download
// clients write before a release is complete.
var defaultIgnorePatterns = []string{
	".ds_store",
	"thumbs.db",
	"desktop.ini",
	"*.tmp",
	"*.part",
	"*.!qb",
	"*.!ut",
	"*.crdownload",
	"*.aria2",
}

// Options configures the file watcher behavior.
type Options struct {
	// IgnorePatterns are filepath.Match patterns tested case-insensitively
	// against the base name. nil selects the defaults and turns on IgnoreHidden.
	IgnorePatterns []string
	SettleDelay    time.Duration
	IgnoreHidden   bool
}

func (o *Options) setDefaults() {
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.IgnorePatterns == nil {
		o.IgnorePatterns = defaultIgnorePatterns
		o.IgnoreHidden = true
	}
}

// shouldIgnore reports whether rel, a path relative to the watched root,
// is skipped. A hidden folder hides everything below it.
func (o *Options) shouldIgnore(rel string) bool {
	if o.IgnoreHidden {
		for part := range strings.SplitSeq(filepath.Clean(rel), string(filepath.Separator)) {
			if len(part) > 1 && part[0] == '.' && part != ".." {
				return true
			}
		}
	}

	base := strings.ToLower(filepath.Base(rel))
	for _, pattern := range o.IgnorePatterns {
		if ok, _ := filepath.Match(strings.ToLower(pattern), base); ok {
			return true
		}
	}
	return false
}

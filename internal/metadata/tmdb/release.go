package tmdb

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ReleaseName is what can be read from a scene-style release name such as
// "Heat.1995.1080p.BluRay.x264-GRP" or "The.Office.S02E03.720p.WEB-DL".
type ReleaseName struct {
	Title   string
	Year    int
	Season  int
	Episode int
}

// IsTV reports whether the name carries a season marker.
func (r ReleaseName) IsTV() bool { return r.Season > 0 }

var (
	yearPattern    = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	episodePattern = regexp.MustCompile(`(?i)\bS(\d{1,2})(?:E(\d{1,3}))?\b`)
	// Tokens that never belong to a title and end it when no year or episode does.
	qualityPattern = regexp.MustCompile(`(?i)\b(480p|576p|720p|1080[pi]|2160p|4k|uhd|bluray|blu-ray|bdrip|brrip|remux|web-?dl|webrip|hdtv|dvdrip|x264|x265|h\.?264|h\.?265|hevc|avc|proper|repack|complete)\b`)
	spaces         = regexp.MustCompile(`\s+`)
)

var videoExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".m2ts": true, ".ts": true, ".iso": true,
}

// ParseReleaseName extracts a title, a year and an optional season/episode
// from a release folder or file name. The title is everything before the
// first year, episode or quality token. A year at the very start is kept as
// part of the title ("2001.A.Space.Odyssey.1968").
func ParseReleaseName(name string) ReleaseName {
	name = filepath.Base(name)
	if ext := filepath.Ext(name); videoExtensions[strings.ToLower(ext)] {
		name = strings.TrimSuffix(name, ext)
	}
	s := strings.NewReplacer(".", " ", "_", " ").Replace(name)

	var r ReleaseName
	cut := len(s)

	for _, m := range yearPattern.FindAllStringSubmatchIndex(s, -1) {
		if strings.TrimSpace(s[:m[0]]) == "" {
			continue
		}
		r.Year, _ = strconv.Atoi(s[m[2]:m[3]])
		cut = min(cut, m[0])
		break
	}

	if m := episodePattern.FindStringSubmatchIndex(s); m != nil && strings.TrimSpace(s[:m[0]]) != "" {
		r.Season, _ = strconv.Atoi(s[m[2]:m[3]])
		if m[4] >= 0 {
			r.Episode, _ = strconv.Atoi(s[m[4]:m[5]])
		}
		cut = min(cut, m[0])
	}

	if m := qualityPattern.FindStringIndex(s); m != nil && strings.TrimSpace(s[:m[0]]) != "" {
		cut = min(cut, m[0])
	}

	r.Title = strings.Trim(spaces.ReplaceAllString(s[:cut], " "), " -([")
	return r
}

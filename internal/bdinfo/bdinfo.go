// Package bdinfo parses the quick summary printed by BDInfo for Blu-ray sources.
package bdinfo

import (
	"strings"
)

// DiscReport is the flat summary of one disc playlist. Scalars are nil when
// the report does not mention them. Audio and Subtitles keep report order
// and duplicates.
type DiscReport struct {
	DiscLabel    *string           `json:"disc_label,omitempty"`
	DiscSize     *string           `json:"disc_size,omitempty"`
	Protection   *string           `json:"protection,omitempty"`
	Playlist     *string           `json:"playlist,omitempty"`
	Size         *string           `json:"size,omitempty"`
	Length       *string           `json:"length,omitempty"`
	TotalBitrate *string           `json:"total_bitrate,omitempty"`
	Video        *string           `json:"video,omitempty"`
	Audio        []string          `json:"audio"`
	Subtitles    []string          `json:"subtitles"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// Parse reads a BDInfo summary. Keys are lower-cased with spaces replaced by
// underscores. Every "audio" and "subtitle" line is appended, lower-cased, to
// its list; any other key overwrites the previous value.
func Parse(text string) *DiscReport {
	scalars := make(map[string]string)
	report := &DiscReport{Audio: []string{}, Subtitles: []string{}}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for line := range strings.SplitSeq(text, "\n") {
		rawKey, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key := normalizeKey(rawKey)
		value = strings.TrimSpace(value)

		switch key {
		case "audio":
			report.Audio = append(report.Audio, strings.ToLower(value))
		case "subtitle":
			report.Subtitles = append(report.Subtitles, strings.ToLower(value))
		default:
			scalars[key] = value
		}
	}

	slots := map[string]**string{
		"disc_label":    &report.DiscLabel,
		"disc_size":     &report.DiscSize,
		"protection":    &report.Protection,
		"playlist":      &report.Playlist,
		"size":          &report.Size,
		"length":        &report.Length,
		"total_bitrate": &report.TotalBitrate,
		"video":         &report.Video,
	}
	for key, value := range scalars {
		if slot, ok := slots[key]; ok {
			*slot = &value
			continue
		}
		if report.Extra == nil {
			report.Extra = make(map[string]string)
		}
		report.Extra[key] = value
	}

	return report
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "_")
}

// Get returns the value of a scalar, or "" when it is absent.
func Get(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Empty reports whether the report carries no information at all.
func (r *DiscReport) Empty() bool {
	return r.DiscLabel == nil && r.DiscSize == nil && r.Protection == nil &&
		r.Playlist == nil && r.Size == nil && r.Length == nil &&
		r.TotalBitrate == nil && r.Video == nil &&
		len(r.Audio) == 0 && len(r.Subtitles) == 0 && len(r.Extra) == 0
}

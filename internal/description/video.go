package description

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/relprep/relprep/internal/bdinfo"
	"github.com/relprep/relprep/internal/mediainfo"
	"github.com/relprep/relprep/internal/normalize"
)

// VideoInfo is everything a video release description can show. Every part
// is optional.
type VideoInfo struct {
	Title    string
	Year     int
	Overview string
	Genres   []string
	Poster   string
	Link     string

	Streams     []mediainfo.StreamRecord
	Subtitles   []string
	Disc        *bdinfo.DiscReport
	Screenshots []Screenshot
}

// Screenshot is an uploaded image. Thumb falls back to URL when empty.
type Screenshot struct {
	URL   string
	Thumb string
}

// Video renders a movie or episode description.
func Video(v VideoInfo) string {
	var b builder

	if v.Title != "" {
		heading := plain(v.Title)
		if v.Year > 0 {
			heading += " (" + strconv.Itoa(v.Year) + ")"
		}
		b.line("[center][size=5][b]" + heading + "[/b][/size][/center]")
	}
	if isWebURL(v.Poster) {
		b.line("[center][img]" + v.Poster + "[/img][/center]")
	}
	if isWebURL(v.Link) {
		b.line("[url=" + v.Link + "]TMDB[/url]")
	}
	if v.Overview != "" {
		b.blank()
		b.line("[quote]" + plain(v.Overview) + "[/quote]")
	}
	b.field("Genres", strings.Join(v.Genres, ", "))

	if len(v.Streams) > 0 {
		b.blank()
		b.line("[b]Audio[/b]")
		b.line("[list]")
		for _, s := range v.Streams {
			b.line("[*]" + plain(streamLine(s)))
		}
		b.line("[/list]")
	}

	if len(v.Subtitles) > 0 {
		names := make([]string, 0, len(v.Subtitles))
		for _, lang := range v.Subtitles {
			names = append(names, languageName(lang))
		}
		b.field("Subtitles", strings.Join(names, ", "))
	}

	if v.Disc != nil && !v.Disc.Empty() {
		b.blank()
		b.line("[b]Disc[/b]")
		b.field("Label", bdinfo.Get(v.Disc.DiscLabel))
		b.field("Playlist", bdinfo.Get(v.Disc.Playlist))
		b.field("Size", bdinfo.Get(v.Disc.Size))
		b.field("Length", bdinfo.Get(v.Disc.Length))
		b.field("Total Bitrate", bdinfo.Get(v.Disc.TotalBitrate))
		b.field("Video", bdinfo.Get(v.Disc.Video))
		b.field("Protection", bdinfo.Get(v.Disc.Protection))
		for _, a := range v.Disc.Audio {
			b.field("Audio", a)
		}
		for _, s := range v.Disc.Subtitles {
			b.field("Subtitle", s)
		}
	}

	var shots []string
	for _, s := range v.Screenshots {
		if !isWebURL(s.URL) {
			continue
		}
		thumb := s.Thumb
		if !isWebURL(thumb) {
			thumb = s.URL
		}
		shots = append(shots, fmt.Sprintf("[url=%s][img]%s[/img][/url]", s.URL, thumb))
	}
	if len(shots) > 0 {
		b.blank()
		b.line("[b]Screenshots[/b]")
		b.line("[center]" + strings.Join(shots, " ") + "[/center]")
	}

	return b.String()
}

// streamLine joins language, codec, channels, bitrate and title with " / ".
func streamLine(s mediainfo.StreamRecord) string {
	var parts []string
	if s.Language != "" {
		parts = append(parts, languageName(s.Language))
	}
	codec := s.CommercialName
	if codec == "" {
		codec = s.Format
	}
	if codec != "" {
		parts = append(parts, codec)
	}
	if s.Channels != "" {
		parts = append(parts, s.Channels)
	}
	if s.BitRate != "" {
		parts = append(parts, s.BitRate)
	}
	if s.Title != "" {
		parts = append(parts, s.Title)
	}
	line := strings.Join(parts, " / ")
	if s.IsDefault() {
		line += " (default)"
	}
	return line
}

func languageName(raw string) string {
	if name := normalize.Language(raw); name != "" {
		return name
	}
	return raw
}

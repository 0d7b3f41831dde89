package description

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relprep/relprep/internal/bdinfo"
	"github.com/relprep/relprep/internal/mediainfo"
	"github.com/relprep/relprep/internal/scanner"
	"github.com/relprep/relprep/internal/scanner/audio"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func TestAlbum_YearLine(t *testing.T) {
	album := scanner.AlbumMetadata{Album: strp("Moon Safari"), Artist: strp("Air")}

	out := Album(album, nil)
	assert.NotContains(t, out, "Year:")
	assert.Contains(t, out, "[b]Album:[/b] Moon Safari\n")

	album.Year = intp(1999)
	out = Album(album, nil)
	assert.Equal(t, 1, strings.Count(out, "Year:"))
	assert.Contains(t, out, "[b]Year:[/b] 1999\n")
}

func TestAlbum_OmitsAbsentQuality(t *testing.T) {
	out := Album(scanner.AlbumMetadata{TrackCount: 2}, nil)
	assert.NotContains(t, out, "Quality:")

	q := audio.QualityLossless
	out = Album(scanner.AlbumMetadata{Quality: &q, Formats: []audio.Format{audio.FormatFLAC}}, nil)
	assert.Contains(t, out, "[b]Quality:[/b] Lossless\n")
	assert.Contains(t, out, "[b]Format:[/b] FLAC\n")
}

func TestAlbum_GenreTags(t *testing.T) {
	out := Album(scanner.AlbumMetadata{Genre: strp("Hip-Hop; Jazz")}, nil)
	assert.Contains(t, out, "[b]Tags:[/b] hip.hop jazz\n")
}

func TestAlbum_TracklistCap(t *testing.T) {
	results := make([]audio.Result, 53)
	for i := range results {
		path := fmt.Sprintf("/a/%02d.flac", i+1)
		results[i] = audio.Result{Path: path, Track: &audio.TrackMetadata{Path: path, Title: strp(fmt.Sprintf("Song %d", i+1))}}
	}
	results[1].Track.Title = nil
	results[0].Track.Duration = intp(225)

	out := Album(scanner.AlbumMetadata{TrackCount: 53}, results)

	assert.Contains(t, out, "01. Song 1 [3:45]\n")
	assert.Contains(t, out, "02. 02.flac\n", "falls back to the filename")
	assert.Contains(t, out, "50. Song 50\n")
	assert.NotContains(t, out, "51.")
	assert.Contains(t, out, "... and 3 more tracks\n")
}

func TestAlbum_ExactlyFiftyTracks(t *testing.T) {
	results := make([]audio.Result, MaxListedTracks)
	for i := range results {
		path := fmt.Sprintf("/a/%02d.flac", i+1)
		results[i] = audio.Result{Path: path, Track: &audio.TrackMetadata{Path: path}}
	}

	out := Album(scanner.AlbumMetadata{}, results)
	assert.NotContains(t, out, "more tracks")
}

func TestAlbum_UnreadableTrackKeepsItsPlace(t *testing.T) {
	results := []audio.Result{
		{Path: "/a/01 - One.flac", Track: &audio.TrackMetadata{Path: "/a/01 - One.flac", Title: strp("One")}},
		{Path: "/a/02 - Two.flac", Err: errors.New("corrupt")},
		{Path: "/a/03 - Three.flac", Track: &audio.TrackMetadata{Path: "/a/03 - Three.flac", Title: strp("Three")}},
	}

	out := Album(scanner.AlbumMetadata{TrackCount: 3, ExtractedCount: 2}, results)

	assert.Contains(t, out, "[b]Tracks:[/b] 3\n")
	assert.Contains(t, out, "01. One\n")
	assert.Contains(t, out, "02. 02 - Two.flac\n")
	assert.Contains(t, out, "03. Three\n")
}

func TestTrack(t *testing.T) {
	f := audio.FormatMP3
	q := audio.QualityHigh
	track := &audio.TrackMetadata{
		Path:       "/a/01 - x.mp3",
		Size:       2048,
		Artist:     strp("Artist"),
		Bitrate:    intp(320000),
		SampleRate: intp(44100),
		Format:     &f,
		Quality:    &q,
	}

	out := Track(track)

	assert.Contains(t, out, "[b]Title:[/b] 01 - x.mp3\n")
	assert.Contains(t, out, "[b]Bitrate:[/b] 320 kbps\n")
	assert.Contains(t, out, "[b]Sample Rate:[/b] 44.1 kHz\n")
	assert.Contains(t, out, "[b]Size:[/b] 2.0 KiB\n")
	assert.NotContains(t, out, "Year:")
	assert.NotContains(t, out, "Album:")
}

func TestDuration(t *testing.T) {
	assert.Equal(t, "0:05", Duration(5))
	assert.Equal(t, "3:45", Duration(225))
	assert.Equal(t, "1:02:03", Duration(3723))
}

func TestVideo(t *testing.T) {
	disc := bdinfo.Parse("Disc Label: MOVIE\nLength: 1:52:00\nAudio: English / DTS-HD MA\n")
	out := Video(VideoInfo{
		Title:    "Heat",
		Year:     1995,
		Overview: "A crew of thieves.",
		Genres:   []string{"Crime", "Drama"},
		Link:     "https://www.themoviedb.org/movie/949",
		Streams: []mediainfo.StreamRecord{
			{Language: "English", CommercialName: "Dolby Digital", Channels: "6 channels", Default: "Yes"},
			{Language: "fre", Format: "AC-3"},
		},
		Subtitles:   []string{"en", "Klingon"},
		Disc:        disc,
		Screenshots: []Screenshot{{URL: "https://img/1.png"}},
	})

	assert.Contains(t, out, "[b]Heat (1995)[/b]")
	assert.Contains(t, out, "[*]English / Dolby Digital / 6 channels (default)\n")
	assert.Contains(t, out, "[*]French / AC-3\n")
	assert.Contains(t, out, "[b]Subtitles:[/b] English, Klingon\n")
	assert.Contains(t, out, "[b]Label:[/b] MOVIE\n")
	assert.Contains(t, out, "[b]Audio:[/b] english / dts-hd ma\n")
	assert.NotContains(t, out, "Protection:")
	assert.Contains(t, out, "[url=https://img/1.png][img]https://img/1.png[/img][/url]")
}

func TestVideo_Empty(t *testing.T) {
	assert.Empty(t, Video(VideoInfo{}))
}

func TestToHTML(t *testing.T) {
	got := ToHTML("[b]Album:[/b] Rock & Roll\n[list]\n[*]one\n[*]two\n[/list]\n")

	assert.Contains(t, got, "<strong>Album:</strong> Rock &amp; Roll")
	assert.Contains(t, got, "<ul><li>one</li><li>two</li></ul>")
}

func TestToHTML_OnlyWebLinks(t *testing.T) {
	got := ToHTML("[url=javascript:alert(document.cookie)]click[/url] [img]data:image/png;base64,AAAA[/img]\n" +
		"[url=https://www.themoviedb.org/movie/949?a=1&b=2]TMDB[/url] [img]http://img.example/p.jpg[/img]")

	assert.NotContains(t, got, "javascript")
	assert.NotContains(t, got, "data:")
	assert.Contains(t, got, "click")
	assert.Contains(t, got, `<a href="https://www.themoviedb.org/movie/949?a=1&amp;b=2">TMDB</a>`)
	assert.Contains(t, got, `<img src="http://img.example/p.jpg" alt="">`)
}

func TestVideo_UpstreamTextCannotInjectTags(t *testing.T) {
	out := Video(VideoInfo{
		Title:       "Heat [url=javascript:x]",
		Overview:    "Nice [url=javascript:alert(1)]film[/url]",
		Poster:      "javascript:alert(1)",
		Link:        "https://www.themoviedb.org/movie/949",
		Screenshots: []Screenshot{{URL: "ftp://img/1.png"}},
	})

	assert.NotContains(t, out, "[url=javascript")
	assert.Contains(t, out, "[quote]Nice (url=javascript:alert(1))film(/url)[/quote]")
	assert.NotContains(t, out, "[img]")
	assert.NotContains(t, out, "Screenshots")
	assert.Contains(t, out, "[url=https://www.themoviedb.org/movie/949]TMDB[/url]")
	assert.NotContains(t, ToHTML(out), `href="javascript`)
}

func TestToMarkdown(t *testing.T) {
	md, err := ToMarkdown(Album(scanner.AlbumMetadata{Album: strp("Moon Safari"), Year: intp(1999)}, nil))
	require.NoError(t, err)

	assert.Contains(t, md, "**Album:** Moon Safari")
	assert.Contains(t, md, "**Year:** 1999")
	assert.NotContains(t, md, "[b]")

	md, err = ToMarkdown("  ")
	require.NoError(t, err)
	assert.Empty(t, md)
}

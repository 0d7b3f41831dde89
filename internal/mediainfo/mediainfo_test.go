package mediainfo

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/relprep/relprep/internal/errors"
)

const multiAudioReport = `General
Unique ID                                : 1234
Complete name                            : Movie.2019.1080p.BluRay.mkv
Format                                   : Matroska
Audio codecs                             : DTS / AC-3

Video
ID                                       : 1
Format                                   : AVC

Audio #1
ID                                       : 2
Format                                   : DTS
Format/Info                              : Digital Theater Systems
Commercial name                          : DTS-HD Master Audio
Duration                                 : 1 h 52 min
Bit rate                                 : 1 509 kb/s
Channel(s)                               : 6 channels
Language                                 : English
Default                                  : Yes

Audio #2
ID                                       : 3
Format                                   : AC-3
Channel(s)                               : 2 channels
Title                                    : Commentary: Director
Language                                 : English
Default                                  : No

Audio #3
ID                                       : 4
Format                                   : AAC LC
Language                                 : French

Text #1
ID                                       : 5
Format                                   : UTF-8
Language                                 : English

Text #2
ID                                       : 6
Format                                   : PGS

Text #3
ID                                       : 7
Format                                   : PGS
Language                                 : German
`

const singleAudioReport = "General\r\nFormat : MPEG-4\r\n\r\nAudio\r\nID : 1\r\nFormat : AAC\r\nChannel(s) : 2 channels\r\n\r\nText\r\nLanguage : Spanish\r\n"

func TestSections_Numbered(t *testing.T) {
	got := slices.Collect(AudioSections(multiAudioReport))

	require.Len(t, got, 3)
	assert.Equal(t, "2", ParseSection(got[0])["ID"])
	assert.Equal(t, "3", ParseSection(got[1])["ID"])
	assert.Equal(t, "4", ParseSection(got[2])["ID"])
}

func TestSections_UnnumberedFallback(t *testing.T) {
	got := slices.Collect(AudioSections(singleAudioReport))

	require.Len(t, got, 1)
	fields := ParseSection(got[0])
	assert.Equal(t, "AAC", fields["Format"])
	assert.NotContains(t, fields, "Language", "section stops at the blank line")
}

func TestSections_NoMarker(t *testing.T) {
	assert.Empty(t, slices.Collect(AudioSections("General\nFormat : FLAC\n")))
	assert.Empty(t, slices.Collect(AudioSections("")))
}

func TestSections_StopsAtNextMarkerWithoutBlankLine(t *testing.T) {
	report := "Audio #1\nFormat : DTS\nAudio #2\nFormat : AC-3\n"

	got := slices.Collect(AudioSections(report))

	require.Len(t, got, 2)
	assert.Equal(t, "Format : DTS", got[0])
	assert.Equal(t, "Format : AC-3", got[1])
}

func TestSections_EarlyBreakAndReuse(t *testing.T) {
	seq := AudioSections(multiAudioReport)

	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
	assert.Len(t, slices.Collect(seq), 3)
}

func TestSections_OtherKinds(t *testing.T) {
	assert.Len(t, slices.Collect(Sections(multiAudioReport, KindText)), 3)
	assert.Len(t, slices.Collect(Sections(multiAudioReport, KindVideo)), 1)
}

func TestParseSection(t *testing.T) {
	text := "  Format   :   AC-3  \nno colon here\n\nEncoded date : UTC 2019-05-01 10:20:30\nTitle : first\nTitle : second"

	got := ParseSection(text)

	assert.Equal(t, map[string]string{
		"Format":       "AC-3",
		"Encoded date": "UTC 2019-05-01 10:20:30",
		"Title":        "second",
	}, got)
}

func TestNewStreamRecord_Defaults(t *testing.T) {
	r := NewStreamRecord(map[string]string{"Format": "AC-3", "Channel(s)": "6"})

	assert.Equal(t, "AC-3", r.Format)
	assert.Equal(t, "6", r.Channels)

	values := r.Values()
	require.Len(t, values, 21)
	empty := 0
	for _, v := range values {
		if v == "" {
			empty++
		}
	}
	assert.Equal(t, 19, empty)
}

func TestStreamRecords(t *testing.T) {
	records := StreamRecords(multiAudioReport)

	require.Len(t, records, 3)
	assert.Equal(t, "DTS-HD Master Audio", records[0].CommercialName)
	assert.Equal(t, "Digital Theater Systems", records[0].FormatInfo)
	assert.True(t, records[0].IsDefault())
	assert.Equal(t, "Commentary: Director", records[1].Title)
	assert.False(t, records[1].IsDefault())
	assert.Equal(t, "French", records[2].Language)
	assert.Equal(t, "", records[2].BitRate)
}

func TestStreamRecords_Idempotent(t *testing.T) {
	assert.Equal(t, StreamRecords(multiAudioReport), StreamRecords(multiAudioReport))
	assert.Equal(t, StreamRecords(singleAudioReport), StreamRecords(singleAudioReport))
}

func TestStreamKeys(t *testing.T) {
	keys := StreamKeys()
	assert.Len(t, keys, 21)
	assert.Equal(t, "ID", keys[0])
	assert.Equal(t, "Delay relative to video", keys[20])
}

func TestSubtitleLanguagesAndGeneral(t *testing.T) {
	assert.Equal(t, []string{"English", "German"}, SubtitleLanguages(multiAudioReport))
	assert.Equal(t, []string{"Spanish"}, SubtitleLanguages(singleAudioReport))
	assert.Equal(t, "Matroska", General(multiAudioReport)["Format"])
	assert.Empty(t, General("nothing"))
}

func TestNewRunner_MissingBinary(t *testing.T) {
	_, err := NewRunner(filepath.Join(t.TempDir(), "no-such-mediainfo"))
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnavailable))
}

func TestRunner_Report(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "mediainfo")
	script := "#!/bin/sh\nprintf 'General\\nComplete name : %s\\n\\nAudio\\nFormat : FLAC\\n' \"$1\"\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))

	r, err := NewRunner(bin)
	require.NoError(t, err)

	report, err := r.Report(context.Background(), "/media/a.mkv")
	require.NoError(t, err)
	assert.Equal(t, "/media/a.mkv", General(report)["Complete name"])
	assert.Equal(t, "FLAC", StreamRecords(report)[0].Format)
}

func TestIsVideoFile(t *testing.T) {
	assert.True(t, IsVideoFile("/lib/Heat.1995.1080p.mkv"))
	assert.True(t, IsVideoFile("/lib/BDMV/STREAM/00800.M2TS"))
	assert.False(t, IsVideoFile("/lib/Heat/sample.mkv"))
	assert.False(t, IsVideoFile("/lib/Heat/heat-sample.mkv"))
	assert.False(t, IsVideoFile("/lib/Album/01.flac"))
	assert.False(t, IsVideoFile("/lib/Heat/BDINFO.txt"))
}

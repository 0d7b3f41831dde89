package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/simonhull/audiometa"

	domainerrors "github.com/relprep/relprep/internal/errors"
)

// NativeDecoder decodes files in pure Go. audiometa supplies format
// detection, stream properties and Vorbis comments; dhowden/tag supplies the
// raw ID3 frames and MP4 atoms that audiometa only exposes in normalized form.
type NativeDecoder struct{}

// NewNativeDecoder creates a decoder.
func NewNativeDecoder() *NativeDecoder {
	return &NativeDecoder{}
}

// Decode implements Decoder.
func (d *NativeDecoder) Decode(ctx context.Context, path string) (*Decoded, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return decodeWAV(path)
	}

	file, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		var unsupported *audiometa.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			return nil, domainerrors.Unsupportedf("unsupported audio file %s", filepath.Base(path)).WithCause(err)
		}
		return nil, err
	}
	defer file.Close()

	props := Properties{
		Duration:   file.Audio.Duration,
		Bitrate:    file.Audio.Bitrate,
		SampleRate: file.Audio.SampleRate,
		Channels:   file.Audio.Channels,
		Codec:      file.Audio.Codec,
	}

	switch file.Format {
	case audiometa.FormatFLAC:
		return &Decoded{Format: FormatFLAC, Tags: NewFLACComments(vorbisComments(file)), Properties: props}, nil

	case audiometa.FormatOgg:
		return &Decoded{Format: FormatOgg, Tags: NewOggComments(vorbisComments(file)), Properties: props}, nil

	case audiometa.FormatOpus:
		return &Decoded{Format: FormatOpus, Tags: NewOggComments(vorbisComments(file)), Properties: props}, nil

	case audiometa.FormatMP3:
		raw, err := readRawTags(path)
		if err != nil {
			return nil, err
		}
		return &Decoded{Format: FormatMP3, Tags: NewID3Frames(firstValues(raw)), Properties: props}, nil

	case audiometa.FormatM4A, audiometa.FormatM4B:
		raw, err := readRawTags(path)
		if err != nil {
			return nil, err
		}
		format := FormatAAC
		if strings.EqualFold(strings.TrimSpace(props.Codec), "alac") {
			format = FormatALAC
		}
		return &Decoded{Format: format, Tags: NewMP4Atoms(raw), Properties: props}, nil

	default:
		return nil, domainerrors.Unsupportedf("unsupported audio format %s for %s", file.Format, filepath.Base(path))
	}
}

// vorbisComments copies the raw Vorbis comments audiometa collected.
func vorbisComments(file *audiometa.File) map[string][]string {
	raw := make(map[string][]string)
	for key, values := range file.Tags.All() {
		raw[key] = append(raw[key], values...)
	}
	return raw
}

// readRawTags returns the raw frames or atoms of an ID3v2 or MP4 file as
// strings. A file without tags yields an empty map.
func readRawTags(path string) (map[string][]string, error) {
	f, err := os.Open(path) //#nosec G304 -- path comes from library discovery
	if err != nil {
		return nil, err
	}
	defer f.Close()

	md, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	raw := make(map[string][]string)
	for key, value := range md.Raw() {
		if s, ok := rawString(value); ok {
			raw[key] = append(raw[key], s)
		}
	}

	if md.Format() == tag.ID3v1 {
		return id3v1Frames(raw), nil
	}

	// dhowden/tag splits the MP4 track atom into a number and a count.
	if _, ok := raw["trkn"]; !ok && md.Format() == tag.MP4 {
		if n, _ := md.Track(); n > 0 {
			raw["trkn"] = []string{fmt.Sprint(n)}
		}
	}
	return raw, nil
}

// id3v1FrameIDs maps the keys dhowden/tag uses for an ID3v1 block to the
// ID3v2 frames carrying the same field.
var id3v1FrameIDs = map[string]string{
	"title":  "TIT2",
	"artist": "TPE1",
	"album":  "TALB",
	"year":   "TYER",
	"genre":  "TCON",
	"track":  "TRCK",
}

// id3v1Frames folds an ID3v1 block into ID3v2 frame IDs so both versions
// read through ID3Frames.
func id3v1Frames(raw map[string][]string) map[string][]string {
	frames := make(map[string][]string, len(raw))
	for key, values := range raw {
		if id, ok := id3v1FrameIDs[key]; ok {
			key = id
		}
		if key == "TRCK" && len(values) > 0 && values[0] == "0" {
			continue
		}
		frames[key] = values
	}
	return frames
}

func rawString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case int:
		return fmt.Sprint(val), true
	case *tag.Comm:
		return val.Text, true
	case []string:
		return strings.Join(val, "; "), len(val) > 0
	default:
		return "", false
	}
}

func firstValues(raw map[string][]string) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

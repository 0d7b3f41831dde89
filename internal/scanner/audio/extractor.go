package audio

import (
	"context"
	"fmt"
	"os"
	"time"

	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/logger"
)

// Properties is the format-independent technical descriptor of a stream.
// A zero value means the decoder could not determine the property.
type Properties struct {
	Duration   time.Duration
	Bitrate    int
	SampleRate int
	Channels   int
	Codec      string
}

// Decoded is what a Decoder knows about one file.
type Decoded struct {
	Format     Format
	Tags       TagContainer
	Properties Properties
}

// Decoder reads the tag container and properties of an audio file.
type Decoder interface {
	Decode(ctx context.Context, path string) (*Decoded, error)
}

// Extractor turns audio files into TrackMetadata.
type Extractor struct {
	decoder Decoder
	logger  *logger.Logger
}

// NewExtractor fails with an UNAVAILABLE error when no decoder is supplied.
func NewExtractor(decoder Decoder, log *logger.Logger) (*Extractor, error) {
	if decoder == nil {
		return nil, domainerrors.Unavailablef("audio tag decoder is not available")
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Extractor{decoder: decoder, logger: log.Component("extractor")}, nil
}

// Result is the outcome for one file of a batch. Size is always filled from
// the filesystem; Track is nil when extraction failed.
type Result struct {
	Path  string
	Size  int64
	Track *TrackMetadata
	Err   error
}

// ExtractAll extracts every path in order. Failures are logged and recorded
// in the result rather than aborting the batch.
func (e *Extractor) ExtractAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		r := Result{Path: path}
		if info, err := os.Stat(path); err == nil {
			r.Size = info.Size()
		}

		if err := ctx.Err(); err != nil {
			r.Err = err
			results = append(results, r)
			continue
		}

		track, err := e.Extract(ctx, path)
		if err != nil {
			e.logger.Warn("skipping unreadable audio file", "path", path, "error", err)
			r.Err = err
		} else {
			r.Track = track
		}
		results = append(results, r)
	}
	return results
}

// Extract decodes one file. A panic inside the decoder is reported as an error.
func (e *Extractor) Extract(ctx context.Context, path string) (track *TrackMetadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			track = nil
			err = domainerrors.Internalf("decoder panic on %s: %v", path, r)
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeNotFound, "stat %s", path)
	}

	decoded, err := e.decoder.Decode(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return buildTrack(path, info.Size(), decoded), nil
}

func buildTrack(path string, size int64, d *Decoded) *TrackMetadata {
	t := &TrackMetadata{Path: path, Size: size}

	if d.Tags != nil {
		text := func(f Field) *string {
			if v, ok := d.Tags.Value(f); ok {
				return &v
			}
			return nil
		}
		t.Title = text(FieldTitle)
		t.Artist = text(FieldArtist)
		t.Album = text(FieldAlbum)
		t.Genre = text(FieldGenre)
		t.AlbumArtist = text(FieldAlbumArtist)

		if v, ok := d.Tags.Value(FieldYear); ok {
			if y, ok := parseYear(v); ok {
				t.Year = &y
			}
		}
		if v, ok := d.Tags.Value(FieldTrackNumber); ok {
			if n, ok := parseTrackNumber(v); ok {
				t.TrackNumber = &n
			}
		}
	}

	p := d.Properties
	if p.Duration > 0 {
		t.Duration = ptr(int(p.Duration / time.Second))
	}
	if p.Bitrate > 0 {
		t.Bitrate = ptr(p.Bitrate)
	}
	if p.SampleRate > 0 {
		t.SampleRate = ptr(p.SampleRate)
	}
	if p.Channels > 0 {
		t.Channels = ptr(p.Channels)
	}

	if d.Format != "" {
		t.Format = ptr(d.Format)
		if d.Format.Lossless() || t.Bitrate != nil {
			bitrate := 0
			if t.Bitrate != nil {
				bitrate = *t.Bitrate
			}
			t.Quality = ptr(Classify(d.Format, bitrate))
		}
	}

	return t
}

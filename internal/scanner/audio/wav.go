package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	domainerrors "github.com/relprep/relprep/internal/errors"
)

// decodeWAV reads the RIFF fmt and data chunk headers. WAV files carry no
// tag container relprep maps, so an empty ID3 frame set is returned.
func decodeWAV(path string) (*Decoded, error) {
	f, err := os.Open(path) //#nosec G304 -- path comes from library discovery
	if err != nil {
		return nil, err
	}
	defer f.Close()

	props, err := readRIFF(f)
	if err != nil {
		return nil, fmt.Errorf("read wav header: %w", err)
	}
	return &Decoded{Format: FormatWAV, Tags: NewID3Frames(nil), Properties: props}, nil
}

func readRIFF(r io.Reader) (Properties, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Properties{}, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return Properties{}, domainerrors.Unsupportedf("not a RIFF/WAVE stream")
	}

	var (
		props    Properties
		byteRate uint32
		haveFmt  bool
	)
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if haveFmt {
				return props, nil
			}
			return Properties{}, err
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return Properties{}, domainerrors.Unsupportedf("fmt chunk too short")
			}
			// Only the fixed PCM fields are read; extensions are skipped.
			var body [16]byte
			if _, err := io.ReadFull(r, body[:]); err != nil {
				return Properties{}, err
			}
			props.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			props.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			byteRate = binary.LittleEndian.Uint32(body[8:12])
			props.Bitrate = int(byteRate) * 8
			props.Codec = "PCM"
			haveFmt = true
			if _, err := io.CopyN(io.Discard, r, int64(size)-16+int64(size%2)); err != nil {
				return Properties{}, err
			}
		case "data":
			if haveFmt && byteRate > 0 {
				props.Duration = time.Duration(float64(size) / float64(byteRate) * float64(time.Second))
			}
			return props, nil
		default:
			if _, err := io.CopyN(io.Discard, r, int64(size)+int64(size%2)); err != nil {
				return Properties{}, err
			}
		}
	}
}

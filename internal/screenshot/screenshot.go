// Package screenshot captures evenly spaced frames from a video with ffmpeg
// and describes them for the release description.
package screenshot

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/logger"
)

// Shot is one captured frame.
type Shot struct {
	ID       string        `json:"id"`
	Path     string        `json:"path"`
	Thumb    string        `json:"thumb,omitempty"`
	Offset   time.Duration `json:"-"`
	Seconds  float64       `json:"seconds"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	BlurHash string        `json:"blurhash,omitempty"`
}

// Capturer runs ffprobe and ffmpeg.
type Capturer struct {
	ffmpeg     string
	ffprobe    string
	outDir     string
	thumbWidth int
	logger     *logger.Logger
}

// Options configures a Capturer.
type Options struct {
	FFmpegPath  string
	FFprobePath string
	OutDir      string
	// ThumbWidth is the width of generated thumbnails; zero disables them.
	ThumbWidth int
}

// NewCapturer resolves both binaries. A missing binary is an UNAVAILABLE error.
func NewCapturer(opts Options, log *logger.Logger) (*Capturer, error) {
	if log == nil {
		log = logger.Discard()
	}
	ffmpeg, err := exec.LookPath(opts.FFmpegPath)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeUnavailable, "ffmpeg not found at %q", opts.FFmpegPath)
	}
	ffprobe, err := exec.LookPath(opts.FFprobePath)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeUnavailable, "ffprobe not found at %q", opts.FFprobePath)
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create screenshot dir: %w", err)
	}
	return &Capturer{
		ffmpeg:     ffmpeg,
		ffprobe:    ffprobe,
		outDir:     opts.OutDir,
		thumbWidth: opts.ThumbWidth,
		logger:     log.Component("screenshot"),
	}, nil
}

// Capture grabs count frames spread evenly over the video, skipping the very
// start and end.
func (c *Capturer) Capture(ctx context.Context, video string, count int) ([]Shot, error) {
	if count <= 0 {
		return nil, nil
	}
	duration, err := c.Duration(ctx, video)
	if err != nil {
		return nil, err
	}

	shots := make([]Shot, 0, count)
	for _, offset := range Offsets(duration, count) {
		shot, err := c.grab(ctx, video, offset)
		if err != nil {
			return shots, err
		}
		shots = append(shots, *shot)
	}

	c.logger.Info("screenshots captured", "video", video, "count", len(shots))
	return shots, nil
}

// Offsets splits duration into count+1 equal parts and returns the inner
// boundaries.
func Offsets(duration time.Duration, count int) []time.Duration {
	out := make([]time.Duration, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, duration*time.Duration(i)/time.Duration(count+1))
	}
	return out
}

func (c *Capturer) grab(ctx context.Context, video string, offset time.Duration) (*Shot, error) {
	id := uuid.NewString()
	out := filepath.Join(c.outDir, id+".png")

	cmd := exec.CommandContext(ctx, c.ffmpeg,
		"-v", "error",
		"-ss", strconv.FormatFloat(offset.Seconds(), 'f', 3, 64),
		"-i", video,
		"-frames:v", "1",
		"-y", out,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInternal, "ffmpeg frame at %s: %s", offset, output)
	}

	shot := &Shot{ID: id, Path: out, Offset: offset, Seconds: offset.Seconds()}
	info, err := Describe(out)
	if err != nil {
		return nil, err
	}
	shot.Width, shot.Height, shot.BlurHash = info.Width, info.Height, info.BlurHash

	if c.thumbWidth > 0 && c.thumbWidth < shot.Width {
		thumb := filepath.Join(c.outDir, id+"_thumb.png")
		if err := Thumbnail(out, thumb, c.thumbWidth); err != nil {
			c.logger.Warn("thumbnail failed", "path", out, "error", err)
		} else {
			shot.Thumb = thumb
		}
	}
	return shot, nil
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration asks ffprobe for the container duration.
func (c *Capturer) Duration(ctx context.Context, video string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, c.ffprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		video,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, domainerrors.Wrapf(err, domainerrors.CodeUnsupported, "ffprobe %s", video)
	}

	var probe probeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil || seconds <= 0 {
		return 0, domainerrors.Unsupportedf("%s has no duration", video)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

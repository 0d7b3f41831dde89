package screenshot

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/relprep/relprep/internal/errors"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestOffsets(t *testing.T) {
	got := Offsets(100*time.Second, 4)
	assert.Equal(t, []time.Duration{20 * time.Second, 40 * time.Second, 60 * time.Second, 80 * time.Second}, got)
	assert.Empty(t, Offsets(time.Minute, 0))
}

func TestDescribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	writePNG(t, path, 320, 180)

	info, err := Describe(path)
	require.NoError(t, err)

	assert.Equal(t, 320, info.Width)
	assert.Equal(t, 180, info.Height)
	assert.NotEmpty(t, info.BlurHash)
}

func TestDescribe_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))

	_, err := Describe(path)
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "frame.png")
	dst := filepath.Join(dir, "thumb.png")
	writePNG(t, src, 400, 200)

	require.NoError(t, Thumbnail(src, dst, 100))

	info, err := Describe(dst)
	require.NoError(t, err)
	assert.Equal(t, 100, info.Width)
	assert.Equal(t, 50, info.Height)
}

func TestNewCapturer_MissingBinary(t *testing.T) {
	_, err := NewCapturer(Options{FFmpegPath: "/nonexistent/ffmpeg", FFprobePath: "ffprobe", OutDir: t.TempDir()}, nil)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnavailable))
}

func TestCapturer_Capture(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	dir := t.TempDir()
	frame := filepath.Join(dir, "source.png")
	writePNG(t, frame, 640, 360)

	ffprobe := writeScript(t, dir, "ffprobe", `echo '{"format":{"duration":"90.000"}}'`)
	ffmpeg := writeScript(t, dir, "ffmpeg", fmt.Sprintf(`for a; do last="$a"; done; cp %q "$last"`, frame))

	c, err := NewCapturer(Options{FFmpegPath: ffmpeg, FFprobePath: ffprobe, OutDir: filepath.Join(dir, "shots"), ThumbWidth: 160}, nil)
	require.NoError(t, err)

	shots, err := c.Capture(context.Background(), "/videos/movie.mkv", 2)
	require.NoError(t, err)
	require.Len(t, shots, 2)

	assert.Equal(t, 30*time.Second, shots[0].Offset)
	assert.Equal(t, 60*time.Second, shots[1].Offset)
	assert.NotEqual(t, shots[0].ID, shots[1].ID)
	for _, s := range shots {
		assert.FileExists(t, s.Path)
		assert.FileExists(t, s.Thumb)
		assert.Equal(t, 640, s.Width)
		assert.NotEmpty(t, s.BlurHash)
	}
}

func TestCapturer_NoDuration(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	dir := t.TempDir()
	ffprobe := writeScript(t, dir, "ffprobe", `echo '{"format":{}}'`)
	ffmpeg := writeScript(t, dir, "ffmpeg", "exit 1")

	c, err := NewCapturer(Options{FFmpegPath: ffmpeg, FFprobePath: ffprobe, OutDir: dir}, nil)
	require.NoError(t, err)

	_, err = c.Capture(context.Background(), "x.mkv", 3)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnsupported))
}

package screenshot

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"os"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// blurHashSize bounds the image the hash is computed from.
const blurHashSize = 64

// Info describes an image file.
type Info struct {
	Width    int
	Height   int
	BlurHash string
}

// Describe decodes an image and computes its dimensions and a 4x3 BlurHash.
func Describe(path string) (*Info, error) {
	img, err := decode(path)
	if err != nil {
		return nil, err
	}

	hash, err := blurhash.Encode(4, 3, scaleTo(img, blurHashSize, draw.NearestNeighbor))
	if err != nil {
		return nil, fmt.Errorf("encode blurhash: %w", err)
	}

	b := img.Bounds()
	return &Info{Width: b.Dx(), Height: b.Dy(), BlurHash: hash}, nil
}

// Thumbnail writes a PNG of src scaled to width, keeping the aspect ratio.
func Thumbnail(src, dst string, width int) error {
	img, err := decode(src)
	if err != nil {
		return err
	}

	b := img.Bounds()
	height := max(1, b.Dy()*width/b.Dx())
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Over, nil)

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return f.Close()
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// scaleTo shrinks img so neither side exceeds size. Smaller images are
// returned unchanged.
func scaleTo(img image.Image, size int, scaler draw.Scaler) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size && h <= size {
		return img
	}
	if w > h {
		w, h = size, max(1, h*size/w)
	} else {
		w, h = max(1, w*size/h), size
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

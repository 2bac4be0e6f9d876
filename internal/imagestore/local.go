package imagestore

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	// maxDimension is the bounding box images are resized into
	maxDimension = 1200
	// jpegQuality is the encode quality after resizing
	jpegQuality = 85

	filenameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// LocalStore persists images on the local filesystem and serves them under
// a URL prefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore creates a disk-backed image store, creating the directory
// if needed
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: urlPrefix}, nil
}

// Save decodes the image, resizes it to fit the bounding box without
// enlargement, re-encodes as JPEG and writes it to disk.
func (s *LocalStore) Save(ctx context.Context, r io.Reader) (StoredImage, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return StoredImage{}, ErrNotImage
	}

	if err := ctx.Err(); err != nil {
		return StoredImage{}, err
	}

	resized := fitWithin(src, maxDimension)

	filename := fmt.Sprintf("product_%d_%s.jpg", time.Now().UnixMilli(), randomSuffix(7))
	path := filepath.Join(s.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return StoredImage{}, fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		os.Remove(path)
		return StoredImage{}, fmt.Errorf("failed to encode image: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return StoredImage{}, fmt.Errorf("failed to stat image file: %w", err)
	}

	return StoredImage{
		URL:      s.urlPrefix + "/" + filename,
		Filename: filename,
		Size:     info.Size(),
	}, nil
}

// fitWithin scales an image down to fit inside max×max, preserving aspect
// ratio and never enlarging
func fitWithin(src image.Image, max int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= max && h <= max {
		return src
	}

	scale := float64(max) / float64(w)
	if h > w {
		scale = float64(max) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = filenameAlphabet[rand.Intn(len(filenameAlphabet))]
	}
	return string(b)
}

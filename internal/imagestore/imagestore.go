// Package imagestore persists uploaded product images behind a small
// contract, so swapping local disk for remote object storage only touches
// the implementation.
package imagestore

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotImage is returned when the payload cannot be decoded as an image
	ErrNotImage = errors.New("uploaded file is not a valid image")
)

// StoredImage describes a persisted image
type StoredImage struct {
	URL      string `json:"imageUrl"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Store saves image bytes and returns their public URL. Implementations own
// the resize/compress policy.
type Store interface {
	Save(ctx context.Context, r io.Reader) (StoredImage, error)
}

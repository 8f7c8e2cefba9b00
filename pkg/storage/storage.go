package storage

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled signals that no image store is configured.
var ErrDisabled = errors.New("storage: image store disabled")

// UploadResult identifies a stored image asset.
type UploadResult struct {
	URL      string
	PublicID string
}

// ImageStore defines the interface for hosted image asset storage.
type ImageStore interface {
	// Upload stores an image and returns its public URL and asset handle.
	Upload(ctx context.Context, file io.Reader, folder string) (*UploadResult, error)
	// Destroy releases a previously uploaded asset.
	Destroy(ctx context.Context, publicID string) error
}

// Disabled is the fallback when no asset store is configured. Uploads fail;
// destroys are no-ops so deletes still succeed.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, file io.Reader, folder string) (*UploadResult, error) {
	return nil, ErrDisabled
}

func (Disabled) Destroy(ctx context.Context, publicID string) error {
	return nil
}

package domain

import (
	"context"
	"io"
)

const UploadFolder = "orphan-management"

type StoredFile struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Format       string `json:"format"`
}

// FileStore keeps uploaded blobs. Keys are opaque to callers.
type FileStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

type UploadUseCase interface {
	Single(ctx context.Context, p Principal, file Upload) (*StoredFile, error)
	Multiple(ctx context.Context, p Principal, files []Upload) ([]StoredFile, error)
	Delete(ctx context.Context, p Principal, publicID string) error
}

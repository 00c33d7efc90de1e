package usecase

import (
	"context"
	"orphancare/domain"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxUploadSize  = 5 * 1024 * 1024
	MaxUploadFiles = 5
)

var allowedUploadTypes = []string{"jpeg", "jpg", "png", "gif", "pdf", "doc", "docx"}

// matchesAllowed reports whether s mentions one of the allowed types, which
// is how both the filename and the mime type are checked.
func matchesAllowed(s string) bool {
	s = strings.ToLower(s)
	for _, t := range allowedUploadTypes {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func checkUpload(f domain.Upload) error {
	if !matchesAllowed(f.Filename) || !matchesAllowed(f.ContentType) {
		return domain.Validation("Only images and documents are allowed")
	}
	if f.Size > MaxUploadSize {
		return domain.Validation("File too large")
	}
	return nil
}

type uploadUseCase struct {
	files   domain.FileStore
	TimeOut time.Duration
}

func NewUploadUseCase(files domain.FileStore, to time.Duration) domain.UploadUseCase {
	return &uploadUseCase{
		files:   files,
		TimeOut: to,
	}
}

// storeUpload validates and stores one file under the upload folder.
func storeUpload(ctx context.Context, files domain.FileStore, f domain.Upload) (*domain.StoredFile, error) {
	if err := checkUpload(f); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(f.Filename))
	publicID := uuid.NewString() + ext
	key := path.Join(domain.UploadFolder, publicID)

	if err := files.Put(ctx, key, f.Body, f.Size, f.ContentType); err != nil {
		return nil, err
	}
	url, err := files.URL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &domain.StoredFile{
		URL:          url,
		PublicID:     publicID,
		OriginalName: f.Filename,
		Size:         f.Size,
		Format:       strings.TrimPrefix(ext, "."),
	}, nil
}

func (uuc *uploadUseCase) Single(ctx context.Context, p domain.Principal, file domain.Upload) (*domain.StoredFile, error) {
	if p.UserID == "" {
		return nil, domain.Unauthorized("No token, authorization denied")
	}
	ctx, cancel := context.WithTimeout(ctx, uuc.TimeOut)
	defer cancel()

	return storeUpload(ctx, uuc.files, file)
}

func (uuc *uploadUseCase) Multiple(ctx context.Context, p domain.Principal, files []domain.Upload) ([]domain.StoredFile, error) {
	if p.UserID == "" {
		return nil, domain.Unauthorized("No token, authorization denied")
	}
	if len(files) == 0 {
		return nil, domain.Validation("No files uploaded")
	}
	if len(files) > MaxUploadFiles {
		return nil, domain.Validation("Too many files")
	}
	for _, f := range files {
		if err := checkUpload(f); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, uuc.TimeOut)
	defer cancel()

	stored := make([]domain.StoredFile, 0, len(files))
	for _, f := range files {
		s, err := storeUpload(ctx, uuc.files, f)
		if err != nil {
			for _, done := range stored {
				_ = uuc.files.Delete(ctx, path.Join(domain.UploadFolder, done.PublicID))
			}
			return nil, err
		}
		stored = append(stored, *s)
	}
	return stored, nil
}

func (uuc *uploadUseCase) Delete(ctx context.Context, p domain.Principal, publicID string) error {
	if p.UserID == "" {
		return domain.Unauthorized("No token, authorization denied")
	}
	stem := strings.TrimSuffix(publicID, filepath.Ext(publicID))
	if _, err := uuid.Parse(stem); err != nil || strings.ContainsAny(publicID, `/\`) {
		return domain.Validation("Invalid public ID")
	}

	ctx, cancel := context.WithTimeout(ctx, uuc.TimeOut)
	defer cancel()

	return uuc.files.Delete(ctx, path.Join(domain.UploadFolder, publicID))
}

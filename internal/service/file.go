package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/templui/portfolio/internal/storage"
	"github.com/templui/portfolio/internal/validation"
)

// Key prefixes for uploaded images, one per kind of owner.
const (
	BucketAvatars      = "avatars"
	BucketProjects     = "projects"
	BucketCertificates = "certificates"
)

// Upload is an image file as received from a form or the client SDK.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

type FileService struct {
	storage storage.Storage
}

func NewFileService(storage storage.Storage) *FileService {
	return &FileService{
		storage: storage,
	}
}

// UploadImage stores an image under {bucket}/{ownerId}/{random}.{ext} and
// returns its public URL.
func (s *FileService) UploadImage(ctx context.Context, bucket string, up Upload) (string, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return "", err
	}

	contentType, err := checkImage(up)
	if err != nil {
		return "", err
	}

	path := fmt.Sprintf("%s/%s/%s%s", bucket, user.ID, uuid.New().String(), validation.ImageExtension(up.Filename, contentType))
	return s.save(ctx, path, up.Body, contentType)
}

// UploadAvatar stores the identity's avatar at a fixed key, replacing the
// previous one.
func (s *FileService) UploadAvatar(ctx context.Context, up Upload) (string, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return "", err
	}

	contentType, err := checkImage(up)
	if err != nil {
		return "", err
	}

	path := fmt.Sprintf("%s/%s/avatar%s", BucketAvatars, user.ID, validation.ImageExtension(up.Filename, contentType))
	return s.save(ctx, path, up.Body, contentType)
}

func (s *FileService) save(ctx context.Context, path string, body io.Reader, contentType string) (string, error) {
	err := s.storage.Save(ctx, path, body, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	url := s.storage.URL(path)
	slog.Info("image uploaded", "path", path, "content_type", contentType)
	return url, nil
}

// checkImage rejects the upload on its declared metadata first, then sniffs
// the content. Storage is never touched for a rejected file.
func checkImage(up Upload) (string, error) {
	err := validation.ValidateImage(up.Filename, up.ContentType, up.Size)
	if err != nil {
		return "", err
	}

	if up.Body == nil {
		return "", fmt.Errorf("%w: file is empty", validation.ErrInvalidFile)
	}

	return validation.DetectImage(up.Body)
}

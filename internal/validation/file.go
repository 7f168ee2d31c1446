package validation

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the upload limit for avatars, project and certificate images.
const MaxImageSize = 5 << 20 // 5MB

var ErrInvalidFile = errors.New("invalid file")

// ValidateImage checks the declared metadata of an upload. It never reads the
// body, so callers can reject a file before any request or storage call.
func ValidateImage(filename, contentType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return fmt.Errorf("%w: please select an image file", ErrInvalidFile)
	}

	if size > MaxImageSize {
		return fmt.Errorf("%w: image size should be less than 5MB", ErrInvalidFile)
	}

	if size <= 0 {
		return fmt.Errorf("%w: file is empty", ErrInvalidFile)
	}

	if filename == "" {
		return fmt.Errorf("%w: file name is required", ErrInvalidFile)
	}

	return nil
}

// DetectImage sniffs the content (magic numbers) so a renamed non-image is rejected
// even when its declared Content-Type says image/*. The reader is rewound.
func DetectImage(r io.ReadSeeker) (string, error) {
	detected, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	_, err = r.Seek(0, io.SeekStart)
	if err != nil {
		return "", fmt.Errorf("failed to reset file pointer: %w", err)
	}

	if !strings.HasPrefix(detected.String(), "image/") {
		return "", fmt.Errorf("%w: invalid file type (detected: %s)", ErrInvalidFile, detected.String())
	}

	return detected.String(), nil
}

// ImageExtension picks the stored extension: the client's when present,
// otherwise one derived from the content type.
func ImageExtension(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" {
		return ext
	}

	if m := mimetype.Lookup(contentType); m != nil && m.Extension() != "" {
		return m.Extension()
	}

	return ".img"
}

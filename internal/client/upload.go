package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/validation"
)

// Upload is a file picked for upload. ContentType and Size are the declared
// metadata that are checked before anything is sent.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// FileFromPath opens a local file and sniffs its content type. The caller
// closes the returned file.
func FileFromPath(path string) (Upload, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return Upload{}, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return Upload{}, nil, err
	}

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		_ = f.Close()
		return Upload{}, nil, fmt.Errorf("failed to detect content type: %w", err)
	}
	_, err = f.Seek(0, io.SeekStart)
	if err != nil {
		_ = f.Close()
		return Upload{}, nil, err
	}

	return Upload{
		Filename:    filepath.Base(path),
		ContentType: mt.String(),
		Size:        info.Size(),
		Body:        f,
	}, f, nil
}

func (c *Client) uploadImage(ctx context.Context, path string, up Upload) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	n, err := c.upload(ctx, path, up, &out)
	c.report(n, err, "Failed to upload image")
	return out.URL, err
}

// upload checks the session and file metadata, then posts the file as
// multipart field "file".
func (c *Client) upload(ctx context.Context, path string, up Upload, out any) (*model.Notification, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	if err := validation.ValidateImage(up.Filename, up.ContentType, up.Size); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, up.Filename))
	header.Set("Content-Type", up.ContentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, err
	}
	_, err = io.Copy(part, io.LimitReader(up.Body, validation.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	err = mw.Close()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(req, out)
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/templui/portfolio/internal/service"
	"github.com/templui/portfolio/internal/validation"
)

// Room for the multipart envelope around the file itself.
const multipartOverhead = 1 << 20

const uploadField = "file"

// readUpload takes the image from the "file" form field. The returned close
// func must be called once the upload is stored.
func readUpload(w http.ResponseWriter, r *http.Request) (service.Upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxImageSize+multipartOverhead)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return service.Upload{}, nil, fmt.Errorf("%w: image size should be less than 5MB", validation.ErrInvalidFile)
		}
		return service.Upload{}, nil, fmt.Errorf("%w: please select an image file", validation.ErrInvalidFile)
	}

	closeFile := func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close uploaded file", "error", closeErr)
		}
	}

	return service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, closeFile, nil
}

// ImageHandler stores a project or certificate image and returns its URL.
type ImageHandler struct {
	upload func(ctx context.Context, up service.Upload) (string, error)
}

func NewImageHandler(upload func(ctx context.Context, up service.Upload) (string, error)) *ImageHandler {
	return &ImageHandler{upload: upload}
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	up, closeFile, err := readUpload(w, r)
	if err != nil {
		fail(w, r, err, "Upload failed")
		return
	}
	defer closeFile()

	url, err := h.upload(r.Context(), up)
	if err != nil {
		fail(w, r, err, "Upload failed")
		return
	}

	respond(w, r, http.StatusCreated, map[string]string{"url": url}, success("Success", "Image uploaded successfully"))
}

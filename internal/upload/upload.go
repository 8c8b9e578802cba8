// Package upload validates and buffers profile image attachments.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MaxImageBytes is the size ceiling for an uploaded profile image.
const MaxImageBytes = 2 * 1024 * 1024

var (
	// ErrUnsupportedMediaType indicates the attachment is not a JPEG or PNG.
	ErrUnsupportedMediaType = errors.New("upload: only JPEG/PNG allowed")
	// ErrPayloadTooLarge indicates the attachment exceeds MaxImageBytes.
	ErrPayloadTooLarge = errors.New("upload: image size exceeds 2MB")
)

// canonicalType maps accepted extensions and declared content types to the
// media type stored alongside the blob and re-emitted in projections.
var canonicalType = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
}

// Accept validates fh against the image constraints and returns the fully
// buffered payload with its canonical content type. Both the filename
// extension and the declared content type must name a JPEG or PNG,
// case-insensitively. The payload is held in memory only; nothing is
// written to disk.
func Accept(fh *multipart.FileHeader) ([]byte, string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	ct, ok := canonicalType[ext]
	if !ok {
		return nil, "", ErrUnsupportedMediaType
	}
	if !declaredImageType(fh.Header.Get("Content-Type")) {
		return nil, "", ErrUnsupportedMediaType
	}
	if fh.Size > MaxImageBytes {
		return nil, "", ErrPayloadTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("upload: open attachment: %w", err)
	}
	defer f.Close()

	// The declared size is client-controlled; re-check while reading.
	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("upload: read attachment: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, "", ErrPayloadTooLarge
	}
	return data, ct, nil
}

func declaredImageType(ct string) bool {
	switch strings.ToLower(strings.TrimSpace(ct)) {
	case "image/jpeg", "image/jpg", "image/png":
		return true
	}
	return false
}

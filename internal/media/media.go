// Package media stores uploaded images with a third-party host or on local disk.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrUploadFailed      = errors.New("media upload failed")
)

// AllowedFormats are the image extensions accepted for upload.
var AllowedFormats = []string{"jpg", "jpeg", "png", "webp"}

const sniffLen = 3072

// Folders under the media root.
const (
	FolderLiveries = "liveries"
	FolderDetails  = "details"
	FolderUsers    = "users"
)

type File struct {
	Name   string
	Reader io.Reader
}

type Uploaded struct {
	PublicID string
	URL      string
}

type Uploader interface {
	Upload(ctx context.Context, folder string, f File) (Uploaded, error)
	Remove(ctx context.Context, publicID string) error
}

// NewPublicID returns a unique, time-prefixed asset name.
func NewPublicID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString())
}

// Sniff detects the image format from the leading bytes and returns a reader positioned at the start.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	head = head[:n]

	ext := strings.TrimPrefix(mimetype.Detect(head).Extension(), ".")
	if !lo.Contains(AllowedFormats, ext) {
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimetype.Detect(head).String())
	}
	return ext, io.MultiReader(bytes.NewReader(head), r), nil
}

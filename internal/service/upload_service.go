package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/liverylibrary/backend/internal/media"

	"go.uber.org/zap"
)

const MaxImagesPerUpload = 5

// UploadService pushes a batch of images to the media host, all or nothing.
type UploadService struct {
	uploader media.Uploader
	logger   *zap.Logger
}

func NewUploadService(uploader media.Uploader, logger *zap.Logger) *UploadService {
	return &UploadService{uploader: uploader, logger: logger}
}

// UploadAll uploads files in order. On the first failure it removes whatever was
// already stored and returns an error, so callers never persist a partial batch.
func (s *UploadService) UploadAll(ctx context.Context, folder string, files []media.File) ([]media.Uploaded, error) {
	if len(files) > MaxImagesPerUpload {
		return nil, invalid("at most %d images per upload", MaxImagesPerUpload)
	}
	done := make([]media.Uploaded, 0, len(files))
	for _, f := range files {
		up, err := s.uploader.Upload(ctx, folder, f)
		if err != nil {
			s.Discard(ctx, done)
			return nil, uploadError(f.Name, err)
		}
		done = append(done, up)
	}
	return done, nil
}

func (s *UploadService) UploadOne(ctx context.Context, folder string, f media.File) (media.Uploaded, error) {
	up, err := s.uploader.Upload(ctx, folder, f)
	if err != nil {
		return media.Uploaded{}, uploadError(f.Name, err)
	}
	return up, nil
}

// Discard removes uploaded assets, best effort. It outlives request cancellation.
func (s *UploadService) Discard(ctx context.Context, uploaded []media.Uploaded) {
	ctx = context.WithoutCancel(ctx)
	for _, up := range uploaded {
		if err := s.uploader.Remove(ctx, up.PublicID); err != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("public_id", up.PublicID), zap.Error(err))
		}
	}
}

func uploadError(name string, err error) error {
	if errors.Is(err, media.ErrUnsupportedFormat) {
		return fmt.Errorf("%w: %s: %v", ErrValidation, name, err)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}

func urls(uploaded []media.Uploaded) []string {
	out := make([]string, len(uploaded))
	for i, up := range uploaded {
		out[i] = up.URL
	}
	return out
}

// Package media is the object store client for product photos.
package media

import (
	"Snack-Tracker/domain"
	"Snack-Tracker/internal/utils/storage"
	"Snack-Tracker/pkg/metrics"
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrUploadFailed = errors.New("image upload failed")

type (
	Uploader interface {
		// UploadImage stores data under images/<unix millis>.jpg and returns
		// a URL anyone can fetch.
		UploadImage(ctx context.Context, data []byte, contentType string) (string, error)
	}

	mediaService struct {
		s3  storage.AwsS3
		now func() time.Time
	}
)

func NewMediaService(s3 storage.AwsS3) Uploader {
	return &mediaService{s3: s3, now: time.Now}
}

func (s *mediaService) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrEmptyImage
	}

	start := time.Now()
	objectKey := ImageKey(s.now())
	key, err := s.s3.UploadBytes(ctx, objectKey, data, contentType, storage.AllowImage...)
	metrics.Observe(metrics.ServiceMedia, "upload", start, err)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return s.s3.GetPublicLinkKey(key), nil
}

func ImageKey(t time.Time) string {
	return fmt.Sprintf("images/%d.jpg", t.UnixMilli())
}

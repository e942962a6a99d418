// Package media processes uploaded photos: normalizes size, renders a
// thumbnail, and stores both.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	maxPhotoWidth = 1600
	thumbSize     = 256
)

// Uploader is the slice of the S3 store this package needs.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type PhotoURLs struct {
	Original  string `json:"originalUrl"`
	Thumbnail string `json:"thumbnailUrl"`
}

type Service struct {
	store Uploader
}

func NewService(store Uploader) *Service {
	return &Service{store: store}
}

// StorePhoto decodes the image, caps its width, renders a square thumbnail,
// and uploads both as JPEG.
func (s *Service) StorePhoto(ctx context.Context, r io.Reader) (PhotoURLs, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return PhotoURLs{}, fmt.Errorf("decode photo: %w", err)
	}

	if img.Bounds().Dx() > maxPhotoWidth {
		img = imaging.Resize(img, maxPhotoWidth, 0, imaging.Lanczos)
	}
	thumb := imaging.Fill(img, thumbSize, thumbSize, imaging.Center, imaging.Lanczos)

	id := uuid.New().String()
	originalURL, err := s.upload(ctx, fmt.Sprintf("photos/%s.jpg", id), img)
	if err != nil {
		return PhotoURLs{}, err
	}
	thumbURL, err := s.upload(ctx, fmt.Sprintf("photos/%s_thumb.jpg", id), thumb)
	if err != nil {
		return PhotoURLs{}, err
	}
	return PhotoURLs{Original: originalURL, Thumbnail: thumbURL}, nil
}

func (s *Service) upload(ctx context.Context, key string, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("encode %s: %w", key, err)
	}
	url, err := s.store.Upload(ctx, key, "image/jpeg", buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return url, nil
}

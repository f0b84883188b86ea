package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

const defaultUploadPreset = "store_uploads"

// allowedImageTypes maps accepted file extensions to the content type the
// file body must have.
var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type UploadService struct {
	uploader ports.MediaUploader
	preset   string
	logger   zerolog.Logger
}

func NewUploadService(uploader ports.MediaUploader, preset string, logger zerolog.Logger) *UploadService {
	if preset == "" {
		preset = defaultUploadPreset
	}
	return &UploadService{uploader: uploader, preset: preset, logger: logger}
}

func (s *UploadService) Upload(ctx context.Context, file ports.MediaFile) (*domain.UploadedMedia, error) {
	if err := checkImageType(file); err != nil {
		return nil, err
	}

	media, err := s.uploader.Upload(ctx, file, s.preset)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", file.Filename).Msg("media upload failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	s.logger.Info().Str("public_id", media.PublicID).Int64("size", file.Size).Msg("image uploaded")
	return media, nil
}

func checkImageType(file ports.MediaFile) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	want, ok := allowedImageTypes[ext]
	if !ok {
		return domain.ErrInvalidFileType
	}
	if !strings.HasPrefix(file.ContentType, want) {
		return domain.ErrInvalidFileType
	}
	return nil
}

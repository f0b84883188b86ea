package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

// CloudinaryConfig holds the account credentials.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// CloudinaryUploader uploads images with a named upload preset.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cfg CloudinaryConfig) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file ports.MediaFile, preset string) (*domain.UploadedMedia, error) {
	resp, err := u.cld.Upload.Upload(ctx, file.Body, uploader.UploadParams{
		UploadPreset: preset,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %w", errors.New(resp.Error.Message))
	}

	return &domain.UploadedMedia{
		SecureURL: resp.SecureURL,
		PublicID:  resp.PublicID,
	}, nil
}

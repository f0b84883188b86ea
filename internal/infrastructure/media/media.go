// Package media holds the MediaUploader adapters for the supported image
// hosts.
package media

import (
	"context"
	"fmt"

	"github.com/ananses3m/shop-api/internal/core/ports"
)

const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

// Config selects and configures the media host.
type Config struct {
	Provider   string
	Cloudinary CloudinaryConfig
	S3         S3Config
}

// New returns the uploader for cfg.Provider.
func New(ctx context.Context, cfg Config) (ports.MediaUploader, error) {
	switch cfg.Provider {
	case ProviderCloudinary, "":
		return NewCloudinaryUploader(cfg.Cloudinary)
	case ProviderS3:
		return NewS3Uploader(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown media provider %q", cfg.Provider)
	}
}

package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

// S3Config targets AWS S3 or any S3-compatible store such as MinIO.
type S3Config struct {
	Region    string
	Endpoint  string // empty for AWS
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicBaseURL prefixes object keys in returned URLs. Defaults to the
	// path-style bucket URL.
	PublicBaseURL string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores images as public objects under uploads/<yyyy>/<mm>/.
type S3Uploader struct {
	client  objectPutter
	bucket  string
	baseURL string
	now     func() time.Time
}

func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Uploader(client, cfg), nil
}

func newS3Uploader(client objectPutter, cfg S3Config) *S3Uploader {
	base := cfg.PublicBaseURL
	if base == "" {
		if cfg.Endpoint != "" {
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(base, "/"),
		now:     time.Now,
	}
}

// Upload stores the image under a fresh key. The preset becomes the key's
// top-level folder, mirroring how the preset groups uploads on Cloudinary.
func (u *S3Uploader) Upload(ctx context.Context, file ports.MediaFile, preset string) (*domain.UploadedMedia, error) {
	key := u.objectKey(preset, file.Filename)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          file.Body,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(file.ContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 put object: %w", err)
	}

	return &domain.UploadedMedia{
		SecureURL: u.baseURL + "/" + key,
		PublicID:  key,
	}, nil
}

func (u *S3Uploader) objectKey(preset, filename string) string {
	d := u.now().UTC()
	ext := strings.ToLower(filepath.Ext(filename))
	if preset == "" {
		preset = "uploads"
	}
	return fmt.Sprintf("%s/%04d/%02d/%s%s", preset, d.Year(), int(d.Month()), uuid.NewString(), ext)
}

package ports

import (
	"context"
	"io"

	"github.com/ananses3m/shop-api/internal/core/domain"
)

// MediaFile is an image handed to the media host. Body is positioned at the
// start of the file and must stay seekable so S3 can checksum it.
type MediaFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// MediaUploader stores an image on an external media host.
type MediaUploader interface {
	Upload(ctx context.Context, file MediaFile, preset string) (*domain.UploadedMedia, error)
}

// PaymentCollector requests payments from a mobile-money gateway.
type PaymentCollector interface {
	// RequestToPay submits req and returns the gateway reference id.
	RequestToPay(ctx context.Context, req domain.PaymentRequest) (string, error)
	Transaction(ctx context.Context, referenceID string) (*domain.Transaction, error)
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(ctx context.Context, msg domain.Email) error
}

// ResetThrottle limits how often a reset link can be requested for one email.
type ResetThrottle interface {
	// Allow reports whether a new reset request for email may proceed and
	// records the attempt.
	Allow(ctx context.Context, email string) (bool, error)
}

// CollectPaymentInput is the payment relay payload.
type CollectPaymentInput struct {
	Amount      float64
	PayerNumber string
	OrderID     string
}

// UploadService relays images to the media host.
type UploadService interface {
	Upload(ctx context.Context, file MediaFile) (*domain.UploadedMedia, error)
}

// PaymentService relays payment collections to the gateway.
type PaymentService interface {
	Collect(ctx context.Context, in CollectPaymentInput) (*domain.Transaction, error)
}

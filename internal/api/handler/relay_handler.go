package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ananses3m/shop-api/internal/api/metrics"
	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

// sniffLen is the number of bytes http.DetectContentType looks at.
const sniffLen = 512

type RelayHandler struct {
	uploads        ports.UploadService
	payments       ports.PaymentService
	paypalClientID string
}

func NewRelayHandler(uploads ports.UploadService, payments ports.PaymentService, paypalClientID string) *RelayHandler {
	return &RelayHandler{uploads: uploads, payments: payments, paypalClientID: paypalClientID}
}

type momoRequest struct {
	Amount      json.Number `json:"reqAmount" validate:"required"`
	PayerNumber string      `json:"payerNumber" validate:"required"`
	OrderID     string      `json:"order_id"`
}

// Upload forwards a product image to the media host.
//
// @Summary      Upload an image
// @Tags         relay
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "JPEG or PNG image"
// @Success      200    {object}  domain.UploadedMedia
// @Failure      400    {object}  map[string]string
// @Failure      502    {object}  map[string]string
// @Router       /upload [post]
func (h *RelayHandler) Upload(c echo.Context) error {
	header, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}

	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return err
	}

	media, err := h.uploads.Upload(c.Request().Context(), ports.MediaFile{
		Filename:    header.Filename,
		ContentType: http.DetectContentType(head[:n]),
		Size:        header.Size,
		Body:        src,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidFileType):
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		default:
			metrics.UploadsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}
	metrics.UploadsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, media)
}

// Momo requests a mobile-money collection from the payer and returns the
// transaction as seen by the gateway.
//
// @Summary      Request a MoMo payment
// @Tags         relay
// @Accept       json
// @Produce      json
// @Param        body  body      momoRequest  true  "Collection request"
// @Success      200   {object}  domain.Transaction
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /config/momo [post]
func (h *RelayHandler) Momo(c echo.Context) error {
	var req momoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	amount, err := req.Amount.Float64()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "reqAmount must be a number")
	}

	start := time.Now()
	tx, err := h.payments.Collect(c.Request().Context(), ports.CollectPaymentInput{
		Amount:      amount,
		PayerNumber: req.PayerNumber,
		OrderID:     req.OrderID,
	})
	metrics.PaymentDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PaymentsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.PaymentsTotal.WithLabelValues(paymentStatusLabel(tx.Status)).Inc()

	return c.JSON(http.StatusOK, tx)
}

// paymentStatusLabel folds a gateway status into a fixed metric label.
func paymentStatusLabel(status string) string {
	switch strings.ToUpper(status) {
	case "PENDING":
		return "pending"
	case "SUCCESSFUL":
		return "successful"
	case "FAILED":
		return "failed"
	default:
		return "other"
	}
}

// PayPalClientID returns the PayPal client id used by the checkout page.
//
// @Summary      PayPal client id
// @Tags         relay
// @Produce      plain
// @Success      200  {string}  string
// @Router       /config/paypal [get]
func (h *RelayHandler) PayPalClientID(c echo.Context) error {
	return c.String(http.StatusOK, h.paypalClientID)
}

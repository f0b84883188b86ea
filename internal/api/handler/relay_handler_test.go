package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

// pngHeader is enough of a PNG file for http.DetectContentType.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type stubUploadService struct {
	got    ports.MediaFile
	body   []byte
	reread []byte
	err    error
}

func (s *stubUploadService) Upload(_ context.Context, file ports.MediaFile) (*domain.UploadedMedia, error) {
	s.got = file
	s.body, _ = io.ReadAll(file.Body)
	if _, err := file.Body.Seek(0, io.SeekStart); err == nil {
		s.reread, _ = io.ReadAll(file.Body)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &domain.UploadedMedia{SecureURL: "https://cdn.example.com/" + file.Filename, PublicID: "store_uploads/abc"}, nil
}

type stubPaymentService struct {
	got ports.CollectPaymentInput
	err error
}

func (s *stubPaymentService) Collect(_ context.Context, in ports.CollectPaymentInput) (*domain.Transaction, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Transaction{ReferenceID: "ref-1", Amount: "25", Currency: "EUR", Status: "PENDING"}, nil
}

func multipartContext(t *testing.T, field, filename string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRelayHandler_Upload(t *testing.T) {
	uploads := &stubUploadService{}
	h := NewRelayHandler(uploads, nil, "")

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0x42}, 1024)...)
	c, rec := multipartContext(t, "image", "shoe.png", content)
	if err := h.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	requireStatus(t, rec, http.StatusOK)

	if uploads.got.ContentType != "image/png" {
		t.Fatalf("expected sniffed image/png, got %q", uploads.got.ContentType)
	}
	if !bytes.Equal(uploads.body, content) {
		t.Fatalf("forwarded body differs from upload (%d vs %d bytes)", len(uploads.body), len(content))
	}

	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["secure_url"] != "https://cdn.example.com/shoe.png" || resp["public_id"] != "store_uploads/abc" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestRelayHandler_Upload_BodyIsRewindable(t *testing.T) {
	uploads := &stubUploadService{}
	h := NewRelayHandler(uploads, nil, "")

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0x17}, 2048)...)
	c, _ := multipartContext(t, "image", "shoe.png", content)
	if err := h.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !bytes.Equal(uploads.reread, content) {
		t.Fatalf("body did not rewind to the start of the file (%d vs %d bytes)", len(uploads.reread), len(content))
	}
}

func TestRelayHandler_Upload_SmallFile(t *testing.T) {
	uploads := &stubUploadService{}
	h := NewRelayHandler(uploads, nil, "")

	c, _ := multipartContext(t, "image", "tiny.png", pngHeader)
	if err := h.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !bytes.Equal(uploads.body, pngHeader) {
		t.Fatalf("small file not forwarded intact")
	}
}

func TestRelayHandler_Upload_MissingFile(t *testing.T) {
	h := NewRelayHandler(&stubUploadService{}, nil, "")

	c, _ := multipartContext(t, "photo", "shoe.png", pngHeader)
	requireHTTPError(t, h.Upload(c), http.StatusBadRequest)
}

func TestRelayHandler_Upload_Rejected(t *testing.T) {
	h := NewRelayHandler(&stubUploadService{err: domain.ErrInvalidFileType}, nil, "")

	c, _ := multipartContext(t, "image", "notes.txt", []byte("plain text"))
	if err := h.Upload(c); !errors.Is(err, domain.ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
}

func TestRelayHandler_Momo(t *testing.T) {
	payments := &stubPaymentService{}
	h := NewRelayHandler(nil, payments, "")

	c, rec := newContext(http.MethodPost, "/api/config/momo", `{"reqAmount":"25","payerNumber":"46733123453","order_id":"o1"}`, nil)
	if err := h.Momo(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	requireStatus(t, rec, http.StatusOK)

	if payments.got.Amount != 25 || payments.got.PayerNumber != "46733123453" || payments.got.OrderID != "o1" {
		t.Fatalf("unexpected input: %+v", payments.got)
	}

	var tx domain.Transaction
	_ = json.Unmarshal(rec.Body.Bytes(), &tx)
	if tx.ReferenceID != "ref-1" || tx.Status != "PENDING" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
}

func TestRelayHandler_Momo_NumericAmountAndErrors(t *testing.T) {
	payments := &stubPaymentService{}
	h := NewRelayHandler(nil, payments, "")

	c, _ := newContext(http.MethodPost, "/api/config/momo", `{"reqAmount":12.5,"payerNumber":"4673"}`, nil)
	if err := h.Momo(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if payments.got.Amount != 12.5 {
		t.Fatalf("expected 12.5, got %v", payments.got.Amount)
	}

	c, _ = newContext(http.MethodPost, "/api/config/momo", `{"payerNumber":"4673"}`, nil)
	requireHTTPError(t, h.Momo(c), http.StatusBadRequest)

	payments.err = domain.ErrUpstream
	c, _ = newContext(http.MethodPost, "/api/config/momo", `{"reqAmount":1,"payerNumber":"4673"}`, nil)
	if err := h.Momo(c); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestRelayHandler_PayPalClientID(t *testing.T) {
	h := NewRelayHandler(nil, nil, "sb-client")

	c, rec := newContext(http.MethodGet, "/api/config/paypal", "", nil)
	if err := h.PayPalClientID(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "sb-client" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != echo.MIMETextPlainCharsetUTF8 {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestPaymentStatusLabel(t *testing.T) {
	cases := map[string]string{
		"PENDING":    "pending",
		"SUCCESSFUL": "successful",
		"failed":     "failed",
		"REJECTED":   "other",
		"":           "other",
	}
	for status, want := range cases {
		if got := paymentStatusLabel(status); got != want {
			t.Errorf("paymentStatusLabel(%q) = %q, want %q", status, got, want)
		}
	}
}

package media

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ananses3m/shop-api/internal/core/ports"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func testFile() ports.MediaFile {
	return ports.MediaFile{
		Filename:    "Shirt.PNG",
		ContentType: "image/png",
		Size:        5,
		Body:        strings.NewReader("image"),
	}
}

func TestS3Uploader_Upload(t *testing.T) {
	putter := &fakePutter{}
	u := newS3Uploader(putter, S3Config{Bucket: "shop", Endpoint: "http://minio:9000/"})
	u.now = func() time.Time { return time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC) }

	media, err := u.Upload(context.Background(), testFile(), "store_uploads")
	require.NoError(t, err)

	key := aws.ToString(putter.in.Key)
	assert.True(t, strings.HasPrefix(key, "store_uploads/2024/03/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Equal(t, "shop", aws.ToString(putter.in.Bucket))
	assert.Equal(t, "image/png", aws.ToString(putter.in.ContentType))
	assert.Equal(t, int64(5), aws.ToInt64(putter.in.ContentLength))
	assert.Equal(t, "image", putter.body)

	assert.Equal(t, key, media.PublicID)
	assert.Equal(t, "http://minio:9000/shop/"+key, media.SecureURL)
}

func TestS3Uploader_PlainHTTPEndpoint(t *testing.T) {
	var (
		hits    int
		gotPath string
		gotBody string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := NewS3Uploader(context.Background(), S3Config{
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		Bucket:    "shop",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)

	// Same shape the upload handler produces: a file read past its sniffed
	// head and rewound.
	content := "\x89PNG\r\n\x1a\nrest-of-image"
	body := strings.NewReader(content)
	_, _ = io.ReadFull(body, make([]byte, 8))
	_, err = body.Seek(0, io.SeekStart)
	require.NoError(t, err)

	media, err := u.Upload(context.Background(), ports.MediaFile{
		Filename:    "shoe.png",
		ContentType: "image/png",
		Size:        int64(len(content)),
		Body:        body,
	}, "store_uploads")
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
	assert.True(t, strings.HasPrefix(gotPath, "/shop/store_uploads/"), gotPath)
	assert.Equal(t, content, gotBody)
	assert.Equal(t, strings.TrimSuffix(srv.URL, "/")+gotPath, media.SecureURL)
}

func TestS3Uploader_DefaultAWSURL(t *testing.T) {
	u := newS3Uploader(&fakePutter{}, S3Config{Bucket: "shop", Region: "eu-west-1"})

	media, err := u.Upload(context.Background(), testFile(), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(media.SecureURL, "https://shop.s3.eu-west-1.amazonaws.com/uploads/"), media.SecureURL)
}

func TestS3Uploader_Error(t *testing.T) {
	u := newS3Uploader(&fakePutter{err: errors.New("access denied")}, S3Config{Bucket: "shop"})

	_, err := u.Upload(context.Background(), testFile(), "store_uploads")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestCloudinaryUploader_Upload(t *testing.T) {
	var gotPath string
	var gotPreset string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			gotPreset = r.FormValue("upload_preset")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"public_id":"store_uploads/abc","secure_url":"https://res.cloudinary.com/demo/image/upload/store_uploads/abc.png"}`)
	}))
	defer srv.Close()

	u, err := NewCloudinaryUploader(CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret"})
	require.NoError(t, err)
	u.cld.Config.API.UploadPrefix = srv.URL

	media, err := u.Upload(context.Background(), testFile(), "store_uploads")
	require.NoError(t, err)
	assert.Equal(t, "store_uploads/abc", media.PublicID)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/store_uploads/abc.png", media.SecureURL)
	assert.Contains(t, gotPath, "/demo/")
	assert.Equal(t, "store_uploads", gotPreset)
}

func TestCloudinaryUploader_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"Upload preset not found"}}`)
	}))
	defer srv.Close()

	u, err := NewCloudinaryUploader(CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret"})
	require.NoError(t, err)
	u.cld.Config.API.UploadPrefix = srv.URL

	_, err = u.Upload(context.Background(), testFile(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upload preset not found")
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "ftp"})
	require.Error(t, err)
}

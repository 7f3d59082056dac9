package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tutorlink.backend/internal/config"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestLocalStore_Put(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "http://localhost:8080/files/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "req/req_government_id_1.pdf", bytes.NewBufferString("pdf"), 3, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/req/req_government_id_1.pdf", url)

	data, err := os.ReadFile(filepath.Join(root, "req", "req_government_id_1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(data))

	_, err = store.Put(context.Background(), "req/req_government_id_1.pdf", bytes.NewBufferString("again"), 5, "")
	assert.Error(t, err, "existing objects are never overwritten")
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://x")
	require.NoError(t, err)

	for _, key := range []string{"../etc/passwd", "/abs/key", ""} {
		_, err := store.Put(context.Background(), key, bytes.NewBufferString("x"), 1, "")
		assert.Error(t, err, key)
	}
}

func TestLocalStore_CanceledContext(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://x")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Put(ctx, "a/b.pdf", bytes.NewBufferString("x"), 1, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestS3Store_Put(t *testing.T) {
	client := &fakeS3{}
	store := newS3Store(client, S3Options{Bucket: "verification-documents", Region: "eu-west-1"})

	url, err := store.Put(context.Background(), "r/r_tax_document_9.png", bytes.NewBufferString("img"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://verification-documents.s3.eu-west-1.amazonaws.com/r/r_tax_document_9.png", url)
	assert.Equal(t, "verification-documents", aws.ToString(client.input.Bucket))
	assert.Equal(t, "r/r_tax_document_9.png", aws.ToString(client.input.Key))
	assert.Equal(t, "image/png", aws.ToString(client.input.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(client.input.ContentLength))
	assert.Equal(t, "img", string(client.body))
}

func TestS3Store_PutError(t *testing.T) {
	store := newS3Store(&fakeS3{err: errors.New("access denied")}, S3Options{Bucket: "b"})
	_, err := store.Put(context.Background(), "k", bytes.NewBufferString("x"), 1, "")
	assert.ErrorContains(t, err, "access denied")
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBaseURL(S3Options{PublicBaseURL: "https://cdn.example.com/"}))
	assert.Equal(t, "http://minio:9000/docs", publicBaseURL(S3Options{Endpoint: "http://minio:9000", Bucket: "docs"}))
}

func TestNew_PicksDriver(t *testing.T) {
	store, err := New(context.Background(), config.StorageConfig{Driver: "local", LocalDir: t.TempDir(), PublicBaseURL: "http://x"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}

func TestNew_S3UsesEndpointWhenBaseURLIsLocalDefault(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	store, err := New(context.Background(), config.StorageConfig{
		Driver:        "s3",
		Bucket:        "docs",
		S3Region:      "us-east-1",
		S3Endpoint:    "http://minio:9000",
		S3PathStyle:   true,
		PublicBaseURL: config.DefaultLocalPublicBaseURL,
	})
	require.NoError(t, err)
	s3Store, ok := store.(*S3Store)
	require.True(t, ok)
	assert.Equal(t, "http://minio:9000/docs", s3Store.baseURL)
}

package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

func TestStaticResolver(t *testing.T) {
	ctx := context.Background()
	r := NewStaticResolver("https://cdn.example.com/images/")

	assert.Equal(t, "https://cdn.example.com/images/mug.png", r.ResolveImage(ctx, "/mug.png"))
	assert.Equal(t, "https://other.example.com/a.png", r.ResolveImage(ctx, "https://other.example.com/a.png"))
	assert.Equal(t, "", r.ResolveImage(ctx, ""))
	assert.Equal(t, "mug.png", NewStaticResolver("").ResolveImage(ctx, "mug.png"))
}

func TestNewS3ImageResolver_Validation(t *testing.T) {
	_, err := NewS3ImageResolver(nil)
	assert.Error(t, err)

	_, err = NewS3ImageResolver(&config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"})
	assert.ErrorContains(t, err, "bucket")

	_, err = NewS3ImageResolver(&config.StorageConfig{Bucket: "b"})
	assert.ErrorContains(t, err, "credentials")
}

func TestS3ImageResolver_Presigns(t *testing.T) {
	r, err := NewS3ImageResolver(&config.StorageConfig{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		Bucket:          "catalog",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		PresignExpiry:   5 * time.Minute,
	})
	require.NoError(t, err)

	raw := r.ResolveImage(context.Background(), "acme/mug.png")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/catalog/acme/mug.png", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))

	assert.Equal(t, "https://x.test/a.png", r.ResolveImage(context.Background(), "https://x.test/a.png"))
}

func TestNewImageResolver(t *testing.T) {
	logger := zap.NewNop()

	assert.IsType(t, &StaticResolver{}, NewImageResolver(config.StorageConfig{Enabled: false}, logger))
	assert.IsType(t, &StaticResolver{}, NewImageResolver(config.StorageConfig{Enabled: true, PublicBaseURL: "https://cdn"}, logger))
	assert.IsType(t, &StaticResolver{}, NewImageResolver(config.StorageConfig{Enabled: true}, logger), "broken config degrades")
	assert.IsType(t, &S3ImageResolver{}, NewImageResolver(config.StorageConfig{
		Enabled: true, Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s",
	}, logger))
}

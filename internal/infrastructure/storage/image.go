// Package storage turns product image keys into URLs a browser can load.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ImageResolver maps a stored image reference to a URL. Empty input yields "".
type ImageResolver interface {
	ResolveImage(ctx context.Context, ref string) string
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "//")
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// StaticResolver prefixes keys with a public base URL
type StaticResolver struct {
	baseURL string
}

// NewStaticResolver creates a resolver. An empty base returns keys unchanged.
func NewStaticResolver(baseURL string) *StaticResolver {
	return &StaticResolver{baseURL: baseURL}
}

// ResolveImage implements ImageResolver
func (r *StaticResolver) ResolveImage(_ context.Context, ref string) string {
	if ref == "" || isAbsoluteURL(ref) || r.baseURL == "" {
		return ref
	}
	return joinURL(r.baseURL, ref)
}

// S3ImageResolver presigns GET requests against an S3-compatible bucket
type S3ImageResolver struct {
	presignClient *s3.PresignClient
	bucket        string
	expiry        time.Duration
	logger        *zap.Logger
}

// S3ImageResolverOption configures the resolver
type S3ImageResolverOption func(*S3ImageResolver)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3ImageResolverOption {
	return func(r *S3ImageResolver) {
		r.logger = logger
	}
}

// NewS3ImageResolver builds the presign client from storage settings
func NewS3ImageResolver(cfg *config.StorageConfig, opts ...S3ImageResolverOption) (*S3ImageResolver, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	r := &S3ImageResolver{
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		expiry:        cfg.PresignExpiry,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.expiry <= 0 {
		r.expiry = 15 * time.Minute
	}
	return r, nil
}

// ResolveImage presigns ref. Failures are logged and resolve to "" so the product still renders.
func (r *S3ImageResolver) ResolveImage(ctx context.Context, ref string) string {
	if ref == "" || isAbsoluteURL(ref) {
		return ref
	}
	req, err := r.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(strings.TrimLeft(ref, "/")),
	}, s3.WithPresignExpires(r.expiry))
	if err != nil {
		r.logger.Warn("Failed to presign product image", zap.String("key", ref), zap.Error(err))
		return ""
	}
	return req.URL
}

// NewImageResolver picks the resolver for cfg: a public base URL wins over presigning,
// and a disabled or broken bucket degrades to returning keys as-is.
func NewImageResolver(cfg config.StorageConfig, logger *zap.Logger) ImageResolver {
	if cfg.PublicBaseURL != "" || !cfg.Enabled {
		return NewStaticResolver(cfg.PublicBaseURL)
	}
	r, err := NewS3ImageResolver(&cfg, WithLogger(logger))
	if err != nil {
		logger.Warn("Image storage unavailable, serving raw image keys", zap.Error(err))
		return NewStaticResolver("")
	}
	return r
}

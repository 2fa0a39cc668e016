// Package mediastore serves presigned playback URLs for self-hosted video
// files stored in an S3-compatible bucket.
package mediastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/WatchHubTV/WatchHub/internal/pkg/env"
)

const urlTTL = 4 * time.Hour

// Config holds the media bucket settings.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // optional, for S3-compatible services
}

// LoadConfig reads the media bucket settings from environment variables.
// An empty bucket name means the media store is disabled.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AccessKeyID:     env.GetEnv("MEDIA_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("MEDIA_S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("MEDIA_S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("MEDIA_S3_BUCKET", ""),
		EndpointURL:     env.GetEnv("MEDIA_S3_ENDPOINT_URL", ""),
	}

	if cfg.BucketName != "" {
		if cfg.AccessKeyID == "" {
			return nil, errors.New("MEDIA_S3_ACCESS_KEY_ID is required when a media bucket is configured")
		}
		if cfg.SecretAccessKey == "" {
			return nil, errors.New("MEDIA_S3_SECRET_ACCESS_KEY is required when a media bucket is configured")
		}
	}
	return cfg, nil
}

func (c *Config) IsEnabled() bool {
	return c.BucketName != ""
}

// ObjectKey maps an IMDb ID to its object path in the bucket.
func (c *Config) ObjectKey(imdbID string) string {
	return fmt.Sprintf("videos/%s/stream.mp4", imdbID)
}

// Store wraps the S3 client with playback-URL generation.
type Store struct {
	s3Client *s3.Client
	presign  *s3.PresignClient
	config   *Config
}

// New builds a media store from a config. Returns nil without error when
// the store is disabled.
func New(ctx context.Context, cfg *Config) (*Store, error) {
	if !cfg.IsEnabled() {
		return nil, nil
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	return &Store{
		s3Client: s3Client,
		presign:  s3.NewPresignClient(s3Client),
		config:   cfg,
	}, nil
}

func NewFromEnv(ctx context.Context) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg)
}

// PlaybackURL returns a presigned GET URL for a title, or "" when the
// bucket does not hold it.
func (s *Store) PlaybackURL(ctx context.Context, imdbID string) (string, error) {
	key := s.config.ObjectKey(imdbID)

	_, err := s.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", nil
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(urlTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign playback URL: %w", err)
	}
	return req.URL, nil
}

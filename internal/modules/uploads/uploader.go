// Package uploads pushes operation attachments (chart screenshots) to an
// S3-compatible object store and hands back their public URL.
package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config holds the object store settings
type Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string
	MaxBytes  int64
}

// ObjectStore stores a file and returns its public URL
type ObjectStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// S3Store uploads attachments through the s3 transfer manager
type S3Store struct {
	uploader  *manager.Uploader
	bucket    string
	publicURL string
	log       zerolog.Logger
}

// NewS3Store creates an S3-backed object store
func NewS3Store(ctx context.Context, cfg Config, log zerolog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("uploads bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws configuration: %w", err)
	}

	return &S3Store{
		uploader:  manager.NewUploader(s3.NewFromConfig(awsCfg)),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		log:       log.With().Str("component", "uploads").Logger(),
	}, nil
}

// Upload stores one attachment under a collision-free key
func (s *S3Store) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := "uploads/" + uuid.NewString() + strings.ToLower(path.Ext(filename))

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	s.log.Info().Str("key", key).Msg("Attachment uploaded")
	return s.publicURL + "/" + key, nil
}

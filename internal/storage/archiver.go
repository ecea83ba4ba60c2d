// Package storage uploads generated invoice PDFs to an S3-compatible
// bucket (R2, MinIO, AWS). Archival is optional and best-effort; the
// API never fails a request because the archive is unreachable.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"timebook-backend/internal/config"
)

type Archiver struct {
	client *s3.Client
	bucket string
}

// NewArchiver builds the S3 client from config, or returns nil when
// archival is disabled.
func NewArchiver(ctx context.Context, cfg *config.Config) (*Archiver, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
		}
	})

	return &Archiver{client: client, bucket: cfg.Storage.Bucket}, nil
}

func (a *Archiver) Upload(ctx context.Context, key string, data []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	return err
}

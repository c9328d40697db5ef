// Package delivery uploads the generated dashboard artifact to S3-compatible
// object storage, grounded in the analytics pipeline's export-delivery
// adapter: same AWS SDK v2 client construction, same path-style override for
// non-AWS endpoints, same presigned-URL pattern.
package delivery

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3Delivery uploads the dashboard artifact to an S3-compatible bucket and
// can mint a presigned GET URL for it.
type S3Delivery struct {
	client       *s3.Client
	bucket       string
	signedURLTTL time.Duration
	logger       *zap.Logger
}

// NewS3Delivery builds an S3Delivery. endpoint may be empty to use AWS S3
// directly; any other value switches to path-style addressing for
// S3-compatible object stores.
func NewS3Delivery(ctx context.Context, endpoint, region, accessKey, secretKey, bucket string, signedURLTTL time.Duration, logger *zap.Logger) (*S3Delivery, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if endpoint != "" {
		cfg.BaseEndpoint = aws.String(endpoint)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.UsePathStyle = true
		}
	})

	return &S3Delivery{client: client, bucket: bucket, signedURLTTL: signedURLTTL, logger: logger}, nil
}

// Upload writes the dashboard artifact under a run-scoped key and returns
// its SHA-256 checksum and a presigned GET URL.
func (d *S3Delivery) Upload(ctx context.Context, artifactKey string, body []byte) (checksum string, signedURL string, err error) {
	hash := sha256.Sum256(body)
	checksum = hex.EncodeToString(hash[:])

	_, err = d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(artifactKey),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/javascript"),
		ContentLength: aws.Int64(int64(len(body))),
		Metadata: map[string]string{
			"checksum": checksum,
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("upload dashboard artifact: %w", err)
	}

	signedURL, err = d.presign(ctx, artifactKey)
	if err != nil {
		return "", "", fmt.Errorf("presign dashboard artifact: %w", err)
	}

	d.logger.Info("uploaded dashboard artifact",
		zap.String("key", artifactKey),
		zap.String("checksum", checksum),
		zap.Int("size_bytes", len(body)),
	)
	return checksum, signedURL, nil
}

func (d *S3Delivery) presign(ctx context.Context, key string) (string, error) {
	presigner := s3.NewPresignClient(d.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = d.signedURLTTL
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

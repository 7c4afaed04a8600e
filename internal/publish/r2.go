// Package publish uploads rendered page snapshots to Cloudflare R2.
package publish

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bilgisen/feedview/internal/config"
)

// ObjectPutter is the part of the S3 client the publisher needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type R2Publisher struct {
	client ObjectPutter
	bucket string
}

// NewR2Publisher builds an S3 client against the configured R2 endpoint
func NewR2Publisher(ctx context.Context, cfg *config.Config) (*R2Publisher, error) {
	if !cfg.R2Enabled() {
		return nil, fmt.Errorf("R2 is not configured: R2_ENDPOINT, R2_ACCESS_KEY and R2_SECRET_ACCESS_KEY are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 client config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2Endpoint)
		o.UsePathStyle = true
	})

	return NewPublisher(client, cfg.R2Bucket), nil
}

// NewPublisher wraps an existing client
func NewPublisher(client ObjectPutter, bucket string) *R2Publisher {
	return &R2Publisher{client: client, bucket: bucket}
}

// Publish stores page under key as an HTML object
func (p *R2Publisher) Publish(ctx context.Context, key string, page []byte) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(page),
		ContentType:  aws.String("text/html; charset=utf-8"),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, p.bucket, err)
	}
	return nil
}

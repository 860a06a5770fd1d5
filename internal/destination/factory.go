package destination

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"photo-archive/internal/archive"
	"photo-archive/internal/config"
)

// NewDestination creates a Destination for the raw destination argument.
// An s3:// URL selects the S3 destination; anything else is a local directory.
// encryptor is only used by the S3 destination and may be nil.
func NewDestination(ctx context.Context, raw string, cfg config.S3Config, encryptor archive.Encryptor) (archive.Destination, error) {
	if !IsS3URL(raw) {
		return NewFileSystemDestination(raw)
	}

	bucket, prefix, err := ParseS3URL(raw)
	if err != nil {
		return nil, err
	}
	client, err := NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		if cfg.PartSize > 0 {
			u.PartSize = cfg.PartSize
		}
	})
	return NewS3Destination(ctx, bucket, prefix, client, uploader, encryptor), nil
}

// NewS3Client builds an S3 client from the default AWS credential chain,
// overridden by whatever the config sets explicitly.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

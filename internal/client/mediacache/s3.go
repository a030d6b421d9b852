package mediacache

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/eranshir/scenic/internal/client/models"
	"github.com/eranshir/scenic/internal/common"
)

// S3Config holds the connection settings for an S3-compatible payload
// store (AWS S3 or MinIO).
type S3Config struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Bucket       string
}

// S3Origin fetches media payloads from an S3-compatible bucket. Full
// renditions live under their storage key; thumbnails under a thumb/
// prefix.
type S3Origin struct {
	cfg    S3Config
	client *s3.Client
}

// NewS3Origin builds the S3 client eagerly so configuration errors surface
// at startup instead of on the first cache miss.
func NewS3Origin(ctx context.Context, cfg S3Config) (*S3Origin, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})
	return &S3Origin{cfg: cfg, client: client}, nil
}

// ObjectKey maps a storage key and variant onto the bucket layout.
func ObjectKey(storageKey string, variant models.MediaVariant) string {
	if variant == models.VariantThumbnail {
		return "thumb/" + storageKey
	}
	return storageKey
}

func (o *S3Origin) Fetch(ctx context.Context, storageKey string, variant models.MediaVariant) ([]byte, error) {
	key := ObjectKey(storageKey, variant)
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get s3://%s/%s: %w", common.ErrNetwork, o.cfg.Bucket, key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read s3://%s/%s: %w", common.ErrNetwork, o.cfg.Bucket, key, err)
	}
	return data, nil
}

package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/clinops/trialpulse/pkg/config"
)

// objectGetter is the slice of the S3 API the source needs
type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 reads a dataset from an S3-compatible bucket (AWS S3 or MinIO)
type S3 struct {
	client    objectGetter
	bucket    string
	prefix    string
	indexFile string
}

// NewS3 creates an S3 source using the default AWS credentials chain
func NewS3(ctx context.Context, cfg config.S3Config, indexFile string) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return newS3WithClient(client, cfg.Bucket, cfg.Prefix, indexFile), nil
}

func newS3WithClient(client objectGetter, bucket, prefix, indexFile string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix, indexFile: indexFile}
}

func (s *S3) Name() string { return "s3" }

func (s *S3) ReadIndex(ctx context.Context) ([]byte, error) {
	key, err := objectKey(s.prefix, s.indexFile)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, key)
}

func (s *S3) Open(ctx context.Context, folder, file string) ([]byte, error) {
	key, err := objectKey(s.prefix, folder, file)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, key)
}

func (s *S3) get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, key, ErrNotFound)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

const s3Scheme = "s3://"

// S3Config holds configuration for the S3 data source.
type S3Config struct {
	// Region is the AWS region of the bucket. Empty uses the SDK default chain.
	Region string
	// Endpoint is an optional custom endpoint (MinIO, LocalStack).
	Endpoint string
	// UsePathStyle enables path-style addressing (required for MinIO).
	UsePathStyle bool
}

// S3API is the subset of the S3 client used to fetch data files.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 reads data files stored under a bucket prefix.
type S3 struct {
	client S3API
	bucket string
	prefix string
}

// ParseS3URI splits s3://bucket/prefix into its bucket and prefix.
func ParseS3URI(uri string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(uri, s3Scheme) {
		return "", "", fmt.Errorf("not an S3 URI: %q: %w", uri, airroutes.ErrInvalidConfig)
	}
	rest := strings.TrimPrefix(uri, s3Scheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("S3 URI %q has no bucket: %w", uri, airroutes.ErrInvalidConfig)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// NewS3 creates an S3 source for uri using the default AWS credential chain.
func NewS3(ctx context.Context, uri string, cfg S3Config) (*S3, error) {
	bucket, prefix, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return NewS3WithClient(s3.NewFromConfig(awsCfg, s3Opts...), bucket, prefix), nil
}

// NewS3WithClient creates an S3 source with a pre-configured client.
func NewS3WithClient(client S3API, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Location returns the s3:// URI of the prefix.
func (s *S3) Location() string {
	if s.prefix == "" {
		return s3Scheme + s.bucket
	}
	return s3Scheme + s.bucket + "/" + s.prefix
}

// ReadFile downloads name, falling back to its compressed variant.
func (s *S3) ReadFile(ctx context.Context, name string) ([]byte, error) {
	for _, candidate := range []string{name, name + CompressedSuffix} {
		key := path.Join(s.prefix, candidate)
		resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			var noSuchKey *types.NoSuchKey
			if errors.As(err, &noSuchKey) {
				continue
			}
			return nil, fmt.Errorf("failed to download s3://%s/%s: %w", s.bucket, key, err)
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read s3://%s/%s: %w", s.bucket, key, err)
		}
		return Decode(candidate, data)
	}
	return nil, fmt.Errorf("%s in %s: %w", name, s.Location(), airroutes.ErrDataFileNotFound)
}

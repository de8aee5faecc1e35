// Package s3 provides the S3-compatible object store used for content assets.
package s3

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"notes/internal/domain/models/content"
	"notes/internal/domain/repositories"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// maxDeleteBatch is the DeleteObjects per-request key limit
const maxDeleteBatch = 1000

// Config holds configuration for the S3 object store.
type Config struct {
	// Bucket is the bucket name.
	Bucket string

	// Region is the signing region (optional, uses SDK default if empty).
	Region string

	// Endpoint is the endpoint URL (optional, for S3-compatible services such as OSS or MinIO).
	Endpoint string

	// AccessKeyID and SecretAccessKey select static credentials.
	// When empty the SDK default credential chain is used.
	AccessKeyID     string
	SecretAccessKey string

	// ForcePathStyle forces path-style addressing (required for MinIO/Localstack).
	ForcePathStyle bool
}

// API is the subset of *s3.Client the store uses
type API interface {
	s3.ListObjectsV2APIClient
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Store is an S3-backed implementation of repositories.ObjectStore.
// It is safe for concurrent use and shared by every category.
type Store struct {
	client API
	bucket string
	logger *slog.Logger
}

// New creates a new store with an existing client.
func New(client API, bucket string, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// NewFromConfig creates a new store by building an S3 client from config.
func NewFromConfig(ctx context.Context, config Config, logger *slog.Logger) (*Store, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.Region))
	}

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)

	if config.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			// Third-party endpoints reject the default request checksums
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		})
	}

	if config.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)

	return New(client, config.Bucket, logger), nil
}

// Bucket returns the bucket name
func (s *Store) Bucket() string {
	return s.bucket
}

// List returns every object under prefix
func (s *Store) List(ctx context.Context, prefix string) ([]content.StoredObject, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var objects []content.StoredObject
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list objects: %w", err)
		}

		for _, obj := range page.Contents {
			objects = append(objects, content.StoredObject{
				Key:          aws.ToString(obj.Key),
				Bucket:       s.bucket,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	return objects, nil
}

// DeleteMulti removes keys in batches of up to 1000. Missing keys are ignored.
func (s *Store) DeleteMulti(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(keys))

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}

		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("s3 delete objects: %w", err)
		}

		if err := firstDeleteError(out.Errors); err != nil {
			return err
		}

		s.logger.Debug("s3 objects deleted",
			"bucket", s.bucket,
			"count", len(objects),
		)
	}

	return nil
}

// HealthCheck verifies the bucket is accessible.
func (s *Store) HealthCheck(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3 health check failed: %w", err)
	}

	return nil
}

// firstDeleteError returns an error for the first per-key failure that is not
// a missing key, along with the number of failed keys.
func firstDeleteError(errs []types.Error) error {
	var failed []types.Error
	for _, e := range errs {
		if aws.ToString(e.Code) == "NoSuchKey" {
			continue
		}
		failed = append(failed, e)
	}

	if len(failed) == 0 {
		return nil
	}

	first := failed[0]
	return fmt.Errorf("s3 delete objects: %d keys failed, first %q: %s %s",
		len(failed), aws.ToString(first.Key), aws.ToString(first.Code), aws.ToString(first.Message))
}

// IsNotFoundError checks if an error is an S3 missing bucket/key error.
func IsNotFoundError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return true
		}
	}
	return err != nil && strings.Contains(err.Error(), "StatusCode: 404")
}

// Ensure Store implements repositories.ObjectStore.
var _ repositories.ObjectStore = (*Store)(nil)

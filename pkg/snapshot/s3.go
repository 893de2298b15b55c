package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/pathway/pkg/routing"
)

// DefaultRegion is used when S3Config.Region is empty.
const DefaultRegion = "us-east-1"

// S3Config holds S3-compatible object storage settings.
type S3Config struct {
	// Bucket, AccessKey and SecretKey are required.
	Bucket    string
	AccessKey string
	SecretKey string

	// Endpoint is set for S3-compatible services such as MinIO.
	Endpoint string
	Region   string

	// Prefix is prepended to object keys, "routes" yields "routes/<key>.json".
	Prefix string

	// PathStyle forces path-style addressing, required by most S3-compatible services.
	PathStyle bool
}

func (c *S3Config) validate() error {
	switch {
	case c.Bucket == "":
		return fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	case c.AccessKey == "" || c.SecretKey == "":
		return fmt.Errorf("%w: access key and secret key are required", ErrInvalidConfig)
	}
	return nil
}

// S3 stores snapshots as JSON objects in a bucket.
type S3 struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3 creates an S3 store.
func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		}
	})

	return &S3{client: client, cfg: cfg}, nil
}

// ObjectKey returns the object key a snapshot key is stored under.
func (s *S3) ObjectKey(key string) string {
	name := key + ".json"
	prefix := strings.Trim(s.cfg.Prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Load returns the snapshot stored under key, or ErrNotFound.
func (s *S3) Load(ctx context.Context, key string) (*routing.Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.ObjectKey(key)),
	})
	if err != nil {
		return nil, wrapS3Error(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return decode(data)
}

// Save uploads snap as the object for key.
func (s *S3) Save(ctx context.Context, key string, snap *routing.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(s.ObjectKey(key)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return wrapS3Error(err)
	}
	return nil
}

// Delete removes the object for key.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.ObjectKey(key)),
	})
	if err != nil {
		if err = wrapS3Error(err); errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// Ping checks that the bucket is reachable.
func (s *S3) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.cfg.Bucket)})
	if err != nil {
		return wrapS3Error(err)
	}
	return nil
}

// Close is a no-op.
func (s *S3) Close() error {
	return nil
}

// wrapS3Error maps S3 failures onto the package sentinels.
// The original error is formatted with %v so callers match on sentinels only.
func wrapS3Error(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("snapshot: s3: %w", err)
}

var _ Store = (*S3)(nil)

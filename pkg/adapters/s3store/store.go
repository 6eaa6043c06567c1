// Package s3store persists posters to an S3-compatible bucket.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/user/mdposter/pkg/ports"
)

// DefaultPresignExpiry is how long presigned URLs stay valid when no public URL is configured.
const DefaultPresignExpiry = 24 * time.Hour

// Options configures a Store.
type Options struct {
	Bucket string
	Region string
	// Endpoint overrides the S3 endpoint (MinIO, R2, LocalStack). Path-style addressing is used when set.
	Endpoint string
	// Prefix is prepended to every object key.
	Prefix string
	// PublicURL, when set, is the base URL objects are reachable at. Otherwise URLs are presigned.
	PublicURL     string
	PresignExpiry time.Duration
}

// API is the subset of the S3 client the store uses.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// PresignFunc returns a time-limited GET URL for key.
type PresignFunc func(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)

// Presign adapts an s3.PresignClient to a PresignFunc.
func Presign(client *s3.PresignClient) PresignFunc {
	return func(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
		req, err := client.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(expiry))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	}
}

// Store implements ports.ImageStore on S3.
type Store struct {
	client  API
	presign PresignFunc
	opts    Options
}

// New loads the default AWS configuration chain and creates a Store.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, Presign(s3.NewPresignClient(client)), opts), nil
}

// NewWithClient creates a Store around an existing client. presign may be nil
// when opts.PublicURL is set.
func NewWithClient(client API, presign PresignFunc, opts Options) *Store {
	if opts.PresignExpiry <= 0 {
		opts.PresignExpiry = DefaultPresignExpiry
	}
	return &Store{client: client, presign: presign, opts: opts}
}

func (s *Store) key(name string) string {
	if s.opts.Prefix == "" {
		return name
	}
	return strings.Trim(s.opts.Prefix, "/") + "/" + name
}

// Put uploads data and returns its public or presigned URL.
func (s *Store) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if !ports.ValidImageName(name) {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	key := s.key(name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.opts.Bucket, key, err)
	}

	if s.opts.PublicURL != "" {
		return strings.TrimRight(s.opts.PublicURL, "/") + "/" + key, nil
	}
	if s.presign == nil {
		return "", errors.New("no public URL configured and no presigner available")
	}
	url, err := s.presign(ctx, s.opts.Bucket, key, s.opts.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign s3://%s/%s: %w", s.opts.Bucket, key, err)
	}
	return url, nil
}

// Get downloads an object. Missing keys map to ports.ErrImageNotFound.
func (s *Store) Get(ctx context.Context, name string) ([]byte, string, error) {
	if !ports.ValidImageName(name) {
		return nil, "", ports.ErrImageNotFound
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, "", ports.ErrImageNotFound
		}
		return nil, "", err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", err
	}
	return data, aws.ToString(out.ContentType), nil
}

var _ ports.ImageStore = (*Store)(nil)

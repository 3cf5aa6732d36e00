// Package s3usage computes usage totals straight from an S3-compatible
// server by listing buckets and objects, for deployments without a console.
package s3usage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/janekbaraniewski/bucketusage/internal/config"
	"github.com/janekbaraniewski/bucketusage/internal/core"
)

// objectStore is the subset of *minio.Client the source needs.
type objectStore interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Source implements core.UsageFetcher against an S3 endpoint.
type Source struct {
	store  objectStore
	logger zerolog.Logger
}

// New builds a minio client from cfg. Keys come from the environment
// variables cfg names.
func New(cfg config.S3Config, logger zerolog.Logger) (*Source, error) {
	accessKey := strings.TrimSpace(os.Getenv(cfg.AccessKeyEnv))
	secretKey := strings.TrimSpace(os.Getenv(cfg.SecretKeyEnv))
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("s3 source needs %s and %s set", cfg.AccessKeyEnv, cfg.SecretKeyEnv)
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		return nil, errors.New("s3 source needs an endpoint")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return newSource(client, logger), nil
}

func newSource(store objectStore, logger zerolog.Logger) *Source {
	return &Source{store: store, logger: logger}
}

// FetchUsage lists every bucket and sums object counts and sizes. The call
// stops early when ctx is cancelled.
func (s *Source) FetchUsage(ctx context.Context) (core.UsageSnapshot, error) {
	buckets, err := s.store.ListBuckets(ctx)
	if err != nil {
		return core.UsageSnapshot{}, toFetchFailure(err)
	}

	var objects, size int64
	for _, bucket := range buckets {
		n, bytes, err := s.bucketTotals(ctx, bucket.Name)
		if err != nil {
			return core.UsageSnapshot{}, toFetchFailure(err)
		}
		s.logger.Debug().Str("bucket", bucket.Name).Int64("objects", n).Int64("bytes", bytes).Msg("bucket listed")
		objects += n
		size += bytes
	}

	return core.UsageSnapshot{
		Buckets: core.Int64Ptr(int64(len(buckets))),
		Usage:   core.Int64Ptr(size),
		Objects: core.Int64Ptr(objects),
	}, nil
}

func (s *Source) bucketTotals(ctx context.Context, bucket string) (int64, int64, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var count, size int64
	for obj := range s.store.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return 0, 0, fmt.Errorf("list objects in %s: %w", bucket, obj.Err)
		}
		count++
		size += obj.Size
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	return count, size, nil
}

func toFetchFailure(err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && resp.Message != "" {
		return core.NewFetchFailure(resp.Message, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return core.NewFetchFailure(urlErr.Err.Error(), err)
	}
	return core.NewFetchFailure(err.Error(), err)
}

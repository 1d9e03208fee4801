// Package storage archives operation reports to an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	apperrors "knoxshield/pkg/errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArtifactStore uploads local files and returns where they can be fetched.
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}

type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

func (o Options) Enabled() bool {
	return o.Endpoint != "" && o.Bucket != ""
}

type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New connects to the endpoint and creates the bucket when missing.
func New(ctx context.Context, opts Options) (*Store, error) {
	if !opts.Enabled() {
		return nil, apperrors.ErrStorageNotConfigured
	}

	cli, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", opts.Bucket, err)
		}
	}

	return &Store{client: cli, bucketName: opts.Bucket, region: opts.Region}, nil
}

// ContentType guesses the object content type from the file extension.
func ContentType(path string) string {
	switch filepath.Ext(path) {
	case ".json":
		return "application/json"
	case ".txt", ".log":
		return "text/plain; charset=utf-8"
	case ".html":
		return "text/html"
	case ".png":
		return "image/png"
	}
	return "application/octet-stream"
}

func (s *Store) Upload(ctx context.Context, localPath, key string) (string, error) {
	_, err := s.client.FPutObject(ctx, s.bucketName, key, localPath, minio.PutObjectOptions{
		ContentType: ContentType(localPath),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucketName, key)
	return url, nil
}

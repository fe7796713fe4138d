package storage

import (
	"context"
	"errors"
	"io"
)

// ErrBucketRequired is returned when S3 storage is constructed without a bucket.
var ErrBucketRequired = errors.New("storage: bucket is required")

// Storage is the write side of an object store.
type Storage interface {
	// Put stores body under key, replacing any existing object.
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}

// Config describes an S3-compatible bucket (AWS S3 or MinIO).
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

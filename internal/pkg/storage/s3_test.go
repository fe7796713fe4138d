package storage

import (
	"context"
	"errors"
	"testing"
)

func TestNewS3StorageRequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), Config{Region: "us-east-1"})
	if !errors.Is(err, ErrBucketRequired) {
		t.Fatalf("expected ErrBucketRequired, got %v", err)
	}
}

func TestNewS3StorageWithStaticCredentials(t *testing.T) {
	s, err := NewS3Storage(context.Background(), Config{
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
		Bucket:    "moderation-archive",
		AccessKey: "minio",
		SecretKey: "minio-secret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.bucket != "moderation-archive" {
		t.Fatalf("expected bucket to be kept, got %q", s.bucket)
	}
}

package source

import (
	"context"
	"fmt"
	"os"
)

// Type names a catalog source backend.
type Type string

const (
	TypeFile Type = "file"
	TypeS3   Type = "s3"
	TypeGCS  Type = "gcs"
)

// NewFromEnv creates a catalog source based on environment variables.
//
// Environment variables:
//   - CATALOG_SOURCE: "file" (default), "s3", or "gcs"
//   - CATALOG_PATH: catalog file for the file source (default: "catalog.json")
//
// For S3:
//   - CATALOG_S3_BUCKET, CATALOG_S3_KEY (required)
//   - CATALOG_S3_REGION or AWS_REGION
//   - CATALOG_S3_ENDPOINT (optional, for MinIO/LocalStack)
//
// For GCS (requires the gcp build tag):
//   - CATALOG_GCS_BUCKET, CATALOG_GCS_OBJECT (required)
func NewFromEnv(ctx context.Context) (Source, error) {
	t := Type(os.Getenv("CATALOG_SOURCE"))
	if t == "" {
		t = TypeFile
	}

	switch t {
	case TypeFile:
		path := os.Getenv("CATALOG_PATH")
		if path == "" {
			path = "catalog.json"
		}
		return NewFileSource(path), nil
	case TypeS3:
		return newS3SourceFromEnv(ctx)
	case TypeGCS:
		return newGCSSourceFromEnv(ctx)
	default:
		return nil, fmt.Errorf("unsupported catalog source: %s", t)
	}
}

func newS3SourceFromEnv(ctx context.Context) (Source, error) {
	bucket, key := os.Getenv("CATALOG_S3_BUCKET"), os.Getenv("CATALOG_S3_KEY")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("CATALOG_S3_BUCKET and CATALOG_S3_KEY are required for the s3 catalog source")
	}

	region := os.Getenv("CATALOG_S3_REGION")
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	return NewS3Source(ctx, S3Config{
		Bucket:   bucket,
		Key:      key,
		Region:   region,
		Endpoint: os.Getenv("CATALOG_S3_ENDPOINT"),
	})
}

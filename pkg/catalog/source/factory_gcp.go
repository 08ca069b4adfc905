//go:build gcp

package source

import (
	"context"
	"fmt"
	"os"
)

func newGCSSourceFromEnv(ctx context.Context) (Source, error) {
	bucket, object := os.Getenv("CATALOG_GCS_BUCKET"), os.Getenv("CATALOG_GCS_OBJECT")
	if bucket == "" || object == "" {
		return nil, fmt.Errorf("CATALOG_GCS_BUCKET and CATALOG_GCS_OBJECT are required for the gcs catalog source")
	}
	return NewGCSSource(ctx, GCSConfig{Bucket: bucket, Object: object})
}

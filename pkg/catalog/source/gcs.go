//go:build gcp

package source

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSConfig holds configuration for GCSSource.
type GCSConfig struct {
	Bucket string
	Object string
}

// GCSSource reads a catalog object from Google Cloud Storage.
type GCSSource struct {
	client *storage.Client
	bucket string
	object string
}

// NewGCSSource creates a GCS-backed catalog source using application
// default credentials.
func NewGCSSource(ctx context.Context, cfg GCSConfig) (*GCSSource, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSSource{client: client, bucket: cfg.Bucket, object: cfg.Object}, nil
}

func (g *GCSSource) Fetch(ctx context.Context) ([]byte, error) {
	r, err := g.client.Bucket(g.bucket).Object(g.object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs get %s: %w", g.Location(), err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gcs read %s: %w", g.Location(), err)
	}
	return data, nil
}

func (g *GCSSource) Location() string { return "gs://" + g.bucket + "/" + g.object }

// Close closes the GCS client.
func (g *GCSSource) Close() error {
	return g.client.Close()
}

//go:build !gcp

package source

import (
	"context"
	"fmt"
)

func newGCSSourceFromEnv(ctx context.Context) (Source, error) {
	return nil, fmt.Errorf("GCS catalog source is not enabled in this build (use -tags gcp)")
}

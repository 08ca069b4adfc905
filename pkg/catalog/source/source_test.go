package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog/catalogtest"
)

func writeCatalog(t *testing.T, path, version string) {
	t.Helper()
	data := strings.Replace(catalogtest.FixtureJSON, `"version": "2.4.0"`, `"version": "`+version+`"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	writeCatalog(t, path, "2.4.0")

	store := catalog.NewStore()
	snap, err := Load(context.Background(), NewFileSource(path), store)
	require.NoError(t, err)
	assert.Equal(t, "2.4.0", snap.Version().String())
	assert.True(t, store.IsEndOfLife("CAM-100-LEGACY"))
}

func TestFileSource_Missing(t *testing.T) {
	store := catalog.NewStore()
	_, err := Load(context.Background(), NewFileSource(filepath.Join(t.TempDir(), "nope.json")), store)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_BadDocumentKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	writeCatalog(t, good, "2.4.0")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version":"3.0.0","products":[{"sku":"X"}]}`), 0o644))

	store := catalog.NewStore()
	_, err := Load(context.Background(), NewFileSource(good), store)
	require.NoError(t, err)

	_, err = Load(context.Background(), NewFileSource(bad), store)
	var lerr *catalog.LoadError
	require.True(t, errors.As(err, &lerr))

	snap, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "2.4.0", snap.Version().String())
}

type fakeS3 struct {
	body  string
	input *s3.GetObjectInput
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Source_Fetch(t *testing.T) {
	fake := &fakeS3{body: catalogtest.FixtureJSON}
	src := &S3Source{client: fake, bucket: "av-catalog", key: "prod/catalog.json"}

	store := catalog.NewStore()
	_, err := Load(context.Background(), src, store)
	require.NoError(t, err)

	assert.Equal(t, "av-catalog", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "prod/catalog.json", aws.ToString(fake.input.Key))
	assert.Equal(t, "s3://av-catalog/prod/catalog.json", src.Location())
}

func TestNewFromEnv(t *testing.T) {
	t.Run("default file", func(t *testing.T) {
		t.Setenv("CATALOG_SOURCE", "")
		t.Setenv("CATALOG_PATH", "")
		src, err := NewFromEnv(context.Background())
		require.NoError(t, err)
		fs, ok := src.(*FileSource)
		require.True(t, ok)
		assert.Equal(t, "catalog.json", fs.Path)
	})

	t.Run("s3 missing bucket", func(t *testing.T) {
		t.Setenv("CATALOG_SOURCE", "s3")
		t.Setenv("CATALOG_S3_BUCKET", "")
		_, err := NewFromEnv(context.Background())
		assert.ErrorContains(t, err, "CATALOG_S3_BUCKET")
	})

	t.Run("gcs missing bucket", func(t *testing.T) {
		t.Setenv("CATALOG_SOURCE", "gcs")
		t.Setenv("CATALOG_GCS_BUCKET", "")
		_, err := NewFromEnv(context.Background())
		require.Error(t, err)
		// builds without the gcp tag report that instead
		if strings.Contains(err.Error(), "not enabled") {
			return
		}
		assert.ErrorContains(t, err, "CATALOG_GCS_BUCKET")
	})

	t.Run("unsupported", func(t *testing.T) {
		t.Setenv("CATALOG_SOURCE", "ftp")
		_, err := NewFromEnv(context.Background())
		assert.ErrorContains(t, err, "unsupported catalog source")
	})
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	writeCatalog(t, path, "2.4.0")

	src := NewFileSource(path)
	store := catalog.NewStore()
	_, err := Load(context.Background(), src, store)
	require.NoError(t, err)

	w, err := NewWatcher(src, store)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()
	w.debounce = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	writeCatalog(t, path, "2.5.0")
	assert.Eventually(t, func() bool {
		snap, err := store.Snapshot()
		return err == nil && snap.Version().String() == "2.5.0"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_RejectsBrokenEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	writeCatalog(t, path, "2.4.0")

	src := NewFileSource(path)
	store := catalog.NewStore()
	_, err := Load(context.Background(), src, store)
	require.NoError(t, err)

	w, err := NewWatcher(src, store)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()
	w.debounce = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(path, []byte(`{"version": "9.0.0", "products": [`), 0o644))
	select {
	case err := <-w.Reloaded():
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reload was not attempted")
	}

	snap, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "2.4.0", snap.Version().String())
}

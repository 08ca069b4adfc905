package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/findings"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.Equal(t, "avdesign", config.ServiceName)
	require.Equal(t, "localhost:4317", config.OTLPEndpoint)
	require.Equal(t, 1.0, config.SampleRate)
	require.False(t, config.Enabled)
}

func TestNewProviderDisabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, p)

	require.NotNil(t, p.Tracer())
	require.NotNil(t, p.Meter())
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderNilConfig(t *testing.T) {
	p, err := New(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestTrackOperation(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	ctx, finish := p.TrackOperation(context.Background(), "evaluate", ProjectOperation("p1", 3, "2.4.0")...)
	require.NotNil(t, ctx)
	finish(nil)

	_, finish = p.TrackOperation(context.Background(), "resolve", attribute.String("k", "v"))
	finish(errors.New("boom"))
}

func TestRecordFindingsDisabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	list := findings.List{
		findings.New(findings.KindWarning, findings.CodeEndOfLife, "r1", "eol", "CAM-1"),
	}
	require.NotPanics(t, func() {
		p.RecordFindings(context.Background(), list)
		p.RecordAdded(context.Background(), "r1", 2)
	})
}

func TestAttributeHelpers(t *testing.T) {
	attrs := RoomOperation("r1", "1.0.0")
	require.Len(t, attrs, 2)
	require.Equal(t, AttrRoomID, attrs[0].Key)
	require.Equal(t, "r1", attrs[0].Value.AsString())
}

package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/findings"
)

// Design engine semantic convention attributes.
var (
	AttrOperation      = attribute.Key("avdesign.operation")
	AttrProjectID      = attribute.Key("avdesign.project.id")
	AttrRoomID         = attribute.Key("avdesign.room.id")
	AttrRoomCount      = attribute.Key("avdesign.project.rooms")
	AttrCatalogVersion = attribute.Key("avdesign.catalog.version")
	AttrFindingKind    = attribute.Key("avdesign.finding.kind")
	AttrFindingCode    = attribute.Key("avdesign.finding.code")
)

// ProjectOperation creates attributes for a project-wide evaluation.
func ProjectOperation(projectID string, rooms int, catalogVersion string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrProjectID.String(projectID),
		AttrRoomCount.Int(rooms),
		AttrCatalogVersion.String(catalogVersion),
	}
}

// RoomOperation creates attributes for a single-room resolution.
func RoomOperation(roomID, catalogVersion string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrRoomID.String(roomID),
		AttrCatalogVersion.String(catalogVersion),
	}
}

// RecordFindings counts findings by kind and code and annotates the
// current span with the totals.
func (p *Provider) RecordFindings(ctx context.Context, list findings.List) {
	if p.findingCounter != nil {
		for _, f := range list {
			p.findingCounter.Add(ctx, 1, metric.WithAttributes(
				AttrFindingKind.String(f.Kind.String()),
				AttrFindingCode.String(string(f.Code)),
			))
		}
	}
	counts := list.Count()
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int("avdesign.findings.warnings", counts[findings.KindWarning]),
		attribute.Int("avdesign.findings.total", len(list)),
	)
}

// RecordAdded counts equipment units added by the resolver in roomID.
func (p *Provider) RecordAdded(ctx context.Context, roomID string, units int) {
	if p.addedCounter == nil || units == 0 {
		return
	}
	p.addedCounter.Add(ctx, int64(units), metric.WithAttributes(AttrRoomID.String(roomID)))
}

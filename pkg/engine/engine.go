// Package engine is the entry point collaborators call: it resolves every
// room of a project against the current catalog and evaluates the result.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/evaluator"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/findings"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/observability"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/resolver"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/rules"
)

// Report is the outcome of evaluating a project.
type Report struct {
	ProjectID      string `json:"projectId"`
	CatalogVersion string `json:"catalogVersion"`
	// ResolvedRoomsEquipment maps room id to its resolved equipment.
	ResolvedRoomsEquipment map[string][]design.EquipmentLine `json:"resolvedRoomsEquipment"`
	Findings               findings.List                     `json:"findings"`
}

// Engine wires catalog, rules, resolver and evaluator.
type Engine struct {
	catalog   *catalog.Store
	rules     *rules.Set
	resolver  *resolver.Resolver
	evaluator *evaluator.Evaluator
	obs       *observability.Provider
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the built-in rule set.
func WithRules(rs *rules.Set) Option {
	return func(e *Engine) { e.rules = rs }
}

// WithObservability records spans and metrics through p.
func WithObservability(p *observability.Provider) Option {
	return func(e *Engine) { e.obs = p }
}

// New builds an engine over store.
func New(store *catalog.Store, opts evaluator.Options, options ...Option) *Engine {
	e := &Engine{
		catalog: store,
		logger:  slog.Default().With("component", "engine"),
	}
	for _, o := range options {
		o(e)
	}
	if e.rules == nil {
		e.rules = rules.Default()
	}
	if e.obs == nil {
		e.obs, _ = observability.New(context.Background(), &observability.Config{Enabled: false})
	}
	e.resolver = resolver.New(e.rules)
	e.evaluator = evaluator.New(e.rules, opts)
	return e
}

// Catalog returns the engine's catalog store.
func (e *Engine) Catalog() *catalog.Store { return e.catalog }

// Evaluate resolves every room and evaluates the project. Resolver findings
// are reported alongside the evaluator's. The project itself is not changed.
func (e *Engine) Evaluate(ctx context.Context, project design.ProjectConfiguration) (report *Report, err error) {
	snap, snapErr := e.catalog.Snapshot()
	ctx, finish := e.obs.TrackOperation(ctx, "evaluate",
		observability.ProjectOperation(project.ProjectID, len(project.Rooms), versionOf(snap))...)
	defer func() { finish(err) }()
	if snapErr != nil {
		return nil, fmt.Errorf("evaluate project %s: %w", project.ProjectID, snapErr)
	}

	report = &Report{
		ProjectID:              project.ProjectID,
		CatalogVersion:         snap.Version().String(),
		ResolvedRoomsEquipment: make(map[string][]design.EquipmentLine, len(project.Rooms)),
	}

	var out findings.List
	for _, room := range project.Rooms {
		res := e.resolver.Resolve(room, snap)
		report.ResolvedRoomsEquipment[room.ID] = res.Lines
		out = append(out, res.Findings...)
		e.obs.RecordAdded(ctx, room.ID, units(res.Added))
	}
	out = append(out, e.evaluator.Evaluate(project, report.ResolvedRoomsEquipment, snap)...)

	order := make([]string, len(project.Rooms))
	for i, r := range project.Rooms {
		order[i] = r.ID
	}
	out.Sort(order)
	if out == nil {
		out = findings.List{}
	}
	report.Findings = out

	e.obs.RecordFindings(ctx, out)
	e.logger.InfoContext(ctx, "project evaluated",
		"project", project.ProjectID,
		"rooms", len(project.Rooms),
		"findings", len(out),
		"catalog_version", report.CatalogVersion,
	)
	return report, nil
}

// Resolve runs the resolver alone for one room.
func (e *Engine) Resolve(ctx context.Context, room design.RoomConfiguration) (res resolver.Result, err error) {
	snap, snapErr := e.catalog.Snapshot()
	ctx, finish := e.obs.TrackOperation(ctx, "resolve", observability.RoomOperation(room.ID, versionOf(snap))...)
	defer func() { finish(err) }()
	if snapErr != nil {
		return resolver.Result{}, fmt.Errorf("resolve room %s: %w", room.ID, snapErr)
	}

	res = e.resolver.Resolve(room, snap)
	e.obs.RecordAdded(ctx, room.ID, units(res.Added))
	return res, nil
}

// Revert re-resolves room from its user baseline and returns the updated
// room with resolver entries replaced.
func (e *Engine) Revert(ctx context.Context, room design.RoomConfiguration) (out design.RoomConfiguration, res resolver.Result, err error) {
	snap, snapErr := e.catalog.Snapshot()
	ctx, finish := e.obs.TrackOperation(ctx, "revert", observability.RoomOperation(room.ID, versionOf(snap))...)
	defer func() { finish(err) }()
	if snapErr != nil {
		return design.RoomConfiguration{}, resolver.Result{}, fmt.Errorf("revert room %s: %w", room.ID, snapErr)
	}

	out, res = e.resolver.Revert(room, snap)
	e.obs.RecordAdded(ctx, room.ID, units(res.Added))
	return out, res, nil
}

// versionOf returns the catalog version, or "" when no catalog is loaded.
func versionOf(snap *catalog.Snapshot) string {
	if snap == nil {
		return ""
	}
	return snap.Version().String()
}

func units(lines []design.EquipmentLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

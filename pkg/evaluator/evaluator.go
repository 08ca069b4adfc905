// Package evaluator runs the design-validation checks over a project's
// resolved equipment and produces findings.
//
// Evaluation is a pure function of the project, the resolved equipment per
// room and a catalog snapshot. Every check is independent; the output is the
// union of their findings in a deterministic order.
package evaluator

import (
	"log/slog"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/findings"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/resolver"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/rules"
)

// Evaluator applies room and project checks.
type Evaluator struct {
	rules  *rules.Set
	opts   Options
	logger *slog.Logger
}

// New returns an evaluator. Zero option fields take their defaults.
func New(rs *rules.Set, opts Options) *Evaluator {
	return &Evaluator{
		rules:  rs,
		opts:   opts.withDefaults(),
		logger: slog.Default().With("component", "evaluator"),
	}
}

// Options returns the effective options.
func (e *Evaluator) Options() Options { return e.opts }

// Evaluate checks project. resolved maps room id to that room's resolved
// equipment; a room absent from the map is evaluated on its merged
// manuallyAddedEquipment as-is.
func (e *Evaluator) Evaluate(project design.ProjectConfiguration, resolved map[string][]design.EquipmentLine, snap *catalog.Snapshot) findings.List {
	out := findings.List{}
	rooms := make([]*roomContext, 0, len(project.Rooms))
	order := make([]string, 0, len(project.Rooms))

	for i := range project.Rooms {
		room := &project.Rooms[i]
		lines, ok := resolved[room.ID]
		if !ok {
			lines = room.ManuallyAddedEquipment
		}
		rc := e.newRoomContext(room, resolver.Merge(lines), project.UnitSystem, snap)
		rooms = append(rooms, rc)
		order = append(order, room.ID)

		for _, check := range roomChecks {
			out = append(out, check(rc)...)
		}
	}

	pc := &projectContext{
		ev:      e,
		project: &project,
		rooms:   rooms,
		snap:    snap,
	}
	for _, check := range projectChecks {
		out = append(out, check(pc)...)
	}

	out.Sort(order)
	e.logger.Debug("project evaluated", "project", project.ProjectID, "rooms", len(rooms), "findings", len(out))
	return out
}

// roomContext is the per-room view the checks share. products holds the
// catalog entries for known lines, in line order.
type roomContext struct {
	ev       *Evaluator
	room     *design.RoomConfiguration
	units    design.UnitSystem
	snap     *catalog.Snapshot
	lines    []design.EquipmentLine
	products []catalog.Product
	qty      map[string]int
	unknown  []string
}

func (e *Evaluator) newRoomContext(room *design.RoomConfiguration, lines []design.EquipmentLine, units design.UnitSystem, snap *catalog.Snapshot) *roomContext {
	rc := &roomContext{
		ev:    e,
		room:  room,
		units: units,
		snap:  snap,
		lines: lines,
		qty:   make(map[string]int, len(lines)),
	}
	for _, l := range lines {
		p, err := snap.FindBySku(l.SKU)
		if err != nil {
			rc.unknown = append(rc.unknown, l.SKU)
			continue
		}
		rc.products = append(rc.products, p)
		rc.qty[p.SKU] += l.Quantity
	}
	return rc
}

// anyMatch reports whether some resolved product satisfies expr.
func (rc *roomContext) anyMatch(expr string) bool {
	for _, p := range rc.products {
		if rc.ev.match(expr, p) {
			return true
		}
	}
	return false
}

func (rc *roomContext) has(sku string) bool {
	_, ok := rc.qty[catalog.NormalizeSKU(sku)]
	return ok
}

func (e *Evaluator) match(expr string, p catalog.Product) bool {
	ok, err := e.rules.MatchExpr(expr, p)
	if err != nil {
		e.logger.Warn("check predicate failed", "sku", p.SKU, "error", err)
		return false
	}
	return ok
}

type projectContext struct {
	ev      *Evaluator
	project *design.ProjectConfiguration
	rooms   []*roomContext
	snap    *catalog.Snapshot
}

// Package route is the Track-Plan Analyzer's Route Builder: it turns
// the Traversal Driver's preliminary traces into canonical route
// records, purges stale autogen routes, annotates block signal
// attributes, and updates per-tile route-id membership.
package route

import (
	"fmt"
	"log"

	"github.com/railtopo/trackplan/internal/traversal"
	"github.com/railtopo/trackplan/plan"
)

// Mode selects whether Build emits new routes or only strips the
// autogen membership left by a prior run.
type Mode int

const (
	ModeGenerate Mode = iota
	ModeClean
)

// FeedbackEventsEnabled gates the post-block enter/in feedback
// annotation pass. The reference implementation hard-sets its
// equivalent flag to false; here it is a package constant, also false,
// so the pass is kept in the code but does not run (SPEC_FULL.md §8).
const FeedbackEventsEnabled = false

// Build purges every autogen-* route already on the model, converts
// traces into new routes (skipped in clean mode), and annotates the
// tiles each trace touches. It returns the routes built in generate
// mode, or nil in clean mode.
func Build(model plan.Model, traces []traversal.Trace, mode Mode) []*plan.Route {
	purgeAutogen(model)
	userRoutes := model.Routes()

	var built []*plan.Route
	idCount := make(map[string]int)

	for _, tr := range traces {
		if tr.BlockIdx <= 0 || len(tr.Snapshots) == 0 {
			continue // never reached a destination block past the origin
		}
		a := tr.Snapshots[0]
		b := tr.Snapshots[tr.BlockIdx]
		if a.Tile.ID == b.Tile.ID {
			log.Printf("loop route at block %s skipped", a.Tile.ID)
			continue // loop route: spec I4, logged, never emitted
		}

		id := fmt.Sprintf("autogen-[%s%s]-[%s%s]", a.Tile.ID, a.Disposition, b.Tile.ID, b.Disposition)

		if mode == ModeClean {
			stripMembership(tr)
			continue
		}

		if userRouteMatches(userRoutes, a.Tile.ID, b.Tile.ID, a.Disposition, b.Disposition) {
			stripMembership(tr)
			continue
		}

		base := id
		if n := idCount[base]; n > 0 {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		idCount[base]++

		r := &plan.Route{ID: id, BlockA: a.Tile.ID, BlockB: b.Tile.ID, SideA: a.Disposition, SideB: b.Disposition}
		for _, snap := range tr.Snapshots {
			if snap.Tile.Kind == plan.KindSwitch {
				r.SwitchCmds = append(r.SwitchCmds, plan.SwitchCmd{ID: snap.Tile.ID, Cmd: snap.Disposition})
			}
		}

		annotate(tr, a, r)
		built = append(built, r)
	}

	if mode == ModeGenerate {
		model.SetRoutes(append(append([]*plan.Route{}, userRoutes...), built...))
	}
	return built
}

func purgeAutogen(model plan.Model) {
	kept := make([]*plan.Route, 0, len(model.Routes()))
	for _, r := range model.Routes() {
		if !r.IsAutogen() {
			kept = append(kept, r)
		}
	}
	model.SetRoutes(kept)
}

func userRouteMatches(routes []*plan.Route, blockA, blockB, sideA, sideB string) bool {
	for _, r := range routes {
		if r.BlockA == blockA && r.BlockB == blockB && r.SideA == sideA && r.SideB == sideB {
			return true
		}
	}
	return false
}

// annotate updates per-tile route-id membership for every track,
// feedback, and signal snapshot (blocks and selection tables are not
// membership-tagged, spec §4.4 step 3), plus block A's entry-signal
// attributes when the trace runs past block B onto a facing signal.
func annotate(tr traversal.Trace, a traversal.Snapshot, r *plan.Route) {
	for i, snap := range tr.Snapshots {
		if i == 0 || i == tr.BlockIdx {
			continue
		}
		if snap.Tile.Kind == plan.KindBlock || snap.Tile.Kind == plan.KindSelTab {
			continue
		}
		snap.Tile.AddRouteID(r.ID)
	}

	if len(tr.Snapshots) == 0 {
		return
	}
	last := tr.Snapshots[len(tr.Snapshots)-1]
	if last.Tile.Kind != plan.KindSignal || last.Disposition != "yes" {
		return
	}

	distant := last.Tile.SignalKind == "distant"
	switch {
	case a.Disposition != "+" && !distant:
		a.Tile.Signal = last.Tile.ID
	case a.Disposition != "+" && distant:
		a.Tile.WSignal = last.Tile.ID
	case a.Disposition == "+" && !distant:
		a.Tile.SignalR = last.Tile.ID
	case a.Disposition == "+" && distant:
		a.Tile.WSignalR = last.Tile.ID
	}

	if !FeedbackEventsEnabled {
		return
	}
	fromA, fromB := "all-reverse", "all"
	if a.Disposition == "+" {
		fromA, fromB = "all", "all-reverse"
	}
	for _, snap := range tr.Snapshots[:len(tr.Snapshots)-1] {
		if snap.Tile.Kind != plan.KindFeedback {
			continue
		}
		a.Tile.FBEvents = append(a.Tile.FBEvents, plan.FeedbackEvent{ID: snap.Tile.ID, Action: "enter", From: fromA})
		tr.Snapshots[tr.BlockIdx].Tile.FBEvents = append(tr.Snapshots[tr.BlockIdx].Tile.FBEvents, plan.FeedbackEvent{ID: snap.Tile.ID, Action: "in", From: fromB})
	}
}

func stripMembership(tr traversal.Trace) {
	for _, snap := range tr.Snapshots {
		snap.Tile.StripAutogenRouteIDs()
	}
}

// Package analyzer is the Track-Plan Analyzer's Facade: the single
// entry point that runs the Grid Index, the Traversal Driver, the
// Route Builder, and the Health Checker over a plan.Model and reports
// the result.
package analyzer

import (
	"sort"

	"github.com/railtopo/trackplan/internal/diag"
	"github.com/railtopo/trackplan/internal/grid"
	"github.com/railtopo/trackplan/internal/health"
	"github.com/railtopo/trackplan/internal/route"
	"github.com/railtopo/trackplan/internal/traversal"
	"github.com/railtopo/trackplan/plan"
)

// Mode selects whether Analyze emits new autogen routes or removes
// the ones a prior run left behind.
type Mode int

const (
	ModeGenerate Mode = iota
	ModeClean
)

// Report is everything a caller of Analyze gets back: the health
// verdict, every diagnostic recorded along the way, and the routes
// built this run (nil in clean mode).
type Report struct {
	Healthy     bool
	Diagnostics []diag.Diagnostic
	Routes      []*plan.Route
	MostDistant *plan.Tile
}

// Analyze runs one full pass: build the grid, traverse every block in
// its valid exit directions, build routes, and — in generate mode, with
// spec §4.6's strict mode folded in as always on — back-annotate
// occ-list tiles with their originating block. It never panics and never aborts; problems
// become Diagnostics and the run continues (spec §7).
func Analyze(model plan.Model, mode Mode) Report {
	g := grid.New()
	overlaps, restore := buildGrid(g, model)
	defer restore()

	d := &diag.Collector{}
	var allTraces []traversal.Trace
	var allOccs []traversal.Occ

	for _, block := range model.Blocks() {
		for _, dir := range validDirections(block.Orientation) {
			res := traversal.Explore(g, d, block, dir)
			allTraces = append(allTraces, res.Traces...)
			allOccs = append(allOccs, res.Occs...)
		}
	}

	rmode := route.ModeGenerate
	if mode == ModeClean {
		rmode = route.ModeClean
	}
	built := route.Build(model, allTraces, rmode)

	if mode == ModeGenerate {
		backAnnotateOccs(model, allOccs)
	}

	hr := health.Check(model, overlaps)
	diagnostics := append([]diag.Diagnostic{}, hr.Diagnostics...)
	diagnostics = append(diagnostics, d.Items()...)

	return Report{
		Healthy:     hr.Healthy && d.Healthy(),
		Diagnostics: diagnostics,
		Routes:      built,
		MostDistant: hr.MostDistant,
	}
}

// validDirections reports the exit directions a block is launched in:
// horizontal blocks explore west/east, vertical blocks north/south
// (spec §4.6 step 3).
func validDirections(ori plan.Orientation) []plan.Orientation {
	if ori == plan.West || ori == plan.East {
		return []plan.Orientation{plan.West, plan.East}
	}
	return []plan.Orientation{plan.North, plan.South}
}

// buildGrid registers every tile at its cell. For a modular layout, the
// Nth distinct z-level (ascending) borrows the Nth module's (x,y)
// offset and is folded onto z=0 for the duration of the run (spec
// §4.6 step 2); tile positions are restored to their original,
// un-offset values by the returned func once the caller is done with
// the grid, since Pos is not among the Analyzer's surviving writes
// (spec §3 "Lifecycle").
func buildGrid(g *grid.Grid, model plan.Model) ([]grid.Overlap, func()) {
	tiles := model.Tiles()
	modplan := model.ModulePlan()
	var overlaps []grid.Overlap

	if len(modplan) == 0 {
		for _, t := range tiles {
			overlaps = append(overlaps, g.Add(t)...)
		}
		return overlaps, func() {}
	}

	offsetByZ := make(map[int]plan.ModuleOffset)
	for i, z := range distinctSortedZ(tiles) {
		if i < len(modplan) {
			offsetByZ[z] = modplan[i]
		}
	}

	type displaced struct {
		tile *plan.Tile
		orig plan.Pos
	}
	var moved []displaced
	for _, t := range tiles {
		off, ok := offsetByZ[t.Pos.Z]
		if !ok {
			overlaps = append(overlaps, g.Add(t)...)
			continue
		}
		moved = append(moved, displaced{t, t.Pos})
		t.Pos = plan.Pos{X: t.Pos.X + off.X, Y: t.Pos.Y + off.Y, Z: 0}
		overlaps = append(overlaps, g.Add(t)...)
	}

	return overlaps, func() {
		for _, m := range moved {
			m.tile.Pos = m.orig
		}
	}
}

func distinctSortedZ(tiles []*plan.Tile) []int {
	seen := make(map[int]bool)
	var zs []int
	for _, t := range tiles {
		if !seen[t.Pos.Z] {
			seen[t.Pos.Z] = true
			zs = append(zs, t.Pos.Z)
		}
	}
	sort.Ints(zs)
	return zs
}

func backAnnotateOccs(model plan.Model, occs []traversal.Occ) {
	byID := make(map[string]*plan.Tile)
	for _, t := range model.Tiles() {
		byID[t.ID] = t
	}
	for _, occ := range occs {
		for _, id := range occ.TileIDs {
			if t, ok := byID[id]; ok {
				t.BlockID = occ.BlockID
			}
		}
	}
}

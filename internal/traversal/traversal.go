// Package traversal is the Track-Plan Analyzer's recursive route
// discovery driver: starting at a block's exit, it walks cell-to-cell
// through the Grid Index via the Travel Function, cloning the active
// trace at every branching tile, until it runs into another block (or
// drops the trace for one of the normal reasons spec §7 enumerates).
//
// The clone-at-branch shape is grounded on navigation/routegraph.go's
// Route/Waypoint model: that package contracts a grid into a sparse
// graph and enumerates distinct routes between two points by branching
// at junctions; this driver does the analogous thing tile-by-tile
// against the Travel Function's branch tags instead of a precomputed
// junction graph.
package traversal

import (
	"github.com/railtopo/trackplan/internal/diag"
	"github.com/railtopo/trackplan/internal/grid"
	"github.com/railtopo/trackplan/internal/travel"
	"github.com/railtopo/trackplan/plan"
)

// maxDepth bounds recursion per spec §4.3/I6: no grid pathology can
// cause unbounded recursion.
const maxDepth = 100

// connectorScanBound is the fixed number of cells a counterpart-less
// connector is scanned forward for a matching tile (spec §4.2, §9).
const connectorScanBound = 10

// Snapshot is one tile visited along a Trace, carrying the disposition
// used at that tile (spec §3 "Traversal Trace").
type Snapshot struct {
	Tile        *plan.Tile
	Disposition string
}

// Trace is an ordered path from a starting block toward a terminating
// block, optionally extended to the first signal behind it.
type Trace struct {
	Snapshots []Snapshot
	// BlockIdx is the index of the first block/selection-table
	// snapshot after the origin (index 0), i.e. the destination block.
	// -1 if the trace never reached one (dropped before arrival).
	BlockIdx int
}

// Occ associates every non-block tile (switches included) encountered
// while walking behind a destination block toward its terminating
// signal, for the Facade's
// strict-mode blockid back-annotation pass (spec §4.6).
type Occ struct {
	BlockID string
	TileIDs []string
}

// Result is the Traversal Driver's output for one starting direction
// of one block: the preliminary trace list plus the occ-list auxiliary
// data (spec §4.3 "Output").
type Result struct {
	Traces []Trace
	Occs   []Occ
}

// Explore walks every branch reachable from block's exit in dir and
// returns the completed traces and occ entries. Incomplete branches are
// dropped; only a depth overflow records a diagnostic.
func Explore(g *grid.Grid, d *diag.Collector, block *plan.Tile, dir plan.Orientation) Result {
	w := &walker{grid: g, diag: d}
	w.step(Trace{Snapshots: nil, BlockIdx: -1}, block, block.Pos, dir, 0, 0)
	return Result{Traces: w.traces, Occs: w.occs}
}

type walker struct {
	grid   *grid.Grid
	diag   *diag.Collector
	traces []Trace
	occs   []Occ
}

// step processes one tile of a pre-destination trace: it computes the
// Travel outcome, clones at branch points, and recurses into the next
// cell. entryCell is the cell the caller is standing on (where tile
// was looked up), needed for the crossing/ccrossing sign convention.
func (w *walker) step(tr Trace, tile *plan.Tile, entryCell plan.Pos, dir plan.Orientation, turnoutIn, depth int) {
	if depth > maxDepth {
		w.diag.Warning("traversal depth exceeded, trace dropped", tile.ID)
		return
	}

	res := travel.Travel(tile, dir, turnoutIn, entryCell)
	if res.Verdict != travel.OK {
		// NOT_IN_DIRECTION / DEAD_END: a normal outcome of exploring
		// the wrong branch (spec §7), dropped silently.
		return
	}

	if res.Branch == travel.BranchDCrossing {
		for _, altTS := range travel.DCrossingStates(tile.Dir, tile.Orientation, dir) {
			altRes := travel.Travel(tile, dir, altTS, entryCell)
			if altRes.Verdict != travel.OK {
				continue
			}
			w.advance(cloneTrace(tr), tile, entryCell, altTS, altRes, dir, depth)
		}
		return
	}

	if alts := alternatives(res.Branch); len(alts) > 0 {
		for _, altTS := range alts {
			altRes := travel.Travel(tile, dir, altTS, entryCell)
			if altRes.Verdict != travel.OK {
				continue
			}
			w.advance(cloneTrace(tr), tile, entryCell, altTS, altRes, dir, depth)
		}
		return
	}

	w.advance(tr, tile, entryCell, turnoutIn, res, dir, depth)
}

// advance appends tile's snapshot for the given outcome and recurses
// into whatever lies in the outgoing direction.
func (w *walker) advance(tr Trace, tile *plan.Tile, entryCell plan.Pos, turnoutIn int, res travel.Result, incomingDir plan.Orientation, depth int) {
	tr.Snapshots = append(tr.Snapshots, Snapshot{
		Tile:        tile,
		Disposition: disposition(tile, incomingDir, turnoutIn),
	})

	nextCell := plan.Pos{
		X: entryCell.X + res.DX + unitX(res.OutDir),
		Y: entryCell.Y + res.DY + unitY(res.OutDir),
		Z: entryCell.Z,
	}

	next, ok := w.grid.GetPos(nextCell)
	if !ok {
		return // missing neighbor: trace dropped
	}

	if next.Kind == plan.KindBlock || next.Kind == plan.KindSelTab {
		w.arriveBlock(tr, next, nextCell, res.OutDir, depth+1)
		return
	}

	if next.Kind == plan.KindTrackConnector && connectorFaces(next.Orientation, res.OutDir) {
		w.followConnector(tr, next, nextCell, res.OutDir, res.TurnoutOut, depth+1)
		return
	}

	w.step(tr, next, nextCell, res.OutDir, res.TurnoutOut, depth+1)
}

// arriveBlock terminates the branching phase: the destination block's
// snapshot is appended, the trace is handed to behind-a-block mode to
// look for a terminating signal, and whatever that mode produces is
// recorded (spec §4.3 "Termination conditions").
func (w *walker) arriveBlock(tr Trace, block *plan.Tile, entryCell plan.Pos, dir plan.Orientation, depth int) {
	res := travel.Travel(block, dir, 0, entryCell)
	if res.Verdict != travel.OK {
		return
	}
	tr.BlockIdx = len(tr.Snapshots)
	tr.Snapshots = append(tr.Snapshots, Snapshot{
		Tile:        block,
		Disposition: blockSide(block.Orientation, dir),
	})
	w.behindBlock(tr, block.ID, entryCell, res, depth)
}

// behindBlock continues linearly past a destination block, without
// further cloning, until it reaches a signal (success: trace + occ
// recorded), a dead end, a missing neighbor, or a loop back onto a
// non-switch/non-block tile already seen in this segment.
func (w *walker) behindBlock(tr Trace, blockID string, entryCell plan.Pos, fromRes travel.Result, depth int) {
	var seen []string
	var occIDs []string
	nextCell := plan.Pos{
		X: entryCell.X + fromRes.DX + unitX(fromRes.OutDir),
		Y: entryCell.Y + fromRes.DY + unitY(fromRes.OutDir),
		Z: entryCell.Z,
	}
	dir := fromRes.OutDir
	turnoutIn := fromRes.TurnoutOut

	for {
		if depth > maxDepth {
			w.traces = append(w.traces, tr)
			return
		}
		tile, ok := w.grid.GetPos(nextCell)
		if !ok {
			w.traces = append(w.traces, tr)
			return
		}

		if tile.Kind != plan.KindSwitch && tile.Kind != plan.KindBlock && tile.Kind != plan.KindSelTab {
			for _, id := range seen {
				if id == tile.ID {
					w.traces = append(w.traces, tr)
					return
				}
			}
			seen = append(seen, tile.ID)
		}
		if tile.Kind != plan.KindBlock && tile.Kind != plan.KindSelTab {
			occIDs = append(occIDs, tile.ID)
		}

		if tile.Kind == plan.KindTrackConnector && connectorFaces(tile.Orientation, dir) {
			_, jumpCell, ok := w.resolveConnector(tile, nextCell, dir)
			if !ok {
				w.traces = append(w.traces, tr)
				return
			}
			tr.Snapshots = append(tr.Snapshots, Snapshot{Tile: tile})
			nextCell = jumpCell
			depth++
			continue
		}

		res := travel.Travel(tile, dir, turnoutIn, nextCell)
		if res.Verdict != travel.OK {
			w.traces = append(w.traces, tr)
			return
		}

		tr.Snapshots = append(tr.Snapshots, Snapshot{
			Tile:        tile,
			Disposition: disposition(tile, dir, turnoutIn),
		})

		if tile.Kind == plan.KindSignal {
			w.traces = append(w.traces, tr)
			w.occs = append(w.occs, Occ{BlockID: blockID, TileIDs: occIDs})
			return
		}

		if tile.Kind == plan.KindBlock || tile.Kind == plan.KindSelTab {
			w.traces = append(w.traces, tr)
			return
		}

		nextCell = plan.Pos{
			X: nextCell.X + res.DX + unitX(res.OutDir),
			Y: nextCell.Y + res.DY + unitY(res.OutDir),
			Z: nextCell.Z,
		}
		dir = res.OutDir
		turnoutIn = res.TurnoutOut
		depth++
	}
}

// followConnector resolves a connector reached during the branching
// phase (counterpart jump or forward scan) and resumes stepping from
// the counterpart cell with the same travel direction.
func (w *walker) followConnector(tr Trace, conn *plan.Tile, entryCell plan.Pos, dir plan.Orientation, turnoutOut int, depth int) {
	target, targetCell, ok := w.resolveConnector(conn, entryCell, dir)
	if !ok {
		return
	}
	tr.Snapshots = append(tr.Snapshots, Snapshot{Tile: conn})
	w.step(tr, target, targetCell, dir, turnoutOut, depth)
}

// resolveConnector finds where a connector tile hands the walk off to:
// its counterpart-id if set, otherwise a forward scan up to
// connectorScanBound cells for a tile of complementary orientation.
func (w *walker) resolveConnector(conn *plan.Tile, entryCell plan.Pos, dir plan.Orientation) (*plan.Tile, plan.Pos, bool) {
	if conn.CounterpartID != "" {
		cp, ok := w.grid.ByID(conn.CounterpartID)
		if !ok {
			return nil, plan.Pos{}, false
		}
		return cp, cp.Pos, true
	}

	cell := entryCell
	for i := 0; i < connectorScanBound; i++ {
		cell = plan.Pos{X: cell.X + unitX(dir), Y: cell.Y + unitY(dir), Z: cell.Z}
		t, ok := w.grid.GetPos(cell)
		if !ok {
			continue
		}
		if t.Kind == plan.KindTrackConnector && t.Orientation == complementary(dir) {
			return t, cell, true
		}
	}
	return nil, plan.Pos{}, false
}

func cloneTrace(tr Trace) Trace {
	cp := Trace{BlockIdx: tr.BlockIdx, Snapshots: make([]Snapshot, len(tr.Snapshots))}
	copy(cp.Snapshots, tr.Snapshots)
	return cp
}

// alternatives lists, in ascending order, the turnout-in values the
// caller must explore for a branching tile (spec §4.3 "deterministic
// branch order"). BranchDCrossing is handled separately in step, via
// travel.DCrossingStates, since its two legal states depend on the
// tile's orientation and incoming direction rather than being fixed.
func alternatives(b travel.Branch) []int {
	switch b {
	case travel.BranchTwoWay:
		return []int{0, 1}
	case travel.BranchThreeWay:
		return []int{0, 1, 2}
	default:
		return nil
	}
}

func unitX(dir plan.Orientation) int {
	switch dir {
	case plan.West:
		return -1
	case plan.East:
		return 1
	default:
		return 0
	}
}

func unitY(dir plan.Orientation) int {
	switch dir {
	case plan.North:
		return -1
	case plan.South:
		return 1
	default:
		return 0
	}
}

func complementary(dir plan.Orientation) plan.Orientation {
	switch dir {
	case plan.West:
		return plan.East
	case plan.East:
		return plan.West
	case plan.North:
		return plan.South
	default:
		return plan.North
	}
}

// connectorFaces reports whether a connector oriented ori engages a
// counterpart jump for a train travelling in dir. This is a distinct,
// literal table from facingMatch below — west connectors only engage
// eastbound travel, north connectors only northbound, east connectors
// only westbound, south connectors only southbound.
func connectorFaces(ori, dir plan.Orientation) bool {
	switch {
	case ori == plan.West && dir == plan.East:
		return true
	case ori == plan.North && dir == plan.North:
		return true
	case ori == plan.East && dir == plan.West:
		return true
	case ori == plan.South && dir == plan.South:
		return true
	default:
		return false
	}
}

// facingMatch reports whether a tile oriented ori is "facing" a train
// travelling in dir: west tiles face west travel, east tiles face east
// travel, but north/south tiles face the opposite compass direction of
// their own name (north faces a southbound train, south a northbound
// one). This asymmetric rule governs block/seltab side labelling and
// signal facing.
func facingMatch(ori, dir plan.Orientation) bool {
	switch {
	case ori == plan.West && dir == plan.West:
		return true
	case ori == plan.East && dir == plan.East:
		return true
	case ori == plan.North && dir == plan.South:
		return true
	case ori == plan.South && dir == plan.North:
		return true
	default:
		return false
	}
}

// blockSide reports the +/- side a block/seltab was entered on.
func blockSide(ori, dir plan.Orientation) string {
	if facingMatch(ori, dir) {
		return "+"
	}
	return "-"
}

// disposition computes the Traversal Trace annotation for one tile
// (spec §3): switch state names, block/seltab side, or signal facing.
func disposition(tile *plan.Tile, incomingDir plan.Orientation, turnoutIn int) string {
	switch tile.Kind {
	case plan.KindSwitch:
		return switchDisposition(tile, turnoutIn)
	case plan.KindBlock, plan.KindSelTab:
		return blockSide(tile.Orientation, incomingDir)
	case plan.KindSignal:
		if facingMatch(tile.Orientation, incomingDir) {
			return "yes"
		}
		return ""
	default:
		return ""
	}
}

// switchDisposition names the turnout state a switch was crossed in,
// keyed by subtype and the turnout-in value the Travel Function was
// called with — not by whether this particular crossing branched.
func switchDisposition(tile *plan.Tile, turnoutIn int) string {
	switch tile.Subtype {
	case plan.SubLeft, plan.SubRight:
		if turnoutIn != 0 {
			return "turnout"
		}
		return "straight"
	case plan.SubThreeway:
		switch turnoutIn {
		case 1:
			return "left"
		case 2:
			return "right"
		default:
			return "straight"
		}
	case plan.SubDCrossing:
		switch turnoutIn {
		case 1:
			return "turnout"
		case 2:
			return "left"
		case 3:
			return "right"
		default:
			return "straight"
		}
	case plan.SubCrossing:
		if tile.Addr1 != 0 || tile.Port1 != 0 {
			if turnoutIn == 2 || turnoutIn == 3 {
				return "turnout"
			}
			return "straight"
		}
		return "straight"
	default:
		return "straight"
	}
}

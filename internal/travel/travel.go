// Package travel implements the Track-Plan Analyzer's travel function:
// the per-tile transition table that tells the Traversal Driver how a
// virtual train crossing a tile changes direction, position, and
// turnout state. It is a pure function of (tile, incoming direction,
// turnout-in) — no traversal state crosses a call boundary, which is
// why it is a flat table rather than a stateful machine on the model
// of engine/fsm.Machine[T]: there is exactly one invocation per tile
// per step, and nothing here persists between them.
package travel

import "github.com/railtopo/trackplan/plan"

// Direction is the compass direction of travel. It shares plan's
// West/North/East/South encoding: travel direction and tile
// orientation are the same four-valued axis.
type Direction = plan.Orientation

// Verdict classifies whether a tile could be entered at all.
type Verdict int

const (
	// OK means the tile was entered and Result carries the outgoing
	// edge.
	OK Verdict = iota
	// NotInDirection means the tile's orientation axis does not admit
	// the incoming direction — a normal outcome of exploring the wrong
	// side of a tile.
	NotInDirection
	// DeadEnd means the tile's geometry is simply incompatible with
	// this incoming direction (e.g. an invalid curve entry).
	DeadEnd
)

// Branch classifies a tile that offers more than one outgoing edge.
// The caller must enumerate every alternative turnout position listed
// for the tag.
type Branch int

const (
	BranchNone Branch = iota
	BranchTwoWay
	BranchThreeWay
	BranchDCrossing
)

// Result is the outcome of crossing one tile.
type Result struct {
	Verdict    Verdict
	OutDir     Direction
	DX, DY     int
	TurnoutOut int
	Branch     Branch
}

func notInDirection() Result { return Result{Verdict: NotInDirection} }
func deadEnd() Result        { return Result{Verdict: DeadEnd} }
func pass(dir Direction) Result {
	return Result{Verdict: OK, OutDir: dir}
}
func passDisp(dir Direction, dx, dy int) Result {
	return Result{Verdict: OK, OutDir: dir, DX: dx, DY: dy}
}

// Travel is the transition function of spec §4.2. entryCell is the
// grid cell the caller currently occupies when it looked this tile up
// — it only matters for the crossing/ccrossing sign convention, which
// depends on which of a two-cell tile's footprint cells was entered
// from.
func Travel(t *plan.Tile, dir Direction, turnoutIn int, entryCell plan.Pos) Result {
	ori := t.Orientation

	switch {
	case t.Kind == plan.KindTrackCurve, t.Kind == plan.KindFeedback && t.Curve:
		return travelCurve(ori, dir)
	case t.Kind == plan.KindTrackDir:
		return travelDir(ori, dir)
	case t.Kind == plan.KindBlock:
		return travelSpan(ori, dir, blockStep(t))
	case t.Kind == plan.KindSelTab:
		step := t.TrackCount
		if step < 1 {
			step = 1
		}
		return travelSpan(ori, dir, step)
	case t.Kind == plan.KindSwitch && t.Subtype == plan.SubDecoupler:
		return pass(dir)
	case t.Kind == plan.KindSwitch:
		return travelSwitch(t, ori, dir, turnoutIn, entryCell)
	default:
		// Elements which do not change travel direction: straight
		// track, non-curved feedback, signals, outputs, connectors.
		return travelStraightThrough(ori, dir)
	}
}

func blockStep(t *plan.Tile) int {
	if t.SmallSymbol {
		return 1
	}
	return 3
}

// travelStraightThrough passes the tile iff its orientation axis
// matches the travel axis.
func travelStraightThrough(ori plan.Orientation, dir Direction) Result {
	horizontalOri := ori == plan.West || ori == plan.East
	horizontalTravel := dir == plan.West || dir == plan.East
	if horizontalOri == horizontalTravel {
		return pass(dir)
	}
	return notInDirection()
}

// travelCurve is the fixed 4x4 table over (incoming direction,
// orientation): eight valid combinations, everything else is a dead
// end.
func travelCurve(ori plan.Orientation, dir Direction) Result {
	switch {
	case dir == plan.West && ori == plan.North:
		return pass(plan.South)
	case dir == plan.West && ori == plan.East:
		return pass(plan.North)
	case dir == plan.North && ori == plan.West:
		return pass(plan.West)
	case dir == plan.North && ori == plan.North:
		return pass(plan.East)
	case dir == plan.East && ori == plan.West:
		return pass(plan.South)
	case dir == plan.East && ori == plan.South:
		return pass(plan.North)
	case dir == plan.South && ori == plan.East:
		return pass(plan.East)
	case dir == plan.South && ori == plan.South:
		return pass(plan.West)
	default:
		return deadEnd()
	}
}

// travelDir is the one-way track's admission table.
func travelDir(ori plan.Orientation, dir Direction) Result {
	switch {
	case dir == plan.North && ori == plan.South:
		return pass(dir)
	case dir == plan.South && ori == plan.North:
		return pass(dir)
	case dir == plan.West && ori == plan.West:
		return pass(dir)
	case dir == plan.East && ori == plan.East:
		return pass(dir)
	default:
		return notInDirection()
	}
}

// travelSpan is the block/selection-table admission+displacement rule:
// entering along the main axis in the exit direction jumps to the far
// cell; entering against it passes through with zero displacement;
// anything else is not in direction.
func travelSpan(ori plan.Orientation, dir Direction, step int) Result {
	switch {
	case (ori == plan.West || ori == plan.East) && dir == plan.East:
		return passDisp(dir, step, 0)
	case (ori == plan.West || ori == plan.East) && dir == plan.West:
		return pass(dir)
	case (ori == plan.North || ori == plan.South) && dir == plan.South:
		return passDisp(dir, 0, step)
	case (ori == plan.North || ori == plan.South) && dir == plan.North:
		return pass(dir)
	default:
		return notInDirection()
	}
}

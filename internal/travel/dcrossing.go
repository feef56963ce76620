package travel

import "github.com/railtopo/trackplan/plan"

// travelDCrossing implements the addressed double-slip switch (dcrossing,
// and crossing tiles wired with a switch address): two turnout pairs
// sharing one footprint, each independently settable. Exactly two
// turnoutstate values are valid for any (orientation, travel) pair — one
// keeps the train on its incoming axis, the other diverts it onto the
// crossing axis; the other two are not in direction at all, never
// explored by the driver (see DCrossingStates).
func travelDCrossing(rightHand bool, ori plan.Orientation, dir Direction, turnoutIn int) Result {
	if !rightHand {
		if r, ok := dcrossingLeft(ori, dir, turnoutIn); ok {
			return r
		}
	} else {
		if r, ok := dcrossingRight(ori, dir, turnoutIn); ok {
			return r
		}
	}
	return notInDirection()
}

// dcrossingLeftStates and dcrossingRightStates are the source's
// left[16][2]/right[16][2] tables, indexed by orientation*4+direction:
// the exactly two legal turnout-in values for that (orientation,
// direction) pair. DCrossingStates is what the Traversal Driver walks
// instead of trying all four turnout positions and filtering by
// verdict.
var dcrossingLeftStates = [16][2]int{
	{0, 2}, {1, 2}, {0, 3}, {1, 3},
	{1, 2}, {0, 3}, {1, 3}, {0, 2},
	{0, 3}, {1, 3}, {0, 2}, {1, 2},
	{1, 3}, {0, 2}, {1, 2}, {0, 3},
}

var dcrossingRightStates = [16][2]int{
	{0, 3}, {1, 2}, {0, 2}, {1, 3},
	{1, 2}, {0, 2}, {1, 3}, {0, 3},
	{0, 2}, {1, 3}, {0, 3}, {1, 2},
	{1, 3}, {0, 3}, {1, 2}, {0, 2},
}

// DCrossingStates returns the two turnout-in values the Traversal
// Driver must explore for a dcrossing tile entered with orientation
// ori and incoming direction dir.
func DCrossingStates(rightHand bool, ori plan.Orientation, dir Direction) [2]int {
	idx := int(ori)*4 + int(dir)
	if rightHand {
		return dcrossingRightStates[idx]
	}
	return dcrossingLeftStates[idx]
}

func dcr(out Direction, dx, dy int) (Result, bool) {
	return Result{Verdict: OK, OutDir: out, DX: dx, DY: dy, Branch: BranchDCrossing}, true
}

func dcrossingLeft(ori plan.Orientation, dir Direction, ts int) (Result, bool) {
	switch ori {
	case plan.West:
		switch dir {
		case plan.West:
			switch ts {
			case 0:
				return dcr(plan.West, 0, 0)
			case 2:
				return dcr(plan.South, 0, 0)
			}
		case plan.North:
			switch ts {
			case 1:
				return dcr(plan.North, 1, 0)
			case 2:
				return dcr(plan.East, 1, 0)
			}
		case plan.East:
			switch ts {
			case 0:
				return dcr(plan.East, 1, 0)
			case 3:
				return dcr(plan.North, 1, 0)
			}
		case plan.South:
			switch ts {
			case 1:
				return dcr(plan.South, 0, 0)
			case 3:
				return dcr(plan.West, 0, 0)
			}
		}
	case plan.East:
		switch dir {
		case plan.West:
			switch ts {
			case 0:
				return dcr(plan.West, 0, 0)
			case 3:
				return dcr(plan.South, 0, 0)
			}
		case plan.North:
			switch ts {
			case 1:
				return dcr(plan.North, 1, 0)
			case 3:
				return dcr(plan.East, 1, 0)
			}
		case plan.East:
			switch ts {
			case 0:
				return dcr(plan.East, 1, 0)
			case 2:
				return dcr(plan.North, 1, 0)
			}
		case plan.South:
			switch ts {
			case 1:
				return dcr(plan.South, 0, 0)
			case 2:
				return dcr(plan.West, 0, 0)
			}
		}
	case plan.North:
		switch dir {
		case plan.West:
			switch ts {
			case 1:
				return dcr(plan.West, 0, 0)
			case 2:
				return dcr(plan.North, 0, 0)
			}
		case plan.North:
			switch ts {
			case 0:
				return dcr(plan.North, 0, 0)
			case 3:
				return dcr(plan.West, 0, 0)
			}
		case plan.East:
			switch ts {
			case 1:
				return dcr(plan.East, 0, 1)
			case 3:
				return dcr(plan.South, 0, 1)
			}
		case plan.South:
			switch ts {
			case 0:
				return dcr(plan.South, 0, 1)
			case 2:
				return dcr(plan.East, 0, 1)
			}
		}
	case plan.South:
		switch dir {
		case plan.West:
			switch ts {
			case 1:
				return dcr(plan.West, 0, 0)
			case 3:
				return dcr(plan.North, 0, 0)
			}
		case plan.North:
			switch ts {
			case 0:
				return dcr(plan.North, 0, 0)
			case 2:
				return dcr(plan.West, 0, 0)
			}
		case plan.East:
			switch ts {
			case 1:
				return dcr(plan.East, 0, 1)
			case 2:
				return dcr(plan.South, 0, 1)
			}
		case plan.South:
			switch ts {
			case 0:
				return dcr(plan.South, 0, 1)
			case 3:
				return dcr(plan.East, 0, 1)
			}
		}
	}
	return Result{}, false
}

func dcrossingRight(ori plan.Orientation, dir Direction, ts int) (Result, bool) {
	switch ori {
	case plan.West:
		switch dir {
		case plan.West:
			switch ts {
			case 0:
				return dcr(plan.West, 0, 0)
			case 3:
				return dcr(plan.North, 0, 0)
			}
		case plan.North:
			switch ts {
			case 1:
				return dcr(plan.North, 0, 0)
			case 2:
				return dcr(plan.West, 0, 0)
			}
		case plan.East:
			switch ts {
			case 0:
				return dcr(plan.East, 1, 0)
			case 2:
				return dcr(plan.South, 1, 0)
			}
		case plan.South:
			switch ts {
			case 1:
				return dcr(plan.South, 1, 0)
			case 3:
				return dcr(plan.East, 1, 0)
			}
		}
	case plan.East:
		switch dir {
		case plan.West:
			switch ts {
			case 0:
				return dcr(plan.West, 0, 0)
			case 2:
				return dcr(plan.North, 0, 0)
			}
		case plan.North:
			switch ts {
			case 1:
				return dcr(plan.North, 0, 0)
			case 3:
				return dcr(plan.West, 0, 0)
			}
		case plan.East:
			switch ts {
			case 0:
				return dcr(plan.East, 1, 0)
			case 3:
				return dcr(plan.South, 1, 0)
			}
		case plan.South:
			switch ts {
			case 1:
				return dcr(plan.South, 1, 0)
			case 2:
				return dcr(plan.East, 1, 0)
			}
		}
	case plan.North:
		switch dir {
		case plan.West:
			switch ts {
			case 1:
				return dcr(plan.West, 0, 1)
			case 2:
				return dcr(plan.South, 0, 1)
			}
		case plan.North:
			switch ts {
			case 0:
				return dcr(plan.North, 0, 0)
			case 2:
				return dcr(plan.East, 0, 0)
			}
		case plan.East:
			switch ts {
			case 1:
				return dcr(plan.East, 0, 0)
			case 3:
				return dcr(plan.North, 0, 0)
			}
		case plan.South:
			switch ts {
			case 0:
				return dcr(plan.South, 0, 1)
			case 3:
				return dcr(plan.West, 0, 1)
			}
		}
	case plan.South:
		switch dir {
		case plan.West:
			switch ts {
			case 1:
				return dcr(plan.West, 0, 1)
			case 3:
				return dcr(plan.South, 0, 1)
			}
		case plan.North:
			switch ts {
			case 0:
				return dcr(plan.North, 0, 0)
			case 3:
				return dcr(plan.East, 0, 0)
			}
		case plan.East:
			switch ts {
			case 1:
				return dcr(plan.East, 0, 0)
			case 2:
				return dcr(plan.North, 0, 0)
			}
		case plan.South:
			switch ts {
			case 0:
				return dcr(plan.South, 0, 1)
			case 2:
				return dcr(plan.West, 0, 1)
			}
		}
	}
	return Result{}, false
}

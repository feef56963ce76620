package traversal

import (
	"testing"

	"github.com/railtopo/trackplan/internal/diag"
	"github.com/railtopo/trackplan/internal/grid"
	"github.com/railtopo/trackplan/plan"
)

func addAll(g *grid.Grid, tiles ...*plan.Tile) {
	for _, t := range tiles {
		g.Add(t)
	}
}

// TestExploreStraightRoute covers the single-path case: two blocks
// joined by plain track and a terminating signal behind the far block.
func TestExploreStraightRoute(t *testing.T) {
	g := grid.New()
	d := &diag.Collector{}

	blockA := &plan.Tile{ID: "A", Kind: plan.KindBlock, Orientation: plan.West, Pos: plan.Pos{X: 0, Y: 0}}
	straight := &plan.Tile{ID: "T1", Kind: plan.KindTrackStraight, Orientation: plan.West, Pos: plan.Pos{X: 4, Y: 0}}
	blockB := &plan.Tile{ID: "B", Kind: plan.KindBlock, Orientation: plan.West, Pos: plan.Pos{X: 5, Y: 0}}
	signal := &plan.Tile{ID: "SG1", Kind: plan.KindSignal, Orientation: plan.East, Pos: plan.Pos{X: 9, Y: 0}}
	addAll(g, blockA, straight, blockB, signal)

	res := Explore(g, d, blockA, plan.East)

	if len(res.Traces) != 1 {
		t.Fatalf("expected exactly one trace, got %d", len(res.Traces))
	}
	tr := res.Traces[0]
	if tr.BlockIdx != 2 {
		t.Fatalf("expected destination block at index 2 (origin, straight, block), got %d", tr.BlockIdx)
	}
	if got := tr.Snapshots[tr.BlockIdx].Tile.ID; got != "B" {
		t.Errorf("expected destination block B, got %s", got)
	}
	last := tr.Snapshots[len(tr.Snapshots)-1]
	if last.Tile.ID != "SG1" || last.Disposition != "yes" {
		t.Errorf("expected trailing signal facing the route, got %+v", last)
	}

	if len(res.Occs) != 1 || res.Occs[0].BlockID != "B" {
		t.Fatalf("expected one occ entry for block B, got %+v", res.Occs)
	}
}

// TestExploreTurnoutFanOut covers a single two-way switch splitting one
// incoming route into two independently traced routes (spec scenario 2).
func TestExploreTurnoutFanOut(t *testing.T) {
	g := grid.New()
	d := &diag.Collector{}

	blockA := &plan.Tile{ID: "A", Kind: plan.KindBlock, Orientation: plan.West, SmallSymbol: true, Pos: plan.Pos{X: 0, Y: 0}}
	sw := &plan.Tile{ID: "SW1", Kind: plan.KindSwitch, Subtype: plan.SubRight, Orientation: plan.West, Pos: plan.Pos{X: 2, Y: 0}}
	blockStraight := &plan.Tile{ID: "BS", Kind: plan.KindBlock, Orientation: plan.West, SmallSymbol: true, Pos: plan.Pos{X: 3, Y: 0}}
	blockDiverge := &plan.Tile{ID: "BD", Kind: plan.KindBlock, Orientation: plan.North, SmallSymbol: true, Pos: plan.Pos{X: 2, Y: 1}}
	addAll(g, blockA, sw, blockStraight, blockDiverge)

	res := Explore(g, d, blockA, plan.East)

	if len(res.Traces) != 2 {
		t.Fatalf("expected two traces (straight leg + diverging leg), got %d", len(res.Traces))
	}

	var sawStraight, sawDiverge bool
	for _, tr := range res.Traces {
		dest := tr.Snapshots[tr.BlockIdx].Tile.ID
		swSnap := tr.Snapshots[1]
		if swSnap.Tile.ID != "SW1" {
			t.Fatalf("expected switch as second snapshot, got %s", swSnap.Tile.ID)
		}
		switch dest {
		case "BS":
			sawStraight = true
			if swSnap.Disposition != "straight" {
				t.Errorf("straight-leg trace: expected switch disposition straight, got %s", swSnap.Disposition)
			}
		case "BD":
			sawDiverge = true
			if swSnap.Disposition != "turnout" {
				t.Errorf("diverging-leg trace: expected switch disposition turnout, got %s", swSnap.Disposition)
			}
		default:
			t.Errorf("unexpected destination block %s", dest)
		}
	}
	if !sawStraight || !sawDiverge {
		t.Errorf("expected both legs to be explored: straight=%v diverge=%v", sawStraight, sawDiverge)
	}
}

// TestExploreDCrossingFansOutExactlyTwo covers a double-slip switch:
// exactly two of the four turnout-in values are legal for a given
// (orientation, direction) pair, so the driver must produce exactly
// two traces, not four (the source's left[16][2]/right[16][2]
// selection table, not a brute-force try-all-four).
func TestExploreDCrossingFansOutExactlyTwo(t *testing.T) {
	g := grid.New()
	d := &diag.Collector{}

	blockA := &plan.Tile{ID: "A", Kind: plan.KindBlock, Orientation: plan.West, Pos: plan.Pos{X: 4, Y: 0}}
	dc := &plan.Tile{ID: "DC1", Kind: plan.KindSwitch, Subtype: plan.SubDCrossing, Orientation: plan.West, Pos: plan.Pos{X: 3, Y: 0}}
	blockStraight := &plan.Tile{ID: "BS", Kind: plan.KindBlock, Orientation: plan.West, SmallSymbol: true, Pos: plan.Pos{X: 2, Y: 0}}
	blockDiverge := &plan.Tile{ID: "BD", Kind: plan.KindBlock, Orientation: plan.North, SmallSymbol: true, Pos: plan.Pos{X: 3, Y: 1}}
	addAll(g, blockA, dc, blockStraight, blockDiverge)

	res := Explore(g, d, blockA, plan.West)

	if len(res.Traces) != 2 {
		t.Fatalf("expected exactly two traces (the two legal turnout states), got %d", len(res.Traces))
	}
	var sawStraight, sawDiverge bool
	for _, tr := range res.Traces {
		switch tr.Snapshots[tr.BlockIdx].Tile.ID {
		case "BS":
			sawStraight = true
		case "BD":
			sawDiverge = true
		default:
			t.Errorf("unexpected destination block %s", tr.Snapshots[tr.BlockIdx].Tile.ID)
		}
	}
	if !sawStraight || !sawDiverge {
		t.Errorf("expected both legal legs explored: straight=%v diverge=%v", sawStraight, sawDiverge)
	}
}

// TestExploreConnectorTeleport covers a counterpart-addressed connector
// pair splicing two otherwise disconnected grid regions (spec scenario
// 4 / §4.2's connector teleport rule).
func TestExploreConnectorTeleport(t *testing.T) {
	g := grid.New()
	d := &diag.Collector{}

	blockA := &plan.Tile{ID: "A", Kind: plan.KindBlock, Orientation: plan.West, SmallSymbol: true, Pos: plan.Pos{X: 0, Y: 0}}
	// A west-oriented connector is the one that engages eastbound
	// travel (the reference implementation's connector "found" table is
	// distinct from, and not a mirror of, the block/signal facing rule).
	connA := &plan.Tile{ID: "CA", Kind: plan.KindTrackConnector, Orientation: plan.West, Pos: plan.Pos{X: 2, Y: 0}, CounterpartID: "CB"}
	connB := &plan.Tile{ID: "CB", Kind: plan.KindTrackConnector, Orientation: plan.West, Pos: plan.Pos{X: 100, Y: 0}}
	blockB := &plan.Tile{ID: "B", Kind: plan.KindBlock, Orientation: plan.West, SmallSymbol: true, Pos: plan.Pos{X: 101, Y: 0}}
	addAll(g, blockA, connA, connB, blockB)

	res := Explore(g, d, blockA, plan.East)

	if len(res.Traces) != 1 {
		t.Fatalf("expected exactly one trace, got %d", len(res.Traces))
	}
	tr := res.Traces[0]
	if len(tr.Snapshots) != 4 {
		t.Fatalf("expected origin, both connectors, and destination block in the trace, got %d snapshots", len(tr.Snapshots))
	}
	ids := []string{tr.Snapshots[0].Tile.ID, tr.Snapshots[1].Tile.ID, tr.Snapshots[2].Tile.ID, tr.Snapshots[3].Tile.ID}
	want := []string{"A", "CA", "CB", "B"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("snapshot %d: got %s, want %s", i, ids[i], want[i])
		}
	}
}

// TestExploreUnfacingConnectorPassesThrough checks that a connector not
// facing the travel direction behaves as ordinary straight track rather
// than teleporting (the "found" gate of the reference implementation).
func TestExploreUnfacingConnectorPassesThrough(t *testing.T) {
	g := grid.New()
	d := &diag.Collector{}

	blockA := &plan.Tile{ID: "A", Kind: plan.KindBlock, Orientation: plan.West, SmallSymbol: true, Pos: plan.Pos{X: 0, Y: 0}}
	// Oriented East while travel is East: the connector "found" table
	// only engages an east-oriented connector for westbound travel, so
	// this one must NOT be treated as a counterpart jump despite having
	// one wired.
	connA := &plan.Tile{ID: "CA", Kind: plan.KindTrackConnector, Orientation: plan.East, Pos: plan.Pos{X: 2, Y: 0}, CounterpartID: "CB"}
	blockB := &plan.Tile{ID: "B", Kind: plan.KindBlock, Orientation: plan.West, SmallSymbol: true, Pos: plan.Pos{X: 3, Y: 0}}
	addAll(g, blockA, connA, blockB)

	res := Explore(g, d, blockA, plan.East)

	if len(res.Traces) != 1 {
		t.Fatalf("expected exactly one trace, got %d", len(res.Traces))
	}
	tr := res.Traces[0]
	if tr.Snapshots[tr.BlockIdx].Tile.ID != "B" {
		t.Errorf("expected straight pass-through to reach block B, got %s", tr.Snapshots[tr.BlockIdx].Tile.ID)
	}
}

// TestBlockSideFacingFormula pins the +/- side label to the reference
// implementation's asymmetric facing rule rather than a simple
// orientation-equals-direction check.
func TestBlockSideFacingFormula(t *testing.T) {
	cases := []struct {
		ori  plan.Orientation
		dir  plan.Orientation
		want string
	}{
		{plan.West, plan.West, "+"},
		{plan.West, plan.East, "-"},
		{plan.East, plan.East, "+"},
		{plan.East, plan.West, "-"},
		{plan.North, plan.South, "+"},
		{plan.North, plan.North, "-"},
		{plan.South, plan.North, "+"},
		{plan.South, plan.South, "-"},
	}
	for _, c := range cases {
		if got := blockSide(c.ori, c.dir); got != c.want {
			t.Errorf("blockSide(%v, %v) = %s, want %s", c.ori, c.dir, got, c.want)
		}
	}
}

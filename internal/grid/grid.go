// Package grid is the Track-Plan Analyzer's spatial index: a flat map
// from integer (x,y,z) cells to the tile occupying them. Multi-cell
// tiles (blocks, selection tables, crossings) are registered under
// every cell their footprint covers, echoing the occupancy-bitmap
// discipline of the teacher's maze generator, but keyed sparsely since
// a track plan is unbounded and mostly empty.
package grid

import "github.com/railtopo/trackplan/plan"

// Overlap records a second tile that tried to register at a cell
// already claimed by an earlier one. The first registration always
// wins; Add never overwrites. The Health Checker, not Grid, decides
// what to do with overlaps.
type Overlap struct {
	At     plan.Pos
	First  *plan.Tile
	Second *plan.Tile
}

// Grid is the Analyzer's cell index. The zero value is not usable;
// use New.
type Grid struct {
	cells map[plan.Pos]*plan.Tile
	byID  map[string]*plan.Tile
}

// New returns an empty Grid.
func New() *Grid {
	return &Grid{cells: make(map[plan.Pos]*plan.Tile), byID: make(map[string]*plan.Tile)}
}

// Add registers tile at its base cell and every additional cell its
// kind/orientation/size imply. Insertion order is caller-controlled;
// Grid never reorders. Returns any cells that were already occupied.
func (g *Grid) Add(t *plan.Tile) []Overlap {
	var overlaps []Overlap
	for _, c := range occupiedCells(t) {
		if existing, ok := g.cells[c]; ok {
			overlaps = append(overlaps, Overlap{At: c, First: existing, Second: t})
			continue
		}
		g.cells[c] = t
	}
	if t.ID != "" {
		if _, ok := g.byID[t.ID]; !ok {
			g.byID[t.ID] = t
		}
	}
	return overlaps
}

// ByID looks up a tile by its plan ID, used by connector tiles to jump
// directly to a counterpart rather than scanning the grid for it.
func (g *Grid) ByID(id string) (*plan.Tile, bool) {
	t, ok := g.byID[id]
	return t, ok
}

// Get returns the tile occupying (x,y,z), if any.
func (g *Grid) Get(x, y, z int) (*plan.Tile, bool) {
	t, ok := g.cells[plan.Pos{X: x, Y: y, Z: z}]
	return t, ok
}

// GetPos is the Pos-keyed form of Get.
func (g *Grid) GetPos(p plan.Pos) (*plan.Tile, bool) {
	t, ok := g.cells[p]
	return t, ok
}

// Len reports the number of distinct occupied cells.
func (g *Grid) Len() int { return len(g.cells) }

// occupiedCells computes every cell a tile's footprint covers, relative
// to its own orientation axis: east/west tiles extend along +x, north/
// south tiles extend along +y (spec §3 "Grid Cell key").
func occupiedCells(t *plan.Tile) []plan.Pos {
	n := span(t)
	cells := make([]plan.Pos, n)
	horizontal := t.Orientation == plan.West || t.Orientation == plan.East
	for i := 0; i < n; i++ {
		if horizontal {
			cells[i] = plan.Pos{X: t.Pos.X + i, Y: t.Pos.Y, Z: t.Pos.Z}
		} else {
			cells[i] = plan.Pos{X: t.Pos.X, Y: t.Pos.Y + i, Z: t.Pos.Z}
		}
	}
	return cells
}

// span is the number of cells a tile's footprint covers along its
// orientation axis.
func span(t *plan.Tile) int {
	switch t.Kind {
	case plan.KindBlock:
		if t.SmallSymbol {
			return 2
		}
		return 4
	case plan.KindSelTab:
		if t.TrackCount < 1 {
			return 1
		}
		return t.TrackCount
	case plan.KindSwitch:
		switch t.Subtype {
		case plan.SubCrossing, plan.SubDCrossing, plan.SubCCrossing:
			return 2
		}
	}
	return 1
}

package plan

// MapModel is a minimal in-memory Model, used by the test suite and by
// cmd/trackanalyze. Production callers typically adapt their own layout
// store instead.
type MapModel struct {
	tiles      []*Tile
	blocks     []*Tile
	routes     []*Route
	modplan    []ModuleOffset
	blockSides bool
}

// NewMapModel builds a Model from tiles in enumeration order. Block and
// selection-table tiles are also tracked separately for Blocks().
func NewMapModel(tiles []*Tile, blockSideRouting bool) *MapModel {
	m := &MapModel{tiles: tiles, blockSides: blockSideRouting}
	for _, t := range tiles {
		if t.Kind == KindBlock || t.Kind == KindSelTab {
			m.blocks = append(m.blocks, t)
		}
	}
	return m
}

func (m *MapModel) Tiles() []*Tile  { return m.tiles }
func (m *MapModel) Blocks() []*Tile { return m.blocks }
func (m *MapModel) Routes() []*Route {
	return m.routes
}
func (m *MapModel) SetRoutes(r []*Route)            { m.routes = r }
func (m *MapModel) ModulePlan() []ModuleOffset      { return m.modplan }
func (m *MapModel) BlockSideRoutingEnabled() bool   { return m.blockSides }
func (m *MapModel) SetModulePlan(offs []ModuleOffset) { m.modplan = offs }

// Package plan defines the data model the Track-Plan Analyzer reads and
// writes back to: tiles, blocks, and routes of a model-railroad layout.
// The Analyzer never owns this data — it is handed a Model and mutates
// the *Tile/*Route values reachable from it.
package plan

// Kind identifies the broad category of a tile.
type Kind int

const (
	KindTrackStraight Kind = iota
	KindTrackCurve
	KindTrackDir
	KindTrackConnector
	KindSwitch
	KindBlock
	KindSelTab
	KindSignal
	KindFeedback
	KindOutput
	KindLoco
)

func (k Kind) String() string {
	switch k {
	case KindTrackStraight:
		return "track-straight"
	case KindTrackCurve:
		return "track-curve"
	case KindTrackDir:
		return "track-direction"
	case KindTrackConnector:
		return "track-connector"
	case KindSwitch:
		return "switch"
	case KindBlock:
		return "block"
	case KindSelTab:
		return "selection-table"
	case KindSignal:
		return "signal"
	case KindFeedback:
		return "feedback"
	case KindOutput:
		return "output"
	case KindLoco:
		return "loco"
	default:
		return "unknown"
	}
}

// Subtype refines Kind. Switch subtypes: left, right, threeway, crossing,
// dcrossing, ccrossing, rectcrossing, decoupler. Track subtypes: straight,
// curve, dir, connector.
type Subtype string

const (
	SubLeft         Subtype = "left"
	SubRight        Subtype = "right"
	SubThreeway     Subtype = "threeway"
	SubCrossing     Subtype = "crossing"
	SubDCrossing    Subtype = "dcrossing"
	SubCCrossing    Subtype = "ccrossing"
	SubRectCrossing Subtype = "rectcrossing"
	SubDecoupler    Subtype = "decoupler"

	SubStraight  Subtype = "straight"
	SubCurve     Subtype = "curve"
	SubDir       Subtype = "dir"
	SubConnector Subtype = "connector"
)

// Orientation is one of the four compass directions a tile can face.
// West is the default when unset, matching the reference layout format.
type Orientation int

const (
	West Orientation = iota
	North
	East
	South
)

func (o Orientation) String() string {
	switch o {
	case West:
		return "west"
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	default:
		return "west"
	}
}

// ParseOrientation parses the reference layout format's orientation
// strings, defaulting to West for anything unrecognized (including "").
func ParseOrientation(s string) Orientation {
	switch s {
	case "north":
		return North
	case "east":
		return East
	case "south":
		return South
	default:
		return West
	}
}

// Pos is an integer grid coordinate.
type Pos struct{ X, Y, Z int }

// FeedbackEvent is a block's "enter"/"in" annotation, attached by the
// Route Builder when feedback-event generation is enabled.
type FeedbackEvent struct {
	ID     string
	Action string // "enter" | "in"
	From   string // "all" | "all-reverse"
}

// Tile is the Analyzer's view of a single addressable layout element.
// It is read through a Model and, for the fields the Analyzer owns
// (RouteIDs, the block signal/feedback fields), written back in place.
type Tile struct {
	ID          string
	Kind        Kind
	Subtype     Subtype
	Orientation Orientation
	Pos         Pos
	Show        bool // visible tiles participate in overlap/bounds checks

	// block / seltab
	SmallSymbol bool // block: true -> 2-cell span, false -> 4-cell
	TrackCount  int  // seltab: cell span

	// switch
	Dir                bool // second diagonal/right-hand selector
	Addr1, Port1, Gate1 int
	Addr2, Port2, Gate2 int

	// feedback / loco / generic addressing
	Addr int
	Bus  int
	IID  string // interface/bus scoping id for duplicate-address checks

	// track connector
	CounterpartID string

	// signal
	AspectCount         int
	Addr3, Port3, Gate3 int
	Addr4, Port4, Gate4 int
	SignalKind          string // "main" | "distant", default "main"

	// feedback
	Curve bool

	// loco
	Protocol string // "A" denotes the analog sentinel, exempt from zero-address checks

	// back-references written by the Analyzer
	BlockID  string   // signal/feedback/switch -> owning block id
	RouteIDs []string // deduplicated route-id membership

	// block-only annotations written by the Analyzer
	Signal, SignalR, WSignal, WSignalR string
	FBEvents                           []FeedbackEvent
}

// AddRouteID appends id to RouteIDs if not already present.
func (t *Tile) AddRouteID(id string) {
	for _, existing := range t.RouteIDs {
		if existing == id {
			return
		}
	}
	t.RouteIDs = append(t.RouteIDs, id)
}

// StripAutogenRouteIDs removes every "autogen-"-prefixed entry, used by
// clean mode to undo prior-generation membership without touching
// user-added ids.
func (t *Tile) StripAutogenRouteIDs() {
	kept := t.RouteIDs[:0]
	for _, id := range t.RouteIDs {
		if !isAutogenID(id) {
			kept = append(kept, id)
		}
	}
	t.RouteIDs = kept
}

func isAutogenID(id string) bool {
	const prefix = "autogen-"
	return len(id) >= len(prefix) && id[:len(prefix)] == prefix
}

// SwitchCmd is one required turnout state within a Route.
type SwitchCmd struct{ ID, Cmd string }

// Route is a canonical path between two blocks.
type Route struct {
	ID         string
	BlockA     string
	BlockB     string
	SideA      string // "+" | "-"
	SideB      string
	SwitchCmds []SwitchCmd
}

// IsAutogen reports whether this route is Analyzer-owned and therefore
// safely replaceable.
func (r *Route) IsAutogen() bool { return isAutogenID(r.ID) }

// SameEndpoints reports whether two routes connect the same block pair
// on the same sides.
func (r *Route) SameEndpoints(o *Route) bool {
	return r.BlockA == o.BlockA && r.BlockB == o.BlockB &&
		r.SideA == o.SideA && r.SideB == o.SideB
}

// ModuleOffset is a modular-layout module's placement offset; all
// modules are forced onto z=0 (spec §4.6).
type ModuleOffset struct {
	Title string
	X, Y  int
}

// Model is the seam between the Analyzer and the external, in-memory
// layout model. Tiles/Blocks/Routes must enumerate in stable insertion
// order — the Analyzer never reorders what it is handed (spec §4.1).
type Model interface {
	Tiles() []*Tile
	Blocks() []*Tile
	Routes() []*Route
	SetRoutes([]*Route)
	ModulePlan() []ModuleOffset // nil when the layout is not modular
	BlockSideRoutingEnabled() bool
}

// Package health is the Track-Plan Analyzer's Health Checker: a single
// pass over the full tile set that reports duplicate addresses,
// missing addresses, coordinate and overlap problems, and the most
// distant tile — without ever aborting the run.
package health

import (
	"fmt"

	"github.com/railtopo/trackplan/internal/diag"
	"github.com/railtopo/trackplan/internal/grid"
	"github.com/railtopo/trackplan/plan"
)

// coordBound is the inclusive upper bound on x/y; -1 is the inclusive
// lower bound (spec §4.5 "outside [-1, 256]").
const coordBound = 256

// Report is the Health Checker's output: whether the plan is clean
// enough to trust, plus every diagnostic recorded along the way.
type Report struct {
	Healthy     bool
	Diagnostics []diag.Diagnostic
	MostDistant *plan.Tile
}

// Check runs the one-pass diagnostic sweep described by spec §4.5. It
// also repairs out-of-bounds coordinates in place (clamped to 0), since
// the reference implementation treats that check as self-healing
// rather than merely advisory.
func Check(model plan.Model, overlaps []grid.Overlap) Report {
	d := &diag.Collector{}

	if !model.BlockSideRoutingEnabled() {
		d.Error("block-side routing must be enabled for the analyzer to run")
	}

	tiles := model.Tiles()
	checkDuplicateIDs(d, tiles)
	checkFeedbackAddresses(d, tiles)
	checkSwitchAddresses(d, tiles)
	checkOutputAndSignalAddresses(d, tiles)
	checkLocoAddresses(d, tiles)
	checkCoordinates(d, tiles)

	for _, o := range overlaps {
		d.Error(fmt.Sprintf("tiles %s and %s overlap at (%d,%d,%d)", o.First.ID, o.Second.ID, o.At.X, o.At.Y, o.At.Z), o.First.ID, o.Second.ID)
	}

	mostDistant := mostDistantTile(tiles)
	if mostDistant != nil {
		d.Info(fmt.Sprintf("most distant tile: %s", mostDistant.ID), mostDistant.ID)
	}

	return Report{Healthy: d.Healthy(), Diagnostics: d.Items(), MostDistant: mostDistant}
}

func checkDuplicateIDs(d *diag.Collector, tiles []*plan.Tile) {
	byKind := make(map[plan.Kind]map[string]int)
	for _, t := range tiles {
		bucket, ok := byKind[t.Kind]
		if !ok {
			bucket = make(map[string]int)
			byKind[t.Kind] = bucket
		}
		bucket[t.ID]++
	}
	for kind, bucket := range byKind {
		for id, count := range bucket {
			if count > 1 {
				d.Error(fmt.Sprintf("duplicate %s id %q (%d occurrences)", kind, id, count), id)
			}
		}
	}
}

func checkFeedbackAddresses(d *diag.Collector, tiles []*plan.Tile) {
	seen := make(map[[3]int]string)
	for _, t := range tiles {
		if t.Kind != plan.KindFeedback {
			continue
		}
		if t.Addr == 0 {
			d.Error("feedback has zero address", t.ID)
			continue
		}
		key := [3]int{t.Bus, t.Addr, iidHash(t.IID)}
		if prior, dup := seen[key]; dup {
			d.Error(fmt.Sprintf("duplicate feedback address bus=%d addr=%d iid=%s shared with %s", t.Bus, t.Addr, t.IID, prior), t.ID, prior)
			continue
		}
		seen[key] = t.ID
	}
}

// analogProtocol is the loco protocol sentinel exempt from the
// zero-address check: an analog loco has no digital address to speak
// of.
const analogProtocol = "A"

func checkLocoAddresses(d *diag.Collector, tiles []*plan.Tile) {
	seen := make(map[[3]int]string)
	for _, t := range tiles {
		if t.Kind != plan.KindLoco {
			continue
		}
		if t.Addr == 0 {
			if t.Protocol != analogProtocol {
				d.Error("loco has zero address", t.ID)
			}
			continue
		}
		key := [3]int{t.Bus, t.Addr, iidHash(t.IID)}
		if prior, dup := seen[key]; dup {
			d.Warning(fmt.Sprintf("duplicate loco address bus=%d addr=%d shared with %s", t.Bus, t.Addr, prior), t.ID, prior)
			continue
		}
		seen[key] = t.ID
	}
}

func checkSwitchAddresses(d *diag.Collector, tiles []*plan.Tile) {
	addr1Seen := make(map[[4]int]string)
	addr2Seen := make(map[[4]int]string)
	for _, t := range tiles {
		if t.Kind != plan.KindSwitch {
			continue
		}
		if t.Addr1 == 0 && t.Port1 == 0 {
			switch t.Subtype {
			case plan.SubCrossing, plan.SubCCrossing:
				d.Info("unaddressed crossing switch", t.ID)
			default:
				d.Error("switch has zero addr1/port1", t.ID)
			}
		} else {
			key := [4]int{t.Addr1, t.Port1, t.Gate1, iidHash(t.IID)}
			if prior, dup := addr1Seen[key]; dup {
				d.Warning(fmt.Sprintf("duplicate switch address1 shared with %s", prior), t.ID, prior)
			} else {
				addr1Seen[key] = t.ID
			}
		}

		if t.Subtype == plan.SubDCrossing || t.Subtype == plan.SubThreeway {
			key := [4]int{t.Addr2, t.Port2, t.Gate2, iidHash(t.IID)}
			if prior, dup := addr2Seen[key]; dup {
				d.Warning(fmt.Sprintf("duplicate switch address2 shared with %s", prior), t.ID, prior)
			} else {
				addr2Seen[key] = t.ID
			}
		}
	}
}

func checkOutputAndSignalAddresses(d *diag.Collector, tiles []*plan.Tile) {
	seen := make(map[[3]int]string)
	for _, t := range tiles {
		switch t.Kind {
		case plan.KindOutput:
			checkAspectAddr(d, t, t.Addr, t.Bus, t.IID, seen)
		case plan.KindSignal:
			aspects := [][3]int{{t.Addr1, t.Port1, t.Gate1}, {t.Addr2, t.Port2, t.Gate2}, {t.Addr3, t.Port3, t.Gate3}, {t.Addr4, t.Port4, t.Gate4}}
			for i, a := range aspects {
				if i >= t.AspectCount {
					break
				}
				key := [3]int{a[0], a[1], iidHash(t.IID)}
				if prior, dup := seen[key]; dup {
					d.Warning(fmt.Sprintf("duplicate signal aspect address shared with %s", prior), t.ID, prior)
				} else {
					seen[key] = t.ID
				}
			}
		}
	}
}

func checkAspectAddr(d *diag.Collector, t *plan.Tile, addr, bus int, iid string, seen map[[3]int]string) {
	key := [3]int{bus, addr, iidHash(iid)}
	if prior, dup := seen[key]; dup {
		d.Warning(fmt.Sprintf("duplicate output address shared with %s", prior), t.ID, prior)
		return
	}
	seen[key] = t.ID
}

func checkCoordinates(d *diag.Collector, tiles []*plan.Tile) {
	seen := make(map[plan.Pos]string)
	for _, t := range tiles {
		if !t.Show {
			continue
		}
		if prior, dup := seen[t.Pos]; dup {
			d.Error(fmt.Sprintf("tile overlaps %s at (%d,%d,%d)", prior, t.Pos.X, t.Pos.Y, t.Pos.Z), t.ID, prior)
		} else {
			seen[t.Pos] = t.ID
		}

		if t.Pos.X < -1 || t.Pos.X > coordBound || t.Pos.Y < -1 || t.Pos.Y > coordBound {
			d.Error(fmt.Sprintf("tile coordinate (%d,%d) out of bounds, clamped", t.Pos.X, t.Pos.Y), t.ID)
			if t.Pos.X < -1 || t.Pos.X > coordBound {
				t.Pos.X = 0
			}
			if t.Pos.Y < -1 || t.Pos.Y > coordBound {
				t.Pos.Y = 0
			}
		}
	}
}

func mostDistantTile(tiles []*plan.Tile) *plan.Tile {
	var best *plan.Tile
	bestSum := -1 << 62
	for _, t := range tiles {
		if !t.Show {
			continue
		}
		if sum := t.Pos.X + t.Pos.Y; sum > bestSum {
			bestSum = sum
			best = t
		}
	}
	return best
}

// iidHash folds the interface-id string into the small integer space
// duplicate-address keys use, since interface ids scope the check but
// aren't addresses themselves.
func iidHash(iid string) int {
	h := 0
	for _, r := range iid {
		h = h*31 + int(r)
	}
	return h
}

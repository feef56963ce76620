// Package tomlcfg loads the trackanalyze driver's configuration off
// disk, reusing the module's TOML engine (package toml) the way the
// rest of the original repo's subsystems — engine/fsm's file loader,
// input's key-binding config, genetic's persistence manager — already
// do for their own settings files.
package tomlcfg

import (
	"fmt"
	"os"

	"github.com/railtopo/trackplan/toml"
)

// Config is the small descriptor cmd/trackanalyze reads before it can
// build a plan.Model: where the layout lives, the module offsets for a
// modular layout, and the default analyzer mode.
type Config struct {
	PlanPath  string   `toml:"plan_path"`
	Mode      string   `toml:"mode"` // "generate" | "clean"
	Debug     bool     `toml:"debug"`
	Modules   []Module `toml:"module"`
}

// Module is one entry of a modular layout's offset table, loaded from
// a TOML `[[module]]` array-of-tables.
type Module struct {
	Title string `toml:"title"`
	X     int    `toml:"x"`
	Y     int    `toml:"y"`
}

// Load reads and decodes a trackanalyze config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	analyzer "github.com/railtopo/trackplan"
	"github.com/railtopo/trackplan/internal/tomlcfg"
	"github.com/railtopo/trackplan/plan"
)

const (
	logDir      = "logs"
	logFileName = "trackanalyze.log"
	maxLogSize  = 10 * 1024 * 1024 // 10MB
)

// setupLogging configures log output based on the debug flag. If debug
// is false, logging is disabled entirely; otherwise it rotates into a
// capped file under logDir.
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create logs directory: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)

	if info, err := os.Stat(logPath); err == nil {
		if info.Size() > maxLogSize {
			timestamp := time.Now().Format("2006-01-02-15-04-05")
			rotatedName := filepath.Join(logDir, fmt.Sprintf("trackanalyze-%s.log", timestamp))
			if err := os.Rename(logPath, rotatedName); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to rotate log file: %v\n", err)
			}
		}
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to open log file: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Printf("=== trackanalyze started ===")

	return logFile
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging to file")
	configPath := flag.String("config", "", "Path to a trackanalyze TOML config file (optional)")
	clean := flag.Bool("clean", false, "Run in clean mode: strip autogen routes instead of generating them")
	flag.Parse()

	logFile := setupLogging(*debug)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg := &tomlcfg.Config{Mode: "generate"}
	if *configPath != "" {
		loaded, err := tomlcfg.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "trackanalyze: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	mode := analyzer.ModeGenerate
	if *clean || cfg.Mode == "clean" {
		mode = analyzer.ModeClean
	}

	model := loadModel(cfg)

	log.Printf("analyzing %d tiles (mode=%v)", len(model.Tiles()), mode)
	report := analyzer.Analyze(model, mode)

	for _, d := range report.Diagnostics {
		log.Printf("[%s] %s %v", d.Severity, d.Message, d.TileIDs)
	}
	if report.MostDistant != nil {
		fmt.Printf("most distant tile: %s\n", report.MostDistant.ID)
	}
	fmt.Printf("healthy=%v routes=%d diagnostics=%d\n", report.Healthy, len(report.Routes), len(report.Diagnostics))

	if !report.Healthy {
		os.Exit(1)
	}
}

// loadModel builds the in-memory Model the driver runs against.
// Serializing a plan to/from disk is out of scope for the Analyzer
// (spec §1 "Out of scope") — production callers own their layout
// store and hand it to analyzer.Analyze through plan.Model directly;
// this loader exists only so the CLI has something to run against.
func loadModel(cfg *tomlcfg.Config) *plan.MapModel {
	var modplan []plan.ModuleOffset
	for _, m := range cfg.Modules {
		modplan = append(modplan, plan.ModuleOffset{Title: m.Title, X: m.X, Y: m.Y})
	}
	model := plan.NewMapModel(nil, true)
	model.SetModulePlan(modplan)
	return model
}

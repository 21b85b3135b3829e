package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lawnchairsociety/towerforge/internal/archive"
	"github.com/lawnchairsociety/towerforge/internal/config"
	"github.com/lawnchairsociety/towerforge/internal/floorgen"
	"github.com/lawnchairsociety/towerforge/internal/logger"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

func main() {
	configFile := flag.String("config", "data/floorgen.yaml", "Path to generation config YAML file")
	catalogFile := flag.String("catalog", "", "Path to template catalog (overrides config)")
	seed := flag.Int64("seed", 0, "Generation seed (overrides config; 0 keeps config seed)")
	floors := flag.Int("floors", 1, "Number of floors to generate")
	firstFloor := flag.Int("first", 1, "Number of the first floor")
	outputDir := flag.String("out", "out", "Directory for floor YAML files")
	retries := flag.Int("retries", 0, "Extra attempts with bumped seeds when placement fails")
	archiveDriver := flag.String("archive-driver", "", "Archive floors: \"sqlite\" or \"postgres\" (empty disables)")
	archivePath := flag.String("archive-path", "data/towerforge.db", "SQLite archive file path")
	archiveDSN := flag.String("archive-dsn", "", "PostgreSQL archive connection string")
	logLevel := flag.String("log-level", "INFO", "Log level: DEBUG, INFO, WARNING, ERROR")
	flag.Parse()

	logCfg := logger.DefaultConfig()
	logCfg.Level = *logLevel
	logger.Initialize(logCfg)

	file, err := config.Load(*configFile)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	cfg := &file.Generation
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *catalogFile != "" {
		cfg.TemplateCatalog = *catalogFile
	}
	if cfg.TemplateCatalog == "" {
		cfg.TemplateCatalog = "data/templates.yaml"
	}

	catalog, err := world.LoadCatalog(cfg.TemplateCatalog)
	if err != nil {
		fatal("Failed to load template catalog: %v", err)
	}
	logger.Info("Template catalog loaded", "path", cfg.TemplateCatalog, "templates", catalog.Len())

	gen, err := floorgen.New(cfg, catalog)
	if err != nil {
		fatal("Invalid configuration: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fatal("Failed to create output directory: %v", err)
	}

	var store *archive.Archive
	var run *archive.Run
	if *archiveDriver != "" {
		store, err = archive.Open(archive.Config{
			Driver:      *archiveDriver,
			SQLitePath:  *archivePath,
			PostgresDSN: *archiveDSN,
		})
		if err != nil {
			fatal("Failed to open archive: %v", err)
		}
		defer store.Close()

		run, err = store.BeginRun(cfg.Seed, cfg.Algorithm, cfg.RoomCount)
		if err != nil {
			fatal("Failed to record archive run: %v", err)
		}
		logger.Info("Archive run started", "run_id", run.ID, "driver", *archiveDriver)
	}

	start := time.Now()
	for i := 0; i < *floors; i++ {
		number := *firstFloor + i
		floor, err := generateWithRetries(gen, cfg, catalog, number, *retries)
		if err != nil {
			fatal("Floor %d generation failed: %v", number, err)
		}

		filename := filepath.Join(*outputDir, fmt.Sprintf("floor_%03d.yaml", number))
		if err := floorgen.SaveFloor(floor, filename); err != nil {
			fatal("Failed to save floor %d: %v", number, err)
		}

		if store != nil {
			if err := store.SaveFloor(run.ID, floor); err != nil {
				fatal("Failed to archive floor %d: %v", number, err)
			}
		}

		logger.Info("Floor generated",
			"floor", number,
			"seed", floor.Seed,
			"rooms", len(floor.Rooms),
			"corridors", len(floor.Corridors),
			"file", filename)
	}
	logger.Info("Generation complete", "floors", *floors, "elapsed", time.Since(start))
}

// generateWithRetries retries failed floors with bumped seeds. Retrying
// is caller policy, never something the generator does on its own.
func generateWithRetries(gen *floorgen.Generator, cfg *config.GenerationConfig, catalog *world.Catalog, number, retries int) (*world.Floor, error) {
	floor, err := gen.Generate(number)
	for attempt := 1; err != nil && attempt <= retries; attempt++ {
		logger.Warning("Retrying floor with bumped seed", "floor", number, "attempt", attempt, "error", err)
		bumped := *cfg
		bumped.Seed = cfg.Seed + int64(attempt)*7919
		retryGen, genErr := floorgen.New(&bumped, catalog)
		if genErr != nil {
			return nil, genErr
		}
		floor, err = retryGen.Generate(number)
	}
	return floor, err
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

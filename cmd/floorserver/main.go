package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/towerforge/internal/config"
	"github.com/lawnchairsociety/towerforge/internal/floorgen"
	"github.com/lawnchairsociety/towerforge/internal/logger"
	"github.com/lawnchairsociety/towerforge/internal/preview"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

func main() {
	configFile := flag.String("config", "data/floorgen.yaml", "Path to config YAML file")
	listenAddr := flag.String("listen", "", "Listen address (overrides config)")
	seed := flag.Int64("seed", 0, "Generation seed (overrides config; 0 keeps config seed)")
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
	if cfg.TemplateCatalog == "" {
		cfg.TemplateCatalog = "data/templates.yaml"
	}
	if *listenAddr != "" {
		file.Preview.ListenAddr = *listenAddr
	}

	catalog, err := world.LoadCatalog(cfg.TemplateCatalog)
	if err != nil {
		fatal("Failed to load template catalog: %v", err)
	}

	gen, err := floorgen.New(cfg, catalog)
	if err != nil {
		fatal("Invalid configuration: %v", err)
	}

	if len(file.Preview.AllowedOrigins) == 0 {
		logger.Info("Preview CORS policy", "mode", "same-origin")
	} else if len(file.Preview.AllowedOrigins) == 1 && file.Preview.AllowedOrigins[0] == "*" {
		logger.Warning("Preview CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("Preview CORS policy", "allowed_origins", file.Preview.AllowedOrigins)
	}

	srv := preview.NewServer(&file.Preview, gen)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Preview server error: %v", err)
		}
	}()

	logger.Info("Floor server running", "addr", file.Preview.ListenAddr, "seed", cfg.Seed)
	logger.Info("Press Ctrl+C to shutdown")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Floor server stopped")
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// Command brakesim-server serves the simulation API: run execution, run
// history, controller configuration, and debug charts.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/veloforge/brakesim/internal/api"
	"github.com/veloforge/brakesim/internal/config"
	"github.com/veloforge/brakesim/internal/db"
	"github.com/veloforge/brakesim/internal/fuzzy"
	"github.com/veloforge/brakesim/internal/units"
)

var (
	listen     = flag.String("listen", ":8080", "Listen address")
	dbPath     = flag.String("db", "runs.db", "SQLite run database path")
	migrateDir = flag.String("migrations", "", "apply migrations from this directory on startup")
	configPath = flag.String("config", "", "JSON tuning config with an optional controller section")
	unitsFlag  = flag.String("units", units.MPS, "display units for speeds: "+units.GetValidUnitsString())
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()
	if *migrateDir != "" {
		if err := database.MigrateUp(*migrateDir); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	engine := fuzzy.NewEngine(nil)
	if *configPath != "" {
		cfg, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if cfg.Controller != nil {
			if err := engine.SetConfig(cfg.Controller); err != nil {
				log.Fatalf("Invalid controller config: %v", err)
			}
		}
		engine.SetResolution(cfg.GetResolution())
	}

	server := &http.Server{
		Addr:    *listen,
		Handler: api.NewServer(database, engine, *unitsFlag).Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Print("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// Command brakesim runs one headless braking simulation and reports how
// it ended. Samples can be exported to CSV, plotted to PNG, and persisted
// to a SQLite run database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/veloforge/brakesim/internal/config"
	"github.com/veloforge/brakesim/internal/db"
	"github.com/veloforge/brakesim/internal/fuzzy"
	"github.com/veloforge/brakesim/internal/recorder"
	"github.com/veloforge/brakesim/internal/report"
	"github.com/veloforge/brakesim/internal/session"
	"github.com/veloforge/brakesim/internal/units"
)

var (
	configPath = flag.String("config", "", "JSON tuning config; flags override file values")
	mass       = flag.Float64("mass", 70, "body mass, kg")
	mu         = flag.Float64("mu", 0.4, "friction coefficient under full brake")
	thetaDeg   = flag.Float64("incline", 0, "incline angle, degrees (positive tips toward the obstacle)")
	crr        = flag.Float64("crr", 0.01, "rolling-resistance coefficient")
	obstacle   = flag.Float64("obstacle", 20, "obstacle position, m")
	speed0     = flag.Float64("speed", 6, "initial speed, m/s")
	eject      = flag.Float64("eject", 60, "ejection deceleration threshold, m/s²")
	dt         = flag.Float64("dt", 0.01, "fixed physics timestep, s")
	timeScale  = flag.Float64("timescale", 1, "simulation time-scale multiplier")
	maxSimTime = flag.Duration("max-sim-time", 10*time.Minute, "abort wall-clock bound for the run")
	csvPath    = flag.String("csv", "", "write per-step samples to this CSV file")
	plotPath   = flag.String("plot", "", "write a speed/position/brake PNG plot to this file")
	dbPath     = flag.String("db", "", "persist the run to this SQLite database")
	migrateDir = flag.String("migrations", "", "apply migrations from this directory before recording")
	unitsFlag  = flag.String("units", units.MPS, "display units for speeds: "+units.GetValidUnitsString())
)

func main() {
	flag.Parse()

	params := session.DefaultParams()
	var tuning *config.TuningConfig
	if *configPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		params = tuning.Params()
	}
	overrideFromFlags(&params)

	if err := params.Validate(); err != nil {
		log.Fatalf("invalid parameters: %v", err)
	}
	if !units.IsValid(*unitsFlag) {
		log.Fatalf("invalid units %q; valid values: %s", *unitsFlag, units.GetValidUnitsString())
	}

	engine := fuzzy.NewEngine(nil)
	if tuning != nil {
		if tuning.Controller != nil {
			if err := engine.SetConfig(tuning.Controller); err != nil {
				log.Fatalf("invalid controller config: %v", err)
			}
		}
		engine.SetResolution(tuning.GetResolution())
	}

	sess := session.New(engine, nil)
	sess.Reset(params)

	ctx, cancel := context.WithTimeout(context.Background(), *maxSimTime)
	defer cancel()

	res, err := sess.Run(ctx, 16*time.Millisecond)
	if err != nil {
		log.Fatalf("run aborted: %v", err)
	}

	printResult(res)

	samples := sess.Samples()
	if *csvPath != "" {
		if err := writeCSVFile(*csvPath, samples); err != nil {
			log.Fatalf("writing CSV: %v", err)
		}
		fmt.Printf("samples written to %s\n", *csvPath)
	}
	if *plotPath != "" {
		title := fmt.Sprintf("run %s (%s)", res.RunID, res.Stop.Reason)
		if err := report.WritePNG(*plotPath, title, samples); err != nil {
			log.Fatalf("writing plot: %v", err)
		}
		fmt.Printf("plot written to %s\n", *plotPath)
	}
	if *dbPath != "" {
		database, err := db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("opening database: %v", err)
		}
		defer database.Close()
		if *migrateDir != "" {
			if err := database.MigrateUp(*migrateDir); err != nil {
				log.Fatalf("applying migrations: %v", err)
			}
		}
		if err := database.RecordRun(*res, samples); err != nil {
			log.Fatalf("recording run: %v", err)
		}
		fmt.Printf("run %s recorded in %s\n", res.RunID, *dbPath)
	}
}

// overrideFromFlags applies explicitly-set flags on top of file config.
func overrideFromFlags(p *session.Params) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	apply := func(name string, dst *float64, src float64) {
		if set[name] {
			*dst = src
		}
	}
	apply("mass", &p.Mass, *mass)
	apply("mu", &p.Mu, *mu)
	apply("crr", &p.Crr, *crr)
	apply("obstacle", &p.Obstacle, *obstacle)
	apply("speed", &p.InitialSpeed, *speed0)
	apply("eject", &p.EjectThreshold, *eject)
	apply("dt", &p.DT, *dt)
	apply("timescale", &p.TimeScale, *timeScale)
	if set["incline"] {
		p.Theta = *thetaDeg * math.Pi / 180
	}
}

func printResult(res *session.Result) {
	fmt.Printf("run %s: %s\n", res.RunID, res.Stop.Reason)
	if res.Stop.Eject != nil {
		fmt.Printf("  deceleration %.2f m/s² exceeded threshold %.2f m/s²\n",
			res.Stop.Eject.Decel, res.Stop.Eject.Threshold)
	}
	s := res.Summary
	fmt.Printf("  duration %.2fs  travel %.2fm  steps %d\n", s.Duration, s.Travel, s.Steps)
	fmt.Printf("  max speed %s  p50 %s  p85 %s  p95 %s\n",
		units.FormatSpeed(s.MaxSpeedMps, *unitsFlag),
		units.FormatSpeed(s.P50SpeedMps, *unitsFlag),
		units.FormatSpeed(s.P85SpeedMps, *unitsFlag),
		units.FormatSpeed(s.P95SpeedMps, *unitsFlag))
	fmt.Printf("  max decel %.2f m/s²  max brake %.2f\n", s.MaxDecel, s.MaxBrake)
}

func writeCSVFile(path string, samples []recorder.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return recorder.WriteCSV(f, samples)
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/guptarohit/asciigraph"
	"github.com/oswystk15662/ductprop"
)

// This binary runs the random design search over the scenario's search
// space and reports the best rotor found, streaming every evaluated
// candidate to a CSV file.

const defaultScenario = "~~unset~~"

var (
	scenario string
	numCPUs  int
	noExport bool
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "designer scenario TOML file")
	flag.IntVar(&numCPUs, "cpus", -1, "number of CPUs to use (set to 0 for max CPUs)")
	flag.BoolVar(&noExport, "noexport", false, "skip the candidate CSV export")
	flag.BoolVar(&verbose, "verbose", false, "log every improvement rather than a summary")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	conf, err := ductprop.LoadScenario(scenario)
	if err != nil {
		log.Fatalf("%s", err)
	}
	if conf.Trials <= 0 {
		log.Fatal("scenario sets no search.trials")
	}
	availableCPUs := runtime.NumCPU()
	if numCPUs <= 0 || numCPUs > availableCPUs {
		numCPUs = availableCPUs
	}
	runtime.GOMAXPROCS(numCPUs)
	log.Printf("[info] running on %d CPUs\n", numCPUs)

	table, err := ductprop.LoadAirfoilTable(conf.Grid, conf.DatabaseDir)
	if err != nil {
		log.Fatalf("airfoil database: %s", err)
	}
	log.Printf("[info] database: %d airfoils from %s\n", len(table.Airfoils()), conf.DatabaseDir)
	log.Printf("[info] %d trials, seed %d, power limit %.2f W, thrust floor %.3f N\n",
		conf.Trials, conf.Seed, conf.Constraints.PowerLimit, conf.Constraints.ThrustFloor)

	var logger kitlog.Logger
	if verbose {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
		logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	}

	var streamWG sync.WaitGroup
	var candChan chan ductprop.Candidate
	if !noExport {
		candChan = make(chan ductprop.Candidate, conf.Trials)
		exportConf := ductprop.ExportConfig{
			Filename:  filepath.Base(scenario),
			OutputDir: conf.OutputDir,
			AsCSV:     true,
			Timestamp: true,
		}
		if err := os.MkdirAll(conf.OutputDir, 0o755); err != nil {
			log.Fatalf("%s", err)
		}
		streamWG.Add(1)
		go func() {
			defer streamWG.Done()
			ductprop.StreamCandidates(exportConf, candChan)
		}()
	}

	designer := ductprop.Designer{
		Space:       conf.Space,
		Constraints: conf.Constraints,
		Condition:   conf.Condition,
		Solver:      ductprop.NewBEMTSolver(table),
		Trials:      conf.Trials,
		Workers:     numCPUs,
		Logger:      logger,
		Stream:      candChan,
	}

	start := time.Now()
	best, found := designer.Run(conf.Seed)
	if candChan != nil {
		close(candChan)
		streamWG.Wait()
	}
	log.Printf("[info] search done in %s\n", time.Since(start))
	if !found {
		log.Fatal("no feasible design found, relax the constraints or add trials")
	}

	fmt.Printf("\n=== BEST DESIGN (trial %d, score %.4f) ===\n", best.Trial, best.Score)
	fmt.Printf("%s\n", best.Geometry)
	fmt.Printf("%s\n\n", best.Result)

	sections := ductprop.BladeSections(best.Geometry, 24)
	pitch := make([]float64, len(sections))
	chord := make([]float64, len(sections))
	for i, sec := range sections {
		pitch[i] = sec.PitchDeg
		chord[i] = sec.ChordMM
	}
	fmt.Println("Pitch (deg) over radius:")
	fmt.Println(asciigraph.Plot(pitch, asciigraph.Height(10), asciigraph.Width(60)))
	fmt.Println("\nChord (mm) over radius:")
	fmt.Println(asciigraph.Plot(chord, asciigraph.Height(10), asciigraph.Width(60)))

	plotPath := filepath.Join(conf.OutputDir, "best-blade.png")
	if err := ductprop.ExportBladePlot(best.Geometry, 48, plotPath); err != nil {
		log.Printf("[warning] blade plot: %s", err)
	} else {
		log.Printf("[info] blade plot written to %s\n", plotPath)
	}

	if conf.DatDir != "" {
		curveDir := filepath.Join(conf.OutputDir, "curves")
		sections, err := ductprop.WriteSectionCurves(curveDir, conf.DatDir, best.Geometry, 11)
		if err != nil {
			log.Printf("[warning] section curves: %s", err)
		} else {
			log.Printf("[info] %d section curves written to %s\n", len(sections), curveDir)
		}
	}
}

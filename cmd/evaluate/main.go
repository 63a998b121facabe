package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/oswystk15662/ductprop"
	"gonum.org/v1/gonum/floats"
)

// This binary evaluates one fixed rotor at the scenario's operating
// condition, optionally sweeping RPM and exporting CAD section curves.

const defaultScenario = "~~unset~~"

var (
	scenario string
	sweep    bool
	cad      bool
	stations int
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "evaluation scenario TOML file")
	flag.BoolVar(&sweep, "sweep", false, "render a thrust/power RPM sweep plot")
	flag.BoolVar(&cad, "cad", false, "export 3D blade section curves")
	flag.IntVar(&stations, "stations", 11, "radial stations for the CAD export")
	flag.BoolVar(&verbose, "verbose", false, "print the per element loads")
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
	if conf.Geometry == nil {
		log.Fatal("scenario has no [rotor] section")
	}
	table, err := ductprop.LoadAirfoilTable(conf.Grid, conf.DatabaseDir)
	if err != nil {
		log.Fatalf("airfoil database: %s", err)
	}
	log.Printf("[info] database: %d airfoils from %s\n", len(table.Airfoils()), conf.DatabaseDir)
	log.Printf("[info] rotor: %s\n", conf.Geometry)

	solver := ductprop.NewBEMTSolver(table)
	loads := solver.ElementLoads(conf.Geometry, conf.Condition)
	res := solver.Aggregate(conf.Geometry, conf.Condition, loads)
	log.Printf("[info] %s\n", res)

	if verbose {
		fmt.Println("  i |  r (m)  | airfoil  |   vi (m/s) |  a'     | converged |   dT (N)  | dQ (N m)")
		for i, load := range loads {
			fmt.Printf(" %2d | %.4f | %-8s | %10.4f | %7.4f | %9v | %9.5f | %8.6f\n",
				i, load.Radius, load.Airfoil, load.InducedVelocity, load.SwirlFactor, load.Converged, load.DT, load.DQ)
		}
	}

	if sweep {
		rpms := make([]float64, 16)
		floats.Span(rpms, conf.Condition.RPM*0.25, conf.Condition.RPM*1.5)
		thrust, power := ductprop.RPMSweep(solver, conf.Geometry, conf.Condition, rpms)
		path := filepath.Join(conf.OutputDir, "sweep.png")
		if err := ductprop.ExportSweepPlot(rpms, thrust, power, "RPM sweep", path); err != nil {
			log.Fatalf("sweep plot: %s", err)
		}
		log.Printf("[info] sweep plot written to %s\n", path)
	}

	if cad {
		if conf.DatDir == "" {
			log.Fatal("CAD export needs airfoils.dat_dir in the scenario")
		}
		outDir := filepath.Join(conf.OutputDir, "curves")
		sections, err := ductprop.WriteSectionCurves(outDir, conf.DatDir, conf.Geometry, stations)
		if err != nil {
			log.Fatalf("section curves: %s", err)
		}
		written := 0
		for _, sec := range sections {
			if sec.File != "" {
				written++
			}
		}
		log.Printf("[info] %d of %d section curves written to %s\n", written, len(sections), outDir)
	}
}

package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/oswystk15662/ductprop"
)

// This binary builds the airfoil polar database by driving XFOIL over every
// airfoil and Reynolds number listed in the scenario.

const defaultScenario = "~~unset~~"

var (
	scenario string
	timeout  time.Duration
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "polar generation scenario TOML file")
	flag.DurationVar(&timeout, "timeout", time.Minute, "timeout per XFOIL batch run")
	flag.BoolVar(&verbose, "verbose", false, "print each run before it starts")
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
	if len(conf.Airfoils) == 0 {
		log.Fatal("scenario lists no airfoils under airfoils.names")
	}
	if len(conf.ReynoldsNs) == 0 {
		log.Fatal("scenario lists no Reynolds numbers under airfoils.reynolds")
	}
	if conf.DatabaseDir == "" {
		log.Fatal("scenario sets no airfoils.database output directory")
	}

	runner := ductprop.XFOILRunner{Path: conf.XFOILPath, Timeout: timeout}
	log.Printf("[info] xfoil binary: %s\n", conf.XFOILPath)
	log.Printf("[info] %d airfoils x %d Reynolds numbers, sweep %g..%g step %g\n",
		len(conf.Airfoils), len(conf.ReynoldsNs), conf.Grid.Min, conf.Grid.Max, conf.Grid.Step)
	log.Printf("[info] airfoils: %s\n", strings.Join(conf.Airfoils, ", "))

	start := time.Now()
	if verbose {
		// Run one pair at a time so each run can be announced.
		ctx := context.Background()
		failed := 0
		for _, name := range conf.Airfoils {
			for _, re := range conf.ReynoldsNs {
				log.Printf("[info] running %s at Re %.0f\n", name, re)
				if err := runner.GenerateDatabase(ctx, []string{name}, []float64{re}, conf.DatDir, conf.DatabaseDir, conf.Grid); err != nil {
					log.Printf("[warning] %s", err)
					failed++
				}
			}
		}
		if failed > 0 {
			log.Fatalf("%d runs failed", failed)
		}
	} else if err := runner.GenerateDatabase(context.Background(), conf.Airfoils, conf.ReynoldsNs, conf.DatDir, conf.DatabaseDir, conf.Grid); err != nil {
		log.Fatalf("%s", err)
	}
	log.Printf("[info] database written to %s in %s\n", conf.DatabaseDir, time.Since(start))
}

package ductprop

import (
	"math/rand"
	"runtime"
	"sync"

	kitlog "github.com/go-kit/kit/log"
)

// SearchSpace bounds the random design-space exploration. The tip radius is
// fixed by the vehicle; everything else is sampled.
type SearchSpace struct {
	TipRadius            float64 // m
	BladesMin, BladesMax int
	HubMin, HubMax       float64 // m
	DuctLengthMax        float64 // m, zero disables ducted candidates
	DuctLipMax           float64 // m
	ChordMin, ChordMax   float64 // control point bounds, m
	PitchMin, PitchMax   float64 // control point bounds, deg
	ControlPoints        int     // per Bézier distribution, defaulted to 5
	Airfoils             []string
	Elements             int // blade elements per candidate, defaulted
}

func (s SearchSpace) controlPoints() int {
	if s.ControlPoints > 1 {
		return s.ControlPoints
	}
	return 5
}

func (s SearchSpace) elements() int {
	if s.Elements > 0 {
		return s.Elements
	}
	return defaultElements
}

// airfoilSpanFractions are the span stations airfoils are assigned at.
var airfoilSpanFractions = []float64{0, 0.5, 1}

// Candidate is one explored design and its evaluation.
type Candidate struct {
	Trial    int
	Geometry *RotorGeometry
	Result   PerformanceResult
	Score    float64
}

// Designer runs the design-space search: it proposes random geometries inside
// the space, evaluates each with the shared solver and ranks them by the
// constraint objective. Candidates are solved concurrently; the airfoil table
// behind the solver is only ever read.
type Designer struct {
	Space       SearchSpace
	Constraints DesignConstraints
	Condition   OperatingCondition
	Solver      *BEMTSolver
	Trials      int
	Workers     int            // defaulted to the CPU count
	Logger      kitlog.Logger  // defaulted to a nop logger
	Stream      chan<- Candidate // optional, receives every evaluated candidate
}

// randomGeometry draws one design from the space. Drawing happens on the
// caller's goroutine so a fixed seed reproduces the exact candidate sequence.
func (d *Designer) randomGeometry(rng *rand.Rand) (*RotorGeometry, error) {
	sp := d.Space
	blades := sp.BladesMin
	if sp.BladesMax > sp.BladesMin {
		blades += rng.Intn(sp.BladesMax - sp.BladesMin + 1)
	}
	hub := sp.HubMin + rng.Float64()*(sp.HubMax-sp.HubMin)
	var ductLen, ductLip float64
	if sp.DuctLengthMax > 0 {
		ductLen = rng.Float64() * sp.DuctLengthMax
		if ductLen < 1e-6 {
			ductLen = 0
		} else {
			lipMax := sp.DuctLipMax
			if ductLen < lipMax {
				lipMax = ductLen
			}
			ductLip = rng.Float64() * lipMax
		}
	}
	nCtrl := sp.controlPoints()
	chordCtrl := make([]float64, nCtrl)
	pitchCtrl := make([]float64, nCtrl)
	for i := 0; i < nCtrl; i++ {
		chordCtrl[i] = sp.ChordMin + rng.Float64()*(sp.ChordMax-sp.ChordMin)
		pitchCtrl[i] = sp.PitchMin + rng.Float64()*(sp.PitchMax-sp.PitchMin)
	}
	n := sp.elements()
	radii := linspace(hub, sp.TipRadius, n)
	pitch := BezierDistribution(pitchCtrl, n)
	chords := BezierDistribution(chordCtrl, n)
	span := sp.TipRadius - hub
	afRadii := make([]float64, len(airfoilSpanFractions))
	afNames := make([]string, len(airfoilSpanFractions))
	for i, frac := range airfoilSpanFractions {
		afRadii[i] = hub + frac*span
		afNames[i] = sp.Airfoils[rng.Intn(len(sp.Airfoils))]
	}
	return NewRotorGeometry(hub, sp.TipRadius, blades, ductLen, ductLip, radii, pitch, chords, afRadii, afNames)
}

// Run explores the space with the given seed and returns the best candidate.
// found is false only when no candidate could be evaluated at all.
func (d *Designer) Run(seed int64) (best Candidate, found bool) {
	logger := d.Logger
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	rng := rand.New(rand.NewSource(seed))
	cpuChan := make(chan bool, workers)
	rsltChan := make(chan Candidate, 10) // buffered to not lose any result
	done := make(chan bool)
	var wg sync.WaitGroup
	go func() {
		for cand := range rsltChan {
			if d.Stream != nil {
				d.Stream <- cand
			}
			if !found || cand.Score > best.Score {
				best = cand
				found = true
				logger.Log("trial", cand.Trial, "score", cand.Score,
					"thrust", cand.Result.TotalThrust, "power", cand.Result.Power)
			}
		}
		done <- true
	}()
	for trial := 0; trial < d.Trials; trial++ {
		geom, err := d.randomGeometry(rng)
		if err != nil {
			logger.Log("trial", trial, "err", err)
			continue
		}
		if !d.Constraints.Buildable(geom, d.Space.elements()) {
			rsltChan <- Candidate{Trial: trial, Geometry: geom, Score: infeasiblePenalty}
			continue
		}
		cpuChan <- true
		wg.Add(1)
		go func(trial int, geom *RotorGeometry) {
			defer wg.Done()
			res := d.Solver.Solve(geom, d.Condition)
			rsltChan <- Candidate{
				Trial:    trial,
				Geometry: geom,
				Result:   res,
				Score:    d.Constraints.Objective(res),
			}
			<-cpuChan
		}(trial, geom)
	}
	wg.Wait()
	close(rsltChan)
	<-done
	logger.Log("done", d.Trials, "best", best.Score, "acceptable", d.Constraints.Meets(best.Score))
	return best, found
}

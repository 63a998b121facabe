package ductprop

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	defaultElements        = 20
	defaultMaxIterations   = 100
	defaultTolerance       = 1e-5
	defaultInductionSwitch = 0.35

	// Fixed initial guess of the equilibrium search.
	initialInducedVelocity = 5.0 // m/s
	initialSwirlFactor     = 0.01

	// Below this squared relative velocity a trial state is invalid and the
	// residual is short-circuited instead of dividing by near-zero.
	minRelVelSq = 1e-4

	// Freestream velocities below this count as hover.
	hoverVelocity = 0.1 // m/s
)

// OperatingCondition is the flight condition one solve is evaluated at.
type OperatingCondition struct {
	Velocity  float64 // freestream, m/s
	RPM       float64
	Density   float64 // kg/m³
	Viscosity float64 // kinematic, m²/s
	Elements  int     // blade elements, defaulted when zero
}

// AngularSpeed returns the rotational speed in rad/s.
func (c OperatingCondition) AngularSpeed() float64 {
	return c.RPM * 2 * math.Pi / 60
}

// PerformanceResult aggregates the rotor system performance of one solve.
type PerformanceResult struct {
	TotalThrust float64 // N
	FanThrust   float64 // N, blade generated
	DuctThrust  float64 // N, duct lip contribution
	Torque      float64 // N·m
	Power       float64 // W
	// Efficiency is propulsive efficiency T·V/P, zero at hover.
	Efficiency float64
	// FigureOfMerit is the hover metric T^1.5/(√(2ρA)·P), zero in forward
	// flight.
	FigureOfMerit float64
}

func (r PerformanceResult) String() string {
	return fmt.Sprintf("T=%.3f N (fan %.3f, duct %.3f), Q=%.4f N·m, P=%.2f W, η=%.3f, FoM=%.3f",
		r.TotalThrust, r.FanThrust, r.DuctThrust, r.Torque, r.Power, r.Efficiency, r.FigureOfMerit)
}

// ElementLoad is the converged state and integrated loading of one blade
// element.
type ElementLoad struct {
	Radius  float64 // element center, m
	Span    float64 // radial extent, m
	Airfoil string
	// InducedVelocity (m/s) and SwirlFactor are the equilibrium state, both
	// zero when the search did not converge.
	InducedVelocity float64
	SwirlFactor     float64
	Converged       bool
	DT              float64 // thrust integrated over the span, N
	DQ              float64 // torque integrated over the span, N·m
}

// BEMTSolver finds the blade-element/momentum equilibrium of a rotor. The
// zero values of the tuning fields select the defaults, so
// NewBEMTSolver(table) is ready to use. A solver is stateless between calls
// and safe for concurrent use; the table is only ever read.
type BEMTSolver struct {
	Table *AirfoilTable
	// InductionSwitch is the induced-to-freestream velocity ratio beyond
	// which the hover momentum relation replaces the forward flight one. An
	// empirical tuning constant, not a physical law.
	InductionSwitch float64
	MaxIterations   int
	Tolerance       float64
}

// NewBEMTSolver returns a solver with default tuning over the given table.
func NewBEMTSolver(table *AirfoilTable) *BEMTSolver {
	return &BEMTSolver{Table: table}
}

func (sv *BEMTSolver) maxIterations() int {
	if sv.MaxIterations > 0 {
		return sv.MaxIterations
	}
	return defaultMaxIterations
}

func (sv *BEMTSolver) tolerance() float64 {
	if sv.Tolerance > 0 {
		return sv.Tolerance
	}
	return defaultTolerance
}

func (sv *BEMTSolver) inductionSwitch() float64 {
	if sv.InductionSwitch > 0 {
		return sv.InductionSwitch
	}
	return defaultInductionSwitch
}

// elementSystem is the pure residual system of one blade element, explicitly
// parameterized by its geometry, duct fraction and table access so the
// equilibrium search has no hidden captured state.
type elementSystem struct {
	r, chord, pitch float64 // pitch in radians
	airfoil         string
	numBlades       int
	hubRadius       float64
	tipRadius       float64
	fanFraction     float64
	vInf, ω, ρ, ν   float64
	inductionSwitch float64
	table           *AirfoilTable
}

// bladeLoads evaluates the blade force slopes (per unit span) at a trial
// induced state. ok is false when the relative velocity is too small to
// define forces.
func (s elementSystem) bladeLoads(vi, aPrime float64) (dTdr, dQdr, φ float64, ok bool) {
	vAxial := s.vInf + vi
	vTan := s.ω * s.r * (1 - aPrime)
	φ = math.Atan2(vAxial, vTan)
	W2 := vAxial*vAxial + vTan*vTan
	if W2 < minRelVelSq {
		return 0, 0, φ, false
	}
	αDeg := (s.pitch - φ) / deg2rad
	reynolds := math.Sqrt(W2) * s.chord / s.ν
	cl, cd, _, _ := s.table.Performance(s.airfoil, reynolds, αDeg)
	sinφ, cosφ := math.Sincos(φ)
	cx := cl*cosφ - cd*sinφ
	cy := cl*sinφ + cd*cosφ
	common := 0.5 * s.ρ * W2 * float64(s.numBlades) * s.chord
	return common * cx, common * cy * s.r, φ, true
}

// residuals returns the blade-minus-momentum force imbalance in the thrust
// and torque directions at a trial state. An invalid trial returns a fixed
// non-zero pair so the search moves away from it.
func (s elementSystem) residuals(vi, aPrime float64) (resT, resQ float64) {
	dTdr, dQdr, φ, ok := s.bladeLoads(vi, aPrime)
	if !ok {
		return 1, 1
	}
	F := CombinedLoss(s.numBlades, s.r, s.hubRadius, s.tipRadius, φ)
	vAxial := s.vInf + vi
	hover := s.vInf < hoverVelocity
	induction := 100.0
	if !hover {
		induction = vi / s.vInf
	}
	var dTmom float64
	if hover && induction > s.inductionSwitch {
		// The plain momentum relation is singular at high induction ratios.
		dTmom = 4 * math.Pi * s.r * s.ρ * vi * vi * F
	} else {
		dTmom = 4 * math.Pi * s.r * s.ρ * vAxial * vi * F
	}
	dTmom *= s.fanFraction
	vt := aPrime * s.ω * s.r
	dQmom := 4 * math.Pi * s.r * s.r * s.ρ * vAxial * vt * F
	return dTdr - dTmom, dQdr - dQmom
}

// solveElement drives both residuals to zero with a damped Newton iteration
// over a finite-difference Jacobian, from the fixed initial guess. The
// iteration cap is a hard convergence criterion, not a best-effort hint.
func (sv *BEMTSolver) solveElement(sys elementSystem) (vi, aPrime float64, converged bool) {
	vi, aPrime = initialInducedVelocity, initialSwirlFactor
	tol := sv.tolerance()
	rT, rQ := sys.residuals(vi, aPrime)
	for iter := 0; iter < sv.maxIterations(); iter++ {
		if math.Abs(rT) < tol && math.Abs(rQ) < tol {
			return vi, aPrime, true
		}
		hv := 1e-6 * math.Max(1, math.Abs(vi))
		ha := 1e-6 * math.Max(1, math.Abs(aPrime))
		rTv, rQv := sys.residuals(vi+hv, aPrime)
		rTa, rQa := sys.residuals(vi, aPrime+ha)
		jac := mat.NewDense(2, 2, []float64{
			(rTv - rT) / hv, (rTa - rT) / ha,
			(rQv - rQ) / hv, (rQa - rQ) / ha,
		})
		rhs := mat.NewVecDense(2, []float64{-rT, -rQ})
		var δ mat.VecDense
		if err := δ.SolveVec(jac, rhs); err != nil {
			return 0, 0, false
		}
		dv, da := δ.AtVec(0), δ.AtVec(1)
		if math.IsNaN(dv) || math.IsInf(dv, 0) || math.IsNaN(da) || math.IsInf(da, 0) {
			return 0, 0, false
		}
		// Step size test doubles as convergence on stagnant residuals.
		if math.Abs(dv) < tol*(1+math.Abs(vi)) && math.Abs(da) < tol*(1+math.Abs(aPrime)) {
			return vi + dv, aPrime + da, true
		}
		// Backtrack until the residual norm decreases.
		norm0 := math.Hypot(rT, rQ)
		λ := 1.0
		accepted := false
		for k := 0; k < 8; k++ {
			nvi, na := vi+λ*dv, aPrime+λ*da
			nT, nQ := sys.residuals(nvi, na)
			if math.Hypot(nT, nQ) < norm0 {
				vi, aPrime, rT, rQ = nvi, na, nT, nQ
				accepted = true
				break
			}
			λ /= 2
		}
		if !accepted {
			return 0, 0, false
		}
	}
	return 0, 0, false
}

// ElementLoads solves every blade element independently and returns the
// per-element states and integrated loads, inboard to tip. A non-converged
// element carries zero induced flow rather than failing the call.
func (sv *BEMTSolver) ElementLoads(geom *RotorGeometry, cond OperatingCondition) []ElementLoad {
	n := cond.Elements
	if n <= 0 {
		n = defaultElements
	}
	fraction := FanThrustFraction(geom.DuctLength, geom.Diameter(), geom.DuctLipRadius)
	bounds := linspace(geom.HubRadius, geom.TipRadius, n+1)
	loads := make([]ElementLoad, n)
	for i := range loads {
		r := (bounds[i] + bounds[i+1]) / 2
		sys := elementSystem{
			r:               r,
			chord:           geom.Chord(r),
			pitch:           geom.PitchDeg(r) * deg2rad,
			airfoil:         geom.AirfoilAt(r),
			numBlades:       geom.NumBlades,
			hubRadius:       geom.HubRadius,
			tipRadius:       geom.TipRadius,
			fanFraction:     fraction,
			vInf:            cond.Velocity,
			ω:               cond.AngularSpeed(),
			ρ:               cond.Density,
			ν:               cond.Viscosity,
			inductionSwitch: sv.inductionSwitch(),
			table:           sv.Table,
		}
		vi, aPrime, converged := sv.solveElement(sys)
		if !converged {
			vi, aPrime = 0, 0
		}
		aPrime = clamp(aPrime, -1, 1)
		load := ElementLoad{
			Radius:          r,
			Span:            bounds[i+1] - bounds[i],
			Airfoil:         sys.airfoil,
			InducedVelocity: vi,
			SwirlFactor:     aPrime,
			Converged:       converged,
		}
		if dTdr, dQdr, _, ok := sys.bladeLoads(vi, aPrime); ok {
			load.DT = dTdr * load.Span
			load.DQ = dQdr * load.Span
		}
		loads[i] = load
	}
	return loads
}

// Aggregate sums element loads into the rotor system performance. The sum is
// commutative: element ordering does not matter.
func (sv *BEMTSolver) Aggregate(geom *RotorGeometry, cond OperatingCondition, loads []ElementLoad) PerformanceResult {
	var fanThrust, torque float64
	for _, load := range loads {
		fanThrust += load.DT
		torque += load.DQ
	}
	ω := cond.AngularSpeed()
	power := torque * ω
	fraction := FanThrustFraction(geom.DuctLength, geom.Diameter(), geom.DuctLipRadius)
	total := fanThrust
	if fraction > 1e-6 && math.Abs(fanThrust) > 1e-6 {
		total = fanThrust / fraction
	}
	res := PerformanceResult{
		TotalThrust: total,
		FanThrust:   fanThrust,
		DuctThrust:  total - fanThrust,
		Torque:      torque,
		Power:       power,
	}
	if power > 1e-6 {
		if cond.Velocity > 0.01 {
			res.Efficiency = total * cond.Velocity / power
		} else if total > 0 {
			disk := math.Pi * geom.TipRadius * geom.TipRadius
			res.FigureOfMerit = math.Pow(total, 1.5) / (math.Sqrt(2*cond.Density*disk) * power)
		}
	}
	return res
}

// Solve evaluates the aggregate performance of a rotor at one operating
// condition. It never fails for plausible inputs: unknown airfoils are
// penalized, non-converged elements contribute no induced flow and degenerate
// arithmetic is clamped throughout.
func (sv *BEMTSolver) Solve(geom *RotorGeometry, cond OperatingCondition) PerformanceResult {
	return sv.Aggregate(geom, cond, sv.ElementLoads(geom, cond))
}

package ductprop

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

const deg2rad = math.Pi / 180

// clamp bounds v into [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// nearestIndex returns the index of the value in xs closest to x.
// xs must not be empty.
func nearestIndex(xs []float64, x float64) int {
	best := 0
	bestΔ := math.Abs(xs[0] - x)
	for i, v := range xs[1:] {
		if Δ := math.Abs(v - x); Δ < bestΔ {
			bestΔ = Δ
			best = i + 1
		}
	}
	return best
}

// interp1 fits a piecewise linear interpolant over (xs, ys) and returns a
// query function. Queries outside [xs[0], xs[n-1]] clamp to the nearest
// endpoint value. xs must be strictly increasing and of the same length as ys.
func interp1(xs, ys []float64) (func(float64) float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("interp1: mismatched lengths (%d vs %d)", len(xs), len(ys))
	}
	if !strictlyIncreasing(xs) {
		return nil, fmt.Errorf("interp1: abscissae must be strictly increasing")
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, err
	}
	lo, hi := xs[0], xs[len(xs)-1]
	return func(x float64) float64 {
		return pl.Predict(clamp(x, lo, hi))
	}, nil
}

// mustInterp1 is interp1 for fixed curves known to be valid.
func mustInterp1(xs, ys []float64) func(float64) float64 {
	fn, err := interp1(xs, ys)
	if err != nil {
		panic(err)
	}
	return fn
}

// linspace returns n evenly spaced values covering [start, end].
func linspace(start, end float64, n int) []float64 {
	if n == 1 {
		return []float64{start}
	}
	vals := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range vals {
		vals[i] = start + float64(i)*step
	}
	vals[n-1] = end
	return vals
}

// strictlyIncreasing reports whether xs is strictly increasing.
func strictlyIncreasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}
	return true
}

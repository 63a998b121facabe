package ductprop

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// bernstein evaluates the i-th Bernstein basis polynomial of degree n at t.
func bernstein(i, n int, t float64) float64 {
	return float64(combin.Binomial(n, i)) * math.Pow(t, float64(i)) * math.Pow(1-t, float64(n-i))
}

// BezierDistribution evaluates the 1-D Bézier curve defined by the control
// point ordinates at n evenly spaced parameter values. It is how chord and
// pitch distributions are generated from a handful of design variables: the
// curve passes through the first and last control points and smooths the
// interior ones.
func BezierDistribution(ctrl []float64, n int) []float64 {
	if len(ctrl) == 0 || n <= 0 {
		return nil
	}
	degree := len(ctrl) - 1
	out := make([]float64, n)
	for j := range out {
		t := 0.0
		if n > 1 {
			t = float64(j) / float64(n-1)
		}
		var v float64
		for i, c := range ctrl {
			v += c * bernstein(i, degree, t)
		}
		out[j] = v
	}
	return out
}

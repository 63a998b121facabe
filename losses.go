package ductprop

import "math"

// lossFloor is the smallest combined loss factor ever returned, so downstream
// divisions never see zero.
const lossFloor = 1e-4

// prandtlFactor evaluates F = (2/π)·arccos(exp(-f)), guarding the arccos
// domain against floating point overshoot.
func prandtlFactor(f float64) float64 {
	e := clamp(math.Exp(-f), 0, 1)
	return clamp((2/math.Pi)*math.Acos(e), lossFloor, 1)
}

// TipLoss returns the Prandtl tip loss factor at radius r for the given
// inflow angle in radians. A numerically zero inflow angle returns 1 (no
// loss), which also avoids the sin division at degenerate inflow.
func TipLoss(numBlades int, r, tipRadius, φ float64) float64 {
	s := math.Sin(φ)
	if math.Abs(s) < 1e-9 || r <= 0 {
		return 1
	}
	f := float64(numBlades) / 2 * (tipRadius - r) / (r * s)
	return prandtlFactor(f)
}

// HubLoss returns the Prandtl hub (root) loss factor at radius r. A hub of
// numerically zero radius has no root vortex to lose circulation to and
// returns 1.
func HubLoss(numBlades int, r, hubRadius, φ float64) float64 {
	s := math.Sin(φ)
	if math.Abs(s) < 1e-9 || hubRadius < 1e-9 {
		return 1
	}
	f := float64(numBlades) / 2 * (r - hubRadius) / (hubRadius * s)
	return prandtlFactor(f)
}

// CombinedLoss returns the product of the tip and hub loss factors, floored
// so it can always be divided by.
func CombinedLoss(numBlades int, r, hubRadius, tipRadius, φ float64) float64 {
	F := TipLoss(numBlades, r, tipRadius, φ) * HubLoss(numBlades, r, hubRadius, φ)
	if math.IsNaN(F) {
		return lossFloor
	}
	return clamp(F, lossFloor, 1)
}

package ductprop

import (
	"math"
	"testing"
)

func TestLossFactorsDegenerateInflow(t *testing.T) {
	// Zero (or numerically zero) inflow angle means no loss at all.
	for _, φ := range []float64{0, 1e-12, -1e-12} {
		if F := TipLoss(2, 0.1, 0.127, φ); F != 1 {
			t.Fatalf("tip loss at φ=%g: got %f, expected 1", φ, F)
		}
		if F := HubLoss(2, 0.1, 0.019, φ); F != 1 {
			t.Fatalf("hub loss at φ=%g: got %f, expected 1", φ, F)
		}
	}
}

func TestLossFactorsRange(t *testing.T) {
	hub, tip := 0.019, 0.127
	for _, φ := range []float64{0.05, 0.1, 0.3, 1.0} {
		for _, r := range []float64{hub, 0.05, 0.1, 0.12, tip} {
			for _, b := range []int{1, 2, 4} {
				ft := TipLoss(b, r, tip, φ)
				fh := HubLoss(b, r, hub, φ)
				fc := CombinedLoss(b, r, hub, tip, φ)
				for _, F := range []float64{ft, fh, fc} {
					if F <= 0 || F > 1 || math.IsNaN(F) {
						t.Fatalf("loss factor out of (0, 1]: %f (b=%d r=%f φ=%f)", F, b, r, φ)
					}
				}
			}
		}
	}
}

func TestTipLossVanishesAtTip(t *testing.T) {
	// Circulation falls to zero at the tip: the factor drops to its floor.
	F := TipLoss(2, 0.127, 0.127, 0.2)
	if F != lossFloor {
		t.Fatalf("tip loss at the tip: got %g, expected the %g floor", F, lossFloor)
	}
	// And increases back toward 1 inboard.
	if inboard := TipLoss(2, 0.06, 0.127, 0.2); inboard <= F || inboard > 1 {
		t.Fatalf("inboard tip loss should recover toward 1: %f", inboard)
	}
}

func TestHubLossZeroHub(t *testing.T) {
	if F := HubLoss(2, 0.05, 0, 0.2); F != 1 {
		t.Fatalf("zero hub radius must not lose circulation: %f", F)
	}
}

func TestCombinedLossFloor(t *testing.T) {
	// Extreme inflow angles must never produce zero or NaN.
	for _, φ := range []float64{-1.5, -0.2, 0.001, 1.5} {
		F := CombinedLoss(4, 0.127, 0.019, 0.127, φ)
		if F < lossFloor || F > 1 || math.IsNaN(F) {
			t.Fatalf("combined loss out of bounds at φ=%f: %g", φ, F)
		}
	}
}

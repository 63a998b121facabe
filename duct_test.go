package ductprop

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestWakeContractionNoDuct(t *testing.T) {
	for _, ductLength := range []float64{0, -0.01} {
		if k2 := WakeContraction(ductLength, 0.254, 0); k2 != 2.0 {
			t.Fatalf("no duct must return exactly 2.0, got %f", k2)
		}
	}
	if f := FanThrustFraction(0, 0.254, 0); f != 1.0 {
		t.Fatalf("no duct means all thrust on the fan, got fraction %f", f)
	}
}

func TestWakeContractionBounds(t *testing.T) {
	d := 0.254
	for _, ductLength := range []float64{1e-6, 0.01, 0.1, d, 5 * d, 1000 * d} {
		for _, lip := range []float64{0, 0.01 * d, 0.031 * d, 0.2 * d} {
			k2 := WakeContraction(ductLength, d, lip)
			if k2 < 1.0 || k2 > 2.0 {
				t.Fatalf("k² out of [1, 2]: %f (L=%g lip=%g)", k2, ductLength, lip)
			}
		}
	}
}

func TestWakeContractionMonotonicInLength(t *testing.T) {
	d := 0.254
	prev := WakeContraction(1e-4, d, 0.031*d)
	for _, ductLength := range []float64{0.01, 0.05, 0.1, 0.127, 0.254, 0.5, 1.0, 10.0} {
		k2 := WakeContraction(ductLength, d, 0.031*d)
		if k2 > prev+1e-12 {
			t.Fatalf("k² must be non-increasing in duct length: %f after %f at L=%f", k2, prev, ductLength)
		}
		prev = k2
	}
	// Long duct limit: contraction almost fully prevented.
	if k2 := WakeContraction(1e3*d, d, 0.031*d); !scalar.EqualWithinAbs(k2, 1.0, 1e-2) {
		t.Fatalf("very long duct should approach k²=1, got %f", k2)
	}
}

func TestWakeContractionLipBlend(t *testing.T) {
	d := 0.254
	L := 0.5 * d
	noLip := WakeContraction(L, d, 0)
	full := WakeContraction(L, d, 0.031*d)
	half := WakeContraction(L, d, 0.5*0.031*d)
	if full >= noLip {
		t.Fatalf("a rounded lip must reduce contraction: with lip %f, without %f", full, noLip)
	}
	if half <= full || half >= noLip {
		t.Fatalf("partial lip must blend between the curves: %f not in (%f, %f)", half, full, noLip)
	}
	// Beyond the reference lip ratio the effectiveness saturates.
	if over := WakeContraction(L, d, 0.2*d); !scalar.EqualWithinAbs(over, full, 1e-12) {
		t.Fatalf("oversized lip should saturate: %f vs %f", over, full)
	}
}

func TestWakeContractionShortDuctNearFreeRotor(t *testing.T) {
	d := 0.254
	// A very short duct barely changes anything but remains below 2.
	k2 := WakeContraction(0.01*d, d, 0)
	if k2 >= 2.0 || k2 < 1.9 {
		t.Fatalf("vanishing duct should stay just under the free rotor value, got %f", k2)
	}
}

package ductprop

// Empirical wake contraction data, digitized from the OptDuct reference
// curves. Abscissa is duct diameter over duct length (d/L): a very long duct
// holds the wake at the duct diameter (ratio 1, k²=1) while a vanishing duct
// tends to the free rotor contraction 1/√2 (k²=2). Two curves are kept, for a
// sharp inlet and for a well rounded lip, and blended by lip effectiveness.
var (
	ductDL = []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.8, 1.0, 1.5, 2.0}

	wakeRatioWithLip = []float64{1.0, 0.985, 0.975, 0.962, 0.948, 0.930, 0.910, 0.873, 0.835, 0.778, 0.733}
	wakeRatioNoLip   = []float64{0.965, 0.952, 0.936, 0.918, 0.897, 0.875, 0.852, 0.812, 0.778, 0.738, 0.714}

	wakeRatioWithLipAt = mustInterp1(ductDL, wakeRatioWithLip)
	wakeRatioNoLipAt   = mustInterp1(ductDL, wakeRatioNoLip)
)

// referenceLipRatio is the lip-radius-to-diameter ratio of the reference duct
// the "with lip" curve was measured on. Lip radii at or beyond it count as
// fully effective.
const referenceLipRatio = 0.031

// freeRotorContraction is the theoretical k² of an unducted rotor.
const freeRotorContraction = 2.0

// WakeContraction maps duct geometry to the wake contraction coefficient k²
// (duct area over wake area). A non-positive duct length means no duct and
// returns exactly 2. The result is always within [1, 2].
func WakeContraction(ductLength, diameter, lipRadius float64) float64 {
	if ductLength <= 0 {
		return freeRotorContraction
	}
	dOverL := diameter / ductLength
	lipEff := clamp(lipRadius/diameter/referenceLipRatio, 0, 1)
	ratio := (1-lipEff)*wakeRatioNoLipAt(dOverL) + lipEff*wakeRatioWithLipAt(dOverL)
	k := 1 / ratio
	return clamp(k*k, 1, freeRotorContraction)
}

// FanThrustFraction converts k² into the share of total system thrust carried
// by the blades themselves, fanThrust = k²/2 × totalThrust. With no duct the
// fraction is 1 and the duct contributes nothing; a perfect infinitely long
// duct halves the blade share.
func FanThrustFraction(ductLength, diameter, lipRadius float64) float64 {
	return WakeContraction(ductLength, diameter, lipRadius) / 2
}

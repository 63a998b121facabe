package ductprop

import (
	"errors"
	"fmt"
)

// RotorGeometry defines the blade and duct shape of one rotor candidate. It is
// immutable once constructed and read-only to the solver, so a single value
// may be shared by concurrent evaluations. A zero DuctLength means no duct.
type RotorGeometry struct {
	HubRadius, TipRadius      float64 // m
	NumBlades                 int
	DuctLength, DuctLipRadius float64 // m

	radii, pitchDeg, chords []float64 // shape control points
	airfoilRadii            []float64 // airfoil assignment control points
	airfoilNames            []string

	pitchAt, chordAt func(float64) float64
}

// NewRotorGeometry builds and validates a rotor geometry from its shape
// control points (radius, pitch in degrees, chord in m) and its airfoil
// assignment control points (radius, airfoil identifier). Both radius
// sequences must be strictly increasing. Structurally invalid definitions fail
// fast here; this is the only place the package returns errors for caller
// supplied data.
func NewRotorGeometry(hubRadius, tipRadius float64, numBlades int, ductLength, ductLipRadius float64, radii, pitchDeg, chords []float64, airfoilRadii []float64, airfoilNames []string) (*RotorGeometry, error) {
	if numBlades < 1 {
		return nil, fmt.Errorf("need at least one blade, got %d", numBlades)
	}
	if hubRadius < 0 || tipRadius <= hubRadius {
		return nil, fmt.Errorf("invalid radii: tip (%f) must exceed hub (%f) and hub must be non-negative", tipRadius, hubRadius)
	}
	if ductLength < 0 || ductLipRadius < 0 {
		return nil, errors.New("duct length and lip radius must be non-negative")
	}
	if len(radii) != len(pitchDeg) || len(radii) != len(chords) {
		return nil, fmt.Errorf("shape control points must have equal lengths (radii=%d pitch=%d chord=%d)", len(radii), len(pitchDeg), len(chords))
	}
	if len(radii) < 2 {
		return nil, errors.New("need at least two shape control points")
	}
	if !strictlyIncreasing(radii) {
		return nil, errors.New("shape control point radii must be strictly increasing")
	}
	if len(airfoilRadii) != len(airfoilNames) {
		return nil, fmt.Errorf("airfoil control points must have equal lengths (radii=%d names=%d)", len(airfoilRadii), len(airfoilNames))
	}
	if len(airfoilRadii) == 0 {
		return nil, errors.New("need at least one airfoil control point")
	}
	if !strictlyIncreasing(airfoilRadii) {
		return nil, errors.New("airfoil control point radii must be strictly increasing")
	}
	g := &RotorGeometry{
		HubRadius:     hubRadius,
		TipRadius:     tipRadius,
		NumBlades:     numBlades,
		DuctLength:    ductLength,
		DuctLipRadius: ductLipRadius,
		radii:         radii,
		pitchDeg:      pitchDeg,
		chords:        chords,
		airfoilRadii:  airfoilRadii,
		airfoilNames:  airfoilNames,
	}
	var err error
	if g.pitchAt, err = interp1(radii, pitchDeg); err != nil {
		return nil, err
	}
	if g.chordAt, err = interp1(radii, chords); err != nil {
		return nil, err
	}
	return g, nil
}

// Diameter returns the rotor diameter.
func (g *RotorGeometry) Diameter() float64 {
	return 2 * g.TipRadius
}

// PitchDeg returns the interpolated pitch angle in degrees at radius r. A
// geometry built as a struct literal has no cached interpolant and fits one
// per call without mutating the receiver.
func (g *RotorGeometry) PitchDeg(r float64) float64 {
	fn := g.pitchAt
	if fn == nil {
		fn = mustInterp1(g.radii, g.pitchDeg)
	}
	return fn(r)
}

// Chord returns the interpolated chord in meters at radius r.
func (g *RotorGeometry) Chord(r float64) float64 {
	fn := g.chordAt
	if fn == nil {
		fn = mustInterp1(g.radii, g.chords)
	}
	return fn(r)
}

// AirfoilAt returns the airfoil identifier assigned to radius r, selecting the
// nearest assignment control point.
func (g *RotorGeometry) AirfoilAt(r float64) string {
	return g.airfoilNames[nearestIndex(g.airfoilRadii, r)]
}

func (g *RotorGeometry) String() string {
	duct := "no duct"
	if g.DuctLength > 0 {
		duct = fmt.Sprintf("duct %.1f mm (lip %.1f mm)", g.DuctLength*1e3, g.DuctLipRadius*1e3)
	}
	return fmt.Sprintf("rotor Ø%.1f mm, %d blades, hub %.1f mm, %s", g.Diameter()*1e3, g.NumBlades, g.HubRadius*1e3, duct)
}

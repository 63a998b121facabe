package ductprop

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// naca4412ish builds a plausible low Reynolds polar slice: linear lift
// flattening toward the end of the envelope, drag growing with angle.
func naca4412ish(re float64) PolarSample {
	var pts []PolarPoint
	for α := -5.0; α <= 15.0+1e-9; α += 0.5 {
		cl := 0.11 * (α + 2)
		if α > 12 {
			cl = 0.11*14 + 0.03*(α-12)
		}
		cd := 0.02 + 0.0008*α*α - 1e-8*re/1e4
		pts = append(pts, PolarPoint{AoA: α, Cl: cl, Cd: cd})
	}
	return PolarSample{Airfoil: "naca4412", Reynolds: re, Points: pts}
}

func testTable(t *testing.T) *AirfoilTable {
	t.Helper()
	table := NewAirfoilTable(DefaultAoAGrid, []PolarSample{
		naca4412ish(10000), naca4412ish(50000), naca4412ish(100000),
	})
	if !table.Has("naca4412") {
		t.Fatal("test airfoil did not survive table construction")
	}
	return table
}

func TestTableGridNodeIdempotent(t *testing.T) {
	table := testTable(t)
	// A query exactly at a grid node returns the stored value.
	cl, cd, _, _ := table.Performance("NACA4412", 50000, 5)
	expCl := 0.11 * 7
	expCd := 0.02 + 0.0008*25 - 1e-8*5
	if !scalar.EqualWithinAbs(cl, expCl, 1e-9) {
		t.Fatalf("cl at grid node: got %f, expected %f", cl, expCl)
	}
	if !scalar.EqualWithinAbs(cd, expCd, 1e-9) {
		t.Fatalf("cd at grid node: got %f, expected %f", cd, expCd)
	}
}

func TestTableClampsEnvelope(t *testing.T) {
	table := testTable(t)
	// Beyond the sampled envelope the query clamps, never fails.
	clHi, _, _, _ := table.Performance("naca4412", 1e7, 40)
	clEdge, _, _, _ := table.Performance("naca4412", 100000, 15)
	if !scalar.EqualWithinAbs(clHi, clEdge, 1e-9) {
		t.Fatalf("out-of-envelope query should clamp: %f vs %f", clHi, clEdge)
	}
	clLo, cdLo, _, _ := table.Performance("naca4412", 1, -90)
	clMin, cdMin, _, _ := table.Performance("naca4412", 10000, -5)
	if !scalar.EqualWithinAbs(clLo, clMin, 1e-9) || !scalar.EqualWithinAbs(cdLo, cdMin, 1e-9) {
		t.Fatal("low-side clamping incorrect")
	}
}

func TestTableUnknownAirfoilPenalty(t *testing.T) {
	table := testTable(t)
	for _, re := range []float64{100, 50000, 1e9} {
		cl, cd, cm, tc := table.Performance("doesnotexist", re, 4)
		if cl != fallbackCl || cd != fallbackCd || cm != 0 {
			t.Fatalf("unknown airfoil must return the penalty tuple, got (%f, %f, %f)", cl, cd, cm)
		}
		if tc != DefaultThicknessRatio {
			t.Fatalf("unknown airfoil thickness must default, got %f", tc)
		}
	}
}

func TestTableRejectsSingleReynolds(t *testing.T) {
	table := NewAirfoilTable(DefaultAoAGrid, []PolarSample{naca4412ish(10000)})
	if table.Has("naca4412") {
		t.Fatal("airfoil with one Reynolds slice must be dropped")
	}
	if len(table.Airfoils()) != 0 {
		t.Fatalf("available set should be empty: %v", table.Airfoils())
	}
	cl, cd, _, _ := table.Performance("naca4412", 10000, 5)
	if cl != fallbackCl || cd != fallbackCd {
		t.Fatal("dropped airfoil must answer with the penalty tuple")
	}
}

func TestTableDropsShortSlices(t *testing.T) {
	// One slice covers the full grid, the other stops at 10 deg: the short one
	// must be dropped (no extrapolation), leaving a single slice, which then
	// drops the whole airfoil.
	short := naca4412ish(50000)
	var truncated []PolarPoint
	for _, pt := range short.Points {
		if pt.AoA <= 10 {
			truncated = append(truncated, pt)
		}
	}
	short.Points = truncated
	table := NewAirfoilTable(DefaultAoAGrid, []PolarSample{naca4412ish(10000), short})
	if table.Has("naca4412") {
		t.Fatal("airfoil left with a single full slice must be dropped")
	}
}

func TestTableNonPositiveDragPenalized(t *testing.T) {
	bad := func(re float64) PolarSample {
		s := naca4412ish(re)
		for i := range s.Points {
			s.Points[i].Cd = -0.01
		}
		return s
	}
	table := NewAirfoilTable(DefaultAoAGrid, []PolarSample{bad(10000), bad(50000)})
	cl, cd, _, _ := table.Performance("naca4412", 20000, 3)
	if cl != fallbackCl || cd != fallbackCd {
		t.Fatalf("non-positive drag must trigger the penalty tuple, got (%f, %f)", cl, cd)
	}
}

func TestThicknessRatio(t *testing.T) {
	if !scalar.EqualWithinAbs(ThicknessRatio("NACA4412"), 0.12, 1e-12) {
		t.Fatal("catalog lookup must be case insensitive")
	}
	if ThicknessRatio("unknown") != DefaultThicknessRatio {
		t.Fatal("unknown airfoil must use the default thickness")
	}
}

func TestLoadAirfoilTable(t *testing.T) {
	dir := t.TempDir()
	for _, re := range []float64{10000, 50000} {
		s := naca4412ish(re)
		path := filepath.Join(dir, "naca4412_re_10000.csv")
		if re == 50000 {
			path = filepath.Join(dir, "naca4412_re_50000.csv")
		}
		if err := WritePolarCSV(path, s.Points); err != nil {
			t.Fatalf("err %s", err)
		}
	}
	// A header-only file and a garbage name must both be skipped silently.
	if err := WritePolarCSV(filepath.Join(dir, "e61_re_10000.csv"), nil); err != nil {
		t.Fatalf("err %s", err)
	}
	if err := WritePolarCSV(filepath.Join(dir, "strange_re_abc.csv"), naca4412ish(1).Points); err != nil {
		t.Fatalf("err %s", err)
	}
	table, err := LoadAirfoilTable(DefaultAoAGrid, dir)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if got := table.Airfoils(); len(got) != 1 || got[0] != "naca4412" {
		t.Fatalf("expected only naca4412, got %v", got)
	}
	if _, err = LoadAirfoilTable(DefaultAoAGrid, filepath.Join(dir, "missing")); err == nil {
		t.Fatal("missing database directory must error")
	}
}

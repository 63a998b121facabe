package ductprop

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	// Penalty coefficients returned for unknown or broken airfoil data. They
	// bias a search away from the airfoil instead of aborting it.
	fallbackCl = 0.001
	fallbackCd = 0.5

	// DefaultThicknessRatio is the thickness-to-chord ratio assumed for
	// airfoils absent from the static thickness catalog.
	DefaultThicknessRatio = 0.10
)

// thicknessRatios catalogs maximum thickness-to-chord ratios by lowercase
// airfoil identifier. Independent of Reynolds number and angle of attack.
var thicknessRatios = map[string]float64{
	"aquilla":  0.093,
	"clarky":   0.117,
	"dae11":    0.091,
	"dae21":    0.089,
	"dae31":    0.087,
	"e61":      0.056,
	"geminism": 0.080,
	"goe795":   0.080,
	"mh32":     0.086,
	"naca2412": 0.120,
	"naca4412": 0.120,
	"naca6409": 0.090,
	"s1223":    0.121,
	"s8035":    0.090,
}

// ThicknessRatio returns the static thickness-to-chord ratio of an airfoil,
// or DefaultThicknessRatio when the airfoil is not cataloged.
func ThicknessRatio(name string) float64 {
	if tc, found := thicknessRatios[strings.ToLower(name)]; found {
		return tc
	}
	return DefaultThicknessRatio
}

// AoAGrid defines the shared evenly spaced angle-of-attack axis all polar
// slices are resampled onto.
type AoAGrid struct {
	Min, Max, Step float64 // deg
}

// DefaultAoAGrid matches the envelope the polar database is generated over.
var DefaultAoAGrid = AoAGrid{Min: -5, Max: 15, Step: 0.5}

// Angles returns the grid values from Min to Max inclusive.
func (g AoAGrid) Angles() []float64 {
	if g.Step <= 0 || g.Max < g.Min {
		return nil
	}
	n := int(math.Round((g.Max-g.Min)/g.Step)) + 1
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = g.Min + float64(i)*g.Step
	}
	return angles
}

// PolarSample is one (airfoil, Reynolds) slice of performance data on its
// native angle-of-attack grid.
type PolarSample struct {
	Airfoil  string
	Reynolds float64
	Points   []PolarPoint
}

// airfoilPolar is the rectangular (AoA, Reynolds) grid for one airfoil.
type airfoilPolar struct {
	aoas       []float64   // shared axis, ascending
	res        []float64   // Reynolds axis, ascending
	cl, cd, cm [][]float64 // indexed [reynolds][aoa]
}

// AirfoilTable holds the resampled performance tables of every usable
// airfoil. It is built once and is safe for concurrent read-only use by any
// number of solver invocations.
type AirfoilTable struct {
	grid   AoAGrid
	polars map[string]*airfoilPolar
}

// resample maps one slice onto the shared grid. It never extrapolates: a
// shared angle outside the slice's native range marks the slice unusable and
// ok is false.
func resample(angles []float64, pts []PolarPoint) (cl, cd, cm []float64, ok bool) {
	if len(pts) < 2 {
		return nil, nil, nil, false
	}
	native := make([]float64, len(pts))
	clN := make([]float64, len(pts))
	cdN := make([]float64, len(pts))
	cmN := make([]float64, len(pts))
	for i, pt := range pts {
		native[i] = pt.AoA
		clN[i] = pt.Cl
		cdN[i] = pt.Cd
		cmN[i] = pt.Cm
	}
	if !strictlyIncreasing(native) {
		return nil, nil, nil, false
	}
	const tol = 1e-9
	if angles[0] < native[0]-tol || angles[len(angles)-1] > native[len(native)-1]+tol {
		return nil, nil, nil, false
	}
	clAt, err := interp1(native, clN)
	if err != nil {
		return nil, nil, nil, false
	}
	cdAt := mustInterp1(native, cdN)
	cmAt := mustInterp1(native, cmN)
	cl = make([]float64, len(angles))
	cd = make([]float64, len(angles))
	cm = make([]float64, len(angles))
	for i, α := range angles {
		cl[i] = clAt(α)
		cd[i] = cdAt(α)
		cm[i] = cmAt(α)
	}
	return cl, cd, cm, true
}

// NewAirfoilTable resamples all provided slices onto the shared grid and
// keeps only airfoils with at least two valid Reynolds slices. Candidate
// slices are gathered per airfoil first and filtered into the final table in
// a single pass; nothing is mutated after construction.
func NewAirfoilTable(grid AoAGrid, samples []PolarSample) *AirfoilTable {
	angles := grid.Angles()
	table := &AirfoilTable{grid: grid, polars: make(map[string]*airfoilPolar)}
	if len(angles) == 0 {
		return table
	}
	candidates := make(map[string][]PolarSample)
	for _, s := range samples {
		name := strings.ToLower(s.Airfoil)
		candidates[name] = append(candidates[name], s)
	}
	for name, slices := range candidates {
		sort.Slice(slices, func(i, j int) bool { return slices[i].Reynolds < slices[j].Reynolds })
		polar := &airfoilPolar{aoas: angles}
		for _, s := range slices {
			if len(polar.res) > 0 && s.Reynolds == polar.res[len(polar.res)-1] {
				continue // duplicate Reynolds slice
			}
			cl, cd, cm, ok := resample(angles, s.Points)
			if !ok {
				continue
			}
			polar.res = append(polar.res, s.Reynolds)
			polar.cl = append(polar.cl, cl)
			polar.cd = append(polar.cd, cd)
			polar.cm = append(polar.cm, cm)
		}
		if len(polar.res) < 2 {
			continue // not interpolatable across Reynolds
		}
		table.polars[name] = polar
	}
	return table
}

// LoadAirfoilTable builds the table from a directory of polar CSV files named
// `<airfoil>_re_<reynolds>.csv` (the layout cmd/polargen produces). Files with
// unusable names or no usable rows are skipped.
func LoadAirfoilTable(grid AoAGrid, dir string) (*AirfoilTable, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("airfoil database: %w", err)
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*_re_*.csv"))
	if err != nil {
		return nil, err
	}
	var samples []PolarSample
	for _, path := range paths {
		base := strings.TrimSuffix(filepath.Base(path), ".csv")
		idx := strings.LastIndex(base, "_re_")
		if idx <= 0 {
			continue
		}
		re, err := strconv.ParseFloat(base[idx+len("_re_"):], 64)
		if err != nil {
			continue
		}
		pts, err := ReadPolarFile(path)
		if err != nil || len(pts) == 0 {
			continue
		}
		samples = append(samples, PolarSample{Airfoil: base[:idx], Reynolds: re, Points: pts})
	}
	return NewAirfoilTable(grid, samples), nil
}

// Airfoils returns the sorted identifiers actually loaded.
func (t *AirfoilTable) Airfoils() []string {
	names := make([]string, 0, len(t.polars))
	for name := range t.polars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the airfoil survived table construction.
func (t *AirfoilTable) Has(name string) bool {
	_, found := t.polars[strings.ToLower(name)]
	return found
}

// Performance returns (cl, cd, cm, thickness ratio) at the given Reynolds
// number and angle of attack in degrees. Queries outside the sampled envelope
// clamp to the nearest in-range value. An unknown airfoil, or an
// interpolation yielding a non-finite or non-positive drag, returns the fixed
// penalty coefficients instead of failing.
func (t *AirfoilTable) Performance(airfoil string, reynolds, aoaDeg float64) (cl, cd, cm, tc float64) {
	name := strings.ToLower(airfoil)
	tc = ThicknessRatio(name)
	polar, found := t.polars[name]
	if !found {
		return fallbackCl, fallbackCd, 0, tc
	}
	cl = polar.lookup(polar.cl, reynolds, aoaDeg)
	cd = polar.lookup(polar.cd, reynolds, aoaDeg)
	cm = polar.lookup(polar.cm, reynolds, aoaDeg)
	if math.IsNaN(cl) || math.IsInf(cl, 0) || math.IsNaN(cd) || math.IsInf(cd, 0) || cd <= 0 {
		return fallbackCl, fallbackCd, 0, tc
	}
	return cl, cd, cm, tc
}

// lookup performs rectangular bilinear interpolation of one coefficient grid,
// clamping both axes to the sampled envelope.
func (p *airfoilPolar) lookup(grid [][]float64, reynolds, aoaDeg float64) float64 {
	re := clamp(reynolds, p.res[0], p.res[len(p.res)-1])
	α := clamp(aoaDeg, p.aoas[0], p.aoas[len(p.aoas)-1])
	i := bracket(p.res, re)
	j := bracket(p.aoas, α)
	tRe := fraction(p.res[i], p.res[i+1], re)
	tα := fraction(p.aoas[j], p.aoas[j+1], α)
	lo := grid[i][j]*(1-tα) + grid[i][j+1]*tα
	hi := grid[i+1][j]*(1-tα) + grid[i+1][j+1]*tα
	return lo*(1-tRe) + hi*tRe
}

// bracket returns i such that xs[i] <= x <= xs[i+1], for x already clamped
// into the axis range.
func bracket(xs []float64, x float64) int {
	i := sort.SearchFloat64s(xs, x)
	if i > 0 {
		i--
	}
	if i > len(xs)-2 {
		i = len(xs) - 2
	}
	return i
}

// fraction returns the normalized position of x in [lo, hi].
func fraction(lo, hi, x float64) float64 {
	if hi <= lo {
		return 0
	}
	return (x - lo) / (hi - lo)
}

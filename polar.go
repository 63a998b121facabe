package ductprop

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// PolarPoint is one sampled angle of attack of an airfoil polar.
type PolarPoint struct {
	AoA float64 // deg
	Cl  float64
	Cd  float64
	Cm  float64
}

// ParsePolarText extracts (AoA, CL, CD[, CM]) rows from polar text. It accepts
// both the raw PACC output of XFOIL and clean comma separated files: any line
// whose first three fields do not parse as numbers is skipped, so headers,
// separators and garbage never fail a file. Duplicated angles keep the first
// occurrence and the result is sorted by angle.
func ParsePolarText(r io.Reader) []PolarPoint {
	var pts []PolarPoint
	seen := make(map[float64]bool)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, ",") {
			line = strings.ReplaceAll(line, ",", " ")
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		aoa, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		cl, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		cd, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			continue
		}
		var cm float64
		switch {
		case len(fields) >= 5:
			// Raw PACC row: alpha CL CD CDp CM [Top_Xtr Bot_Xtr].
			cm, _ = strconv.ParseFloat(fields[4], 64)
		case len(fields) == 4:
			// Clean CSV row: AoA CL CD CM. Zero when absent or unreadable.
			cm, _ = strconv.ParseFloat(fields[3], 64)
		}
		if seen[aoa] {
			continue
		}
		seen[aoa] = true
		pts = append(pts, PolarPoint{AoA: aoa, Cl: cl, Cd: cd, Cm: cm})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].AoA < pts[j].AoA })
	return pts
}

// ReadPolarFile parses a polar file from disk. A missing file is an error; a
// file with no usable rows returns an empty slice.
func ReadPolarFile(path string) ([]PolarPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParsePolarText(f), nil
}

// WritePolarCSV writes points as a clean AoA,CL,CD,CM file. An empty slice
// produces a header-only file so downstream table construction silently
// excludes the slice.
func WritePolarCSV(path string, pts []PolarPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "AoA,CL,CD,CM")
	for _, pt := range pts {
		fmt.Fprintf(w, "%.4f,%.6f,%.6f,%.6f\n", pt.AoA, pt.Cl, pt.Cd, pt.Cm)
	}
	return w.Flush()
}

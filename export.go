package ductprop

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ProfilePoint is one 2-D coordinate of a normalized airfoil outline, chord
// running from x=0 at the leading edge to x=1 at the trailing edge.
type ProfilePoint struct {
	X float64
	Y float64
}

// LoadDatProfile reads a Selig style .dat coordinate file. The title line
// and any malformed rows are skipped, and rows whose x coordinate is wildly
// out of the unit chord range are dropped as stray header numbers.
func LoadDatProfile(path string) ([]ProfilePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var pts []ProfilePoint
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errY != nil {
			continue
		}
		if x > 10 || x < -10 {
			continue
		}
		pts = append(pts, ProfilePoint{X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(pts) < 3 {
		return nil, fmt.Errorf("%s: not an airfoil outline (%d points)", path, len(pts))
	}
	return pts, nil
}

// FindDatFile locates the coordinate file for an airfoil in dir, matching
// the file name case insensitively.
func FindDatFile(dir, airfoil string) (string, error) {
	want := strings.ToLower(airfoil) + ".dat"
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if strings.ToLower(entry.Name()) == want {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("no coordinate file for %s in %s", airfoil, dir)
}

// CurvePoint is one 3-D point of a blade section curve, in millimeters.
// X and Y span the rotated section, Z is the radial station.
type CurvePoint struct {
	X float64
	Y float64
	Z float64
}

// BladeSection describes one radial station of a blade for CAD export.
type BladeSection struct {
	Index    int     `json:"index"`
	RadiusMM float64 `json:"radiusMM"`
	PitchDeg float64 `json:"pitchDeg"`
	ChordMM  float64 `json:"chordMM"`
	Airfoil  string  `json:"airfoil"`
	File     string  `json:"file,omitempty"`
}

// BladeSections samples the geometry at evenly spaced radial stations.
func BladeSections(geom *RotorGeometry, stations int) []BladeSection {
	if stations < 2 {
		stations = 2
	}
	radii := linspace(geom.HubRadius, geom.TipRadius, stations)
	sections := make([]BladeSection, stations)
	for i, r := range radii {
		sections[i] = BladeSection{
			Index:    i,
			RadiusMM: r * 1000,
			PitchDeg: geom.PitchDeg(r),
			ChordMM:  geom.Chord(r) * 1000,
			Airfoil:  geom.AirfoilAt(r),
		}
	}
	return sections
}

// SectionCurve places a normalized outline in space for one section. The
// outline is centered on its quarter chord, scaled to the section chord,
// rotated by the pitch angle and stacked at the radial station.
func SectionCurve(profile []ProfilePoint, sec BladeSection) []CurvePoint {
	θ := sec.PitchDeg * deg2rad
	cosθ, sinθ := math.Cos(θ), math.Sin(θ)
	curve := make([]CurvePoint, len(profile))
	for i, p := range profile {
		x := (p.X - 0.25) * sec.ChordMM
		y := p.Y * sec.ChordMM
		curve[i] = CurvePoint{
			X: x*cosθ - y*sinθ,
			Y: x*sinθ + y*cosθ,
			Z: sec.RadiusMM,
		}
	}
	return curve
}

// WriteSectionCurves writes one XYZ point file per blade section into
// outDir, plus a manifest.json listing the sections. The point files are
// the space separated millimeter triples CAD packages import as curves
// through XYZ points. Sections whose airfoil has no coordinate file in
// datDir are skipped and reported in the returned manifest with an empty
// file name.
func WriteSectionCurves(outDir, datDir string, geom *RotorGeometry, stations int) ([]BladeSection, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	sections := BladeSections(geom, stations)
	profiles := make(map[string][]ProfilePoint)
	for i := range sections {
		sec := &sections[i]
		profile, ok := profiles[sec.Airfoil]
		if !ok {
			datPath, err := FindDatFile(datDir, sec.Airfoil)
			if err == nil {
				profile, err = LoadDatProfile(datPath)
			}
			if err != nil {
				profiles[sec.Airfoil] = nil
				continue
			}
			profiles[sec.Airfoil] = profile
		}
		if profile == nil {
			continue
		}
		name := fmt.Sprintf("section_%02d_%s_r%.1f.txt", sec.Index, sec.Airfoil, sec.RadiusMM)
		f, err := os.Create(filepath.Join(outDir, name))
		if err != nil {
			return nil, err
		}
		for _, p := range SectionCurve(profile, *sec) {
			fmt.Fprintf(f, "%.6f %.6f %.6f\n", p.X, p.Y, p.Z)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		sec.File = name
	}
	manifest, err := os.Create(filepath.Join(outDir, "manifest.json"))
	if err != nil {
		return nil, err
	}
	defer manifest.Close()
	enc := json.NewEncoder(manifest)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// ExportConfig configures the streaming export of a design search.
type ExportConfig struct {
	Filename  string
	OutputDir string
	AsCSV     bool
	Timestamp bool
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV
}

func (c ExportConfig) csvPath() string {
	dir := c.OutputDir
	if dir == "" {
		dir = "."
	}
	if c.Timestamp {
		t := time.Now()
		return fmt.Sprintf("%s/candidates-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", dir, c.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	return fmt.Sprintf("%s/candidates-%s.csv", dir, c.Filename)
}

// StreamCandidates drains the candidate channel into a CSV file, one row
// per evaluated trial. It returns once the channel is closed, so the caller
// usually runs it in its own goroutine and closes the channel when the
// search is done.
func StreamCandidates(conf ExportConfig, candChan <-chan Candidate) {
	if conf.IsUseless() {
		for range candChan {
		}
		return
	}
	f, err := os.Create(conf.csvPath())
	if err != nil {
		panic(err)
	}
	defer f.Close()
	f.WriteString(fmt.Sprintf("# Creation date (UTC): %s\n", time.Now().UTC()))
	f.WriteString("trial,score,thrust,fanThrust,ductThrust,torque,power,efficiency,figureOfMerit,blades,hubRadius,tipRadius,ductLength,ductLipRadius\n")
	for cand := range candChan {
		g := cand.Geometry
		r := cand.Result
		f.WriteString(fmt.Sprintf("%d,%.4f,%.4f,%.4f,%.4f,%.6f,%.4f,%.4f,%.4f,%d,%.5f,%.5f,%.5f,%.5f\n",
			cand.Trial, cand.Score, r.TotalThrust, r.FanThrust, r.DuctThrust, r.Torque, r.Power, r.Efficiency, r.FigureOfMerit,
			g.NumBlades, g.HubRadius, g.TipRadius, g.DuctLength, g.DuctLipRadius))
	}
}

package ductprop

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RPMSweep evaluates the rotor over a range of rotation speeds at otherwise
// fixed conditions. The returned slices are aligned with rpms.
func RPMSweep(solver *BEMTSolver, geom *RotorGeometry, cond OperatingCondition, rpms []float64) (thrust, power []float64) {
	thrust = make([]float64, len(rpms))
	power = make([]float64, len(rpms))
	for i, rpm := range rpms {
		c := cond
		c.RPM = rpm
		res := solver.Solve(geom, c)
		thrust[i] = res.TotalThrust
		power[i] = res.Power
	}
	return thrust, power
}

// ExportSweepPlot renders a thrust and power curve over RPM to an image
// file. Thrust reads on the left axis in newtons, power is drawn on the
// same axes in watts with a dashed line.
func ExportSweepPlot(rpms, thrust, power []float64, title, filename string) error {
	if len(rpms) != len(thrust) || len(rpms) != len(power) {
		return fmt.Errorf("plot: mismatched sweep lengths (%d rpms, %d thrust, %d power)", len(rpms), len(thrust), len(power))
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "RPM"
	p.Y.Label.Text = "Thrust (N) / Power (W)"
	p.Legend.Top = true
	p.Legend.Left = true

	thrustPts := make(plotter.XYs, len(rpms))
	powerPts := make(plotter.XYs, len(rpms))
	for i, rpm := range rpms {
		thrustPts[i] = plotter.XY{X: rpm, Y: thrust[i]}
		powerPts[i] = plotter.XY{X: rpm, Y: power[i]}
	}

	thrustLine, err := plotter.NewLine(thrustPts)
	if err != nil {
		return err
	}
	thrustLine.LineStyle.Width = vg.Points(2)
	thrustLine.LineStyle.Color = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	p.Add(thrustLine)
	p.Legend.Add("thrust", thrustLine)

	powerLine, err := plotter.NewLine(powerPts)
	if err != nil {
		return err
	}
	powerLine.LineStyle.Width = vg.Points(2)
	powerLine.LineStyle.Color = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	powerLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(powerLine)
	p.Legend.Add("power", powerLine)

	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if filepath.Ext(filename) == "" {
		filename += ".png"
	}
	return p.Save(8*vg.Inch, 6*vg.Inch, filename)
}

// ExportBladePlot renders the pitch and chord distributions of a blade to
// an image file, chord in millimeters against the radial station.
func ExportBladePlot(geom *RotorGeometry, stations int, filename string) error {
	sections := BladeSections(geom, stations)
	pitchPts := make(plotter.XYs, len(sections))
	chordPts := make(plotter.XYs, len(sections))
	for i, sec := range sections {
		pitchPts[i] = plotter.XY{X: sec.RadiusMM, Y: sec.PitchDeg}
		chordPts[i] = plotter.XY{X: sec.RadiusMM, Y: sec.ChordMM}
	}

	p := plot.New()
	p.Title.Text = "Blade distributions"
	p.X.Label.Text = "Radius (mm)"
	p.Y.Label.Text = "Pitch (deg) / Chord (mm)"
	p.Legend.Top = true

	pitchLine, err := plotter.NewLine(pitchPts)
	if err != nil {
		return err
	}
	pitchLine.LineStyle.Width = vg.Points(2)
	pitchLine.LineStyle.Color = color.RGBA{B: 139, A: 255}
	p.Add(pitchLine)
	p.Legend.Add("pitch", pitchLine)

	chordLine, err := plotter.NewLine(chordPts)
	if err != nil {
		return err
	}
	chordLine.LineStyle.Width = vg.Points(2)
	chordLine.LineStyle.Color = color.RGBA{R: 139, G: 69, B: 19, A: 255}
	p.Add(chordLine)
	p.Legend.Add("chord", chordLine)

	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return p.Save(8*vg.Inch, 6*vg.Inch, filename)
}

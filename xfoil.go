package ductprop

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// XFOILRunner drives an external XFOIL binary in batch mode to build polar
// files for the airfoil database. Each run loads a .dat coordinate file,
// repanels it, runs a viscous angle of attack sweep and accumulates the
// polar into a file which is then rewritten as a clean CSV.
type XFOILRunner struct {
	// Path to the xfoil binary. Defaults to "xfoil" on the PATH.
	Path string
	// Timeout per batch run. XFOIL can spin on unconverged points, so a
	// run which exceeds this is killed. Defaults to one minute.
	Timeout time.Duration
	// Panels used when repaneling the loaded coordinates. Low Reynolds
	// cases converge better with a finer paneling. Defaults to 250.
	Panels int
	// Viscous iteration limit per angle of attack. Defaults to 100.
	Iterations int
}

func (x XFOILRunner) path() string {
	if x.Path == "" {
		return "xfoil"
	}
	return x.Path
}

func (x XFOILRunner) timeout() time.Duration {
	if x.Timeout <= 0 {
		return time.Minute
	}
	return x.Timeout
}

func (x XFOILRunner) panels() int {
	if x.Panels <= 0 {
		return 250
	}
	return x.Panels
}

func (x XFOILRunner) iterations() int {
	if x.Iterations <= 0 {
		return 100
	}
	return x.Iterations
}

// script builds the command stream fed to XFOIL on stdin.
func (x XFOILRunner) script(airfoil, datPath, polPath string, reynolds float64, grid AoAGrid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "LOAD %s\n", datPath)
	fmt.Fprintf(&b, "%s\n", airfoil)
	fmt.Fprintf(&b, "GDES\n")
	fmt.Fprintf(&b, "PANE\n")
	fmt.Fprintf(&b, "%d\n", x.panels())
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "OPER\n")
	fmt.Fprintf(&b, "VISC %.0f\n", reynolds)
	fmt.Fprintf(&b, "ITER %d\n", x.iterations())
	fmt.Fprintf(&b, "PACC\n")
	fmt.Fprintf(&b, "%s\n", polPath)
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "ASEQ %g %g %g\n", grid.Min, grid.Max, grid.Step)
	fmt.Fprintf(&b, "PACC\n")
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "QUIT\n")
	return b.String()
}

// GeneratePolar runs one XFOIL batch for the given airfoil at one Reynolds
// number and writes the resulting polar to csvPath in the database layout
// read by LoadAirfoilTable. Unconverged angles are simply absent from the
// accumulated polar, so the CSV may cover less than the requested sweep.
func (x XFOILRunner) GeneratePolar(ctx context.Context, airfoil, datPath string, reynolds float64, grid AoAGrid, csvPath string) error {
	if _, err := os.Stat(datPath); err != nil {
		return fmt.Errorf("xfoil: coordinates for %s: %w", airfoil, err)
	}
	tmp, err := os.MkdirTemp("", "xfoilrun")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)
	polPath := filepath.Join(tmp, "accum.pol")

	runCtx, cancel := context.WithTimeout(ctx, x.timeout())
	defer cancel()
	cmd := exec.CommandContext(runCtx, x.path())
	cmd.Stdin = strings.NewReader(x.script(airfoil, datPath, polPath, reynolds, grid))
	if out, err := cmd.CombinedOutput(); err != nil {
		tail := string(out)
		if len(tail) > 500 {
			tail = tail[len(tail)-500:]
		}
		return fmt.Errorf("xfoil: %s at Re %.0f: %w\n%s", airfoil, reynolds, err, tail)
	}

	pts, err := ReadPolarFile(polPath)
	if err != nil {
		return fmt.Errorf("xfoil: %s at Re %.0f left no polar: %w", airfoil, reynolds, err)
	}
	return WritePolarCSV(csvPath, pts)
}

// PolarFileName returns the database file name for one airfoil and Reynolds
// number, e.g. "naca4412_re_50000.csv".
func PolarFileName(airfoil string, reynolds float64) string {
	return fmt.Sprintf("%s_re_%.0f.csv", strings.ToLower(airfoil), reynolds)
}

// GenerateDatabase sweeps every airfoil over every Reynolds number, writing
// one CSV per pair into outDir. Coordinate files are looked up in datDir as
// <airfoil>.dat. Failures are collected and reported at the end so a single
// stubborn case does not abort the whole database build.
func (x XFOILRunner) GenerateDatabase(ctx context.Context, airfoils []string, reynolds []float64, datDir, outDir string, grid AoAGrid) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	var failures []string
	for _, name := range airfoils {
		datPath := filepath.Join(datDir, strings.ToLower(name)+".dat")
		for _, re := range reynolds {
			csvPath := filepath.Join(outDir, PolarFileName(name, re))
			if err := x.GeneratePolar(ctx, name, datPath, re, grid, csvPath); err != nil {
				failures = append(failures, err.Error())
			}
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("xfoil: %d of %d runs failed:\n%s", len(failures), len(airfoils)*len(reynolds), strings.Join(failures, "\n"))
	}
	return nil
}

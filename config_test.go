package ductprop

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const sampleScenario = `
[general]
output_dir = "./out"
verbose = true

[condition]
velocity = 0.0
rpm = 15000.0
elements = 25

[airfoils]
database = "polars"
xfoil = "/usr/local/bin/xfoil"
names = ["naca4412", "e63"]
reynolds = [10000, 50000.0, 100000]
aoa_min = -4.0
aoa_max = 14.0
aoa_step = 1.0

[rotor]
blades = 3
hub_radius = 0.019
tip_radius = 0.127
duct_length = 0.05
duct_lip_radius = 0.004

[rotor.shape]
radii = [0.019, 0.07, 0.127]
pitch = [25.0, 20.0, 15.0]
chord = [0.03, 0.035, 0.02]

[rotor.airfoils]
radii = [0.019, 0.127]
names = ["naca4412", "e63"]

[search]
trials = 200
seed = 7
tip_radius = 0.038
blades_min = 2
blades_max = 5
hub_min = 0.0015
hub_max = 0.0019
duct_length_max = 0.038
duct_lip_max = 0.01
chord_min = 0.002
chord_max = 0.005
pitch_min = 5.0
pitch_max = 35.0
control_points = 5
airfoils = ["naca4412"]
power_limit = 3.26
thrust_floor = 0.196
min_thickness = 0.0003
`

func writeScenario(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, "hover.toml", sampleScenario)
	s, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.OutputDir != "./out" || !s.Verbose {
		t.Fatalf("general section misread: %+v", s)
	}
	if s.Condition.RPM != 15000 || s.Condition.Elements != 25 {
		t.Fatalf("condition misread: %+v", s.Condition)
	}
	if !scalar.EqualWithinAbs(s.Condition.Density, 1.225, 1e-12) {
		t.Fatalf("expected standard density default, got %f", s.Condition.Density)
	}
	if s.Grid.Min != -4 || s.Grid.Max != 14 || s.Grid.Step != 1 {
		t.Fatalf("grid misread: %+v", s.Grid)
	}
	if len(s.ReynoldsNs) != 3 || s.ReynoldsNs[1] != 50000 {
		t.Fatalf("reynolds misread: %v", s.ReynoldsNs)
	}
	if s.Geometry == nil {
		t.Fatal("expected rotor geometry")
	}
	if s.Geometry.NumBlades != 3 || s.Geometry.TipRadius != 0.127 {
		t.Fatalf("rotor misread: %s", s.Geometry)
	}
	if got := s.Geometry.AirfoilAt(0.120); got != "e63" {
		t.Fatalf("expected e63 near the tip, got %s", got)
	}
	if s.Trials != 200 || s.Seed != 7 {
		t.Fatalf("search run parameters misread: trials=%d seed=%d", s.Trials, s.Seed)
	}
	if s.Space.BladesMax != 5 || s.Space.Elements != 25 {
		t.Fatalf("search space misread: %+v", s.Space)
	}
	if s.Constraints.PowerLimit != 3.26 {
		t.Fatalf("constraints misread: %+v", s.Constraints)
	}
}

func TestLoadScenarioSuffixOptional(t *testing.T) {
	path := writeScenario(t, "hover.toml", sampleScenario)
	bare := path[:len(path)-len(".toml")]
	if _, err := LoadScenario(bare); err != nil {
		t.Fatal(err)
	}
}

func TestLoadScenarioMissing(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected an error for a missing scenario")
	}
}

func TestLoadScenarioBadRotor(t *testing.T) {
	body := `
[rotor]
blades = 0
hub_radius = 0.019
tip_radius = 0.127
[rotor.shape]
radii = [0.019, 0.127]
pitch = [25.0, 15.0]
chord = [0.03, 0.02]
[rotor.airfoils]
radii = [0.019]
names = ["naca4412"]
`
	path := writeScenario(t, "bad.toml", body)
	if _, err := LoadScenario(path); err == nil {
		t.Fatal("expected a geometry validation error")
	}
}

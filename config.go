package ductprop

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Scenario is a fully parsed TOML scenario file. The rotor section is
// optional (a search scenario has no fixed geometry), in which case Geometry
// is nil.
type Scenario struct {
	OutputDir string
	Verbose   bool

	Geometry  *RotorGeometry
	Condition OperatingCondition

	Grid        AoAGrid
	DatabaseDir string
	DatDir      string

	// Polar generation (cmd/polargen).
	XFOILPath  string
	Airfoils   []string
	ReynoldsNs []float64

	// Search (cmd/designer).
	Space       SearchSpace
	Constraints DesignConstraints
	Trials      int
	Seed        int64
}

// LoadScenario reads a TOML scenario. The path may omit the .toml suffix,
// matching how the binaries take their -scenario flag.
func LoadScenario(path string) (*Scenario, error) {
	path = strings.TrimSuffix(path, ".toml")
	v := viper.New()
	v.SetConfigName(filepath.Base(path))
	dir := filepath.Dir(path)
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s.toml: %w", path, err)
	}

	s := &Scenario{
		OutputDir:   v.GetString("general.output_dir"),
		Verbose:     v.GetBool("general.verbose"),
		DatabaseDir: v.GetString("airfoils.database"),
		DatDir:      v.GetString("airfoils.dat_dir"),
		XFOILPath:   v.GetString("airfoils.xfoil"),
		Airfoils:    v.GetStringSlice("airfoils.names"),
		Trials:      v.GetInt("search.trials"),
		Seed:        v.GetInt64("search.seed"),
	}
	if s.OutputDir == "" {
		s.OutputDir = "./"
	}
	if s.XFOILPath == "" {
		s.XFOILPath = "xfoil"
	}
	s.ReynoldsNs = confFloats(v, "airfoils.reynolds")

	s.Grid = AoAGrid{
		Min:  v.GetFloat64("airfoils.aoa_min"),
		Max:  v.GetFloat64("airfoils.aoa_max"),
		Step: v.GetFloat64("airfoils.aoa_step"),
	}
	if s.Grid.Step <= 0 {
		s.Grid = DefaultAoAGrid
	}

	s.Condition = OperatingCondition{
		Velocity:  v.GetFloat64("condition.velocity"),
		RPM:       v.GetFloat64("condition.rpm"),
		Density:   v.GetFloat64("condition.density"),
		Viscosity: v.GetFloat64("condition.viscosity"),
		Elements:  v.GetInt("condition.elements"),
	}
	if s.Condition.Density == 0 {
		s.Condition.Density = 1.225
	}
	if s.Condition.Viscosity == 0 {
		s.Condition.Viscosity = 1.4607e-5
	}

	if v.IsSet("rotor") {
		geom, err := NewRotorGeometry(
			v.GetFloat64("rotor.hub_radius"),
			v.GetFloat64("rotor.tip_radius"),
			v.GetInt("rotor.blades"),
			v.GetFloat64("rotor.duct_length"),
			v.GetFloat64("rotor.duct_lip_radius"),
			confFloats(v, "rotor.shape.radii"),
			confFloats(v, "rotor.shape.pitch"),
			confFloats(v, "rotor.shape.chord"),
			confFloats(v, "rotor.airfoils.radii"),
			v.GetStringSlice("rotor.airfoils.names"),
		)
		if err != nil {
			return nil, fmt.Errorf("rotor: %w", err)
		}
		s.Geometry = geom
	}

	if v.IsSet("search") {
		s.Space = SearchSpace{
			TipRadius:     v.GetFloat64("search.tip_radius"),
			BladesMin:     v.GetInt("search.blades_min"),
			BladesMax:     v.GetInt("search.blades_max"),
			HubMin:        v.GetFloat64("search.hub_min"),
			HubMax:        v.GetFloat64("search.hub_max"),
			DuctLengthMax: v.GetFloat64("search.duct_length_max"),
			DuctLipMax:    v.GetFloat64("search.duct_lip_max"),
			ChordMin:      v.GetFloat64("search.chord_min"),
			ChordMax:      v.GetFloat64("search.chord_max"),
			PitchMin:      v.GetFloat64("search.pitch_min"),
			PitchMax:      v.GetFloat64("search.pitch_max"),
			ControlPoints: v.GetInt("search.control_points"),
			Airfoils:      v.GetStringSlice("search.airfoils"),
			Elements:      s.Condition.Elements,
		}
		s.Constraints = DesignConstraints{
			PowerLimit:   v.GetFloat64("search.power_limit"),
			ThrustFloor:  v.GetFloat64("search.thrust_floor"),
			MinThickness: v.GetFloat64("search.min_thickness"),
		}
	}
	return s, nil
}

// confFloats reads a numeric array regardless of how the TOML values were
// typed (integers, floats or quoted numbers).
func confFloats(v *viper.Viper, key string) []float64 {
	raw, ok := v.Get(key).([]interface{})
	if !ok {
		return nil
	}
	vals := make([]float64, 0, len(raw))
	for _, item := range raw {
		switch n := item.(type) {
		case float64:
			vals = append(vals, n)
		case float32:
			vals = append(vals, float64(n))
		case int:
			vals = append(vals, float64(n))
		case int64:
			vals = append(vals, float64(n))
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				vals = append(vals, f)
			}
		}
	}
	return vals
}

package ductprop

// infeasiblePenalty is the objective score of designs rejected before they
// are even solved (e.g. unbuildable blade thickness).
const infeasiblePenalty = -9999.0

// DesignConstraints bound a design-space search: a hard power ceiling, a
// minimum thrust floor, and a minimum absolute blade thickness for
// manufacturability.
type DesignConstraints struct {
	PowerLimit   float64 // W
	ThrustFloor  float64 // N
	MinThickness float64 // m, smallest printable blade thickness
}

// Objective maps the solved performance onto the scalar the search maximizes:
// thrust, with a penalty gradient below the thrust floor and above the power
// ceiling so infeasible regions still rank against each other.
func (c DesignConstraints) Objective(res PerformanceResult) float64 {
	if c.PowerLimit > 0 && res.Power > c.PowerLimit {
		return c.ThrustFloor - (res.Power - c.PowerLimit)
	}
	if res.TotalThrust < c.ThrustFloor {
		return res.TotalThrust
	}
	return res.TotalThrust
}

// Meets reports whether the score clears the thrust floor, i.e. whether the
// winning candidate of a search is actually acceptable.
func (c DesignConstraints) Meets(score float64) bool {
	return score >= c.ThrustFloor
}

// Buildable checks the absolute blade thickness (chord × thickness ratio) of
// every element against the manufacturing floor.
func (c DesignConstraints) Buildable(geom *RotorGeometry, elements int) bool {
	if c.MinThickness <= 0 {
		return true
	}
	if elements <= 0 {
		elements = defaultElements
	}
	bounds := linspace(geom.HubRadius, geom.TipRadius, elements+1)
	for i := 0; i < elements; i++ {
		r := (bounds[i] + bounds[i+1]) / 2
		if geom.Chord(r)*ThicknessRatio(geom.AirfoilAt(r)) < c.MinThickness {
			return false
		}
	}
	return true
}

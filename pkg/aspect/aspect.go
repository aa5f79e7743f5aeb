package aspect

import (
	"math"

	"github.com/matzehuels/chartwheel/pkg/chart"
)

// Type names an aspect.
type Type string

// Aspect types.
const (
	Conjunction Type = "conjunction"
	Opposition  Type = "opposition"
	Trine       Type = "trine"
	Square      Type = "square"
	Sextile     Type = "sextile"
)

// Definition pairs an aspect type with its canonical angle.
type Definition struct {
	Type  Type
	Angle float64
}

// Priority is the order in which aspect types are tested. The first type whose
// orb window contains the separation wins, even if a later type would match
// more closely.
var Priority = []Definition{
	{Conjunction, 0},
	{Opposition, 180},
	{Trine, 120},
	{Square, 90},
	{Sextile, 60},
}

// Major is the fixed set used by "major aspects only" filters.
var Major = map[Type]bool{
	Conjunction: true,
	Opposition:  true,
	Trine:       true,
	Square:      true,
	Sextile:     true,
}

const (
	// ExactThreshold is the orb below which an aspect is flagged exact.
	ExactThreshold = 0.1

	// projectionStep is how far ahead (in days) the applying test looks.
	projectionStep = 0.1

	// stationarySpeed is the relative speed (deg/day) below which the
	// stationary fallback applies.
	stationarySpeed = 0.01

	// stationaryWindow is how close before exactness a stationary pair must
	// be to count as applying.
	stationaryWindow = 0.5
)

// Orbs maps aspect types to their allowed deviation in degrees.
type Orbs map[Type]float64

// OrbsFromSettings converts chart settings into an Orbs table.
func OrbsFromSettings(s chart.Settings) Orbs {
	orbs := make(Orbs, len(Priority))
	for _, def := range Priority {
		orbs[def.Type] = s.Orb(string(def.Type))
	}
	return orbs
}

// orb returns the configured orb for t or chart.DefaultOrb.
func (o Orbs) orb(t Type) float64 {
	if v, ok := o[t]; ok {
		return v
	}
	return chart.DefaultOrb
}

// Core is a classified relationship between two longitudes.
type Core struct {
	Type       Type    `json:"type"`
	ExactAngle float64 `json:"exact_angle"`
	Orb        float64 `json:"orb"`
	Applying   bool    `json:"applying"`
	Exact      bool    `json:"exact"`
}

// Calculate classifies the relationship between two bodies. It returns false
// when no aspect type's orb window contains their separation.
func Calculate(lon1, lon2, speed1, speed2 float64, orbs Orbs) (Core, bool) {
	lon1 = chart.Normalize(lon1)
	lon2 = chart.Normalize(lon2)

	angleDiff := math.Abs(lon1 - lon2)
	if angleDiff > 180 {
		angleDiff = 360 - angleDiff
	}

	for _, def := range Priority {
		deviation := math.Abs(angleDiff - def.Angle)
		if deviation > orbs.orb(def.Type) {
			continue
		}
		return Core{
			Type:       def.Type,
			ExactAngle: def.Angle,
			Orb:        deviation,
			Applying:   isApplying(lon1, lon2, speed1, speed2, def.Angle),
			Exact:      deviation < ExactThreshold,
		}, true
	}
	return Core{}, false
}

// isApplying projects the separation forward by projectionStep days and
// reports whether it moves toward the exact angle.
func isApplying(lon1, lon2, speed1, speed2, exact float64) bool {
	signed := chart.NormalizeSigned(lon1 - lon2)
	current := math.Abs(signed)
	relative := speed1 - speed2

	if math.Abs(relative) < stationarySpeed {
		return current < exact && exact-current <= stationaryWindow
	}

	projected := math.Abs(chart.NormalizeSigned(signed + relative*projectionStep))
	return math.Abs(projected-exact) < math.Abs(current-exact)
}

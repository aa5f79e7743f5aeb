package chart

import (
	"slices"

	"github.com/creasty/defaults"

	"github.com/matzehuels/chartwheel/pkg/errors"
)

// ZodiacMode selects the reference frame for longitudes.
type ZodiacMode string

// Zodiac modes.
const (
	ZodiacTropical ZodiacMode = "tropical"
	ZodiacSidereal ZodiacMode = "sidereal"
)

// DefaultOrb is used for any aspect type without a configured orb.
const DefaultOrb = 8.0

// DefaultAyanamsa is the Lahiri ayanamsa near J2000, used in sidereal mode
// when none is configured.
const DefaultAyanamsa = 23.85

// CollisionConfig controls glyph collision resolution on planet rings.
type CollisionConfig struct {
	Enabled bool    `json:"enabled" toml:"enabled" yaml:"enabled"`
	Radius  float64 `json:"radius" toml:"radius" yaml:"radius" default:"12" validate:"gt=0"` // glyph footprint radius at scale 1
	Scale   float64 `json:"scale" toml:"scale" yaml:"scale" default:"1" validate:"gt=0"`
	Debug   bool    `json:"debug,omitempty" toml:"debug" yaml:"debug,omitempty"`
}

// FootprintRadius is the glyph radius after scaling.
func (c CollisionConfig) FootprintRadius() float64 {
	return c.Radius * c.Scale
}

// Settings carries per-request chart options.
type Settings struct {
	ZodiacMode     ZodiacMode         `json:"zodiac_mode" toml:"zodiac_mode" yaml:"zodiac_mode" default:"tropical" validate:"oneof=tropical sidereal"`
	Ayanamsa       float64            `json:"ayanamsa,omitempty" toml:"ayanamsa" yaml:"ayanamsa,omitempty" validate:"gte=0,lt=360"`
	Orbs           map[string]float64 `json:"orbs,omitempty" toml:"orbs" yaml:"orbs,omitempty" validate:"dive,keys,oneof=conjunction opposition trine square sextile,endkeys,gte=0,lte=30"`
	IncludeObjects []string           `json:"include_objects,omitempty" toml:"include_objects" yaml:"include_objects,omitempty"`
	IncludeAngles  bool               `json:"include_angles,omitempty" toml:"include_angles" yaml:"include_angles,omitempty"`
	Collision      CollisionConfig    `json:"collision" toml:"collision" yaml:"collision"`
}

// Normalize applies defaults and validates the settings.
// It is idempotent.
func (s *Settings) Normalize() error {
	if err := defaults.Set(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSettings, err, "apply defaults")
	}
	if s.ZodiacMode == ZodiacSidereal && s.Ayanamsa == 0 {
		s.Ayanamsa = DefaultAyanamsa
	}
	return errors.ValidateStruct(s, errors.ErrCodeInvalidSettings)
}

// Orb returns the configured orb for an aspect type, or DefaultOrb.
func (s Settings) Orb(aspectType string) float64 {
	if orb, ok := s.Orbs[aspectType]; ok {
		return orb
	}
	return DefaultOrb
}

// Includes reports whether id participates given IncludeObjects.
// An empty list includes everything.
func (s Settings) Includes(id string) bool {
	return len(s.IncludeObjects) == 0 || slices.Contains(s.IncludeObjects, id)
}

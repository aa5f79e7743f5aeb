package chart

import (
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/matzehuels/chartwheel/pkg/errors"
)

// LayerKind classifies the moment a layer describes.
type LayerKind string

// Layer kinds.
const (
	LayerNatal      LayerKind = "natal"
	LayerTransit    LayerKind = "transit"
	LayerProgressed LayerKind = "progressed"
	LayerSynastry   LayerKind = "synastry"
	LayerComposite  LayerKind = "composite"
	LayerVarga      LayerKind = "varga"
	LayerCustom     LayerKind = "custom"
)

// ObjectKind distinguishes bodies from calculated points such as the angles.
type ObjectKind string

// Object kinds.
const (
	ObjectPlanet ObjectKind = "planet"
	ObjectPoint  ObjectKind = "point"
)

// Angle point ids, used as object ids when angles are placed on a ring.
const (
	AngleAscendant  = "asc"
	AngleMidheaven  = "mc"
	AngleImumCoeli  = "ic"
	AngleDescendant = "dsc"
)

// Position is a body's place on the ecliptic.
type Position struct {
	Longitude  float64 `json:"longitude" toml:"longitude" yaml:"longitude"`
	Latitude   float64 `json:"latitude,omitempty" toml:"latitude" yaml:"latitude,omitempty"`
	Speed      float64 `json:"speed,omitempty" toml:"speed" yaml:"speed,omitempty"` // degrees per day, negative when retrograde
	Retrograde bool    `json:"retrograde,omitempty" toml:"retrograde" yaml:"retrograde,omitempty"`
}

// Location is the observer's place on Earth.
type Location struct {
	Name      string  `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Latitude  float64 `json:"latitude" toml:"latitude" yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" toml:"longitude" yaml:"longitude" validate:"gte=-180,lte=180"`
}

// Angles holds the four chart angles.
type Angles struct {
	Ascendant  float64 `json:"ascendant" toml:"ascendant" yaml:"ascendant"`
	Midheaven  float64 `json:"midheaven" toml:"midheaven" yaml:"midheaven"`
	ImumCoeli  float64 `json:"imum_coeli" toml:"imum_coeli" yaml:"imum_coeli"`
	Descendant float64 `json:"descendant" toml:"descendant" yaml:"descendant"`
}

// AnglePoint is one chart angle expressed as a placeable point.
type AnglePoint struct {
	ID        string
	Longitude float64
}

// Points returns the angles in ascendant, midheaven, imum coeli, descendant order.
func (a Angles) Points() []AnglePoint {
	return []AnglePoint{
		{ID: AngleAscendant, Longitude: a.Ascendant},
		{ID: AngleMidheaven, Longitude: a.Midheaven},
		{ID: AngleImumCoeli, Longitude: a.ImumCoeli},
		{ID: AngleDescendant, Longitude: a.Descendant},
	}
}

// HouseData holds house cusps keyed by house number ("1".."12") and the angles.
type HouseData struct {
	System string             `json:"system,omitempty" toml:"system" yaml:"system,omitempty"`
	Cusps  map[string]float64 `json:"cusps" toml:"cusps" yaml:"cusps"`
	Angles Angles             `json:"angles" toml:"angles" yaml:"angles"`
}

// Cusp is a parsed house cusp.
type Cusp struct {
	Number    int     // 1..12
	Longitude float64 // normalized
}

// CuspList returns the valid cusps sorted by house number. Keys that are not
// integers in 1..12 are skipped.
func (h *HouseData) CuspList() []Cusp {
	if h == nil {
		return nil
	}
	cusps := make([]Cusp, 0, len(h.Cusps))
	for key, lon := range h.Cusps {
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || n > 12 {
			continue
		}
		cusps = append(cusps, Cusp{Number: n, Longitude: Normalize(lon)})
	}
	sort.Slice(cusps, func(i, j int) bool { return cusps[i].Number < cusps[j].Number })
	return cusps
}

// Layer is a named snapshot of positions.
type Layer struct {
	ID        string              `json:"id" toml:"id" yaml:"id" validate:"required"`
	Kind      LayerKind           `json:"kind,omitempty" toml:"kind" yaml:"kind,omitempty"`
	Timestamp time.Time           `json:"timestamp,omitzero" toml:"timestamp" yaml:"timestamp,omitempty"`
	Location  *Location           `json:"location,omitempty" toml:"location" yaml:"location,omitempty"`
	Positions map[string]Position `json:"positions" toml:"positions" yaml:"positions"`
	Houses    *HouseData          `json:"houses,omitempty" toml:"houses" yaml:"houses,omitempty"`
}

// ObjectIDs returns the layer's body ids in sorted order.
func (l Layer) ObjectIDs() []string {
	ids := make([]string, 0, len(l.Positions))
	for id := range l.Positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// HasHouses reports whether the layer carries at least one usable cusp.
func (l Layer) HasHouses() bool {
	return len(l.Houses.CuspList()) > 0
}

// Validate checks identifiers and struct constraints.
func (l Layer) Validate() error {
	if err := errors.ValidateLayerID(l.ID); err != nil {
		return err
	}
	for _, id := range l.ObjectIDs() {
		if err := errors.ValidateObjectID(id); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayer, err, "layer %s", l.ID)
		}
	}
	if l.Location != nil {
		if err := errors.ValidateStruct(l.Location, errors.ErrCodeInvalidLayer); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayer, err, "layer %s", l.ID)
		}
	}
	return nil
}

// Clone returns a deep copy of the layer.
func (l Layer) Clone() Layer {
	out := l
	if l.Location != nil {
		loc := *l.Location
		out.Location = &loc
	}
	out.Positions = make(map[string]Position, len(l.Positions))
	for id, p := range l.Positions {
		out.Positions[id] = p
	}
	if l.Houses != nil {
		h := *l.Houses
		h.Cusps = make(map[string]float64, len(l.Houses.Cusps))
		for k, v := range l.Houses.Cusps {
			h.Cusps[k] = v
		}
		out.Houses = &h
	}
	return out
}

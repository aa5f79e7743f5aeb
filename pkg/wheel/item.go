package wheel

import (
	"encoding/json"

	"github.com/matzehuels/chartwheel/pkg/aspect"
	"github.com/matzehuels/chartwheel/pkg/chart"
	"github.com/matzehuels/chartwheel/pkg/errors"
)

// ItemKind names an Item variant.
type ItemKind string

// Item kinds.
const (
	ItemSignSegment ItemKind = "sign-segment"
	ItemHouseCusp   ItemKind = "house-cusp"
	ItemPlanet      ItemKind = "planet"
	ItemAspectLink  ItemKind = "aspect-link"
)

// Item is one element of a ring. The set of implementations is closed.
type Item interface {
	ItemID() string
	ItemKind() ItemKind
	isItem()
}

// SignSegment is a fixed arc of the zodiac, either a sign or a nakshatra.
type SignSegment struct {
	ID             string  `json:"id"`
	Index          int     `json:"index"`
	Name           string  `json:"name"`
	Glyph          string  `json:"glyph,omitempty"`
	StartLongitude float64 `json:"start_longitude"`
	EndLongitude   float64 `json:"end_longitude"`
}

// HouseCusp marks the start of a house.
type HouseCusp struct {
	ID         string  `json:"id"`
	LayerID    string  `json:"layer_id"`
	HouseIndex int     `json:"house_index"` // zero-based
	Longitude  float64 `json:"longitude"`
	SignIndex  int     `json:"sign_index"`
	SignDegree float64 `json:"sign_degree"`
}

// PlanetItem is a body or chart angle placed on a ring.
type PlanetItem struct {
	ID         string           `json:"id"`
	LayerID    string           `json:"layer_id"`
	ObjectID   string           `json:"object_id"`
	ObjectKind chart.ObjectKind `json:"object_kind"`
	Longitude  float64          `json:"longitude"`
	Latitude   float64          `json:"latitude"`
	Speed      float64          `json:"speed"`
	Retrograde bool             `json:"retrograde"`
	SignIndex  int              `json:"sign_index"`
	SignDegree float64          `json:"sign_degree"`
	HouseIndex *int             `json:"house_index,omitempty"` // nil without house data

	// DisplayLongitude is set only when collision resolution moved the glyph.
	DisplayLongitude *float64 `json:"display_longitude,omitempty"`
}

// Endpoint locates one side of an aspect link on an already built ring.
type Endpoint struct {
	RingID    string  `json:"ring_id"`
	ItemID    string  `json:"item_id"`
	LayerID   string  `json:"layer_id"`
	ObjectID  string  `json:"object_id"`
	Longitude float64 `json:"longitude"`
}

// AspectLink connects two planet items.
type AspectLink struct {
	ID     string      `json:"id"`
	SetID  string      `json:"set_id"`
	Aspect aspect.Core `json:"aspect"`
	From   Endpoint    `json:"from"`
	To     Endpoint    `json:"to"`
}

func (s SignSegment) ItemID() string { return s.ID }
func (h HouseCusp) ItemID() string   { return h.ID }
func (p PlanetItem) ItemID() string  { return p.ID }
func (a AspectLink) ItemID() string  { return a.ID }

func (SignSegment) ItemKind() ItemKind { return ItemSignSegment }
func (HouseCusp) ItemKind() ItemKind   { return ItemHouseCusp }
func (PlanetItem) ItemKind() ItemKind  { return ItemPlanet }
func (AspectLink) ItemKind() ItemKind  { return ItemAspectLink }

func (SignSegment) isItem() {}
func (HouseCusp) isItem()   {}
func (PlanetItem) isItem()  {}
func (AspectLink) isItem()  {}

// =============================================================================
// JSON
// =============================================================================

// MarshalJSON adds the "kind" discriminator.
func (s SignSegment) MarshalJSON() ([]byte, error) {
	type alias SignSegment
	return json.Marshal(struct {
		Kind ItemKind `json:"kind"`
		alias
	}{ItemSignSegment, alias(s)})
}

// MarshalJSON adds the "kind" discriminator.
func (h HouseCusp) MarshalJSON() ([]byte, error) {
	type alias HouseCusp
	return json.Marshal(struct {
		Kind ItemKind `json:"kind"`
		alias
	}{ItemHouseCusp, alias(h)})
}

// MarshalJSON adds the "kind" discriminator.
func (p PlanetItem) MarshalJSON() ([]byte, error) {
	type alias PlanetItem
	return json.Marshal(struct {
		Kind ItemKind `json:"kind"`
		alias
	}{ItemPlanet, alias(p)})
}

// MarshalJSON adds the "kind" discriminator.
func (a AspectLink) MarshalJSON() ([]byte, error) {
	type alias AspectLink
	return json.Marshal(struct {
		Kind ItemKind `json:"kind"`
		alias
	}{ItemAspectLink, alias(a)})
}

// decodeItem reads one item by its "kind" field.
func decodeItem(data []byte) (Item, error) {
	var head struct {
		Kind ItemKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Kind {
	case ItemSignSegment:
		var v SignSegment
		err := json.Unmarshal(data, &v)
		return v, err
	case ItemHouseCusp:
		var v HouseCusp
		err := json.Unmarshal(data, &v)
		return v, err
	case ItemPlanet:
		var v PlanetItem
		err := json.Unmarshal(data, &v)
		return v, err
	case ItemAspectLink:
		var v AspectLink
		err := json.Unmarshal(data, &v)
		return v, err
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown ring item kind %q", head.Kind)
}

package varga

import (
	"strconv"
	"strings"

	"github.com/matzehuels/chartwheel/pkg/chart"
	"github.com/matzehuels/chartwheel/pkg/errors"
)

// Division is one divisional chart.
type Division struct {
	ID   string // "D9"
	N    int    // number of parts each sign is divided into
	Name string
}

// Divisions lists the supported divisional charts in ascending order.
var Divisions = []Division{
	{"D1", 1, "Rasi"},
	{"D2", 2, "Hora"},
	{"D3", 3, "Drekkana"},
	{"D4", 4, "Chaturthamsa"},
	{"D7", 7, "Saptamsa"},
	{"D9", 9, "Navamsa"},
	{"D10", 10, "Dasamsa"},
	{"D12", 12, "Dwadasamsa"},
	{"D16", 16, "Shodasamsa"},
	{"D20", 20, "Vimsamsa"},
	{"D24", 24, "Chaturvimsamsa"},
	{"D27", 27, "Bhamsa"},
	{"D30", 30, "Trimsamsa"},
	{"D40", 40, "Khavedamsa"},
	{"D45", 45, "Akshavedamsa"},
	{"D60", 60, "Shashtiamsa"},
}

// Parse looks up a division by id ("D9", "d9", "9") or name ("navamsa").
func Parse(s string) (Division, error) {
	key := strings.TrimSpace(s)
	for _, d := range Divisions {
		if strings.EqualFold(key, d.ID) || strings.EqualFold(key, d.Name) {
			return d, nil
		}
	}
	if n, err := strconv.Atoi(key); err == nil {
		for _, d := range Divisions {
			if d.N == n {
				return d, nil
			}
		}
	}
	return Division{}, errors.New(errors.ErrCodeInvalidInput, "unknown divisional chart %q", s)
}

// Longitude maps lon into the divisional chart with n parts per sign.
// Every part of a sign spans one full sign in the result, so the mapping
// cycles through the zodiac from Aries.
func Longitude(lon float64, n int) float64 {
	return chart.Normalize(chart.Normalize(lon) * float64(n))
}

// SubLayerID is the layer id of the divisional chart derived from layerID.
func SubLayerID(layerID, vargaID string) string {
	if d, err := Parse(vargaID); err == nil {
		vargaID = d.ID
	}
	return layerID + ":" + vargaID
}

// Derive builds the divisional sub-layer of base. Latitude and speed are
// zero; the retrograde flag carries over. When base has houses, the derived
// layer uses whole-sign houses counted from the divisional ascendant.
func Derive(base chart.Layer, d Division) chart.Layer {
	out := chart.Layer{
		ID:        SubLayerID(base.ID, d.ID),
		Kind:      chart.LayerVarga,
		Timestamp: base.Timestamp,
		Positions: make(map[string]chart.Position, len(base.Positions)),
	}
	if base.Location != nil {
		loc := *base.Location
		out.Location = &loc
	}

	for id, p := range base.Positions {
		out.Positions[id] = chart.Position{
			Longitude:  Longitude(p.Longitude, d.N),
			Retrograde: p.Retrograde,
		}
	}

	if base.HasHouses() {
		out.Houses = wholeSignHouses(base.Houses, d.N)
	}
	return out
}

// DeriveAll derives the sub-layers for every id in vargaIDs, keyed by
// sub-layer id.
func DeriveAll(base chart.Layer, vargaIDs []string) (map[string]chart.Layer, error) {
	out := make(map[string]chart.Layer, len(vargaIDs))
	for _, id := range vargaIDs {
		d, err := Parse(id)
		if err != nil {
			return nil, err
		}
		sub := Derive(base, d)
		out[sub.ID] = sub
	}
	return out, nil
}

func wholeSignHouses(h *chart.HouseData, n int) *chart.HouseData {
	asc := Longitude(h.Angles.Ascendant, n)
	first := float64(chart.SignIndex(asc)) * chart.SignWidth

	cusps := make(map[string]float64, 12)
	for i := range 12 {
		cusps[strconv.Itoa(i+1)] = chart.Normalize(first + float64(i)*chart.SignWidth)
	}

	return &chart.HouseData{
		System: "whole-sign",
		Cusps:  cusps,
		Angles: chart.Angles{
			Ascendant:  asc,
			Midheaven:  Longitude(h.Angles.Midheaven, n),
			ImumCoeli:  Longitude(h.Angles.ImumCoeli, n),
			Descendant: Longitude(h.Angles.Descendant, n),
		},
	}
}

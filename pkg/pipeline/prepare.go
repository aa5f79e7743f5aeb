package pipeline

import (
	"slices"

	"github.com/matzehuels/chartwheel/pkg/chart"
	"github.com/matzehuels/chartwheel/pkg/template"
	"github.com/matzehuels/chartwheel/pkg/varga"
)

// Prepared holds the layers the aspect and wheel stages work on.
type Prepared struct {
	// Layers are the input layers, shifted into the configured zodiac.
	Layers []chart.Layer
	// Vargas are the divisional sub-layers the template references, keyed
	// by sub-layer id.
	Vargas map[string]chart.Layer
}

// ByID returns the prepared layers keyed by id.
func (p Prepared) ByID() map[string]chart.Layer {
	out := make(map[string]chart.Layer, len(p.Layers))
	for _, l := range p.Layers {
		out[l.ID] = l
	}
	return out
}

// PrepareLayers converts the input layers to the configured zodiac and
// derives the divisional sub-layers named by the template. Inputs are not
// modified. Varga rings that name a layer the chart lacks are skipped; the
// wheel stage reports those rings as unresolved.
func (r *Runner) PrepareLayers(layers []chart.Layer, settings chart.Settings, doc template.Document) (Prepared, error) {
	p := Prepared{
		Layers: make([]chart.Layer, len(layers)),
		Vargas: make(map[string]chart.Layer),
	}
	for i, l := range layers {
		if settings.ZodiacMode == chart.ZodiacSidereal {
			l = Sidereal(l, settings.Ayanamsa)
		}
		p.Layers[i] = l
	}
	if settings.ZodiacMode == chart.ZodiacSidereal {
		r.Logger.Debug("shifted to sidereal", "ayanamsa", settings.Ayanamsa, "layers", len(layers))
	}

	byID := p.ByID()
	refs := doc.Vargas()
	layerIDs := make([]string, 0, len(refs))
	for id := range refs {
		layerIDs = append(layerIDs, id)
	}
	slices.Sort(layerIDs)

	for _, id := range layerIDs {
		base, ok := byID[id]
		if !ok {
			continue
		}
		derived, err := varga.DeriveAll(base, refs[id])
		if err != nil {
			return Prepared{}, err
		}
		for subID, l := range derived {
			p.Vargas[subID] = l
		}
		r.Logger.Debug("derived vargas", "layer", id, "vargas", refs[id])
	}
	return p, nil
}

// Sidereal returns a copy of l with the ayanamsa subtracted from every
// longitude, house cusp and angle.
func Sidereal(l chart.Layer, ayanamsa float64) chart.Layer {
	out := l.Clone()
	shift := func(lon float64) float64 { return chart.Normalize(lon - ayanamsa) }

	for id, p := range out.Positions {
		p.Longitude = shift(p.Longitude)
		out.Positions[id] = p
	}
	if out.Houses != nil {
		for k, lon := range out.Houses.Cusps {
			out.Houses.Cusps[k] = shift(lon)
		}
		a := &out.Houses.Angles
		a.Ascendant = shift(a.Ascendant)
		a.Midheaven = shift(a.Midheaven)
		a.ImumCoeli = shift(a.ImumCoeli)
		a.Descendant = shift(a.Descendant)
	}
	return out
}

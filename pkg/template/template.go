package template

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/matzehuels/chartwheel/pkg/aspect"
	"github.com/matzehuels/chartwheel/pkg/errors"
	"github.com/matzehuels/chartwheel/pkg/varga"
	"github.com/matzehuels/chartwheel/pkg/wheel"
)

// Source is the file form of a wheel.DataSource. Which fields apply depends
// on Kind.
type Source struct {
	Kind          string   `json:"kind" toml:"kind" yaml:"kind" validate:"required,oneof=static-zodiac static-nakshatra layer-houses layer-planets layer-varga-planets aspect-set"`
	Layer         string   `json:"layer,omitempty" toml:"layer,omitempty" yaml:"layer,omitempty"`
	Varga         string   `json:"varga,omitempty" toml:"varga,omitempty" yaml:"varga,omitempty"`
	Set           string   `json:"set,omitempty" toml:"set,omitempty" yaml:"set,omitempty"`
	Types         []string `json:"types,omitempty" toml:"types,omitempty" yaml:"types,omitempty" validate:"dive,oneof=conjunction opposition trine square sextile"`
	MajorOnly     bool     `json:"major_only,omitempty" toml:"major_only,omitempty" yaml:"major_only,omitempty"`
	IncludeAngles bool     `json:"include_angles,omitempty" toml:"include_angles,omitempty" yaml:"include_angles,omitempty"`
}

// Ring is the file form of a wheel.RingDefinition.
type Ring struct {
	Slug        string  `json:"slug" toml:"slug" yaml:"slug" validate:"required"`
	Type        string  `json:"type" toml:"type" yaml:"type" validate:"required"`
	Label       string  `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	InnerRadius float64 `json:"inner_radius" toml:"inner_radius" yaml:"inner_radius" validate:"gte=0"`
	OuterRadius float64 `json:"outer_radius" toml:"outer_radius" yaml:"outer_radius" validate:"gtfield=InnerRadius"`
	Order       int     `json:"order" toml:"order" yaml:"order"`
	Source      Source  `json:"source" toml:"source" yaml:"source"`
}

// Document is a wheel template as stored on disk.
type Document struct {
	ID          string   `json:"id" toml:"id" yaml:"id" validate:"required"`
	Name        string   `json:"name" toml:"name" yaml:"name" validate:"required"`
	Description string   `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
	Layers      []string `json:"layers,omitempty" toml:"layers,omitempty" yaml:"layers,omitempty"` // layer ids the template expects, informational
	InnerRadius *float64 `json:"inner_radius,omitempty" toml:"inner_radius,omitempty" yaml:"inner_radius,omitempty" validate:"omitnil,gte=0"`
	OuterRadius *float64 `json:"outer_radius,omitempty" toml:"outer_radius,omitempty" yaml:"outer_radius,omitempty" validate:"omitnil,gt=0"`
	Rings       []Ring   `json:"rings" toml:"rings" yaml:"rings" validate:"required,min=1,dive"`
}

// Validate checks struct constraints, identifiers, per-kind required fields
// and ring ordering. Aspect rings whose set id names a layer must come after
// a planet ring for that layer.
func (d Document) Validate() error {
	if err := errors.ValidateStruct(d, errors.ErrCodeInvalidTemplate); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %s", d.ID)
	}
	if err := errors.ValidateSlug(d.ID); err != nil {
		return err
	}

	slugs := make(map[string]bool, len(d.Rings))
	planetLayers := make(map[string]bool)
	for _, r := range d.ordered() {
		if err := errors.ValidateSlug(r.Slug); err != nil {
			return err
		}
		if slugs[r.Slug] {
			return errors.New(errors.ErrCodeInvalidTemplate, "template %s: duplicate ring %q", d.ID, r.Slug)
		}
		slugs[r.Slug] = true

		if err := r.Source.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %s: ring %s", d.ID, r.Slug)
		}

		switch wheel.SourceKind(r.Source.Kind) {
		case wheel.SourceLayerPlanets:
			planetLayers[r.Source.Layer] = true
		case wheel.SourceLayerVargaPlanets:
			planetLayers[varga.SubLayerID(r.Source.Layer, r.Source.Varga)] = true
		case wheel.SourceAspectSet:
			if !setReady(r.Source.Set, planetLayers) {
				return errors.New(errors.ErrCodeInvalidTemplate,
					"template %s: aspect ring %q must come after the planet rings of set %q", d.ID, r.Slug, r.Source.Set)
			}
		}
	}
	return nil
}

func (s Source) validate() error {
	kind := wheel.SourceKind(s.Kind)
	switch kind {
	case wheel.SourceLayerHouses, wheel.SourceLayerPlanets:
		return errors.ValidateLayerID(s.Layer)
	case wheel.SourceLayerVargaPlanets:
		if err := errors.ValidateLayerID(s.Layer); err != nil {
			return err
		}
		_, err := varga.Parse(s.Varga)
		return err
	case wheel.SourceAspectSet:
		if s.Set == "" {
			return errors.New(errors.ErrCodeInvalidTemplate, "aspect-set source needs a set id")
		}
	}
	return nil
}

// Wheel converts the document to a wheel template. Rings are ordered by
// their Order field; rings with equal Order keep their file order.
func (d Document) Wheel() (wheel.Template, error) {
	if err := d.Validate(); err != nil {
		return wheel.Template{}, err
	}

	tpl := wheel.Template{
		ID:          d.ID,
		Name:        d.Name,
		InnerRadius: d.InnerRadius,
		OuterRadius: d.OuterRadius,
	}
	for _, r := range d.ordered() {
		tpl.Rings = append(tpl.Rings, wheel.RingDefinition{
			Slug:        r.Slug,
			Type:        r.Type,
			Label:       r.Label,
			InnerRadius: r.InnerRadius,
			OuterRadius: r.OuterRadius,
			Order:       r.Order,
			Source:      r.Source.dataSource(),
		})
	}
	return tpl, nil
}

func (d Document) ordered() []Ring {
	rings := slices.Clone(d.Rings)
	sort.SliceStable(rings, func(i, j int) bool { return rings[i].Order < rings[j].Order })
	return rings
}

func (s Source) dataSource() wheel.DataSource {
	switch wheel.SourceKind(s.Kind) {
	case wheel.SourceStaticZodiac:
		return wheel.StaticZodiac{}
	case wheel.SourceStaticNakshatra:
		return wheel.StaticNakshatra{}
	case wheel.SourceLayerHouses:
		return wheel.LayerHouses{LayerID: s.Layer}
	case wheel.SourceLayerPlanets:
		return wheel.LayerPlanets{LayerID: s.Layer, IncludeAngles: s.IncludeAngles}
	case wheel.SourceLayerVargaPlanets:
		return wheel.LayerVargaPlanets{LayerID: s.Layer, VargaID: s.Varga}
	case wheel.SourceAspectSet:
		types := make([]aspect.Type, len(s.Types))
		for i, t := range s.Types {
			types[i] = aspect.Type(t)
		}
		return wheel.AspectSetSource{SetID: s.Set, Types: types, MajorOnly: s.MajorOnly}
	}
	return nil
}

// FromWheel converts a wheel template back to its file form.
func FromWheel(t wheel.Template) Document {
	d := Document{
		ID:          t.ID,
		Name:        t.Name,
		InnerRadius: t.InnerRadius,
		OuterRadius: t.OuterRadius,
	}
	for _, r := range t.Rings {
		ring := Ring{
			Slug:        r.Slug,
			Type:        r.Type,
			Label:       r.Label,
			InnerRadius: r.InnerRadius,
			OuterRadius: r.OuterRadius,
			Order:       r.Order,
		}
		switch src := r.Source.(type) {
		case wheel.StaticZodiac, wheel.StaticNakshatra:
			ring.Source = Source{Kind: string(src.Kind())}
		case wheel.LayerHouses:
			ring.Source = Source{Kind: string(src.Kind()), Layer: src.LayerID}
		case wheel.LayerPlanets:
			ring.Source = Source{Kind: string(src.Kind()), Layer: src.LayerID, IncludeAngles: src.IncludeAngles}
		case wheel.LayerVargaPlanets:
			ring.Source = Source{Kind: string(src.Kind()), Layer: src.LayerID, Varga: src.VargaID}
		case wheel.AspectSetSource:
			s := Source{Kind: string(src.Kind()), Set: src.SetID, MajorOnly: src.MajorOnly}
			for _, t := range src.Types {
				s.Types = append(s.Types, string(t))
			}
			ring.Source = s
		}
		d.Rings = append(d.Rings, ring)
	}
	return d
}

// Vargas returns the divisional charts the document's rings reference, as
// layer id to varga ids.
func (d Document) Vargas() map[string][]string {
	out := make(map[string][]string)
	for _, r := range d.Rings {
		if wheel.SourceKind(r.Source.Kind) != wheel.SourceLayerVargaPlanets {
			continue
		}
		if !slices.Contains(out[r.Source.Layer], r.Source.Varga) {
			out[r.Source.Layer] = append(out[r.Source.Layer], r.Source.Varga)
		}
	}
	return out
}

// setReady reports whether the layers named by an "intra:<layer>" or
// "inter:<a>:<b>" set id all have planet rings. Layer ids may contain ':'
// (varga sub-layers), so every split of an inter id is tried. Other set ids
// are not checked.
func setReady(setID string, planetLayers map[string]bool) bool {
	kind, rest, ok := strings.Cut(setID, ":")
	if !ok {
		return true
	}
	switch kind {
	case "intra":
		return planetLayers[rest]
	case "inter":
		for i := 1; i < len(rest)-1; i++ {
			if rest[i] == ':' && planetLayers[rest[:i]] && planetLayers[rest[i+1:]] {
				return true
			}
		}
		return false
	}
	return true
}

// String implements fmt.Stringer.
func (d Document) String() string {
	return fmt.Sprintf("%s (%d rings)", d.Name, len(d.Rings))
}

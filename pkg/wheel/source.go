package wheel

import "github.com/matzehuels/chartwheel/pkg/aspect"

// SourceKind names a DataSource variant.
type SourceKind string

// Data source kinds.
const (
	SourceStaticZodiac      SourceKind = "static-zodiac"
	SourceStaticNakshatra   SourceKind = "static-nakshatra"
	SourceLayerHouses       SourceKind = "layer-houses"
	SourceLayerPlanets      SourceKind = "layer-planets"
	SourceLayerVargaPlanets SourceKind = "layer-varga-planets"
	SourceAspectSet         SourceKind = "aspect-set"
)

// SourceKinds lists every data source kind.
var SourceKinds = []SourceKind{
	SourceStaticZodiac,
	SourceStaticNakshatra,
	SourceLayerHouses,
	SourceLayerPlanets,
	SourceLayerVargaPlanets,
	SourceAspectSet,
}

// DataSource tells the builder where a ring's items come from. The set of
// implementations is closed.
type DataSource interface {
	Kind() SourceKind
	isDataSource()
}

// StaticZodiac emits the twelve signs.
type StaticZodiac struct{}

// StaticNakshatra emits the twenty-seven lunar mansions.
type StaticNakshatra struct{}

// LayerHouses emits one item per house cusp of a layer.
type LayerHouses struct {
	LayerID string
}

// LayerPlanets emits one item per included body of a layer, plus the four
// angles when IncludeAngles is set.
type LayerPlanets struct {
	LayerID       string
	IncludeAngles bool
}

// LayerVargaPlanets emits the bodies of a divisional sub-layer of LayerID.
type LayerVargaPlanets struct {
	LayerID string
	VargaID string
}

// AspectSetSource emits one link per aspect pair whose endpoints are on
// rings built earlier.
type AspectSetSource struct {
	SetID     string
	Types     []aspect.Type // empty allows every type
	MajorOnly bool
}

func (StaticZodiac) Kind() SourceKind      { return SourceStaticZodiac }
func (StaticNakshatra) Kind() SourceKind   { return SourceStaticNakshatra }
func (LayerHouses) Kind() SourceKind       { return SourceLayerHouses }
func (LayerPlanets) Kind() SourceKind      { return SourceLayerPlanets }
func (LayerVargaPlanets) Kind() SourceKind { return SourceLayerVargaPlanets }
func (AspectSetSource) Kind() SourceKind   { return SourceAspectSet }

func (StaticZodiac) isDataSource()      {}
func (StaticNakshatra) isDataSource()   {}
func (LayerHouses) isDataSource()       {}
func (LayerPlanets) isDataSource()      {}
func (LayerVargaPlanets) isDataSource() {}
func (AspectSetSource) isDataSource()   {}

// RingDefinition describes one ring of a template.
type RingDefinition struct {
	Slug        string
	Type        string // visual type, e.g. "zodiac", "planets", "aspects"
	Label       string
	InnerRadius float64
	OuterRadius float64
	Order       int
	Source      DataSource
}

// MidRadius is the radius glyphs are placed on.
func (d RingDefinition) MidRadius() float64 {
	return (d.InnerRadius + d.OuterRadius) / 2
}

// Template is an ordered list of ring definitions. Rings build in slice
// order, so planet rings must precede the aspect rings that reference them.
type Template struct {
	ID          string
	Name        string
	InnerRadius *float64 // overrides the derived wheel radius when set
	OuterRadius *float64
	Rings       []RingDefinition
}

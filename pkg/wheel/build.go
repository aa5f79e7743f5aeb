package wheel

import (
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartwheel/pkg/aspect"
	"github.com/matzehuels/chartwheel/pkg/chart"
	"github.com/matzehuels/chartwheel/pkg/varga"
	"github.com/matzehuels/chartwheel/pkg/wheel/collision"
)

type builder struct {
	layers   map[string]chart.Layer
	sets     map[string]aspect.Set
	vargas   map[string]chart.Layer
	include  []string
	settings chart.Settings
	newID    IDGenerator
	logger   *log.Logger

	// Built rings, in template order.
	built []Ring
	// Planet items by layer id then object id, for aspect endpoints.
	planets map[string]map[string]Endpoint
}

// Build assembles a wheel from a template.
//
// Rings are built in template slice order. A ring whose source cannot be
// found (missing layer, houses or aspect set) is returned with nil Items;
// aspect pairs whose endpoints are not on an earlier planet ring are dropped.
// The only error is an unresolvable glyph collision on a planet ring.
func Build(tpl Template, layers map[string]chart.Layer, sets map[string]aspect.Set, opts ...Option) (Result, error) {
	b := defaultBuilder()
	b.layers = layers
	b.sets = sets
	b.planets = make(map[string]map[string]Endpoint)
	for _, opt := range opts {
		opt(b)
	}

	for _, def := range tpl.Rings {
		ring, err := b.buildRing(def)
		if err != nil {
			return Result{}, err
		}
		b.built = append(b.built, ring)
		if !ring.Resolved() {
			b.logger.Warn("ring unresolved", "ring", def.Slug, "source", ring.Source, "layer", ring.LayerID)
			continue
		}
		b.logger.Debug("built ring", "ring", def.Slug, "items", len(ring.Items))
	}

	inner, outer := wheelRadius(tpl)
	return Result{
		ID:          b.newID(),
		TemplateID:  tpl.ID,
		Name:        tpl.Name,
		InnerRadius: inner,
		OuterRadius: outer,
		Rings:       b.built,
	}, nil
}

func (b *builder) buildRing(def RingDefinition) (Ring, error) {
	ring := Ring{
		ID:          b.newID(),
		Slug:        def.Slug,
		Type:        def.Type,
		Label:       def.Label,
		InnerRadius: def.InnerRadius,
		OuterRadius: def.OuterRadius,
		Order:       def.Order,
	}
	if def.Source == nil {
		return ring, nil
	}
	ring.Source = def.Source.Kind()

	var err error
	switch src := def.Source.(type) {
	case StaticZodiac:
		ring.Items = b.zodiac()
	case StaticNakshatra:
		ring.Items = b.nakshatras()
	case LayerHouses:
		ring.LayerID = src.LayerID
		ring.Items = b.houses(src)
	case LayerPlanets:
		ring.LayerID = src.LayerID
		layer, ok := b.layers[src.LayerID]
		if ok {
			ring.Items, err = b.bodies(ring.ID, def, layer, src.IncludeAngles || b.settings.IncludeAngles)
		}
	case LayerVargaPlanets:
		ring.LayerID = varga.SubLayerID(src.LayerID, src.VargaID)
		layer, ok := b.vargaLayer(src)
		if ok {
			ring.Items, err = b.bodies(ring.ID, def, layer, false)
		}
	case AspectSetSource:
		ring.Items = b.aspects(src)
	}
	return ring, err
}

func (b *builder) zodiac() []Item {
	items := make([]Item, 0, len(chart.Signs))
	for _, s := range chart.Signs {
		start := float64(s.Index) * chart.SignWidth
		items = append(items, SignSegment{
			ID:             b.newID(),
			Index:          s.Index,
			Name:           s.Name,
			Glyph:          s.Glyph,
			StartLongitude: start,
			EndLongitude:   start + chart.SignWidth,
		})
	}
	return items
}

func (b *builder) nakshatras() []Item {
	items := make([]Item, 0, len(chart.Nakshatras))
	for i, name := range chart.Nakshatras {
		items = append(items, SignSegment{
			ID:             b.newID(),
			Index:          i,
			Name:           name,
			StartLongitude: float64(i) * chart.NakshatraWidth,
			EndLongitude:   float64(i+1) * chart.NakshatraWidth,
		})
	}
	return items
}

func (b *builder) houses(src LayerHouses) []Item {
	layer, ok := b.layers[src.LayerID]
	if !ok || !layer.HasHouses() {
		return nil
	}
	cusps := layer.Houses.CuspList()
	items := make([]Item, 0, len(cusps))
	for _, c := range cusps {
		items = append(items, HouseCusp{
			ID:         b.newID(),
			LayerID:    layer.ID,
			HouseIndex: c.Number - 1,
			Longitude:  c.Longitude,
			SignIndex:  chart.SignIndex(c.Longitude),
			SignDegree: chart.SignDegree(c.Longitude),
		})
	}
	return items
}

// bodies places the included bodies of layer, plus its angles when requested,
// and runs collision resolution if enabled.
func (b *builder) bodies(ringID string, def RingDefinition, layer chart.Layer, withAngles bool) ([]Item, error) {
	items := make([]Item, 0, len(layer.Positions)+4)
	for _, id := range layer.ObjectIDs() {
		if !b.includes(id) {
			continue
		}
		p := layer.Positions[id]
		items = append(items, b.planetItem(layer, id, chart.ObjectPlanet, p))
	}

	if withAngles && layer.Houses != nil {
		for _, a := range layer.Houses.Angles.Points() {
			if _, dup := layer.Positions[a.ID]; dup {
				continue
			}
			items = append(items, b.planetItem(layer, a.ID, chart.ObjectPoint, chart.Position{Longitude: a.Longitude}))
		}
	}

	if b.settings.Collision.Enabled {
		if err := b.resolveCollisions(def, items); err != nil {
			return nil, err
		}
	}

	ep := b.planets[layer.ID]
	if ep == nil {
		ep = make(map[string]Endpoint, len(items))
		b.planets[layer.ID] = ep
	}
	for _, it := range items {
		p := it.(PlanetItem)
		if _, seen := ep[p.ObjectID]; seen {
			continue
		}
		ep[p.ObjectID] = Endpoint{
			RingID:    ringID,
			ItemID:    p.ID,
			LayerID:   layer.ID,
			ObjectID:  p.ObjectID,
			Longitude: p.Longitude,
		}
	}
	return items, nil
}

func (b *builder) planetItem(layer chart.Layer, id string, kind chart.ObjectKind, p chart.Position) PlanetItem {
	lon := chart.Normalize(p.Longitude)
	item := PlanetItem{
		ID:         b.newID(),
		LayerID:    layer.ID,
		ObjectID:   id,
		ObjectKind: kind,
		Longitude:  lon,
		Latitude:   p.Latitude,
		Speed:      p.Speed,
		Retrograde: p.Retrograde,
		SignIndex:  chart.SignIndex(lon),
		SignDegree: chart.SignDegree(lon),
	}
	if house, ok := chart.HouseIndex(lon, layer.Houses); ok {
		item.HouseIndex = &house
	}
	return item
}

func (b *builder) resolveCollisions(def RingDefinition, items []Item) error {
	points := make([]collision.Point, len(items))
	radius := b.settings.Collision.FootprintRadius()
	for i, it := range items {
		p := it.(PlanetItem)
		points[i] = collision.Point{ID: p.ID, Angle: p.Longitude, Radius: radius}
	}

	placements, err := collision.Resolve(points, def.MidRadius(),
		collision.WithLogger(b.logger),
		collision.WithDebug(b.settings.Collision.Debug),
	)
	if err != nil {
		b.logger.Error("collision resolution failed", "ring", def.Slug, "error", err)
		return err
	}

	for i, pl := range placements {
		if !pl.Adjusted {
			continue
		}
		p := items[i].(PlanetItem)
		display := pl.DisplayAngle
		p.DisplayLongitude = &display
		items[i] = p
	}
	return nil
}

func (b *builder) vargaLayer(src LayerVargaPlanets) (chart.Layer, bool) {
	id := varga.SubLayerID(src.LayerID, src.VargaID)
	if layer, ok := b.vargas[id]; ok {
		return layer, true
	}
	base, ok := b.layers[src.LayerID]
	if !ok {
		return chart.Layer{}, false
	}
	d, err := varga.Parse(src.VargaID)
	if err != nil {
		b.logger.Warn("unknown divisional chart", "varga", src.VargaID)
		return chart.Layer{}, false
	}
	return varga.Derive(base, d), true
}

func (b *builder) aspects(src AspectSetSource) []Item {
	set, ok := b.sets[src.SetID]
	if !ok {
		return nil
	}

	pairs := set.Filter(src.Types, src.MajorOnly)
	items := make([]Item, 0, len(pairs))
	for _, p := range pairs {
		from, okA := b.endpoint(p.A)
		to, okB := b.endpoint(p.B)
		if !okA || !okB {
			b.logger.Debug("aspect endpoint not on wheel",
				"set", set.ID, "a", p.A.LayerID+"/"+p.A.ObjectID, "b", p.B.LayerID+"/"+p.B.ObjectID)
			continue
		}
		items = append(items, AspectLink{
			ID:     b.newID(),
			SetID:  set.ID,
			Aspect: p.Aspect,
			From:   from,
			To:     to,
		})
	}
	return items
}

func (b *builder) endpoint(ref aspect.ObjectRef) (Endpoint, bool) {
	ep, ok := b.planets[ref.LayerID][ref.ObjectID]
	return ep, ok
}

func (b *builder) includes(id string) bool {
	if b.include != nil {
		return len(b.include) == 0 || slices.Contains(b.include, id)
	}
	return b.settings.Includes(id)
}

func wheelRadius(tpl Template) (float64, float64) {
	inner, outer := math.Inf(1), math.Inf(-1)
	for _, r := range tpl.Rings {
		inner = math.Min(inner, r.InnerRadius)
		outer = math.Max(outer, r.OuterRadius)
	}
	if len(tpl.Rings) == 0 {
		inner, outer = 0, 0
	}
	if tpl.InnerRadius != nil {
		inner = *tpl.InnerRadius
	}
	if tpl.OuterRadius != nil {
		outer = *tpl.OuterRadius
	}
	return inner, outer
}

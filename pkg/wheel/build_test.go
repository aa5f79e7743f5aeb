package wheel

import (
	"encoding/json"
	"reflect"
	"strconv"
	"testing"

	"github.com/matzehuels/chartwheel/pkg/aspect"
	"github.com/matzehuels/chartwheel/pkg/chart"
	"github.com/matzehuels/chartwheel/pkg/errors"
)

// houses with cusp 1 at 10° and equal 30° houses.
func testHouses() *chart.HouseData {
	cusps := make(map[string]float64, 12)
	for i := range 12 {
		cusps[strconv.Itoa(i+1)] = chart.Normalize(10 + float64(i)*30)
	}
	return &chart.HouseData{
		System: "equal",
		Cusps:  cusps,
		Angles: chart.Angles{Ascendant: 10, Midheaven: 280, ImumCoeli: 100, Descendant: 190},
	}
}

func testLayers() map[string]chart.Layer {
	return map[string]chart.Layer{
		"natal": {
			ID: "natal",
			Positions: map[string]chart.Position{
				"sun":     {Longitude: 25, Speed: 0.98},
				"moon":    {Longitude: 145, Speed: 13.1},
				"mars":    {Longitude: 5, Speed: 0.6},
				"jupiter": {Longitude: 205, Speed: 0.1},
			},
			Houses: testHouses(),
		},
		"transit": {
			ID: "transit",
			Positions: map[string]chart.Position{
				"sun": {Longitude: 205},
			},
		},
	}
}

func testTemplate() Template {
	return Template{
		ID:   "test",
		Name: "Test",
		Rings: []RingDefinition{
			{Slug: "zodiac", Type: "zodiac", InnerRadius: 180, OuterRadius: 200, Source: StaticZodiac{}},
			{Slug: "houses", Type: "houses", InnerRadius: 160, OuterRadius: 180, Order: 1, Source: LayerHouses{LayerID: "natal"}},
			{Slug: "natal", Type: "planets", InnerRadius: 120, OuterRadius: 160, Order: 2, Source: LayerPlanets{LayerID: "natal"}},
			{Slug: "aspects", Type: "aspects", InnerRadius: 0, OuterRadius: 120, Order: 3, Source: AspectSetSource{SetID: "intra:natal"}},
		},
	}
}

func testSets() map[string]aspect.Set {
	layers := testLayers()
	return aspect.ComputeAll([]chart.Layer{layers["natal"], layers["transit"]}, chart.Settings{})
}

func mustBuild(t *testing.T, tpl Template, opts ...Option) Result {
	t.Helper()
	opts = append([]Option{WithIDGenerator(SequentialIDs("id"))}, opts...)
	res, err := Build(tpl, testLayers(), testSets(), opts...)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return res
}

func planets(t *testing.T, r Ring) map[string]PlanetItem {
	t.Helper()
	out := map[string]PlanetItem{}
	for _, it := range r.Items {
		p, ok := it.(PlanetItem)
		if !ok {
			t.Fatalf("ring %s has non-planet item %T", r.Slug, it)
		}
		out[p.ObjectID] = p
	}
	return out
}

func TestBuildStaticRings(t *testing.T) {
	tpl := Template{Rings: []RingDefinition{
		{Slug: "signs", Source: StaticZodiac{}},
		{Slug: "nakshatras", Source: StaticNakshatra{}},
	}}
	res := mustBuild(t, tpl)

	signs := res.Rings[0].Items
	if len(signs) != 12 {
		t.Fatalf("got %d signs, want 12", len(signs))
	}
	first := signs[0].(SignSegment)
	if first.Name != "Aries" || first.StartLongitude != 0 || first.EndLongitude != 30 || first.Glyph != "♈" {
		t.Errorf("first sign = %+v", first)
	}
	last := signs[11].(SignSegment)
	if last.Name != "Pisces" || last.EndLongitude != 360 {
		t.Errorf("last sign = %+v", last)
	}

	naks := res.Rings[1].Items
	if len(naks) != 27 {
		t.Fatalf("got %d nakshatras, want 27", len(naks))
	}
	if n := naks[26].(SignSegment); n.Name != "Revati" {
		t.Errorf("last nakshatra = %q", n.Name)
	}
}

func TestBuildHouseIndex(t *testing.T) {
	res := mustBuild(t, testTemplate())
	ring, _ := res.Ring("natal")
	got := planets(t, ring)

	tests := []struct {
		id   string
		want int
	}{
		{"sun", 0},     // 25° is between cusp 1 (10°) and cusp 2 (40°)
		{"mars", 11},   // 5° is in the house that wraps past 0°
		{"moon", 4},    // 145° is between cusp 5 (130°) and cusp 6 (160°)
		{"jupiter", 6}, // 205° is between cusp 7 (190°) and cusp 8 (220°)
	}
	for _, tt := range tests {
		p := got[tt.id]
		if p.HouseIndex == nil {
			t.Errorf("%s has no house", tt.id)
			continue
		}
		if *p.HouseIndex != tt.want {
			t.Errorf("%s house = %d, want %d", tt.id, *p.HouseIndex, tt.want)
		}
	}

	sun := got["sun"]
	if sun.SignIndex != 0 || sun.SignDegree != 25 {
		t.Errorf("sun sign = %d %.2f", sun.SignIndex, sun.SignDegree)
	}
}

func TestBuildNoHouseIndexWithoutHouses(t *testing.T) {
	tpl := Template{Rings: []RingDefinition{{Slug: "transit", Source: LayerPlanets{LayerID: "transit"}}}}
	res := mustBuild(t, tpl)
	p := planets(t, res.Rings[0])["sun"]
	if p.HouseIndex != nil {
		t.Errorf("transit sun should have no house, got %d", *p.HouseIndex)
	}
}

func TestBuildHouseRing(t *testing.T) {
	res := mustBuild(t, testTemplate())
	ring, _ := res.Ring("houses")
	if len(ring.Items) != 12 {
		t.Fatalf("got %d cusps, want 12", len(ring.Items))
	}
	for i, it := range ring.Items {
		c := it.(HouseCusp)
		if c.HouseIndex != i {
			t.Errorf("cusp %d has house index %d", i, c.HouseIndex)
		}
	}
}

func TestBuildAngles(t *testing.T) {
	tpl := Template{Rings: []RingDefinition{{Slug: "natal", Source: LayerPlanets{LayerID: "natal", IncludeAngles: true}}}}
	res := mustBuild(t, tpl)
	got := planets(t, res.Rings[0])
	if len(got) != 8 {
		t.Fatalf("got %d items, want 4 bodies and 4 angles", len(got))
	}
	asc := got[chart.AngleAscendant]
	if asc.ObjectKind != chart.ObjectPoint || asc.Longitude != 10 {
		t.Errorf("asc = %+v", asc)
	}
}

func TestBuildIncludeObjects(t *testing.T) {
	res := mustBuild(t, testTemplate(), WithIncludeObjects([]string{"sun", "moon"}))
	ring, _ := res.Ring("natal")
	got := planets(t, ring)
	if _, ok := got["jupiter"]; ok {
		t.Error("jupiter should be excluded")
	}
	if len(got) != 2 {
		t.Errorf("got %d bodies, want 2", len(got))
	}
}

func TestBuildAspectLinks(t *testing.T) {
	res := mustBuild(t, testTemplate())
	natal, _ := res.Ring("natal")
	asp, _ := res.Ring("aspects")

	// moon-sun trine, jupiter-sun opposition, jupiter-moon sextile
	if len(asp.Items) != 3 {
		t.Fatalf("got %d links, want 3", len(asp.Items))
	}
	for _, it := range asp.Items {
		link := it.(AspectLink)
		for _, ep := range []Endpoint{link.From, link.To} {
			if ep.RingID != natal.ID {
				t.Errorf("endpoint ring = %q, want %q", ep.RingID, natal.ID)
			}
			item, ok := natal.Item(ep.ItemID)
			if !ok {
				t.Errorf("endpoint item %q not on natal ring", ep.ItemID)
				continue
			}
			if item.(PlanetItem).Longitude != ep.Longitude {
				t.Errorf("endpoint longitude mismatch for %s", ep.ObjectID)
			}
		}
	}
}

func TestBuildAspectEndpointsDropped(t *testing.T) {
	tests := []struct {
		name string
		tpl  Template
		opts []Option
	}{
		{
			name: "excluded body",
			tpl:  testTemplate(),
			opts: []Option{WithIncludeObjects([]string{"sun", "mars"})},
		},
		{
			name: "aspect ring before planet ring",
			tpl: Template{Rings: []RingDefinition{
				{Slug: "aspects", Source: AspectSetSource{SetID: "intra:natal"}},
				{Slug: "natal", Source: LayerPlanets{LayerID: "natal"}},
			}},
		},
		{
			name: "other layer not built",
			tpl: Template{Rings: []RingDefinition{
				{Slug: "natal", Source: LayerPlanets{LayerID: "natal"}},
				{Slug: "aspects", Source: AspectSetSource{SetID: "inter:natal:transit"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustBuild(t, tt.tpl, tt.opts...)
			ring, ok := res.Ring("aspects")
			if !ok {
				t.Fatal("missing aspects ring")
			}
			if !ring.Resolved() {
				t.Fatal("aspect ring should resolve even when pairs are dropped")
			}
			if len(ring.Items) != 0 {
				t.Errorf("got %d links, want 0", len(ring.Items))
			}
		})
	}
}

func TestBuildAspectFilters(t *testing.T) {
	tpl := testTemplate()
	tpl.Rings[3].Source = AspectSetSource{SetID: "intra:natal", Types: []aspect.Type{aspect.Trine}}
	res := mustBuild(t, tpl)
	asp, _ := res.Ring("aspects")
	if len(asp.Items) != 1 {
		t.Fatalf("got %d links, want 1", len(asp.Items))
	}
	if got := asp.Items[0].(AspectLink).Aspect.Type; got != aspect.Trine {
		t.Errorf("type = %q, want trine", got)
	}
}

func TestBuildUnresolved(t *testing.T) {
	tpl := Template{Rings: []RingDefinition{
		{Slug: "missing-layer", Source: LayerPlanets{LayerID: "progressed"}},
		{Slug: "missing-houses", Source: LayerHouses{LayerID: "transit"}},
		{Slug: "missing-set", Source: AspectSetSource{SetID: "intra:progressed"}},
		{Slug: "missing-varga", Source: LayerVargaPlanets{LayerID: "progressed", VargaID: "D9"}},
		{Slug: "no-source"},
	}}
	res := mustBuild(t, tpl)

	want := []string{"missing-layer", "missing-houses", "missing-set", "missing-varga", "no-source"}
	if got := res.Unresolved(); !reflect.DeepEqual(got, want) {
		t.Errorf("Unresolved() = %v, want %v", got, want)
	}
}

func TestBuildVargaRing(t *testing.T) {
	tpl := Template{Rings: []RingDefinition{
		{Slug: "d9", Source: LayerVargaPlanets{LayerID: "natal", VargaID: "navamsa"}},
	}}
	res := mustBuild(t, tpl)
	ring := res.Rings[0]
	if ring.LayerID != "natal:D9" {
		t.Errorf("LayerID = %q", ring.LayerID)
	}

	got := planets(t, ring)
	sun := got["sun"]
	if sun.Longitude != 225 { // 25 * 9
		t.Errorf("sun D9 longitude = %v, want 225", sun.Longitude)
	}
	if sun.Speed != 0 || sun.Latitude != 0 {
		t.Errorf("varga items carry no speed or latitude: %+v", sun)
	}
}

func TestBuildVargaFromOption(t *testing.T) {
	sub := chart.Layer{ID: "natal:D9", Positions: map[string]chart.Position{"sun": {Longitude: 42}}}
	tpl := Template{Rings: []RingDefinition{
		{Slug: "d9", Source: LayerVargaPlanets{LayerID: "natal", VargaID: "D9"}},
	}}
	res := mustBuild(t, tpl, WithVargas(map[string]chart.Layer{sub.ID: sub}))
	if got := planets(t, res.Rings[0])["sun"].Longitude; got != 42 {
		t.Errorf("sun = %v, want the supplied 42", got)
	}
}

func TestBuildRadius(t *testing.T) {
	res := mustBuild(t, testTemplate())
	if res.InnerRadius != 0 || res.OuterRadius != 200 {
		t.Errorf("radius = %v..%v, want 0..200", res.InnerRadius, res.OuterRadius)
	}

	tpl := testTemplate()
	inner, outer := 20.0, 250.0
	tpl.InnerRadius, tpl.OuterRadius = &inner, &outer
	res = mustBuild(t, tpl)
	if res.InnerRadius != 20 || res.OuterRadius != 250 {
		t.Errorf("override radius = %v..%v, want 20..250", res.InnerRadius, res.OuterRadius)
	}

	res = mustBuild(t, Template{})
	if res.InnerRadius != 0 || res.OuterRadius != 0 || len(res.Rings) != 0 {
		t.Errorf("empty template = %+v", res)
	}
}

func TestBuildCollision(t *testing.T) {
	settings := chart.Settings{Collision: chart.CollisionConfig{Enabled: true, Radius: 6, Scale: 1}}
	res := mustBuild(t, testTemplate(), WithSettings(settings))
	ring, _ := res.Ring("natal")
	got := planets(t, ring)

	// sun 25° and mars 5° on a 140 radius ring are 48 apart; no overlap.
	for id, p := range got {
		if p.DisplayLongitude != nil {
			t.Errorf("%s should not move, got %v", id, *p.DisplayLongitude)
		}
	}

	settings.Collision.Scale = 5 // footprint 30, sun and mars now overlap
	res = mustBuild(t, testTemplate(), WithSettings(settings))
	ring, _ = res.Ring("natal")
	got = planets(t, ring)
	if got["sun"].DisplayLongitude == nil || got["mars"].DisplayLongitude == nil {
		t.Fatal("sun and mars should both be moved")
	}
	if got["sun"].Longitude != 25 || got["mars"].Longitude != 5 {
		t.Error("true longitudes must not change")
	}
	if *got["sun"].DisplayLongitude <= 25 {
		t.Errorf("sun should move up, got %v", *got["sun"].DisplayLongitude)
	}
}

func TestBuildCollisionCapacity(t *testing.T) {
	settings := chart.Settings{Collision: chart.CollisionConfig{Enabled: true, Radius: 12, Scale: 4}}
	tpl := Template{Rings: []RingDefinition{
		{Slug: "natal", InnerRadius: 40, OuterRadius: 60, Source: LayerPlanets{LayerID: "natal"}},
	}}
	_, err := Build(tpl, testLayers(), nil, WithSettings(settings))
	if !errors.Is(err, errors.ErrCodeUnresolvedCollision) {
		t.Fatalf("err = %v, want unresolved collision", err)
	}
}

func TestBuildDeterministic(t *testing.T) {
	first := mustBuild(t, testTemplate())
	for range 5 {
		again := mustBuild(t, testTemplate())
		if !reflect.DeepEqual(first, again) {
			t.Fatal("Build should be deterministic with a deterministic id generator")
		}
	}
}

func TestBuildUniqueIDs(t *testing.T) {
	res, err := Build(testTemplate(), testLayers(), testSets())
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{res.ID: true}
	for _, r := range res.Rings {
		if seen[r.ID] {
			t.Errorf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
		for _, it := range r.Items {
			if seen[it.ItemID()] {
				t.Errorf("duplicate id %s", it.ItemID())
			}
			seen[it.ItemID()] = true
		}
	}
}

func TestResultJSON(t *testing.T) {
	tpl := testTemplate()
	tpl.Rings = append(tpl.Rings, RingDefinition{Slug: "unresolved", Source: LayerHouses{LayerID: "transit"}})
	res := mustBuild(t, tpl, WithSettings(chart.Settings{
		Collision: chart.CollisionConfig{Enabled: true, Radius: 6, Scale: 5},
	}))

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var back Result
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !reflect.DeepEqual(res, back) {
		t.Error("result should survive a JSON round trip")
	}

	var raw struct {
		Rings []struct {
			Items []map[string]any `json:"items"`
		} `json:"rings"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if kind := raw.Rings[0].Items[0]["kind"]; kind != string(ItemSignSegment) {
		t.Errorf("first item kind = %v", kind)
	}
	if raw.Rings[4].Items != nil {
		t.Error("unresolved ring should encode items as null")
	}
}

func TestRingUnmarshalUnknownKind(t *testing.T) {
	var r Ring
	err := json.Unmarshal([]byte(`{"slug":"x","items":[{"kind":"comet"}]}`), &r)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

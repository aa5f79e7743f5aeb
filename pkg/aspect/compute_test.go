package aspect

import (
	"reflect"
	"testing"

	"github.com/matzehuels/chartwheel/pkg/chart"
)

func natalPositions() map[string]chart.Position {
	return map[string]chart.Position{
		"sun":  {Longitude: 0, Speed: 0.98},
		"moon": {Longitude: 120, Speed: 13.2},
		"mars": {Longitude: 45, Speed: 0.5},
	}
}

func TestComputeIntraLayer(t *testing.T) {
	set := ComputeIntraLayer("natal", natalPositions(), chart.Settings{})

	if set.ID != "intra:natal" {
		t.Errorf("ID = %q", set.ID)
	}
	if set.Kind != IntraLayer {
		t.Errorf("Kind = %q", set.Kind)
	}
	if set.Name != "Natal aspects" {
		t.Errorf("Name = %q", set.Name)
	}
	if len(set.Pairs) != 1 {
		t.Fatalf("got %d pairs, want 1: %+v", len(set.Pairs), set.Pairs)
	}

	p := set.Pairs[0]
	if p.A.ObjectID != "moon" || p.B.ObjectID != "sun" {
		t.Errorf("pair = %s-%s, want moon-sun", p.A.ObjectID, p.B.ObjectID)
	}
	if p.Aspect.Type != Trine {
		t.Errorf("Type = %q, want trine", p.Aspect.Type)
	}
	if p.A.LayerID != "natal" || p.A.Kind != chart.ObjectPlanet {
		t.Errorf("A = %+v", p.A)
	}
}

func TestComputeIntraLayerIncludeObjects(t *testing.T) {
	settings := chart.Settings{IncludeObjects: []string{"sun", "mars"}}
	set := ComputeIntraLayer("natal", natalPositions(), settings)
	if len(set.Pairs) != 0 {
		t.Errorf("moon is excluded, got pairs %+v", set.Pairs)
	}
	if set.Pairs == nil {
		t.Error("Pairs should be an empty slice, not nil")
	}
}

func TestComputeInterLayerSkipsSameBody(t *testing.T) {
	natal := map[string]chart.Position{"sun": {Longitude: 0}}
	transit := map[string]chart.Position{
		"sun":  {Longitude: 0},
		"moon": {Longitude: 180},
	}

	set := ComputeInterLayer("natal", "transit", natal, transit, chart.Settings{})
	if set.ID != "inter:natal:transit" {
		t.Errorf("ID = %q", set.ID)
	}
	if !reflect.DeepEqual(set.LayerIDs, []string{"natal", "transit"}) {
		t.Errorf("LayerIDs = %v", set.LayerIDs)
	}
	if len(set.Pairs) != 1 {
		t.Fatalf("got %d pairs, want 1: %+v", len(set.Pairs), set.Pairs)
	}
	p := set.Pairs[0]
	if p.A.ObjectID != "sun" || p.B.ObjectID != "moon" || p.B.LayerID != "transit" {
		t.Errorf("pair = %+v", p)
	}
	if p.Aspect.Type != Opposition {
		t.Errorf("Type = %q, want opposition", p.Aspect.Type)
	}
}

func TestComputeAll(t *testing.T) {
	layers := []chart.Layer{
		{ID: "natal", Positions: natalPositions()},
		{ID: "transit", Positions: natalPositions()},
		{ID: "progressed", Positions: natalPositions()},
	}

	sets := ComputeAll(layers, chart.Settings{})
	want := []string{
		"intra:natal", "intra:transit", "intra:progressed",
		"inter:natal:transit", "inter:natal:progressed", "inter:transit:progressed",
	}
	if len(sets) != len(want) {
		t.Fatalf("got %d sets, want %d", len(sets), len(want))
	}
	for _, id := range want {
		if _, ok := sets[id]; !ok {
			t.Errorf("missing set %q", id)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	pos := map[string]chart.Position{}
	for i, id := range []string{"sun", "moon", "mercury", "venus", "mars", "jupiter", "saturn"} {
		pos[id] = chart.Position{Longitude: float64(i) * 60, Speed: float64(i) / 10}
	}

	first := ComputeIntraLayer("natal", pos, chart.Settings{})
	for range 10 {
		again := ComputeIntraLayer("natal", pos, chart.Settings{})
		if !reflect.DeepEqual(first, again) {
			t.Fatal("ComputeIntraLayer should be deterministic")
		}
	}
}

func TestAnglesArePoints(t *testing.T) {
	pos := map[string]chart.Position{
		"sun": {Longitude: 10},
		"asc": {Longitude: 10},
	}
	set := ComputeIntraLayer("natal", pos, chart.Settings{})
	if len(set.Pairs) != 1 {
		t.Fatalf("got %d pairs", len(set.Pairs))
	}
	if set.Pairs[0].A.Kind != chart.ObjectPoint {
		t.Errorf("asc kind = %q, want point", set.Pairs[0].A.Kind)
	}
}

func TestSetFilter(t *testing.T) {
	set := Set{Pairs: []Pair{
		{Aspect: Core{Type: Trine}},
		{Aspect: Core{Type: Square}},
		{Aspect: Core{Type: Trine}},
	}}

	if got := set.Filter(nil, false); len(got) != 3 {
		t.Errorf("no filter: got %d", len(got))
	}
	if got := set.Filter([]Type{Square}, false); len(got) != 1 {
		t.Errorf("square only: got %d", len(got))
	}
	if got := set.Filter(nil, true); len(got) != 3 {
		t.Errorf("major only: got %d", len(got))
	}
	if got := set.CountByType(); got[Trine] != 2 || got[Square] != 1 {
		t.Errorf("CountByType = %v", got)
	}
}

package aspectgraph

import (
	"strings"
	"testing"

	"github.com/matzehuels/chartwheel/pkg/aspect"
	"github.com/matzehuels/chartwheel/pkg/chart"
)

func testSet() aspect.Set {
	return aspect.Set{
		ID:       "intra:natal",
		Name:     "Natal aspects",
		Kind:     aspect.IntraLayer,
		LayerIDs: []string{"natal"},
		Pairs: []aspect.Pair{
			{
				A:      aspect.ObjectRef{LayerID: "natal", Kind: chart.ObjectPlanet, ObjectID: "sun"},
				B:      aspect.ObjectRef{LayerID: "natal", Kind: chart.ObjectPlanet, ObjectID: "moon"},
				Aspect: aspect.Core{Type: aspect.Trine, ExactAngle: 120, Orb: 2.5, Applying: true},
			},
			{
				A:      aspect.ObjectRef{LayerID: "natal", Kind: chart.ObjectPlanet, ObjectID: "mars"},
				B:      aspect.ObjectRef{LayerID: "natal", Kind: chart.ObjectPlanet, ObjectID: "sun"},
				Aspect: aspect.Core{Type: aspect.Square, ExactAngle: 90, Orb: 0.05, Exact: true},
			},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testSet(), Options{ShowOrbs: true})

	for _, want := range []string{
		`graph "intra:natal" {`,
		`"natal/sun" [label="sun"];`,
		`"natal/sun" -- "natal/moon"`,
		`label="2.5°"`,
		`style=bold`,
		`color="#2e86c1"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "cluster_") {
		t.Error("intra-layer sets should not use clusters")
	}
}

func TestToDOTFilter(t *testing.T) {
	dot := ToDOT(testSet(), Options{Types: []aspect.Type{aspect.Square}})
	if strings.Contains(dot, "natal/moon") {
		t.Errorf("filtered body should be omitted:\n%s", dot)
	}
	if !strings.Contains(dot, `"natal/mars" -- "natal/sun"`) {
		t.Errorf("square edge missing:\n%s", dot)
	}
	if strings.Contains(dot, "label=\"") && strings.Contains(dot, "°") {
		t.Error("orbs should be hidden unless ShowOrbs is set")
	}
}

func TestToDOTInterLayerClusters(t *testing.T) {
	set := aspect.Set{
		ID:       "inter:natal:transit",
		Name:     "Natal × Transit aspects",
		Kind:     aspect.InterLayer,
		LayerIDs: []string{"natal", "transit"},
		Pairs: []aspect.Pair{{
			A:      aspect.ObjectRef{LayerID: "natal", ObjectID: "sun"},
			B:      aspect.ObjectRef{LayerID: "transit", ObjectID: "sun"},
			Aspect: aspect.Core{Type: aspect.Opposition, Orb: 3},
		}},
	}
	dot := ToDOT(set, Options{})
	for _, want := range []string{`subgraph "cluster_0"`, `subgraph "cluster_1"`, `label="transit";`, `style=dashed`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDeterministic(t *testing.T) {
	if ToDOT(testSet(), Options{}) != ToDOT(testSet(), Options{}) {
		t.Error("ToDOT should be deterministic")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("unexpected svg tag: %s", out)
	}
	if got := normalizeViewBox([]byte("<svg></svg>")); string(got) != "<svg></svg>" {
		t.Error("svg without viewBox should pass through")
	}
}

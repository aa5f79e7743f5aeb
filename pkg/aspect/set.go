package aspect

import (
	"fmt"
	"strings"

	"github.com/matzehuels/chartwheel/pkg/chart"
)

// SetKind distinguishes aspects within one layer from aspects across two.
type SetKind string

// Set kinds.
const (
	IntraLayer SetKind = "intra-layer"
	InterLayer SetKind = "inter-layer"
)

// ObjectRef identifies one endpoint of an aspect.
type ObjectRef struct {
	LayerID  string           `json:"layer_id"`
	Kind     chart.ObjectKind `json:"kind"`
	ObjectID string           `json:"object_id"`
}

// Pair is a classified relationship between two objects.
type Pair struct {
	A      ObjectRef `json:"a"`
	B      ObjectRef `json:"b"`
	Aspect Core      `json:"aspect"`
}

// Set is a named collection of pairs for one or two layers.
type Set struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Kind     SetKind  `json:"kind"`
	LayerIDs []string `json:"layer_ids"`
	Pairs    []Pair   `json:"pairs"`
}

// IntraSetID returns the id of the intra-layer set for layerID.
func IntraSetID(layerID string) string {
	return "intra:" + layerID
}

// InterSetID returns the id of the inter-layer set for the two layers.
func InterSetID(layerA, layerB string) string {
	return "inter:" + layerA + ":" + layerB
}

// Filter returns the pairs whose type passes the allow-list (empty allows
// all) and, when majorOnly is set, belongs to the major set.
func (s Set) Filter(types []Type, majorOnly bool) []Pair {
	allowed := make(map[Type]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}

	var out []Pair
	for _, p := range s.Pairs {
		if len(allowed) > 0 && !allowed[p.Aspect.Type] {
			continue
		}
		if majorOnly && !Major[p.Aspect.Type] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CountByType tallies pairs per aspect type.
func (s Set) CountByType() map[Type]int {
	counts := make(map[Type]int)
	for _, p := range s.Pairs {
		counts[p.Aspect.Type]++
	}
	return counts
}

func setName(layerIDs ...string) string {
	titled := make([]string, len(layerIDs))
	for i, id := range layerIDs {
		if id == "" {
			continue
		}
		titled[i] = strings.ToUpper(id[:1]) + id[1:]
	}
	if len(titled) == 1 {
		return fmt.Sprintf("%s aspects", titled[0])
	}
	return fmt.Sprintf("%s × %s aspects", titled[0], titled[1])
}

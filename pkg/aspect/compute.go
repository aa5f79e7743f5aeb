package aspect

import (
	"slices"

	"github.com/matzehuels/chartwheel/pkg/chart"
)

// ComputeIntraLayer classifies every unordered pair of included objects in
// one layer. Object ids are visited in sorted order.
func ComputeIntraLayer(layerID string, positions map[string]chart.Position, settings chart.Settings) Set {
	orbs := OrbsFromSettings(settings)
	ids := includedIDs(positions, settings)

	set := Set{
		ID:       IntraSetID(layerID),
		Name:     setName(layerID),
		Kind:     IntraLayer,
		LayerIDs: []string{layerID},
		Pairs:    []Pair{},
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := positions[ids[i]], positions[ids[j]]
			core, ok := Calculate(a.Longitude, b.Longitude, a.Speed, b.Speed, orbs)
			if !ok {
				continue
			}
			set.Pairs = append(set.Pairs, Pair{
				A:      ref(layerID, ids[i]),
				B:      ref(layerID, ids[j]),
				Aspect: core,
			})
		}
	}
	return set
}

// ComputeInterLayer classifies the cross product of included objects from two
// layers. A body is never paired with the same body id in the other layer.
func ComputeInterLayer(layerA, layerB string, positionsA, positionsB map[string]chart.Position, settings chart.Settings) Set {
	orbs := OrbsFromSettings(settings)
	idsA := includedIDs(positionsA, settings)
	idsB := includedIDs(positionsB, settings)

	set := Set{
		ID:       InterSetID(layerA, layerB),
		Name:     setName(layerA, layerB),
		Kind:     InterLayer,
		LayerIDs: []string{layerA, layerB},
		Pairs:    []Pair{},
	}

	for _, idA := range idsA {
		for _, idB := range idsB {
			if idA == idB {
				continue
			}
			a, b := positionsA[idA], positionsB[idB]
			core, ok := Calculate(a.Longitude, b.Longitude, a.Speed, b.Speed, orbs)
			if !ok {
				continue
			}
			set.Pairs = append(set.Pairs, Pair{
				A:      ref(layerA, idA),
				B:      ref(layerB, idB),
				Aspect: core,
			})
		}
	}
	return set
}

// ComputeAll returns one intra-layer set per layer and one inter-layer set per
// unordered layer pair, keyed by set id. Pairs follow the order of layers.
func ComputeAll(layers []chart.Layer, settings chart.Settings) map[string]Set {
	sets := make(map[string]Set, len(layers)*(len(layers)+1)/2)
	for i, l := range layers {
		s := ComputeIntraLayer(l.ID, l.Positions, settings)
		sets[s.ID] = s
		for _, other := range layers[i+1:] {
			x := ComputeInterLayer(l.ID, other.ID, l.Positions, other.Positions, settings)
			sets[x.ID] = x
		}
	}
	return sets
}

func includedIDs(positions map[string]chart.Position, settings chart.Settings) []string {
	ids := make([]string, 0, len(positions))
	for id := range positions {
		if settings.Includes(id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func ref(layerID, objectID string) ObjectRef {
	return ObjectRef{LayerID: layerID, Kind: kindOf(objectID), ObjectID: objectID}
}

func kindOf(objectID string) chart.ObjectKind {
	switch objectID {
	case chart.AngleAscendant, chart.AngleMidheaven, chart.AngleImumCoeli, chart.AngleDescendant:
		return chart.ObjectPoint
	}
	return chart.ObjectPlanet
}

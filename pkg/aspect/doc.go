// Package aspect classifies angular relationships between bodies.
//
// # Classification
//
// [Calculate] folds the separation of two longitudes into [0, 180] and tests
// the aspect types in the fixed [Priority] order:
//
//	conjunction (0°), opposition (180°), trine (120°), square (90°), sextile (60°)
//
// The first type whose orb window contains the separation is returned. No
// attempt is made to find the closest match, so when two windows overlap the
// earlier type always wins and at most one aspect is reported per pair.
//
// # Applying and Separating
//
// The signed separation is projected 0.1 day ahead using the relative speed.
// The aspect is applying when the projected separation is closer to the exact
// angle than the current one. Stationary pairs (relative speed under
// 0.01°/day) are applying only when they sit within 0.5° before exactness.
//
// # Sets
//
// [ComputeIntraLayer], [ComputeInterLayer] and [ComputeAll] produce [Set]
// values keyed by [IntraSetID] / [InterSetID]:
//
//	sets := aspect.ComputeAll(layers, settings)
//	natal := sets[aspect.IntraSetID("natal")]
//	transits := sets[aspect.InterSetID("natal", "transit")]
//
// Object ids are visited in sorted order, so identical input always yields
// identical sets.
package aspect

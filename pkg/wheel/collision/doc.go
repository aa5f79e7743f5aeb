// Package collision separates overlapping glyphs placed on a circle.
//
// Each [Point] sits at a true angle and has a circular footprint. [Resolve]
// inserts points one by one into an angle-sorted working list. When a new
// point overlaps an existing one, both are nudged 1° apart, the existing point
// leaves the list and both go back on the insertion stack, so a repair may
// cascade into its neighbours.
//
// True angles are never modified; the result reports a separate display angle
// for every point that moved by more than [DisplayThreshold].
package collision

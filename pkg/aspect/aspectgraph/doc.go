// Package aspectgraph renders an aspect set as a Graphviz diagram.
//
// Bodies become nodes and aspects become undirected edges colored by type.
// The diagram is a diagnostic view of which bodies relate and how tightly;
// it is not the wheel itself.
//
//	dot := aspectgraph.ToDOT(set, aspectgraph.Options{ShowOrbs: true})
//	svg, err := aspectgraph.RenderSVG(ctx, dot)
//
// Separating aspects are drawn dashed and exact aspects bold. In inter-layer
// sets each layer becomes a cluster so the two charts read as two columns.
package aspectgraph

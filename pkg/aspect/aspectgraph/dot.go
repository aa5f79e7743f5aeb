package aspectgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/chartwheel/pkg/aspect"
)

// Options configures the diagram.
type Options struct {
	// Types restricts edges to these aspect types. Empty allows all.
	Types []aspect.Type
	// MajorOnly keeps only major aspects.
	MajorOnly bool
	// ShowOrbs labels each edge with its orb.
	ShowOrbs bool
}

// Colors are the edge colors per aspect type.
var Colors = map[aspect.Type]string{
	aspect.Conjunction: "#7a5c00",
	aspect.Opposition:  "#c0392b",
	aspect.Trine:       "#2e86c1",
	aspect.Square:      "#c0392b",
	aspect.Sextile:     "#27ae60",
}

// ToDOT converts an aspect set to Graphviz DOT. Bodies without an aspect
// that passes the filter are omitted. Output is deterministic.
func ToDOT(set aspect.Set, opts Options) string {
	pairs := set.Filter(opts.Types, opts.MajorOnly)

	nodes := make(map[string][]string) // layer id -> object ids
	for _, p := range pairs {
		for _, ref := range []aspect.ObjectRef{p.A, p.B} {
			if !slices.Contains(nodes[ref.LayerID], ref.ObjectID) {
				nodes[ref.LayerID] = append(nodes[ref.LayerID], ref.ObjectID)
			}
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", set.ID)
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n", set.Name)
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	layers := set.LayerIDs
	if len(layers) == 0 {
		for id := range nodes {
			layers = append(layers, id)
		}
		slices.Sort(layers)
	}
	cluster := set.Kind == aspect.InterLayer
	for i, layerID := range layers {
		ids := slices.Sorted(slices.Values(nodes[layerID]))
		if len(ids) == 0 {
			continue
		}
		indent := "  "
		if cluster {
			fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", i)
			fmt.Fprintf(&buf, "    label=%q;\n", layerID)
			indent = "    "
		}
		for _, id := range ids {
			fmt.Fprintf(&buf, "%s%q [label=%q];\n", indent, nodeID(layerID, id), id)
		}
		if cluster {
			buf.WriteString("  }\n")
		}
	}

	buf.WriteString("\n")
	for _, p := range pairs {
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n",
			nodeID(p.A.LayerID, p.A.ObjectID), nodeID(p.B.LayerID, p.B.ObjectID),
			strings.Join(edgeAttrs(p.Aspect, opts.ShowOrbs), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(layerID, objectID string) string {
	return layerID + "/" + objectID
}

func edgeAttrs(c aspect.Core, showOrbs bool) []string {
	color, ok := Colors[c.Type]
	if !ok {
		color = "black"
	}
	attrs := []string{fmt.Sprintf("color=%q", color), fmt.Sprintf("tooltip=%q", c.Type)}
	if showOrbs {
		attrs = append(attrs, fmt.Sprintf("label=\"%.1f°\"", c.Orb), "fontsize=10")
	}
	switch {
	case c.Exact:
		attrs = append(attrs, "style=bold")
	case !c.Applying:
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with a zero-origin
// viewBox so the image scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

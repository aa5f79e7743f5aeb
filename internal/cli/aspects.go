package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartwheel/pkg/aspect"
	"github.com/matzehuels/chartwheel/pkg/aspect/aspectgraph"
	"github.com/matzehuels/chartwheel/pkg/errors"
	chartio "github.com/matzehuels/chartwheel/pkg/io"
)

// Output formats for the aspects command.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatDOT   = "dot"
	formatSVG   = "svg"
)

// aspectsOpts holds aspects command options.
type aspectsOpts struct {
	format    string
	output    string
	setID     string
	types     string
	majorOnly bool
	showOrbs  bool
	noCache   bool
	refresh   bool
}

// aspectsCommand creates the aspects command.
func (c *CLI) aspectsCommand() *cobra.Command {
	opts := aspectsOpts{format: formatTable}

	cmd := &cobra.Command{
		Use:   "aspects <chart>",
		Short: "Compute the aspects within and between chart layers",
		Long: `Compute aspect sets for every layer of a chart and every pair of layers.

The chart file holds one or more layers (positions, house cusps, angles) and
optional settings such as orbs and zodiac mode. TOML, YAML and JSON are
accepted; the format is taken from the file extension.`,
		Example: `  # Show all aspect sets as tables
  chartwheel aspects natal.toml

  # Major aspects between natal and transit as JSON
  chartwheel aspects transit.toml --set inter:natal:transit --major -f json

  # Render one set as an SVG diagram
  chartwheel aspects natal.toml --set intra:natal -f svg -o natal-aspects.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAspects(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: table, json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&opts.setID, "set", "", "only this aspect set (e.g. intra:natal, inter:natal:transit)")
	cmd.Flags().StringVar(&opts.types, "types", "", "comma-separated aspect types to keep")
	cmd.Flags().BoolVar(&opts.majorOnly, "major", false, "keep major aspects only")
	cmd.Flags().BoolVar(&opts.showOrbs, "orbs", false, "label diagram edges with their orb")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{formatTable, formatJSON, formatDOT, formatSVG}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runAspects computes aspect sets and writes them in the requested format.
func (c *CLI) runAspects(ctx context.Context, stdout io.Writer, path string, opts aspectsOpts) error {
	types, err := parseAspectTypes(opts.types)
	if err != nil {
		return err
	}

	doc, err := chartio.ImportDocument(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := doc.Options()
	popts.Refresh = opts.refresh
	sets, hit, err := runner.Aspects(ctx, popts)
	if err != nil {
		return err
	}
	c.Logger.Debug("aspects computed", "chart", doc.Name, "sets", len(sets), "cached", hit)

	ids := sortedSetIDs(sets)
	if opts.setID != "" {
		if _, ok := sets[opts.setID]; !ok {
			return errors.New(errors.ErrCodeNotFound, "no aspect set %q (available: %s)", opts.setID, strings.Join(ids, ", "))
		}
		ids = []string{opts.setID}
	}

	var buf bytes.Buffer
	switch opts.format {
	case formatTable:
		for _, id := range ids {
			set := sets[id]
			pairs := set.Filter(types, opts.majorOnly)
			fmt.Fprintf(&buf, "%s %s\n", StyleTitle.Render(set.Name), StyleDim.Render("("+id+", "+renderTypeCounts(set)+")"))
			if len(pairs) > 0 {
				buf.WriteString(renderAspectTable(set, pairs))
				buf.WriteString("\n")
			}
			buf.WriteString("\n")
		}
	case formatJSON:
		filtered := make(map[string]aspect.Set, len(ids))
		for _, id := range ids {
			set := sets[id]
			set.Pairs = set.Filter(types, opts.majorOnly)
			filtered[id] = set
		}
		if err := chartio.WriteAspectSets(filtered, &buf); err != nil {
			return err
		}
	case formatDOT, formatSVG:
		if len(ids) != 1 {
			return errors.New(errors.ErrCodeInvalidInput, "--format %s needs --set (available: %s)", opts.format, strings.Join(ids, ", "))
		}
		dot := aspectgraph.ToDOT(sets[ids[0]], aspectgraph.Options{
			Types:     types,
			MajorOnly: opts.majorOnly,
			ShowOrbs:  opts.showOrbs,
		})
		if opts.format == formatDOT {
			buf.WriteString(dot)
			break
		}
		svg, err := aspectgraph.RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
		buf.Write(svg)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (use table, json, dot or svg)", opts.format)
	}

	if opts.output == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Wrote %s", plural(len(ids), "aspect set"))
	printFile(opts.output)
	return nil
}

// parseAspectTypes parses the --types flag against the known aspect types.
func parseAspectTypes(s string) ([]aspect.Type, error) {
	var known []string
	for _, def := range aspect.Priority {
		known = append(known, string(def.Type))
	}
	var out []aspect.Type
	for _, name := range splitList(s) {
		name = strings.ToLower(name)
		if !slices.Contains(known, name) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown aspect type %q (known: %s)", name, strings.Join(known, ", "))
		}
		out = append(out, aspect.Type(name))
	}
	return out, nil
}

func sortedSetIDs(sets map[string]aspect.Set) []string {
	ids := make([]string, 0, len(sets))
	for id := range sets {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

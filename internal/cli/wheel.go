package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartwheel/pkg/errors"
	chartio "github.com/matzehuels/chartwheel/pkg/io"
	"github.com/matzehuels/chartwheel/pkg/pipeline"
)

// wheelOpts holds wheel command options.
type wheelOpts struct {
	template string
	pick     bool
	output   string
	include  string
	jobs     int
	noCache  bool
	refresh  bool
}

// wheelCommand creates the wheel command.
func (c *CLI) wheelCommand() *cobra.Command {
	opts := wheelOpts{jobs: pipeline.DefaultBatchJobs}

	cmd := &cobra.Command{
		Use:   "wheel <chart>...",
		Short: "Assemble charts into wheel layouts",
		Long: `Assemble one or more charts into wheel layouts and write them as JSON.

The template comes from --template, the chart file's own template field, or
the "natal" builtin, in that order. With one chart the wheel is written to
stdout or the --output file. With several charts they are built in parallel
and --output names a directory that receives one <chart>.json per input.`,
		Example: `  # Natal wheel to stdout
  chartwheel wheel natal.toml

  # Transit biwheel with only the luminaries on the planet rings
  chartwheel wheel transit.toml -t transit --include sun,moon -o transit.json

  # Build a folder of charts four at a time
  chartwheel wheel charts/*.toml -o wheels/ -j 4

  # Choose the template interactively
  chartwheel wheel natal.toml --pick`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.pick {
				id, err := pickTemplate(opts.template)
				if err != nil {
					return err
				}
				if id == "" {
					printInfo("No template selected")
					return nil
				}
				opts.template = id
			}
			return c.runWheel(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "builtin template name or template file")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose a builtin template interactively")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or directory when building several charts")
	cmd.Flags().StringVar(&opts.include, "include", "", "comma-separated object ids to keep on planet rings")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "charts built in parallel")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	_ = cmd.RegisterFlagCompletionFunc("template", completeTemplates)

	return cmd
}

// runWheel imports every chart, runs the pipeline and writes the results.
func (c *CLI) runWheel(ctx context.Context, stdout io.Writer, paths []string, opts wheelOpts) error {
	batch := make([]pipeline.Options, 0, len(paths))
	for _, path := range paths {
		doc, err := chartio.ImportDocument(path)
		if err != nil {
			return err
		}
		batch = append(batch, c.wheelOptions(doc, opts))
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if len(batch) == 1 {
		return c.writeSingle(ctx, runner, stdout, batch[0], opts.output)
	}
	return c.writeBatch(ctx, runner, paths, batch, opts)
}

// wheelOptions converts a chart document into pipeline options, applying
// command-line overrides.
func (c *CLI) wheelOptions(doc chartio.Document, opts wheelOpts) pipeline.Options {
	popts := doc.Options()
	if opts.template != "" {
		popts.Template = opts.template
	}
	popts.IncludeObjects = splitList(opts.include)
	popts.Refresh = opts.refresh
	if c.Logger.GetLevel() <= log.DebugLevel {
		popts.Settings.Collision.Debug = true
	}
	return popts
}

func (c *CLI) writeSingle(ctx context.Context, runner *pipeline.Runner, stdout io.Writer, opts pipeline.Options, output string) error {
	spinner := newSpinnerWithContext(ctx, "Building wheel...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return explain(err)
	}

	warnUnresolved(result)
	if output == "" {
		return chartio.WriteResult(result, stdout)
	}
	if err := chartio.ExportResult(result, output); err != nil {
		return err
	}
	printSuccess("Built %s", result.Wheel.Name)
	printStats(result.Stats, result.CacheInfo)
	printFile(output)
	return nil
}

func (c *CLI) writeBatch(ctx context.Context, runner *pipeline.Runner, paths []string, batch []pipeline.Options, opts wheelOpts) error {
	if opts.output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "building %d charts needs --output <dir>", len(batch))
	}
	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", opts.output, err)
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building %d wheels...", len(batch)))
	spinner.Start()
	results, err := runner.ExecuteBatchFunc(ctx, batch, opts.jobs, func(done, total int) {
		spinner.SetMessage(fmt.Sprintf("Building wheels %d/%d...", done, total))
	})
	spinner.Stop()
	if err != nil {
		return explain(err)
	}

	seen := make(map[string]int, len(results))
	for i, result := range results {
		name := outputStem(paths[i])
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		seen[outputStem(paths[i])]++

		path := filepath.Join(opts.output, name+".json")
		if err := chartio.ExportResult(result, path); err != nil {
			return err
		}
		warnUnresolved(result)
		printFile(path)
	}
	prog.done(fmt.Sprintf("Built %d wheels", len(results)))
	return nil
}

// warnUnresolved reports rings whose source was missing from the chart.
func warnUnresolved(result *pipeline.Result) {
	for _, ring := range result.Wheel.Rings {
		if !ring.Resolved() {
			printWarning("%s: ring %q has no data (source %s)", result.Wheel.Name, ring.Slug, ring.Source)
		}
	}
}

// explain adds a hint to errors the user can act on.
func explain(err error) error {
	if errors.Is(err, errors.ErrCodeUnresolvedCollision) {
		printError("Planet symbols do not fit on their ring")
		printNextStep("Try a smaller symbol scale", "settings.collision.scale = 0.8")
	}
	return err
}

func completeTemplates(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	docs, err := builtinDocuments()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID + "\t" + d.Name
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartwheel/pkg/template"
)

// templatesCommand creates the templates command group.
func (c *CLI) templatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "List and show wheel templates",
	}

	cmd.AddCommand(c.templatesListCommand())
	cmd.AddCommand(c.templatesShowCommand())

	return cmd
}

func (c *CLI) templatesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the bundled templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := builtinDocuments()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTemplateTable(docs, -1))
			printNextStep("Show one", "chartwheel templates show <name>")
			return nil
		},
	}
}

func (c *CLI) templatesShowCommand() *cobra.Command {
	format := string(template.FormatTOML)

	cmd := &cobra.Command{
		Use:   "show <name|file>",
		Short: "Print a template definition",
		Long: `Print a template definition in TOML, YAML or JSON.

The output is a valid template file: copy a builtin, edit its rings and pass
the file to "chartwheel wheel --template".`,
		Example: `  chartwheel templates show vedic
  chartwheel templates show natal --format yaml > my-natal.yaml`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTemplates,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := template.ParseFormat(format)
			if err != nil {
				return err
			}
			doc, err := template.Resolve(args[0])
			if err != nil {
				return err
			}
			return template.Encode(cmd.OutOrStdout(), doc, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", format, "output format: toml, yaml, json")

	return cmd
}

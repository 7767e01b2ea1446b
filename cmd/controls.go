package cmd

import (
	"fmt"
	"strings"

	"github.com/fwielstra/vizplugins/controls"
	"github.com/fwielstra/vizplugins/plugins"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func NewControlsCmd() *cobra.Command {
	var pairs []string

	cmd := &cobra.Command{
		Use:   "controls <plugin>",
		Short: "Lists the controls of a plugin",
		Long: `Lists the options a plugin accepts with their defaults. Visibility is
evaluated against the given options, the way a control panel would.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plugins.Lookup(args[0])
			if err != nil {
				return err
			}

			values, err := parseOptions("", pairs)
			if err != nil {
				return err
			}

			descriptors, err := p.Describe(values)
			if err != nil {
				return err
			}

			writeControlsTable(cmd, fmt.Sprintf("Controls of the %s plugin", p.Name()), descriptors)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&pairs, "option", "o", nil, "Plugin option as key=value, repeatable")

	return cmd
}

func writeControlsTable(cmd *cobra.Command, title string, descriptors []controls.Descriptor) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Name", "Label", "Type", "Default", "Visible", "Choices"})

	for _, d := range descriptors {
		t.AppendRow(table.Row{d.Name, d.Label, d.Type, d.Default, d.Visible, choiceValues(d)})
	}
	t.Render()
}

func choiceValues(d controls.Descriptor) string {
	if d.Min != nil && d.Max != nil {
		return fmt.Sprintf("%v..%v", *d.Min, *d.Max)
	}

	values := make([]string, len(d.Choices))
	for i, c := range d.Choices {
		values[i] = c.Value
	}
	return strings.Join(values, ", ")
}

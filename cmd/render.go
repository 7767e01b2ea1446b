package cmd

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fwielstra/vizplugins/config"
	"github.com/fwielstra/vizplugins/sqlite"
	"github.com/spf13/cobra"
)

func NewRenderCmd(db *sql.DB, cfg config.Config) *cobra.Command {
	var (
		pairs       []string
		optionsFile string
		save        string
		job         chartJob
	)

	cmd := &cobra.Command{
		Use:   "render <plugin> <source>",
		Short: "Renders a chart spec for the rows in a file or database",
		Long: `Loads rows from a .json, .csv, .xlsx or sqlite file, or from a sqlite:// or
postgres:// URL, runs the plugin's transform and writes the resulting
echarts option as JSON or as a standalone HTML page.`,
		Example: `  vizplugins render bar sales.csv -o cols=region -o stack=true
  vizplugins render pie sqlite://data/shop.db --query "SELECT region, sales FROM totals" --format html --out pie.html`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := parseOptions(optionsFile, pairs)
			if err != nil {
				return err
			}

			job.Plugin, job.Source, job.Options = args[0], args[1], options
			job.Name = save

			result := renderJob(cmd.Context(), job, cfg, cmd.OutOrStdout(), time.Now())
			if result.Err != nil {
				return result.Err
			}

			if save != "" {
				if err := sqlite.SaveSnapshot(db, result.Snapshot); err != nil {
					return fmt.Errorf("error saving snapshot: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&pairs, "option", "o", nil, "Plugin option as key=value, repeatable")
	cmd.Flags().StringVar(&optionsFile, "options-file", "", "JSON file with plugin options")
	cmd.Flags().StringVar(&job.Query, "query", "", "Query to run against database sources")
	cmd.Flags().StringVar(&job.Sheet, "sheet", "", "Sheet to read from xlsx sources (default the first sheet)")
	cmd.Flags().StringVar(&job.Format, "format", formatJSON, "Output format, json or html")
	cmd.Flags().StringVar(&job.Out, "out", "", "Write the chart to this file instead of stdout")
	cmd.Flags().IntVar(&cfg.Width, "width", cfg.Width, "Chart width in pixels")
	cmd.Flags().IntVar(&cfg.Height, "height", cfg.Height, "Chart height in pixels")
	cmd.Flags().StringVar(&save, "save", "", "Save the rendered spec as a snapshot under this name")

	return cmd
}

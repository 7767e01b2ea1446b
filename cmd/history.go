package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/fwielstra/vizplugins/domain"
	"github.com/fwielstra/vizplugins/plugins"
	"github.com/fwielstra/vizplugins/sqlite"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func NewHistoryCmd(db *sql.DB) *cobra.Command {
	var chartFile string

	cmd := &cobra.Command{
		Use:   "history [name]",
		Short: "Lists saved snapshots, all or those with the given name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var snapshots []domain.Snapshot
			var err error

			name := "all"
			if len(args) > 0 {
				name = fmt.Sprintf("%q", args[0])
				snapshots, err = sqlite.LoadNamedSnapshots(db, args[0])
			} else {
				snapshots, err = sqlite.LoadSnapshots(db)
			}

			if err != nil {
				return err
			}

			writeHistoryTable(cmd, fmt.Sprintf("Snapshots for %s", name), snapshots)

			if chartFile != "" {
				return writeActivityChart(fmt.Sprintf("Rendered charts for %s", name), chartFile, snapshots)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&chartFile, "chart", "", "Also write a chart of snapshots per day to this HTML file")

	return cmd
}

func writeHistoryTable(cmd *cobra.Command, title string, snapshots []domain.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Timestamp", "Name", "Plugin", "Options", "Spec size"})

	for _, s := range snapshots {
		t.AppendRow(table.Row{s.Timestamp.Format("2006-01-02 15:04:05"), s.Name, s.Plugin, s.Options, humanize.Bytes(uint64(len(s.Spec)))})
	}
	t.Render()
}

// writeActivityChart plots the number of snapshots per day and plugin.
func writeActivityChart(title string, filename string, snapshots []domain.Snapshot) error {
	var dates []string
	counts := make(map[string]map[string]int)
	for _, s := range snapshots {
		date := s.Timestamp.Format("2006-01-02")
		if !slices.Contains(dates, date) {
			dates = append(dates, date)
		}
		if counts[s.Plugin] == nil {
			counts[s.Plugin] = make(map[string]int)
		}
		counts[s.Plugin][date]++
	}

	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{
		Title: title,
	}))
	line.SetXAxis(dates)

	for _, plugin := range plugins.Names() {
		data := make([]opts.LineData, len(dates))
		for i, date := range dates {
			data[i] = opts.LineData{Value: counts[plugin][date]}
		}
		line.AddSeries(plugin, data)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("writeActivityChart(): %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("writeActivityChart(): %w", err)
	}

	log.Printf("generated chart at %s", f.Name())
	return nil
}

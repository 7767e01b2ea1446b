package cmd

import (
	"database/sql"
	"os"

	"github.com/fwielstra/vizplugins/config"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. db stores rendered snapshots.
func NewRootCmd(db *sql.DB, cfg config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vizplugins",
		Short: "Pie and bar chart plugins for dashboards",
		Long: `This application turns query results into echarts pie and bar chart
specs, the way a dashboard plugin would. Charts can be rendered from files or
databases on the command line, in batches, or served over an HTTP API.
`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(NewRenderCmd(db, cfg))
	rootCmd.AddCommand(NewControlsCmd())
	rootCmd.AddCommand(NewServeCmd(db, cfg))
	rootCmd.AddCommand(NewHistoryCmd(db))
	rootCmd.AddCommand(NewBatchCmd(db, cfg))

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(db *sql.DB, cfg config.Config) {
	err := NewRootCmd(db, cfg).Execute()
	if err != nil {
		os.Exit(1)
	}
}

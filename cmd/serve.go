package cmd

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/fwielstra/vizplugins/config"
	"github.com/fwielstra/vizplugins/server"
	"github.com/spf13/cobra"
)

func NewServeCmd(db *sql.DB, cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the plugins over an HTTP JSON API",
		Long: `Serves the chart plugins over HTTP. The dashboard posts its rows and options
and receives the echarts option or a rendered page:

  GET  /api/v1/plugins
  GET  /api/v1/plugins/{name}/controls
  POST /api/v1/plugins/{name}/controls
  POST /api/v1/plugins/{name}/transform[?save=<snapshot name>]
  POST /api/v1/plugins/{name}/render[?width=&height=]
  GET  /api/v1/snapshots[?name=]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			srv := server.New(db, newLogger(os.Stdout, "server"), server.Options{
				Width:          cfg.Width,
				Height:         cfg.Height,
				AssetsHost:     cfg.AssetsHost,
				AllowedOrigins: cfg.AllowedOrigins,
			})

			err := srv.ListenAndServe(ctx, cfg.Addr)
			if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "Address to listen on")
	cmd.Flags().StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", cfg.AllowedOrigins, "Origins allowed to call the API")

	return cmd
}

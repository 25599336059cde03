package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/server"
	"github.com/abhisek/profiler/internal/sessions"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assessment over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, true)
		if err != nil {
			return err
		}
		defer d.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			d.cfg.Server.Addr = addr
		}

		ctx := cmd.Context()
		registry, err := sessions.New(ctx, d.cfg.Sessions)
		if err != nil {
			return fmt.Errorf("open session registry: %w", err)
		}
		defer registry.Close()

		d.log.Info("serving",
			zap.String("addr", d.cfg.Server.Addr),
			zap.String("store", d.store.Dialect()),
			zap.String("sessions", d.cfg.Sessions.Backend),
			zap.String("version", version),
		)
		return server.New(d.host, registry, d.store, d.metrics, d.cfg.Server, d.log).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}

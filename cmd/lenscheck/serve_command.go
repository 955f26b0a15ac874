package main

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"lenscheck/internal/logging"
	"lenscheck/internal/provenance"
	"lenscheck/internal/webui"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the drag-and-drop web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			local := *cfg
			if value := strings.TrimSpace(bind); value != "" {
				local.Server.Bind = value
			}

			srv, err := webui.New(&local, provenance.NewAnalyzer(&local, logger), logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(runCtx); err != nil {
				return err
			}
			cmd.Printf("Web UI listening on http://%s\n", srv.Addr())

			<-runCtx.Done()
			srv.Stop()
			logger.Info("web ui stopped", logging.String(logging.FieldEventType, "shutdown"))
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides server.bind)")
	return cmd
}

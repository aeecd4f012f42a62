package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/VladislavFirsov/staffplan/api"
	"github.com/VladislavFirsov/staffplan/internal/metrics"
)

type serveOptions struct {
	addr            string
	shutdownTimeout time.Duration
}

func newServeCommand(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scheduling API over HTTP",
		Long: `Start the HTTP API:

  POST /api/v1/schedules          compute one plan
  POST /api/v1/schedules/compare  run several strategies
  GET  /healthz                   liveness
  GET  /metrics                   Prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().DurationVar(&opts.shutdownTimeout, "shutdown-timeout", 15*time.Second, "time allowed for in-flight requests on shutdown")
	return cmd
}

func runServe(cmd *cobra.Command, global *globalOptions, opts *serveOptions) error {
	ctx := cmd.Context()

	reg, m := metrics.NewRegistry()

	rt, err := global.loadRuntime(cmd, m)
	if err != nil {
		return err
	}
	defer rt.close()

	sc := rt.config.Server
	if opts.addr != "" {
		sc.Addr = opts.addr
	}
	srv := api.NewServer(rt.engine, api.ServerOptions{
		Addr:         sc.Addr,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		MaxBodyBytes: sc.MaxBodyBytes,
		Gatherer:     reg,
		Logger:       rt.logger,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		rt.logger.Info("shutting down http server", "timeout", opts.shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		rt.logger.Info("http server stopped")
		return nil
	}
}

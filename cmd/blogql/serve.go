package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/andrewwphillips/blogql"
)

func (a *app) newServeCmd() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Start the GraphQL server",
		Long: `Start an HTTP server that serves the GraphQL API.

The server exposes:
  - GraphQL endpoint at /graphql (GET, POST or websocket)
  - Prometheus metrics at /metrics (unless disabled in the config)
  - Health check at /health

Examples:
  # Start server on the default address (:8080) with the demo data
  blogql serve

  # Start server on a different port using your own data
  blogql serve --address :3000 --data blog.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				a.cfg.Server.Address = address
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVarP(&address, "address", "a", "", "Address to listen on (overrides server.address in the config)")
	return cmd
}

// newMux creates the routes: the GraphQL endpoint, health check and (optionally) metrics
func (a *app) newMux() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	var m *blogql.Metrics
	if a.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		var err error
		if m, err = blogql.NewMetrics(reg); err != nil {
			return nil, fmt.Errorf("creating metrics: %w", err)
		}
		mux.Handle(a.cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	}

	g := blogql.New(a.store, a.options(m)...)
	h, err := g.GetHandler()
	if err != nil {
		return nil, err
	}
	mux.Handle(a.cfg.Server.Path, h)

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux, nil
}

// serve runs the server until ctx is cancelled (eg by SIGINT) then shuts it down gracefully
func (a *app) serve(ctx context.Context) error {
	mux, err := a.newMux()
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:         a.cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	// Channel to listen for server errors
	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "address", server.Addr, "path", a.cfg.Server.Path)
		serverErr <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		a.logger.Info("server stopped")
	}
	return nil
}

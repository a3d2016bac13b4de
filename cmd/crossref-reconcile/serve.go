// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/crossref-reconcile/internal/crossref"
	"github.com/pdiddy/crossref-reconcile/internal/reconcile"
	"github.com/pdiddy/crossref-reconcile/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reconciliation protocol over HTTP",
	Long: `Serve starts the reconciliation service. Data-cleaning tools point at the
root endpoint, fetch the service manifest, and POST batches of citation
queries; each query returns ranked Crossref candidates with confidence
scores.`,
	Example: `  # Start on the default port 8000
  crossref-reconcile serve

  # Start on a custom port with a contact address for the Crossref polite pool
  crossref-reconcile serve --port 3000 --mailto ops@example.org`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	catalog := crossref.NewClient(cfg.Catalog)
	engine := reconcile.NewEngine(catalog, cfg.Match)
	handler := server.New(engine, catalog, cfg.Server.Domain)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler.Routes(),
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Reconciliation service listening", "addr", addr, "domain", cfg.Server.Domain)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-cmd.Context().Done():
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "err", err)
			return err
		}
		slog.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().String("mailto", "", "contact address for the Crossref polite pool (overrides config)")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("catalog.mailto", serveCmd.Flags().Lookup("mailto"))

	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborlabs/graphqa/pkg/graph"
	"github.com/harborlabs/graphqa/pkg/llm"
	"github.com/harborlabs/graphqa/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the QA HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(verbose)
		ctx := cmd.Context()

		store, err := graph.NewNeo4jStore(ctx, graph.Neo4jConfig{
			URI:      os.Getenv("NEO4J_URI"),
			Database: os.Getenv("NEO4J_DATABASE"),
			Username: os.Getenv("NEO4J_USERNAME"),
			Password: os.Getenv("NEO4J_PASSWORD"),
			Logger:   log,
		})
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		client, err := llm.FromEnv()
		if err != nil {
			return err
		}

		var origins []string
		if o := os.Getenv("CORS_ORIGINS"); o != "" {
			origins = strings.Split(o, ",")
		}

		srv, err := server.New(&server.Config{
			Logger:         log,
			Graph:          store,
			LLM:            client,
			AllowedOrigins: origins,
		})
		if err != nil {
			return err
		}

		server.SetBuildInfo(version, commit, date)

		httpServer := &http.Server{
			Addr:    envOr("LISTEN_ADDR", ":8080"),
			Handler: srv.Router(),
		}

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

		errCh := make(chan error, 1)
		go func() {
			log.Info("API server starting", "addr", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case sig := <-shutdown:
			log.Info("shutting down gracefully", "signal", sig.String())
		}

		// Give existing connections 30 seconds to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown error", "error", err)
			return err
		}
		log.Info("server stopped gracefully")
		return nil
	},
}

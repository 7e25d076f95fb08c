package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lmoreno/pbigen/internal/figma"
	"github.com/lmoreno/pbigen/internal/logger"
	"github.com/lmoreno/pbigen/internal/server"
)

var (
	servePort       int
	serveOrigins    []string
	serveSessionTTL time.Duration
	serveConfigFile string
)

// ServeCmd represents the serve command.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for the form frontend",
	Long: `Run an HTTP server exposing generation, review sessions, HTML
rendering, and board pushing to a browser frontend.`,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	ServeCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "Allowed CORS origin (repeatable, default: all)")
	ServeCmd.Flags().DurationVar(&serveSessionTTL, "session-ttl", time.Hour, "Review session lifetime")
	ServeCmd.Flags().StringVar(&serveConfigFile, "config", "", "Config file (default: .pbigen.yaml)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := loadFileConfig(serveConfigFile)
	if err != nil {
		return err
	}
	if cfgPath != "" {
		logger.Info("loaded config", "path", cfgPath)
	}

	adapter, err := createAdapter(cfg.Model, cfg.MaxTokens)
	if err != nil {
		return err
	}

	srv := server.New(adapter, server.Config{
		AllowedOrigins: serveOrigins,
		SessionTTL:     serveSessionTTL,
		Azure:          cfg.azureConfig(),
	})

	if os.Getenv("FIGMA_TOKEN") != "" {
		figmaClient, err := figma.NewClient("")
		if err == nil {
			srv.WithFigma(figmaClient)
			logger.Info("figma export enabled")
		}
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", servePort),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls are slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", servePort, "model", adapter.Model())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ErrorErr(err, "server failed")
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lolmath/internal/perception"
	"lolmath/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Starts the HTTP API. The catalog is loaded at startup; if that fails the
server still starts, answers 503 on catalog routes and can be retried with
POST /api/catalog/reload. Analysis is disabled when no API key is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	loadCtx, cancel := withTimeout(ctx)
	cat, cleanup, err := loadCatalog(loadCtx)
	cancel()
	defer cleanup()
	if err != nil {
		logger.Error("initial catalog load failed", zap.Error(err))
	}

	var advisor server.Analyzer
	if gen, err := perception.NewGeminiGenerator(ctx, cfg.GeminiOptions()); err != nil {
		logger.Warn("analysis disabled", zap.Error(err))
	} else {
		advisor = perception.NewAdvisor(gen)
	}

	srv := server.New(cat, advisor, logger)
	logger.Info("starting server", zap.String("addr", addr))
	return srv.ListenAndServe(ctx, addr, cfg.GetShutdownTimeout())
}

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daniacca/metabocell/internal/cellular"
)

func main() {
	cfg, err := loadServerConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	logger := NewLogger(cfg.LogLevel)

	srv, err := NewServer(logger, cfg.MaxStepsPerCall)
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}
	defer srv.Close()

	if cfg.ConfigFile != "" {
		tissueCfg, err := loadTissueConfigFromFile(cfg.ConfigFile)
		if err != nil {
			logger.Fatalf("Failed to load tissue config: path=%s error=%v", cfg.ConfigFile, err)
		}
		if _, err := srv.ApplyConfig(cellular.TissueID(cfg.DefaultTissueID), tissueCfg); err != nil {
			logger.Fatalf("Failed to build tissue: path=%s error=%v", cfg.ConfigFile, err)
		}
		logger.Infof("Initial tissue loaded: tissue_id=%s name=%s", cfg.DefaultTissueID, tissueCfg.Name)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Infof("cellsim-server listening on %s (log level %s)", cfg.Addr, logger.Level())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Infof("cellsim-server stopped")
}

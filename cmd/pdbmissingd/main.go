// Command pdbmissingd serves residue ledgers of PDB structures over HTTP.
// It is configured with environment variables; see internal/config.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TuftsBCB/pdbmissing/internal/api"
	"github.com/TuftsBCB/pdbmissing/internal/config"
	"github.com/TuftsBCB/pdbmissing/source"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: config.ReplaceLevel,
	}))
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	remote := source.NewRemote(log, cfg.Mirrors...)
	remote.Client = &http.Client{Timeout: cfg.FetchTimeout}
	remote.MaxBytes = cfg.MaxDecodedBytes
	srv := api.NewServer(remote, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting pdbmissingd", "port", cfg.Port, "mirrors", cfg.Mirrors)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

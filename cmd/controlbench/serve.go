package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bioedlabs/controlbench/internal/catalog"
	"github.com/bioedlabs/controlbench/internal/db"
	"github.com/bioedlabs/controlbench/internal/handler"
	"github.com/bioedlabs/controlbench/internal/repository"
	"github.com/bioedlabs/controlbench/internal/router"
	"github.com/bioedlabs/controlbench/internal/service"
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	pool, err := db.NewPool(cfg.OxiDBHost, cfg.OxiDBPort, cfg.PoolSize, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	repo := repository.NewSubmissionRepo(pool)
	svc := service.NewSubmissionService(repo, logger)

	// Index creation must not block startup; the store may still be
	// warming up.
	go func() {
		if err := repo.EnsureIndexes(); err != nil {
			logger.Warn("index creation failed", zap.Error(err))
		}
	}()

	r := router.New(logger,
		handler.NewCatalogHandler(cat),
		handler.NewSubmissionHandler(svc),
		handler.NewAdminHandler(svc),
	)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

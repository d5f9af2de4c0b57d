package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/linesmerrill/court-records-api/api/handlers"
	"github.com/linesmerrill/court-records-api/api/scheduler"
	"github.com/linesmerrill/court-records-api/config"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := handlers.App{Config: *config.New()}
	defer func() { _ = zap.L().Sync() }()

	if err := a.Initialize(ctx); err != nil {
		zap.S().Fatalw("failed to initialize", "error", err)
	}

	jobs := scheduler.NewScheduler(a.WF.Ledger, a.Limiter, a.Config.StaleRequestAge)
	jobs.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", a.Config.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.S().Infow("court-records-api is up and running",
			"port", a.Config.Port,
			"url", a.Config.BaseURL,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.S().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		jobs.Stop()
		if cerr := a.Close(shutdownCtx); cerr != nil && err == nil {
			err = cerr
		}
		return err
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorw("server exited with error", "error", err)
		os.Exit(1)
	}
}

package application

import (
	"context"
	"os"
	"time"

	"github.com/MirrorChyan/ota-agent/internal/pkg/shutdown"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Adapter interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type App struct {
	logger          *zap.Logger
	adapters        []Adapter
	shutdownTimeout time.Duration
	signals         <-chan os.Signal
}

func New(logger *zap.Logger) *App {
	return &App{
		logger:          logger,
		shutdownTimeout: 5 * time.Second,
	}
}

func (a *App) AddAdapter(adapters ...Adapter) {
	a.adapters = append(a.adapters, adapters...)
}

func (a *App) WithShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
}

// Run starts every adapter and blocks until a termination signal, a failed adapter or ctx ends it.
// All adapters are then stopped concurrently within the shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	if a.signals == nil {
		a.signals = shutdown.Notify(a.logger)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	failed := make(chan error, len(a.adapters))
	for _, adapter := range a.adapters {
		go func(adapter Adapter) {
			if err := adapter.Start(runCtx); err != nil {
				failed <- err
			}
		}(adapter)
	}

	var cause error
	select {
	case sig := <-a.signals:
		a.logger.Info("shutting down...",
			zap.Stringer("signal", sig),
		)
	case cause = <-failed:
		a.logger.Error("adapter start failed, shutting down",
			zap.Error(cause),
		)
	case <-ctx.Done():
		a.logger.Info("shutting down...")
	}

	if err := a.stop(ctx); err != nil {
		a.logger.Error("shutdown failed", zap.Error(err))
		if cause == nil {
			cause = err
		}
	} else {
		a.logger.Info("graceful stopped")
	}
	return cause
}

func (a *App) stop(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.shutdownTimeout)
	defer cancel()

	var g errgroup.Group
	for _, adapter := range a.adapters {
		g.Go(func() error {
			return adapter.Stop(ctxWithTimeout)
		})
	}
	return g.Wait()
}

package logic

import (
	"context"
	"sync"
	"time"

	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/MirrorChyan/ota-agent/internal/pkg/errs"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultRetryInterval = 30 * time.Second

type updater interface {
	CheckForUpdate(ctx context.Context) (Status, error)
	StartUpdate(ctx context.Context) (Status, error)
}

type schedule interface {
	CheckInterval(ctx context.Context) int
	AutoInstall(ctx context.Context) bool
}

// Scheduler checks for updates on the persisted interval and optionally installs them.
type Scheduler struct {
	logger       *zap.Logger
	updater      updater
	schedule     schedule
	enabled      bool
	initialDelay time.Duration
	unit         time.Duration
	retry        *backoff.ExponentialBackOff

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(conf *config.Config, logger *zap.Logger, update *UpdateLogic, settings *SettingsLogic) *Scheduler {
	return newScheduler(logger, update, settings, conf.Update.AutoCheck, conf.Update.InitialDelay, time.Minute, defaultRetryInterval)
}

func newScheduler(logger *zap.Logger, u updater, s schedule, enabled bool, initialDelay, unit, retryInterval time.Duration) *Scheduler {
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = retryInterval
	retry.MaxElapsedTime = 0

	return &Scheduler{
		logger:       logger,
		updater:      u,
		schedule:     s,
		enabled:      enabled,
		initialDelay: initialDelay,
		unit:         unit,
		retry:        retry,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	defer close(s.done)

	if !s.enabled {
		s.logger.Info("Automatic update checks disabled")
		return nil
	}

	wait := s.initialDelay
	for {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-s.stop:
			timer.Stop()
			return nil
		case <-timer.C:
		}
		wait = s.tick(ctx)
	}
}

// tick runs one automatic check and returns the delay until the next one.
func (s *Scheduler) tick(ctx context.Context) time.Duration {
	interval := time.Duration(s.schedule.CheckInterval(ctx)) * s.unit

	status, err := s.updater.CheckForUpdate(ctx)
	switch {
	case errors.Is(err, errs.ErrBusy), errors.Is(err, errs.ErrNotConfigured):
		s.logger.Debug("Automatic check skipped", zap.Error(err))
		return interval
	case err != nil:
		s.logger.Warn("Automatic check rejected", zap.Error(err))
		return interval
	}

	if status.Phase == PhaseFailed {
		s.retry.MaxInterval = interval
		next := s.retry.NextBackOff()
		if next == backoff.Stop || next > interval {
			next = interval
		}
		s.logger.Warn("Automatic check failed, retrying",
			zap.String("message", status.Message),
			zap.Duration("retry in", next),
		)
		return next
	}
	s.retry.Reset()

	if status.UpdateAvailable && s.schedule.AutoInstall(ctx) {
		if _, err := s.updater.StartUpdate(ctx); err != nil {
			s.logger.Warn("Automatic install not started", zap.Error(err))
		} else {
			s.logger.Info("Automatic install started",
				zap.String("latest", status.LatestVersion),
			)
		}
	}
	return interval
}

func (s *Scheduler) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

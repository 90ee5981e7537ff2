package watchdog

import (
	"context"
	"sync"
	"time"

	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"
)

// Heartbeat tells an external liveness monitor that the process is still making progress.
type Heartbeat interface {
	Beat()
}

type HeartbeatFunc func()

func (f HeartbeatFunc) Beat() {
	f()
}

var Nop Heartbeat = HeartbeatFunc(func() {})

// Systemd pings the service manager watchdog. When the unit has no watchdog configured every call is a no-op.
type Systemd struct {
	logger   *zap.Logger
	interval time.Duration
	notify   func(state string) (bool, error)

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func New(conf *config.Config, logger *zap.Logger) *Systemd {
	s := &Systemd{
		logger: logger,
		notify: func(state string) (bool, error) {
			return daemon.SdNotify(false, state)
		},
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if !conf.Watchdog.Systemd {
		return s
	}

	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		logger.Warn("Failed to read systemd watchdog settings", zap.Error(err))
		return s
	}
	s.interval = interval
	if interval > 0 {
		logger.Info("Systemd watchdog enabled", zap.Duration("interval", interval))
	}
	return s
}

func (s *Systemd) Enabled() bool {
	return s.interval > 0
}

func (s *Systemd) Beat() {
	if !s.Enabled() {
		return
	}
	if _, err := s.notify(daemon.SdNotifyWatchdog); err != nil {
		s.logger.Warn("Failed to notify watchdog", zap.Error(err))
	}
}

// Start reports readiness and keeps the watchdog fed at half its interval until Stop.
func (s *Systemd) Start(ctx context.Context) error {
	defer close(s.done)

	if _, err := s.notify(daemon.SdNotifyReady); err != nil {
		s.logger.Warn("Failed to notify readiness", zap.Error(err))
	}
	if !s.Enabled() {
		select {
		case <-ctx.Done():
		case <-s.stop:
		}
		return nil
	}

	ticker := time.NewTicker(s.interval / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		case <-ticker.C:
			s.Beat()
		}
	}
}

func (s *Systemd) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
		_, _ = s.notify(daemon.SdNotifyStopping)
	})
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

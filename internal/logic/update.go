package logic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/MirrorChyan/ota-agent/internal/installer"
	"github.com/MirrorChyan/ota-agent/internal/metrics"
	"github.com/MirrorChyan/ota-agent/internal/pkg/errs"
	"github.com/MirrorChyan/ota-agent/internal/pkg/process"
	"github.com/MirrorChyan/ota-agent/internal/release"
	"github.com/MirrorChyan/ota-agent/internal/staging"
	"github.com/MirrorChyan/ota-agent/internal/vercomp"
	"github.com/MirrorChyan/ota-agent/internal/watchdog"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

type CredentialSource interface {
	Load(ctx context.Context) string
}

type ReleaseResolver interface {
	FetchLatestRelease(ctx context.Context, token string) (*release.Descriptor, error)
	CachedLatestRelease(ctx context.Context, token string) (*release.Descriptor, error)
	Compare(remoteTag string, local vercomp.Version) vercomp.Result
	LocateInstallableAsset(d *release.Descriptor) release.DownloadTarget
}

type FirmwareInstaller interface {
	Install(ctx context.Context, target release.DownloadTarget, token string, region staging.Region, obs installer.Observer) error
}

type Prober interface {
	Probe(ctx context.Context) error
}

// UpdateLogic owns the updater status and runs at most one check or install at a time.
type UpdateLogic struct {
	logger    *zap.Logger
	creds     CredentialSource
	resolver  ReleaseResolver
	installer FirmwareInstaller
	region    staging.Region
	probe     Prober
	heartbeat watchdog.Heartbeat
	restarter process.Restarter
	metrics   *metrics.Collector
	local     vercomp.Version
	grace     time.Duration

	mu     sync.Mutex
	status Status
	runs   sync.WaitGroup
}

func NewUpdateLogic(
	conf *config.Config,
	logger *zap.Logger,
	creds CredentialSource,
	resolver ReleaseResolver,
	installer FirmwareInstaller,
	region staging.Region,
	probe Prober,
	heartbeat watchdog.Heartbeat,
	restarter process.Restarter,
	collector *metrics.Collector,
) *UpdateLogic {
	local := LocalVersion(conf)
	l := &UpdateLogic{
		logger:    logger,
		creds:     creds,
		resolver:  resolver,
		installer: installer,
		region:    region,
		probe:     probe,
		heartbeat: heartbeat,
		restarter: restarter,
		metrics:   collector,
		local:     local,
		grace:     conf.Update.GracePeriod,
		status: Status{
			Phase:          PhaseIdle,
			CurrentVersion: local.String(),
		},
	}
	l.publish()
	return l
}

// LocalVersion is the version of the running build, an explicit version string wins over the build number.
func LocalVersion(conf *config.Config) vercomp.Version {
	if conf.Firmware.Version != "" {
		return vercomp.Parse(conf.Firmware.Version)
	}
	return vercomp.FromBuild(conf.Firmware.Build)
}

func (l *UpdateLogic) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Wait blocks until the background run, if any, has returned.
func (l *UpdateLogic) Wait() {
	l.runs.Wait()
}

func (l *UpdateLogic) update(f func(s *Status)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f(&l.status)
	l.publish()
}

// publish mirrors the status into the gauges. Callers hold l.mu so the gauges follow the
// same order of changes as the status.
func (l *UpdateLogic) publish() {
	l.metrics.SetPhase(l.status.Phase.String(), PhaseNames())
	l.metrics.SetProgress(l.status.Progress, l.status.DownloadedBytes)
}

// acquire moves the updater out of an idle phase. It fails with ErrBusy while another
// operation runs and with ErrNotConfigured when there is no token.
func (l *UpdateLogic) acquire(token string, next func(s *Status)) (Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.status.Phase.Busy() {
		return l.status, errs.ErrBusy
	}
	if token == "" {
		l.status.Phase = PhaseFailed
		l.status.Message = errs.ErrNotConfigured.Message()
		l.publish()
		return l.status, errs.ErrNotConfigured
	}
	next(&l.status)
	l.publish()
	return l.status, nil
}

// CheckForUpdate asks the release source for the latest release and compares it with the
// running version. It runs synchronously and always leaves the updater idle or failed.
func (l *UpdateLogic) CheckForUpdate(ctx context.Context) (Status, error) {
	ctx = context.WithoutCancel(ctx)
	token := l.creds.Load(ctx)

	s, err := l.acquire(token, func(s *Status) {
		s.Phase = PhaseChecking
		s.Message = "Checking for updates..."
	})
	if err != nil {
		l.logger.Info("Update check rejected",
			zap.String("phase", s.Phase.String()),
			zap.Error(err),
		)
		l.metrics.ObserveCheck("rejected")
		return s, err
	}

	l.check(ctx, token)
	return l.Status(), nil
}

func (l *UpdateLogic) check(ctx context.Context, token string) {
	l.heartbeat.Beat()
	err := l.probe.Probe(ctx)
	l.heartbeat.Beat()
	if err != nil {
		l.failCheck(err)
		return
	}

	l.heartbeat.Beat()
	latest, err := l.resolver.FetchLatestRelease(ctx, token)
	l.heartbeat.Beat()

	if errors.Is(err, errs.ErrReleaseNotFound) {
		l.logger.Info("No releases published")
		l.metrics.ObserveCheck("not_found")
		l.update(func(s *Status) {
			s.Phase = PhaseIdle
			s.UpdateAvailable = false
			s.Message = errs.ErrReleaseNotFound.Message()
		})
		return
	}
	if err != nil {
		l.failCheck(err)
		return
	}

	var (
		current = l.local.String()
		result  = l.resolver.Compare(latest.Tag, l.local)
		message string
	)
	switch result {
	case vercomp.Newer:
		message = fmt.Sprintf("Update available: %s (current: %s)", latest.Tag, current)
	case vercomp.Same:
		message = fmt.Sprintf("Already up to date (%s)", current)
	default:
		message = fmt.Sprintf("Latest release %s is older than current %s", latest.Tag, current)
	}

	l.logger.Info("Update check finished",
		zap.String("latest", latest.Tag),
		zap.String("current", current),
		zap.Stringer("result", result),
	)
	l.metrics.ObserveCheck(result.String())

	l.update(func(s *Status) {
		s.Phase = PhaseIdle
		s.LatestVersion = latest.Tag
		s.UpdateAvailable = result == vercomp.Newer
		s.Message = message
	})
}

func (l *UpdateLogic) failCheck(err error) {
	l.logger.Warn("Update check failed", zap.Error(err))
	l.metrics.ObserveCheck("failed")
	l.update(func(s *Status) {
		s.Phase = PhaseFailed
		s.Message = errs.Describe(err, true)
	})
}

// StartUpdate schedules a download and install of the latest release and returns at once.
// A successful run ends with a process restart.
func (l *UpdateLogic) StartUpdate(ctx context.Context) (Status, error) {
	ctx = context.WithoutCancel(ctx)
	token := l.creds.Load(ctx)
	runID := ksuid.New().String()

	s, err := l.acquire(token, func(s *Status) {
		s.Phase = PhaseDownloading
		s.Message = "Fetching firmware URL..."
		s.Progress = 0
		s.TotalBytes = 0
		s.DownloadedBytes = 0
		s.RunID = runID
		l.runs.Add(1)
	})
	if err != nil {
		l.logger.Info("Update start rejected",
			zap.String("phase", s.Phase.String()),
			zap.Error(err),
		)
		return s, err
	}

	go l.run(ctx, runID, token)
	return s, nil
}

func (l *UpdateLogic) run(ctx context.Context, runID, token string) {
	defer l.runs.Done()
	logger := l.logger.With(zap.String("run", runID))
	logger.Info("Update started")

	l.heartbeat.Beat()
	latest, err := l.resolver.CachedLatestRelease(ctx, token)
	l.heartbeat.Beat()
	if err != nil {
		l.failRun(logger, "Failed to get release info: "+errs.Describe(err, true), err)
		return
	}

	target := l.resolver.LocateInstallableAsset(latest)
	logger.Info("Downloading release",
		zap.String("tag", latest.Tag),
		zap.String("url", target.URL),
		zap.Bool("fallback", target.IsFallback()),
	)
	l.update(func(s *Status) {
		s.LatestVersion = latest.Tag
		s.Message = "Downloading firmware..."
	})

	if err := l.installer.Install(ctx, target, token, l.region, runObserver{l}); err != nil {
		l.failRun(logger, errs.Describe(err, true), err)
		return
	}

	l.metrics.ObserveRun("succeeded")
	l.update(func(s *Status) {
		s.Phase = PhaseSucceeded
		s.Progress = 100
		s.DownloadedBytes = s.TotalBytes
		s.Message = "Update successful! Rebooting..."
	})
	logger.Info("Update installed, restarting", zap.Duration("grace", l.grace))

	time.Sleep(l.grace)
	if err := l.restarter.Restart(); err != nil {
		logger.Error("Failed to restart after update", zap.Error(err))
		l.update(func(s *Status) {
			s.Message = "Update installed, restart failed: " + err.Error()
		})
	}
}

func (l *UpdateLogic) failRun(logger *zap.Logger, message string, err error) {
	logger.Error("Update failed", zap.Error(err))
	l.metrics.ObserveRun("failed")
	l.update(func(s *Status) {
		s.Phase = PhaseFailed
		s.Message = message
	})
}

// runObserver publishes installer progress. 100 is reserved for a committed image.
type runObserver struct {
	l *UpdateLogic
}

func (o runObserver) Begin(total int64) {
	o.l.update(func(s *Status) {
		s.Phase = PhaseInstalling
		s.Message = "Installing firmware..."
		s.TotalBytes = total
		s.DownloadedBytes = 0
		s.Progress = 0
	})
}

func (o runObserver) Progress(downloaded, total int64) {
	percent := min(installer.Percent(downloaded, total), 99)
	o.l.update(func(s *Status) {
		s.DownloadedBytes = downloaded
		s.Progress = max(s.Progress, percent)
	})
}

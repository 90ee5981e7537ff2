package logic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MirrorChyan/ota-agent/internal/pkg/errs"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUpdater struct {
	mu     sync.Mutex
	status Status
	err    error
	checks int
	starts int
}

func (f *fakeUpdater) CheckForUpdate(context.Context) (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	return f.status, f.err
}

func (f *fakeUpdater) StartUpdate(context.Context) (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	return f.status, nil
}

func (f *fakeUpdater) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks, f.starts
}

type fakeSchedule struct {
	interval int
	auto     bool
}

func (f fakeSchedule) CheckInterval(context.Context) int {
	return f.interval
}

func (f fakeSchedule) AutoInstall(context.Context) bool {
	return f.auto
}

func TestSchedulerTick(t *testing.T) {
	testCases := []struct {
		Name           string
		Status         Status
		Err            error
		Auto           bool
		ExpectedStarts int
		ExpectedWait   time.Duration
	}{
		{
			Name:           "update available, auto install",
			Status:         Status{Phase: PhaseIdle, UpdateAvailable: true},
			Auto:           true,
			ExpectedStarts: 1,
			ExpectedWait:   10 * time.Minute,
		},
		{
			Name:         "update available, manual install",
			Status:       Status{Phase: PhaseIdle, UpdateAvailable: true},
			ExpectedWait: 10 * time.Minute,
		},
		{
			Name:         "up to date",
			Status:       Status{Phase: PhaseIdle},
			Auto:         true,
			ExpectedWait: 10 * time.Minute,
		},
		{
			Name:         "busy",
			Status:       Status{Phase: PhaseDownloading, UpdateAvailable: true},
			Err:          errs.ErrBusy,
			Auto:         true,
			ExpectedWait: 10 * time.Minute,
		},
		{
			Name:         "not configured",
			Status:       Status{Phase: PhaseFailed},
			Err:          errs.ErrNotConfigured,
			ExpectedWait: 10 * time.Minute,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			u := &fakeUpdater{status: tc.Status, err: tc.Err}
			s := newScheduler(zap.NewNop(), u, fakeSchedule{interval: 10, auto: tc.Auto}, true, 0, time.Minute, time.Second)

			require.Equal(t, tc.ExpectedWait, s.tick(context.Background()))
			checks, starts := u.counts()
			require.Equal(t, 1, checks)
			require.Equal(t, tc.ExpectedStarts, starts)
		})
	}
}

func TestSchedulerBacksOffOnFailure(t *testing.T) {
	u := &fakeUpdater{status: Status{Phase: PhaseFailed, UpdateAvailable: true}}
	s := newScheduler(zap.NewNop(), u, fakeSchedule{interval: 10, auto: true}, true, 0, time.Minute, time.Second)

	var waits []time.Duration
	for i := 0; i < 5; i++ {
		waits = append(waits, s.tick(context.Background()))
	}
	for _, w := range waits {
		require.Greater(t, w, time.Duration(0))
		require.LessOrEqual(t, w, 10*time.Minute)
	}
	require.Less(t, waits[0], 10*time.Minute)

	_, starts := u.counts()
	require.Zero(t, starts)

	u.mu.Lock()
	u.status = Status{Phase: PhaseIdle}
	u.mu.Unlock()
	require.Equal(t, 10*time.Minute, s.tick(context.Background()))
}

func TestSchedulerBackoffCappedByInterval(t *testing.T) {
	u := &fakeUpdater{status: Status{Phase: PhaseFailed}}
	s := newScheduler(zap.NewNop(), u, fakeSchedule{interval: 1}, true, 0, time.Millisecond, time.Second)

	require.Equal(t, time.Millisecond, s.tick(context.Background()))
}

func TestSchedulerStartStop(t *testing.T) {
	u := &fakeUpdater{status: Status{Phase: PhaseIdle, UpdateAvailable: true}}
	s := newScheduler(zap.NewNop(), u, fakeSchedule{interval: 1, auto: true}, true, time.Millisecond, time.Millisecond, time.Millisecond)

	errc := make(chan error, 1)
	go func() {
		errc <- s.Start(context.Background())
	}()

	require.Eventually(t, func() bool {
		_, starts := u.counts()
		return starts >= 2
	}, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, <-errc)
}

func TestSchedulerDisabled(t *testing.T) {
	u := &fakeUpdater{}
	s := newScheduler(zap.NewNop(), u, fakeSchedule{interval: 1}, false, 0, time.Millisecond, time.Millisecond)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	checks, _ := u.counts()
	require.Zero(t, checks)
}

func TestSchedulerRejectedCheck(t *testing.T) {
	u := &fakeUpdater{err: errors.New("boom")}
	s := newScheduler(zap.NewNop(), u, fakeSchedule{interval: 2}, true, 0, time.Minute, time.Second)

	require.Equal(t, 2*time.Minute, s.tick(context.Background()))
}

package process

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"github.com/MirrorChyan/ota-agent/internal/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRestartFailureKeepsStoreOpen(t *testing.T) {
	ctx := context.Background()
	store, err := db.NewSQLite(t.TempDir() + "/ota.db")
	require.NoError(t, err)
	defer store.Close()

	var execs []string
	r := NewRestarter(zap.NewNop())
	r.executable = func() (string, error) { return "/opt/agent/ota-agent", nil }
	r.exec = func(exe string) error {
		execs = append(execs, exe)
		return syscall.ENOEXEC
	}

	err = r.Restart()
	require.ErrorIs(t, err, syscall.ENOEXEC)
	require.Contains(t, err.Error(), "/opt/agent/ota-agent")
	require.Equal(t, []string{"/opt/agent/ota-agent"}, execs)

	require.NoError(t, store.Put(ctx, "ota", "check_interval", "30"))
	val, err := store.Get(ctx, "ota", "check_interval", "")
	require.NoError(t, err)
	require.Equal(t, "30", val)
}

func TestRestartExecutableUnknown(t *testing.T) {
	boom := errors.New("no /proc")
	r := NewRestarter(zap.NewNop())
	r.executable = func() (string, error) { return "", boom }
	r.exec = func(string) error {
		t.Fatal("exec must not run without an executable")
		return nil
	}

	require.ErrorIs(t, r.Restart(), boom)
}

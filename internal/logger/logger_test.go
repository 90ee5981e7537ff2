package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestGetLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, getLevel("debug"))
	require.Equal(t, zapcore.WarnLevel, getLevel("warn"))
	require.Equal(t, zapcore.InfoLevel, getLevel("verbose"))
}

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.log")
	conf := &config.Config{
		Log: config.LogConfig{
			Level:   "debug",
			File:    path,
			MaxSize: 1,
		},
	}

	l := New(conf)
	l.Info("Update check finished", zap.String("latest", "v1.50"))
	_ = l.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "Update check finished")
	require.True(t, level.Enabled(zapcore.DebugLevel))

	SetLevel("error")
	require.False(t, level.Enabled(zapcore.InfoLevel))
}

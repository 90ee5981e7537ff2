//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/MirrorChyan/ota-agent/internal/db"
	"github.com/MirrorChyan/ota-agent/internal/pkg/process"
	"github.com/MirrorChyan/ota-agent/internal/provider"
	"github.com/MirrorChyan/ota-agent/internal/watchdog"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func NewAgent(
	conf *config.Config,
	logger *zap.Logger,
	kv db.Store,
	heartbeat watchdog.Heartbeat,
	restarter process.Restarter,
	reg *prometheus.Registry,
) (*Agent, error) {
	panic(wire.Build(
		provider.ComponentSet,
		provider.LogicSet,
		provider.HandlerSet,
		wire.Struct(new(HandlerSet), "*"),
		wire.Struct(new(Agent), "*"),
	))
}

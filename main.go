package main

import (
	"context"

	"github.com/MirrorChyan/ota-agent/internal/application"
	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/MirrorChyan/ota-agent/internal/db"
	"github.com/MirrorChyan/ota-agent/internal/interfaces/rest"
	"github.com/MirrorChyan/ota-agent/internal/logger"
	"github.com/MirrorChyan/ota-agent/internal/logic"
	"github.com/MirrorChyan/ota-agent/internal/metrics"
	"github.com/MirrorChyan/ota-agent/internal/pkg/process"
	"github.com/MirrorChyan/ota-agent/internal/pkg/restserver"
	"github.com/MirrorChyan/ota-agent/internal/watchdog"
	"github.com/MirrorChyan/ota-agent/internal/wire"
	"go.uber.org/zap"

	_ "github.com/MirrorChyan/ota-agent/internal/banner"
)

// Set at build time, e.g. -ldflags "-X main.Version=v1.50 -X main.FallbackToken=ghp_xxx".
var (
	Version       string
	FallbackToken string
)

func main() {

	conf := setUpConfigAndLog()

	kv, err := db.New(conf)
	if err != nil {
		zap.L().Fatal("failed to open settings store",
			zap.String("driver", conf.Store.Driver),
			zap.Error(err),
		)
	}
	defer func(kv db.Store) {
		if err := kv.Close(); err != nil {
			zap.L().Error("failed to close settings store", zap.Error(err))
		}
	}(kv)

	var (
		heartbeat = watchdog.New(conf, zap.L())
		restarter = process.NewRestarter(zap.L())
		registry  = metrics.NewRegistry()
	)

	agent, err := wire.NewAgent(conf, zap.L(), kv, heartbeat, restarter, registry)
	if err != nil {
		zap.L().Fatal("failed to initialize updater",
			zap.Error(err),
		)
	}

	zap.L().Info("OTA agent starting",
		zap.String("version", logic.LocalVersion(conf).String()),
		zap.String("release", conf.Release.Owner+"/"+conf.Release.Repo),
		zap.Int("port", conf.Server.Port),
	)

	router := rest.NewRouter()
	rest.InitRoutes(router, conf, agent.Handlers)

	app := application.New(zap.L())
	app.AddAdapter(
		restserver.NewAdapter(conf, zap.L(), router),
		agent.Scheduler,
		heartbeat,
	)

	if err := app.Run(context.Background()); err != nil {
		zap.L().Error("agent stopped with error", zap.Error(err))
	}
}

func setUpConfigAndLog() *config.Config {
	conf := config.New()
	if Version != "" && conf.Firmware.Version == "" {
		conf.Firmware.Version = Version
	}
	if FallbackToken != "" && conf.Credential.Token == "" {
		conf.Credential.Token = FallbackToken
	}
	zap.ReplaceGlobals(logger.New(conf))
	return conf
}

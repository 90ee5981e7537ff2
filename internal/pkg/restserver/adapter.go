package restserver

import (
	"context"
	"fmt"

	"github.com/MirrorChyan/ota-agent/internal/application"
	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func NewAdapter(conf *config.Config, logger *zap.Logger, restServer *fiber.App) application.Adapter {
	return &Adapter{
		addr:       fmt.Sprintf(":%d", conf.Server.Port),
		logger:     logger,
		restServer: restServer,
	}
}

type Adapter struct {
	addr       string
	logger     *zap.Logger
	restServer *fiber.App
}

func (a *Adapter) Start(ctx context.Context) error {
	a.logger.Info("Listening", zap.String("addr", a.addr))
	return a.restServer.Listen(a.addr)
}

func (a *Adapter) Stop(ctx context.Context) error {
	return a.restServer.ShutdownWithContext(ctx)
}

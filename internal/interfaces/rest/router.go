package rest

import (
	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/MirrorChyan/ota-agent/internal/interfaces/rest/handler"
	"github.com/MirrorChyan/ota-agent/internal/middleware"
	"github.com/MirrorChyan/ota-agent/internal/wire"
	"github.com/bytedance/sonic"
	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const BodyLimit = 64 * 1024

func NewRouter() *fiber.App {

	router := fiber.New(fiber.Config{
		AppName:               "ota-agent",
		BodyLimit:             BodyLimit,
		DisableStartupMessage: true,

		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,

		ErrorHandler: handler.Error,
	})

	return router
}

func InitRoutes(router *fiber.App, conf *config.Config, handlerSet *wire.HandlerSet) {

	router.Use(fiberzap.New(fiberzap.Config{
		Logger: zap.L(),
		SkipURIs: []string{
			"/metrics",
			"/health",
		},
	}))

	ota := router.Group("/ota", middleware.NewBasicAuth(conf))

	handlerSet.UpdateHandler.Register(ota)

	handlerSet.ConfigHandler.Register(ota)

	r := router.Group("/")

	handlerSet.MetricsHandler.Register(r)

	handlerSet.HealthCheckHandler.Register(r)
}

package provider

import (
	"github.com/MirrorChyan/ota-agent/internal/interfaces/rest/handler"
	"github.com/MirrorChyan/ota-agent/internal/logic"
	"github.com/google/wire"
)

var HandlerSet = wire.NewSet(
	handler.NewUpdateHandler,
	wire.Bind(new(handler.Updater), new(*logic.UpdateLogic)),

	handler.NewConfigHandler,
	wire.Bind(new(handler.Settings), new(*logic.SettingsLogic)),

	handler.NewMetricsHandler,
	handler.NewHealthCheckHandler,
)

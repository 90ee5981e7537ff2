package wire

import (
	"github.com/MirrorChyan/ota-agent/internal/interfaces/rest/handler"
	"github.com/MirrorChyan/ota-agent/internal/logic"
)

type HandlerSet struct {
	UpdateHandler      *handler.UpdateHandler
	ConfigHandler      *handler.ConfigHandler
	MetricsHandler     *handler.MetricsHandler
	HealthCheckHandler *handler.HealthCheckHandler
}

// Agent is everything main needs after injection.
type Agent struct {
	Handlers  *HandlerSet
	Scheduler *logic.Scheduler
}

package provider

import (
	"github.com/MirrorChyan/ota-agent/internal/logic"
	"github.com/google/wire"
)

var LogicSet = wire.NewSet(
	logic.NewUpdateLogic,
	logic.NewSettingsLogic,
	logic.NewScheduler,
)

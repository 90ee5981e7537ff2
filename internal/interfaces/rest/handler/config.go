package handler

import (
	"context"

	"github.com/MirrorChyan/ota-agent/internal/model"
	"github.com/MirrorChyan/ota-agent/internal/pkg/restserver/response"
	"github.com/MirrorChyan/ota-agent/internal/pkg/validator"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Settings interface {
	Settings(ctx context.Context) *model.SettingsResponse
	Apply(ctx context.Context, req *model.UpdateSettingsRequest) (*model.SettingsResponse, error)
}

type ConfigHandler struct {
	logger   *zap.Logger
	settings Settings
}

func NewConfigHandler(logger *zap.Logger, settings Settings) *ConfigHandler {
	return &ConfigHandler{
		logger:   logger,
		settings: settings,
	}
}

func (h *ConfigHandler) Register(r fiber.Router) {
	r.Get("/config", h.Get)
	r.Post("/config", h.Update)
}

func (h *ConfigHandler) Get(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(response.Success(h.settings.Settings(c.UserContext())))
}

func (h *ConfigHandler) Update(c *fiber.Ctx) error {
	var req model.UpdateSettingsRequest
	if err := validator.ValidateBody(c, &req); err != nil {
		return err
	}

	resp, err := h.settings.Apply(c.UserContext(), &req)
	if err != nil {
		h.logger.Error("Failed to save settings",
			zap.Error(err),
		)
		return err
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(resp, "Settings saved"))
}
